package scraper

import "github.com/maltedev/county-image-crawler/internal/models"

// ResolveProvider picks the provider for an attempt. Fresh runs start with the
// primary provider, retry runs with the secondary; later attempts alternate,
// even attempts going to the secondary.
func ResolveProvider(attempt int, retryMode bool) models.ProviderID {
	if attempt <= 1 {
		if retryMode {
			return models.ProviderSecondary
		}
		return models.ProviderPrimary
	}
	if attempt%2 == 0 {
		return models.ProviderSecondary
	}
	return models.ProviderPrimary
}
