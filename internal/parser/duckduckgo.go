package parser

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

const (
	duckDuckGoHost = "duckduckgo.com"
	// minOpaqueURLLength is the shortest extension-less URL still taken as a
	// real image reference.
	minOpaqueURLLength = 20
)

// DuckDuckGoChain returns the heuristics for DuckDuckGo image results.
func DuckDuckGoChain() Chain {
	return Chain{
		{Name: "result-link", Find: duckDuckGoLinks},
		{Name: "tile-image", Find: duckDuckGoTiles},
		{Name: "any-image", Find: firstImageByExtension(".jpg", ".png", ".jpeg", ".webp")},
	}
}

func duckDuckGoLinks(doc *goquery.Document, base *url.URL) (string, bool) {
	var found string
	doc.Find("a[data-id]").EachWithBreak(func(_ int, a *goquery.Selection) bool {
		img := a.Find("img").First()
		if img.Length() == 0 {
			return true
		}
		u, ok := absolute(base, imageSource(img))
		if !ok || strings.Contains(u, duckDuckGoHost) {
			return true
		}
		found = u
		return false
	})
	return found, found != ""
}

func duckDuckGoTiles(doc *goquery.Document, base *url.URL) (string, bool) {
	var found string
	doc.Find(".tile--img__img, img[data-id]").EachWithBreak(func(_ int, img *goquery.Selection) bool {
		u, ok := absolute(base, imageSource(img))
		if !ok || len(u) <= minOpaqueURLLength {
			return true
		}
		found = u
		return false
	})
	return found, found != ""
}
