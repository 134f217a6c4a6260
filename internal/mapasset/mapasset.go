package mapasset

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/maltedev/county-image-crawler/internal/metrics"
)

const (
	RasterFile = "china-map.png"
	VectorFile = "china-map.svg"

	// Online references served when no local copy could be fetched.
	OnlineRasterURL = "https://upload.wikimedia.org/wikipedia/commons/thumb/9/92/China_blank_map.svg/400px-China_blank_map.svg.png"
	OnlineVectorURL = "https://upload.wikimedia.org/wikipedia/commons/9/92/China_blank_map.svg"
)

// Candidate is one download source for the map.
type Candidate struct {
	Label     string
	URL       string
	Extension string
}

// DefaultCandidates lists the map sources in the order they are tried.
func DefaultCandidates() []Candidate {
	return []Candidate{
		{Label: "Wikipedia SVG (9/92)", URL: OnlineVectorURL, Extension: ".svg"},
		{Label: "Wikipedia 400px (9/92)", URL: OnlineRasterURL, Extension: ".png"},
		{Label: "Wikipedia grey SVG", URL: "https://upload.wikimedia.org/wikipedia/commons/2/23/China_blank_map_grey.svg", Extension: ".svg"},
		{Label: "Wikipedia 800px (9/92)", URL: "https://upload.wikimedia.org/wikipedia/commons/thumb/9/92/China_blank_map.svg/800px-China_blank_map.svg.png", Extension: ".png"},
		{Label: "SimpleMaps SVG", URL: "https://simplemaps.com/static/svg/country/cn/admin1/cn.svg", Extension: ".svg"},
	}
}

// Downloader stores the body of a URL at a path.
type Downloader interface {
	Download(ctx context.Context, url, dest string) (int64, error)
}

// Resolver makes sure a single map file exists under the assets directory.
type Resolver struct {
	downloader Downloader
	dir        string
	candidates []Candidate
	metrics    *metrics.Metrics
	logger     *slog.Logger
}

func NewResolver(d Downloader, assetsDir string, candidates []Candidate, m *metrics.Metrics, logger *slog.Logger) *Resolver {
	if candidates == nil {
		candidates = DefaultCandidates()
	}
	return &Resolver{
		downloader: d,
		dir:        assetsDir,
		candidates: candidates,
		metrics:    m,
		logger:     logger.With("component", "map_asset"),
	}
}

// Existing returns the path of a map already on disk, raster checked first.
func Existing(assetsDir string) (string, bool) {
	for _, name := range []string{RasterFile, VectorFile} {
		p := filepath.Join(assetsDir, name)
		if info, err := os.Stat(p); err == nil && info.Mode().IsRegular() {
			return p, true
		}
	}
	return "", false
}

// Resolve downloads the first working candidate unless a map is present. It
// returns the local path and false when every candidate failed, which callers
// treat as "use the online reference".
func (r *Resolver) Resolve(ctx context.Context) (string, bool) {
	if p, ok := Existing(r.dir); ok {
		r.logger.Info("map asset already present, skipping download", "path", p)
		return p, true
	}

	if err := os.MkdirAll(r.dir, 0o755); err != nil {
		r.logger.Warn("failed to create assets directory", "dir", r.dir, "error", err)
		return "", false
	}

	r.logger.Info("downloading map asset", "candidates", len(r.candidates))
	for i, c := range r.candidates {
		if ctx.Err() != nil {
			return "", false
		}

		dest := filepath.Join(r.dir, fileFor(c.Extension))
		if _, err := r.downloader.Download(ctx, c.URL, dest); err != nil {
			r.metrics.IncMapAttempt("failure")
			r.logger.Warn("map candidate failed", "candidate", c.Label, "index", i+1, "error", err)
			continue
		}

		r.metrics.IncMapAttempt("success")
		r.logger.Info("map asset saved", "path", dest, "candidate", c.Label)
		return dest, true
	}

	r.logger.Warn("all map candidates failed, online fallback will be used")
	return "", false
}

func fileFor(ext string) string {
	if ext == ".svg" {
		return VectorFile
	}
	return RasterFile
}
