package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/maltedev/county-image-crawler/internal/database"
	"github.com/maltedev/county-image-crawler/internal/mapasset"
	"github.com/maltedev/county-image-crawler/internal/models"
)

const (
	msgNoData        = "no data, run seed first"
	msgInternalError = "internal server error"
)

// CountyStore serves merged county records.
type CountyStore interface {
	RandomCounty(ctx context.Context) (*models.County, error)
}

// MapSource describes one map route: the local file and its upstream copy.
type MapSource struct {
	File        string
	UpstreamURL string
	ContentType string
}

type Handlers struct {
	store     CountyStore
	assetsDir string
	client    *http.Client
	userAgent string
	logger    *slog.Logger
}

type HandlerOptions struct {
	AssetsDir string
	UserAgent string
	// Transport overrides the upstream HTTP transport, mainly for tests.
	Transport http.RoundTripper
	Timeout   time.Duration
}

func NewHandlers(store CountyStore, opts HandlerOptions, logger *slog.Logger) *Handlers {
	if opts.Timeout <= 0 {
		opts.Timeout = 15 * time.Second
	}
	if opts.UserAgent == "" {
		opts.UserAgent = "Mozilla/5.0"
	}
	return &Handlers{
		store:     store,
		assetsDir: opts.AssetsDir,
		client:    &http.Client{Timeout: opts.Timeout, Transport: opts.Transport},
		userAgent: opts.UserAgent,
		logger:    logger.With("component", "api"),
	}
}

// MapSources returns the raster and vector map routes.
func MapSources() []MapSource {
	return []MapSource{
		{File: mapasset.RasterFile, UpstreamURL: mapasset.OnlineRasterURL, ContentType: "image/png"},
		{File: mapasset.VectorFile, UpstreamURL: mapasset.OnlineVectorURL, ContentType: "image/svg+xml"},
	}
}

// GetRandom returns one random county record.
func (h *Handlers) GetRandom(w http.ResponseWriter, r *http.Request) {
	county, err := h.store.RandomCounty(r.Context())
	if err != nil {
		if errors.Is(err, database.ErrNoData) {
			h.respondError(w, http.StatusNotFound, msgNoData)
			return
		}
		h.logger.Error("failed to load random county", "error", err)
		h.respondError(w, http.StatusInternalServerError, msgInternalError)
		return
	}

	h.respondJSON(w, http.StatusOK, county)
}

// Health reports liveness.
func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	h.respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// ServeMap serves the local map file, else proxies the upstream copy, else
// redirects the client to it.
func (h *Handlers) ServeMap(src MapSource) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		local := filepath.Join(h.assetsDir, src.File)
		if info, err := os.Stat(local); err == nil && info.Mode().IsRegular() {
			http.ServeFile(w, r, local)
			return
		}

		if err := h.proxy(r.Context(), w, src); err != nil {
			h.logger.Warn("map proxy failed, redirecting", "file", src.File, "error", err)
			http.Redirect(w, r, src.UpstreamURL, http.StatusFound)
		}
	}
}

// proxy writes nothing to w unless the upstream answered 2xx.
func (h *Handlers) proxy(ctx context.Context, w http.ResponseWriter, src MapSource) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, src.UpstreamURL, nil)
	if err != nil {
		return err
	}
	req.Header.Set("User-Agent", h.userAgent)

	resp, err := h.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("upstream returned HTTP %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read upstream body: %w", err)
	}

	contentType := resp.Header.Get("Content-Type")
	if contentType == "" {
		contentType = src.ContentType
	}
	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
	return nil
}

func (h *Handlers) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("failed to encode response", "error", err)
	}
}

func (h *Handlers) respondError(w http.ResponseWriter, status int, message string) {
	h.respondJSON(w, status, map[string]string{"error": message})
}
