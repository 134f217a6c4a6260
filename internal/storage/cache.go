package storage

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/maltedev/county-image-crawler/internal/models"
)

// AssetCache is the on-disk image tree: <root>/<category>/<base>.<ext>.
type AssetCache struct {
	root string
}

func NewAssetCache(root string) *AssetCache {
	return &AssetCache{root: root}
}

func (c *AssetCache) Root() string {
	return c.root
}

// Prepare creates every category directory.
func (c *AssetCache) Prepare() error {
	for _, cat := range models.Categories() {
		if err := os.MkdirAll(c.Dir(cat), 0o755); err != nil {
			return fmt.Errorf("create %s directory: %w", cat, err)
		}
	}
	return nil
}

// Dir is the directory holding files for a category.
func (c *AssetCache) Dir(cat models.Category) string {
	return filepath.Join(c.root, string(cat))
}

// Target is the filesystem path for filename in a category.
func (c *AssetCache) Target(cat models.Category, filename string) string {
	return filepath.Join(c.Dir(cat), filename)
}

// Lookup returns the public path of an already downloaded image for base,
// trying the recognized extensions in order. It never touches the network.
func (c *AssetCache) Lookup(cat models.Category, base string) (string, bool) {
	for _, ext := range models.ImageExtensions {
		filename := base + "." + ext
		info, err := os.Stat(c.Target(cat, filename))
		if err != nil || !info.Mode().IsRegular() {
			continue
		}
		return models.AssetPath(cat, filename), true
	}
	return "", false
}
