package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/maltedev/county-image-crawler/internal/models"
)

// ResultFile persists a ResultSet as one indented JSON document.
type ResultFile struct {
	path string
}

func NewResultFile(path string) *ResultFile {
	return &ResultFile{path: path}
}

func (r *ResultFile) Path() string {
	return r.path
}

// Load reads the stored set. A missing file yields an error matching
// os.ErrNotExist.
func (r *ResultFile) Load() (models.ResultSet, error) {
	data, err := os.ReadFile(r.path)
	if err != nil {
		return nil, err
	}

	set := models.ResultSet{}
	if err := json.Unmarshal(data, &set); err != nil {
		return nil, fmt.Errorf("decode %s: %w", r.path, err)
	}
	return set, nil
}

// Save writes the whole set, replacing the previous file atomically.
func (r *ResultFile) Save(set models.ResultSet) error {
	if set == nil {
		set = models.ResultSet{}
	}

	data, err := json.MarshalIndent(set, "", "  ")
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(r.path), 0o755); err != nil {
		return err
	}

	// Write to temp file first for atomicity
	tmpFile := r.path + ".tmp"
	if err := os.WriteFile(tmpFile, data, 0o644); err != nil {
		return err
	}

	return os.Rename(tmpFile, r.path)
}
