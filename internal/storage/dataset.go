package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/maltedev/county-image-crawler/internal/models"
)

var ErrInvalidDataset = errors.New("invalid dataset")

// LoadWorkItems reads the input dataset, an array of {name, food, hotel}
// objects. Every entry must carry a name.
func LoadWorkItems(path string) ([]models.WorkItem, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read dataset: %w", err)
	}

	var items []models.WorkItem
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDataset, err)
	}

	for i, item := range items {
		if strings.TrimSpace(item.Name) == "" {
			return nil, fmt.Errorf("%w: entry %d has no name", ErrInvalidDataset, i)
		}
	}

	return items, nil
}
