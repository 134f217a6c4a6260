package models

import (
	"fmt"
	"strings"
	"unicode"
)

// WorkItem is one entry of the input dataset. Order in the dataset defines
// processing order and the index used in generated filenames.
type WorkItem struct {
	Name        string  `json:"name"`
	Food        string  `json:"food"`
	Hotel       string  `json:"hotel"`
	Price       int     `json:"price,omitempty"`
	FoodNameEn  string  `json:"food_name_en,omitempty"`
	HotelNameEn string  `json:"hotel_name_en,omitempty"`
	Province    string  `json:"province,omitempty"`
	GDPRank     int     `json:"gdp_rank,omitempty"`
	Lat         float64 `json:"lat,omitempty"`
	Lng         float64 `json:"lng,omitempty"`
}

// Query returns the search query used for the given category.
func (w WorkItem) Query(c Category) string {
	if c == CategoryHotel {
		return w.Hotel
	}
	return w.Food
}

// Category is the kind of image acquired for an item.
type Category string

const (
	CategoryFood  Category = "food"
	CategoryHotel Category = "hotel"
)

// Categories lists the categories in processing order.
func Categories() []Category {
	return []Category{CategoryFood, CategoryHotel}
}

func (c Category) String() string {
	return string(c)
}

// ProviderID identifies an image-search backend.
type ProviderID string

const (
	ProviderPrimary   ProviderID = "bing"
	ProviderSecondary ProviderID = "duckduckgo"
)

func (p ProviderID) String() string {
	return string(p)
}

// ImageExtensions are the file extensions recognized on disk, in lookup order.
var ImageExtensions = []string{"jpg", "jpeg", "png", "webp"}

// adminSuffixes are stripped from names before building filenames.
const adminSuffixes = "市县区"

// Slug turns an item name into a filesystem-safe fragment.
func Slug(name string) string {
	var b strings.Builder
	for _, r := range name {
		if strings.ContainsRune(adminSuffixes, r) || unicode.IsSpace(r) {
			continue
		}
		if r < unicode.MaxASCII {
			r = unicode.ToLower(r)
		}
		b.WriteRune(r)
	}
	if b.Len() == 0 {
		return "city"
	}
	return b.String()
}

// BaseName is the extension-less filename for the item at index.
func BaseName(name string, index int) string {
	return fmt.Sprintf("%s_%d", Slug(name), index)
}

// AssetPath is the public path of a file stored under the category directory.
func AssetPath(c Category, filename string) string {
	return "/assets/" + string(c) + "/" + filename
}
