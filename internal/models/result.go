package models

// ResultRecord holds the public asset paths resolved for one item.
type ResultRecord struct {
	FoodImage  string `json:"food_image"`
	HotelImage string `json:"hotel_image"`
}

// Image returns the path stored for a category.
func (r ResultRecord) Image(c Category) string {
	if c == CategoryHotel {
		return r.HotelImage
	}
	return r.FoodImage
}

// Complete reports whether both categories have a path.
func (r ResultRecord) Complete() bool {
	return r.FoodImage != "" && r.HotelImage != ""
}

// ResultSet maps item names to their resolved assets.
type ResultSet map[string]ResultRecord

// Clone returns an independent copy. A nil set clones to an empty one.
func (s ResultSet) Clone() ResultSet {
	out := make(ResultSet, len(s))
	for k, v := range s {
		out[k] = v
	}
	return out
}

// Ensure creates an empty record for name if none exists.
func (s ResultSet) Ensure(name string) {
	if _, ok := s[name]; !ok {
		s[name] = ResultRecord{}
	}
}

// Merge records path for the category. An empty path never replaces an
// existing value.
func (s ResultSet) Merge(name string, c Category, path string) {
	rec := s[name]
	if path != "" {
		switch c {
		case CategoryHotel:
			rec.HotelImage = path
		default:
			rec.FoodImage = path
		}
	}
	s[name] = rec
}

// Complete reports whether name has both images recorded.
func (s ResultSet) Complete(name string) bool {
	rec, ok := s[name]
	return ok && rec.Complete()
}

// Missing counts the items that still lack at least one image.
func (s ResultSet) Missing(items []WorkItem) int {
	n := 0
	for _, item := range items {
		if !s.Complete(item.Name) {
			n++
		}
	}
	return n
}
