package models

// County is a fully merged record as exposed by the serving endpoint.
type County struct {
	Name        string   `json:"name"`
	Food        string   `json:"food"`
	Hotel       string   `json:"hotel"`
	Price       int      `json:"price"`
	FoodImage   *string  `json:"food_image"`
	FoodNameEn  *string  `json:"food_name_en"`
	HotelImage  *string  `json:"hotel_image"`
	HotelNameEn *string  `json:"hotel_name_en"`
	Province    *string  `json:"province"`
	GDPRank     *int     `json:"gdp_rank"`
	Lat         *float64 `json:"lat"`
	Lng         *float64 `json:"lng"`
}

// NewCounty merges a dataset entry with its crawled images.
func NewCounty(item WorkItem, rec ResultRecord) County {
	c := County{
		Name:        item.Name,
		Food:        item.Food,
		Hotel:       item.Hotel,
		Price:       item.Price,
		FoodImage:   optString(rec.FoodImage),
		FoodNameEn:  optString(item.FoodNameEn),
		HotelImage:  optString(rec.HotelImage),
		HotelNameEn: optString(item.HotelNameEn),
		Province:    optString(item.Province),
	}
	if item.GDPRank != 0 {
		rank := item.GDPRank
		c.GDPRank = &rank
	}
	if item.Lat != 0 || item.Lng != 0 {
		lat, lng := item.Lat, item.Lng
		c.Lat = &lat
		c.Lng = &lng
	}
	return c
}

func optString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
