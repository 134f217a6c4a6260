package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlug(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"Ascii lowercased", "Springfield", "springfield"},
		{"Whitespace removed", "New  Port\tCity", "newportcity"},
		{"City suffix", "昆山市", "昆山"},
		{"County suffix", "长兴县", "长兴"},
		{"District suffix", "浦东新区", "浦东新"},
		{"Only suffixes", "市县区", "city"},
		{"Empty", "", "city"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Slug(tt.input))
		})
	}
}

func TestBaseNameAndAssetPath(t *testing.T) {
	base := BaseName("Springfield", 0)
	assert.Equal(t, "springfield_0", base)
	assert.Equal(t, "/assets/food/springfield_0.jpg", AssetPath(CategoryFood, base+".jpg"))
	assert.Equal(t, "/assets/hotel/springfield_0.png", AssetPath(CategoryHotel, base+".png"))
}

func TestWorkItemQuery(t *testing.T) {
	item := WorkItem{Name: "Springfield", Food: "local stew", Hotel: "grand hotel"}
	assert.Equal(t, "local stew", item.Query(CategoryFood))
	assert.Equal(t, "grand hotel", item.Query(CategoryHotel))
}

func TestResultSetMergeNeverClearsField(t *testing.T) {
	set := ResultSet{"A": {FoodImage: "/assets/food/a_0.jpg"}}

	set.Merge("A", CategoryFood, "")
	set.Merge("A", CategoryHotel, "/assets/hotel/a_0.png")

	require.Contains(t, set, "A")
	assert.Equal(t, "/assets/food/a_0.jpg", set["A"].FoodImage)
	assert.Equal(t, "/assets/hotel/a_0.png", set["A"].HotelImage)
	assert.True(t, set.Complete("A"))
}

func TestResultSetMergeCreatesRecord(t *testing.T) {
	set := ResultSet{}
	set.Merge("B", CategoryHotel, "")

	require.Contains(t, set, "B")
	assert.Equal(t, ResultRecord{}, set["B"])
	assert.False(t, set.Complete("B"))
}

func TestResultSetCloneIsIndependent(t *testing.T) {
	var prior ResultSet
	clone := prior.Clone()
	require.NotNil(t, clone)

	src := ResultSet{"A": {FoodImage: "x"}}
	cp := src.Clone()
	cp.Merge("A", CategoryFood, "y")
	assert.Equal(t, "x", src["A"].FoodImage)
}

func TestResultSetMissing(t *testing.T) {
	set := ResultSet{
		"A": {FoodImage: "a", HotelImage: "b"},
		"B": {FoodImage: "a"},
	}
	items := []WorkItem{{Name: "A"}, {Name: "B"}, {Name: "C"}}
	assert.Equal(t, 2, set.Missing(items))
}

func TestNewCounty(t *testing.T) {
	item := WorkItem{Name: "A", Food: "f", Hotel: "h", Price: 300, Province: "P", GDPRank: 4}
	c := NewCounty(item, ResultRecord{FoodImage: "/assets/food/a_0.jpg"})

	require.NotNil(t, c.FoodImage)
	assert.Equal(t, "/assets/food/a_0.jpg", *c.FoodImage)
	assert.Nil(t, c.HotelImage)
	require.NotNil(t, c.GDPRank)
	assert.Equal(t, 4, *c.GDPRank)
	assert.Nil(t, c.Lat)
	assert.Equal(t, 300, c.Price)
}
