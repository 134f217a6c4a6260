package database

import (
	"testing"

	"github.com/maltedev/county-image-crawler/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigDSN(t *testing.T) {
	cfg := Config{Host: "db", Port: 5433, User: "app", Password: "secret", Database: "counties"}
	assert.Equal(t, "postgres://app:secret@db:5433/counties?sslmode=disable", cfg.DSN())
}

func TestMissingColumns(t *testing.T) {
	t.Run("fresh table", func(t *testing.T) {
		missing := missingColumns([]string{"id", "name", "food", "hotel", "price"})
		assert.Len(t, missing, len(optionalColumns))
	})

	t.Run("partially migrated", func(t *testing.T) {
		missing := missingColumns([]string{"id", "name", "food", "hotel", "price", "food_image", "hotel_image", "province"})
		var names []string
		for _, col := range missing {
			names = append(names, col.name)
		}
		assert.Equal(t, []string{"food_name_en", "hotel_name_en", "gdp_rank", "lat", "lng"}, names)
	})

	t.Run("up to date", func(t *testing.T) {
		assert.Empty(t, missingColumns(countyColumns))
	})
}

func TestMergeCounties(t *testing.T) {
	items := []models.WorkItem{
		{Name: "Springfield", Food: "stew", Hotel: "grand", Price: 300, Province: "North"},
		{Name: "Shelbyville", Food: "pie", Hotel: "inn", Price: 150},
	}
	results := models.ResultSet{
		"Springfield": {FoodImage: "/assets/food/springfield_0.jpg"},
	}

	counties := MergeCounties(items, results)
	require.Len(t, counties, 2)

	assert.Equal(t, "Springfield", counties[0].Name)
	require.NotNil(t, counties[0].FoodImage)
	assert.Equal(t, "/assets/food/springfield_0.jpg", *counties[0].FoodImage)
	assert.Nil(t, counties[0].HotelImage)
	require.NotNil(t, counties[0].Province)
	assert.Equal(t, "North", *counties[0].Province)

	assert.Nil(t, counties[1].FoodImage)
	assert.Nil(t, counties[1].GDPRank)
}

func TestCountyRowsMatchColumns(t *testing.T) {
	rows := countyRows([]models.County{{Name: "a", Food: "b", Hotel: "c", Price: 1}})
	require.Len(t, rows, 1)
	assert.Len(t, rows[0], len(countyColumns))
	assert.Equal(t, "a", rows[0][0])
	assert.Equal(t, 1, rows[0][3])
}
