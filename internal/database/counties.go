package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/maltedev/county-image-crawler/internal/models"
)

// ErrNoData is returned when the counties table has no rows.
var ErrNoData = errors.New("no county records")

type column struct {
	name    string
	sqlType string
}

// optionalColumns are the columns added after the first schema version; older
// tables get them through ALTER TABLE.
var optionalColumns = []column{
	{"food_image", "TEXT"},
	{"food_name_en", "TEXT"},
	{"hotel_image", "TEXT"},
	{"hotel_name_en", "TEXT"},
	{"province", "TEXT"},
	{"gdp_rank", "INTEGER"},
	{"lat", "DOUBLE PRECISION"},
	{"lng", "DOUBLE PRECISION"},
}

// countyColumns is the column order used for reads and bulk inserts.
var countyColumns = []string{
	"name", "food", "hotel", "price",
	"food_image", "food_name_en", "hotel_image", "hotel_name_en",
	"province", "gdp_rank", "lat", "lng",
}

const createCountiesTable = `
	CREATE TABLE IF NOT EXISTS counties (
		id SERIAL PRIMARY KEY,
		name TEXT NOT NULL,
		food TEXT NOT NULL,
		hotel TEXT NOT NULL,
		price INTEGER NOT NULL
	)`

const createCountiesIndex = `CREATE INDEX IF NOT EXISTS idx_counties_name ON counties(name)`

// CountyRepository reads and writes the counties table.
type CountyRepository struct {
	db *DB
}

func NewCountyRepository(db *DB) *CountyRepository {
	return &CountyRepository{db: db}
}

// EnsureSchema creates the table if needed and adds any missing columns.
func (r *CountyRepository) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.pool.Exec(ctx, createCountiesTable); err != nil {
		return fmt.Errorf("failed to create counties table: %w", err)
	}
	if _, err := r.db.pool.Exec(ctx, createCountiesIndex); err != nil {
		return fmt.Errorf("failed to create counties index: %w", err)
	}

	rows, err := r.db.pool.Query(ctx,
		`SELECT column_name FROM information_schema.columns WHERE table_name = 'counties'`)
	if err != nil {
		return fmt.Errorf("failed to read table columns: %w", err)
	}
	existing, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return fmt.Errorf("failed to read table columns: %w", err)
	}

	for _, col := range missingColumns(existing) {
		stmt := fmt.Sprintf("ALTER TABLE counties ADD COLUMN %s %s", col.name, col.sqlType)
		if _, err := r.db.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("failed to add column %s: %w", col.name, err)
		}
	}
	return nil
}

// SeedCounties replaces all rows with counties in one transaction.
func (r *CountyRepository) SeedCounties(ctx context.Context, counties []models.County) (int64, error) {
	var n int64
	err := r.db.WithTx(ctx, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, "DELETE FROM counties"); err != nil {
			return fmt.Errorf("failed to clear counties: %w", err)
		}

		var err error
		n, err = tx.CopyFrom(ctx, pgx.Identifier{"counties"}, countyColumns, pgx.CopyFromRows(countyRows(counties)))
		if err != nil {
			return fmt.Errorf("failed to insert counties: %w", err)
		}
		return nil
	})
	return n, err
}

// RandomCounty returns one uniformly chosen row.
func (r *CountyRepository) RandomCounty(ctx context.Context) (*models.County, error) {
	query := `
		SELECT name, food, hotel, price, food_image, food_name_en, hotel_image,
		       hotel_name_en, province, gdp_rank, lat, lng
		FROM counties
		ORDER BY random()
		LIMIT 1`

	var c models.County
	err := r.db.pool.QueryRow(ctx, query).Scan(
		&c.Name, &c.Food, &c.Hotel, &c.Price,
		&c.FoodImage, &c.FoodNameEn, &c.HotelImage, &c.HotelNameEn,
		&c.Province, &c.GDPRank, &c.Lat, &c.Lng,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNoData
		}
		return nil, fmt.Errorf("failed to query random county: %w", err)
	}
	return &c, nil
}

func missingColumns(existing []string) []column {
	have := make(map[string]bool, len(existing))
	for _, name := range existing {
		have[name] = true
	}

	var missing []column
	for _, col := range optionalColumns {
		if !have[col.name] {
			missing = append(missing, col)
		}
	}
	return missing
}

func countyRows(counties []models.County) [][]any {
	rows := make([][]any, 0, len(counties))
	for _, c := range counties {
		rows = append(rows, []any{
			c.Name, c.Food, c.Hotel, c.Price,
			c.FoodImage, c.FoodNameEn, c.HotelImage, c.HotelNameEn,
			c.Province, c.GDPRank, c.Lat, c.Lng,
		})
	}
	return rows
}

// MergeCounties joins the dataset with crawled images in dataset order.
func MergeCounties(items []models.WorkItem, results models.ResultSet) []models.County {
	counties := make([]models.County, 0, len(items))
	for _, item := range items {
		counties = append(counties, models.NewCounty(item, results[item.Name]))
	}
	return counties
}
