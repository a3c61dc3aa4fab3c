// Package store persists collected entities to Postgres or SQLite.
package store

import (
	"context"
	"time"

	"github.com/sells-group/taco-index/internal/db"
	"github.com/sells-group/taco-index/internal/model"
)

// Table names.
const (
	TableRestaurants = "restaurants"
	TableTacos       = "tacos"
	TablePhotos      = "photos"
	TableReviews     = "reviews"
)

// dropOrder lists tables children first.
var dropOrder = []string{TableReviews, TablePhotos, TableTacos, TableRestaurants}

// ReviewColumns are the review columns added on first use. The base schema
// predates Google reviews and does not carry them.
var ReviewColumns = []db.Column{
	{Name: "author_name", Type: "TEXT"},
	{Name: "author_url", Type: "TEXT"},
	{Name: "google_rating", Type: "INTEGER"},
	{Name: "review_text", Type: "TEXT"},
	{Name: "review_time", Type: "BIGINT"},
	{Name: "relative_time_description", Type: "TEXT"},
	{Name: "language", Type: "TEXT"},
	{Name: "review_date", Type: "TIMESTAMP"},
	{Name: "restaurant_id", Type: "UUID REFERENCES restaurants(id) ON DELETE CASCADE"},
}

// Store is the persistence capability used by the collector and exporter.
type Store interface {
	// InsertIgnore inserts row into table, keyed by id. It reports false when a
	// row with the same id already exists.
	InsertIgnore(ctx context.Context, table string, row *db.Row) (bool, error)
	// EnsureColumns adds any of cols missing from table. Existing columns are left alone.
	EnsureColumns(ctx context.Context, table string, cols []db.Column) error

	// LoadDataset reads every stored entity ordered by id.
	LoadDataset(ctx context.Context) (*model.Dataset, error)

	// Lifecycle
	Migrate(ctx context.Context) error
	Reset(ctx context.Context) error
	Close() error
}

// RestaurantRow maps a restaurant to its columns.
func RestaurantRow(r model.Restaurant) *db.Row {
	return db.NewRow().
		Set("id", r.ID).
		Set("name", r.Name).
		Set("street_address", r.StreetAddress).
		Set("city", r.City).
		Set("state", r.State).
		Set("zip", r.Zip).
		Set("latitude", r.Latitude).
		Set("longitude", r.Longitude).
		Set("phone", r.Phone).
		Set("website", r.Website).
		Set("yelp_id", r.YelpID).
		Set("google_rating", r.GoogleRating).
		Set("google_price_level", r.GooglePriceLevel).
		Set("google_user_ratings_total", r.GoogleUserRatingsTotal).
		Set("business_hours", r.BusinessHours).
		Set("tags", r.Tags)
}

// TacoRow maps a taco to its columns.
func TacoRow(t model.Taco) *db.Row {
	return db.NewRow().
		Set("id", t.ID).
		Set("restaurant_id", t.RestaurantID).
		Set("name", t.Name).
		Set("description", t.Description).
		Set("price_cents", t.PriceCents).
		Set("calories", t.Calories).
		Set("tortilla_type", t.TortillaType).
		Set("protein_type", t.ProteinType).
		Set("is_vegan", t.IsVegan).
		Set("is_bulk", t.IsBulk).
		Set("is_daily_special", t.IsDailySpecial).
		Set("available_from", t.AvailableFrom).
		Set("available_to", t.AvailableTo)
}

// PhotoRow maps a photo to its columns.
func PhotoRow(p model.Photo) *db.Row {
	return db.NewRow().
		Set("id", p.ID).
		Set("taco_id", p.TacoID).
		Set("user_id", p.UserID).
		Set("url", p.URL).
		Set("is_user_uploaded", p.IsUserUploaded)
}

// ReviewRow maps a review to its columns. The text is written to both
// review_text and the legacy content column.
func ReviewRow(r model.Review) *db.Row {
	var date *time.Time
	if t, ok := model.ReviewTime(r.Time); ok {
		date = &t
	}
	return db.NewRow().
		Set("id", r.ID).
		Set("restaurant_id", r.RestaurantID).
		Set("author_name", r.AuthorName).
		Set("author_url", r.AuthorURL).
		Set("google_rating", r.Rating).
		Set("review_text", r.Text).
		Set("review_time", r.Time).
		Set("relative_time_description", r.RelativeTimeDescription).
		Set("language", r.Language).
		Set("review_date", date).
		Set("content", r.Text)
}
