package store

import (
	"context"

	"github.com/huandu/go-sqlbuilder"
	"github.com/jmoiron/sqlx"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"github.com/sells-group/taco-index/internal/db"
	"github.com/sells-group/taco-index/internal/model"
)

// SQLiteStore implements Store using modernc.org/sqlite.
type SQLiteStore struct {
	db *sqlx.DB
}

// NewSQLite opens a SQLite database at the given path with WAL mode and
// foreign keys enabled.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	conn, err := sqlx.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	// Pragmas are per connection; a single connection keeps them in force.
	conn.SetMaxOpenConns(1)
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA foreign_keys=ON",
	} {
		if _, err := conn.Exec(pragma); err != nil {
			conn.Close() //nolint:errcheck
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: conn}, nil
}

func (s *SQLiteStore) InsertIgnore(ctx context.Context, table string, row *db.Row) (bool, error) {
	sql, args, err := db.InsertIgnore(sqlbuilder.SQLite, table, "id", row)
	if err != nil {
		return false, err
	}
	res, err := s.db.ExecContext(ctx, sql, args...)
	if err != nil {
		return false, eris.Wrapf(err, "sqlite: insert into %s", table)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, eris.Wrap(err, "sqlite: rows affected")
	}
	return n > 0, nil
}

// EnsureColumns adds missing columns one at a time; SQLite has no
// ADD COLUMN IF NOT EXISTS.
func (s *SQLiteStore) EnsureColumns(ctx context.Context, table string, cols []db.Column) error {
	var existing []string
	if err := sqlx.SelectContext(ctx, s.db, &existing, "SELECT name FROM pragma_table_info(?)", table); err != nil {
		return eris.Wrapf(err, "sqlite: table info %s", table)
	}
	have := make(map[string]bool, len(existing))
	for _, name := range existing {
		have[name] = true
	}

	for _, c := range cols {
		if have[c.Name] {
			continue
		}
		if _, err := s.db.ExecContext(ctx, db.AddColumn(table, c)); err != nil {
			return eris.Wrapf(err, "sqlite: add column %s.%s", table, c.Name)
		}
	}
	return nil
}

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS schema_migrations (
		filename   TEXT PRIMARY KEY,
		applied_at DATETIME NOT NULL DEFAULT (datetime('now'))
	)`); err != nil {
		return eris.Wrap(err, "sqlite: ensure migration table")
	}

	var done []string
	if err := sqlx.SelectContext(ctx, s.db, &done, "SELECT filename FROM schema_migrations"); err != nil {
		return eris.Wrap(err, "sqlite: query applied migrations")
	}
	applied := make(map[string]bool, len(done))
	for _, name := range done {
		applied[name] = true
	}

	files, err := migrations("sqlite")
	if err != nil {
		return err
	}
	for _, m := range files {
		if applied[m.name] {
			continue
		}
		zap.L().Info("applying migration", zap.String("component", "store.migrate"), zap.String("file", m.name))
		if _, err := s.db.ExecContext(ctx, m.sql); err != nil {
			return eris.Wrapf(err, "sqlite: apply migration %s", m.name)
		}
		if _, err := s.db.ExecContext(ctx, "INSERT INTO schema_migrations (filename) VALUES (?)", m.name); err != nil {
			return eris.Wrapf(err, "sqlite: record migration %s", m.name)
		}
	}
	return nil
}

func (s *SQLiteStore) Reset(ctx context.Context) error {
	for _, table := range append(dropOrder, migrationTable) {
		if _, err := s.db.ExecContext(ctx, "DROP TABLE IF EXISTS "+table); err != nil {
			return eris.Wrapf(err, "sqlite: drop %s", table)
		}
	}
	return s.Migrate(ctx)
}

const (
	liteSelectRestaurants = `SELECT id, name,
		COALESCE(street_address, '') AS street_address, COALESCE(city, '') AS city,
		COALESCE(state, '') AS state, COALESCE(zip, '') AS zip,
		COALESCE(latitude, 0) AS latitude, COALESCE(longitude, 0) AS longitude,
		COALESCE(phone, '') AS phone, COALESCE(website, '') AS website, yelp_id,
		google_rating, google_price_level, google_user_ratings_total, business_hours, tags
		FROM restaurants ORDER BY id`
	liteSelectTacos = `SELECT id, COALESCE(restaurant_id, '') AS restaurant_id,
		COALESCE(name, '') AS name, COALESCE(description, '') AS description,
		price_cents, calories, COALESCE(tortilla_type, '') AS tortilla_type,
		COALESCE(protein_type, '') AS protein_type, COALESCE(is_vegan, 0) AS is_vegan,
		COALESCE(is_bulk, 0) AS is_bulk, COALESCE(is_daily_special, 0) AS is_daily_special,
		available_from, available_to
		FROM tacos ORDER BY id`
	liteSelectPhotos = `SELECT id, COALESCE(taco_id, '') AS taco_id, user_id, url,
		COALESCE(is_user_uploaded, 0) AS is_user_uploaded
		FROM photos ORDER BY id`
	liteSelectReviews = `SELECT id, restaurant_id, COALESCE(author_name, '') AS author_name,
		COALESCE(author_url, '') AS author_url, COALESCE(google_rating, 0) AS google_rating,
		COALESCE(review_text, '') AS review_text, COALESCE(review_time, 0) AS review_time,
		COALESCE(relative_time_description, '') AS relative_time_description,
		COALESCE(language, '') AS language
		FROM reviews WHERE restaurant_id IS NOT NULL ORDER BY id`
)

func (s *SQLiteStore) LoadDataset(ctx context.Context) (*model.Dataset, error) {
	if err := s.EnsureColumns(ctx, TableReviews, ReviewColumns); err != nil {
		return nil, err
	}

	var ds model.Dataset
	if err := sqlx.SelectContext(ctx, s.db, &ds.Restaurants, liteSelectRestaurants); err != nil {
		return nil, eris.Wrap(err, "sqlite: load restaurants")
	}
	if err := sqlx.SelectContext(ctx, s.db, &ds.Tacos, liteSelectTacos); err != nil {
		return nil, eris.Wrap(err, "sqlite: load tacos")
	}
	if err := sqlx.SelectContext(ctx, s.db, &ds.Photos, liteSelectPhotos); err != nil {
		return nil, eris.Wrap(err, "sqlite: load photos")
	}
	if err := sqlx.SelectContext(ctx, s.db, &ds.Reviews, liteSelectReviews); err != nil {
		return nil, eris.Wrap(err, "sqlite: load reviews")
	}
	for i := range ds.Reviews {
		ds.Reviews[i].ReviewDate = model.ReviewDate(ds.Reviews[i].Time)
	}
	return &ds, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
