package store

import (
	"context"
	"time"

	"github.com/huandu/go-sqlbuilder"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/taco-index/internal/db"
	"github.com/sells-group/taco-index/internal/model"
)

// migrationLockID serializes concurrent Migrate calls across processes.
const migrationLockID = 4242001

// PostgresStore implements Store using pgxpool.
type PostgresStore struct {
	pool    db.Pool
	closeFn func()
}

// PoolConfig holds optional connection pool tuning parameters.
type PoolConfig struct {
	MaxConns int32 `yaml:"max_conns" mapstructure:"max_conns"`
	MinConns int32 `yaml:"min_conns" mapstructure:"min_conns"`
}

// NewPostgres creates a PostgresStore with a connection pool and verifies the
// connection.
func NewPostgres(ctx context.Context, connString string, poolCfg *PoolConfig) (*PostgresStore, error) {
	pgxCfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: parse config")
	}

	// A collection run writes from a single goroutine.
	maxConns := int32(4)
	minConns := int32(1)
	if poolCfg != nil {
		if poolCfg.MaxConns > 0 {
			maxConns = poolCfg.MaxConns
		}
		if poolCfg.MinConns > 0 {
			minConns = poolCfg.MinConns
		}
	}
	pgxCfg.MaxConns = maxConns
	pgxCfg.MinConns = minConns
	pgxCfg.MaxConnLifetime = 30 * time.Minute
	pgxCfg.MaxConnIdleTime = 5 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, pgxCfg)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: create pool")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "postgres: ping")
	}
	return &PostgresStore{pool: pool, closeFn: pool.Close}, nil
}

// NewPostgresFromPool wraps an existing pool. The caller keeps ownership.
func NewPostgresFromPool(pool db.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

func (s *PostgresStore) InsertIgnore(ctx context.Context, table string, row *db.Row) (bool, error) {
	sql, args, err := db.InsertIgnore(sqlbuilder.PostgreSQL, table, "id", row)
	if err != nil {
		return false, err
	}
	tag, err := s.pool.Exec(ctx, sql, args...)
	if err != nil {
		return false, eris.Wrapf(err, "postgres: insert into %s", table)
	}
	return tag.RowsAffected() > 0, nil
}

func (s *PostgresStore) EnsureColumns(ctx context.Context, table string, cols []db.Column) error {
	if len(cols) == 0 {
		return nil
	}
	if _, err := s.pool.Exec(ctx, db.AddColumnsIfNotExist(table, cols)); err != nil {
		return eris.Wrapf(err, "postgres: ensure columns on %s", table)
	}
	return nil
}

// Migrate applies pending embedded migrations under an advisory lock.
func (s *PostgresStore) Migrate(ctx context.Context) error {
	log := zap.L().With(zap.String("component", "store.migrate"))

	if _, err := s.pool.Exec(ctx, "SELECT pg_advisory_lock($1)", migrationLockID); err != nil {
		return eris.Wrap(err, "postgres: acquire migration lock")
	}
	defer func() {
		if _, err := s.pool.Exec(ctx, "SELECT pg_advisory_unlock($1)", migrationLockID); err != nil {
			log.Warn("postgres: release migration lock", zap.Error(err))
		}
	}()

	if _, err := s.pool.Exec(ctx, `CREATE TABLE IF NOT EXISTS schema_migrations (
		filename   TEXT PRIMARY KEY,
		applied_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`); err != nil {
		return eris.Wrap(err, "postgres: ensure migration table")
	}

	applied, err := s.appliedMigrations(ctx)
	if err != nil {
		return err
	}

	files, err := migrations("postgres")
	if err != nil {
		return err
	}
	for _, m := range files {
		if applied[m.name] {
			continue
		}
		log.Info("applying migration", zap.String("file", m.name))
		if _, err := s.pool.Exec(ctx, m.sql); err != nil {
			return eris.Wrapf(err, "postgres: apply migration %s", m.name)
		}
		if _, err := s.pool.Exec(ctx, "INSERT INTO schema_migrations (filename) VALUES ($1)", m.name); err != nil {
			return eris.Wrapf(err, "postgres: record migration %s", m.name)
		}
	}
	return nil
}

func (s *PostgresStore) appliedMigrations(ctx context.Context) (map[string]bool, error) {
	rows, err := s.pool.Query(ctx, "SELECT filename FROM schema_migrations")
	if err != nil {
		return nil, eris.Wrap(err, "postgres: query applied migrations")
	}
	defer rows.Close()

	applied := make(map[string]bool)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, eris.Wrap(err, "postgres: scan migration row")
		}
		applied[name] = true
	}
	return applied, eris.Wrap(rows.Err(), "postgres: iterate migration rows")
}

// Reset drops the collection tables and re-applies every migration.
func (s *PostgresStore) Reset(ctx context.Context) error {
	for _, table := range dropOrder {
		if _, err := s.pool.Exec(ctx, "DROP TABLE IF EXISTS "+table+" CASCADE"); err != nil {
			return eris.Wrapf(err, "postgres: drop %s", table)
		}
	}
	if _, err := s.pool.Exec(ctx, "DROP TABLE IF EXISTS schema_migrations"); err != nil {
		return eris.Wrap(err, "postgres: drop migration table")
	}
	return s.Migrate(ctx)
}

const (
	pgSelectRestaurants = `SELECT id::text, name, COALESCE(street_address, ''), COALESCE(city, ''),
		COALESCE(state, ''), COALESCE(zip, ''), COALESCE(latitude, 0), COALESCE(longitude, 0),
		COALESCE(phone, ''), COALESCE(website, ''), yelp_id, google_rating::float8,
		google_price_level, google_user_ratings_total, business_hours, tags
		FROM restaurants ORDER BY id`
	pgSelectTacos = `SELECT id::text, COALESCE(restaurant_id::text, ''), COALESCE(name, ''),
		COALESCE(description, ''), price_cents, calories, COALESCE(tortilla_type, ''),
		COALESCE(protein_type, ''), COALESCE(is_vegan, false), COALESCE(is_bulk, false),
		COALESCE(is_daily_special, false), available_from::text, available_to::text
		FROM tacos ORDER BY id`
	pgSelectPhotos = `SELECT id::text, COALESCE(taco_id::text, ''), user_id::text, url,
		COALESCE(is_user_uploaded, false)
		FROM photos ORDER BY id`
	pgSelectReviews = `SELECT id::text, COALESCE(restaurant_id::text, ''), COALESCE(author_name, ''),
		COALESCE(author_url, ''), COALESCE(google_rating, 0), COALESCE(review_text, ''),
		COALESCE(review_time, 0), COALESCE(relative_time_description, ''), COALESCE(language, '')
		FROM reviews WHERE restaurant_id IS NOT NULL ORDER BY id`
)

func (s *PostgresStore) LoadDataset(ctx context.Context) (*model.Dataset, error) {
	if err := s.EnsureColumns(ctx, TableReviews, ReviewColumns); err != nil {
		return nil, err
	}

	var ds model.Dataset
	var err error
	if ds.Restaurants, err = queryAll(ctx, s.pool, pgSelectRestaurants, scanRestaurant); err != nil {
		return nil, eris.Wrap(err, "postgres: load restaurants")
	}
	if ds.Tacos, err = queryAll(ctx, s.pool, pgSelectTacos, scanTaco); err != nil {
		return nil, eris.Wrap(err, "postgres: load tacos")
	}
	if ds.Photos, err = queryAll(ctx, s.pool, pgSelectPhotos, scanPhoto); err != nil {
		return nil, eris.Wrap(err, "postgres: load photos")
	}
	if ds.Reviews, err = queryAll(ctx, s.pool, pgSelectReviews, scanReview); err != nil {
		return nil, eris.Wrap(err, "postgres: load reviews")
	}
	return &ds, nil
}

func (s *PostgresStore) Close() error {
	if s.closeFn != nil {
		s.closeFn()
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func queryAll[T any](ctx context.Context, pool db.Pool, sql string, scan func(rowScanner) (T, error)) ([]T, error) {
	rows, err := pool.Query(ctx, sql)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []T
	for rows.Next() {
		v, err := scan(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

func scanRestaurant(row rowScanner) (model.Restaurant, error) {
	var r model.Restaurant
	err := row.Scan(&r.ID, &r.Name, &r.StreetAddress, &r.City, &r.State, &r.Zip,
		&r.Latitude, &r.Longitude, &r.Phone, &r.Website, &r.YelpID, &r.GoogleRating,
		&r.GooglePriceLevel, &r.GoogleUserRatingsTotal, &r.BusinessHours, &r.Tags)
	return r, err
}

func scanTaco(row rowScanner) (model.Taco, error) {
	var t model.Taco
	err := row.Scan(&t.ID, &t.RestaurantID, &t.Name, &t.Description, &t.PriceCents, &t.Calories,
		&t.TortillaType, &t.ProteinType, &t.IsVegan, &t.IsBulk, &t.IsDailySpecial,
		&t.AvailableFrom, &t.AvailableTo)
	return t, err
}

func scanPhoto(row rowScanner) (model.Photo, error) {
	var p model.Photo
	err := row.Scan(&p.ID, &p.TacoID, &p.UserID, &p.URL, &p.IsUserUploaded)
	return p, err
}

func scanReview(row rowScanner) (model.Review, error) {
	var r model.Review
	err := row.Scan(&r.ID, &r.RestaurantID, &r.AuthorName, &r.AuthorURL, &r.Rating, &r.Text,
		&r.Time, &r.RelativeTimeDescription, &r.Language)
	r.ReviewDate = model.ReviewDate(r.Time)
	return r, err
}
