// Package config loads taco-index settings from config.yaml, .env and the
// environment.
package config

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"os"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Google  GoogleConfig  `yaml:"google" mapstructure:"google"`
	Search  SearchConfig  `yaml:"search" mapstructure:"search"`
	Store   StoreConfig   `yaml:"store" mapstructure:"store"`
	Export  ExportConfig  `yaml:"export" mapstructure:"export"`
	Metrics MetricsConfig `yaml:"metrics" mapstructure:"metrics"`
	Pricing PricingConfig `yaml:"pricing" mapstructure:"pricing"`
	Log     LogConfig     `yaml:"log" mapstructure:"log"`
}

// GoogleConfig configures the Places API client.
type GoogleConfig struct {
	Key         string `yaml:"key" mapstructure:"key" validate:"required"`
	BaseURL     string `yaml:"base_url" mapstructure:"base_url" validate:"omitempty,url"`
	TimeoutSecs int    `yaml:"timeout_secs" mapstructure:"timeout_secs" validate:"gt=0"`
}

// SearchConfig bounds the area searched and paces requests.
type SearchConfig struct {
	Lat              float64 `yaml:"lat" mapstructure:"lat" validate:"latitude"`
	Lng              float64 `yaml:"lng" mapstructure:"lng" validate:"longitude"`
	RadiusMeters     int     `yaml:"radius_meters" mapstructure:"radius_meters" validate:"gt=0,lte=50000"`
	RequestDelayMs   int     `yaml:"request_delay_ms" mapstructure:"request_delay_ms" validate:"gte=0"`
	PageTokenDelayMs int     `yaml:"page_token_delay_ms" mapstructure:"page_token_delay_ms" validate:"gte=0"`
	TermDelayMs      int     `yaml:"term_delay_ms" mapstructure:"term_delay_ms" validate:"gte=0"`
	CandidateDelayMs int     `yaml:"candidate_delay_ms" mapstructure:"candidate_delay_ms" validate:"gte=0"`
}

// StoreConfig selects and tunes the database.
type StoreConfig struct {
	Driver          string `yaml:"driver" mapstructure:"driver" validate:"oneof=postgres sqlite"`
	DatabaseURL     string `yaml:"database_url" mapstructure:"database_url" validate:"required_if=Driver postgres"`
	SQLitePath      string `yaml:"sqlite_path" mapstructure:"sqlite_path" validate:"required_if=Driver sqlite"`
	MaxConns        int32  `yaml:"max_conns" mapstructure:"max_conns" validate:"gte=0"`
	MinConns        int32  `yaml:"min_conns" mapstructure:"min_conns" validate:"gte=0"`
	ConnectAttempts int    `yaml:"connect_attempts" mapstructure:"connect_attempts" validate:"gte=1"`
	ConnectBackoff  int    `yaml:"connect_backoff_ms" mapstructure:"connect_backoff_ms" validate:"gte=0"`
}

// ExportConfig sets seed output locations.
type ExportConfig struct {
	Formats     []string `yaml:"formats" mapstructure:"formats" validate:"min=1,dive,oneof=json rails fixtures csv"`
	SeedsDir    string   `yaml:"seeds_dir" mapstructure:"seeds_dir" validate:"required"`
	SeedsFile   string   `yaml:"seeds_file" mapstructure:"seeds_file" validate:"required"`
	FixturesDir string   `yaml:"fixtures_dir" mapstructure:"fixtures_dir"`
	CSVDir      string   `yaml:"csv_dir" mapstructure:"csv_dir"`
	CSVPrefix   string   `yaml:"csv_prefix" mapstructure:"csv_prefix"`
}

// MetricsConfig configures run metrics. An empty Textfile disables them.
type MetricsConfig struct {
	Textfile string `yaml:"textfile" mapstructure:"textfile"`
}

// PricingConfig holds Places API rates (USD per thousand requests).
type PricingConfig struct {
	NearbySearch      float64 `yaml:"nearby_search" mapstructure:"nearby_search"`
	DetailsBasic      float64 `yaml:"details_basic" mapstructure:"details_basic"`
	DetailsContact    float64 `yaml:"details_contact" mapstructure:"details_contact"`
	DetailsAtmosphere float64 `yaml:"details_atmosphere" mapstructure:"details_atmosphere"`
	MonthlyCredit     float64 `yaml:"monthly_credit" mapstructure:"monthly_credit"`
}

// LogConfig configures the zap logger.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level" validate:"oneof=debug info warn error"`
	Format string `yaml:"format" mapstructure:"format" validate:"oneof=json console"`
}

// Load reads configuration from .env, config.yaml and the environment, in
// increasing precedence. Both files are optional.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, eris.Wrap(err, "config: read .env")
	}

	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("TACO")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("google.timeout_secs", 10)
	v.SetDefault("search.lat", 29.4241)
	v.SetDefault("search.lng", -98.4936)
	v.SetDefault("search.radius_meters", 10000)
	v.SetDefault("search.request_delay_ms", 100)
	v.SetDefault("search.page_token_delay_ms", 2000)
	v.SetDefault("search.term_delay_ms", 500)
	v.SetDefault("search.candidate_delay_ms", 100)
	v.SetDefault("store.driver", "postgres")
	v.SetDefault("store.sqlite_path", "taco.db")
	v.SetDefault("store.connect_attempts", 3)
	v.SetDefault("store.connect_backoff_ms", 500)
	v.SetDefault("export.formats", []string{"json", "rails"})
	v.SetDefault("export.seeds_dir", "db/seeds")
	v.SetDefault("export.seeds_file", "db/seeds.rb")
	v.SetDefault("export.fixtures_dir", "test/fixtures")
	v.SetDefault("export.csv_dir", ".")
	v.SetDefault("export.csv_prefix", "bean_cheese_taco_data")
	v.SetDefault("pricing.nearby_search", 32.0)
	v.SetDefault("pricing.details_basic", 17.0)
	v.SetDefault("pricing.details_contact", 3.0)
	v.SetDefault("pricing.details_atmosphere", 5.0)
	v.SetDefault("pricing.monthly_credit", 200.0)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}
	applyLegacyEnv(&cfg)

	return &cfg, nil
}

// applyLegacyEnv honors the unprefixed APIKEY and POSTGRES_* variables
// when the TACO_ equivalents are unset.
func applyLegacyEnv(cfg *Config) {
	if cfg.Google.Key == "" {
		cfg.Google.Key = os.Getenv("APIKEY")
	}
	if cfg.Store.DatabaseURL == "" {
		cfg.Store.DatabaseURL = postgresURLFromEnv()
	}
}

// postgresURLFromEnv assembles a DSN from POSTGRES_* variables, or returns ""
// when POSTGRES_DB is unset.
func postgresURLFromEnv() string {
	dbName := os.Getenv("POSTGRES_DB")
	if dbName == "" {
		return ""
	}
	host := envOr("POSTGRES_HOST", "localhost")
	port := envOr("POSTGRES_PORT", "5432")

	u := url.URL{
		Scheme: "postgres",
		Host:   net.JoinHostPort(host, port),
		Path:   "/" + dbName,
	}
	if user := os.Getenv("POSTGRES_USER"); user != "" {
		if pw, ok := os.LookupEnv("POSTGRES_PASSWORD"); ok {
			u.User = url.UserPassword(user, pw)
		} else {
			u.User = url.User(user)
		}
	}
	return u.String()
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Report config keys rather than Go field names.
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("mapstructure"), ",", 2)[0]
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})
	return v
}

// Validate checks the sections a command needs. mode is one of collect,
// search (collect without saving), export, seeds (export settings alone),
// summary or migrate.
func (c *Config) Validate(mode string) error {
	var sections []any
	switch mode {
	case "collect":
		sections = []any{c.Google, c.Search, c.Store, c.Log}
	case "search":
		sections = []any{c.Google, c.Search, c.Log}
	case "export":
		sections = []any{c.Store, c.Export, c.Log}
	case "seeds":
		sections = []any{c.Export, c.Log}
	case "summary", "migrate":
		sections = []any{c.Store, c.Log}
	default:
		return eris.Errorf("config: unknown mode %q", mode)
	}

	var msgs []string
	for _, s := range sections {
		if err := validate.Struct(s); err != nil {
			msgs = append(msgs, validationMessages(err)...)
		}
	}
	if len(msgs) > 0 {
		return eris.Errorf("config: invalid for %s: %s", mode, strings.Join(msgs, "; "))
	}
	return nil
}

var sectionKeys = map[string]string{
	"GoogleConfig":  "google",
	"SearchConfig":  "search",
	"StoreConfig":   "store",
	"ExportConfig":  "export",
	"MetricsConfig": "metrics",
	"PricingConfig": "pricing",
	"LogConfig":     "log",
}

func validationMessages(err error) []string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []string{err.Error()}
	}

	out := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		key := fe.Namespace()
		if section, rest, ok := strings.Cut(key, "."); ok {
			if k, found := sectionKeys[section]; found {
				key = k + "." + rest
			}
		}
		switch fe.Tag() {
		case "required", "required_if":
			out = append(out, key+" is required")
		case "oneof":
			out = append(out, fmt.Sprintf("%s must be one of [%s]", key, fe.Param()))
		case "latitude", "longitude":
			out = append(out, fmt.Sprintf("%s must be a valid %s", key, fe.Tag()))
		default:
			if fe.Param() != "" {
				out = append(out, fmt.Sprintf("%s must be %s %s", key, fe.Tag(), fe.Param()))
			} else {
				out = append(out, fmt.Sprintf("%s failed %s", key, fe.Tag()))
			}
		}
	}
	return out
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
