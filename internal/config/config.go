package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"journey-tracker/internal/journey"
)

type Config struct {
	JourneyFile string
	Unit        journey.Unit

	// GTFS source; used when TripID is set and no journey file is given.
	TripID         string
	DatabaseURL    string
	City           string
	ShapeDistScale float64 // km per shape_dist_traveled unit

	NATSURL           string
	NATSSubjectPrefix string
	NATSCommands      bool
	LogNATSSubjects   bool

	MetricsAddr string
	LogFile     string
}

// Keys understood by Load. Each maps to the upper-cased environment variable
// and can be overridden by a bound cobra flag.
const (
	KeyJourneyFile     = "journey_file"
	KeyUnit            = "journey_unit"
	KeyTripID          = "trip_id"
	KeyCity            = "city"
	KeyShapeDistUnit   = "shape_dist_unit"
	KeyNATSURL         = "nats_url"
	KeyNATSPrefix      = "nats_subject_prefix"
	KeyNATSCommands    = "nats_commands"
	KeyLogNATSSubjects = "log_nats_subjects"
	KeyMetricsAddr     = "metrics_addr"
	KeyLogFile         = "log_file"
)

// NewViper returns a viper instance reading the environment with defaults set.
func NewViper() *viper.Viper {
	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault(KeyUnit, "metric")
	v.SetDefault(KeyShapeDistUnit, "m")
	v.SetDefault(KeyNATSPrefix, "journey")
	return v
}

func Load(v *viper.Viper) (*Config, error) {
	// Load .env into environment (ignore if missing)
	_ = godotenv.Load()

	if v == nil {
		v = NewViper()
	}
	cfg := &Config{}

	cfg.JourneyFile = strings.TrimSpace(v.GetString(KeyJourneyFile))

	unit, err := journey.ParseUnit(v.GetString(KeyUnit))
	if err != nil {
		return nil, fmt.Errorf("invalid JOURNEY_UNIT: %w", err)
	}
	cfg.Unit = unit

	cfg.TripID = strings.TrimSpace(v.GetString(KeyTripID))
	// City name for dynamic DB resolution
	cfg.City = firstNonEmpty(v.GetString(KeyCity), os.Getenv("CITY_NAME"))

	switch strings.ToLower(strings.TrimSpace(v.GetString(KeyShapeDistUnit))) {
	case "", "m", "meters", "metres":
		cfg.ShapeDistScale = 0.001
	case "km", "kilometers", "kilometres":
		cfg.ShapeDistScale = 1
	default:
		return nil, fmt.Errorf("invalid SHAPE_DIST_UNIT: %q", v.GetString(KeyShapeDistUnit))
	}

	if cfg.TripID != "" {
		dsn, err := databaseURL(cfg.City)
		if err != nil {
			return nil, err
		}
		cfg.DatabaseURL = dsn
	}

	cfg.NATSURL = strings.TrimSpace(v.GetString(KeyNATSURL))
	cfg.NATSSubjectPrefix = strings.Trim(strings.TrimSpace(v.GetString(KeyNATSPrefix)), ".")
	if cfg.NATSSubjectPrefix == "" {
		return nil, errors.New("NATS_SUBJECT_PREFIX must not be empty")
	}
	if cfg.NATSCommands, err = parseBool(KeyNATSCommands, v.GetString(KeyNATSCommands)); err != nil {
		return nil, err
	}
	if cfg.LogNATSSubjects, err = parseBool(KeyLogNATSSubjects, v.GetString(KeyLogNATSSubjects)); err != nil {
		return nil, err
	}
	if cfg.NATSCommands && cfg.NATSURL == "" {
		return nil, errors.New("NATS_COMMANDS requires NATS_URL")
	}

	// Metrics listen address (e.g., ":9102"). Empty disables the metrics server.
	cfg.MetricsAddr = strings.TrimSpace(v.GetString(KeyMetricsAddr))
	cfg.LogFile = strings.TrimSpace(v.GetString(KeyLogFile))

	return cfg, nil
}

// databaseURL prefers DATABASE_URL / PG_DSN, else builds one from PG* vars.
func databaseURL(city string) (string, error) {
	dsn := firstNonEmpty(
		os.Getenv("DATABASE_URL"),
		os.Getenv("PG_DSN"),
	)
	if dsn != "" {
		return dsn, nil
	}
	host := getenvDefault("PGHOST", "127.0.0.1")
	port := getenvDefault("PGPORT", "5432")
	user := getenvDefault("PGUSER", "postgres")
	pass := os.Getenv("PGPASSWORD")
	db := os.Getenv("PGDATABASE")
	// If CITY is provided, default base DB to 'postgres' when PGDATABASE is not set.
	if db == "" && city != "" {
		db = "postgres"
	}
	if db == "" {
		return "", errors.New("TRIP_ID needs PGDATABASE or DATABASE_URL (set PGDATABASE=postgres when using CITY)")
	}
	sslmode := getenvDefault("PGSSLMODE", "disable")
	if pass != "" {
		return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s", urlEscape(user), urlEscape(pass), host, port, db, sslmode), nil
	}
	return fmt.Sprintf("postgres://%s@%s:%s/%s?sslmode=%s", urlEscape(user), host, port, db, sslmode), nil
}

func parseBool(key, v string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "":
		return false, nil
	case "1", "true", "t", "yes", "y", "on":
		return true, nil
	case "0", "false", "f", "no", "n", "off":
		return false, nil
	}
	return false, fmt.Errorf("invalid %s: %q", strings.ToUpper(key), v)
}

func getenvDefault(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	return ""
}

func urlEscape(s string) string {
	// Minimal escape for DSN user/pass with special chars
	r := strings.NewReplacer("@", "%40", ":", "%3A", "/", "%2F", "?", "%3F", "#", "%23")
	return r.Replace(s)
}
