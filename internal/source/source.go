// Package source resolves the journey a session runs: a file, a GTFS trip in
// Postgres, or the built-in demo route.
package source

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"journey-tracker/internal/config"
	"journey-tracker/internal/db"
	"journey-tracker/internal/journey"
)

var ErrUnsupportedFormat = errors.New("unsupported journey file format")

type fileStop struct {
	Name       string  `yaml:"name" json:"name"`
	DistanceKm float64 `yaml:"distance_km" json:"distance_km"`
}

type fileJourney struct {
	Name  string     `yaml:"name" json:"name"`
	Stops []fileStop `yaml:"stops" json:"stops"`
}

// Builtin is the nine-stop demo route.
func Builtin() *journey.Journey {
	return journey.MustNew("Riverside Line", []journey.Stop{
		{Name: "Central Station", DistanceToNext: 1.2},
		{Name: "Market Square", DistanceToNext: 0.8},
		{Name: "Old Town", DistanceToNext: 1.5},
		{Name: "Riverside Park", DistanceToNext: 2.1},
		{Name: "University", DistanceToNext: 1.3},
		{Name: "Hospital", DistanceToNext: 0.9},
		{Name: "Stadium", DistanceToNext: 1.7},
		{Name: "Harbour", DistanceToNext: 1.2},
		{Name: "Lighthouse", DistanceToNext: 0},
	})
}

// LoadFile reads a .yaml, .yml or .json journey file.
func LoadFile(path string) (*journey.Journey, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var format string
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		format = "yaml"
	case ".json":
		format = "json"
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}
	j, err := Decode(f, format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return j, nil
}

// Decode parses a journey document. Unknown fields are rejected.
func Decode(r io.Reader, format string) (*journey.Journey, error) {
	var raw fileJourney
	switch format {
	case "yaml":
		dec := yaml.NewDecoder(r)
		dec.KnownFields(true)
		if err := dec.Decode(&raw); err != nil {
			return nil, fmt.Errorf("decode journey: %w", err)
		}
	case "json":
		dec := json.NewDecoder(r)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&raw); err != nil {
			return nil, fmt.Errorf("decode journey: %w", err)
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}

	stops := make([]journey.Stop, len(raw.Stops))
	for i, s := range raw.Stops {
		stops[i] = journey.Stop{Name: s.Name, DistanceToNext: s.DistanceKm}
	}
	return journey.New(raw.Name, stops)
}

// Encode writes j as a YAML journey document.
func Encode(w io.Writer, j *journey.Journey) error {
	raw := fileJourney{Name: j.Name()}
	for _, s := range j.Stops() {
		raw.Stops = append(raw.Stops, fileStop{Name: s.Name, DistanceKm: s.DistanceToNext})
	}
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(raw); err != nil {
		return err
	}
	if err := enc.Close(); err != nil {
		return err
	}
	_, err := w.Write(buf.Bytes())
	return err
}

// Resolve picks the journey for cfg: file first, then GTFS trip, then builtin.
func Resolve(ctx context.Context, cfg *config.Config) (*journey.Journey, error) {
	if cfg.JourneyFile != "" {
		j, err := LoadFile(cfg.JourneyFile)
		if err != nil {
			return nil, err
		}
		log.Printf("loaded journey %q (%d stops) from %s", j.Name(), j.Len(), cfg.JourneyFile)
		return j, nil
	}
	if cfg.TripID != "" {
		return loadTrip(ctx, cfg)
	}
	j := Builtin()
	log.Printf("using built-in journey %q", j.Name())
	return j, nil
}

func loadTrip(ctx context.Context, cfg *config.Config) (*journey.Journey, error) {
	dsn := cfg.DatabaseURL
	if cfg.City != "" {
		// Resolve latest city database from the cluster's meta DB first
		rootDSN, err := db.SwitchDatabase(dsn, "postgres")
		if err != nil {
			return nil, fmt.Errorf("invalid base DSN: %w", err)
		}
		metaDB, err := db.Open(rootDSN)
		if err != nil {
			return nil, fmt.Errorf("db open (meta): %w", err)
		}
		defer metaDB.Close()
		if err := db.Ping(ctx, metaDB); err != nil {
			return nil, fmt.Errorf("db ping (meta): %w", err)
		}
		name, err := db.LatestCityImport(ctx, metaDB, cfg.City)
		if err != nil {
			return nil, fmt.Errorf("resolve latest import for city %q: %w", cfg.City, err)
		}
		if dsn, err = db.SwitchDatabase(dsn, name); err != nil {
			return nil, fmt.Errorf("compose DSN: %w", err)
		}
		log.Printf("Using database %q for city %q", name, cfg.City)
	}

	sqlDB, err := db.Open(dsn)
	if err != nil {
		return nil, fmt.Errorf("db open: %w", err)
	}
	defer sqlDB.Close()
	if err := db.Ping(ctx, sqlDB); err != nil {
		return nil, fmt.Errorf("db ping: %w", err)
	}
	j, err := db.LoadTripJourney(ctx, sqlDB, cfg.TripID, cfg.ShapeDistScale)
	if err != nil {
		return nil, err
	}
	log.Printf("loaded trip %s as journey %q (%d stops, %.2f km)", cfg.TripID, j.Name(), j.Len(), j.TotalDistance())
	return j, nil
}
