package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// ErrNoImport is returned when no imported GTFS database matches a city.
var ErrNoImport = errors.New("no imported database for city")

// SwitchDatabase returns dsn pointed at another database on the same server.
// Only URL-style DSNs are accepted; a bare host is treated as postgres://host.
func SwitchDatabase(dsn, database string) (string, error) {
	if dsn == "" {
		return "", errors.New("empty DSN")
	}
	if !strings.Contains(dsn, "://") {
		dsn = "postgres://" + dsn
	}
	u, err := url.Parse(dsn)
	if err != nil {
		return "", fmt.Errorf("parse DSN: %w", err)
	}
	switch u.Scheme {
	case "postgres", "postgresql":
	default:
		return "", fmt.Errorf("unsupported DSN scheme %q", u.Scheme)
	}
	u.Path = "/" + strings.TrimPrefix(database, "/")
	return u.String(), nil
}

// LatestCityImport looks up the most recently imported database whose name
// contains city. meta must be connected to the cluster's postgres database.
func LatestCityImport(ctx context.Context, meta *sql.DB, city string) (string, error) {
	city = strings.TrimSpace(city)
	if city == "" {
		return "", errors.New("city is required")
	}
	const q = `
SELECT db_name
FROM public.latest_successful_imports
WHERE db_name ILIKE '%' || $1 || '%'
ORDER BY imported_at DESC
LIMIT 1`
	var name sql.NullString
	err := meta.QueryRowContext(ctx, q, city).Scan(&name)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return "", fmt.Errorf("%w: %q", ErrNoImport, city)
	case err != nil:
		return "", fmt.Errorf("latest import for %q: %w", city, err)
	case !name.Valid || name.String == "":
		return "", fmt.Errorf("%w: %q has an empty db_name", ErrNoImport, city)
	}
	return name.String, nil
}
