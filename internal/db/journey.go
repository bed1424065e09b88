package db

import (
	"context"
	"database/sql"
	"fmt"

	"journey-tracker/internal/gtfs"
	"journey-tracker/internal/journey"
)

// LoadTripJourney reads one trip's stops and turns them into a Journey.
// distScale converts shape_dist_traveled feed units to km (0.001 for meters).
func LoadTripJourney(ctx context.Context, db *sql.DB, tripID string, distScale float64) (*journey.Journey, error) {
	trip, err := FetchTrip(ctx, db, tripID)
	if err != nil {
		return nil, err
	}
	sts, err := FetchStopTimes(ctx, db, tripID)
	if err != nil {
		return nil, err
	}
	if len(sts) == 0 {
		return nil, fmt.Errorf("trip %q: %w", tripID, journey.ErrNoStops)
	}
	return BuildJourney(trip, sts, distScale)
}

// BuildJourney converts ordered stop_times into stops with km distances to the
// next stop. The last stop gets 0.
func BuildJourney(trip gtfs.Trip, sts []gtfs.StopTime, distScale float64) (*journey.Journey, error) {
	segs := SegmentDistancesKm(sts, distScale)
	stops := make([]journey.Stop, len(sts))
	for i, st := range sts {
		name := st.StopName
		if name == "" {
			name = st.StopID
		}
		stops[i] = journey.Stop{Name: name, DistanceToNext: segs[i]}
	}
	j, err := journey.New(trip.DisplayName(), stops)
	if err != nil {
		return nil, fmt.Errorf("trip %q: %w", trip.TripID, err)
	}
	return j, nil
}

// SegmentDistancesKm returns, per stop, the distance in km to the following
// stop. shape_dist_traveled is used when the feed provides it; otherwise the
// great-circle distance between stop coordinates. Cumulative distances are
// forced non-decreasing so no segment is negative.
func SegmentDistancesKm(sts []gtfs.StopTime, distScale float64) []float64 {
	n := len(sts)
	out := make([]float64, n)
	if n < 2 {
		return out
	}
	if distScale <= 0 {
		distScale = 0.001
	}

	haveShapeDist := false
	for _, st := range sts[1:] {
		if st.ShapeDistTraveled > 0 {
			haveShapeDist = true
			break
		}
	}

	if haveShapeDist {
		// Forward fill gaps, then enforce monotonic
		cum := make([]float64, n)
		prev := 0.0
		for i, st := range sts {
			d := st.ShapeDistTraveled * distScale
			if d < prev {
				d = prev
			}
			cum[i] = d
			prev = d
		}
		for i := 0; i < n-1; i++ {
			out[i] = cum[i+1] - cum[i]
		}
		return out
	}

	for i := 0; i < n-1; i++ {
		a, b := sts[i], sts[i+1]
		if !hasCoords(a) || !hasCoords(b) {
			continue
		}
		out[i] = haversine(a.StopLat, a.StopLon, b.StopLat, b.StopLon) / 1000
	}
	return out
}

func hasCoords(st gtfs.StopTime) bool { return st.StopLat != 0 || st.StopLon != 0 }
