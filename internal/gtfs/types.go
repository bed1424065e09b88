package gtfs

type Trip struct {
	TripID       string
	RouteID      string
	RouteName    string // route_short_name, falling back to route_long_name
	TripHeadsign string
}

type StopTime struct {
	StopSequence      int
	ShapeDistTraveled float64 // feed units (usually meters); 0 if missing
	StopID            string
	StopName          string
	StopLat           float64
	StopLon           float64
}

// DisplayName is the journey title shown for a trip.
func (t Trip) DisplayName() string {
	switch {
	case t.RouteName != "" && t.TripHeadsign != "":
		return t.RouteName + " to " + t.TripHeadsign
	case t.RouteName != "":
		return t.RouteName
	case t.TripHeadsign != "":
		return t.TripHeadsign
	default:
		return t.TripID
	}
}
