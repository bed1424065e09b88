package journey

import (
	"strconv"
	"strings"
)

// KmToMiles is the conversion factor used for every imperial value shown.
const KmToMiles = 0.621371

// Miles converts km without rounding.
func Miles(km float64) float64 { return km * KmToMiles }

// FormatDistance renders km in the given unit.
//
// Metric values are printed unconverted in the shortest form that survives a
// round trip through float32, with at least one fractional digit ("1.0 km",
// "7.2 km" rather than "7.199999999999999 km"). Imperial values are printed
// with exactly two decimals; see formatMiles.
func FormatDistance(km float64, u Unit) string {
	if u == Imperial {
		return formatMiles(Miles(km)) + " miles"
	}
	return formatKm(km) + " km"
}

// formatMiles rounds the exact binary value to nearest with ties to even, so
// 0.125 gives "0.12" and a value stored just below .xx5 rounds down.
func formatMiles(mi float64) string {
	return strconv.FormatFloat(mi, 'f', 2, 64)
}

func formatKm(km float64) string {
	s := strconv.FormatFloat(km, 'f', -1, 32)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}

// UnitSwitchLabel is the caption of the button that toggles away from u.
func UnitSwitchLabel(u Unit) string {
	if u == Metric {
		return "Switch to Miles"
	}
	return "Switch to Km"
}
