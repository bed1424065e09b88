package journey

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

var (
	ErrNoStops     = errors.New("journey has no stops")
	ErrInvalidStop = errors.New("invalid stop")
)

type Stop struct {
	Name           string
	DistanceToNext float64 // km
}

// Journey is the fixed, ordered list of stops for one run.
type Journey struct {
	name  string
	stops []Stop
	// prefix[i] is the sum of DistanceToNext over stops[0:i]; len(prefix) == len(stops)+1
	prefix []float64
}

func New(name string, stops []Stop) (*Journey, error) {
	if len(stops) == 0 {
		return nil, ErrNoStops
	}
	cp := make([]Stop, len(stops))
	prefix := make([]float64, len(stops)+1)
	for i, s := range stops {
		s.Name = strings.TrimSpace(s.Name)
		if s.Name == "" {
			return nil, fmt.Errorf("%w: stop %d has no name", ErrInvalidStop, i)
		}
		d := s.DistanceToNext
		if math.IsNaN(d) || math.IsInf(d, 0) || d < 0 {
			return nil, fmt.Errorf("%w: stop %q distance %v", ErrInvalidStop, s.Name, d)
		}
		cp[i] = s
		prefix[i+1] = prefix[i] + d
	}
	return &Journey{name: strings.TrimSpace(name), stops: cp, prefix: prefix}, nil
}

// MustNew is New for journeys known to be valid at compile time.
func MustNew(name string, stops []Stop) *Journey {
	j, err := New(name, stops)
	if err != nil {
		panic(err)
	}
	return j
}

func (j *Journey) Name() string { return j.name }
func (j *Journey) Len() int     { return len(j.stops) }

func (j *Journey) Stop(i int) Stop { return j.stops[i] }

// Stops returns a copy of the stop list.
func (j *Journey) Stops() []Stop {
	out := make([]Stop, len(j.stops))
	copy(out, j.stops)
	return out
}

// TotalDistance sums DistanceToNext over every stop, the last one included.
func (j *Journey) TotalDistance() float64 { return j.prefix[len(j.stops)] }

// coveredAt returns the distance covered with the pointer at index. The
// terminal stop's trailing distance is never counted.
func (j *Journey) coveredAt(index int) float64 {
	last := len(j.stops) - 1
	if index > last {
		index = last
	}
	if index < 0 {
		index = 0
	}
	return j.prefix[index]
}

type Unit int

const (
	Metric Unit = iota
	Imperial
)

func (u Unit) String() string {
	switch u {
	case Imperial:
		return "imperial"
	default:
		return "metric"
	}
}

// ParseUnit accepts metric/km and imperial/miles/mi, case-insensitively.
func ParseUnit(s string) (Unit, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "metric", "km":
		return Metric, nil
	case "imperial", "miles", "mi":
		return Imperial, nil
	}
	return Metric, fmt.Errorf("unknown unit %q", s)
}

type Highlight int

const (
	Default Highlight = iota
	Covered
	Current
)

func (h Highlight) String() string {
	switch h {
	case Covered:
		return "covered"
	case Current:
		return "current"
	default:
		return "default"
	}
}
