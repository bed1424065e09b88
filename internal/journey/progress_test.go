package journey

import (
	"errors"
	"math"
	"testing"
)

func abc(t *testing.T) *Journey {
	t.Helper()
	j, err := New("test", []Stop{{"A", 2}, {"B", 3}, {"C", 5}})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return j
}

func TestNew_Validation(t *testing.T) {
	tests := []struct {
		name  string
		stops []Stop
		want  error
	}{
		{"empty", nil, ErrNoStops},
		{"blank name", []Stop{{"  ", 1}}, ErrInvalidStop},
		{"negative distance", []Stop{{"A", -1}}, ErrInvalidStop},
		{"NaN distance", []Stop{{"A", math.NaN()}}, ErrInvalidStop},
		{"infinite distance", []Stop{{"A", math.Inf(1)}}, ErrInvalidStop},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New("x", tt.stops)
			if !errors.Is(err, tt.want) {
				t.Errorf("New() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestNew_CopiesStops(t *testing.T) {
	stops := []Stop{{"A", 1}, {"B", 2}}
	j, err := New("x", stops)
	if err != nil {
		t.Fatal(err)
	}
	stops[0].Name = "changed"
	if j.Stop(0).Name != "A" {
		t.Errorf("journey shares caller's slice")
	}
	out := j.Stops()
	out[1].DistanceToNext = 99
	if j.Stop(1).DistanceToNext != 2 {
		t.Errorf("Stops() exposes internal slice")
	}
}

func TestProgress_Scenario(t *testing.T) {
	p := NewProgress(abc(t), Metric)

	if got := p.TotalDistance(); got != 10 {
		t.Fatalf("TotalDistance = %v, want 10", got)
	}

	p.Advance()
	if p.DistanceCovered() != 2 || p.CurrentIndex() != 1 {
		t.Fatalf("after 1 advance: covered=%v index=%d", p.DistanceCovered(), p.CurrentIndex())
	}
	if p.HighlightState(0) != Covered || p.HighlightState(1) != Current || p.HighlightState(2) != Default {
		t.Errorf("highlights after 1 advance: %v %v %v", p.HighlightState(0), p.HighlightState(1), p.HighlightState(2))
	}

	p.Advance()
	if p.DistanceCovered() != 5 || p.CurrentIndex() != 2 || p.Finished() {
		t.Fatalf("after 2 advances: covered=%v index=%d finished=%v", p.DistanceCovered(), p.CurrentIndex(), p.Finished())
	}

	p.Advance()
	if !p.Finished() {
		t.Fatal("expected finished after reaching last stop")
	}
	if p.DistanceCovered() != 5 {
		t.Errorf("covered = %v, want 5 (terminal distance not added)", p.DistanceCovered())
	}
	if p.RemainingDistance() != 5 {
		t.Errorf("remaining = %v, want 5", p.RemainingDistance())
	}
	for i := 0; i < 3; i++ {
		if p.HighlightState(i) != Covered {
			t.Errorf("stop %d highlight = %v after finish, want covered", i, p.HighlightState(i))
		}
	}

	// no-op once finished
	before := p.Snapshot()
	p.Advance()
	if p.CurrentIndex() != before.CurrentIndex || p.DistanceCovered() != before.DistanceCovered {
		t.Errorf("Advance after finish changed state")
	}
}

func TestProgress_AdvanceNTimesFinishes(t *testing.T) {
	for n := 1; n <= 12; n++ {
		stops := make([]Stop, n)
		for i := range stops {
			stops[i] = Stop{Name: string(rune('A' + i)), DistanceToNext: float64(i + 1)}
		}
		p := NewProgress(MustNew("n", stops), Metric)
		for k := 0; k < n; k++ {
			if p.Finished() {
				t.Fatalf("n=%d: finished early after %d advances", n, k)
			}
			want := 0.0
			for i := 0; i < k; i++ {
				want += stops[i].DistanceToNext
			}
			if got := p.DistanceCovered(); got != want {
				t.Errorf("n=%d k=%d: covered = %v, want %v", n, k, got, want)
			}
			if got := p.RemainingDistance(); got < 0 {
				t.Errorf("n=%d k=%d: remaining negative: %v", n, k, got)
			}
			p.Advance()
		}
		if !p.Finished() || p.CurrentIndex() != n {
			t.Errorf("n=%d: finished=%v index=%d", n, p.Finished(), p.CurrentIndex())
		}
	}
}

func TestProgress_SingleStop(t *testing.T) {
	p := NewProgress(MustNew("one", []Stop{{"Only", 4}}), Metric)
	p.Advance()
	if !p.Finished() || p.DistanceCovered() != 0 || p.RemainingDistance() != 4 {
		t.Errorf("single stop: finished=%v covered=%v remaining=%v", p.Finished(), p.DistanceCovered(), p.RemainingDistance())
	}
}

func TestProgress_Restart(t *testing.T) {
	p := NewProgress(abc(t), Imperial)
	p.Advance()
	p.Advance()
	p.Advance()
	p.Restart()
	if p.CurrentIndex() != 0 || p.DistanceCovered() != 0 || p.Finished() {
		t.Errorf("Restart: index=%d covered=%v finished=%v", p.CurrentIndex(), p.DistanceCovered(), p.Finished())
	}
	if p.Unit() != Imperial {
		t.Errorf("Restart changed unit to %v", p.Unit())
	}
}

func TestProgress_ToggleUnitTwice(t *testing.T) {
	p := NewProgress(abc(t), Metric)
	p.Advance()
	covered, remaining := p.DistanceCovered(), p.RemainingDistance()

	p.ToggleUnit()
	if p.Unit() != Imperial {
		t.Fatalf("unit = %v, want imperial", p.Unit())
	}
	p.ToggleUnit()
	if p.Unit() != Metric {
		t.Fatalf("unit = %v, want metric", p.Unit())
	}
	if p.DistanceCovered() != covered || p.RemainingDistance() != remaining {
		t.Errorf("toggle changed distances")
	}
}

func TestHighlightIgnoresUnitAndDistance(t *testing.T) {
	a := NewProgress(MustNew("a", []Stop{{"A", 1}, {"B", 1}, {"C", 1}, {"D", 1}}), Metric)
	b := NewProgress(MustNew("b", []Stop{{"W", 100}, {"X", 0}, {"Y", 7.5}, {"Z", 3}}), Imperial)
	for step := 0; step < 5; step++ {
		for i := -1; i <= 5; i++ {
			if a.HighlightState(i) != b.HighlightState(i) {
				t.Errorf("step %d stop %d: %v != %v", step, i, a.HighlightState(i), b.HighlightState(i))
			}
			if a.HighlightState(i) != HighlightAt(a.CurrentIndex(), i) {
				t.Errorf("HighlightState disagrees with HighlightAt")
			}
		}
		a.Advance()
		b.Advance()
	}
}

func TestProgress_Fraction(t *testing.T) {
	p := NewProgress(abc(t), Metric)
	if p.Fraction() != 0 {
		t.Errorf("initial fraction = %v", p.Fraction())
	}
	p.Advance()
	if p.Fraction() != 0.2 {
		t.Errorf("fraction = %v, want 0.2", p.Fraction())
	}

	zero := NewProgress(MustNew("z", []Stop{{"A", 0}, {"B", 0}}), Metric)
	zero.Advance()
	if zero.Fraction() != 0 {
		t.Errorf("zero-length journey fraction = %v", zero.Fraction())
	}
}

func TestProgress_Snapshot(t *testing.T) {
	p := NewProgress(abc(t), Metric)
	p.Advance()
	s := p.Snapshot()
	if s.Journey != "test" || s.CurrentIndex != 1 || s.Unit != "metric" {
		t.Errorf("snapshot header = %+v", s)
	}
	if s.CoveredText != "2.0 km" || s.RemainingText != "8.0 km" {
		t.Errorf("texts = %q / %q", s.CoveredText, s.RemainingText)
	}
	wantStates := []string{"covered", "current", "default"}
	for i, st := range s.Stops {
		if st.State != wantStates[i] {
			t.Errorf("stop %d state = %q, want %q", i, st.State, wantStates[i])
		}
	}
	if s.Stops[2].Distance != "5.0 km" {
		t.Errorf("stop distance = %q", s.Stops[2].Distance)
	}
}
