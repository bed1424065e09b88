package publisher

import (
	"encoding/json"
	"testing"
	"time"

	"journey-tracker/internal/journey"
)

func TestSubjectToken(t *testing.T) {
	tests := map[string]string{
		"":                "_",
		"  ":              "_",
		"Line 5":          "Line_5",
		"a.b>c*d/e":       "a_b_c_d_e",
		"Downtown\tLoop":  "Downtown_Loop",
		"already_clean-1": "already_clean-1",
	}
	for in, want := range tests {
		if got := subjectToken(in); got != want {
			t.Errorf("subjectToken(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestSubjectsFor(t *testing.T) {
	s := SubjectsFor("journey", "Coast Road")
	if s.State != "journey.Coast_Road.state" {
		t.Errorf("State = %q", s.State)
	}
	if s.Command != "journey.Coast_Road.cmd" {
		t.Errorf("Command = %q", s.Command)
	}
}

func TestStateMessageJSON(t *testing.T) {
	p := journey.NewProgress(journey.MustNew("x", []journey.Stop{{Name: "A", DistanceToNext: 1}, {Name: "B"}}), journey.Imperial)
	p.Advance()
	at := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	b, err := json.Marshal(NewStateMessage("sess-1", at, p.Snapshot()))
	if err != nil {
		t.Fatal(err)
	}
	var got map[string]any
	if err := json.Unmarshal(b, &got); err != nil {
		t.Fatal(err)
	}
	if got["sessionId"] != "sess-1" || got["journey"] != "x" || got["unit"] != "imperial" {
		t.Errorf("unexpected payload: %s", b)
	}
	if got["coveredText"] != "0.62 miles" {
		t.Errorf("coveredText = %v", got["coveredText"])
	}
	if got["currentIndex"] != float64(1) {
		t.Errorf("currentIndex = %v", got["currentIndex"])
	}
}
