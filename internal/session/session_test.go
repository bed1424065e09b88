package session

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"journey-tracker/internal/journey"
	mmetrics "journey-tracker/internal/metrics"
	"journey-tracker/internal/publisher"
)

type fakePublisher struct {
	mu   sync.Mutex
	msgs []publisher.StateMessage
	err  error
}

func (f *fakePublisher) PublishState(msg publisher.StateMessage) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.msgs = append(f.msgs, msg)
	return f.err
}

func testJourney() *journey.Journey {
	return journey.MustNew("coast", []journey.Stop{
		{Name: "A", DistanceToNext: 2},
		{Name: "B", DistanceToNext: 3},
		{Name: "C", DistanceToNext: 5},
	})
}

func TestParseCommand(t *testing.T) {
	tests := []struct {
		in   string
		want Command
	}{
		{"advance", Advance},
		{" NEXT ", Advance},
		{"reached", Advance},
		{"restart", Restart},
		{"reset", Restart},
		{"toggle-unit", ToggleUnit},
		{"unit", ToggleUnit},
	}
	for _, tt := range tests {
		got, err := ParseCommand(tt.in)
		if err != nil || got != tt.want {
			t.Errorf("ParseCommand(%q) = %q, %v; want %q", tt.in, got, err, tt.want)
		}
	}
	if _, err := ParseCommand("jump"); !errors.Is(err, ErrUnknownCommand) {
		t.Errorf("ParseCommand(jump) err = %v", err)
	}
}

func TestSession_ApplyPublishesAndCounts(t *testing.T) {
	pub := &fakePublisher{}
	m := mmetrics.NewCollector()
	s := New(testJourney(), journey.Metric, pub, m)
	fixed := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	s.now = func() time.Time { return fixed }

	ctx := context.Background()
	snap, err := s.Apply(ctx, Advance)
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if snap.CurrentIndex != 1 || snap.DistanceCovered != 2 {
		t.Errorf("snapshot after advance = %+v", snap)
	}
	if _, err := s.Apply(ctx, ToggleUnit); err != nil {
		t.Fatal(err)
	}

	if len(pub.msgs) != 2 {
		t.Fatalf("published %d messages, want 2", len(pub.msgs))
	}
	last := pub.msgs[1]
	if last.SessionID != s.ID() || !last.Timestamp.Equal(fixed) {
		t.Errorf("message envelope = %+v", last)
	}
	if last.Unit != "imperial" || last.CoveredText != "1.24 miles" {
		t.Errorf("message = unit %q covered %q", last.Unit, last.CoveredText)
	}

	if got := testutil.ToFloat64(m.Commands.WithLabelValues("advance")); got != 1 {
		t.Errorf("advance counter = %v", got)
	}
	if got := testutil.ToFloat64(m.CurrentIndex); got != 1 {
		t.Errorf("index gauge = %v", got)
	}
}

func TestSession_PublishErrorDoesNotFail(t *testing.T) {
	pub := &fakePublisher{err: errors.New("down")}
	s := New(testJourney(), journey.Metric, pub, nil)
	if _, err := s.Apply(context.Background(), Advance); err != nil {
		t.Errorf("Apply returned publish error: %v", err)
	}
	if s.Snapshot().CurrentIndex != 1 {
		t.Error("state not advanced")
	}
}

func TestSession_UnknownCommand(t *testing.T) {
	s := New(testJourney(), journey.Metric, nil, nil)
	if _, err := s.Apply(context.Background(), Command("fly")); !errors.Is(err, ErrUnknownCommand) {
		t.Errorf("err = %v", err)
	}
	if err := s.HandleRemote(context.Background(), "fly"); !errors.Is(err, ErrUnknownCommand) {
		t.Errorf("HandleRemote err = %v", err)
	}
}

func TestSession_CancelledContext(t *testing.T) {
	s := New(testJourney(), journey.Metric, nil, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := s.Apply(ctx, Advance); !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v", err)
	}
	if s.Snapshot().CurrentIndex != 0 {
		t.Error("cancelled command changed state")
	}
}

func TestSession_FullRunAndRestart(t *testing.T) {
	s := New(testJourney(), journey.Metric, nil, nil)
	ctx := context.Background()
	for i := 0; i < 5; i++ {
		if err := s.HandleRemote(ctx, "next"); err != nil {
			t.Fatal(err)
		}
	}
	snap := s.Snapshot()
	if !snap.Finished || snap.CurrentIndex != 3 || snap.DistanceCovered != 5 {
		t.Errorf("after run: %+v", snap)
	}
	if _, err := s.Apply(ctx, Restart); err != nil {
		t.Fatal(err)
	}
	snap = s.Snapshot()
	if snap.Finished || snap.CurrentIndex != 0 || snap.DistanceCovered != 0 {
		t.Errorf("after restart: %+v", snap)
	}
}

func TestSession_ConcurrentCommandsAreSerialised(t *testing.T) {
	stops := make([]journey.Stop, 100)
	for i := range stops {
		stops[i] = journey.Stop{Name: "s", DistanceToNext: 1}
	}
	s := New(journey.MustNew("long", stops), journey.Metric, nil, nil)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = s.Apply(context.Background(), Advance)
		}()
	}
	wg.Wait()
	snap := s.Snapshot()
	if snap.CurrentIndex != 50 || snap.DistanceCovered != 50 {
		t.Errorf("index=%d covered=%v, want 50/50", snap.CurrentIndex, snap.DistanceCovered)
	}
}

func TestSession_OnChange(t *testing.T) {
	s := New(testJourney(), journey.Metric, nil, nil)
	var got []int
	s.OnChange(func(snap journey.Snapshot) { got = append(got, snap.CurrentIndex) })

	ctx := context.Background()
	_, _ = s.Apply(ctx, Advance)
	_, _ = s.Apply(ctx, Advance)
	_, _ = s.Apply(ctx, Restart)
	_, _ = s.Apply(ctx, Command("bogus"))

	want := []int{1, 2, 0}
	if len(got) != len(want) {
		t.Fatalf("listener calls = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("call %d index = %d, want %d", i, got[i], want[i])
		}
	}
}
