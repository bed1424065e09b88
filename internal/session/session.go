package session

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"journey-tracker/internal/journey"
	mmetrics "journey-tracker/internal/metrics"
	"journey-tracker/internal/publisher"
)

var ErrUnknownCommand = errors.New("unknown command")

type Command string

const (
	Advance    Command = "advance"
	Restart    Command = "restart"
	ToggleUnit Command = "toggle-unit"
)

// ParseCommand accepts the command names plus a few aliases used by remote
// displays ("next", "reached", "reset", "unit", "toggle").
func ParseCommand(s string) (Command, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "advance", "next", "reached":
		return Advance, nil
	case "restart", "reset":
		return Restart, nil
	case "toggle-unit", "toggle", "unit":
		return ToggleUnit, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownCommand, s)
}

// Publisher receives a state message after every applied command.
type Publisher interface {
	PublishState(msg publisher.StateMessage) error
}

// Session owns the single Progress of a run and applies commands to it one
// at a time.
type Session struct {
	id      string
	pub     Publisher
	metrics *mmetrics.Collector
	now     func() time.Time

	mu        sync.Mutex
	progress  *journey.Progress
	listeners []func(journey.Snapshot)
}

func New(j *journey.Journey, unit journey.Unit, pub Publisher, metrics *mmetrics.Collector) *Session {
	s := &Session{
		id:       uuid.NewString(),
		pub:      pub,
		metrics:  metrics,
		now:      time.Now,
		progress: journey.NewProgress(j, unit),
	}
	if metrics != nil {
		metrics.ObserveJourney(s.progress.Snapshot())
	}
	return s
}

func (s *Session) ID() string { return s.id }

// OnChange registers fn to run after every applied command. fn runs on the
// caller's goroutine and must not call back into the session.
func (s *Session) OnChange(fn func(journey.Snapshot)) {
	s.mu.Lock()
	s.listeners = append(s.listeners, fn)
	s.mu.Unlock()
}

func (s *Session) Snapshot() journey.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.progress.Snapshot()
}

// Apply runs cmd and returns the resulting snapshot. Publishing failures are
// logged, not returned; the local state has already changed. The lock is held
// until listeners return so every observer sees commands in order.
func (s *Session) Apply(ctx context.Context, cmd Command) (journey.Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return journey.Snapshot{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	p := s.progress
	before := p.CurrentIndex()
	switch cmd {
	case Advance:
		p.Advance()
	case Restart:
		p.Restart()
	case ToggleUnit:
		p.ToggleUnit()
	default:
		return journey.Snapshot{}, fmt.Errorf("%w: %q", ErrUnknownCommand, cmd)
	}
	snap := p.Snapshot()

	s.logTransition(cmd, before, snap)
	if s.metrics != nil {
		s.metrics.Commands.WithLabelValues(string(cmd)).Inc()
		s.metrics.ObserveJourney(snap)
	}
	s.Publish(snap)
	for _, fn := range s.listeners {
		fn(snap)
	}
	return snap, nil
}

// Publish sends snap to the publisher, if any.
func (s *Session) Publish(snap journey.Snapshot) {
	if s.pub == nil {
		return
	}
	if err := s.pub.PublishState(publisher.NewStateMessage(s.id, s.now(), snap)); err != nil {
		log.Printf("publish error for session %s: %v", s.id, err)
	}
}

// HandleRemote parses and applies a command received from a remote display.
func (s *Session) HandleRemote(ctx context.Context, raw string) error {
	cmd, err := ParseCommand(raw)
	if err != nil {
		log.Printf("session %s: rejected remote command %q", s.id, raw)
		return err
	}
	_, err = s.Apply(ctx, cmd)
	return err
}

func (s *Session) logTransition(cmd Command, before int, snap journey.Snapshot) {
	switch {
	case cmd == Advance && snap.Finished && before != snap.CurrentIndex:
		log.Printf("journey %q finished: covered %s", snap.Journey, snap.CoveredText)
	case cmd == Advance && before != snap.CurrentIndex:
		log.Printf("journey %q reached stop %d/%d: covered %s, left %s", snap.Journey, snap.CurrentIndex, len(snap.Stops), snap.CoveredText, snap.RemainingText)
	case cmd == Advance:
		log.Printf("journey %q already finished, ignoring advance", snap.Journey)
	case cmd == Restart:
		log.Printf("journey %q restarted", snap.Journey)
	case cmd == ToggleUnit:
		log.Printf("journey %q showing %s units", snap.Journey, snap.Unit)
	}
}
