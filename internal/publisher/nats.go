package publisher

import (
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/nats-io/nats.go"

	"journey-tracker/internal/journey"
)

// NATSPublisher mirrors journey snapshots to a NATS subject and optionally
// receives commands from remote displays.
type NATSPublisher struct {
	nc          *nats.Conn
	subjects    Subjects
	logSubjects bool
	metrics     PublisherMetrics
	sub         *nats.Subscription
}

type PublisherMetrics interface {
	NATSPublishedInc()
	NATSPublishErrInc()
	PublishObserve(d time.Duration)
	NATSSetConnected(connected bool)
}

// Subjects are the state and command subjects for one journey.
type Subjects struct {
	State   string
	Command string
}

func SubjectsFor(prefix, journeyName string) Subjects {
	base := fmt.Sprintf("%s.%s", prefix, subjectToken(journeyName))
	return Subjects{State: base + ".state", Command: base + ".cmd"}
}

func NewNATSPublisher(url string, subjects Subjects, logSubjects bool, m PublisherMetrics) (*NATSPublisher, error) {
	nc, err := nats.Connect(url,
		nats.Name("journey-tracker"),
		nats.DisconnectHandler(func(_ *nats.Conn) {
			if m != nil {
				m.NATSSetConnected(false)
			}
			log.Printf("nats disconnected")
		}),
		nats.ReconnectHandler(func(_ *nats.Conn) {
			if m != nil {
				m.NATSSetConnected(true)
			}
			log.Printf("nats reconnected")
		}),
		nats.ClosedHandler(func(_ *nats.Conn) {
			if m != nil {
				m.NATSSetConnected(false)
			}
			log.Printf("nats closed")
		}),
	)
	if err != nil {
		return nil, err
	}
	if m != nil {
		m.NATSSetConnected(true)
	}
	return &NATSPublisher{nc: nc, subjects: subjects, logSubjects: logSubjects, metrics: m}, nil
}

func (p *NATSPublisher) Close() {
	if p.sub != nil {
		_ = p.sub.Unsubscribe()
	}
	if p.nc != nil {
		p.nc.Drain()
		p.nc.Close()
	}
}

type StateMessage struct {
	SessionID string    `json:"sessionId"`
	Timestamp time.Time `json:"timestamp"`
	journey.Snapshot
}

func NewStateMessage(sessionID string, at time.Time, s journey.Snapshot) StateMessage {
	return StateMessage{SessionID: sessionID, Timestamp: at, Snapshot: s}
}

func (p *NATSPublisher) PublishState(msg StateMessage) error {
	b, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	if p.logSubjects {
		log.Printf("nats publish subject=%s", p.subjects.State)
	}
	start := time.Now()
	err = p.nc.Publish(p.subjects.State, b)
	if p.metrics != nil {
		p.metrics.PublishObserve(time.Since(start))
		if err != nil {
			p.metrics.NATSPublishErrInc()
		} else {
			p.metrics.NATSPublishedInc()
		}
	}
	return err
}

// SubscribeCommands delivers each command payload (trimmed) to handle. A
// non-nil error from handle is sent back when the message has a reply subject.
func (p *NATSPublisher) SubscribeCommands(handle func(cmd string) error) error {
	sub, err := p.nc.Subscribe(p.subjects.Command, func(m *nats.Msg) {
		cmd := strings.TrimSpace(string(m.Data))
		if p.logSubjects {
			log.Printf("nats command subject=%s cmd=%q", m.Subject, cmd)
		}
		reply := "ok"
		if err := handle(cmd); err != nil {
			reply = "error: " + err.Error()
		}
		if m.Reply != "" {
			if err := m.Respond([]byte(reply)); err != nil {
				log.Printf("nats respond error: %v", err)
			}
		}
	})
	if err != nil {
		return fmt.Errorf("subscribe %s: %w", p.subjects.Command, err)
	}
	p.sub = sub
	log.Printf("listening for commands on %s", p.subjects.Command)
	return nil
}

func subjectToken(s string) string {
	s = strings.TrimSpace(s)
	// NATS token cannot contain spaces, '>', '*', or trailing '.'
	repl := strings.NewReplacer(" ", "_", ".", "_", ">", "_", "*", "_", "/", "_", "\t", "_")
	s = repl.Replace(s)
	if s == "" {
		s = "_"
	}
	return s
}
