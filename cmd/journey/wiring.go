package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"journey-tracker/internal/config"
	"journey-tracker/internal/metrics"
	"journey-tracker/internal/publisher"
	"journey-tracker/internal/session"
	"journey-tracker/internal/source"
)

// runtime is everything a running session needs, torn down by Close.
type runtime struct {
	cfg        *config.Config
	sess       *session.Session
	pub        *publisher.NATSPublisher
	metricsSrv *http.Server
}

func start(ctx context.Context, cfg *config.Config) (*runtime, error) {
	j, err := source.Resolve(ctx, cfg)
	if err != nil {
		return nil, err
	}

	rt := &runtime{cfg: cfg}

	// Metrics setup
	var mcol *metrics.Collector
	if cfg.MetricsAddr != "" {
		mcol = metrics.NewCollector()
		rt.metricsSrv = mcol.Serve(cfg.MetricsAddr)
	}

	var sessPub session.Publisher
	if cfg.NATSURL != "" {
		subjects := publisher.SubjectsFor(cfg.NATSSubjectPrefix, j.Name())
		pub, err := publisher.NewNATSPublisher(cfg.NATSURL, subjects, cfg.LogNATSSubjects, wrapPublisherMetrics(mcol))
		if err != nil {
			rt.Close()
			return nil, err
		}
		rt.pub = pub
		sessPub = pub
		log.Printf("mirroring journey %q to %s", j.Name(), subjects.State)
	}

	rt.sess = session.New(j, cfg.Unit, sessPub, mcol)
	// Remote displays get the initial state without waiting for a command
	rt.sess.Publish(rt.sess.Snapshot())

	if rt.pub != nil && cfg.NATSCommands {
		err := rt.pub.SubscribeCommands(func(cmd string) error {
			return rt.sess.HandleRemote(ctx, cmd)
		})
		if err != nil {
			rt.Close()
			return nil, err
		}
	}
	return rt, nil
}

func (rt *runtime) Close() {
	if rt.pub != nil {
		rt.pub.Close()
	}
	if rt.metricsSrv != nil {
		// Shutdown with timeout
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		_ = rt.metricsSrv.Shutdown(shutdownCtx)
	}
}

// wrapPublisherMetrics adapts our Collector to the PublisherMetrics interface.
func wrapPublisherMetrics(c *metrics.Collector) publisher.PublisherMetrics {
	if c == nil {
		return nil
	}
	return &pubMetrics{c: c}
}

type pubMetrics struct{ c *metrics.Collector }

func (p *pubMetrics) NATSPublishedInc()              { p.c.NATSPublished.Inc() }
func (p *pubMetrics) NATSPublishErrInc()             { p.c.NATSPublishErrs.Inc() }
func (p *pubMetrics) PublishObserve(d time.Duration) { p.c.PublishDuration.Observe(d.Seconds()) }
func (p *pubMetrics) NATSSetConnected(b bool) {
	if b {
		p.c.NATSConnected.Set(1)
	} else {
		p.c.NATSConnected.Set(0)
	}
}
