package metrics

import (
	"log"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"journey-tracker/internal/journey"
)

type Collector struct {
	reg *prometheus.Registry

	Stops           prometheus.Gauge
	CurrentIndex    prometheus.Gauge
	CoveredKm       prometheus.Gauge
	TotalKm         prometheus.Gauge
	Finished        prometheus.Gauge
	ImperialDisplay prometheus.Gauge

	Commands *prometheus.CounterVec // command label: advance|restart|toggle-unit

	NATSPublished   prometheus.Counter
	NATSPublishErrs prometheus.Counter
	NATSConnected   prometheus.Gauge
	PublishDuration prometheus.Histogram
}

func NewCollector() *Collector {
	reg := prometheus.NewRegistry()

	c := &Collector{
		reg: reg,
		Stops: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "journey_stops",
			Help: "Number of stops in the loaded journey.",
		}),
		CurrentIndex: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "journey_current_index",
			Help: "Index of the next unreached stop.",
		}),
		CoveredKm: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "journey_distance_covered_km",
			Help: "Distance covered so far in kilometers.",
		}),
		TotalKm: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "journey_distance_total_km",
			Help: "Total journey distance in kilometers.",
		}),
		Finished: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "journey_finished",
			Help: "1 once the last stop has been reached, 0 otherwise.",
		}),
		ImperialDisplay: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "journey_display_imperial",
			Help: "1 while distances are shown in miles.",
		}),
		Commands: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "journey_commands_total",
			Help: "Commands applied to the journey.",
		}, []string{"command"}),
		NATSPublished: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "journey_nats_published_total",
			Help: "Total NATS messages published.",
		}),
		NATSPublishErrs: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "journey_nats_publish_errors_total",
			Help: "Total NATS publish errors.",
		}),
		NATSConnected: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "journey_nats_connected",
			Help: "1 if NATS connection is established, 0 otherwise.",
		}),
		PublishDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "journey_publish_duration_seconds",
			Help:    "Duration to marshal and publish a NATS message.",
			Buckets: prometheus.ExponentialBuckets(0.0005, 2, 15),
		}),
	}

	reg.MustRegister(
		c.Stops, c.CurrentIndex, c.CoveredKm, c.TotalKm, c.Finished, c.ImperialDisplay,
		c.Commands,
		c.NATSPublished, c.NATSPublishErrs, c.NATSConnected, c.PublishDuration,
	)
	return c
}

func (c *Collector) Handler() http.Handler { return promhttp.HandlerFor(c.reg, promhttp.HandlerOpts{}) }

// Serve starts an HTTP server exposing /metrics on the given address.
func (c *Collector) Serve(addr string) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", c.Handler())
	srv := &http.Server{Addr: addr, Handler: mux}
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("metrics server error: %v", err)
		}
	}()
	log.Printf("metrics listening on %s", addr)
	return srv
}

func boolGauge(g prometheus.Gauge, b bool) {
	if b {
		g.Set(1)
	} else {
		g.Set(0)
	}
}

// ObserveJourney records the state gauges from a snapshot.
func (c *Collector) ObserveJourney(s journey.Snapshot) {
	c.Stops.Set(float64(len(s.Stops)))
	c.CurrentIndex.Set(float64(s.CurrentIndex))
	c.CoveredKm.Set(s.DistanceCovered)
	c.TotalKm.Set(s.TotalDistance)
	boolGauge(c.Finished, s.Finished)
	boolGauge(c.ImperialDisplay, s.Unit == journey.Imperial.String())
}
