// Package observability bundles the Prometheus metrics the editor API
// exposes: HTTP request counts and latencies plus gauges mirroring the
// open scenario's entity counts.
package observability

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector registers and owns the editor's Prometheus metrics.
type Collector struct {
	gatherer prometheus.Gatherer

	HTTPRequests  *prometheus.CounterVec
	HTTPDurations *prometheus.HistogramVec

	ScenarioSaves prometheus.Counter
	ScenarioLoads prometheus.Counter

	ScenarioAgents        prometheus.Gauge
	ScenarioRobots        prometheus.Gauge
	ScenarioStaticObjects prometheus.Gauge
	ScenarioGoals         prometheus.Gauge
}

// NewCollector registers the editor metrics against the provided
// registerer, defaulting to the global Prometheus registry when nil.
// Registration tolerates collectors that already exist, so repeated
// construction in tests and embedded setups is safe.
func NewCollector(reg prometheus.Registerer) (*Collector, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	gatherer := prometheus.DefaultGatherer
	if g, ok := reg.(prometheus.Gatherer); ok {
		gatherer = g
	}

	requests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "editor_http_requests_total",
		Help: "Total number of handled editor API requests, labeled by method, route, and status code.",
	}, []string{"method", "route", "status"})
	requests, err := registerCounterVec(reg, requests, "editor_http_requests_total")
	if err != nil {
		return nil, err
	}

	durations := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "editor_http_request_duration_seconds",
		Help:    "Editor API request latency in seconds.",
		Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2, 5},
	}, []string{"method", "route"})
	durations, err = registerHistogramVec(reg, durations, "editor_http_request_duration_seconds")
	if err != nil {
		return nil, err
	}

	saves, err := registerCounter(reg, prometheus.NewCounter(prometheus.CounterOpts{
		Name: "scenario_saves_total",
		Help: "Total number of scenario files written.",
	}), "scenario_saves_total")
	if err != nil {
		return nil, err
	}
	loads, err := registerCounter(reg, prometheus.NewCounter(prometheus.CounterOpts{
		Name: "scenario_loads_total",
		Help: "Total number of scenario files read.",
	}), "scenario_loads_total")
	if err != nil {
		return nil, err
	}

	agents, err := registerGauge(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "scenario_agents",
		Help: "Current number of agents in the open scenario.",
	}), "scenario_agents")
	if err != nil {
		return nil, err
	}
	robots, err := registerGauge(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "scenario_robots",
		Help: "Current number of robots in the open scenario.",
	}), "scenario_robots")
	if err != nil {
		return nil, err
	}
	statics, err := registerGauge(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "scenario_static_objects",
		Help: "Current number of static objects in the open scenario.",
	}), "scenario_static_objects")
	if err != nil {
		return nil, err
	}
	goals, err := registerGauge(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "scenario_goals",
		Help: "Current number of scenario-level goals in the open scenario.",
	}), "scenario_goals")
	if err != nil {
		return nil, err
	}

	return &Collector{
		gatherer:              gatherer,
		HTTPRequests:          requests,
		HTTPDurations:         durations,
		ScenarioSaves:         saves,
		ScenarioLoads:         loads,
		ScenarioAgents:        agents,
		ScenarioRobots:        robots,
		ScenarioStaticObjects: statics,
		ScenarioGoals:         goals,
	}, nil
}

// ObserveRequest records one handled request. Route should be the
// registered pattern, not the raw path, to keep label cardinality down.
func (c *Collector) ObserveRequest(method, route string, status int, elapsed time.Duration) {
	if c == nil {
		return
	}
	if c.HTTPRequests != nil {
		c.HTTPRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	}
	if c.HTTPDurations != nil {
		c.HTTPDurations.WithLabelValues(method, route).Observe(elapsed.Seconds())
	}
}

// SetEntityCounts drives the entity gauges from the scenario's
// collections after every mutation.
func (c *Collector) SetEntityCounts(agents, robots, staticObjects, goals int) {
	if c == nil {
		return
	}
	if c.ScenarioAgents != nil {
		c.ScenarioAgents.Set(float64(agents))
	}
	if c.ScenarioRobots != nil {
		c.ScenarioRobots.Set(float64(robots))
	}
	if c.ScenarioStaticObjects != nil {
		c.ScenarioStaticObjects.Set(float64(staticObjects))
	}
	if c.ScenarioGoals != nil {
		c.ScenarioGoals.Set(float64(goals))
	}
}

// Handler exposes a ready-to-use /metrics handler.
func (c *Collector) Handler() http.Handler {
	gatherer := c.gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

func registerCounterVec(reg prometheus.Registerer, vec *prometheus.CounterVec, name string) (*prometheus.CounterVec, error) {
	if err := reg.Register(vec); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(*prometheus.CounterVec); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return vec, nil
}

func registerHistogramVec(reg prometheus.Registerer, vec *prometheus.HistogramVec, name string) (*prometheus.HistogramVec, error) {
	if err := reg.Register(vec); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(*prometheus.HistogramVec); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return vec, nil
}

func registerCounter(reg prometheus.Registerer, counter prometheus.Counter, name string) (prometheus.Counter, error) {
	if err := reg.Register(counter); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(prometheus.Counter); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return counter, nil
}

func registerGauge(reg prometheus.Registerer, gauge prometheus.Gauge, name string) (prometheus.Gauge, error) {
	if err := reg.Register(gauge); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(prometheus.Gauge); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return gauge, nil
}
