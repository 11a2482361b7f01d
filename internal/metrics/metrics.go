package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/eventnexus/eventnexus/internal/event_bus"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "eventnexus"

// Metrics holds the service counters on a private registry, so several
// instances can live side by side in tests.
type Metrics struct {
	registry *prometheus.Registry

	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	eventsCreated   *prometheus.CounterVec
	degradedCreates prometheus.Counter
	eventsUpdated   prometheus.Counter
	eventsDeleted   prometheus.Counter
	citiesCreated   prometheus.Counter
	gatewayFailures *prometheus.CounterVec
}

func New() *Metrics {
	m := &Metrics{registry: prometheus.NewRegistry()}

	m.requestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "http_requests_total",
		Help:      "HTTP requests by method, route and status",
	}, []string{"method", "route", "status"})
	m.requestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_seconds",
		Help:      "Time spent serving HTTP requests",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "route"})
	m.eventsCreated = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "events_created_total",
		Help:      "Events created, by primary category",
	}, []string{"category"})
	m.degradedCreates = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "events_created_degraded_total",
		Help:      "Events stored without their city or category link",
	})
	m.eventsUpdated = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "events_updated_total",
		Help:      "Events updated",
	})
	m.eventsDeleted = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "events_deleted_total",
		Help:      "Events deleted",
	})
	m.citiesCreated = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "cities_created_total",
		Help:      "Cities created on first use",
	})
	m.gatewayFailures = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "gateway_failures_total",
		Help:      "Backend calls that failed, by operation",
	}, []string{"operation"})

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.requestsTotal, m.requestDuration,
		m.eventsCreated, m.degradedCreates, m.eventsUpdated, m.eventsDeleted,
		m.citiesCreated, m.gatewayFailures,
	)
	return m
}

// Subscribe counts the notifications published on eventBus. The returned
// function stops counting.
func (m *Metrics) Subscribe(eventBus *event_bus.EventBus) (unsubscribe func()) {
	unsubscribers := []func(){
		event_bus.SubscribeTyped(eventBus, event_bus.TopicEventCreated, func(msg event_bus.TypedMessage[event_bus.EventCreated]) error {
			m.eventsCreated.WithLabelValues(msg.Payload.Category).Inc()
			if msg.Payload.Degraded {
				m.degradedCreates.Inc()
			}
			return nil
		}),
		event_bus.SubscribeTyped(eventBus, event_bus.TopicEventUpdated, func(msg event_bus.TypedMessage[event_bus.EventUpdated]) error {
			m.eventsUpdated.Inc()
			return nil
		}),
		event_bus.SubscribeTyped(eventBus, event_bus.TopicEventDeleted, func(msg event_bus.TypedMessage[event_bus.EventDeleted]) error {
			m.eventsDeleted.Inc()
			return nil
		}),
		event_bus.SubscribeTyped(eventBus, event_bus.TopicCityCreated, func(msg event_bus.TypedMessage[event_bus.CityCreated]) error {
			m.citiesCreated.Inc()
			return nil
		}),
		event_bus.SubscribeTyped(eventBus, event_bus.TopicGatewayFailed, func(msg event_bus.TypedMessage[event_bus.GatewayFailed]) error {
			m.gatewayFailures.WithLabelValues(msg.Payload.Operation).Inc()
			return nil
		}),
	}
	return func() {
		for _, u := range unsubscribers {
			u()
		}
	}
}

func (m *Metrics) ObserveRequest(method, route string, status int, duration time.Duration) {
	m.requestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.requestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}
