package metrics

import (
	"context"
	"time"

	"StockLens/internal/domain/models"
	domrepo "StockLens/internal/domain/repository"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// ProviderMetrics holds the collectors shared by instrumented providers.
type ProviderMetrics struct {
	latency *prometheus.HistogramVec
	errors  *prometheus.CounterVec
	empty   *prometheus.CounterVec
}

func NewProviderMetrics(reg prometheus.Registerer) *ProviderMetrics {
	f := promauto.With(reg)
	return &ProviderMetrics{
		latency: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "stocklens",
				Subsystem: "provider",
				Name:      "fetch_seconds",
				Help:      "Latency of market data fetches",
				Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10, 20},
			},
			[]string{"provider"},
		),
		errors: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "stocklens",
				Subsystem: "provider",
				Name:      "errors_total",
				Help:      "Failed market data fetches",
			},
			[]string{"provider"},
		),
		empty: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "stocklens",
				Subsystem: "provider",
				Name:      "empty_total",
				Help:      "Fetches that returned no rows",
			},
			[]string{"provider"},
		),
	}
}

// InstrumentedProvider decorates a MarketDataProvider with metrics.
type InstrumentedProvider struct {
	next    domrepo.MarketDataProvider
	metrics *ProviderMetrics
}

func Instrument(next domrepo.MarketDataProvider, m *ProviderMetrics) *InstrumentedProvider {
	return &InstrumentedProvider{next: next, metrics: m}
}

func (p *InstrumentedProvider) Name() string { return p.next.Name() }

func (p *InstrumentedProvider) Fetch(ctx context.Context, symbol string, start, endExclusive time.Time, adjust bool) (*models.RawTable, error) {
	name := p.next.Name()
	t0 := time.Now()
	raw, err := p.next.Fetch(ctx, symbol, start, endExclusive, adjust)
	p.metrics.latency.WithLabelValues(name).Observe(time.Since(t0).Seconds())
	switch {
	case err != nil:
		p.metrics.errors.WithLabelValues(name).Inc()
	case raw.Empty():
		p.metrics.empty.WithLabelValues(name).Inc()
	}
	return raw, err
}
