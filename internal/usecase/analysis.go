package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"StockLens/internal/domain/models"
	domrepo "StockLens/internal/domain/repository"
	domsvc "StockLens/internal/domain/service"
	"StockLens/internal/services/chart"
	"StockLens/internal/services/series"
	xlogger "StockLens/pkg/logger"
	"StockLens/pkg/util"
)

// AnalysisParams are the raw request fields; validation happens in Handle.
type AnalysisParams struct {
	Symbol    string
	StartDate string
	EndDate   string
	Kind      string
}

type SummaryParams struct {
	Symbol    string
	StartDate string
	EndDate   string
}

// AnalysisUseCase fetches bars, normalizes them and renders one view per call.
// It holds no per-request state and is safe for concurrent use.
type AnalysisUseCase struct {
	provider   domrepo.MarketDataProvider
	normalizer domsvc.Normalizer
	charts     domsvc.ChartAssembler
	events     domrepo.EventPublisher
	metrics    domrepo.Metrics
	logger     *xlogger.Logger

	adjust         bool
	publishTimeout time.Duration
}

type Option func(*AnalysisUseCase)

const kindSummary = "summary"

// WithAdjust requests split/dividend adjusted prices from the provider.
func WithAdjust(adjust bool) Option {
	return func(u *AnalysisUseCase) { u.adjust = adjust }
}

func WithEvents(p domrepo.EventPublisher) Option {
	return func(u *AnalysisUseCase) { u.events = p }
}

func WithMetrics(m domrepo.Metrics) Option {
	return func(u *AnalysisUseCase) { u.metrics = m }
}

func WithPublishTimeout(d time.Duration) Option {
	return func(u *AnalysisUseCase) { u.publishTimeout = d }
}

func NewAnalysisUseCase(
	provider domrepo.MarketDataProvider,
	normalizer domsvc.Normalizer,
	charts domsvc.ChartAssembler,
	logger *xlogger.Logger,
	opts ...Option,
) *AnalysisUseCase {
	u := &AnalysisUseCase{
		provider:       provider,
		normalizer:     normalizer,
		charts:         charts,
		logger:         logger,
		adjust:         true,
		publishTimeout: 2 * time.Second,
	}
	for _, opt := range opts {
		opt(u)
	}
	return u
}

type window struct {
	symbol     string
	start, end time.Time
	startRaw   string
	endRaw     string
}

// validate checks presence, date format and ordering.
func validate(symbol, start, end string) (window, error) {
	w := window{
		symbol:   util.NormalizeSymbol(symbol),
		startRaw: strings.TrimSpace(start),
		endRaw:   strings.TrimSpace(end),
	}
	switch {
	case w.symbol == "":
		return w, models.MissingParameter("symbol")
	case w.startRaw == "":
		return w, models.MissingParameter("start_date")
	case w.endRaw == "":
		return w, models.MissingParameter("end_date")
	}

	var ok bool
	if w.start, ok = util.ParseDate(w.startRaw); !ok {
		return w, models.InvalidDateFormat("start_date", w.startRaw)
	}
	if w.end, ok = util.ParseDate(w.endRaw); !ok {
		return w, models.InvalidDateFormat("end_date", w.endRaw)
	}
	if !w.start.Before(w.end) {
		return w, models.InvalidDateRange(w.startRaw, w.endRaw)
	}
	return w, nil
}

// fetch loads the inclusive window. Providers treat the upper bound as
// exclusive, so one day is added to keep end_date in the result.
func (u *AnalysisUseCase) fetch(ctx context.Context, w window) (*models.Series, error) {
	start := time.Now()
	raw, err := u.provider.Fetch(ctx, w.symbol, w.start, w.end.AddDate(0, 0, 1), u.adjust)
	u.observe("provider_fetch", start)
	if err != nil {
		return nil, models.ProviderFailure(fmt.Errorf("%s fetch %s: %w", u.provider.Name(), w.symbol, err))
	}
	if raw.Empty() {
		return nil, models.NoDataFound(w.symbol)
	}
	if u.metrics != nil {
		u.metrics.RecordBarsFetched(u.provider.Name(), raw.Len())
	}
	return u.normalizer.Normalize(raw), nil
}

// Handle runs one analysis view.
func (u *AnalysisUseCase) Handle(ctx context.Context, p AnalysisParams) (res *models.AnalysisResult, err error) {
	started := time.Now()
	kind := models.AnalysisKind(strings.TrimSpace(p.Kind))
	rows := 0
	defer func() {
		u.finish(ctx, string(kind), p.Symbol, p.StartDate, p.EndDate, rows, started, err)
	}()

	w, err := validate(p.Symbol, p.StartDate, p.EndDate)
	if err != nil {
		return nil, err
	}
	if !models.IsValidKind(kind) {
		return nil, models.InvalidAnalysisType(string(kind))
	}

	s, err := u.fetch(ctx, w)
	if err != nil {
		return nil, err
	}
	rows = s.Len()

	return u.render(kind, s)
}

func (u *AnalysisUseCase) render(kind models.AnalysisKind, s *models.Series) (*models.AnalysisResult, error) {
	// regression degrades to an empty chart without stats instead
	if (kind == models.KindPrice || kind == models.KindMovingAverage) && s.Price() == nil {
		return nil, models.DataUnavailable(fmt.Sprintf("Price data (%s) not available.", s.PriceColumn))
	}

	switch kind {
	case models.KindPrice:
		spec := u.charts.Assemble(chart.TitlePrice, chart.PriceLayout(), chart.PriceTraces(series.Prices(s))...)
		return &models.AnalysisResult{ChartData: spec}, nil

	case models.KindMovingAverage:
		v := series.MovingAverages(s, series.ShortWindow, series.LongWindow)
		spec := u.charts.Assemble(chart.TitleMovingAverage, chart.MovingAverageLayout(), chart.MovingAverageTraces(v)...)
		return &models.AnalysisResult{ChartData: spec}, nil

	case models.KindVolume:
		v, err := series.Volume(s)
		if err != nil {
			return nil, err
		}
		spec := u.charts.Assemble(chart.TitleVolume, chart.VolumeLayout(), chart.VolumeTraces(v)...)
		return &models.AnalysisResult{ChartData: spec}, nil

	case models.KindRegression:
		tr := series.Trend(s)
		spec := u.charts.Assemble(chart.TitleRegression, chart.RegressionLayout(), chart.RegressionTraces(tr)...)
		return &models.AnalysisResult{ChartData: spec, Stats: tr.Stats(s.PriceColumn)}, nil
	}
	return nil, models.InvalidAnalysisType(string(kind))
}

// Summarize reports the latest price and the change over the window.
func (u *AnalysisUseCase) Summarize(ctx context.Context, p SummaryParams) (sum *models.Summary, err error) {
	started := time.Now()
	rows := 0
	defer func() {
		u.finish(ctx, kindSummary, p.Symbol, p.StartDate, p.EndDate, rows, started, err)
	}()

	w, err := validate(p.Symbol, p.StartDate, p.EndDate)
	if err != nil {
		return nil, err
	}
	s, err := u.fetch(ctx, w)
	if err != nil {
		return nil, err
	}
	rows = s.Len()

	prices := series.Prices(s)
	if len(prices.Values) == 0 {
		return nil, models.DataUnavailable(fmt.Sprintf("Price data (%s) not available.", s.PriceColumn))
	}

	first := prices.Values[0]
	latest := prices.Values[len(prices.Values)-1]
	change, pct := 0.0, 0.0
	if len(prices.Values) >= 2 {
		change = latest - first
		if first != 0 {
			pct = change / first * 100
		}
	}

	return &models.Summary{
		Success:        true,
		Symbol:         w.symbol,
		LatestPrice:    series.Round(latest, 2),
		PriceChange:    series.Round(change, 2),
		PriceChangePct: series.Round(pct, 2),
		DataPoints:     s.Len(),
		DateRange: models.DateRange{
			Start: util.FormatDate(s.Index[0]),
			End:   util.FormatDate(s.Index[s.Len()-1]),
		},
		Currency:    CurrencySymbol(s.Meta.Currency),
		PriceColumn: s.PriceColumn,
	}, nil
}

// finish records metrics, logs failures and publishes the outcome event.
func (u *AnalysisUseCase) finish(ctx context.Context, kind, symbol, startDate, endDate string, rows int, started time.Time, err error) {
	elapsed := time.Since(started)
	outcome := "success"
	ev := &models.AnalysisEvent{
		EventType:  models.EventAnalysisCompleted,
		RequestID:  util.RequestID(ctx),
		Symbol:     util.NormalizeSymbol(symbol),
		Kind:       kind,
		StartDate:  startDate,
		EndDate:    endDate,
		Provider:   u.provider.Name(),
		Rows:       rows,
		DurationMs: elapsed.Milliseconds(),
		Timestamp:  time.Now().UTC(),
	}

	if err != nil {
		outcome = "error"
		ev.EventType = models.EventAnalysisFailed
		ev.ErrorKind = ErrorKind(err)
		if ev.ErrorKind == models.ErrProviderFailure {
			u.logger.Error("analysis failed",
				xlogger.String("kind", kind),
				xlogger.String("symbol", ev.Symbol),
				xlogger.Error(err))
		} else {
			u.logger.Debug("analysis rejected",
				xlogger.String("kind", kind),
				xlogger.String("symbol", ev.Symbol),
				xlogger.String("reason", string(ev.ErrorKind)))
		}
	}

	if u.metrics != nil {
		label := metricKind(kind)
		u.metrics.RecordAnalysis(label, outcome)
		if err != nil {
			u.metrics.RecordError(string(ev.ErrorKind))
		}
		u.metrics.RecordLatency("analysis_"+label, elapsed.Seconds())
	}

	if u.events == nil {
		return
	}
	pctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), u.publishTimeout)
	defer cancel()
	if perr := u.events.PublishAnalysis(pctx, ev); perr != nil {
		u.logger.Warn("publish analysis event", xlogger.Error(perr))
	}
}

// metricKind keeps the kind label to a closed set; kind comes from the URL.
func metricKind(kind string) string {
	if kind == kindSummary || models.IsValidKind(models.AnalysisKind(kind)) {
		return kind
	}
	return "invalid"
}

func (u *AnalysisUseCase) observe(op string, start time.Time) {
	if u.metrics != nil {
		u.metrics.RecordLatency(op, time.Since(start).Seconds())
	}
}

// ErrorKind returns the kind of an AnalysisError, or "INTERNAL".
func ErrorKind(err error) models.ErrorKind {
	var aerr *models.AnalysisError
	if errors.As(err, &aerr) {
		return aerr.Kind
	}
	return "INTERNAL"
}
