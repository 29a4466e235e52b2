package usecase

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"StockLens/internal/domain/models"
	"StockLens/internal/services/chart"
	"StockLens/internal/services/normalize"
	xlogger "StockLens/pkg/logger"
	"StockLens/pkg/metrics"

	"github.com/guregu/null/v6"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockProvider struct{ mock.Mock }

func (m *mockProvider) Name() string { return "mock" }

func (m *mockProvider) Fetch(ctx context.Context, symbol string, start, end time.Time, adjust bool) (*models.RawTable, error) {
	args := m.Called(ctx, symbol, start, end, adjust)
	raw, _ := args.Get(0).(*models.RawTable)
	return raw, args.Error(1)
}

type mockEvents struct{ mock.Mock }

func (m *mockEvents) PublishAnalysis(ctx context.Context, ev *models.AnalysisEvent) error {
	return m.Called(ctx, ev).Error(0)
}

func (m *mockEvents) Close() error { return nil }

type countingMetrics struct {
	outcomes map[string]int
	errs     map[string]int
	bars     int
}

func newCountingMetrics() *countingMetrics {
	return &countingMetrics{outcomes: map[string]int{}, errs: map[string]int{}}
}

func (c *countingMetrics) RecordAnalysis(kind, outcome string) { c.outcomes[kind+"/"+outcome]++ }
func (c *countingMetrics) RecordError(kind string)             { c.errs[kind]++ }
func (c *countingMetrics) RecordBarsFetched(_ string, n int)   { c.bars += n }
func (c *countingMetrics) RecordLatency(string, float64)       {}

func date(s string) time.Time {
	t, _ := time.Parse("2006-01-02", s)
	return t
}

// table builds n daily rows starting 2024-01-01 with close = f(i).
func table(n int, f func(i int) float64, withVolume bool) *models.RawTable {
	t := &models.RawTable{Meta: models.TableMeta{Symbol: "AAPL", Currency: "USD", Provider: "mock"}}
	closes := make([]null.Float, n)
	vols := make([]null.Float, n)
	for i := 0; i < n; i++ {
		t.Index = append(t.Index, date("2024-01-01").AddDate(0, 0, i))
		closes[i] = null.FloatFrom(f(i))
		vols[i] = null.FloatFrom(float64(1000 * (i + 1)))
	}
	t.Columns = []models.RawColumn{{Header: []string{"Close"}, Values: closes}}
	if withVolume {
		t.Columns = append(t.Columns, models.RawColumn{Header: []string{"Volume"}, Values: vols})
	}
	return t
}

func newUseCase(p *mockProvider, opts ...Option) *AnalysisUseCase {
	return NewAnalysisUseCase(p, normalize.NewNormalizer(nil), chart.NewAssembler(), xlogger.Nop(), opts...)
}

func kindOf(t *testing.T, err error) models.ErrorKind {
	t.Helper()
	var aerr *models.AnalysisError
	require.True(t, errors.As(err, &aerr), "expected AnalysisError, got %v", err)
	return aerr.Kind
}

func TestHandlePriceHappyPath(t *testing.T) {
	p := &mockProvider{}
	// end_date is inclusive, so the provider sees end+1 day
	p.On("Fetch", mock.Anything, "AAPL", date("2024-01-01"), date("2024-01-22"), true).
		Return(table(21, func(i int) float64 { return 100 + float64(i) }, true), nil).Once()

	res, err := newUseCase(p).Handle(context.Background(), AnalysisParams{
		Symbol: " aapl ", StartDate: "2024-01-01", EndDate: "2024-01-21", Kind: "price",
	})
	require.NoError(t, err)
	require.Len(t, res.ChartData.Data, 1)
	assert.Len(t, res.ChartData.Data[0].X, 21)
	assert.Equal(t, chart.TitlePrice, res.ChartData.Layout.Title)
	assert.Nil(t, res.Stats)
	p.AssertExpectations(t)
}

func TestHandleValidation(t *testing.T) {
	cases := []struct {
		name string
		p    AnalysisParams
		want models.ErrorKind
	}{
		{"missing symbol", AnalysisParams{StartDate: "2024-01-01", EndDate: "2024-02-01", Kind: "price"}, models.ErrMissingParameter},
		{"blank symbol", AnalysisParams{Symbol: "  ", StartDate: "2024-01-01", EndDate: "2024-02-01", Kind: "price"}, models.ErrMissingParameter},
		{"missing end", AnalysisParams{Symbol: "AAPL", StartDate: "2024-01-01", Kind: "price"}, models.ErrMissingParameter},
		{"bad start", AnalysisParams{Symbol: "AAPL", StartDate: "01/01/2024", EndDate: "2024-02-01", Kind: "price"}, models.ErrInvalidDateFormat},
		{"bad end", AnalysisParams{Symbol: "AAPL", StartDate: "2024-01-01", EndDate: "2024-13-01", Kind: "price"}, models.ErrInvalidDateFormat},
		{"reversed", AnalysisParams{Symbol: "AAPL", StartDate: "2024-02-01", EndDate: "2024-01-01", Kind: "price"}, models.ErrInvalidDateRange},
		{"same day", AnalysisParams{Symbol: "AAPL", StartDate: "2024-02-01", EndDate: "2024-02-01", Kind: "price"}, models.ErrInvalidDateRange},
		{"bad kind", AnalysisParams{Symbol: "AAPL", StartDate: "2024-01-01", EndDate: "2024-02-01", Kind: "candles"}, models.ErrInvalidAnalysisType},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := &mockProvider{}
			_, err := newUseCase(p).Handle(context.Background(), tc.p)
			assert.Equal(t, tc.want, kindOf(t, err))
			assert.Equal(t, 400, tc.want.Status())
			p.AssertNotCalled(t, "Fetch", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestHandleNoData(t *testing.T) {
	p := &mockProvider{}
	p.On("Fetch", mock.Anything, "XXXX", mock.Anything, mock.Anything, true).Return(&models.RawTable{}, nil)

	_, err := newUseCase(p).Handle(context.Background(), AnalysisParams{
		Symbol: "XXXX", StartDate: "2024-01-01", EndDate: "2024-02-01", Kind: "price",
	})
	assert.Equal(t, models.ErrNoDataFound, kindOf(t, err))
	var aerr *models.AnalysisError
	require.ErrorAs(t, err, &aerr)
	assert.Contains(t, aerr.Message, "XXXX")
	assert.NotEmpty(t, aerr.Suggestions)
}

func TestHandleProviderFailure(t *testing.T) {
	p := &mockProvider{}
	boom := errors.New("connection reset")
	p.On("Fetch", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil, boom)

	_, err := newUseCase(p).Handle(context.Background(), AnalysisParams{
		Symbol: "AAPL", StartDate: "2024-01-01", EndDate: "2024-02-01", Kind: "volume",
	})
	assert.Equal(t, models.ErrProviderFailure, kindOf(t, err))
	assert.Equal(t, 500, models.ErrProviderFailure.Status())
	assert.ErrorIs(t, err, boom)
}

func TestHandleVolumeMissing(t *testing.T) {
	p := &mockProvider{}
	p.On("Fetch", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(table(5, func(i int) float64 { return 1 }, false), nil)

	_, err := newUseCase(p).Handle(context.Background(), AnalysisParams{
		Symbol: "AAPL", StartDate: "2024-01-01", EndDate: "2024-02-01", Kind: "volume",
	})
	assert.Equal(t, models.ErrDataUnavailable, kindOf(t, err))
}

func TestHandleVolume(t *testing.T) {
	p := &mockProvider{}
	p.On("Fetch", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(table(5, func(i int) float64 { return 1 }, true), nil)

	res, err := newUseCase(p).Handle(context.Background(), AnalysisParams{
		Symbol: "AAPL", StartDate: "2024-01-01", EndDate: "2024-02-01", Kind: "volume",
	})
	require.NoError(t, err)
	require.Len(t, res.ChartData.Data, 1)
	assert.Equal(t, "bar", res.ChartData.Data[0].Type)
	assert.Equal(t, []float64{1000, 2000, 3000, 4000, 5000}, res.ChartData.Data[0].Y)
}

func TestHandleMovingAverageShortHistory(t *testing.T) {
	p := &mockProvider{}
	p.On("Fetch", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(table(150, func(i int) float64 { return float64(i) }, true), nil)

	res, err := newUseCase(p).Handle(context.Background(), AnalysisParams{
		Symbol: "AAPL", StartDate: "2024-01-01", EndDate: "2024-06-01", Kind: "moving-average",
	})
	require.NoError(t, err)
	require.Len(t, res.ChartData.Data, 3)
	for _, tr := range res.ChartData.Data {
		assert.Empty(t, tr.X)
	}
}

func TestHandleMovingAverage(t *testing.T) {
	p := &mockProvider{}
	p.On("Fetch", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(table(210, func(i int) float64 { return float64(i) }, true), nil)

	res, err := newUseCase(p).Handle(context.Background(), AnalysisParams{
		Symbol: "AAPL", StartDate: "2024-01-01", EndDate: "2024-12-01", Kind: "moving-average",
	})
	require.NoError(t, err)
	names := []string{}
	for _, tr := range res.ChartData.Data {
		names = append(names, tr.Name)
		assert.Len(t, tr.X, 11)
	}
	assert.Equal(t, []string{"Price", "50-Day MA", "200-Day MA"}, names)
}

func TestHandleRegression(t *testing.T) {
	p := &mockProvider{}
	p.On("Fetch", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(table(5, func(i int) float64 { return float64(i + 1) }, true), nil)

	res, err := newUseCase(p).Handle(context.Background(), AnalysisParams{
		Symbol: "AAPL", StartDate: "2024-01-01", EndDate: "2024-01-05", Kind: "regression",
	})
	require.NoError(t, err)
	require.NotNil(t, res.Stats)
	assert.Equal(t, 1.0, res.Stats.Slope)
	assert.Equal(t, 1.0, res.Stats.Intercept)
	assert.Equal(t, models.TrendUpward, res.Stats.TrendDirection)
	assert.Equal(t, models.ColClose, res.Stats.PriceColumnUsed)
	require.Len(t, res.ChartData.Data, 2)
	assert.Equal(t, "dash", res.ChartData.Data[1].Line.Dash)
}

func TestHandleRegressionWithoutPrice(t *testing.T) {
	raw := table(3, func(i int) float64 { return 1 }, true)
	raw.Columns = raw.Columns[1:] // volume only
	p := &mockProvider{}
	p.On("Fetch", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(raw, nil)

	res, err := newUseCase(p).Handle(context.Background(), AnalysisParams{
		Symbol: "AAPL", StartDate: "2024-01-01", EndDate: "2024-01-05", Kind: "regression",
	})
	require.NoError(t, err)
	assert.Nil(t, res.Stats)

	_, err = newUseCase(p).Handle(context.Background(), AnalysisParams{
		Symbol: "AAPL", StartDate: "2024-01-01", EndDate: "2024-01-05", Kind: "price",
	})
	assert.Equal(t, models.ErrDataUnavailable, kindOf(t, err))
}

func TestSummarize(t *testing.T) {
	raw := table(2, func(i int) float64 { return 100 + 10*float64(i) }, true)
	raw.Meta.Currency = "INR"
	p := &mockProvider{}
	p.On("Fetch", mock.Anything, "RELIANCE.NS", mock.Anything, mock.Anything, false).Return(raw, nil)

	sum, err := newUseCase(p, WithAdjust(false)).Summarize(context.Background(), SummaryParams{
		Symbol: "reliance.ns", StartDate: "2024-01-01", EndDate: "2024-01-02",
	})
	require.NoError(t, err)
	assert.True(t, sum.Success)
	assert.Equal(t, "RELIANCE.NS", sum.Symbol)
	assert.Equal(t, 110.0, sum.LatestPrice)
	assert.Equal(t, 10.0, sum.PriceChange)
	assert.Equal(t, 10.0, sum.PriceChangePct)
	assert.Equal(t, 2, sum.DataPoints)
	assert.Equal(t, models.DateRange{Start: "2024-01-01", End: "2024-01-02"}, sum.DateRange)
	assert.Equal(t, "₹", sum.Currency)
	assert.Equal(t, models.ColClose, sum.PriceColumn)
}

func TestSummarizeSinglePoint(t *testing.T) {
	p := &mockProvider{}
	p.On("Fetch", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(table(1, func(int) float64 { return 42.456 }, false), nil)

	sum, err := newUseCase(p).Summarize(context.Background(), SummaryParams{
		Symbol: "AAPL", StartDate: "2024-01-01", EndDate: "2024-01-02",
	})
	require.NoError(t, err)
	assert.Equal(t, 42.46, sum.LatestPrice)
	assert.Zero(t, sum.PriceChange)
	assert.Zero(t, sum.PriceChangePct)
}

func TestEventsAndMetrics(t *testing.T) {
	p := &mockProvider{}
	p.On("Fetch", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(table(3, func(i int) float64 { return 1 }, true), nil)

	ev := &mockEvents{}
	ev.On("PublishAnalysis", mock.Anything, mock.MatchedBy(func(e *models.AnalysisEvent) bool {
		return e.EventType == models.EventAnalysisCompleted && e.Kind == "price" && e.Rows == 3 && e.Symbol == "AAPL"
	})).Return(nil).Once()
	ev.On("PublishAnalysis", mock.Anything, mock.MatchedBy(func(e *models.AnalysisEvent) bool {
		return e.EventType == models.EventAnalysisFailed && e.ErrorKind == models.ErrInvalidAnalysisType
	})).Return(errors.New("kafka down")).Once()

	m := newCountingMetrics()
	uc := newUseCase(p, WithEvents(ev), WithMetrics(m))

	_, err := uc.Handle(context.Background(), AnalysisParams{Symbol: "aapl", StartDate: "2024-01-01", EndDate: "2024-01-03", Kind: "price"})
	require.NoError(t, err)
	// publish failures never surface to the caller
	_, err = uc.Handle(context.Background(), AnalysisParams{Symbol: "aapl", StartDate: "2024-01-01", EndDate: "2024-01-03", Kind: "bogus"})
	assert.Equal(t, models.ErrInvalidAnalysisType, kindOf(t, err))

	ev.AssertExpectations(t)
	assert.Equal(t, 1, m.outcomes["price/success"])
	assert.Equal(t, 1, m.outcomes["bogus/error"])
	assert.Equal(t, 1, m.errs[string(models.ErrInvalidAnalysisType)])
	assert.Equal(t, 3, m.bars)
}

func TestCurrencySymbol(t *testing.T) {
	assert.Equal(t, "$", CurrencySymbol("USD"))
	assert.Equal(t, "$", CurrencySymbol(""))
	assert.Equal(t, "₹", CurrencySymbol("INR"))
	assert.Equal(t, "SEK ", CurrencySymbol("SEK"))
}

func TestInvalidKindsShareOneMetricLabel(t *testing.T) {
	reg := prometheus.NewRegistry()
	uc := newUseCase(&mockProvider{}, WithMetrics(metrics.New(reg)))

	for i := 0; i < 50; i++ {
		_, err := uc.Handle(context.Background(), AnalysisParams{
			Symbol: "AAPL", StartDate: "2024-01-01", EndDate: "2024-02-01", Kind: fmt.Sprintf("junk-%d", i),
		})
		assert.Equal(t, models.ErrInvalidAnalysisType, kindOf(t, err))
	}

	families, err := reg.Gather()
	require.NoError(t, err)
	counts := map[string]int{}
	for _, f := range families {
		counts[f.GetName()] = len(f.GetMetric())
		if f.GetName() != "stocklens_analysis_requests_total" {
			continue
		}
		for _, m := range f.GetMetric() {
			for _, lp := range m.GetLabel() {
				if lp.GetName() == "kind" {
					assert.Equal(t, "invalid", lp.GetValue())
				}
			}
			assert.Equal(t, 50.0, m.GetCounter().GetValue())
		}
	}
	assert.Equal(t, 1, counts["stocklens_analysis_requests_total"])
	assert.Equal(t, 1, counts["stocklens_operation_duration_seconds"])
}
