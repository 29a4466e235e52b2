package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"StockLens/internal/domain/models"
	"StockLens/internal/services/chart"
	"StockLens/internal/services/normalize"
	"StockLens/internal/usecase"
	xhttp "StockLens/pkg/http"
	xlogger "StockLens/pkg/logger"

	"github.com/guregu/null/v6"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeProvider struct {
	raw   *models.RawTable
	err   error
	calls int
}

func (f *fakeProvider) Name() string { return "fake" }

func (f *fakeProvider) Fetch(context.Context, string, time.Time, time.Time, bool) (*models.RawTable, error) {
	f.calls++
	return f.raw, f.err
}

func sampleTable() *models.RawTable {
	t := &models.RawTable{Meta: models.TableMeta{Symbol: "AAPL", Currency: "USD"}}
	var closes, vols []null.Float
	for i := 0; i < 5; i++ {
		t.Index = append(t.Index, time.Date(2024, 1, 1+i, 0, 0, 0, 0, time.UTC))
		closes = append(closes, null.FloatFrom(float64(100+i)))
		vols = append(vols, null.FloatFrom(1000))
	}
	t.Columns = []models.RawColumn{
		{Header: []string{"Close"}, Values: closes},
		{Header: []string{"Volume"}, Values: vols},
	}
	return t
}

func newServer(p *fakeProvider) *echo.Echo {
	l := xlogger.Nop()
	uc := usecase.NewAnalysisUseCase(p, normalize.NewNormalizer(l), chart.NewAssembler(), l)
	s := xhttp.NewServer(NewAnalysisEchoHandler(l, uc), l, xhttp.WithMetrics("/metrics", prometheus.NewRegistry()))
	return s.Echo()
}

func post(e *echo.Echo, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var m map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &m))
	return m
}

const validBody = `{"symbol":"AAPL","start_date":"2024-01-01","end_date":"2024-01-05"}`

func TestStockDataSuccess(t *testing.T) {
	rec := post(newServer(&fakeProvider{raw: sampleTable()}), "/api/stock-data", validBody)
	require.Equal(t, http.StatusOK, rec.Code)
	m := decode(t, rec)
	assert.Equal(t, true, m["success"])
	assert.Equal(t, 104.0, m["latest_price"])
	assert.Equal(t, 4.0, m["price_change"])
	assert.Equal(t, 4.0, m["price_change_pct"])
	assert.EqualValues(t, 5, m["data_points"])
	assert.Equal(t, "$", m["currency"])
}

func TestAnalysisKinds(t *testing.T) {
	e := newServer(&fakeProvider{raw: sampleTable()})
	for _, kind := range []string{"price", "moving-average", "volume", "regression"} {
		t.Run(kind, func(t *testing.T) {
			rec := post(e, "/api/analysis/"+kind, validBody)
			require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
			m := decode(t, rec)
			cd := m["chart_data"].(map[string]any)
			assert.NotEmpty(t, cd["data"])
			assert.Equal(t, "plotly_white", cd["layout"].(map[string]any)["template"])
			if kind == "regression" {
				assert.Contains(t, m, "stats")
			} else {
				assert.NotContains(t, m, "stats")
			}
		})
	}
}

func TestErrorStatusMapping(t *testing.T) {
	cases := []struct {
		name     string
		provider *fakeProvider
		path     string
		body     string
		status   int
		contains string
		hints    bool
	}{
		{"missing symbol", &fakeProvider{}, "/api/analysis/price", `{"start_date":"2024-01-01","end_date":"2024-01-05"}`, 400, "symbol", false},
		{"empty body", &fakeProvider{}, "/api/stock-data", `{}`, 400, "Missing required parameter: symbol", false},
		{"bad date", &fakeProvider{}, "/api/analysis/price", `{"symbol":"AAPL","start_date":"2024/01/01","end_date":"2024-01-05"}`, 400, "start_date", false},
		{"reversed range", &fakeProvider{}, "/api/analysis/price", `{"symbol":"AAPL","start_date":"2024-02-01","end_date":"2024-01-05"}`, 400, "before", false},
		{"bad kind", &fakeProvider{}, "/api/analysis/candles", validBody, 400, "Invalid analysis type", true},
		{"no data", &fakeProvider{raw: &models.RawTable{}}, "/api/analysis/price", validBody, 400, "No data for symbol AAPL", true},
		{"provider down", &fakeProvider{err: errors.New("dial tcp: timeout")}, "/api/stock-data", validBody, 500, "dial tcp: timeout", true},
		{"malformed json", &fakeProvider{}, "/api/stock-data", `{"symbol":`, 400, "", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := post(newServer(tc.provider), tc.path, tc.body)
			assert.Equal(t, tc.status, rec.Code, rec.Body.String())
			m := decode(t, rec)
			require.Contains(t, m, "error")
			assert.Contains(t, m["error"], tc.contains)
			if tc.hints {
				assert.NotEmpty(t, m["suggestions"])
			} else {
				assert.NotContains(t, m, "suggestions")
			}
		})
	}
}

func TestInvalidKindSkipsProvider(t *testing.T) {
	p := &fakeProvider{raw: sampleTable()}
	post(newServer(p), "/api/analysis/candles", validBody)
	assert.Zero(t, p.calls)
}

func TestToAppErrorGeneric(t *testing.T) {
	appErr := toAppError(errors.New("unexpected"))
	assert.Equal(t, http.StatusInternalServerError, appErr.Status)
	assert.Equal(t, "unexpected", appErr.Message)
	assert.Equal(t, []string{models.GenericHint}, appErr.Suggestions)
}
