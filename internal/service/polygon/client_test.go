package polygon

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"StockLens/internal/domain/models"
	"StockLens/internal/services/normalize"
	xlogger "StockLens/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// redirect sends every request to the test server.
type redirect struct{ target *url.URL }

func (r redirect) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(req.Context())
	req.URL.Scheme = r.target.Scheme
	req.URL.Host = r.target.Host
	return http.DefaultTransport.RoundTrip(req)
}

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	u, _ := url.Parse(srv.URL)
	return New("test-key", &http.Client{Transport: redirect{target: u}}, xlogger.Nop())
}

func TestFetchDailyAggs(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Contains(t, r.URL.Path, "/v2/aggs/ticker/AAPL/range/1/day/")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"ticker":"AAPL","status":"OK","resultsCount":2,"results":[
			{"o":187.15,"h":188.44,"l":183.89,"c":185.64,"v":82488700,"t":1704171600000},
			{"o":184.22,"h":185.88,"l":183.43,"c":184.25,"v":58414500,"t":1704258000000}]}`))
	})

	start := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	raw, err := c.Fetch(context.Background(), "AAPL", start, start.AddDate(0, 0, 2), true)
	require.NoError(t, err)
	require.Equal(t, 2, raw.Len())
	assert.Equal(t, start, raw.Index[0])
	assert.Equal(t, "USD", raw.Meta.Currency)

	s := normalize.NewNormalizer(nil).Normalize(raw)
	assert.Equal(t, []models.ColumnName{models.ColOpen, models.ColHigh, models.ColLow, models.ColClose, models.ColVolume}, s.Columns())
	assert.Equal(t, 184.25, s.Column(models.ColClose)[1].Float64)
}

func TestFetchUnknownTickerIsEmpty(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"ticker":"NOPE","status":"OK","resultsCount":0}`))
	})
	start := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	raw, err := c.Fetch(context.Background(), "NOPE", start, start.AddDate(0, 1, 0), true)
	require.NoError(t, err)
	assert.True(t, raw.Empty())
}

func TestFetchError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"status":"NOT_AUTHORIZED","request_id":"x","message":"bad key"}`))
	})
	start := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	_, err := c.Fetch(context.Background(), "AAPL", start, start.AddDate(0, 1, 0), true)
	require.Error(t, err)
}
