// Package polygon implements MarketDataProvider on Polygon.io daily aggregates.
package polygon

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"StockLens/internal/domain/models"
	domrepo "StockLens/internal/domain/repository"
	xlogger "StockLens/pkg/logger"

	"github.com/guregu/null/v6"
	polygonrest "github.com/polygon-io/client-go/rest"
	"github.com/polygon-io/client-go/rest/iter"
	rmodels "github.com/polygon-io/client-go/rest/models"
)

const pageLimit = 50000

// aggLister is the part of the Polygon REST client used here.
type aggLister interface {
	ListAggs(ctx context.Context, params *rmodels.ListAggsParams, options ...rmodels.RequestOption) *iter.Iter[rmodels.Agg]
}

// Client fetches daily aggregates. Polygon only lists US venues, so the
// reported currency is always USD.
type Client struct {
	rest   aggLister
	logger *xlogger.Logger
}

var _ domrepo.MarketDataProvider = (*Client)(nil)

// New builds a client over hc; a nil hc gets a 30s timeout client.
func New(apiKey string, hc *http.Client, logger *xlogger.Logger) *Client {
	if hc == nil {
		hc = &http.Client{Timeout: 30 * time.Second}
	}
	return &Client{rest: polygonrest.NewWithClient(apiKey, hc), logger: logger}
}

func (c *Client) Name() string { return "polygon" }

// Fetch lists daily bars in [start, endExclusive).
func (c *Client) Fetch(ctx context.Context, symbol string, start, endExclusive time.Time, adjust bool) (*models.RawTable, error) {
	t := &models.RawTable{Meta: models.TableMeta{Symbol: symbol, Currency: "USD", Provider: c.Name()}}
	if !start.Before(endExclusive) {
		return t, nil
	}

	limit := pageLimit
	asc := rmodels.Asc
	params := &rmodels.ListAggsParams{
		Ticker:     symbol,
		Multiplier: 1,
		Timespan:   rmodels.Day,
		From:       rmodels.Millis(start),
		// the upper bound is inclusive for day aggregates
		To:       rmodels.Millis(endExclusive.Add(-time.Millisecond)),
		Limit:    &limit,
		Order:    &asc,
		Adjusted: &adjust,
	}

	var open, high, low, closes, vol []null.Float
	it := c.rest.ListAggs(ctx, params)
	for it.Next() {
		a := it.Item()
		ts := time.Time(a.Timestamp).UTC()
		day := time.Date(ts.Year(), ts.Month(), ts.Day(), 0, 0, 0, 0, time.UTC)
		if day.Before(start) || !day.Before(endExclusive) {
			continue
		}
		t.Index = append(t.Index, day)
		open = append(open, null.FloatFrom(a.Open))
		high = append(high, null.FloatFrom(a.High))
		low = append(low, null.FloatFrom(a.Low))
		closes = append(closes, null.FloatFrom(a.Close))
		vol = append(vol, null.FloatFrom(a.Volume))
	}
	if err := it.Err(); err != nil {
		return nil, fmt.Errorf("polygon aggs %s: %w", symbol, err)
	}

	if len(t.Index) > 0 {
		t.Columns = []models.RawColumn{
			{Header: []string{"open"}, Values: open},
			{Header: []string{"high"}, Values: high},
			{Header: []string{"low"}, Values: low},
			{Header: []string{"close"}, Values: closes},
			{Header: []string{"volume"}, Values: vol},
		}
	}
	if c.logger != nil {
		c.logger.Debug("polygon fetch", xlogger.String("symbol", symbol), xlogger.Int("rows", len(t.Index)))
	}
	return t, nil
}
