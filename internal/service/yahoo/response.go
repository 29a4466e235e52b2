package yahoo

import (
	"time"

	"StockLens/internal/domain/models"

	"github.com/guregu/null/v6"
)

// chartResponse mirrors /v8/finance/chart. Missing cells arrive as JSON null.
type chartResponse struct {
	Chart struct {
		Result []chartResult `json:"result"`
		Error  *chartError   `json:"error"`
	} `json:"chart"`
}

type chartError struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}

type chartResult struct {
	Meta struct {
		Currency  string `json:"currency"`
		Symbol    string `json:"symbol"`
		GMTOffset int    `json:"gmtoffset"`
	} `json:"meta"`
	Timestamp  []int64 `json:"timestamp"`
	Indicators struct {
		Quote []struct {
			Open   []null.Float `json:"open"`
			High   []null.Float `json:"high"`
			Low    []null.Float `json:"low"`
			Close  []null.Float `json:"close"`
			Volume []null.Float `json:"volume"`
		} `json:"quote"`
		AdjClose []struct {
			AdjClose []null.Float `json:"adjclose"`
		} `json:"adjclose"`
	} `json:"indicators"`
}

// bar is one row of a chart result, keyed by exchange-local date.
type bar struct {
	date                               time.Time
	open, high, low, close, adj, volume null.Float
}

func cell(xs []null.Float, i int) null.Float {
	if i < len(xs) {
		return xs[i]
	}
	return null.Float{}
}

// bars flattens one result. Timestamps are shifted by the exchange offset
// before truncation so that a 09:15 IST bar stays on its own calendar day.
func (r *chartResult) bars() []bar {
	if len(r.Indicators.Quote) == 0 {
		return nil
	}
	q := r.Indicators.Quote[0]
	var adj []null.Float
	if len(r.Indicators.AdjClose) > 0 {
		adj = r.Indicators.AdjClose[0].AdjClose
	}
	offset := time.Duration(r.Meta.GMTOffset) * time.Second

	out := make([]bar, 0, len(r.Timestamp))
	for i, ts := range r.Timestamp {
		local := time.Unix(ts, 0).UTC().Add(offset)
		y, m, d := local.Date()
		out = append(out, bar{
			date:   time.Date(y, m, d, 0, 0, 0, 0, time.UTC),
			open:   cell(q.Open, i),
			high:   cell(q.High, i),
			low:    cell(q.Low, i),
			close:  cell(q.Close, i),
			adj:    cell(adj, i),
			volume: cell(q.Volume, i),
		})
	}
	return out
}

// toTable builds the raw table. With adjust the Close column carries the
// adjusted close and Open/High/Low are scaled by the same factor; otherwise
// the unadjusted close and a separate adjclose column are emitted.
func toTable(bars []bar, meta models.TableMeta, adjust bool) *models.RawTable {
	n := len(bars)
	t := &models.RawTable{Index: make([]time.Time, n), Meta: meta}
	open := make([]null.Float, n)
	high := make([]null.Float, n)
	low := make([]null.Float, n)
	closes := make([]null.Float, n)
	adj := make([]null.Float, n)
	vol := make([]null.Float, n)
	hasAdj := false

	for i, b := range bars {
		t.Index[i] = b.date
		open[i], high[i], low[i], closes[i], vol[i] = b.open, b.high, b.low, b.close, b.volume
		adj[i] = b.adj
		hasAdj = hasAdj || b.adj.Valid
	}

	if adjust && hasAdj {
		for i := range bars {
			if !closes[i].Valid || !adj[i].Valid || closes[i].Float64 == 0 {
				closes[i] = adj[i]
				continue
			}
			f := adj[i].Float64 / closes[i].Float64
			open[i] = scale(open[i], f)
			high[i] = scale(high[i], f)
			low[i] = scale(low[i], f)
			closes[i] = adj[i]
		}
	}

	t.Columns = []models.RawColumn{
		{Header: []string{"open"}, Values: open},
		{Header: []string{"high"}, Values: high},
		{Header: []string{"low"}, Values: low},
		{Header: []string{"close"}, Values: closes},
	}
	if !adjust && hasAdj {
		t.Columns = append(t.Columns, models.RawColumn{Header: []string{"adjclose"}, Values: adj})
	}
	t.Columns = append(t.Columns, models.RawColumn{Header: []string{"volume"}, Values: vol})
	return t
}

func scale(v null.Float, f float64) null.Float {
	if !v.Valid {
		return v
	}
	return null.FloatFrom(v.Float64 * f)
}
