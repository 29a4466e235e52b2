// Package series derives analytical views from a normalized series.
package series

import (
	"math"
	"time"

	"StockLens/internal/domain/models"

	"github.com/guregu/null/v6"
	"github.com/shopspring/decimal"
	"gonum.org/v1/gonum/stat"
)

// Default moving average windows.
const (
	ShortWindow = 50
	LongWindow  = 200
)

// PriceView is the price column with missing rows skipped.
type PriceView struct {
	Dates  []time.Time
	Values []float64
}

// Prices returns the present observations of the price column.
func Prices(s *models.Series) PriceView {
	var out PriceView
	if s == nil {
		return out
	}
	for i, v := range s.Price() {
		if !v.Valid {
			continue
		}
		out.Dates = append(out.Dates, s.Index[i])
		out.Values = append(out.Values, v.Float64)
	}
	return out
}

// MovingAverageView holds rows where both averages are defined.
type MovingAverageView struct {
	Dates []time.Time
	Price []float64
	Short []float64
	Long  []float64
}

// Empty reports whether no row had both averages defined.
func (v MovingAverageView) Empty() bool { return len(v.Dates) == 0 }

// MovingAverages computes trailing simple moving averages of the price column.
func MovingAverages(s *models.Series, short, long int) MovingAverageView {
	var out MovingAverageView
	if s == nil {
		return out
	}
	price := s.Price()
	maShort := trailingMean(price, short)
	maLong := trailingMean(price, long)
	for i := range price {
		if !maShort[i].ok || !maLong[i].ok || !price[i].Valid {
			continue
		}
		out.Dates = append(out.Dates, s.Index[i])
		out.Price = append(out.Price, price[i].Float64)
		out.Short = append(out.Short, maShort[i].v)
		out.Long = append(out.Long, maLong[i].v)
	}
	return out
}

type maybe struct {
	v  float64
	ok bool
}

// trailingMean is defined at i only when all k values ending at i are present.
func trailingMean(values []null.Float, k int) []maybe {
	out := make([]maybe, len(values))
	if k <= 0 {
		return out
	}
	window := make([]float64, 0, k)
	for i := range values {
		if i+1 < k {
			continue
		}
		window = window[:0]
		for j := i - k + 1; j <= i; j++ {
			if !values[j].Valid {
				break
			}
			window = append(window, values[j].Float64)
		}
		if len(window) == k {
			out[i] = maybe{v: stat.Mean(window, nil), ok: true}
		}
	}
	return out
}

// TrendResult is the fitted line plus its rounded statistics.
type TrendResult struct {
	Dates  []time.Time
	Actual []float64
	Fitted []float64

	Slope     float64
	Intercept float64
	RSquared  float64
	Direction string
}

// Empty reports whether no price observation was available.
func (r TrendResult) Empty() bool { return len(r.Actual) == 0 }

// Stats renders the result for the given price column.
func (r TrendResult) Stats(priceColumn models.ColumnName) *models.RegressionStats {
	if r.Empty() {
		return nil
	}
	return &models.RegressionStats{
		Slope:           r.Slope,
		Intercept:       r.Intercept,
		TrendDirection:  r.Direction,
		PriceColumnUsed: priceColumn,
		RSquared:        r.RSquared,
	}
}

// Trend fits price = slope*t + intercept by least squares, where t is the
// zero-based position among non-missing prices.
func Trend(s *models.Series) TrendResult {
	p := Prices(s)
	n := len(p.Values)
	if n == 0 {
		return TrendResult{}
	}

	xs := make([]float64, n)
	for i := range xs {
		xs[i] = float64(i)
	}

	var alpha, beta, r2 float64
	switch n {
	case 1:
		alpha, beta, r2 = p.Values[0], 0, 0
	default:
		alpha, beta = stat.LinearRegression(xs, p.Values, nil, false)
		r2 = stat.RSquared(xs, p.Values, nil, alpha, beta)
		if math.IsNaN(r2) { // constant series
			r2 = 1
		}
	}

	fitted := make([]float64, n)
	for i, x := range xs {
		fitted[i] = beta*x + alpha
	}

	slope := Round(beta, 4)
	return TrendResult{
		Dates:     p.Dates,
		Actual:    p.Values,
		Fitted:    fitted,
		Slope:     slope,
		Intercept: Round(alpha, 2),
		RSquared:  Round(r2, 4),
		Direction: Direction(slope),
	}
}

// Direction classifies a (rounded) slope.
func Direction(slope float64) string {
	switch {
	case slope > 0:
		return models.TrendUpward
	case slope < 0:
		return models.TrendDownward
	default:
		return models.TrendFlat
	}
}

// VolumeView is the volume column with missing cells skipped.
type VolumeView struct {
	Dates  []time.Time
	Values []float64
}

// Volume returns the raw volume column.
func Volume(s *models.Series) (VolumeView, error) {
	var out VolumeView
	if s == nil || !s.Has(models.ColVolume) {
		return out, models.DataUnavailable("Volume data not available.")
	}
	for i, v := range s.Column(models.ColVolume) {
		if !v.Valid {
			continue
		}
		out.Dates = append(out.Dates, s.Index[i])
		out.Values = append(out.Values, v.Float64)
	}
	return out, nil
}

// Round rounds half away from zero to places decimals.
func Round(v float64, places int32) float64 {
	f, _ := decimal.NewFromFloat(v).Round(places).Float64()
	return f
}
