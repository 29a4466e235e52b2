// Package normalize maps provider-specific column spellings onto the
// canonical Open/High/Low/Close/Adj Close/Volume schema.
package normalize

import (
	"strings"
	"time"

	"StockLens/internal/domain/models"
	xlogger "StockLens/pkg/logger"

	"github.com/guregu/null/v6"
)

// rule maps a lower-cased header onto a canonical column. Rules are
// evaluated in order and the first match wins, so "adj close" must be
// tested before "close".
type rule struct {
	target models.ColumnName
	match  func(h string) bool
}

var rules = []rule{
	{models.ColAdjClose, func(h string) bool { return strings.Contains(h, "close") && strings.Contains(h, "adj") }},
	{models.ColClose, func(h string) bool { return strings.Contains(h, "close") }},
	{models.ColVolume, func(h string) bool { return strings.Contains(h, "volume") }},
	{models.ColOpen, func(h string) bool { return strings.Contains(h, "open") }},
	{models.ColHigh, func(h string) bool { return strings.Contains(h, "high") }},
	{models.ColLow, func(h string) bool { return strings.Contains(h, "low") }},
}

// Normalizer is stateless; the logger only reports dropped duplicates.
type Normalizer struct {
	logger *xlogger.Logger
}

func NewNormalizer(logger *xlogger.Logger) *Normalizer {
	return &Normalizer{logger: logger}
}

// FlattenHeader joins header levels with "_", then trims and lower-cases.
func FlattenHeader(levels []string) string {
	return strings.ToLower(strings.TrimSpace(strings.Join(levels, "_")))
}

// Canonical returns the canonical column for a flattened header.
func Canonical(header string) (models.ColumnName, bool) {
	for _, r := range rules {
		if r.match(header) {
			return r.target, true
		}
	}
	return "", false
}

// CanonicalLevels resolves a multi-level header. Each level is tried on its
// own first, in order, so a ticker level such as "OPEN" in ("High", "OPEN")
// cannot shadow the field level. The joined header is the fallback.
func CanonicalLevels(levels []string) (models.ColumnName, bool) {
	if len(levels) > 1 {
		for _, l := range levels {
			if name, ok := Canonical(FlattenHeader([]string{l})); ok {
				return name, true
			}
		}
	}
	return Canonical(FlattenHeader(levels))
}

// Normalize returns a new series; raw is never modified.
func (n *Normalizer) Normalize(raw *models.RawTable) *models.Series {
	if raw == nil {
		return models.NewSeries(nil, models.TableMeta{})
	}

	index := make([]time.Time, len(raw.Index))
	for i, ts := range raw.Index {
		index[i] = ToDate(ts)
	}
	out := models.NewSeries(index, raw.Meta)

	for _, col := range raw.Columns {
		h := FlattenHeader(col.Header)
		name, ok := CanonicalLevels(col.Header)
		if !ok {
			continue
		}
		if out.Has(name) {
			if n.logger != nil {
				n.logger.Debug("duplicate column dropped",
					xlogger.String("header", h),
					xlogger.String("canonical", string(name)))
			}
			continue
		}
		out.SetColumn(name, alignValues(col.Values, len(index)))
	}

	if out.Has(models.ColAdjClose) {
		out.PriceColumn = models.ColAdjClose
	} else {
		out.PriceColumn = models.ColClose
	}
	return out
}

// ToDate drops the time-of-day, keeping the calendar date of ts in its own location.
func ToDate(ts time.Time) time.Time {
	y, m, d := ts.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// alignValues copies values, padding with missing cells or truncating to n.
func alignValues(values []null.Float, n int) []null.Float {
	out := make([]null.Float, n)
	copy(out, values)
	return out
}
