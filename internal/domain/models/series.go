package models

import (
	"time"

	"github.com/guregu/null/v6"
)

// ColumnName is a canonical column label.
type ColumnName string

const (
	ColOpen     ColumnName = "Open"
	ColHigh     ColumnName = "High"
	ColLow      ColumnName = "Low"
	ColClose    ColumnName = "Close"
	ColAdjClose ColumnName = "Adj Close"
	ColVolume   ColumnName = "Volume"
)

// CanonicalColumns lists the canonical schema in output order.
var CanonicalColumns = []ColumnName{ColOpen, ColHigh, ColLow, ColClose, ColAdjClose, ColVolume}

// Series is a normalized daily series. Index holds calendar dates at UTC
// midnight; only canonical columns are present.
type Series struct {
	Index       []time.Time
	PriceColumn ColumnName
	Meta        TableMeta

	cols map[ColumnName][]null.Float
}

// NewSeries creates an empty series over index.
func NewSeries(index []time.Time, meta TableMeta) *Series {
	return &Series{
		Index:       index,
		PriceColumn: ColClose,
		Meta:        meta,
		cols:        make(map[ColumnName][]null.Float, len(CanonicalColumns)),
	}
}

// Len returns the number of rows.
func (s *Series) Len() int { return len(s.Index) }

// Has reports whether the canonical column is present.
func (s *Series) Has(name ColumnName) bool {
	_, ok := s.cols[name]
	return ok
}

// Column returns the values of a canonical column, or nil if absent.
func (s *Series) Column(name ColumnName) []null.Float { return s.cols[name] }

// SetColumn stores values under a canonical column name.
func (s *Series) SetColumn(name ColumnName, values []null.Float) {
	if s.cols == nil {
		s.cols = make(map[ColumnName][]null.Float, len(CanonicalColumns))
	}
	s.cols[name] = values
}

// Columns returns the present columns in canonical order.
func (s *Series) Columns() []ColumnName {
	out := make([]ColumnName, 0, len(s.cols))
	for _, c := range CanonicalColumns {
		if s.Has(c) {
			out = append(out, c)
		}
	}
	return out
}

// Price returns the values of the selected price column.
func (s *Series) Price() []null.Float { return s.cols[s.PriceColumn] }

// Table renders the series back into a single-level raw table.
func (s *Series) Table() *RawTable {
	t := &RawTable{
		Index: append([]time.Time(nil), s.Index...),
		Meta:  s.Meta,
	}
	for _, c := range s.Columns() {
		t.Columns = append(t.Columns, RawColumn{
			Header: []string{string(c)},
			Values: append([]null.Float(nil), s.cols[c]...),
		})
	}
	return t
}
