package models

import (
	"time"

	"github.com/guregu/null/v6"
)

// RawColumn is one provider column. Header holds one label per header level;
// single-level tables carry a one-element Header.
type RawColumn struct {
	Header []string
	Values []null.Float
}

// TableMeta describes where a raw table came from.
type TableMeta struct {
	Symbol   string
	Currency string // ISO 4217 code as reported by the provider, may be empty
	Provider string
}

// RawTable is a provider response: a time index plus columns under
// provider-specific spellings. It is consumed once per request.
type RawTable struct {
	Index   []time.Time
	Columns []RawColumn
	Meta    TableMeta
}

// Len returns the number of rows.
func (t *RawTable) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Index)
}

// Empty reports whether the table has no rows.
func (t *RawTable) Empty() bool { return t.Len() == 0 }
