package service

import (
	"time"

	"StockLens/internal/domain/models"
)

// Normalizer maps a provider table onto the canonical column set.
type Normalizer interface {
	Normalize(raw *models.RawTable) *models.Series
}

// ChartAssembler turns aligned series into a Plotly-compatible chart.
type ChartAssembler interface {
	Assemble(title string, layout LayoutOptions, traces ...TraceInput) models.ChartSpec
}

type TraceKind int

const (
	TraceLine TraceKind = iota
	TraceBar
)

// Style controls trace rendering.
type Style struct {
	Kind  TraceKind
	Color string
	Dash  string
	Width float64
}

// TraceInput is one named series handed to the assembler.
type TraceInput struct {
	Name  string
	X     []time.Time
	Y     []float64
	Style Style
}

// LayoutOptions are the optional axis titles and height.
type LayoutOptions struct {
	XAxisTitle string
	YAxisTitle string
	Height     int
}
