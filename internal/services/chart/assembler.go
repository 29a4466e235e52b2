// Package chart builds Plotly-compatible chart specs.
package chart

import (
	"StockLens/internal/domain/models"
	"StockLens/internal/domain/service"
)

const (
	Template   = "plotly_white"
	DateLayout = "2006-01-02"
)

// Palette used by the dashboard.
const (
	ColorPrice     = "#667eea"
	ColorAccent    = "#f5576c"
	ColorLongMA    = "#f093fb"
	ColorVolume    = "#764ba2"
	DashTrendLine  = "dash"
	defaultYTitle  = "Price (USD)"
	defaultXTitle  = "Date"
	defaultHeight  = 500
	priceLineWidth = 2
)

type Assembler struct{}

func NewAssembler() *Assembler { return &Assembler{} }

var _ service.ChartAssembler = (*Assembler)(nil)

// Assemble keeps the trace order given. Mismatched X/Y lengths are
// truncated to the shorter one.
func (a *Assembler) Assemble(title string, layout service.LayoutOptions, traces ...service.TraceInput) models.ChartSpec {
	spec := models.ChartSpec{
		Data: make([]models.Trace, 0, len(traces)),
		Layout: models.Layout{
			Title:      title,
			XAxisTitle: layout.XAxisTitle,
			YAxisTitle: layout.YAxisTitle,
			Template:   Template,
			Height:     layout.Height,
		},
	}
	for _, in := range traces {
		spec.Data = append(spec.Data, buildTrace(in))
	}
	return spec
}

func buildTrace(in service.TraceInput) models.Trace {
	n := len(in.X)
	if len(in.Y) < n {
		n = len(in.Y)
	}
	x := make([]string, n)
	for i := 0; i < n; i++ {
		x[i] = in.X[i].Format(DateLayout)
	}
	y := make([]float64, n)
	copy(y, in.Y[:n])

	tr := models.Trace{X: x, Y: y, Name: in.Name}
	switch in.Style.Kind {
	case service.TraceBar:
		tr.Type = "bar"
		tr.Marker = &models.MarkerStyle{Color: in.Style.Color}
	default:
		tr.Type = "scatter"
		tr.Mode = "lines"
		tr.Line = &models.LineStyle{Color: in.Style.Color, Width: in.Style.Width, Dash: in.Style.Dash}
	}
	return tr
}
