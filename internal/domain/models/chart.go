package models

// ChartSpec is a Plotly-compatible figure: ordered traces plus layout.
type ChartSpec struct {
	Data   []Trace `json:"data"`
	Layout Layout  `json:"layout"`
}

// Trace is one named series of a chart.
type Trace struct {
	X      []string     `json:"x"`
	Y      []float64    `json:"y"`
	Type   string       `json:"type"`
	Mode   string       `json:"mode,omitempty"`
	Name   string       `json:"name"`
	Line   *LineStyle   `json:"line,omitempty"`
	Marker *MarkerStyle `json:"marker,omitempty"`
}

type LineStyle struct {
	Color string  `json:"color,omitempty"`
	Width float64 `json:"width,omitempty"`
	Dash  string  `json:"dash,omitempty"`
}

type MarkerStyle struct {
	Color string `json:"color,omitempty"`
}

// Layout carries display metadata.
type Layout struct {
	Title      string `json:"title"`
	XAxisTitle string `json:"xaxis_title,omitempty"`
	YAxisTitle string `json:"yaxis_title,omitempty"`
	Template   string `json:"template"`
	Height     int    `json:"height,omitempty"`
}
