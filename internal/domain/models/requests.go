package models

// Requests for the analysis HTTP endpoints. Dates stay strings so that
// format errors are reported by the use case, not by the binder.

type SummaryRequest struct {
	Symbol    string `json:"symbol" validate:"required"`
	StartDate string `json:"start_date" validate:"required"`
	EndDate   string `json:"end_date" validate:"required"`
}

type AnalysisRequest struct {
	Kind      string `param:"kind" json:"-"`
	Symbol    string `json:"symbol" validate:"required"`
	StartDate string `json:"start_date" validate:"required"`
	EndDate   string `json:"end_date" validate:"required"`
}
