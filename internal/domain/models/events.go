package models

import "time"

// AnalysisEvent is emitted once per finished request.
type AnalysisEvent struct {
	EventType  string    `json:"event_type"` // "ANALYSIS_COMPLETED" | "ANALYSIS_FAILED"
	RequestID  string    `json:"request_id,omitempty"`
	Symbol     string    `json:"symbol"`
	Kind       string    `json:"kind"`
	StartDate  string    `json:"start_date"`
	EndDate    string    `json:"end_date"`
	Provider   string    `json:"provider"`
	Rows       int       `json:"rows"`
	ErrorKind  ErrorKind `json:"error_kind,omitempty"`
	DurationMs int64     `json:"duration_ms"`
	Timestamp  time.Time `json:"timestamp"`
}

const (
	EventAnalysisCompleted = "ANALYSIS_COMPLETED"
	EventAnalysisFailed    = "ANALYSIS_FAILED"
)
