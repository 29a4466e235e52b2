package models

import (
	"fmt"
	"net/http"
)

// ErrorKind classifies analysis failures.
type ErrorKind string

const (
	ErrMissingParameter    ErrorKind = "MISSING_PARAMETER"
	ErrInvalidDateFormat   ErrorKind = "INVALID_DATE_FORMAT"
	ErrInvalidDateRange    ErrorKind = "INVALID_DATE_RANGE"
	ErrNoDataFound         ErrorKind = "NO_DATA_FOUND"
	ErrDataUnavailable     ErrorKind = "DATA_UNAVAILABLE"
	ErrInvalidAnalysisType ErrorKind = "INVALID_ANALYSIS_TYPE"
	ErrProviderFailure     ErrorKind = "PROVIDER_FAILURE"
)

// Status maps the kind to an HTTP status. Everything the caller can fix is a 400.
func (k ErrorKind) Status() int {
	if k == ErrProviderFailure {
		return http.StatusInternalServerError
	}
	return http.StatusBadRequest
}

// GenericHint is attached to unexpected failures.
const GenericHint = "Please try again later or verify the symbol and date range."

// AnalysisError is the single error type produced by the analysis pipeline.
type AnalysisError struct {
	Kind        ErrorKind
	Message     string
	Suggestions []string
	Err         error
}

func (e *AnalysisError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns underlying error.
func (e *AnalysisError) Unwrap() error { return e.Err }

// NewAnalysisError creates an error of the given kind.
func NewAnalysisError(kind ErrorKind, message string) *AnalysisError {
	return &AnalysisError{Kind: kind, Message: message}
}

// WithSuggestions sets remediation hints.
func (e *AnalysisError) WithSuggestions(s ...string) *AnalysisError {
	e.Suggestions = s
	return e
}

// WithError wraps an underlying error.
func (e *AnalysisError) WithError(err error) *AnalysisError {
	e.Err = err
	return e
}

func MissingParameter(name string) *AnalysisError {
	return NewAnalysisError(ErrMissingParameter, fmt.Sprintf("Missing required parameter: %s", name))
}

func InvalidDateFormat(field, value string) *AnalysisError {
	return NewAnalysisError(ErrInvalidDateFormat,
		fmt.Sprintf("Invalid %s %q: expected YYYY-MM-DD", field, value))
}

func InvalidDateRange(start, end string) *AnalysisError {
	return NewAnalysisError(ErrInvalidDateRange,
		fmt.Sprintf("start_date %s must be before end_date %s", start, end))
}

func NoDataFound(symbol string) *AnalysisError {
	return NewAnalysisError(ErrNoDataFound,
		fmt.Sprintf("No data for symbol %s. Check symbol (e.g., RELIANCE.NS for Indian stocks) and date range.", symbol)).
		WithSuggestions(
			"Check the ticker spelling",
			"Add the exchange suffix for non-US listings (e.g., RELIANCE.NS, 7203.T, VOD.L)",
			"Widen the date range; markets are closed on weekends and holidays",
		)
}

func DataUnavailable(message string) *AnalysisError {
	return NewAnalysisError(ErrDataUnavailable, message)
}

func InvalidAnalysisType(kind string) *AnalysisError {
	return NewAnalysisError(ErrInvalidAnalysisType, fmt.Sprintf("Invalid analysis type: %s", kind)).
		WithSuggestions("Use one of: price, moving-average, volume, regression")
}

func ProviderFailure(err error) *AnalysisError {
	return NewAnalysisError(ErrProviderFailure, "market data provider failed").
		WithError(err).
		WithSuggestions(GenericHint)
}
