package http

// ErrorBody is the JSON shape of every error response.
type ErrorBody struct {
	Error       string   `json:"error" example:"Missing required parameter: symbol"`
	Suggestions []string `json:"suggestions,omitempty"`
}

// HealthResponse is returned by the liveness probe.
type HealthResponse struct {
	Status string `json:"status" example:"ok"`
}

// ValidationError represents validation error detail.
type ValidationError struct {
	Code    string `json:"code,omitempty" example:"ERR_REQUIRED"`
	Field   string `json:"field,omitempty" example:"symbol"`
	Tag     string `json:"-"`
	Message string `json:"message,omitempty" example:"symbol is required"`
}
