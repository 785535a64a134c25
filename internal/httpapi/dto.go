package httpapi

// HealthResponse is the HTTP response for the health check.
type HealthResponse struct {
	Status string `json:"status"`
}

// ErrorResponse is the HTTP response for errors.
type ErrorResponse struct {
	Error   string       `json:"error"`
	Message string       `json:"message"`
	Fields  []FieldIssue `json:"fields,omitempty"`
}

// FieldIssue names one invalid field in a 422 response.
type FieldIssue struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}
