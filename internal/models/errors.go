package models

// ErrorResponse is the JSON error envelope returned by every endpoint.
// Validation failures carry Details, everything else carries Message.
type ErrorResponse struct {
	Error   string            `json:"error"`
	Message string            `json:"message,omitempty"`
	Details map[string]string `json:"details,omitempty"`
}
