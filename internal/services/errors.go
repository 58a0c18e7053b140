package services

// Service-level error taxonomy. Handlers map these onto HTTP status codes
// and the JSON error envelope; nothing below the handler layer writes
// HTTP responses.

// ValidationError rejects malformed or missing input before any side
// effect. Fields holds per-field messages when the failure is tied to
// specific request fields.
type ValidationError struct {
	Message string
	Fields  map[string]string
}

func (e *ValidationError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return "validation error"
}

// GenerationError covers AI call and response-parsing failures. The
// message is surfaced to the user verbatim so a manual retry is
// meaningful.
type GenerationError struct {
	Message string
}

func (e *GenerationError) Error() string { return e.Message }

// PersistenceError wraps storage failures. Handlers return a generic
// message for these; Err keeps the cause for logs.
type PersistenceError struct {
	Message string
	Err     error
}

func (e *PersistenceError) Error() string { return e.Message }

func (e *PersistenceError) Unwrap() error { return e.Err }

type NotFoundError struct {
	Message string
}

func (e *NotFoundError) Error() string { return e.Message }
