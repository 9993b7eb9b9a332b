package api

// Fixed plain-text bodies. Delete paths answer IncorrectPassword for a
// missing record too, so callers can't probe for existence.
const (
	Reported          = "reported"
	Success           = "success"
	IncorrectPassword = "incorrect password"
)

type ErrorResponse struct {
	Error string `json:"error"`
}

type AppInfoResponse struct {
	Headers map[string]string `json:"headers"`
}
