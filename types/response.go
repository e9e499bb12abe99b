package types

// ErrorResponse is the standard error payload returned by the API.
type ErrorResponse struct {
	Type    string `json:"type"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
	Code    string `json:"code,omitempty"`
}

// StatusResponse is a minimal acknowledgement payload.
type StatusResponse struct {
	Status string `json:"status"`
}
