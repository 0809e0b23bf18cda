package responses

// ErrorResponse is the stable error body every failing handler returns.
type ErrorResponse struct {
	Error string `json:"error"`
}
