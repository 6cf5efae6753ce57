package hierarchy

// ErrorResponse is the googleapis error envelope.
type ErrorResponse struct {
	Error ErrorStatus `json:"error"`
}

type ErrorStatus struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Status  string `json:"status"`
}
