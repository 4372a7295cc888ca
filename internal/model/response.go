package model

const (
	StatusSuccess = "success"
	StatusFailure = "failure"
)

// Response is the envelope returned for failures and simple acknowledgements.
type Response struct {
	Status string      `json:"status"`
	Reason string      `json:"reason,omitempty"`
	Data   interface{} `json:"data,omitempty"`
}

// NewResponse builds a failure envelope when reason is set, a success one otherwise.
func NewResponse(reason string, data interface{}) Response {
	status := StatusSuccess
	if reason != "" {
		status = StatusFailure
	}
	return Response{
		Status: status,
		Reason: reason,
		Data:   data,
	}
}
