package dto

// ErrorResponse represents a standardized error response for the API
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	// Reason and Observed are set for seat conflicts
	Reason   string `json:"reason,omitempty"`
	Observed string `json:"observed,omitempty"`
}
