package model

// APIResponse is the single envelope every handler writes. Failures carry
// Message and nothing else; successes carry Data.
type APIResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
}

// MonthData is one 28-day analytics window.
type MonthData struct {
	Month string `json:"month"`
	Count int64  `json:"count"`
}

type AnalyticsData struct {
	Last12Months []MonthData `json:"last_12_months"`
}
