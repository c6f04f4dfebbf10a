package models

// Summary holds the all-time aggregates shown on the dashboard.
type Summary struct {
	Income       float64 `json:"income"`
	Expense      float64 `json:"expense"`
	TotalBalance float64 `json:"totalBalance"`
}

// MonthlySummary covers the calendar month of the moment it was computed.
type MonthlySummary struct {
	Income  float64 `json:"income"`
	Expense float64 `json:"expense"`
	Surplus float64 `json:"surplus"`
}
