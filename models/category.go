package models

// Transaction / category direction.
const (
	TypeIncome  = "INCOME"
	TypeExpense = "EXPENSE"
)

// Category is read-only reference data seeded at first run (local mode) or
// served from a built-in fallback set (cloud mode, when the user has none).
type Category struct {
	ID   string `json:"id" firestore:"-"`
	Name string `json:"name" firestore:"name"`
	Type string `json:"type" firestore:"type"`
	Icon string `json:"icon" firestore:"icon"`
}
