package models

// Transaction is an immutable posting against one account. Category name and
// icon are frozen at creation time; renaming a category later never rewrites
// history. Date is a calendar date (YYYY-MM-DD) chosen by the user, CreatedAt
// the wall-clock insertion time.
type Transaction struct {
	ID           string  `json:"id" firestore:"-"`
	Amount       float64 `json:"amount" firestore:"amount"`
	Type         string  `json:"type" firestore:"type"`
	CategoryID   string  `json:"category_id" firestore:"category_id"`
	CategoryName string  `json:"category_name" firestore:"category_name"`
	CategoryIcon string  `json:"category_icon" firestore:"category_icon"`
	AccountID    string  `json:"account_id" firestore:"account_id"`
	Note         string  `json:"note" firestore:"note"`
	Date         string  `json:"date" firestore:"date"`
	CreatedAt    string  `json:"created_at" firestore:"created_at"`

	// AccountName is resolved at read time; "Umum" when the account is gone.
	AccountName string `json:"account_name" firestore:"-"`
}
