package models

// Account types offered by the wallet picker. Free-text types are accepted too.
const (
	AccountCash    = "CASH"
	AccountBank    = "BANK"
	AccountEWallet = "EWALLET"
)

// Account is a money-holding wallet. Balance is a cached aggregate of the
// signed amounts of every transaction posted against it, never set directly
// after creation.
type Account struct {
	ID      string  `json:"id" firestore:"-"`
	Name    string  `json:"name" firestore:"name"`
	Type    string  `json:"type" firestore:"type"`
	Icon    string  `json:"icon" firestore:"icon"`
	Balance float64 `json:"balance" firestore:"balance"`
}
