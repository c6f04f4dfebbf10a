// Package store is the persistence core: one Backend contract with two
// implementations (embedded SQLite for offline use, per-user Firestore when a
// session exists) and a Store facade that dispatches between them. Both
// implementations keep the ledger invariant: an account's balance always
// equals the signed sum of the transactions posted against it.
package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/adiljeddiradja/Mykeuangan/models"
)

// ErrValidation marks user-correctable input errors (missing wallet name,
// non-positive amount, no category/account selected). Everything else coming
// out of a Backend is a storage or network failure.
var ErrValidation = errors.New("validation failed")

func validationf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

// NewAccount carries the fields of the add-wallet form.
type NewAccount struct {
	Name           string  `json:"name"`
	Type           string  `json:"type"`
	Icon           string  `json:"icon"`
	InitialBalance float64 `json:"initial_balance"`
}

// NewTransaction carries the fields of the add-transaction form. Category
// name and icon are snapshotted onto the stored record.
type NewTransaction struct {
	Amount       float64 `json:"amount"`
	Type         string  `json:"type"`
	CategoryID   string  `json:"category_id"`
	CategoryName string  `json:"category_name"`
	CategoryIcon string  `json:"category_icon"`
	AccountID    string  `json:"account_id"`
	Note         string  `json:"note"`
	Date         string  `json:"date"`
}

// Backend is the uniform contract both persistence modes implement.
//
// PostTransaction and DeleteTransaction are composite: they insert/remove the
// record and adjust the owning account's balance in one atomic unit. When the
// referenced account no longer exists the balance step is silently skipped
// (orphaned postings are tolerated and later rendered as "Umum").
// DeleteTransaction of an id that is already gone is a no-op, not an error.
type Backend interface {
	Accounts(ctx context.Context) ([]models.Account, error)
	AddAccount(ctx context.Context, p NewAccount) error
	DeleteAccount(ctx context.Context, id string) error

	Categories(ctx context.Context, typ string) ([]models.Category, error)

	PostTransaction(ctx context.Context, p NewTransaction) error
	Transactions(ctx context.Context) ([]models.Transaction, error)
	DeleteTransaction(ctx context.Context, id string) error

	Summary(ctx context.Context) (models.Summary, error)
}
