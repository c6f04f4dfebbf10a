package store

import (
	"context"
	"fmt"
	"sort"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/google/uuid"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/adiljeddiradja/Mykeuangan/models"
	"github.com/adiljeddiradja/Mykeuangan/pkg/money"
)

// RemoteStore is the cloud backend: one authenticated user's slice of the
// users/{uid}/{accounts,categories,transactions} document hierarchy. Document
// ids are generated client-side (uuid), so a retried write lands on the same
// document instead of duplicating it.
//
// Documents are written with snake_case field names; readers also accept the
// camelCase spellings (accountId, categoryName, ...) that older clients wrote.
type RemoteStore struct {
	client *firestore.Client
	uid    string
}

// NewRemoteStore scopes a store to one user's partition.
func NewRemoteStore(client *firestore.Client, uid string) *RemoteStore {
	return &RemoteStore{client: client, uid: uid}
}

func (r *RemoteStore) col(name string) *firestore.CollectionRef {
	return r.client.Collection("users").Doc(r.uid).Collection(name)
}

func isNotFound(err error) bool {
	return status.Code(err) == codes.NotFound
}

// asFloat reads a Firestore numeric value, which decodes as int64 or float64
// depending on how it was written.
func asFloat(v any) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case int64:
		return float64(n)
	case int:
		return float64(n)
	}
	return 0
}

// legacyString returns the first present string value among the given keys.
func legacyString(data map[string]any, keys ...string) string {
	for _, k := range keys {
		if s, ok := data[k].(string); ok && s != "" {
			return s
		}
	}
	return ""
}

func (r *RemoteStore) Accounts(ctx context.Context) ([]models.Account, error) {
	snaps, err := r.col("accounts").Documents(ctx).GetAll()
	if err != nil {
		return nil, fmt.Errorf("fetch accounts: %w", err)
	}
	out := make([]models.Account, 0, len(snaps))
	for _, snap := range snaps {
		var a models.Account
		if err := snap.DataTo(&a); err != nil {
			return nil, fmt.Errorf("decode account %s: %w", snap.Ref.ID, err)
		}
		a.ID = snap.Ref.ID
		out = append(out, a)
	}
	return out, nil
}

func (r *RemoteStore) AddAccount(ctx context.Context, p NewAccount) error {
	icon := p.Icon
	if icon == "" {
		icon = "wallet"
	}
	acc := models.Account{Name: p.Name, Type: p.Type, Icon: icon, Balance: p.InitialBalance}
	if _, err := r.col("accounts").Doc(uuid.NewString()).Set(ctx, acc); err != nil {
		return fmt.Errorf("create account: %w", err)
	}
	return nil
}

func (r *RemoteStore) DeleteAccount(ctx context.Context, id string) error {
	if _, err := r.col("accounts").Doc(id).Delete(ctx); err != nil {
		return fmt.Errorf("delete account %s: %w", id, err)
	}
	return nil
}

// Categories returns the user's stored categories of the given type, or the
// built-in fallback set when none exist. The fallback is served, never
// persisted: a user who never saves categories keeps no copy server-side.
func (r *RemoteStore) Categories(ctx context.Context, typ string) ([]models.Category, error) {
	snaps, err := r.col("categories").Where("type", "==", typ).Documents(ctx).GetAll()
	if err != nil {
		return nil, fmt.Errorf("fetch categories: %w", err)
	}
	if len(snaps) == 0 {
		return fallbackCategoriesByType(typ), nil
	}
	out := make([]models.Category, 0, len(snaps))
	for _, snap := range snaps {
		var c models.Category
		if err := snap.DataTo(&c); err != nil {
			return nil, fmt.Errorf("decode category %s: %w", snap.Ref.ID, err)
		}
		c.ID = snap.Ref.ID
		out = append(out, c)
	}
	return out, nil
}

// PostTransaction writes the posting and the wallet's new balance inside one
// Firestore transaction; either both commit or neither does. A wallet that no
// longer exists skips the balance write while the posting still commits.
func (r *RemoteStore) PostTransaction(ctx context.Context, p NewTransaction) error {
	txRef := r.col("transactions").Doc(uuid.NewString())
	accRef := r.col("accounts").Doc(p.AccountID)
	delta := money.Signed(p.Type == models.TypeIncome, p.Amount)

	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		accSnap, err := tx.Get(accRef)
		accountExists := err == nil
		if err != nil && !isNotFound(err) {
			return fmt.Errorf("load account %s: %w", p.AccountID, err)
		}
		record := models.Transaction{
			Amount:       p.Amount,
			Type:         p.Type,
			CategoryID:   p.CategoryID,
			CategoryName: p.CategoryName,
			CategoryIcon: p.CategoryIcon,
			AccountID:    p.AccountID,
			Note:         p.Note,
			Date:         p.Date,
			CreatedAt:    time.Now().UTC().Format(time.RFC3339),
		}
		if err := tx.Set(txRef, record); err != nil {
			return fmt.Errorf("create transaction: %w", err)
		}
		if accountExists {
			balance := asFloat(accSnap.Data()["balance"])
			if err := tx.Update(accRef, []firestore.Update{
				{Path: "balance", Value: money.Add(balance, delta)},
			}); err != nil {
				return fmt.Errorf("adjust balance of account %s: %w", p.AccountID, err)
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("post transaction: %w", err)
	}
	return nil
}

func (r *RemoteStore) Transactions(ctx context.Context) ([]models.Transaction, error) {
	snaps, err := r.col("transactions").OrderBy("date", firestore.Desc).Documents(ctx).GetAll()
	if err != nil {
		return nil, fmt.Errorf("fetch transactions: %w", err)
	}
	accounts, err := r.Accounts(ctx)
	if err != nil {
		return nil, err
	}
	names := make(map[string]string, len(accounts))
	for _, a := range accounts {
		names[a.ID] = a.Name
	}

	out := make([]models.Transaction, 0, len(snaps))
	for _, snap := range snaps {
		data := snap.Data()
		var t models.Transaction
		if err := snap.DataTo(&t); err != nil {
			return nil, fmt.Errorf("decode transaction %s: %w", snap.Ref.ID, err)
		}
		t.ID = snap.Ref.ID
		if t.AccountID == "" {
			t.AccountID = legacyString(data, "accountId")
		}
		if t.CategoryID == "" {
			t.CategoryID = legacyString(data, "categoryId")
		}
		if t.CategoryName == "" {
			t.CategoryName = legacyString(data, "categoryName")
		}
		if t.CategoryIcon == "" {
			t.CategoryIcon = legacyString(data, "categoryIcon")
		}
		if name, ok := names[t.AccountID]; ok {
			t.AccountName = name
		} else {
			t.AccountName = fallbackAccountName
		}
		out = append(out, t)
	}
	// The server orders by date only; break ties on creation time so two
	// same-day postings list newest first, matching the local backend.
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Date != out[j].Date {
			return out[i].Date > out[j].Date
		}
		return out[i].CreatedAt > out[j].CreatedAt
	})
	return out, nil
}

// DeleteTransaction reads the posting, reverses its balance effect and
// removes it, all inside one Firestore transaction. Already-deleted postings
// are a silent no-op; a vanished wallet skips the balance step.
func (r *RemoteStore) DeleteTransaction(ctx context.Context, id string) error {
	txRef := r.col("transactions").Doc(id)
	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		txSnap, err := tx.Get(txRef)
		if isNotFound(err) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("load transaction %s: %w", id, err)
		}
		data := txSnap.Data()
		accountID := legacyString(data, "account_id", "accountId")
		amount := asFloat(data["amount"])
		txType, _ := data["type"].(string)
		reverse := money.Signed(txType != models.TypeIncome, amount)

		var accRef *firestore.DocumentRef
		var balance float64
		accountExists := false
		if accountID != "" {
			accRef = r.col("accounts").Doc(accountID)
			accSnap, err := tx.Get(accRef)
			if err != nil && !isNotFound(err) {
				return fmt.Errorf("load account %s: %w", accountID, err)
			}
			if err == nil {
				accountExists = true
				balance = asFloat(accSnap.Data()["balance"])
			}
		}
		if accountExists {
			if err := tx.Update(accRef, []firestore.Update{
				{Path: "balance", Value: money.Add(balance, reverse)},
			}); err != nil {
				return fmt.Errorf("reverse balance of account %s: %w", accountID, err)
			}
		}
		if err := tx.Delete(txRef); err != nil {
			return fmt.Errorf("delete transaction %s: %w", id, err)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}
	return nil
}

// Summary re-scans the user's transactions and wallets. O(n) per call, which
// is fine at personal-finance scale and keeps the two backends symmetric.
func (r *RemoteStore) Summary(ctx context.Context) (models.Summary, error) {
	txs, err := r.Transactions(ctx)
	if err != nil {
		return models.Summary{}, err
	}
	accounts, err := r.Accounts(ctx)
	if err != nil {
		return models.Summary{}, err
	}
	var incomes, expenses, balances []float64
	for _, t := range txs {
		if t.Type == models.TypeIncome {
			incomes = append(incomes, t.Amount)
		} else {
			expenses = append(expenses, t.Amount)
		}
	}
	for _, a := range accounts {
		balances = append(balances, a.Balance)
	}
	return models.Summary{
		Income:       money.Sum(incomes...),
		Expense:      money.Sum(expenses...),
		TotalBalance: money.Sum(balances...),
	}, nil
}
