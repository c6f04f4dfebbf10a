package store

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"cloud.google.com/go/firestore"

	"github.com/adiljeddiradja/Mykeuangan/models"
)

// Remote tests are opt-in: point FIRESTORE_EMULATOR_HOST at a running
// Firestore emulator to enable them. Each test gets its own user partition so
// runs never interfere.
func openTestRemote(t *testing.T) *RemoteStore {
	t.Helper()
	if os.Getenv("FIRESTORE_EMULATOR_HOST") == "" {
		t.Skip("remote tests are disabled; set FIRESTORE_EMULATOR_HOST to enable")
	}
	ctx := context.Background()
	client, err := firestore.NewClient(ctx, "demo-mykeuangan")
	if err != nil {
		t.Fatalf("connect emulator: %v", err)
	}
	t.Cleanup(func() { _ = client.Close() })
	uid := fmt.Sprintf("test-%s-%d", t.Name(), time.Now().UnixNano())
	return NewRemoteStore(client, uid)
}

func remoteAccountByName(t *testing.T, r *RemoteStore, name string) models.Account {
	t.Helper()
	accounts, err := r.Accounts(context.Background())
	if err != nil {
		t.Fatalf("list accounts: %v", err)
	}
	for _, a := range accounts {
		if a.Name == name {
			return a
		}
	}
	t.Fatalf("account %q not found in %+v", name, accounts)
	return models.Account{}
}

func TestRemoteFallbackCategories(t *testing.T) {
	r := openTestRemote(t)
	ctx := context.Background()

	income, err := r.Categories(ctx, models.TypeIncome)
	if err != nil {
		t.Fatalf("income categories: %v", err)
	}
	expense, err := r.Categories(ctx, models.TypeExpense)
	if err != nil {
		t.Fatalf("expense categories: %v", err)
	}
	if len(income) != 3 || len(expense) != 4 {
		t.Fatalf("fallback set should be 3 income / 4 expense, got %d / %d", len(income), len(expense))
	}

	// The fallback is served, never stored: the collection must stay empty.
	snaps, err := r.col("categories").Documents(ctx).GetAll()
	if err != nil {
		t.Fatalf("raw categories read: %v", err)
	}
	if len(snaps) != 0 {
		t.Fatalf("fallback categories were persisted (%d docs)", len(snaps))
	}
}

func TestRemotePostAndDeleteScenario(t *testing.T) {
	r := openTestRemote(t)
	ctx := context.Background()

	if err := r.AddAccount(ctx, NewAccount{Name: "Bank BCA", Type: models.AccountBank, Icon: "card"}); err != nil {
		t.Fatalf("add account: %v", err)
	}
	bank := remoteAccountByName(t, r, "Bank BCA")

	err := r.PostTransaction(ctx, NewTransaction{
		Amount: 50000, Type: models.TypeIncome,
		CategoryID: "c1", CategoryName: "Gaji", CategoryIcon: "cash",
		AccountID: bank.ID, Date: "2025-03-10",
	})
	if err != nil {
		t.Fatalf("post income: %v", err)
	}
	if got := remoteAccountByName(t, r, "Bank BCA").Balance; got != 50000 {
		t.Fatalf("balance after income = %v, want 50000", got)
	}

	err = r.PostTransaction(ctx, NewTransaction{
		Amount: 20000, Type: models.TypeExpense,
		CategoryID: "c4", CategoryName: "Makanan", CategoryIcon: "fast-food",
		AccountID: bank.ID, Date: "2025-03-10",
	})
	if err != nil {
		t.Fatalf("post expense: %v", err)
	}
	if got := remoteAccountByName(t, r, "Bank BCA").Balance; got != 30000 {
		t.Fatalf("balance after expense = %v, want 30000", got)
	}

	sum, err := r.Summary(ctx)
	if err != nil {
		t.Fatalf("summary: %v", err)
	}
	if sum.Income != 50000 || sum.Expense != 20000 || sum.TotalBalance != 30000 {
		t.Fatalf("summary = %+v", sum)
	}

	txs, err := r.Transactions(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(txs) != 2 {
		t.Fatalf("expected 2 transactions, got %d", len(txs))
	}
	if txs[0].AccountName != "Bank BCA" {
		t.Fatalf("account name = %q, want Bank BCA", txs[0].AccountName)
	}

	var expense *models.Transaction
	for i := range txs {
		if txs[i].Type == models.TypeExpense {
			expense = &txs[i]
		}
	}
	if expense == nil {
		t.Fatalf("expense transaction missing from %+v", txs)
	}
	if err := r.DeleteTransaction(ctx, expense.ID); err != nil {
		t.Fatalf("delete expense: %v", err)
	}
	if got := remoteAccountByName(t, r, "Bank BCA").Balance; got != 50000 {
		t.Fatalf("balance after delete = %v, want 50000", got)
	}

	// Deleting the same id again must be a silent no-op.
	if err := r.DeleteTransaction(ctx, expense.ID); err != nil {
		t.Fatalf("repeat delete should be a no-op, got %v", err)
	}
}

func TestRemoteReadsLegacyCamelCaseFields(t *testing.T) {
	r := openTestRemote(t)
	ctx := context.Background()

	if err := r.AddAccount(ctx, NewAccount{Name: "Gopay", Type: models.AccountEWallet}); err != nil {
		t.Fatalf("add account: %v", err)
	}
	gopay := remoteAccountByName(t, r, "Gopay")

	// A document as the original mobile client wrote it: camelCase keys.
	_, err := r.col("transactions").Doc("legacy-1").Set(ctx, map[string]any{
		"amount":       12000,
		"type":         models.TypeExpense,
		"categoryId":   "c5",
		"categoryName": "Transport",
		"categoryIcon": "car",
		"accountId":    gopay.ID,
		"note":         "ojek",
		"date":         "2024-12-31",
		"created_at":   "2024-12-31T08:00:00Z",
	})
	if err != nil {
		t.Fatalf("seed legacy doc: %v", err)
	}

	txs, err := r.Transactions(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(txs) != 1 {
		t.Fatalf("expected 1 transaction, got %d", len(txs))
	}
	got := txs[0]
	if got.AccountID != gopay.ID || got.AccountName != "Gopay" {
		t.Fatalf("legacy accountId not resolved: %+v", got)
	}
	if got.CategoryName != "Transport" || got.CategoryIcon != "car" || got.CategoryID != "c5" {
		t.Fatalf("legacy category fields not resolved: %+v", got)
	}

	// Orphan it: the wallet disappears, the posting stays and renders Umum.
	if err := r.DeleteAccount(ctx, gopay.ID); err != nil {
		t.Fatalf("delete account: %v", err)
	}
	txs, err = r.Transactions(ctx)
	if err != nil {
		t.Fatalf("list after account delete: %v", err)
	}
	if len(txs) != 1 || txs[0].AccountName != "Umum" {
		t.Fatalf("orphan handling wrong: %+v", txs)
	}
	if err := r.DeleteTransaction(ctx, txs[0].ID); err != nil {
		t.Fatalf("delete orphaned transaction: %v", err)
	}
}
