package main

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/adiljeddiradja/Mykeuangan/models"
	"github.com/adiljeddiradja/Mykeuangan/pkg/store"
)

// helper to perform requests with an optional auth token
func performRequest(r http.Handler, method, path string, body io.Reader, token string) *httptest.ResponseRecorder {
	req, _ := http.NewRequest(method, path, body)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

// setupTestServer wires the routes against a fresh temp-dir SQLite store.
// No token is sent anywhere below, so every call runs in local mode.
func setupTestServer(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	jwtSecret = []byte("test-secret")
	st = store.New(store.Options{
		LocalPath: filepath.Join(t.TempDir(), "finance_db_v2.db"),
	})
	t.Cleanup(func() { _ = st.Close() })
	r := gin.New()
	setupRoutes(r)
	return r
}

func listWallets(t *testing.T, r http.Handler) []models.Account {
	t.Helper()
	resp := performRequest(r, http.MethodGet, "/wallets", nil, "")
	if resp.Code != 200 {
		t.Fatalf("list wallets status=%d body=%s", resp.Code, resp.Body.String())
	}
	var accounts []models.Account
	if err := json.Unmarshal(resp.Body.Bytes(), &accounts); err != nil {
		t.Fatalf("decode wallets: %v", err)
	}
	return accounts
}

func TestWalletFlow(t *testing.T) {
	r := setupTestServer(t)

	if got := len(listWallets(t, r)); got != 3 {
		t.Fatalf("expected 3 seeded wallets, got %d", got)
	}

	body, _ := json.Marshal(map[string]any{"name": "Dana", "type": "EWALLET", "initial_balance": 25000})
	resp := performRequest(r, http.MethodPost, "/wallets", bytes.NewBuffer(body), "")
	if resp.Code != 200 {
		t.Fatalf("create wallet status=%d body=%s", resp.Code, resp.Body.String())
	}

	wallets := listWallets(t, r)
	if len(wallets) != 4 {
		t.Fatalf("expected 4 wallets after create, got %d", len(wallets))
	}
	var dana *models.Account
	for i := range wallets {
		if wallets[i].Name == "Dana" {
			dana = &wallets[i]
		}
	}
	if dana == nil || dana.Balance != 25000 {
		t.Fatalf("Dana wallet missing or wrong balance: %+v", wallets)
	}

	// Blank name is a validation error, not a server error.
	body, _ = json.Marshal(map[string]any{"name": "   "})
	resp = performRequest(r, http.MethodPost, "/wallets", bytes.NewBuffer(body), "")
	if resp.Code != 400 {
		t.Fatalf("blank wallet name status=%d, want 400", resp.Code)
	}

	resp = performRequest(r, http.MethodDelete, "/wallets/"+dana.ID, nil, "")
	if resp.Code != 200 {
		t.Fatalf("delete wallet status=%d body=%s", resp.Code, resp.Body.String())
	}
	if got := len(listWallets(t, r)); got != 3 {
		t.Fatalf("expected 3 wallets after delete, got %d", got)
	}
}

func TestTransactionFlow(t *testing.T) {
	r := setupTestServer(t)

	var bank models.Account
	for _, a := range listWallets(t, r) {
		if a.Name == "Bank BCA" {
			bank = a
		}
	}
	if bank.ID == "" {
		t.Fatalf("seeded Bank BCA wallet not found")
	}

	body, _ := json.Marshal(map[string]any{
		"amount": 50000, "type": "INCOME",
		"category_id": "1", "category_name": "Gaji", "category_icon": "cash",
		"account_id": bank.ID, "note": "gajian", "date": "2025-03-25",
	})
	resp := performRequest(r, http.MethodPost, "/transactions", bytes.NewBuffer(body), "")
	if resp.Code != 200 {
		t.Fatalf("post transaction status=%d body=%s", resp.Code, resp.Body.String())
	}

	resp = performRequest(r, http.MethodGet, "/summary", nil, "")
	if resp.Code != 200 {
		t.Fatalf("summary status=%d", resp.Code)
	}
	var sum models.Summary
	if err := json.Unmarshal(resp.Body.Bytes(), &sum); err != nil {
		t.Fatalf("decode summary: %v", err)
	}
	if sum.Income != 50000 || sum.TotalBalance != 50000 {
		t.Fatalf("summary = %+v, want income/totalBalance 50000", sum)
	}

	resp = performRequest(r, http.MethodGet, "/transactions", nil, "")
	if resp.Code != 200 {
		t.Fatalf("list transactions status=%d", resp.Code)
	}
	var txs []models.Transaction
	if err := json.Unmarshal(resp.Body.Bytes(), &txs); err != nil {
		t.Fatalf("decode transactions: %v", err)
	}
	if len(txs) != 1 || txs[0].AccountName != "Bank BCA" {
		t.Fatalf("transactions = %+v", txs)
	}

	resp = performRequest(r, http.MethodDelete, "/transactions/"+txs[0].ID, nil, "")
	if resp.Code != 200 {
		t.Fatalf("delete transaction status=%d body=%s", resp.Code, resp.Body.String())
	}
	resp = performRequest(r, http.MethodGet, "/summary", nil, "")
	_ = json.Unmarshal(resp.Body.Bytes(), &sum)
	if sum.TotalBalance != 0 {
		t.Fatalf("total balance after delete = %v, want 0", sum.TotalBalance)
	}

	// Validation surface: a zero amount is rejected with 400.
	body, _ = json.Marshal(map[string]any{
		"amount": 0, "type": "EXPENSE", "category_id": "4",
		"account_id": bank.ID, "date": "2025-03-25",
	})
	resp = performRequest(r, http.MethodPost, "/transactions", bytes.NewBuffer(body), "")
	if resp.Code != 400 {
		t.Fatalf("zero amount status=%d, want 400", resp.Code)
	}
}

func TestCategoriesEndpoint(t *testing.T) {
	r := setupTestServer(t)

	resp := performRequest(r, http.MethodGet, "/categories?type=EXPENSE", nil, "")
	if resp.Code != 200 {
		t.Fatalf("categories status=%d body=%s", resp.Code, resp.Body.String())
	}
	var cats []models.Category
	if err := json.Unmarshal(resp.Body.Bytes(), &cats); err != nil {
		t.Fatalf("decode categories: %v", err)
	}
	if len(cats) != 6 {
		t.Fatalf("expected 6 seeded expense categories, got %d", len(cats))
	}

	resp = performRequest(r, http.MethodGet, "/categories?type=OTHER", nil, "")
	if resp.Code != 400 {
		t.Fatalf("bad category type status=%d, want 400", resp.Code)
	}
}

func TestAuthRequiresCloudConfig(t *testing.T) {
	r := setupTestServer(t)

	// No FIREBASE_PROJECT_ID in the test environment: registration cannot
	// reach a user store and must say so instead of touching local data.
	body, _ := json.Marshal(map[string]string{"email": "a@b.c", "password": "rahasia1"})
	resp := performRequest(r, http.MethodPost, "/register", bytes.NewBuffer(body), "")
	if resp.Code != http.StatusServiceUnavailable {
		t.Fatalf("register without cloud config status=%d, want 503", resp.Code)
	}

	// Garbage bearer tokens are rejected, not downgraded to local mode.
	resp = performRequest(r, http.MethodGet, "/wallets", nil, "not-a-jwt")
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("garbage token status=%d, want 401", resp.Code)
	}
}
