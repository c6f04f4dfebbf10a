package store

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"cloud.google.com/go/firestore"

	"github.com/adiljeddiradja/Mykeuangan/models"
	"github.com/adiljeddiradja/Mykeuangan/pkg/money"
)

// Session is the caller-supplied authentication state. An empty UserID means
// offline/local mode. It is passed into every call rather than read from
// ambient global auth state, so tests can pin either mode.
type Session struct {
	UserID string
}

// CloudMode reports whether calls dispatch to the per-user remote partition.
func (s Session) CloudMode() bool { return s.UserID != "" }

// Options configures the facade. ProjectID may be empty when only local mode
// is used.
type Options struct {
	LocalPath string
	ProjectID string
}

// Store is the single entry point the rest of the application talks to. It
// validates input, dispatches each call to the local or remote backend based
// on the session, and owns the shared monthly-summary logic. Both backends
// are opened lazily exactly once; concurrent first callers share the same
// initialization.
type Store struct {
	opts Options

	localOnce sync.Once
	local     *LocalStore
	localErr  error

	cloudOnce sync.Once
	cloud     *firestore.Client
	cloudErr  error
}

// New builds a facade. Nothing is opened until the first call needs it.
func New(opts Options) *Store {
	if opts.LocalPath == "" {
		opts.LocalPath = DefaultLocalPath
	}
	return &Store{opts: opts}
}

// Firestore exposes the lazily-created client so collaborators (the auth
// layer) can share it instead of dialing their own.
func (s *Store) Firestore(ctx context.Context) (*firestore.Client, error) {
	s.cloudOnce.Do(func() {
		if s.opts.ProjectID == "" {
			s.cloudErr = fmt.Errorf("cloud mode unavailable: no Firebase project configured")
			return
		}
		s.cloud, s.cloudErr = firestore.NewClient(ctx, s.opts.ProjectID)
	})
	if s.cloudErr != nil {
		return nil, s.cloudErr
	}
	return s.cloud, nil
}

// Local exposes the lazily-opened local store (used by the migrate command).
func (s *Store) Local() (*LocalStore, error) {
	s.localOnce.Do(func() {
		s.local, s.localErr = OpenLocal(s.opts.LocalPath)
	})
	if s.localErr != nil {
		return nil, s.localErr
	}
	return s.local, nil
}

func (s *Store) backend(ctx context.Context, sess Session) (Backend, error) {
	if sess.CloudMode() {
		client, err := s.Firestore(ctx)
		if err != nil {
			return nil, err
		}
		return NewRemoteStore(client, sess.UserID), nil
	}
	return s.Local()
}

func (s *Store) Accounts(ctx context.Context, sess Session) ([]models.Account, error) {
	b, err := s.backend(ctx, sess)
	if err != nil {
		return nil, err
	}
	return b.Accounts(ctx)
}

func (s *Store) AddAccount(ctx context.Context, sess Session, p NewAccount) error {
	p.Name = strings.TrimSpace(p.Name)
	if p.Name == "" {
		return validationf("wallet name required")
	}
	b, err := s.backend(ctx, sess)
	if err != nil {
		return err
	}
	return b.AddAccount(ctx, p)
}

func (s *Store) DeleteAccount(ctx context.Context, sess Session, id string) error {
	if id == "" {
		return validationf("wallet id required")
	}
	b, err := s.backend(ctx, sess)
	if err != nil {
		return err
	}
	return b.DeleteAccount(ctx, id)
}

func (s *Store) Categories(ctx context.Context, sess Session, typ string) ([]models.Category, error) {
	if typ != models.TypeIncome && typ != models.TypeExpense {
		return nil, validationf("category type must be INCOME or EXPENSE, got %q", typ)
	}
	b, err := s.backend(ctx, sess)
	if err != nil {
		return nil, err
	}
	return b.Categories(ctx, typ)
}

func (s *Store) PostTransaction(ctx context.Context, sess Session, p NewTransaction) error {
	if p.Amount <= 0 {
		return validationf("amount must be positive")
	}
	if p.Type != models.TypeIncome && p.Type != models.TypeExpense {
		return validationf("transaction type must be INCOME or EXPENSE, got %q", p.Type)
	}
	if p.CategoryID == "" {
		return validationf("category required")
	}
	if p.AccountID == "" {
		return validationf("wallet required")
	}
	if _, err := time.Parse("2006-01-02", p.Date); err != nil {
		return validationf("date must be YYYY-MM-DD, got %q", p.Date)
	}
	b, err := s.backend(ctx, sess)
	if err != nil {
		return err
	}
	return b.PostTransaction(ctx, p)
}

func (s *Store) Transactions(ctx context.Context, sess Session) ([]models.Transaction, error) {
	b, err := s.backend(ctx, sess)
	if err != nil {
		return nil, err
	}
	return b.Transactions(ctx)
}

func (s *Store) DeleteTransaction(ctx context.Context, sess Session, id string) error {
	if id == "" {
		return validationf("transaction id required")
	}
	b, err := s.backend(ctx, sess)
	if err != nil {
		return err
	}
	return b.DeleteTransaction(ctx, id)
}

func (s *Store) Summary(ctx context.Context, sess Session) (models.Summary, error) {
	b, err := s.backend(ctx, sess)
	if err != nil {
		return models.Summary{}, err
	}
	return b.Summary(ctx)
}

// MonthlySummary aggregates the postings whose user-chosen date (not
// insertion time) falls in the current calendar month. It scans the full
// transaction list client-side in both modes; that keeps the backends
// symmetric and is O(n) at personal-finance scale.
func (s *Store) MonthlySummary(ctx context.Context, sess Session) (models.MonthlySummary, error) {
	txs, err := s.Transactions(ctx, sess)
	if err != nil {
		return models.MonthlySummary{}, err
	}
	now := time.Now()
	var incomes, expenses []float64
	for _, t := range txs {
		d, err := time.Parse("2006-01-02", t.Date)
		if err != nil {
			continue
		}
		if d.Month() != now.Month() || d.Year() != now.Year() {
			continue
		}
		if t.Type == models.TypeIncome {
			incomes = append(incomes, t.Amount)
		} else {
			expenses = append(expenses, t.Amount)
		}
	}
	income := money.Sum(incomes...)
	expense := money.Sum(expenses...)
	return models.MonthlySummary{
		Income:  income,
		Expense: expense,
		Surplus: money.Sub(income, expense),
	}, nil
}

// Close releases whichever backends were actually opened.
func (s *Store) Close() error {
	var firstErr error
	if s.local != nil {
		if err := s.local.Close(); err != nil {
			firstErr = err
		}
	}
	if s.cloud != nil {
		if err := s.cloud.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
