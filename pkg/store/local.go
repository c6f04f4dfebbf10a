package store

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/adiljeddiradja/Mykeuangan/models"
	"github.com/adiljeddiradja/Mykeuangan/pkg/money"
)

// DefaultLocalPath is the on-device database file. The name is kept for
// compatibility with installs created by earlier versions.
const DefaultLocalPath = "finance_db_v2.db"

// accountRow, categoryRow and transactionRow pin the table and column names
// of the v2 file format. transactions.account_id references accounts.id but
// deliberately does not cascade: deleting a wallet orphans its postings.
type accountRow struct {
	ID      int64   `gorm:"column:id;primaryKey;autoIncrement"`
	Name    string  `gorm:"column:name;not null"`
	Type    string  `gorm:"column:type"`
	Icon    string  `gorm:"column:icon"`
	Balance float64 `gorm:"column:balance;default:0"`
}

func (accountRow) TableName() string { return "accounts" }

type categoryRow struct {
	ID   int64  `gorm:"column:id;primaryKey;autoIncrement"`
	Name string `gorm:"column:name;not null"`
	Type string `gorm:"column:type;not null"`
	Icon string `gorm:"column:icon;not null"`
}

func (categoryRow) TableName() string { return "categories" }

type transactionRow struct {
	ID           int64   `gorm:"column:id;primaryKey;autoIncrement"`
	Amount       float64 `gorm:"column:amount;not null"`
	Type         string  `gorm:"column:type;not null"`
	CategoryID   int64   `gorm:"column:category_id"`
	CategoryName string  `gorm:"column:category_name"`
	CategoryIcon string  `gorm:"column:category_icon"`
	AccountID    int64   `gorm:"column:account_id"`
	Note         string  `gorm:"column:note"`
	Date         string  `gorm:"column:date;not null"`
	CreatedAt    string  `gorm:"column:created_at"`
}

func (transactionRow) TableName() string { return "transactions" }

// LocalStore is the offline backend: a single SQLite file owned by this
// process. The engine serializes racing writes; no extra locking is layered
// on top.
type LocalStore struct {
	db *gorm.DB
}

// OpenLocal opens (creating if needed) the database at path, migrates the
// three-table schema idempotently and seeds the starter wallets and
// categories when the accounts table is empty.
func OpenLocal(path string) (*LocalStore, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}
	if err := db.Exec("PRAGMA journal_mode = WAL").Error; err != nil {
		return nil, fmt.Errorf("enable WAL: %w", err)
	}
	if err := db.AutoMigrate(&accountRow{}, &categoryRow{}, &transactionRow{}); err != nil {
		return nil, fmt.Errorf("migrate schema: %w", err)
	}
	s := &LocalStore{db: db}
	if err := s.seed(); err != nil {
		return nil, err
	}
	return s, nil
}

// seed inserts the starter data exactly once. The gate is the accounts table:
// once any wallet exists seeding never runs again, even if all categories
// were deleted separately.
func (s *LocalStore) seed() error {
	var n int64
	if err := s.db.Model(&accountRow{}).Count(&n).Error; err != nil {
		return fmt.Errorf("count accounts: %w", err)
	}
	if n > 0 {
		return nil
	}
	for _, a := range seedAccounts {
		row := accountRow{Name: a.Name, Type: a.Type, Icon: a.Icon, Balance: a.Balance}
		if err := s.db.Create(&row).Error; err != nil {
			return fmt.Errorf("seed account %s: %w", a.Name, err)
		}
	}
	for _, c := range seedCategories {
		row := categoryRow{Name: c.Name, Type: c.Type, Icon: c.Icon}
		if err := s.db.Create(&row).Error; err != nil {
			return fmt.Errorf("seed category %s: %w", c.Name, err)
		}
	}
	return nil
}

// Close releases the underlying database handle.
func (s *LocalStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func localID(id string) (int64, error) {
	n, err := strconv.ParseInt(id, 10, 64)
	if err != nil {
		return 0, validationf("invalid local id %q", id)
	}
	return n, nil
}

func (s *LocalStore) Accounts(ctx context.Context) ([]models.Account, error) {
	var rows []accountRow
	if err := s.db.WithContext(ctx).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("select accounts: %w", err)
	}
	out := make([]models.Account, 0, len(rows))
	for _, r := range rows {
		out = append(out, models.Account{
			ID:      strconv.FormatInt(r.ID, 10),
			Name:    r.Name,
			Type:    r.Type,
			Icon:    r.Icon,
			Balance: r.Balance,
		})
	}
	return out, nil
}

func (s *LocalStore) AddAccount(ctx context.Context, p NewAccount) error {
	icon := p.Icon
	if icon == "" {
		icon = "wallet"
	}
	row := accountRow{Name: p.Name, Type: p.Type, Icon: icon, Balance: p.InitialBalance}
	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		return fmt.Errorf("insert account: %w", err)
	}
	return nil
}

// DeleteAccount removes the wallet only. Postings that reference it stay in
// place and surface with the "Umum" display name from then on.
func (s *LocalStore) DeleteAccount(ctx context.Context, id string) error {
	rid, err := localID(id)
	if err != nil {
		return err
	}
	if err := s.db.WithContext(ctx).Where("id = ?", rid).Delete(&accountRow{}).Error; err != nil {
		return fmt.Errorf("delete account %d: %w", rid, err)
	}
	return nil
}

func (s *LocalStore) Categories(ctx context.Context, typ string) ([]models.Category, error) {
	var rows []categoryRow
	if err := s.db.WithContext(ctx).Where("type = ?", typ).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("select categories: %w", err)
	}
	out := make([]models.Category, 0, len(rows))
	for _, r := range rows {
		out = append(out, models.Category{
			ID:   strconv.FormatInt(r.ID, 10),
			Name: r.Name,
			Type: r.Type,
			Icon: r.Icon,
		})
	}
	return out, nil
}

// PostTransaction inserts the posting and applies the signed balance delta to
// its wallet inside one SQL transaction, so a crash can never leave the
// record without its balance effect. A vanished wallet updates zero rows and
// the posting still commits.
func (s *LocalStore) PostTransaction(ctx context.Context, p NewTransaction) error {
	accID, err := localID(p.AccountID)
	if err != nil {
		return err
	}
	catID, _ := strconv.ParseInt(p.CategoryID, 10, 64)
	icon := p.CategoryIcon
	if icon == "" {
		icon = "help-circle"
	}
	row := transactionRow{
		Amount:       p.Amount,
		Type:         p.Type,
		CategoryID:   catID,
		CategoryName: p.CategoryName,
		CategoryIcon: icon,
		AccountID:    accID,
		Note:         p.Note,
		Date:         p.Date,
		CreatedAt:    time.Now().Format("2006-01-02 15:04:05"),
	}
	delta := money.Signed(p.Type == models.TypeIncome, p.Amount)
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&row).Error; err != nil {
			return fmt.Errorf("insert transaction: %w", err)
		}
		res := tx.Model(&accountRow{}).Where("id = ?", accID).
			Update("balance", gorm.Expr("balance + ?", delta))
		if res.Error != nil {
			return fmt.Errorf("adjust balance of account %d: %w", accID, res.Error)
		}
		return nil
	})
	return err
}

func (s *LocalStore) Transactions(ctx context.Context) ([]models.Transaction, error) {
	var rows []struct {
		ID           int64
		Amount       float64
		Type         string
		CategoryID   int64
		CategoryName string
		CategoryIcon string
		AccountID    int64
		Note         string
		Date         string
		CreatedAt    string
		AccountName  string
	}
	query := `
		SELECT t.id, t.amount, t.type,
		       IFNULL(t.category_id, 0)    AS category_id,
		       IFNULL(t.category_name, '') AS category_name,
		       IFNULL(t.category_icon, '') AS category_icon,
		       IFNULL(t.account_id, 0)     AS account_id,
		       IFNULL(t.note, '')          AS note,
		       t.date,
		       IFNULL(t.created_at, '')    AS created_at,
		       IFNULL(a.name, '')          AS account_name
		FROM transactions t
		LEFT JOIN accounts a ON t.account_id = a.id
		ORDER BY t.date DESC, t.id DESC`
	if err := s.db.WithContext(ctx).Raw(query).Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("select transactions: %w", err)
	}
	out := make([]models.Transaction, 0, len(rows))
	for _, r := range rows {
		name := r.AccountName
		if name == "" {
			name = fallbackAccountName
		}
		out = append(out, models.Transaction{
			ID:           strconv.FormatInt(r.ID, 10),
			Amount:       r.Amount,
			Type:         r.Type,
			CategoryID:   strconv.FormatInt(r.CategoryID, 10),
			CategoryName: r.CategoryName,
			CategoryIcon: r.CategoryIcon,
			AccountID:    strconv.FormatInt(r.AccountID, 10),
			Note:         r.Note,
			Date:         r.Date,
			CreatedAt:    r.CreatedAt,
			AccountName:  name,
		})
	}
	return out, nil
}

// DeleteTransaction reverses the posting's balance effect and removes the
// record in one SQL transaction. An id that no longer exists is a silent
// no-op.
func (s *LocalStore) DeleteTransaction(ctx context.Context, id string) error {
	rid, err := localID(id)
	if err != nil {
		return err
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var row transactionRow
		if err := tx.Where("id = ?", rid).First(&row).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil
			}
			return fmt.Errorf("load transaction %d: %w", rid, err)
		}
		reverse := money.Signed(row.Type != models.TypeIncome, row.Amount)
		res := tx.Model(&accountRow{}).Where("id = ?", row.AccountID).
			Update("balance", gorm.Expr("balance + ?", reverse))
		if res.Error != nil {
			return fmt.Errorf("reverse balance of account %d: %w", row.AccountID, res.Error)
		}
		if err := tx.Where("id = ?", rid).Delete(&transactionRow{}).Error; err != nil {
			return fmt.Errorf("delete transaction %d: %w", rid, err)
		}
		return nil
	})
}

func (s *LocalStore) Summary(ctx context.Context) (models.Summary, error) {
	var sum models.Summary
	db := s.db.WithContext(ctx)
	if err := db.Raw("SELECT IFNULL(SUM(amount), 0) FROM transactions WHERE type = ?", models.TypeIncome).
		Scan(&sum.Income).Error; err != nil {
		return models.Summary{}, fmt.Errorf("sum income: %w", err)
	}
	if err := db.Raw("SELECT IFNULL(SUM(amount), 0) FROM transactions WHERE type = ?", models.TypeExpense).
		Scan(&sum.Expense).Error; err != nil {
		return models.Summary{}, fmt.Errorf("sum expense: %w", err)
	}
	if err := db.Raw("SELECT IFNULL(SUM(balance), 0) FROM accounts").
		Scan(&sum.TotalBalance).Error; err != nil {
		return models.Summary{}, fmt.Errorf("sum balances: %w", err)
	}
	return sum, nil
}
