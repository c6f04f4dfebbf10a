package store

import "github.com/adiljeddiradja/Mykeuangan/models"

// seedAccounts and seedCategories are inserted into a fresh local database,
// gated on the accounts table being empty. They are never re-applied once any
// account exists, even if every category was deleted by hand.
var seedAccounts = []models.Account{
	{Name: "Dompet Tunai", Type: models.AccountCash, Icon: "wallet", Balance: 0},
	{Name: "Bank BCA", Type: models.AccountBank, Icon: "card", Balance: 0},
	{Name: "Gopay", Type: models.AccountEWallet, Icon: "phone-portrait", Balance: 0},
}

var seedCategories = []models.Category{
	{Name: "Gaji", Type: models.TypeIncome, Icon: "cash"},
	{Name: "Bonus", Type: models.TypeIncome, Icon: "gift"},
	{Name: "Investasi", Type: models.TypeIncome, Icon: "stats-chart"},
	{Name: "Makanan", Type: models.TypeExpense, Icon: "fast-food"},
	{Name: "Transport", Type: models.TypeExpense, Icon: "car"},
	{Name: "Belanja", Type: models.TypeExpense, Icon: "cart"},
	{Name: "Tagihan", Type: models.TypeExpense, Icon: "receipt"},
	{Name: "Hiburan", Type: models.TypeExpense, Icon: "game-controller"},
	{Name: "Kesehatan", Type: models.TypeExpense, Icon: "medkit"},
}

// fallbackCategories is served to cloud users who never persisted their own
// categories. It is intentionally never written back, so such users keep
// getting the built-ins until they save something of their own.
var fallbackCategories = []models.Category{
	{ID: "c1", Name: "Gaji", Type: models.TypeIncome, Icon: "cash"},
	{ID: "c2", Name: "Bonus", Type: models.TypeIncome, Icon: "gift"},
	{ID: "c3", Name: "Investasi", Type: models.TypeIncome, Icon: "stats-chart"},
	{ID: "c4", Name: "Makanan", Type: models.TypeExpense, Icon: "fast-food"},
	{ID: "c5", Name: "Transport", Type: models.TypeExpense, Icon: "car"},
	{ID: "c6", Name: "Belanja", Type: models.TypeExpense, Icon: "cart"},
	{ID: "c7", Name: "Tagihan", Type: models.TypeExpense, Icon: "receipt"},
}

func fallbackCategoriesByType(typ string) []models.Category {
	out := make([]models.Category, 0, 4)
	for _, c := range fallbackCategories {
		if c.Type == typ {
			out = append(out, c)
		}
	}
	return out
}

// fallbackAccountName is shown when a transaction's wallet has been deleted.
const fallbackAccountName = "Umum"
