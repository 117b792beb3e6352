package core

// Fixed entry-time taxonomy. Labels are Bahasa Indonesia, the language the
// app ships in.
var (
	ExpenseCategories = []string{
		"Makan & Minum",
		"Transportasi",
		"Belanja",
		"Tagihan & Utilitas",
		"Hiburan",
		"Kesehatan",
		"Pendidikan",
		"Lainnya",
	}

	IncomeCategories = []string{
		"Gaji",
		"Bonus",
		"Investasi",
		"Hadiah",
		"Penjualan",
		"Lainnya",
	}

	SavingsIcons = []string{
		"🏠", "🚗", "✈️", "💍", "🎓", "📱", "💻", "🏥", "💰",
	}

	GoalColors = []string{
		"#3B82F6", "#10B981", "#F59E0B", "#EF4444", "#8B5CF6", "#EC4899",
	}
)

// CategoriesFor returns the recognized category list for a transaction type.
func CategoriesFor(t TransactionType) []string {
	switch t {
	case Income:
		return IncomeCategories
	case Expense:
		return ExpenseCategories
	default:
		return nil
	}
}

// KnownCategory reports whether the category belongs to the recognized list
// for the given transaction type.
func KnownCategory(t TransactionType, category string) bool {
	for _, c := range CategoriesFor(t) {
		if c == category {
			return true
		}
	}
	return false
}

// KnownSavingsIcon reports whether the icon belongs to the fixed icon set.
func KnownSavingsIcon(icon string) bool {
	for _, i := range SavingsIcons {
		if i == icon {
			return true
		}
	}
	return false
}
