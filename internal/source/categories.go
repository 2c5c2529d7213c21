package source

import "strings"

// Category is a spending category offered when recording a transaction.
type Category struct {
	ID   string
	Name string
}

// Categories lists the known spending categories.
var Categories = []Category{
	{"food", "Food & Dining"},
	{"groceries", "Groceries"},
	{"transport", "Transport"},
	{"coffee", "Coffee & Drinks"},
	{"shopping", "Shopping"},
	{"utilities", "Utilities"},
	{"entertainment", "Entertainment"},
	{"healthcare", "Healthcare"},
	{"salary", "Salary"},
}

// UncategorizedID is used for expenses recorded without a category.
const UncategorizedID = "other"

// AmountPresets are the quick-pick amounts offered when adding an expense.
var AmountPresets = []float64{50, 100, 200, 500, 1000, 2000}

// NormalizeCategory lowercases a category and maps display names back to
// their IDs. Empty input becomes UncategorizedID.
func NormalizeCategory(s string) string {
	key := strings.TrimSpace(s)
	if key == "" {
		return UncategorizedID
	}
	for _, c := range Categories {
		if strings.EqualFold(key, c.ID) || strings.EqualFold(key, c.Name) {
			return c.ID
		}
	}
	return strings.ToLower(key)
}

// CategoryName returns the display name for a category ID.
func CategoryName(id string) string {
	for _, c := range Categories {
		if c.ID == id {
			return c.Name
		}
	}
	if id == UncategorizedID {
		return "Other"
	}
	return id
}
