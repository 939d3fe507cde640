package models

import (
	"fmt"
	"strings"
)

type ExpenseCategory string

const (
	ExpenseHosting       ExpenseCategory = "Hosting"
	ExpenseDomain        ExpenseCategory = "Domain"
	ExpensePremiumPlugin ExpenseCategory = "Premium Plugin"
	ExpenseAPIFeed       ExpenseCategory = "API Feed"
	ExpenseOutsourcing   ExpenseCategory = "Outsourcing"
	ExpenseAdSpend       ExpenseCategory = "Ad Spend"

	// ExpenseCustom selects a free-text category supplied by the user.
	ExpenseCustom ExpenseCategory = "Custom"
)

var ExpenseCategories = []ExpenseCategory{
	ExpenseHosting,
	ExpenseDomain,
	ExpensePremiumPlugin,
	ExpenseAPIFeed,
	ExpenseOutsourcing,
	ExpenseAdSpend,
}

type Expense struct {
	ID     string  `json:"id"`
	Type   string  `json:"type"`
	Amount float64 `json:"amount"`
	Date   string  `json:"date"` // YYYY-MM-DD format
	Note   string  `json:"note,omitempty"`
}

// ResolveExpenseType turns a category choice into the stored expense type.
// Choosing Custom stores the free-text value instead of the category name.
func ResolveExpenseType(category, custom string) (string, error) {
	category = strings.TrimSpace(category)
	if strings.EqualFold(category, string(ExpenseCustom)) {
		custom = strings.TrimSpace(custom)
		if custom == "" {
			return "", fmt.Errorf("a custom expense type is required when the category is %s", ExpenseCustom)
		}
		return custom, nil
	}
	for _, c := range ExpenseCategories {
		if strings.EqualFold(string(c), category) {
			return string(c), nil
		}
	}
	return "", fmt.Errorf("invalid expense category %q", category)
}
