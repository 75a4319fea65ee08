package domain

import (
	"fmt"
	"time"
)

// ExpenseCategory classifies spending.
type ExpenseCategory string

const (
	ExpenseAccommodation ExpenseCategory = "accommodation"
	ExpenseTransport     ExpenseCategory = "transport"
	ExpenseFood          ExpenseCategory = "food"
	ExpenseActivities    ExpenseCategory = "activities"
	ExpenseShopping      ExpenseCategory = "shopping"
	ExpenseOther         ExpenseCategory = "other"
)

// Expense is a single spend recorded against a trip's budget.
type Expense struct {
	ID          string          `json:"id"`
	Category    ExpenseCategory `json:"category"`
	Amount      float64         `json:"amount"`
	Description string          `json:"description"`
	Date        time.Time       `json:"date"`
}

// ExpensePatch holds optional expense changes.
type ExpensePatch struct {
	Category    *ExpenseCategory
	Amount      *float64
	Description *string
	Date        *time.Time
}

// BudgetSummary is derived from a trip's budget and expenses; it is never stored.
type BudgetSummary struct {
	Budget     float64                     `json:"budget"`
	Currency   string                      `json:"currency"`
	TotalSpent float64                     `json:"totalSpent"`
	Remaining  float64                     `json:"remaining"`
	OverBudget bool                        `json:"overBudget"`
	ByCategory map[ExpenseCategory]float64 `json:"byCategory"`
}

// Valid reports whether c is a known expense category.
func (c ExpenseCategory) Valid() bool {
	switch c {
	case ExpenseAccommodation, ExpenseTransport, ExpenseFood, ExpenseActivities, ExpenseShopping, ExpenseOther:
		return true
	}
	return false
}

// Validate enforces expense business rules.
func (e Expense) Validate() error {
	if !e.Category.Valid() {
		return fmt.Errorf("%w: unknown expense category %q", ErrValidation, e.Category)
	}
	if e.Amount < 0 {
		return fmt.Errorf("%w: amount must not be negative", ErrValidation)
	}
	return nil
}

// Apply returns a copy of e with the patch applied.
func (p ExpensePatch) Apply(e Expense) Expense {
	if p.Category != nil {
		e.Category = *p.Category
	}
	if p.Amount != nil {
		e.Amount = *p.Amount
	}
	if p.Description != nil {
		e.Description = *p.Description
	}
	if p.Date != nil {
		e.Date = Date(*p.Date)
	}
	return e
}

// Summarize totals a trip's expenses against its budget.
func Summarize(t Trip) BudgetSummary {
	s := BudgetSummary{
		Budget:     t.Budget,
		Currency:   t.Currency,
		ByCategory: make(map[ExpenseCategory]float64),
	}
	for _, e := range t.Expenses {
		s.TotalSpent += e.Amount
		s.ByCategory[e.Category] += e.Amount
	}
	s.Remaining = t.Budget - s.TotalSpent
	s.OverBudget = s.TotalSpent > t.Budget
	return s
}
