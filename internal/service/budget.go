package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/pkordes/trip-planner/internal/domain"
	"github.com/pkordes/trip-planner/internal/persist"
	"github.com/pkordes/trip-planner/internal/store"
)

// BudgetService manages a trip's budget and expenses.
type BudgetService struct {
	core
	now func() time.Time
}

// NewBudgetService constructs a BudgetService.
func NewBudgetService(st *store.TripStore, backends backendSelector, logger *slog.Logger) *BudgetService {
	return &BudgetService{core: core{store: st, backends: backends, logger: logger}, now: time.Now}
}

// Summary totals the trip's expenses against its budget.
func (s *BudgetService) Summary(_ context.Context, tripID string) (domain.BudgetSummary, error) {
	trip, ok := s.store.Trip(tripID)
	if !ok {
		return domain.BudgetSummary{}, fmt.Errorf("service.BudgetService.Summary: %w", domain.ErrNotFound)
	}
	return domain.Summarize(trip), nil
}

// SetBudget changes the budget amount and, when non-empty, the currency.
// Both live in the trip header.
func (s *BudgetService) SetBudget(ctx context.Context, tripID string, amount float64, currency string) (domain.BudgetSummary, error) {
	b := s.backends.Current()
	patch := domain.TripPatch{Budget: &amount}
	if currency != "" {
		patch.Currency = &currency
	}
	trip, err := s.store.UpdateTrip(tripID, patch.Apply)
	if err != nil {
		return domain.BudgetSummary{}, fmt.Errorf("service.BudgetService.SetBudget: %w", err)
	}
	s.persistLogged(ctx, b, "update_header", tripID, func(b persist.Backend) error {
		return b.UpdateHeader(ctx, trip)
	})
	return domain.Summarize(trip), nil
}

// AddExpense records a spend. A zero date defaults to today.
func (s *BudgetService) AddExpense(ctx context.Context, tripID string, in domain.Expense) (domain.Expense, error) {
	in.ID = uuid.NewString()
	if in.Date.IsZero() {
		in.Date = s.now()
	}
	in.Date = domain.Date(in.Date)
	if err := in.Validate(); err != nil {
		return domain.Expense{}, fmt.Errorf("service.BudgetService.AddExpense: %w", err)
	}
	err := s.mutate(ctx, tripID, func(expenses []domain.Expense) ([]domain.Expense, error) {
		return appendCopy(expenses, in), nil
	})
	if err != nil {
		return domain.Expense{}, fmt.Errorf("service.BudgetService.AddExpense: %w", err)
	}
	return in, nil
}

// UpdateExpense patches one expense.
func (s *BudgetService) UpdateExpense(ctx context.Context, tripID, expenseID string, patch domain.ExpensePatch) (domain.Expense, error) {
	var updated domain.Expense
	err := s.mutate(ctx, tripID, func(expenses []domain.Expense) ([]domain.Expense, error) {
		i := indexByID(expenses, expenseID, expenseIDOf)
		if i < 0 {
			return nil, domain.ErrNotFound
		}
		updated = patch.Apply(expenses[i])
		if err := updated.Validate(); err != nil {
			return nil, err
		}
		return replaceAt(expenses, i, updated), nil
	})
	if err != nil {
		return domain.Expense{}, fmt.Errorf("service.BudgetService.UpdateExpense: %w", err)
	}
	return updated, nil
}

// DeleteExpense removes one expense.
func (s *BudgetService) DeleteExpense(ctx context.Context, tripID, expenseID string) error {
	err := s.mutate(ctx, tripID, func(expenses []domain.Expense) ([]domain.Expense, error) {
		i := indexByID(expenses, expenseID, expenseIDOf)
		if i < 0 {
			return nil, domain.ErrNotFound
		}
		return removeAt(expenses, i), nil
	})
	if err != nil {
		return fmt.Errorf("service.BudgetService.DeleteExpense: %w", err)
	}
	return nil
}

func (s *BudgetService) mutate(ctx context.Context, tripID string, fn func([]domain.Expense) ([]domain.Expense, error)) error {
	b := s.backends.Current()
	trip, err := s.store.UpdateTrip(tripID, func(t domain.Trip) (domain.Trip, error) {
		expenses, err := fn(t.Expenses)
		if err != nil {
			return t, err
		}
		t.Expenses = expenses
		return t, nil
	})
	if err != nil {
		return err
	}
	s.persistLogged(ctx, b, "save_expenses", tripID, func(b persist.Backend) error {
		return b.SaveExpenses(ctx, trip)
	})
	return nil
}

func expenseIDOf(e domain.Expense) string { return e.ID }
