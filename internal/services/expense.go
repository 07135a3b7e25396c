package services

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"couple-journal-backend/internal/models"
	"couple-journal-backend/internal/repository"

	"github.com/google/uuid"
)

const defaultExpenseCategory = "other"

// ExpenseService handles shared spending
type ExpenseService struct {
	expenses repository.ExpenseRepository
	guard    CoupleGuard
	notifier Notifier
	loc      *time.Location
	now      func() time.Time
}

// NewExpenseService creates a new expense service
func NewExpenseService(expenses repository.ExpenseRepository, guard CoupleGuard, notifier Notifier, loc *time.Location) *ExpenseService {
	return &ExpenseService{
		expenses: expenses,
		guard:    guard,
		notifier: orNop(notifier),
		loc:      loc,
		now:      time.Now,
	}
}

// ExpenseInput carries expense fields; nil fields are left unchanged on update.
type ExpenseInput struct {
	ID          string   `json:"id,omitempty"`
	Title       *string  `json:"title"`
	Amount      *float64 `json:"amount"`
	Category    *string  `json:"category"`
	Description *string  `json:"description"`
	PaidBy      *string  `json:"paidBy"`
	Date        *string  `json:"date"`
}

// ExpenseSummary totals a couple's spending.
type ExpenseSummary struct {
	Total      float64            `json:"total"`
	Count      int                `json:"count"`
	ByPayer    map[string]float64 `json:"byPayer"`
	ByCategory map[string]float64 `json:"byCategory"`
}

// List returns the couple's expenses newest first.
func (s *ExpenseService) List(ctx context.Context, userID string) ([]*models.Expense, error) {
	couple, err := s.guard.Resolve(ctx, userID)
	if err != nil {
		return nil, err
	}
	if couple == nil {
		return []*models.Expense{}, nil
	}
	return s.expenses.ListByCouple(ctx, couple.ID)
}

// Summary totals the couple's expenses by payer and by category.
func (s *ExpenseService) Summary(ctx context.Context, userID string) (*ExpenseSummary, error) {
	expenses, err := s.List(ctx, userID)
	if err != nil {
		return nil, err
	}
	summary := &ExpenseSummary{
		ByPayer:    map[string]float64{},
		ByCategory: map[string]float64{},
	}
	for _, e := range expenses {
		summary.Total += e.Amount
		summary.Count++
		summary.ByPayer[e.PaidBy] += e.Amount
		summary.ByCategory[e.Category] += e.Amount
	}
	return summary, nil
}

// Create records a new expense. PaidBy defaults to the caller and must be a
// member of the couple.
func (s *ExpenseService) Create(ctx context.Context, userID string, in ExpenseInput) (*models.Expense, error) {
	if trimmed(in.Title) == "" || in.Amount == nil {
		return nil, validationError("Tiêu đề và số tiền là bắt buộc")
	}
	if err := validateAmount(*in.Amount); err != nil {
		return nil, err
	}
	couple, err := s.guard.Require(ctx, userID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	expense := &models.Expense{
		ID:          uuid.New().String(),
		CoupleID:    couple.ID,
		PaidBy:      userID,
		Title:       trimmed(in.Title),
		Amount:      *in.Amount,
		Category:    defaultExpenseCategory,
		Description: trimmed(in.Description),
		Date:        now,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if c := trimmed(in.Category); c != "" {
		expense.Category = c
	}
	if p := trimmed(in.PaidBy); p != "" {
		if !couple.IsMember(p) {
			return nil, validationError("Người chi trả phải là thành viên của cặp đôi")
		}
		expense.PaidBy = p
	}
	if trimmed(in.Date) != "" {
		if expense.Date, err = parseDate(*in.Date, s.loc); err != nil {
			return nil, err
		}
	}

	if err := s.expenses.Create(ctx, expense); err != nil {
		return nil, fmt.Errorf("failed to create expense: %w", err)
	}

	notifyPartner(ctx, s.notifier, couple, userID, Notification{
		Type:       NotifyResourceCreated,
		Resource:   "expenses",
		ResourceID: expense.ID,
	})
	return expense, nil
}

// Update applies the supplied fields to an expense.
func (s *ExpenseService) Update(ctx context.Context, userID, id string, in ExpenseInput) (*models.Expense, error) {
	expense, couple, err := loadOwned(ctx, s.guard, userID, id, "Expense", s.expenses.GetByID,
		func(e *models.Expense) string { return e.CoupleID })
	if err != nil {
		return nil, err
	}

	if in.Title != nil {
		if strings.TrimSpace(*in.Title) == "" {
			return nil, validationError("Tiêu đề là bắt buộc")
		}
		expense.Title = strings.TrimSpace(*in.Title)
	}
	if in.Amount != nil {
		if err := validateAmount(*in.Amount); err != nil {
			return nil, err
		}
		expense.Amount = *in.Amount
	}
	if in.Category != nil && strings.TrimSpace(*in.Category) != "" {
		expense.Category = strings.TrimSpace(*in.Category)
	}
	if in.Description != nil {
		expense.Description = strings.TrimSpace(*in.Description)
	}
	if in.PaidBy != nil {
		if !couple.IsMember(strings.TrimSpace(*in.PaidBy)) {
			return nil, validationError("Người chi trả phải là thành viên của cặp đôi")
		}
		expense.PaidBy = strings.TrimSpace(*in.PaidBy)
	}
	if trimmed(in.Date) != "" {
		if expense.Date, err = parseDate(*in.Date, s.loc); err != nil {
			return nil, err
		}
	}
	expense.UpdatedAt = s.now()

	if err := s.expenses.Update(ctx, expense); err != nil {
		return nil, fmt.Errorf("failed to update expense: %w", err)
	}

	notifyPartner(ctx, s.notifier, couple, userID, Notification{
		Type:       NotifyResourceUpdated,
		Resource:   "expenses",
		ResourceID: expense.ID,
	})
	return expense, nil
}

// Delete removes an expense.
func (s *ExpenseService) Delete(ctx context.Context, userID, id string) error {
	expense, couple, err := loadOwned(ctx, s.guard, userID, id, "Expense", s.expenses.GetByID,
		func(e *models.Expense) string { return e.CoupleID })
	if err != nil {
		return err
	}
	if err := s.expenses.Delete(ctx, expense.ID); err != nil {
		return fmt.Errorf("failed to delete expense: %w", err)
	}

	notifyPartner(ctx, s.notifier, couple, userID, Notification{
		Type:       NotifyResourceDeleted,
		Resource:   "expenses",
		ResourceID: expense.ID,
	})
	return nil
}

func validateAmount(amount float64) error {
	if amount <= 0 || math.IsNaN(amount) || math.IsInf(amount, 0) {
		return validationError("Số tiền phải lớn hơn 0")
	}
	return nil
}
