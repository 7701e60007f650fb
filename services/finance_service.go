package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/yeremiapane/autoservice-app/models"
	"github.com/yeremiapane/autoservice-app/store"
	"github.com/yeremiapane/autoservice-app/utils"
)

type ExpenseInput struct {
	Title     string   `json:"title" binding:"required"`
	Category  string   `json:"category"`
	Quantity  float64  `json:"quantity" binding:"gte=0"`
	UnitPrice float64  `json:"unit_price" binding:"gte=0"`
	Total     *float64 `json:"total" binding:"omitempty,gte=0"`
	SpentAt   string   `json:"spent_at"`
	Notes     string   `json:"notes"`
}

type DebtInput struct {
	Creditor    string  `json:"creditor" binding:"required"`
	Description string  `json:"description"`
	Value       float64 `json:"value" binding:"gte=0"`
	DueDate     string  `json:"due_date"`
}

type DebtPaymentInput struct {
	Amount float64 `json:"amount" binding:"required,gt=0"`
	Date   string  `json:"date"`
	Note   string  `json:"note"`
}

// FinanceService keeps the shop's expenses and outstanding debts.
type FinanceService struct {
	store store.Store
	now   func() time.Time
}

func NewFinanceService(s store.Store) *FinanceService {
	return &FinanceService{store: s, now: time.Now}
}

func (s *FinanceService) ListExpenses(ctx context.Context, category string) ([]models.Expense, error) {
	opts := []store.Option{store.OrderBy("spent_at DESC, id DESC")}
	if category != "" {
		opts = append(opts, store.Where("category = ?", category))
	}
	return s.store.Expenses().List(ctx, opts...)
}

func (s *FinanceService) GetExpense(ctx context.Context, id uint) (*models.Expense, error) {
	e, err := s.store.Expenses().Get(ctx, id)
	if err != nil {
		return nil, lookupError("expense", err)
	}
	return e, nil
}

func (s *FinanceService) CreateExpense(ctx context.Context, in ExpenseInput) (*models.Expense, error) {
	e := &models.Expense{}
	if err := s.applyExpense(e, in); err != nil {
		return nil, err
	}
	if err := s.store.Expenses().Create(ctx, e); err != nil {
		return nil, fmt.Errorf("create expense: %w", err)
	}
	return e, nil
}

func (s *FinanceService) UpdateExpense(ctx context.Context, id uint, in ExpenseInput) (*models.Expense, error) {
	e, err := s.store.Expenses().Get(ctx, id)
	if err != nil {
		return nil, lookupError("expense", err)
	}
	if err := s.applyExpense(e, in); err != nil {
		return nil, err
	}
	if err := s.store.Expenses().Update(ctx, e); err != nil {
		return nil, fmt.Errorf("update expense: %w", err)
	}
	return e, nil
}

func (s *FinanceService) DeleteExpense(ctx context.Context, id uint) error {
	if err := s.store.Expenses().Delete(ctx, id); err != nil {
		return lookupError("expense", err)
	}
	return nil
}

func (s *FinanceService) ListDebts(ctx context.Context) ([]models.Debt, error) {
	return s.store.Debts().List(ctx, store.OrderBy("due_date ASC, id ASC"))
}

func (s *FinanceService) GetDebt(ctx context.Context, id uint) (*models.Debt, error) {
	d, err := s.store.Debts().Get(ctx, id)
	if err != nil {
		return nil, lookupError("debt", err)
	}
	return d, nil
}

func (s *FinanceService) CreateDebt(ctx context.Context, in DebtInput) (*models.Debt, error) {
	d := &models.Debt{Payments: []models.DebtPayment{}}
	if err := applyDebt(d, in); err != nil {
		return nil, err
	}
	if err := s.store.Debts().Create(ctx, d); err != nil {
		return nil, fmt.Errorf("create debt: %w", err)
	}
	d.AmountPaid, d.Balance = d.Paid(), d.Remaining()
	return d, nil
}

func (s *FinanceService) UpdateDebt(ctx context.Context, id uint, in DebtInput) (*models.Debt, error) {
	d, err := s.store.Debts().Get(ctx, id)
	if err != nil {
		return nil, lookupError("debt", err)
	}
	if err := applyDebt(d, in); err != nil {
		return nil, err
	}
	if err := s.store.Debts().Update(ctx, d); err != nil {
		return nil, fmt.Errorf("update debt: %w", err)
	}
	d.AmountPaid, d.Balance = d.Paid(), d.Remaining()
	return d, nil
}

func (s *FinanceService) DeleteDebt(ctx context.Context, id uint) error {
	if err := s.store.Debts().Delete(ctx, id); err != nil {
		return lookupError("debt", err)
	}
	return nil
}

// AddDebtPayment appends a repayment. Overpaying is allowed; the remaining balance stays at zero.
func (s *FinanceService) AddDebtPayment(ctx context.Context, debtID uint, in DebtPaymentInput) (*models.Debt, error) {
	if in.Amount <= 0 {
		return nil, validationError("payment amount must be positive")
	}
	date := s.now()
	if in.Date != "" {
		parsed, err := utils.ParseDate(in.Date)
		if err != nil {
			return nil, validationError("invalid payment date %q", in.Date)
		}
		date = *parsed
	}

	var debt *models.Debt
	err := s.store.Transaction(ctx, func(tx store.Store) error {
		var err error
		debt, err = tx.Debts().Get(ctx, debtID)
		if err != nil {
			return lookupError("debt", err)
		}
		debt.Payments = append(debt.Payments, models.DebtPayment{Amount: in.Amount, Date: date, Note: in.Note})
		return tx.Debts().Update(ctx, debt)
	})
	if err != nil {
		return nil, err
	}
	debt.AmountPaid, debt.Balance = debt.Paid(), debt.Remaining()
	return debt, nil
}

func (s *FinanceService) applyExpense(e *models.Expense, in ExpenseInput) error {
	if strings.TrimSpace(in.Title) == "" {
		return validationError("expense title is required")
	}
	if in.Quantity < 0 || in.UnitPrice < 0 {
		return validationError("quantity and unit price must not be negative")
	}
	quantity := in.Quantity
	if quantity == 0 {
		quantity = 1
	}

	spentAt := s.now()
	if in.SpentAt != "" {
		parsed, err := utils.ParseDate(in.SpentAt)
		if err != nil {
			return validationError("invalid spent_at %q", in.SpentAt)
		}
		spentAt = *parsed
	}

	e.Title = strings.TrimSpace(in.Title)
	e.Category = in.Category
	e.Quantity = quantity
	e.UnitPrice = in.UnitPrice
	e.SpentAt = spentAt
	e.Notes = in.Notes
	if in.Total != nil {
		e.Total = *in.Total
	} else {
		e.Total = decimal.NewFromFloat(quantity).Mul(decimal.NewFromFloat(in.UnitPrice)).InexactFloat64()
	}
	return nil
}

func applyDebt(d *models.Debt, in DebtInput) error {
	if strings.TrimSpace(in.Creditor) == "" {
		return validationError("creditor is required")
	}
	if in.Value < 0 {
		return validationError("debt value must not be negative")
	}
	d.Creditor = strings.TrimSpace(in.Creditor)
	d.Description = in.Description
	d.Value = in.Value
	d.DueDate = nil
	if in.DueDate != "" {
		due, err := utils.ParseDate(in.DueDate)
		if err != nil {
			return validationError("invalid due_date %q", in.DueDate)
		}
		d.DueDate = due
	}
	return nil
}
