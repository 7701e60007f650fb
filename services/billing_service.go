package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/yeremiapane/autoservice-app/models"
	"github.com/yeremiapane/autoservice-app/store"
	"github.com/yeremiapane/autoservice-app/utils"
)

// BillingOverrides are the figures the biller enters by hand.
type BillingOverrides struct {
	LaborCost     *float64 `json:"labor_cost" binding:"omitempty,gte=0"`
	OilChangeCost float64  `json:"oil_change_cost" binding:"gte=0"`
}

type BillingFilter struct {
	Paid *bool
}

type BillingService struct {
	store      store.Store
	calculator BillingCalculator
	now        func() time.Time
}

func NewBillingService(s store.Store, calculator BillingCalculator) *BillingService {
	return &BillingService{store: s, calculator: calculator, now: time.Now}
}

// Preview computes the invoice for a work order without saving anything.
func (s *BillingService) Preview(ctx context.Context, workOrderID uint, o BillingOverrides) (*BillingBreakdown, error) {
	wo, err := s.store.WorkOrders().Get(ctx, workOrderID)
	if err != nil {
		return nil, lookupError("work order", err)
	}
	breakdown, err := s.compute(ctx, s.store, wo, o)
	if err != nil {
		return nil, err
	}
	return &breakdown, nil
}

// Generate persists the billing for a work order and makes sure the order is completed.
func (s *BillingService) Generate(ctx context.Context, workOrderID uint, o BillingOverrides) (*models.Billing, error) {
	if err := validateOverrides(o); err != nil {
		return nil, err
	}

	var billing *models.Billing
	err := s.store.Transaction(ctx, func(tx store.Store) error {
		wo, err := tx.WorkOrders().Get(ctx, workOrderID)
		if err != nil {
			return lookupError("work order", err)
		}
		n, err := tx.Billings().Count(ctx, store.Where("work_order_id = ?", wo.ID))
		if err != nil {
			return err
		}
		if n > 0 {
			return conflictError("work order %d is already billed", wo.ID)
		}

		breakdown, err := s.compute(ctx, tx, wo, o)
		if err != nil {
			return err
		}

		now := s.now()
		billing = &models.Billing{
			WorkOrderID:   wo.ID,
			InvoiceNumber: models.InvoiceNumberFor(now, wo.ID),
		}
		applyBreakdown(billing, breakdown)
		if err := tx.Billings().Create(ctx, billing); err != nil {
			return fmt.Errorf("create billing: %w", err)
		}

		if wo.Status != models.StatusCompleted {
			wo.Status = models.StatusCompleted
			wo.CompletedAt = &now
			if err := tx.WorkOrders().Update(ctx, wo); err != nil {
				return fmt.Errorf("complete work order: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	utils.InfoLogger.WithFields(logrus.Fields{
		"billing_id":    billing.ID,
		"work_order_id": workOrderID,
		"invoice":       billing.InvoiceNumber,
		"total":         utils.FormatMoney(billing.Total),
	}).Info("Billing generated")
	return billing, nil
}

// Update recomputes an unpaid billing from the current report and new overrides.
func (s *BillingService) Update(ctx context.Context, id uint, o BillingOverrides) (*models.Billing, error) {
	if err := validateOverrides(o); err != nil {
		return nil, err
	}

	var billing *models.Billing
	err := s.store.Transaction(ctx, func(tx store.Store) error {
		var err error
		billing, err = tx.Billings().Get(ctx, id)
		if err != nil {
			return lookupError("billing", err)
		}
		if billing.Paid {
			return conflictError("billing %s is already paid", billing.InvoiceNumber)
		}
		wo, err := tx.WorkOrders().Get(ctx, billing.WorkOrderID)
		if err != nil {
			return lookupError("work order", err)
		}
		breakdown, err := s.compute(ctx, tx, wo, o)
		if err != nil {
			return err
		}
		applyBreakdown(billing, breakdown)
		return tx.Billings().Update(ctx, billing)
	})
	if err != nil {
		return nil, err
	}
	return billing, nil
}

// MarkPaid is idempotent; paying twice keeps the first paid_at.
func (s *BillingService) MarkPaid(ctx context.Context, id uint) (*models.Billing, error) {
	billing, err := s.store.Billings().Get(ctx, id)
	if err != nil {
		return nil, lookupError("billing", err)
	}
	if billing.Paid {
		return billing, nil
	}
	now := s.now()
	billing.Paid = true
	billing.PaidAt = &now
	if err := s.store.Billings().Update(ctx, billing); err != nil {
		return nil, fmt.Errorf("mark billing paid: %w", err)
	}
	return billing, nil
}

func (s *BillingService) List(ctx context.Context, f BillingFilter) ([]models.Billing, error) {
	opts := []store.Option{store.Preload("WorkOrder"), store.OrderBy("created_at DESC, id DESC")}
	if f.Paid != nil {
		opts = append(opts, store.Where("paid = ?", *f.Paid))
	}
	return s.store.Billings().List(ctx, opts...)
}

func (s *BillingService) Get(ctx context.Context, id uint) (*models.Billing, error) {
	billing, err := s.store.Billings().Get(ctx, id, store.Preload("WorkOrder"))
	if err != nil {
		return nil, lookupError("billing", err)
	}
	return billing, nil
}

func (s *BillingService) GetByWorkOrder(ctx context.Context, workOrderID uint) (*models.Billing, error) {
	billing, err := s.store.Billings().First(ctx, store.Where("work_order_id = ?", workOrderID))
	if err != nil {
		return nil, lookupError("billing", err)
	}
	return billing, nil
}

func (s *BillingService) Delete(ctx context.Context, id uint) error {
	if err := s.store.Billings().Delete(ctx, id); err != nil {
		return lookupError("billing", err)
	}
	return nil
}

func (s *BillingService) compute(ctx context.Context, st store.Store, wo *models.WorkOrder, o BillingOverrides) (BillingBreakdown, error) {
	report, err := st.TechReports().First(ctx, store.Where("work_order_id = ?", wo.ID))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return BillingBreakdown{}, validationError("work order %d has no tech report yet", wo.ID)
		}
		return BillingBreakdown{}, err
	}

	in := BillingInput{
		WashType:      report.WashType,
		TimeSpent:     report.TimeSpent,
		LaborOverride: o.LaborCost,
		OilChangeCost: o.OilChangeCost,
		Deposit:       wo.Deposit,
	}
	// lines whose part or service has since been deleted are left off the bill
	for _, part := range report.UsedParts {
		item, err := st.StockItems().Get(ctx, part.PartID)
		if errors.Is(err, store.ErrNotFound) {
			logMissingBillingLine(wo.ID, "stock_item_id", part.PartID)
			continue
		}
		if err != nil {
			return BillingBreakdown{}, fmt.Errorf("load stock item %d: %w", part.PartID, err)
		}
		in.Parts = append(in.Parts, PartLine{SellPrice: item.SellPrice, Quantity: part.Quantity})
	}
	for _, serviceID := range report.Services {
		svc, err := st.Services().Get(ctx, serviceID)
		if errors.Is(err, store.ErrNotFound) {
			logMissingBillingLine(wo.ID, "service_id", serviceID)
			continue
		}
		if err != nil {
			return BillingBreakdown{}, fmt.Errorf("load service %d: %w", serviceID, err)
		}
		in.ServicePrices = append(in.ServicePrices, svc.Price)
	}
	return s.calculator.Compute(in), nil
}

func logMissingBillingLine(workOrderID uint, key string, id uint) {
	utils.InfoLogger.WithFields(logrus.Fields{
		"work_order_id": workOrderID,
		key:             id,
	}).Warn("Billing line skipped, referenced record no longer exists")
}

func validateOverrides(o BillingOverrides) error {
	if o.LaborCost != nil && *o.LaborCost < 0 {
		return validationError("labor cost must not be negative")
	}
	if o.OilChangeCost < 0 {
		return validationError("oil change cost must not be negative")
	}
	return nil
}

func applyBreakdown(b *models.Billing, bd BillingBreakdown) {
	b.PartsCost = bd.PartsCost
	b.ServicesCost = bd.ServicesCost
	b.WashCost = bd.WashCost
	b.LaborCost = bd.LaborCost
	b.OilChangeCost = bd.OilChangeCost
	b.Subtotal = bd.Subtotal
	b.Tax = bd.Tax
	b.Deposit = bd.Deposit
	b.Total = bd.Total
}
