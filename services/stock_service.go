package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/yeremiapane/autoservice-app/models"
	"github.com/yeremiapane/autoservice-app/store"
	"github.com/yeremiapane/autoservice-app/utils"
)

type StockItemInput struct {
	Item         string  `json:"item" binding:"required"`
	Serial       string  `json:"serial" binding:"required"`
	BuyPrice     float64 `json:"buy_price" binding:"gte=0"`
	SellPrice    float64 `json:"sell_price" binding:"gte=0"`
	Quantity     int     `json:"quantity" binding:"gte=0"`
	IsOil        bool    `json:"is_oil"`
	Description  string  `json:"description"`
	MinimumStock *int    `json:"minimum_stock" binding:"omitempty,gte=0"`
}

type StockFilter struct {
	Search string
	IsOil  *bool
}

// StockWarning reports a consumed part whose deduction was skipped.
type StockWarning struct {
	StockItemID uint   `json:"stock_item_id"`
	Item        string `json:"item"`
	Requested   int    `json:"requested"`
	OnHand      int    `json:"on_hand"`
	Message     string `json:"message"`
}

type StockService struct {
	store          store.Store
	defaultMinimum int
}

func NewStockService(s store.Store, defaultMinimum int) *StockService {
	if defaultMinimum <= 0 {
		defaultMinimum = models.DefaultMinimumStock
	}
	return &StockService{store: s, defaultMinimum: defaultMinimum}
}

func (s *StockService) List(ctx context.Context, filter StockFilter) ([]models.StockItem, error) {
	var opts []store.Option
	if filter.Search != "" {
		like := "%" + filter.Search + "%"
		opts = append(opts, store.Where("item LIKE ? OR serial LIKE ?", like, like))
	}
	if filter.IsOil != nil {
		opts = append(opts, store.Where("is_oil = ?", *filter.IsOil))
	}
	return s.store.StockItems().List(ctx, opts...)
}

func (s *StockService) Get(ctx context.Context, id uint) (*models.StockItem, error) {
	item, err := s.store.StockItems().Get(ctx, id)
	if err != nil {
		return nil, lookupError("stock item", err)
	}
	return item, nil
}

func (s *StockService) Create(ctx context.Context, in StockItemInput) (*models.StockItem, error) {
	if err := s.ensureSerialFree(ctx, in.Serial, 0); err != nil {
		return nil, err
	}
	item := &models.StockItem{}
	s.apply(item, in)
	if err := s.store.StockItems().Create(ctx, item); err != nil {
		return nil, fmt.Errorf("create stock item: %w", err)
	}
	return item, nil
}

// Update replaces the item's fields. Quantity changes made here are recorded as adjustments.
func (s *StockService) Update(ctx context.Context, id uint, in StockItemInput) (*models.StockItem, error) {
	var item *models.StockItem
	err := s.store.Transaction(ctx, func(tx store.Store) error {
		var err error
		item, err = tx.StockItems().Get(ctx, id)
		if err != nil {
			return lookupError("stock item", err)
		}
		if err := s.ensureSerialFreeIn(ctx, tx, in.Serial, id); err != nil {
			return err
		}
		before := item.Quantity
		s.apply(item, in)
		if err := tx.StockItems().Update(ctx, item); err != nil {
			return fmt.Errorf("update stock item: %w", err)
		}
		if before != item.Quantity {
			return recordMovement(ctx, tx, item.ID, models.MovementAdjustment, item.Quantity-before, before, item.Quantity, nil, "edited")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return item, nil
}

func (s *StockService) Delete(ctx context.Context, id uint) error {
	return s.store.Transaction(ctx, func(tx store.Store) error {
		if err := tx.StockItems().Delete(ctx, id); err != nil {
			return lookupError("stock item", err)
		}
		_, err := tx.StockMovements().DeleteWhere(ctx, store.Where("stock_item_id = ?", id))
		return err
	})
}

// Adjust adds delta (negative to remove) to the on-hand quantity.
func (s *StockService) Adjust(ctx context.Context, id uint, delta int, note string) (*models.StockItem, error) {
	if delta == 0 {
		return nil, validationError("adjustment must not be zero")
	}
	var item *models.StockItem
	err := s.store.Transaction(ctx, func(tx store.Store) error {
		var err error
		item, err = tx.StockItems().Get(ctx, id)
		if err != nil {
			return lookupError("stock item", err)
		}
		before := item.Quantity
		if before+delta < 0 {
			return validationError("adjustment would leave %s with negative quantity", item.Item)
		}
		item.Quantity = before + delta
		if err := tx.StockItems().Update(ctx, item); err != nil {
			return fmt.Errorf("adjust stock item: %w", err)
		}
		return recordMovement(ctx, tx, item.ID, models.MovementAdjustment, delta, before, item.Quantity, nil, note)
	})
	if err != nil {
		return nil, err
	}
	return item, nil
}

// Deduct consumes parts for a work order on a best effort basis. A line whose
// requested quantity exceeds what is on hand is skipped and reported as a
// warning; quantities never go below zero.
func (s *StockService) Deduct(ctx context.Context, tx store.Store, workOrderID uint, parts []models.UsedPart) ([]StockWarning, error) {
	warnings := make([]StockWarning, 0)
	for _, part := range parts {
		item, err := tx.StockItems().Get(ctx, part.PartID)
		if err != nil {
			return nil, lookupError("stock item", err)
		}

		woID := workOrderID
		if item.Quantity < part.Quantity {
			utils.InfoLogger.WithFields(logrus.Fields{
				"stock_item_id": item.ID,
				"item":          item.Item,
				"requested":     part.Quantity,
				"on_hand":       item.Quantity,
				"work_order_id": workOrderID,
			}).Warn("Insufficient stock, deduction skipped")

			warnings = append(warnings, StockWarning{
				StockItemID: item.ID,
				Item:        item.Item,
				Requested:   part.Quantity,
				OnHand:      item.Quantity,
				Message:     fmt.Sprintf("insufficient stock for %s: requested %d, on hand %d", item.Item, part.Quantity, item.Quantity),
			})
			if err := recordMovement(ctx, tx, item.ID, models.MovementSkipped, part.Quantity, item.Quantity, item.Quantity, &woID, "insufficient stock"); err != nil {
				return nil, err
			}
			continue
		}

		before := item.Quantity
		item.Quantity -= part.Quantity
		if err := tx.StockItems().Update(ctx, item); err != nil {
			return nil, fmt.Errorf("deduct stock item %d: %w", item.ID, err)
		}
		if err := recordMovement(ctx, tx, item.ID, models.MovementDeduction, -part.Quantity, before, item.Quantity, &woID, ""); err != nil {
			return nil, err
		}
	}
	return warnings, nil
}

// Restore returns the parts deducted for a work order to stock. Items deleted
// since are skipped.
func (s *StockService) Restore(ctx context.Context, tx store.Store, workOrderID uint) error {
	deductions, err := tx.StockMovements().List(ctx,
		store.Where("work_order_id = ? AND kind = ?", workOrderID, models.MovementDeduction))
	if err != nil {
		return err
	}
	woID := workOrderID
	for _, m := range deductions {
		item, err := tx.StockItems().Get(ctx, m.StockItemID)
		if errors.Is(err, store.ErrNotFound) {
			continue
		}
		if err != nil {
			return fmt.Errorf("restore stock item %d: %w", m.StockItemID, err)
		}
		before := item.Quantity
		item.Quantity -= m.Quantity
		if err := tx.StockItems().Update(ctx, item); err != nil {
			return fmt.Errorf("restore stock item %d: %w", item.ID, err)
		}
		if err := recordMovement(ctx, tx, item.ID, models.MovementReturn, -m.Quantity, before, item.Quantity, &woID, "tech report deleted"); err != nil {
			return err
		}
	}
	return nil
}

func (s *StockService) ListLowStock(ctx context.Context) ([]models.StockItem, error) {
	return s.store.StockItems().List(ctx, store.Where("quantity > 0 AND quantity < minimum_stock"), store.OrderBy("quantity ASC, id ASC"))
}

func (s *StockService) ListOutOfStock(ctx context.Context) ([]models.StockItem, error) {
	return s.store.StockItems().List(ctx, store.Where("quantity = 0"))
}

func (s *StockService) ListMovements(ctx context.Context, itemID uint) ([]models.StockMovement, error) {
	if _, err := s.Get(ctx, itemID); err != nil {
		return nil, err
	}
	return s.store.StockMovements().List(ctx, store.Where("stock_item_id = ?", itemID), store.OrderBy("id DESC"))
}

func (s *StockService) apply(item *models.StockItem, in StockItemInput) {
	item.Item = in.Item
	item.Serial = in.Serial
	item.BuyPrice = in.BuyPrice
	item.SellPrice = in.SellPrice
	item.Quantity = in.Quantity
	item.IsOil = in.IsOil
	item.Description = in.Description
	if in.MinimumStock != nil {
		item.MinimumStock = *in.MinimumStock
	} else if item.ID == 0 {
		item.MinimumStock = s.defaultMinimum
	}
}

func (s *StockService) ensureSerialFree(ctx context.Context, serial string, exceptID uint) error {
	return s.ensureSerialFreeIn(ctx, s.store, serial, exceptID)
}

func (s *StockService) ensureSerialFreeIn(ctx context.Context, st store.Store, serial string, exceptID uint) error {
	n, err := st.StockItems().Count(ctx, store.Where("serial = ? AND id <> ?", serial, exceptID))
	if err != nil {
		return err
	}
	if n > 0 {
		return conflictError("a stock item with serial %s already exists", serial)
	}
	return nil
}

func recordMovement(ctx context.Context, tx store.Store, itemID uint, kind string, qty, before, after int, workOrderID *uint, note string) error {
	m := &models.StockMovement{
		StockItemID:    itemID,
		Kind:           kind,
		Quantity:       qty,
		QuantityBefore: before,
		QuantityAfter:  after,
		WorkOrderID:    workOrderID,
		Note:           note,
	}
	if err := tx.StockMovements().Create(ctx, m); err != nil {
		return fmt.Errorf("record stock movement: %w", err)
	}
	return nil
}
