package services

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/yeremiapane/autoservice-app/models"
	"github.com/yeremiapane/autoservice-app/store"
	"github.com/yeremiapane/autoservice-app/utils"
)

type WorkOrderInput struct {
	ClientID  uint     `json:"client_id" binding:"required"`
	CarID     uint     `json:"car_id" binding:"required"`
	Complaint string   `json:"complaint"`
	Deposit   float64  `json:"deposit" binding:"gte=0"`
	Services  []string `json:"services"`
	OilChange string   `json:"oil_change"`
}

// WorkOrderUpdateInput edits descriptive fields only. Status moves through the lifecycle operations.
type WorkOrderUpdateInput struct {
	Complaint     *string   `json:"complaint"`
	Deposit       *float64  `json:"deposit" binding:"omitempty,gte=0"`
	Services      *[]string `json:"services"`
	OilChange     *string   `json:"oil_change"`
	OilConfirmed  *bool     `json:"oil_confirmed"`
	WashConfirmed *bool     `json:"wash_confirmed"`
}

type WorkOrderFilter struct {
	Status       models.WorkOrderStatus
	TechnicianID *uint
	ClientID     *uint
	CarID        *uint
}

type ReportInput struct {
	WorkDescription string            `json:"work_description"`
	TimeSpent       float64           `json:"time_spent" binding:"gte=0"`
	UsedParts       []models.UsedPart `json:"used_parts"`
	Services        []uint            `json:"services"`
	WashType        int               `json:"wash_type" binding:"gte=0,lte=4"`
	Notes           string            `json:"notes"`
}

type RecordWorkResult struct {
	WorkOrder *models.WorkOrder  `json:"work_order"`
	Report    *models.TechReport `json:"tech_report"`
	Warnings  []StockWarning     `json:"warnings"`
}

// Actor identifies the authenticated caller of an operation.
type Actor struct {
	UserID uint
	Role   models.Role
}

// WorkOrderService drives the work order lifecycle:
//
//	waiting -> assigned -> in_progress -> completed
//
// with in_progress <-> pending when a technician switches between orders.
// A technician has at most one in_progress order; completed is terminal.
type WorkOrderService struct {
	store store.Store
	stock *StockService
	now   func() time.Time
}

func NewWorkOrderService(s store.Store, stock *StockService) *WorkOrderService {
	return &WorkOrderService{store: s, stock: stock, now: time.Now}
}

var workOrderDetail = []store.Option{
	store.Preload("Client"),
	store.Preload("Car"),
	store.Preload("Technician"),
	store.Preload("TechReport"),
	store.Preload("Billing"),
}

func (s *WorkOrderService) List(ctx context.Context, f WorkOrderFilter) ([]models.WorkOrder, error) {
	opts := append([]store.Option{}, workOrderDetail...)
	if f.Status != "" {
		if !models.IsValidStatus(f.Status) {
			return nil, validationError("unknown status %q", f.Status)
		}
		opts = append(opts, store.Where("status = ?", f.Status))
	}
	if f.TechnicianID != nil {
		opts = append(opts, store.Where("technician_id = ?", *f.TechnicianID))
	}
	if f.ClientID != nil {
		opts = append(opts, store.Where("client_id = ?", *f.ClientID))
	}
	if f.CarID != nil {
		opts = append(opts, store.Where("car_id = ?", *f.CarID))
	}
	opts = append(opts, store.OrderBy("created_at DESC, id DESC"))
	return s.store.WorkOrders().List(ctx, opts...)
}

func (s *WorkOrderService) Get(ctx context.Context, id uint) (*models.WorkOrder, error) {
	wo, err := s.store.WorkOrders().Get(ctx, id, workOrderDetail...)
	if err != nil {
		return nil, lookupError("work order", err)
	}
	return wo, nil
}

// Create opens a waiting order with no technician.
func (s *WorkOrderService) Create(ctx context.Context, in WorkOrderInput) (*models.WorkOrder, error) {
	return createWorkOrder(ctx, s.store, in)
}

func createWorkOrder(ctx context.Context, st store.Store, in WorkOrderInput) (*models.WorkOrder, error) {
	if in.Deposit < 0 {
		return nil, validationError("deposit must not be negative")
	}
	if _, err := st.Clients().Get(ctx, in.ClientID); err != nil {
		return nil, lookupError("client", err)
	}
	car, err := st.Cars().Get(ctx, in.CarID)
	if err != nil {
		return nil, lookupError("car", err)
	}
	if car.ClientID != in.ClientID {
		return nil, validationError("car %s does not belong to client %d", car.Plate, in.ClientID)
	}

	services := in.Services
	if services == nil {
		services = []string{}
	}
	wo := &models.WorkOrder{
		ClientID:  in.ClientID,
		CarID:     in.CarID,
		Complaint: in.Complaint,
		Deposit:   in.Deposit,
		Services:  services,
		OilChange: in.OilChange,
		Status:    models.StatusWaiting,
	}
	if err := st.WorkOrders().Create(ctx, wo); err != nil {
		return nil, fmt.Errorf("create work order: %w", err)
	}
	return wo, nil
}

func (s *WorkOrderService) Update(ctx context.Context, id uint, in WorkOrderUpdateInput) (*models.WorkOrder, error) {
	wo, err := s.store.WorkOrders().Get(ctx, id)
	if err != nil {
		return nil, lookupError("work order", err)
	}
	if in.Complaint != nil {
		wo.Complaint = *in.Complaint
	}
	if in.Deposit != nil {
		if *in.Deposit < 0 {
			return nil, validationError("deposit must not be negative")
		}
		wo.Deposit = *in.Deposit
	}
	if in.Services != nil {
		wo.Services = *in.Services
	}
	if in.OilChange != nil {
		wo.OilChange = *in.OilChange
	}
	if in.OilConfirmed != nil {
		wo.OilConfirmed = *in.OilConfirmed
	}
	if in.WashConfirmed != nil {
		wo.WashConfirmed = *in.WashConfirmed
	}
	if err := s.store.WorkOrders().Update(ctx, wo); err != nil {
		return nil, fmt.Errorf("update work order: %w", err)
	}
	return s.Get(ctx, id)
}

func (s *WorkOrderService) Delete(ctx context.Context, id uint) error {
	return s.store.Transaction(ctx, func(tx store.Store) error {
		if _, err := tx.WorkOrders().Get(ctx, id); err != nil {
			return lookupError("work order", err)
		}
		return deleteWorkOrdersWhere(ctx, tx, store.Where("id = ?", id))
	})
}

// Assign hands a waiting, assigned or pending order to a technician.
func (s *WorkOrderService) Assign(ctx context.Context, id, technicianID uint) (*models.WorkOrder, error) {
	err := s.store.Transaction(ctx, func(tx store.Store) error {
		wo, err := tx.WorkOrders().Get(ctx, id)
		if err != nil {
			return lookupError("work order", err)
		}
		switch wo.Status {
		case models.StatusWaiting, models.StatusAssigned, models.StatusPending:
		default:
			return transitionError("cannot assign a work order that is %s", wo.Status)
		}
		if err := requireTechnician(ctx, tx, technicianID); err != nil {
			return err
		}

		wo.TechnicianID = &technicianID
		wo.Status = models.StatusAssigned
		return tx.WorkOrders().Update(ctx, wo)
	})
	if err != nil {
		return nil, err
	}
	return s.Get(ctx, id)
}

// Claim starts work on an order. A waiting order may be claimed by any
// technician; an assigned or pending one only by its own technician.
// Whatever else the technician had in progress is suspended to pending.
func (s *WorkOrderService) Claim(ctx context.Context, id, technicianID uint) (*models.WorkOrder, error) {
	err := s.store.Transaction(ctx, func(tx store.Store) error {
		wo, err := tx.WorkOrders().Get(ctx, id)
		if err != nil {
			return lookupError("work order", err)
		}
		if err := requireTechnician(ctx, tx, technicianID); err != nil {
			return err
		}

		switch wo.Status {
		case models.StatusWaiting:
		case models.StatusAssigned, models.StatusPending:
			if !wo.IsOwnedBy(technicianID) {
				return forbiddenError("work order %d is assigned to another technician", wo.ID)
			}
		case models.StatusInProgress:
			if wo.IsOwnedBy(technicianID) {
				return nil
			}
			return forbiddenError("work order %d is in progress with another technician", wo.ID)
		default:
			return transitionError("cannot start a work order that is %s", wo.Status)
		}
		return startWork(ctx, tx, wo, technicianID)
	})
	if err != nil {
		return nil, err
	}
	return s.Get(ctx, id)
}

// Resume puts a technician's pending order back in progress.
func (s *WorkOrderService) Resume(ctx context.Context, id, technicianID uint) (*models.WorkOrder, error) {
	err := s.store.Transaction(ctx, func(tx store.Store) error {
		wo, err := tx.WorkOrders().Get(ctx, id)
		if err != nil {
			return lookupError("work order", err)
		}
		if wo.Status != models.StatusPending {
			return transitionError("only pending work orders can be resumed, this one is %s", wo.Status)
		}
		if !wo.IsOwnedBy(technicianID) {
			return forbiddenError("work order %d belongs to another technician", wo.ID)
		}
		return startWork(ctx, tx, wo, technicianID)
	})
	if err != nil {
		return nil, err
	}
	return s.Get(ctx, id)
}

func startWork(ctx context.Context, tx store.Store, wo *models.WorkOrder, technicianID uint) error {
	active, err := tx.WorkOrders().List(ctx,
		store.Where("technician_id = ? AND status = ? AND id <> ?", technicianID, models.StatusInProgress, wo.ID))
	if err != nil {
		return err
	}
	for i := range active {
		active[i].Status = models.StatusPending
		if err := tx.WorkOrders().Update(ctx, &active[i]); err != nil {
			return fmt.Errorf("suspend work order %d: %w", active[i].ID, err)
		}
		utils.InfoLogger.WithFields(logrus.Fields{
			"work_order_id": active[i].ID,
			"technician_id": technicianID,
		}).Info("Work order suspended to pending")
	}

	wo.TechnicianID = &technicianID
	wo.Status = models.StatusInProgress
	return tx.WorkOrders().Update(ctx, wo)
}

// RecordWork files the technician's report, deducts consumed stock and
// completes the order. Only the assigned technician may record work, and an
// order carries at most one report.
func (s *WorkOrderService) RecordWork(ctx context.Context, id, technicianID uint, in ReportInput) (*RecordWorkResult, error) {
	result := &RecordWorkResult{}
	err := s.store.Transaction(ctx, func(tx store.Store) error {
		wo, err := tx.WorkOrders().Get(ctx, id)
		if err != nil {
			return lookupError("work order", err)
		}
		if !wo.IsOwnedBy(technicianID) {
			return forbiddenError("only the assigned technician may record work on this order")
		}
		if wo.Status == models.StatusWaiting {
			return transitionError("work order %d has not been started", wo.ID)
		}
		existing, err := tx.TechReports().Count(ctx, store.Where("work_order_id = ?", wo.ID))
		if err != nil {
			return err
		}
		if existing > 0 {
			return conflictError("work order %d is already completed", wo.ID)
		}

		items, err := validateReport(ctx, tx, in)
		if err != nil {
			return err
		}

		report := &models.TechReport{
			WorkOrderID:  wo.ID,
			TechnicianID: &technicianID,
		}
		applyReport(report, in)
		if err := tx.TechReports().Create(ctx, report); err != nil {
			return fmt.Errorf("create tech report: %w", err)
		}

		warnings, err := s.stock.Deduct(ctx, tx, wo.ID, in.UsedParts)
		if err != nil {
			return err
		}

		confirmFromReport(wo, in, items)
		if wo.CompletedAt == nil {
			now := s.now()
			wo.CompletedAt = &now
		}
		wo.Status = models.StatusCompleted
		if err := tx.WorkOrders().Update(ctx, wo); err != nil {
			return fmt.Errorf("complete work order: %w", err)
		}

		result.Report = report
		result.Warnings = warnings
		return nil
	})
	if err != nil {
		return nil, err
	}

	wo, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	result.WorkOrder = wo
	return result, nil
}

func (s *WorkOrderService) ListReports(ctx context.Context, technicianID *uint) ([]models.TechReport, error) {
	opts := []store.Option{store.Preload("Technician"), store.OrderBy("id DESC")}
	if technicianID != nil {
		opts = append(opts, store.Where("technician_id = ?", *technicianID))
	}
	return s.store.TechReports().List(ctx, opts...)
}

func (s *WorkOrderService) GetReport(ctx context.Context, id uint) (*models.TechReport, error) {
	report, err := s.store.TechReports().Get(ctx, id, store.Preload("Technician"))
	if err != nil {
		return nil, lookupError("tech report", err)
	}
	return report, nil
}

func (s *WorkOrderService) GetReportForWorkOrder(ctx context.Context, workOrderID uint) (*models.TechReport, error) {
	report, err := s.store.TechReports().First(ctx, store.Where("work_order_id = ?", workOrderID), store.Preload("Technician"))
	if err != nil {
		return nil, lookupError("tech report", err)
	}
	return report, nil
}

// EditReport updates a filed report. The order keeps its completed status and
// stock is not deducted again.
func (s *WorkOrderService) EditReport(ctx context.Context, reportID uint, actor Actor, in ReportInput) (*models.TechReport, error) {
	if !models.Can(actor.Role, models.ActionEditTechReport) {
		return nil, forbiddenError("role %s may not edit tech reports", actor.Role)
	}

	var report *models.TechReport
	err := s.store.Transaction(ctx, func(tx store.Store) error {
		var err error
		report, err = tx.TechReports().Get(ctx, reportID)
		if err != nil {
			return lookupError("tech report", err)
		}
		if actor.Role == models.RoleTechnician && (report.TechnicianID == nil || *report.TechnicianID != actor.UserID) {
			return forbiddenError("technicians may only edit their own reports")
		}
		items, err := validateReport(ctx, tx, in)
		if err != nil {
			return err
		}
		applyReport(report, in)
		if err := tx.TechReports().Update(ctx, report); err != nil {
			return fmt.Errorf("update tech report: %w", err)
		}
		wo, err := tx.WorkOrders().Get(ctx, report.WorkOrderID)
		if err != nil {
			return lookupError("work order", err)
		}
		confirmFromReport(wo, in, items)
		return tx.WorkOrders().Update(ctx, wo)
	})
	if err != nil {
		return nil, err
	}
	return report, nil
}

// DeleteReport removes a report that has not been billed yet and returns its
// deducted parts to stock. The work order stays completed; its technician may
// file a replacement report.
func (s *WorkOrderService) DeleteReport(ctx context.Context, reportID uint) error {
	return s.store.Transaction(ctx, func(tx store.Store) error {
		report, err := tx.TechReports().Get(ctx, reportID)
		if err != nil {
			return lookupError("tech report", err)
		}
		billed, err := tx.Billings().Count(ctx, store.Where("work_order_id = ?", report.WorkOrderID))
		if err != nil {
			return err
		}
		if billed > 0 {
			return conflictError("work order %d is billed, its tech report cannot be deleted", report.WorkOrderID)
		}
		if err := s.stock.Restore(ctx, tx, report.WorkOrderID); err != nil {
			return err
		}
		if err := tx.TechReports().Delete(ctx, report.ID); err != nil {
			return lookupError("tech report", err)
		}

		wo, err := tx.WorkOrders().Get(ctx, report.WorkOrderID)
		if err != nil {
			return lookupError("work order", err)
		}
		wo.OilConfirmed = false
		wo.WashConfirmed = false
		return tx.WorkOrders().Update(ctx, wo)
	})
}

// confirmFromReport derives the oil and wash flags from what the report consumed.
// A requested oil name is kept; otherwise the first oil part names it.
func confirmFromReport(wo *models.WorkOrder, in ReportInput, items map[uint]models.StockItem) {
	wo.OilConfirmed = false
	for _, part := range in.UsedParts {
		if item := items[part.PartID]; item.IsOil {
			wo.OilConfirmed = true
			if wo.OilChange == "" {
				wo.OilChange = item.Item
			}
			break
		}
	}
	wo.WashConfirmed = in.WashType > models.WashNone
}

func requireTechnician(ctx context.Context, tx store.Store, userID uint) error {
	user, err := tx.Users().Get(ctx, userID)
	if err != nil {
		return lookupError("technician", err)
	}
	if user.Role != models.RoleTechnician {
		return validationError("user %s is not a technician", user.Username)
	}
	if !user.IsActive {
		return validationError("technician %s is disabled", user.Username)
	}
	return nil
}

// validateReport checks referenced parts and services and returns the parts by id.
func validateReport(ctx context.Context, tx store.Store, in ReportInput) (map[uint]models.StockItem, error) {
	if in.TimeSpent < 0 {
		return nil, validationError("time spent must not be negative")
	}
	if in.WashType < models.WashNone || in.WashType > models.WashChemical {
		return nil, validationError("wash type must be between 0 and 4")
	}

	items := make(map[uint]models.StockItem, len(in.UsedParts))
	for _, part := range in.UsedParts {
		if part.Quantity <= 0 {
			return nil, validationError("quantity for part %d must be positive", part.PartID)
		}
		item, err := tx.StockItems().Get(ctx, part.PartID)
		if err != nil {
			return nil, lookupError(fmt.Sprintf("stock item %d", part.PartID), err)
		}
		items[item.ID] = *item
	}
	for _, serviceID := range in.Services {
		if _, err := tx.Services().Get(ctx, serviceID); err != nil {
			return nil, lookupError(fmt.Sprintf("service %d", serviceID), err)
		}
	}
	return items, nil
}

func applyReport(report *models.TechReport, in ReportInput) {
	parts := in.UsedParts
	if parts == nil {
		parts = []models.UsedPart{}
	}
	services := in.Services
	if services == nil {
		services = []uint{}
	}
	report.WorkDescription = in.WorkDescription
	report.TimeSpent = in.TimeSpent
	report.UsedParts = parts
	report.Services = services
	report.WashType = in.WashType
	report.Notes = in.Notes
}
