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

// DataDocument is the full backup format used by export and import.
type DataDocument struct {
	ExportedAt     time.Time              `json:"exported_at"`
	Users          []models.User          `json:"users,omitempty"`
	Clients        []models.Client        `json:"clients"`
	Cars           []models.Car           `json:"cars"`
	WorkOrders     []models.WorkOrder     `json:"work_orders"`
	TechReports    []models.TechReport    `json:"tech_reports"`
	StockItems     []models.StockItem     `json:"stock_items"`
	StockMovements []models.StockMovement `json:"stock_movements"`
	Services       []models.Service       `json:"services"`
	Billings       []models.Billing       `json:"billings"`
	Expenses       []models.Expense       `json:"expenses"`
	Debts          []models.Debt          `json:"debts"`
}

type ImportSummary struct {
	Records      int `json:"records"`
	UsersUpdated int `json:"users_updated"`
	UsersCreated int `json:"users_created"`
}

type DataService struct {
	store store.Store
	now   func() time.Time
}

func NewDataService(s store.Store) *DataService {
	return &DataService{store: s, now: time.Now}
}

func (s *DataService) Export(ctx context.Context) (*DataDocument, error) {
	doc := &DataDocument{ExportedAt: s.now()}
	var err error
	if doc.Users, err = s.store.Users().List(ctx); err != nil {
		return nil, err
	}
	if doc.Clients, err = s.store.Clients().List(ctx); err != nil {
		return nil, err
	}
	if doc.Cars, err = s.store.Cars().List(ctx); err != nil {
		return nil, err
	}
	if doc.WorkOrders, err = s.store.WorkOrders().List(ctx); err != nil {
		return nil, err
	}
	if doc.TechReports, err = s.store.TechReports().List(ctx); err != nil {
		return nil, err
	}
	if doc.StockItems, err = s.store.StockItems().List(ctx); err != nil {
		return nil, err
	}
	if doc.StockMovements, err = s.store.StockMovements().List(ctx); err != nil {
		return nil, err
	}
	if doc.Services, err = s.store.Services().List(ctx); err != nil {
		return nil, err
	}
	if doc.Billings, err = s.store.Billings().List(ctx); err != nil {
		return nil, err
	}
	if doc.Expenses, err = s.store.Expenses().List(ctx); err != nil {
		return nil, err
	}
	if doc.Debts, err = s.store.Debts().List(ctx); err != nil {
		return nil, err
	}
	return doc, nil
}

// Import replaces every business collection with the document's contents.
// Passwords are never exported, so users in the document are matched by
// username: existing accounts get the profile and role, unknown usernames
// are created disabled until an admin sets a password.
func (s *DataService) Import(ctx context.Context, doc DataDocument) (*ImportSummary, error) {
	summary := &ImportSummary{}
	err := s.store.Transaction(ctx, func(tx store.Store) error {
		if err := clearBusinessData(ctx, tx); err != nil {
			return err
		}

		steps := []func() (int, error){
			func() (int, error) { return insertAll(ctx, tx.Clients(), doc.Clients) },
			func() (int, error) { return insertAll(ctx, tx.Cars(), doc.Cars) },
			func() (int, error) { return insertAll(ctx, tx.StockItems(), doc.StockItems) },
			func() (int, error) { return insertAll(ctx, tx.Services(), doc.Services) },
			func() (int, error) { return insertAll(ctx, tx.WorkOrders(), doc.WorkOrders) },
			func() (int, error) { return insertAll(ctx, tx.TechReports(), doc.TechReports) },
			func() (int, error) { return insertAll(ctx, tx.StockMovements(), doc.StockMovements) },
			func() (int, error) { return insertAll(ctx, tx.Billings(), doc.Billings) },
			func() (int, error) { return insertAll(ctx, tx.Expenses(), doc.Expenses) },
			func() (int, error) { return insertAll(ctx, tx.Debts(), doc.Debts) },
		}
		for _, step := range steps {
			n, err := step()
			if err != nil {
				return err
			}
			summary.Records += n
		}

		for _, u := range doc.Users {
			if !models.IsValidRole(u.Role) {
				return validationError("user %s has unknown role %q", u.Username, u.Role)
			}
			existing, err := tx.Users().First(ctx, store.Where("username = ?", u.Username))
			if err == nil {
				existing.FirstName, existing.LastName = u.FirstName, u.LastName
				existing.Email, existing.Phone = u.Email, u.Phone
				existing.Role, existing.IsActive = u.Role, u.IsActive
				if err := tx.Users().Update(ctx, existing); err != nil {
					return fmt.Errorf("import user %s: %w", u.Username, err)
				}
				summary.UsersUpdated++
				continue
			}
			if !errors.Is(err, store.ErrNotFound) {
				return err
			}
			created := models.User{
				Username:  u.Username,
				FirstName: u.FirstName,
				LastName:  u.LastName,
				Email:     u.Email,
				Phone:     u.Phone,
				Role:      u.Role,
				Password:  "!",
			}
			if err := tx.Users().Create(ctx, &created); err != nil {
				return fmt.Errorf("import user %s: %w", u.Username, err)
			}
			summary.UsersCreated++
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	utils.InfoLogger.WithFields(logrus.Fields{
		"records":       summary.Records,
		"users_updated": summary.UsersUpdated,
		"users_created": summary.UsersCreated,
	}).Info("Data imported")
	return summary, nil
}

// Clear removes all business data. Users and token revocations stay.
func (s *DataService) Clear(ctx context.Context) error {
	if err := s.store.Transaction(ctx, func(tx store.Store) error {
		return clearBusinessData(ctx, tx)
	}); err != nil {
		return err
	}
	utils.InfoLogger.Warn("All business data cleared")
	return nil
}

func clearBusinessData(ctx context.Context, tx store.Store) error {
	deletes := []func() (int64, error){
		func() (int64, error) { return tx.Billings().DeleteWhere(ctx) },
		func() (int64, error) { return tx.StockMovements().DeleteWhere(ctx) },
		func() (int64, error) { return tx.TechReports().DeleteWhere(ctx) },
		func() (int64, error) { return tx.WorkOrders().DeleteWhere(ctx) },
		func() (int64, error) { return tx.Cars().DeleteWhere(ctx) },
		func() (int64, error) { return tx.Clients().DeleteWhere(ctx) },
		func() (int64, error) { return tx.StockItems().DeleteWhere(ctx) },
		func() (int64, error) { return tx.Services().DeleteWhere(ctx) },
		func() (int64, error) { return tx.Expenses().DeleteWhere(ctx) },
		func() (int64, error) { return tx.Debts().DeleteWhere(ctx) },
	}
	for _, del := range deletes {
		if _, err := del(); err != nil {
			return fmt.Errorf("clear data: %w", err)
		}
	}
	return nil
}

func insertAll[T any](ctx context.Context, c store.Collection[T], records []T) (int, error) {
	for i := range records {
		if err := c.Create(ctx, &records[i]); err != nil {
			return 0, fmt.Errorf("import %T: %w", records[i], err)
		}
	}
	return len(records), nil
}
