package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/yeremiapane/autoservice-app/models"
	"github.com/yeremiapane/autoservice-app/store"
	"github.com/yeremiapane/autoservice-app/utils"
)

type ClientInput struct {
	FirstName string `json:"first_name" binding:"required"`
	LastName  string `json:"last_name" binding:"required"`
	Phone     string `json:"phone" binding:"required"`
}

type ClientService struct {
	store store.Store
}

func NewClientService(s store.Store) *ClientService {
	return &ClientService{store: s}
}

// List returns clients with their cars. search matches first name, last name or phone.
func (s *ClientService) List(ctx context.Context, search string) ([]models.Client, error) {
	opts := []store.Option{store.Preload("Cars")}
	if search = strings.TrimSpace(search); search != "" {
		like := "%" + search + "%"
		opts = append(opts, store.Where("first_name LIKE ? OR last_name LIKE ? OR phone LIKE ?", like, like, like))
	}
	return s.store.Clients().List(ctx, opts...)
}

func (s *ClientService) Get(ctx context.Context, id uint) (*models.Client, error) {
	client, err := s.store.Clients().Get(ctx, id, store.Preload("Cars"))
	if err != nil {
		return nil, lookupError("client", err)
	}
	return client, nil
}

func (s *ClientService) Create(ctx context.Context, in ClientInput) (*models.Client, error) {
	return createClient(ctx, s.store, in)
}

func (s *ClientService) Update(ctx context.Context, id uint, in ClientInput) (*models.Client, error) {
	if err := validateClient(in); err != nil {
		return nil, err
	}
	client, err := s.store.Clients().Get(ctx, id)
	if err != nil {
		return nil, lookupError("client", err)
	}
	client.FirstName = strings.TrimSpace(in.FirstName)
	client.LastName = strings.TrimSpace(in.LastName)
	client.Phone = in.Phone
	if err := s.store.Clients().Update(ctx, client); err != nil {
		return nil, fmt.Errorf("update client: %w", err)
	}
	return client, nil
}

// Delete removes the client together with its cars and their work history.
func (s *ClientService) Delete(ctx context.Context, id uint) error {
	return s.store.Transaction(ctx, func(tx store.Store) error {
		if _, err := tx.Clients().Get(ctx, id); err != nil {
			return lookupError("client", err)
		}
		if err := deleteWorkOrdersWhere(ctx, tx, store.Where("client_id = ?", id)); err != nil {
			return err
		}
		cars, err := tx.Cars().List(ctx, store.Where("client_id = ?", id))
		if err != nil {
			return err
		}
		for _, car := range cars {
			if err := deleteWorkOrdersWhere(ctx, tx, store.Where("car_id = ?", car.ID)); err != nil {
				return err
			}
		}
		if _, err := tx.Cars().DeleteWhere(ctx, store.Where("client_id = ?", id)); err != nil {
			return fmt.Errorf("delete client cars: %w", err)
		}
		return tx.Clients().Delete(ctx, id)
	})
}

func (s *ClientService) ListCars(ctx context.Context, id uint) ([]models.Car, error) {
	if _, err := s.store.Clients().Get(ctx, id); err != nil {
		return nil, lookupError("client", err)
	}
	return s.store.Cars().List(ctx, store.Where("client_id = ?", id))
}

func validateClient(in ClientInput) error {
	if strings.TrimSpace(in.FirstName) == "" || strings.TrimSpace(in.LastName) == "" {
		return validationError("first name and last name are required")
	}
	if !utils.ValidatePhone(in.Phone) {
		return validationError("phone number must be exactly 11 digits")
	}
	return nil
}

func createClient(ctx context.Context, st store.Store, in ClientInput) (*models.Client, error) {
	if err := validateClient(in); err != nil {
		return nil, err
	}
	client := &models.Client{
		FirstName: strings.TrimSpace(in.FirstName),
		LastName:  strings.TrimSpace(in.LastName),
		Phone:     in.Phone,
	}
	if err := st.Clients().Create(ctx, client); err != nil {
		return nil, fmt.Errorf("create client: %w", err)
	}
	return client, nil
}

// deleteWorkOrdersWhere removes matching work orders with their reports and billings.
func deleteWorkOrdersWhere(ctx context.Context, tx store.Store, cond store.Option) error {
	orders, err := tx.WorkOrders().List(ctx, cond)
	if err != nil {
		return err
	}
	if len(orders) == 0 {
		return nil
	}
	ids := make([]uint, 0, len(orders))
	for _, o := range orders {
		ids = append(ids, o.ID)
	}
	if _, err := tx.TechReports().DeleteWhere(ctx, store.Where("work_order_id IN ?", ids)); err != nil {
		return fmt.Errorf("delete tech reports: %w", err)
	}
	if _, err := tx.Billings().DeleteWhere(ctx, store.Where("work_order_id IN ?", ids)); err != nil {
		return fmt.Errorf("delete billings: %w", err)
	}
	if _, err := tx.WorkOrders().DeleteWhere(ctx, store.Where("id IN ?", ids)); err != nil {
		return fmt.Errorf("delete work orders: %w", err)
	}
	return nil
}
