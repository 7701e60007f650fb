package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/yeremiapane/autoservice-app/models"
	"github.com/yeremiapane/autoservice-app/store"
)

type ServiceInput struct {
	Name        string  `json:"name" binding:"required"`
	Description string  `json:"description"`
	Price       float64 `json:"price" binding:"gte=0"`
	IsActive    *bool   `json:"is_active"`
}

// CatalogService manages the priced add-on services offered at the counter.
type CatalogService struct {
	store store.Store
}

func NewCatalogService(s store.Store) *CatalogService {
	return &CatalogService{store: s}
}

func (s *CatalogService) List(ctx context.Context) ([]models.Service, error) {
	return s.store.Services().List(ctx, store.OrderBy("name ASC, id ASC"))
}

func (s *CatalogService) ListActive(ctx context.Context) ([]models.Service, error) {
	return s.store.Services().List(ctx, store.Where("is_active = ?", true), store.OrderBy("name ASC, id ASC"))
}

func (s *CatalogService) Get(ctx context.Context, id uint) (*models.Service, error) {
	svc, err := s.store.Services().Get(ctx, id)
	if err != nil {
		return nil, lookupError("service", err)
	}
	return svc, nil
}

func (s *CatalogService) Create(ctx context.Context, in ServiceInput) (*models.Service, error) {
	if err := validateService(in); err != nil {
		return nil, err
	}
	svc := &models.Service{IsActive: true}
	applyService(svc, in)
	if err := s.store.Services().Create(ctx, svc); err != nil {
		return nil, fmt.Errorf("create service: %w", err)
	}
	return svc, nil
}

func (s *CatalogService) Update(ctx context.Context, id uint, in ServiceInput) (*models.Service, error) {
	if err := validateService(in); err != nil {
		return nil, err
	}
	svc, err := s.store.Services().Get(ctx, id)
	if err != nil {
		return nil, lookupError("service", err)
	}
	applyService(svc, in)
	if err := s.store.Services().Update(ctx, svc); err != nil {
		return nil, fmt.Errorf("update service: %w", err)
	}
	return svc, nil
}

func (s *CatalogService) SetActive(ctx context.Context, id uint, active bool) (*models.Service, error) {
	svc, err := s.store.Services().Get(ctx, id)
	if err != nil {
		return nil, lookupError("service", err)
	}
	svc.IsActive = active
	if err := s.store.Services().Update(ctx, svc); err != nil {
		return nil, fmt.Errorf("toggle service: %w", err)
	}
	return svc, nil
}

func (s *CatalogService) Delete(ctx context.Context, id uint) error {
	if err := s.store.Services().Delete(ctx, id); err != nil {
		return lookupError("service", err)
	}
	return nil
}

func validateService(in ServiceInput) error {
	if strings.TrimSpace(in.Name) == "" {
		return validationError("service name is required")
	}
	if in.Price < 0 {
		return validationError("price must not be negative")
	}
	return nil
}

func applyService(svc *models.Service, in ServiceInput) {
	svc.Name = strings.TrimSpace(in.Name)
	svc.Description = in.Description
	svc.Price = in.Price
	if in.IsActive != nil {
		svc.IsActive = *in.IsActive
	}
}
