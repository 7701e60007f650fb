package services

import (
	"github.com/yeremiapane/autoservice-app/config"
	"github.com/yeremiapane/autoservice-app/store"
	"github.com/yeremiapane/autoservice-app/utils"
)

// Registry wires every service over one store.
type Registry struct {
	Clients    *ClientService
	Cars       *CarService
	Intake     *IntakeService
	WorkOrders *WorkOrderService
	Stock      *StockService
	Catalog    *CatalogService
	Billing    *BillingService
	Users      *UserService
	Auth       *AuthService
	Finance    *FinanceService
	Reports    *ReportService
	Data       *DataService
}

func NewRegistry(s store.Store, cfg *config.Config, tokens *utils.TokenManager) *Registry {
	stock := NewStockService(s, cfg.Stock.DefaultMinimum)
	return &Registry{
		Clients:    NewClientService(s),
		Cars:       NewCarService(s),
		Intake:     NewIntakeService(s),
		WorkOrders: NewWorkOrderService(s, stock),
		Stock:      stock,
		Catalog:    NewCatalogService(s),
		Billing:    NewBillingService(s, NewBillingCalculator(cfg.Billing)),
		Users:      NewUserService(s),
		Auth:       NewAuthService(s, tokens),
		Finance:    NewFinanceService(s),
		Reports:    NewReportService(s),
		Data:       NewDataService(s),
	}
}
