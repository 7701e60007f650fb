package services

import (
	"context"
	"fmt"

	cron "github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
	"github.com/yeremiapane/autoservice-app/hub"
	"github.com/yeremiapane/autoservice-app/utils"
)

// StockAlert is broadcast when the sweep finds items to reorder.
type StockAlert struct {
	LowStock   []StockAlertItem `json:"low_stock"`
	OutOfStock []StockAlertItem `json:"out_of_stock"`
}

type StockAlertItem struct {
	ID           uint   `json:"id"`
	Item         string `json:"item"`
	Serial       string `json:"serial"`
	Quantity     int    `json:"quantity"`
	MinimumStock int    `json:"minimum_stock"`
}

// Scheduler runs the periodic housekeeping jobs.
type Scheduler struct {
	cron      *cron.Cron
	stock     *StockService
	auth      *AuthService
	publisher Publisher
}

func NewScheduler(stock *StockService, auth *AuthService, publisher Publisher) *Scheduler {
	return &Scheduler{
		cron:      cron.New(),
		stock:     stock,
		auth:      auth,
		publisher: publisher,
	}
}

// Start registers both jobs with their cron specs and starts the runner.
func (s *Scheduler) Start(lowStockSpec, cleanupSpec string) error {
	if _, err := s.cron.AddFunc(lowStockSpec, func() { s.SweepLowStock(context.Background()) }); err != nil {
		return fmt.Errorf("schedule low stock sweep: %w", err)
	}
	if _, err := s.cron.AddFunc(cleanupSpec, func() { s.PurgeRevocations(context.Background()) }); err != nil {
		return fmt.Errorf("schedule revocation cleanup: %w", err)
	}
	s.cron.Start()
	utils.InfoLogger.Printf("Scheduler started (low stock %q, cleanup %q)", lowStockSpec, cleanupSpec)
	return nil
}

// Stop waits for running jobs to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
}

// SweepLowStock logs items below their minimum and broadcasts a stock_alert
// when any exist. It returns the alert, or nil when stock is healthy.
func (s *Scheduler) SweepLowStock(ctx context.Context) *StockAlert {
	low, err := s.stock.ListLowStock(ctx)
	if err != nil {
		utils.ErrorLogger.Printf("Low stock sweep failed: %v", err)
		return nil
	}
	out, err := s.stock.ListOutOfStock(ctx)
	if err != nil {
		utils.ErrorLogger.Printf("Low stock sweep failed: %v", err)
		return nil
	}
	if len(low) == 0 && len(out) == 0 {
		return nil
	}

	alert := &StockAlert{
		LowStock:   make([]StockAlertItem, 0, len(low)),
		OutOfStock: make([]StockAlertItem, 0, len(out)),
	}
	for _, item := range low {
		alert.LowStock = append(alert.LowStock, StockAlertItem{item.ID, item.Item, item.Serial, item.Quantity, item.MinimumStock})
	}
	for _, item := range out {
		alert.OutOfStock = append(alert.OutOfStock, StockAlertItem{item.ID, item.Item, item.Serial, item.Quantity, item.MinimumStock})
	}

	utils.InfoLogger.WithFields(logrus.Fields{
		"low_stock":    len(low),
		"out_of_stock": len(out),
	}).Warn("Stock below minimum")
	s.publisher.Broadcast(hub.EventStockAlert, alert)
	return alert
}

func (s *Scheduler) PurgeRevocations(ctx context.Context) {
	n, err := s.auth.PurgeExpiredRevocations(ctx)
	if err != nil {
		utils.ErrorLogger.Printf("Revocation cleanup failed: %v", err)
		return
	}
	if n > 0 {
		utils.InfoLogger.Printf("Purged %d expired token revocations", n)
	}
}
