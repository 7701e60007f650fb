package services

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"github.com/yeremiapane/autoservice-app/models"
	"github.com/yeremiapane/autoservice-app/store"
	"github.com/yeremiapane/autoservice-app/utils"
)

type KPIs struct {
	CarsWashedToday       int64 `json:"cars_washed_today"`
	CarsOilChangedToday   int64 `json:"cars_oil_changed_today"`
	CarsMaintainedToday   int64 `json:"cars_maintained_today"`
	CarsCurrentlyInCenter int64 `json:"cars_currently_in_center"`
	CarsPending           int64 `json:"cars_pending"`
	CarsCompleted         int64 `json:"cars_completed"`
	LowStockItems         int64 `json:"low_stock_items"`
	OutOfStockItems       int64 `json:"out_of_stock_items"`
}

type DailyCount struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

type MonthlyProfit struct {
	Month  string  `json:"month"`
	Profit float64 `json:"profit"`
}

type OilCount struct {
	Oil   string `json:"oil"`
	Count int    `json:"count"`
}

type FinanceDashboard struct {
	TotalRevenue        float64 `json:"total_revenue"`
	TotalExpenses       float64 `json:"total_expenses"`
	TotalDebtsRemaining float64 `json:"total_debts_remaining"`
	NetProfit           float64 `json:"net_profit"`
	UnpaidBillings      int64   `json:"unpaid_billings"`
}

type TechnicianLoad struct {
	TechnicianID uint   `json:"technician_id"`
	Username     string `json:"username"`
	Name         string `json:"name"`
	Assigned     int    `json:"assigned"`
	InProgress   int    `json:"in_progress"`
	Pending      int    `json:"pending"`
	Completed    int    `json:"completed"`
}

// ReportService aggregates work orders, billings and finance records.
// Grouping by day or month happens in Go so every database dialect behaves the same.
type ReportService struct {
	store store.Store
}

func NewReportService(s store.Store) *ReportService {
	return &ReportService{store: s}
}

func (s *ReportService) KPIs(ctx context.Context, now time.Time) (*KPIs, error) {
	start, end := utils.StartOfDay(now), utils.EndOfDay(now)
	wo := s.store.WorkOrders()
	k := &KPIs{}

	counts := []struct {
		dst   *int64
		query string
		args  []interface{}
	}{
		{&k.CarsWashedToday, "wash_confirmed = ? AND created_at BETWEEN ? AND ?", []interface{}{true, start, end}},
		{&k.CarsOilChangedToday, "oil_confirmed = ? AND created_at BETWEEN ? AND ?", []interface{}{true, start, end}},
		{&k.CarsMaintainedToday, "status = ? AND completed_at BETWEEN ? AND ?", []interface{}{models.StatusCompleted, start, end}},
		{&k.CarsCurrentlyInCenter, "status IN ?", []interface{}{[]models.WorkOrderStatus{models.StatusAssigned, models.StatusPending, models.StatusInProgress}}},
		{&k.CarsPending, "status = ?", []interface{}{models.StatusWaiting}},
		{&k.CarsCompleted, "status = ?", []interface{}{models.StatusCompleted}},
	}
	for _, c := range counts {
		n, err := wo.Count(ctx, store.Where(c.query, c.args...))
		if err != nil {
			return nil, err
		}
		*c.dst = n
	}

	var err error
	if k.LowStockItems, err = s.store.StockItems().Count(ctx, store.Where("quantity > 0 AND quantity < minimum_stock")); err != nil {
		return nil, err
	}
	if k.OutOfStockItems, err = s.store.StockItems().Count(ctx, store.Where("quantity = 0")); err != nil {
		return nil, err
	}
	return k, nil
}

// DailyWorkOrders counts orders per creation day. Both bounds are optional and inclusive.
func (s *ReportService) DailyWorkOrders(ctx context.Context, start, end *time.Time) ([]DailyCount, error) {
	var opts []store.Option
	if start != nil {
		opts = append(opts, store.Where("created_at >= ?", utils.StartOfDay(*start)))
	}
	if end != nil {
		opts = append(opts, store.Where("created_at <= ?", utils.EndOfDay(*end)))
	}
	orders, err := s.store.WorkOrders().List(ctx, opts...)
	if err != nil {
		return nil, err
	}

	byDay := map[string]int{}
	for _, o := range orders {
		byDay[o.CreatedAt.In(time.Local).Format(utils.DateLayout)]++
	}
	out := make([]DailyCount, 0, len(byDay))
	for day, n := range byDay {
		out = append(out, DailyCount{Date: day, Count: n})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out, nil
}

// MonthlyProfit sums billing totals per billing month.
func (s *ReportService) MonthlyProfit(ctx context.Context) ([]MonthlyProfit, error) {
	billings, err := s.store.Billings().List(ctx)
	if err != nil {
		return nil, err
	}
	byMonth := map[string]decimal.Decimal{}
	for _, b := range billings {
		month := b.CreatedAt.In(time.Local).Format(utils.MonthLayout)
		byMonth[month] = byMonth[month].Add(decimal.NewFromFloat(b.Total))
	}
	out := make([]MonthlyProfit, 0, len(byMonth))
	for month, sum := range byMonth {
		out = append(out, MonthlyProfit{Month: month, Profit: sum.InexactFloat64()})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Month < out[j].Month })
	return out, nil
}

func (s *ReportService) PopularOils(ctx context.Context) ([]OilCount, error) {
	orders, err := s.store.WorkOrders().List(ctx, store.Where("oil_confirmed = ? AND oil_change <> ?", true, ""))
	if err != nil {
		return nil, err
	}
	byOil := map[string]int{}
	for _, o := range orders {
		byOil[o.OilChange]++
	}
	out := make([]OilCount, 0, len(byOil))
	for oil, n := range byOil {
		out = append(out, OilCount{Oil: oil, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Oil < out[j].Oil
	})
	return out, nil
}

// Dashboard is the owner's finance summary. Revenue counts paid billings
// before the deposit was netted out.
func (s *ReportService) Dashboard(ctx context.Context) (*FinanceDashboard, error) {
	paid, err := s.store.Billings().List(ctx, store.Where("paid = ?", true))
	if err != nil {
		return nil, err
	}
	revenue := decimal.Zero
	for _, b := range paid {
		revenue = revenue.Add(decimal.NewFromFloat(b.Total)).Add(decimal.NewFromFloat(b.Deposit))
	}

	expenses, err := s.store.Expenses().List(ctx)
	if err != nil {
		return nil, err
	}
	spent := decimal.Zero
	for _, e := range expenses {
		spent = spent.Add(decimal.NewFromFloat(e.Total))
	}

	debts, err := s.store.Debts().List(ctx)
	if err != nil {
		return nil, err
	}
	owed := decimal.Zero
	for _, d := range debts {
		owed = owed.Add(decimal.NewFromFloat(d.Remaining()))
	}

	unpaid, err := s.store.Billings().Count(ctx, store.Where("paid = ?", false))
	if err != nil {
		return nil, err
	}

	return &FinanceDashboard{
		TotalRevenue:        revenue.InexactFloat64(),
		TotalExpenses:       spent.InexactFloat64(),
		TotalDebtsRemaining: owed.InexactFloat64(),
		NetProfit:           revenue.Sub(spent).Sub(owed).InexactFloat64(),
		UnpaidBillings:      unpaid,
	}, nil
}

func (s *ReportService) TechnicianWorkload(ctx context.Context) ([]TechnicianLoad, error) {
	techs, err := s.store.Users().List(ctx, store.Where("role = ?", models.RoleTechnician))
	if err != nil {
		return nil, err
	}
	orders, err := s.store.WorkOrders().List(ctx, store.Where("technician_id IS NOT NULL"))
	if err != nil {
		return nil, err
	}

	loads := make([]TechnicianLoad, len(techs))
	index := make(map[uint]*TechnicianLoad, len(techs))
	for i, t := range techs {
		loads[i] = TechnicianLoad{TechnicianID: t.ID, Username: t.Username, Name: t.FullName()}
		index[t.ID] = &loads[i]
	}
	for _, o := range orders {
		load, ok := index[*o.TechnicianID]
		if !ok {
			continue
		}
		switch o.Status {
		case models.StatusAssigned:
			load.Assigned++
		case models.StatusInProgress:
			load.InProgress++
		case models.StatusPending:
			load.Pending++
		case models.StatusCompleted:
			load.Completed++
		}
	}
	return loads, nil
}
