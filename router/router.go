package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/autoservice-app/config"
	"github.com/yeremiapane/autoservice-app/controllers"
	"github.com/yeremiapane/autoservice-app/hub"
	"github.com/yeremiapane/autoservice-app/middlewares"
	"github.com/yeremiapane/autoservice-app/models"
	"github.com/yeremiapane/autoservice-app/services"
	"github.com/yeremiapane/autoservice-app/utils"
	"golang.org/x/time/rate"
)

func SetupRouter(cfg *config.Config, svc *services.Registry, tokens *utils.TokenManager, h *hub.Hub) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	if err := r.SetTrustedProxies(cfg.Server.TrustedProxies); err != nil {
		utils.ErrorLogger.Printf("Invalid trusted proxies: %v", err)
	}

	r.Use(middlewares.LoggerMiddleware())
	r.Use(middlewares.SecurityHeaders())
	r.Use(middlewares.CORSMiddlewares(cfg.CORS.AllowedOrigins))
	if cfg.RateLimit.RequestsPerSecond > 0 {
		r.Use(middlewares.NewRateLimiter(rate.Limit(cfg.RateLimit.RequestsPerSecond), cfg.RateLimit.Burst).RateLimit())
	}

	authCtrl := controllers.NewAuthController(svc.Auth)
	userCtrl := controllers.NewUserController(svc.Users)
	clientCtrl := controllers.NewClientController(svc.Clients, svc.Cars, svc.Intake)
	workOrderCtrl := controllers.NewWorkOrderController(svc.WorkOrders)
	billingCtrl := controllers.NewBillingController(svc.Billing)
	stockCtrl := controllers.NewStockController(svc.Stock, svc.Catalog)
	financeCtrl := controllers.NewFinanceController(svc.Finance)
	reportCtrl := controllers.NewReportController(svc.Reports)
	adminCtrl := controllers.NewAdminController(svc.Data)
	syncCtrl := controllers.NewSyncController(h, cfg.CORS.AllowedOrigins)

	// ----------------------------------------------------------------
	//                      PUBLIC ROUTES
	// ----------------------------------------------------------------
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	loginLimiter := middlewares.NewLoginRateLimiter(cfg.RateLimit.LoginPerMinute)
	public := r.Group("/api/auth")
	{
		public.POST("/login", loginLimiter.RateLimit(), authCtrl.Login)
		public.POST("/refresh", authCtrl.Refresh)
		public.POST("/logout", authCtrl.Logout)
	}

	// ----------------------------------------------------------------
	//                      AUTHENTICATED ROUTES
	// ----------------------------------------------------------------
	api := r.Group("/api")
	api.Use(middlewares.AuthMiddleware(tokens))
	can := middlewares.RequireCapability

	api.GET("/auth/me", authCtrl.Me)

	// USERS
	api.GET("/users", can(models.ActionViewUsers), userCtrl.GetAllUsers)
	api.POST("/users", can(models.ActionManageUsers), userCtrl.CreateUser)
	api.GET("/users/:id", can(models.ActionViewUsers), userCtrl.GetUser)
	api.PUT("/users/:id", can(models.ActionManageUsers), userCtrl.UpdateUser)
	api.DELETE("/users/:id", can(models.ActionManageUsers), userCtrl.DeleteUser)

	// CLIENTS & CARS
	api.GET("/clients", can(models.ActionViewClients), clientCtrl.GetAllClients)
	api.POST("/clients", can(models.ActionManageClients), clientCtrl.CreateClient)
	api.GET("/clients/:id", can(models.ActionViewClients), clientCtrl.GetClient)
	api.PUT("/clients/:id", can(models.ActionManageClients), clientCtrl.UpdateClient)
	api.DELETE("/clients/:id", can(models.ActionManageClients), clientCtrl.DeleteClient)
	api.GET("/clients/:id/cars", can(models.ActionViewClients), clientCtrl.GetClientCars)

	api.GET("/cars", can(models.ActionViewClients), clientCtrl.GetAllCars)
	api.POST("/cars", can(models.ActionManageClients), clientCtrl.CreateCar)
	api.GET("/cars/:id", can(models.ActionViewClients), clientCtrl.GetCar)
	api.PUT("/cars/:id", can(models.ActionManageClients), clientCtrl.UpdateCar)
	api.DELETE("/cars/:id", can(models.ActionManageClients), clientCtrl.DeleteCar)

	api.POST("/intake", can(models.ActionManageClients), can(models.ActionCreateWorkOrder), clientCtrl.RegisterIntake)

	// WORK ORDERS
	api.GET("/work-orders", can(models.ActionViewWorkOrders), workOrderCtrl.GetAllWorkOrders)
	api.POST("/work-orders", can(models.ActionCreateWorkOrder), workOrderCtrl.CreateWorkOrder)
	api.GET("/work-orders/:id", can(models.ActionViewWorkOrders), workOrderCtrl.GetWorkOrder)
	api.PUT("/work-orders/:id", can(models.ActionUpdateWorkOrder), workOrderCtrl.UpdateWorkOrder)
	api.DELETE("/work-orders/:id", can(models.ActionDeleteWorkOrder), workOrderCtrl.DeleteWorkOrder)
	api.POST("/work-orders/:id/assign", can(models.ActionAssignWorkOrder), workOrderCtrl.AssignWorkOrder)
	api.POST("/work-orders/:id/claim", can(models.ActionClaimWorkOrder), workOrderCtrl.ClaimWorkOrder)
	api.POST("/work-orders/:id/resume", can(models.ActionClaimWorkOrder), workOrderCtrl.ResumeWorkOrder)
	api.POST("/work-orders/:id/record-work", can(models.ActionRecordWork), workOrderCtrl.RecordWork)
	api.GET("/work-orders/:id/tech-report", can(models.ActionViewTechReports), workOrderCtrl.GetWorkOrderReport)
	api.GET("/work-orders/:id/billing", can(models.ActionViewBilling), billingCtrl.GetWorkOrderBilling)
	api.GET("/work-orders/:id/billing/preview", can(models.ActionViewBilling), billingCtrl.PreviewBilling)
	api.POST("/work-orders/:id/billing", can(models.ActionManageBilling), billingCtrl.GenerateBilling)

	// TECH REPORTS
	api.GET("/tech-reports", can(models.ActionViewTechReports), workOrderCtrl.GetAllTechReports)
	api.GET("/tech-reports/:id", can(models.ActionViewTechReports), workOrderCtrl.GetTechReport)
	api.PUT("/tech-reports/:id", can(models.ActionEditTechReport), workOrderCtrl.UpdateTechReport)
	api.DELETE("/tech-reports/:id", can(models.ActionDeleteTechReport), workOrderCtrl.DeleteTechReport)

	// STOCK
	api.GET("/stock-items", can(models.ActionViewStock), stockCtrl.GetAllStockItems)
	api.POST("/stock-items", can(models.ActionManageStock), stockCtrl.CreateStockItem)
	api.GET("/stock-items/low-stock", can(models.ActionViewStock), stockCtrl.GetLowStock)
	api.GET("/stock-items/out-of-stock", can(models.ActionViewStock), stockCtrl.GetOutOfStock)
	api.GET("/stock-items/:id", can(models.ActionViewStock), stockCtrl.GetStockItem)
	api.PUT("/stock-items/:id", can(models.ActionManageStock), stockCtrl.UpdateStockItem)
	api.DELETE("/stock-items/:id", can(models.ActionManageStock), stockCtrl.DeleteStockItem)
	api.POST("/stock-items/:id/adjust", can(models.ActionManageStock), stockCtrl.AdjustStock)
	api.GET("/stock-items/:id/movements", can(models.ActionViewStock), stockCtrl.GetStockMovements)

	// SERVICES
	api.GET("/services", can(models.ActionViewServices), stockCtrl.GetAllServices)
	api.POST("/services", can(models.ActionManageServices), stockCtrl.CreateService)
	api.GET("/services/active", can(models.ActionViewServices), stockCtrl.GetActiveServices)
	api.GET("/services/:id", can(models.ActionViewServices), stockCtrl.GetService)
	api.PUT("/services/:id", can(models.ActionManageServices), stockCtrl.UpdateService)
	api.PATCH("/services/:id/active", can(models.ActionManageServices), stockCtrl.SetServiceActive)
	api.DELETE("/services/:id", can(models.ActionManageServices), stockCtrl.DeleteService)

	// BILLING
	api.GET("/billings", can(models.ActionViewBilling), billingCtrl.GetAllBillings)
	api.GET("/billings/:id", can(models.ActionViewBilling), billingCtrl.GetBilling)
	api.PUT("/billings/:id", can(models.ActionManageBilling), billingCtrl.UpdateBilling)
	api.DELETE("/billings/:id", can(models.ActionManageBilling), billingCtrl.DeleteBilling)
	api.POST("/billings/:id/pay", can(models.ActionManageBilling), billingCtrl.MarkBillingPaid)

	// FINANCE
	api.GET("/expenses", can(models.ActionViewFinance), financeCtrl.GetAllExpenses)
	api.POST("/expenses", can(models.ActionManageFinance), financeCtrl.CreateExpense)
	api.GET("/expenses/:id", can(models.ActionViewFinance), financeCtrl.GetExpense)
	api.PUT("/expenses/:id", can(models.ActionManageFinance), financeCtrl.UpdateExpense)
	api.DELETE("/expenses/:id", can(models.ActionManageFinance), financeCtrl.DeleteExpense)

	api.GET("/debts", can(models.ActionViewFinance), financeCtrl.GetAllDebts)
	api.POST("/debts", can(models.ActionManageFinance), financeCtrl.CreateDebt)
	api.GET("/debts/:id", can(models.ActionViewFinance), financeCtrl.GetDebt)
	api.PUT("/debts/:id", can(models.ActionManageFinance), financeCtrl.UpdateDebt)
	api.DELETE("/debts/:id", can(models.ActionManageFinance), financeCtrl.DeleteDebt)
	api.POST("/debts/:id/payments", can(models.ActionManageFinance), financeCtrl.AddDebtPayment)

	// REPORTS
	reports := api.Group("/reports", can(models.ActionViewReports))
	{
		reports.GET("/kpis", reportCtrl.GetKPIs)
		reports.GET("/daily-work-orders", reportCtrl.GetDailyWorkOrders)
		reports.GET("/monthly-profit", reportCtrl.GetMonthlyProfit)
		reports.GET("/popular-oils", reportCtrl.GetPopularOils)
		reports.GET("/technicians", reportCtrl.GetTechnicianWorkload)
		reports.GET("/dashboard", can(models.ActionViewFinance), reportCtrl.GetDashboard)
	}

	// ADMIN DATA TOOLS
	admin := api.Group("/admin", can(models.ActionAdminData))
	{
		admin.GET("/export", adminCtrl.ExportData)
		admin.POST("/import", adminCtrl.ImportData)
		admin.POST("/clear", adminCtrl.ClearData)
	}

	// sync channel, token in the query string
	wsGroup := r.Group("/ws")
	wsGroup.Use(middlewares.WebSocketAuthMiddleware(tokens))
	{
		wsGroup.GET("/sync", syncCtrl.SyncHandler)
	}

	return r
}
