package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/yeremiapane/autoservice-app/config"
	"github.com/yeremiapane/autoservice-app/database"
	"github.com/yeremiapane/autoservice-app/hub"
	"github.com/yeremiapane/autoservice-app/router"
	"github.com/yeremiapane/autoservice-app/services"
	"github.com/yeremiapane/autoservice-app/store"
	"github.com/yeremiapane/autoservice-app/utils"
)

func main() {
	// Load .env
	if err := godotenv.Load(); err != nil {
		utils.InfoLogger.Println("Warning: .env file not found")
	}

	cfg := config.LoadEnv()
	utils.InitLogger(cfg.Logger.Level)
	if cfg.Server.GinMode == gin.ReleaseMode {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := config.InitDB(cfg.Database)
	if err != nil {
		utils.ErrorLogger.Fatalf("Failed to connect to database: %v", err)
	}
	if err := database.RegisterChangeHooks(db); err != nil {
		utils.ErrorLogger.Fatalf("Failed to register change hooks: %v", err)
	}
	if cfg.Database.AutoMigrate {
		if err := database.AutoMigrate(db); err != nil {
			utils.ErrorLogger.Fatalf("Failed to AutoMigrate: %v", err)
		}
	}
	if err := database.SeedSuperAdmin(db, cfg.Seed.AdminUsername, cfg.Seed.AdminPassword); err != nil {
		utils.ErrorLogger.Fatalf("Failed to seed super admin: %v", err)
	}

	tokens := utils.NewTokenManager(cfg.JWT.Secret, cfg.JWT.Issuer, cfg.JWT.AccessTTL, cfg.JWT.RefreshTTL)
	registry := services.NewRegistry(store.NewGormStore(db), cfg, tokens)
	syncHub := hub.New()

	monitor := services.NewChangeMonitor(db, syncHub, cfg.Sync.PollInterval)
	monitor.Start()
	defer monitor.Stop()

	scheduler := services.NewScheduler(registry.Stock, registry.Auth, syncHub)
	if err := scheduler.Start(cfg.Scheduler.LowStockSpec, cfg.Scheduler.RevocationCleanupSpec); err != nil {
		utils.ErrorLogger.Fatalf("Failed to start scheduler: %v", err)
	}
	defer scheduler.Stop()

	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router.SetupRouter(cfg, registry, tokens, syncHub),
	}

	go func() {
		utils.InfoLogger.Printf("Listening on port %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			utils.ErrorLogger.Fatal(err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	utils.InfoLogger.Println("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		utils.ErrorLogger.Printf("Forced shutdown: %v", err)
	}
	utils.InfoLogger.Println("Server stopped")
}
