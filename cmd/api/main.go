package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"

	"github.com/otoservis/otoservis-backend/api/routes"
	"github.com/otoservis/otoservis-backend/internal/auth"
	"github.com/otoservis/otoservis-backend/internal/customers"
	"github.com/otoservis/otoservis-backend/internal/inventory"
	"github.com/otoservis/otoservis-backend/internal/memberships"
	"github.com/otoservis/otoservis-backend/internal/notifications"
	"github.com/otoservis/otoservis-backend/internal/reports"
	"github.com/otoservis/otoservis-backend/internal/tirehotel"
	"github.com/otoservis/otoservis-backend/internal/users"
	"github.com/otoservis/otoservis-backend/internal/workorders"
	"github.com/otoservis/otoservis-backend/pkg/auth/session"
	"github.com/otoservis/otoservis-backend/pkg/config"
	"github.com/otoservis/otoservis-backend/pkg/db"
	"github.com/otoservis/otoservis-backend/pkg/logger"
	"github.com/otoservis/otoservis-backend/pkg/migrate"
	"github.com/otoservis/otoservis-backend/pkg/redis"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	sessionManager, err := session.NewManager(redisClient, cfg.JWT)
	if err != nil {
		logg.Error(context.Background(), "failed to create session manager", err)
		os.Exit(1)
	}

	gormDB := dbClient.DB()
	usersRepo := users.NewRepository(gormDB)
	membershipsRepo := memberships.NewRepository(gormDB)
	customersRepo := customers.NewRepository(gormDB)
	inventoryRepo := inventory.NewRepository(gormDB)
	workOrdersRepo := workorders.NewRepository(gormDB)
	tireHotelRepo := tirehotel.NewRepository(gormDB)
	reportsRepo := reports.NewRepository(gormDB)
	notificationsRepo := notifications.NewRepository(gormDB)

	authService, err := auth.NewService(auth.ServiceParams{
		UserRepo:        usersRepo,
		MembershipsRepo: membershipsRepo,
		SessionManager:  sessionManager,
		JWTConfig:       cfg.JWT,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create auth service", err)
		os.Exit(1)
	}

	switchService, err := auth.NewSwitchBranchService(auth.SwitchBranchServiceParams{
		MembershipsRepo: membershipsRepo,
		SessionManager:  sessionManager,
		JWTConfig:       cfg.JWT,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create switch branch service", err)
		os.Exit(1)
	}

	notificationsService, err := notifications.NewService(notificationsRepo, notifications.NewTransport(cfg.Twilio), logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create notifications service", err)
		os.Exit(1)
	}

	customersService, err := customers.NewService(customersRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create customers service", err)
		os.Exit(1)
	}

	inventoryService, err := inventory.NewService(inventoryRepo, dbClient)
	if err != nil {
		logg.Error(context.Background(), "failed to create inventory service", err)
		os.Exit(1)
	}

	workOrdersService, err := workorders.NewService(
		workOrdersRepo,
		dbClient,
		customersService,
		customersRepo,
		inventoryService,
		notificationsService,
		cfg.WorkOrders,
	)
	if err != nil {
		logg.Error(context.Background(), "failed to create work orders service", err)
		os.Exit(1)
	}

	tireHotelService, err := tirehotel.NewService(tireHotelRepo, dbClient, customersService, customersRepo, notificationsService)
	if err != nil {
		logg.Error(context.Background(), "failed to create tire hotel service", err)
		os.Exit(1)
	}

	reportsService, err := reports.NewService(reportsRepo, workOrdersRepo, tireHotelRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create reports service", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(routes.Deps{
			Config:               cfg,
			Logger:               logg,
			SessionManager:       sessionManager,
			AuthService:          authService,
			SwitchService:        switchService,
			CustomersService:     customersService,
			InventoryService:     inventoryService,
			WorkOrdersService:    workOrdersService,
			TireHotelService:     tireHotelService,
			ReportsService:       reportsService,
			NotificationsService: notificationsService,
			UsersRepo:            usersRepo,
			MembershipsRepo:      membershipsRepo,
		}),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
