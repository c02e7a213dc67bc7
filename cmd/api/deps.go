package main

import (
	"context"
	"fmt"
	"log"

	"orangejuice/internal/domain/account"
	"orangejuice/internal/domain/asset"
	"orangejuice/internal/domain/investment"
	"orangejuice/internal/domain/report"
	"orangejuice/internal/domain/user"
	"orangejuice/internal/infrastructure/crypto"
	"orangejuice/internal/infrastructure/postgres"
	"orangejuice/internal/infrastructure/postgres/listener"
	httphandlers "orangejuice/internal/interfaces/http"
	"orangejuice/internal/shared/auth"
	"orangejuice/internal/shared/config"
)

// Dependencies holds all initialized application components.
type Dependencies struct {
	DB *postgres.DB

	// Handlers
	HealthHandler     *httphandlers.HealthHandler
	AuthHandler       *httphandlers.AuthHandler
	UserHandler       *httphandlers.UserHandler
	AccountHandler    *httphandlers.AccountHandler
	AssetHandler      *httphandlers.AssetHandler
	InvestmentHandler *httphandlers.InvestmentHandler
	ReportHandler     *httphandlers.ReportHandler

	// Auth
	JWT *auth.JWT

	// Drops the asset cache when another process reprices the catalog
	PriceListener *listener.AssetPriceListener
}

// NewDependencies connects to the database, prepares the schema and wires
// every service and handler.
func NewDependencies(ctx context.Context, cfg *config.Config) (*Dependencies, error) {
	connStr := cfg.Database.ConnectionString()

	db, err := postgres.New(cfg.Database.Driver, connStr)
	if err != nil {
		return nil, err
	}
	log.Printf("Connected to database (driver=%s)", cfg.Database.Driver)

	if cfg.Database.Migrate {
		if err := db.Migrate(ctx); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to migrate database: %w", err)
		}
	}

	encryptor, err := crypto.NewEncryptor(cfg.Encryption.Key)
	if err != nil {
		db.Close()
		return nil, err
	}

	// Initialize repositories
	userRepo := postgres.NewUserRepository(db, encryptor)
	accountRepo := postgres.NewAccountRepository(db)
	transactionRepo := postgres.NewTransactionRepository(db)
	assetRepo := postgres.NewAssetRepository(db)
	investmentRepo := postgres.NewInvestmentRepository(db)

	// Initialize domain services
	accountService := account.NewService(accountRepo, transactionRepo, userRepo, db)
	userService := user.NewService(userRepo, accountService, db)
	assetService := asset.NewService(assetRepo, db)
	investmentService := investment.NewService(accountRepo, assetRepo, investmentRepo, transactionRepo, db)
	reportService := report.NewService(accountRepo, transactionRepo, assetRepo, investmentService)

	if cfg.Bank.SeedAssets {
		if _, err := assetService.SeedDefaults(ctx); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to seed assets: %w", err)
		}
	}

	jwt := auth.NewJWT(cfg.JWT.Secret, cfg.JWT.TTL)

	return &Dependencies{
		DB:                db,
		HealthHandler:     httphandlers.NewHealthHandler(db),
		AuthHandler:       httphandlers.NewAuthHandler(userService, jwt),
		UserHandler:       httphandlers.NewUserHandler(userService),
		AccountHandler:    httphandlers.NewAccountHandler(accountService),
		AssetHandler:      httphandlers.NewAssetHandler(assetService),
		InvestmentHandler: httphandlers.NewInvestmentHandler(investmentService),
		ReportHandler:     httphandlers.NewReportHandler(reportService),
		JWT:               jwt,
		PriceListener:     listener.NewAssetPriceListener(connStr, assetService),
	}, nil
}

// Close releases all resources held by dependencies.
func (d *Dependencies) Close() {
	if d.DB != nil {
		d.DB.Close()
	}
}
