package main

import (
	"log"
	"net/http"

	"orangejuice/internal/shared/config"
	"orangejuice/internal/shared/middleware"
)

// SetupRoutes configures all HTTP routes and returns the final handler with middleware.
func SetupRoutes(deps *Dependencies, cfg *config.Config) http.Handler {
	mux := http.NewServeMux()

	// Health check
	mux.HandleFunc("GET /health", deps.HealthHandler.HandleHealth)

	// Public auth routes
	mux.HandleFunc("POST /api/auth/register", deps.AuthHandler.HandleRegister)
	mux.HandleFunc("POST /api/auth/login", deps.AuthHandler.HandleLogin)
	mux.HandleFunc("POST /api/auth/logout", deps.AuthHandler.HandleLogout)

	// Protected routes
	authMiddleware := middleware.Auth(deps.JWT)
	protected := func(pattern string, h http.HandlerFunc) {
		mux.Handle(pattern, authMiddleware(h))
	}

	protected("GET /api/users/me", deps.UserHandler.HandleMe)

	protected("GET /api/accounts", deps.AccountHandler.HandleListAccounts)
	protected("POST /api/accounts", deps.AccountHandler.HandleCreateAccount)
	protected("POST /api/accounts/transfer", deps.AccountHandler.HandleTransfer)
	protected("POST /api/accounts/transfer/email", deps.AccountHandler.HandleTransferByEmail)
	protected("GET /api/accounts/{id}", deps.AccountHandler.HandleGetAccount)
	protected("GET /api/accounts/{id}/balance", deps.AccountHandler.HandleBalance)
	protected("GET /api/accounts/{id}/statement", deps.AccountHandler.HandleStatement)
	protected("POST /api/accounts/{id}/deposit", deps.AccountHandler.HandleDeposit)
	protected("POST /api/accounts/{id}/withdraw", deps.AccountHandler.HandleWithdraw)

	protected("GET /api/assets", deps.AssetHandler.HandleListAssets)
	adminOnly := middleware.RequireAdmin(cfg.Bank.IsAdmin)
	mux.Handle("PUT /api/assets/{id}", authMiddleware(adminOnly(http.HandlerFunc(deps.AssetHandler.HandleUpdateAsset))))

	protected("GET /api/investments/portfolio", deps.InvestmentHandler.HandlePortfolio)
	protected("POST /api/investments/buy", deps.InvestmentHandler.HandleBuy)
	protected("POST /api/investments/sell", deps.InvestmentHandler.HandleSell)

	protected("GET /api/reports/tax", deps.ReportHandler.HandleTaxReport)
	protected("GET /api/reports/investments", deps.ReportHandler.HandleInvestmentSummary)

	// Apply global middleware
	handler := middleware.Logging(middleware.CORS(cfg.Server.AllowedHosts)(mux))

	if cfg.Telemetry.Enabled {
		handler = middleware.Telemetry(middleware.Tracing(mux)(handler))
		log.Println("HTTP telemetry middleware enabled")
	}

	// Apply security middleware when TLS is enabled
	if cfg.TLS.Enabled {
		handler = middleware.HSTS(middleware.SecureCookies(handler))
		log.Println("TLS security middleware enabled (HSTS + SecureCookies)")
	}

	return handler
}
