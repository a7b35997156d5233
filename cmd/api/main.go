// @title        TripLedger API
// @version      1.0
// @description  Travel expense tracking with multi-currency conversion, cost splitting and AI receipt analysis.
// @BasePath     /api/v1
//
// @securityDefinitions.apikey BearerAuth
// @in   header
// @name Authorization
package main

import (
	"log/slog"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	httpSwagger "github.com/swaggo/http-swagger"

	_ "github.com/yucheng/tripledger/docs"
	"github.com/yucheng/tripledger/internal/ai"
	"github.com/yucheng/tripledger/internal/auth"
	"github.com/yucheng/tripledger/internal/config"
	"github.com/yucheng/tripledger/internal/database"
	"github.com/yucheng/tripledger/internal/docstore"
	"github.com/yucheng/tripledger/internal/expense"
	"github.com/yucheng/tripledger/internal/identity"
	"github.com/yucheng/tripledger/internal/rates"
	"github.com/yucheng/tripledger/internal/receipt"
	"github.com/yucheng/tripledger/internal/trip"
	"github.com/yucheng/tripledger/pkg/logging"
	"github.com/yucheng/tripledger/pkg/metrics"
	mw "github.com/yucheng/tripledger/pkg/middleware"
)

func main() {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		slog.Info("No .env file found, using environment variables")
	}

	logging.Setup()

	// Load configuration
	cfg := config.Load()

	// Open the document store: Postgres remotely, SQLite as the local
	// fallback.
	store, err := openStore(cfg)
	if err != nil {
		slog.Error("Failed to open document store", "error", err)
		os.Exit(1)
	}
	defer store.Close()

	// External AI model client, shared by rates and receipts
	aiClient := ai.NewClient(cfg.AnthropicAPIKey, cfg.AIModel)

	// Identity feature
	issuer := identity.NewIssuer(cfg.JWTSecret)

	// Trip and expense features
	expenseRepo := expense.NewRepository(store)
	expenseService := expense.NewService(expenseRepo)
	expenseHandler := expense.NewHandler(expenseService)

	tripRepo := trip.NewRepository(store)
	tripService := trip.NewService(tripRepo, expenseRepo)
	tripHandler := trip.NewHandler(tripService, expenseHandler.ListByTrip)

	authService := auth.NewService(issuer, tripRepo, expenseRepo)
	authHandler := auth.NewHandler(authService)

	// Exchange rate feature
	ratesRepo := rates.NewRepository(store)
	ratesService := rates.NewService(ratesRepo, aiClient, cfg.HomeCurrency)
	ratesHandler := rates.NewHandler(ratesService)

	// Receipt analysis feature
	usageRepo := receipt.NewUsageRepository(store)
	receiptService := receipt.NewService(usageRepo, aiClient, cfg.HomeCurrency,
		cfg.DailyAnalysisLimit, cfg.AnalysisAllowlist)
	receiptHandler := receipt.NewHandler(receiptService)

	r := chi.NewRouter()

	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(chimw.RequestID)
	r.Use(metrics.Middleware)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})
	r.Handle("/metrics", metrics.Handler())
	r.Get("/swagger/*", httpSwagger.Handler())

	// API routes
	r.Route("/api/v1", func(r chi.Router) {
		r.Mount("/auth", authHandler.PublicRoutes())

		r.Group(func(r chi.Router) {
			r.Use(mw.Auth(issuer))

			r.Post("/auth/link", authHandler.Link)
			r.Mount("/trips", tripHandler.Routes())
			r.Mount("/expenses", expenseHandler.Routes())
			r.Mount("/rates", ratesHandler.Routes())
			r.Mount("/receipts", receiptHandler.Routes())
		})
	})

	slog.Info("Server starting", "port", cfg.Port, "storage", cfg.StorageDriver)
	if err := http.ListenAndServe(":"+cfg.Port, r); err != nil {
		slog.Error("Server failed", "error", err)
		os.Exit(1)
	}
}

// openStore selects the document store backend from configuration.
func openStore(cfg *config.Config) (docstore.Store, error) {
	if cfg.StorageDriver == "sqlite" {
		return docstore.NewSQLiteStore(cfg.SQLitePath, cfg.MaxDocumentBytes)
	}

	db, err := database.NewPostgresConnection(cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}
	if err := database.RunMigrations(db); err != nil {
		db.Close()
		return nil, err
	}
	return docstore.NewPostgresStore(db, cfg.MaxDocumentBytes), nil
}
