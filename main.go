package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"

	_ "github.com/jackc/pgx/v5/stdlib" // database/sql driver for migrations
	"go.uber.org/zap"

	"github.com/ovoline/stockroom/pkg/auth"
	"github.com/ovoline/stockroom/pkg/config"
	"github.com/ovoline/stockroom/pkg/database"
	"github.com/ovoline/stockroom/pkg/handlers"
	"github.com/ovoline/stockroom/pkg/logging"
	"github.com/ovoline/stockroom/pkg/mailer"
	"github.com/ovoline/stockroom/pkg/middleware"
	"github.com/ovoline/stockroom/pkg/repositories"
	"github.com/ovoline/stockroom/pkg/services"
)

// Version is set at build time via ldflags
var Version = "dev"

func main() {
	cfg, err := config.Load(Version)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := logging.New(cfg.Env)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Configuration loaded",
		zap.String("environment", cfg.Env),
		zap.String("base_url", cfg.BaseURL),
		zap.Bool("auth_verification", cfg.Auth.EnableVerification),
		zap.Bool("mail_enabled", cfg.Mail.Enabled),
		zap.String("database", logging.SanitizeConnectionString(cfg.Database.URL())))

	ctx := context.Background()

	db, err := database.NewConnection(ctx, &database.Config{
		URL:            cfg.Database.URL(),
		MaxConnections: cfg.Database.MaxConnections,
	})
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	// Migrations run through database/sql; golang-migrate requires it.
	sqlDB, err := sql.Open("pgx", cfg.Database.URL())
	if err != nil {
		logger.Fatal("Failed to open migration connection", zap.Error(err))
	}
	if err := database.RunMigrations(sqlDB, cfg.MigrationsPath, logger); err != nil {
		logger.Fatal("Failed to run migrations", zap.Error(err))
	}
	_ = sqlDB.Close()

	// Auth: session cookies for browsers, bearer JWTs for API clients.
	sessions := auth.NewSessionStore(cfg.Auth.SessionSecret, cfg.Auth.SessionMaxAgeSeconds, cfg.Env != "local")
	validator, err := auth.NewJWKSClient(&auth.JWKSConfig{
		EnableVerification: cfg.Auth.EnableVerification,
		JWKSEndpoints:      cfg.Auth.JWKSEndpoints,
	})
	if err != nil {
		logger.Fatal("Failed to initialize token validator", zap.Error(err))
	}
	authService := auth.NewAuthService(sessions, validator, logger)
	authMiddleware := auth.NewMiddleware(authService, logger)

	// Outbound mail.
	mail, err := mailer.New(&cfg.Mail, logger)
	if err != nil {
		logger.Fatal("Failed to initialize mailer", zap.Error(err))
	}
	templates, err := mailer.LoadTemplates()
	if err != nil {
		logger.Fatal("Failed to load mail templates", zap.Error(err))
	}

	// Repositories and services.
	userRepo := repositories.NewUserRepository()
	dbRepo := repositories.NewDatabaseRepository()
	productRepo := repositories.NewProductRepository()

	accessService := services.NewAccessService(userRepo, dbRepo)
	accountService := services.NewAccountService(userRepo, mail, templates, cfg.Mail.ContactRecipient, logger)
	databaseService := services.NewDatabaseService(userRepo, dbRepo, accessService, logger)
	productService := services.NewProductService(productRepo, userRepo, accessService, logger)
	contactService := services.NewContactService(userRepo, mail, templates, cfg.Mail.ContactRecipient, logger)

	// Tenant scoping: product routes run against the user's current
	// database; everything else gets a plain scoped connection.
	tenantMiddleware := handlers.TenantMiddleware(database.WithCurrentDatabaseContext(db, logger))
	connMiddleware := handlers.TenantMiddleware(database.WithConnection(db, logger))

	mux := http.NewServeMux()

	healthHandler := handlers.NewHealthHandler(cfg, logger)
	healthHandler.RegisterRoutes(mux)

	authHandler := handlers.NewAuthHandler(accountService, sessions, logger)
	authHandler.RegisterRoutes(mux, connMiddleware)

	accountHandler := handlers.NewAccountHandler(accountService, logger)
	accountHandler.RegisterRoutes(mux, authMiddleware, connMiddleware)

	contactHandler := handlers.NewContactHandler(contactService, logger)
	contactHandler.RegisterRoutes(mux, authMiddleware, connMiddleware)

	databaseHandler := handlers.NewDatabaseHandler(databaseService, logger)
	databaseHandler.RegisterRoutes(mux, authMiddleware, connMiddleware)

	productHandler := handlers.NewProductHandler(productService, logger)
	productHandler.RegisterRoutes(mux, authMiddleware, tenantMiddleware)

	handler := middleware.RequestLogger(logger)(mux)

	addr := cfg.BindAddr + ":" + cfg.Port
	logger.Info("Starting stockroom",
		zap.String("addr", addr),
		zap.String("version", cfg.Version))
	if err := http.ListenAndServe(addr, handler); err != nil {
		logger.Fatal("Server failed", zap.Error(err))
	}
}
