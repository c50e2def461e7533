package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/texnomart/catalog_api/internal/cache"
	"github.com/texnomart/catalog_api/internal/config"
	"github.com/texnomart/catalog_api/internal/database"
	"github.com/texnomart/catalog_api/internal/handler"
	"github.com/texnomart/catalog_api/internal/middleware"
	"github.com/texnomart/catalog_api/internal/repository"
	"github.com/texnomart/catalog_api/internal/service"
	"github.com/texnomart/catalog_api/internal/utils"
)

// main is the application entrypoint for the Texnomart catalog API.
func main() {
	// 1. Load config
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// 2. Setup logger
	setupLogger(cfg.Env)
	log.Info().Str("env", cfg.Env).Msg("starting catalog api")

	// 3. Connect database
	db, err := database.Connect(&cfg.DB)
	if err != nil {
		log.Error().Err(err).Msg("database connection failed")
		fmt.Fprintf(os.Stderr, "database connection failed: %v\n", err)
		os.Exit(1)
	}
	defer db.Close()

	// 3a. Run migrations
	if err := runMigrations(db.DB); err != nil {
		log.Error().Err(err).Msg("migration failed")
		fmt.Fprintf(os.Stderr, "migration failed: %v\n", err)
		os.Exit(1)
	}
	log.Info().Msg("migrations completed successfully")

	// 3b. Connect to Redis
	redisClient, err := cache.NewRedisClient(&cfg.Redis)
	if err != nil {
		log.Error().Err(err).Msg("redis connection failed")
		fmt.Fprintf(os.Stderr, "redis connection failed: %v\n", err)
		os.Exit(1)
	}
	defer redisClient.Close()
	log.Info().Msg("redis connected successfully")

	// 3c. Initialize caches
	catalogCache := cache.NewCatalogCache(redisClient)
	blacklist := cache.NewTokenBlacklist(redisClient)

	// 4. Initialize repositories
	userRepo := repository.NewUserRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	productRepo := repository.NewProductRepository(db)
	imageRepo := repository.NewImageRepository(db)
	attributeRepo := repository.NewAttributeRepository(db)
	commentRepo := repository.NewCommentRepository(db)

	// 5. Initialize services
	tokens := utils.NewTokenManager(cfg.JWTSecret, cfg.Auth.AccessTTL, cfg.Auth.RefreshTTL)
	notifier := service.NewNotificationService(cfg.Mail, userRepo)
	snapshots := service.NewSnapshotService(cfg.Snapshot.Dir)

	mediaSvc, err := service.NewMediaService(&cfg.Media)
	if err != nil {
		log.Warn().Err(err).Msg("media service initialization failed - image uploads will be disabled")
	}

	authSvc := service.NewAuthService(userRepo, tokens, blacklist)
	catalogSvc := service.NewCatalogService(productRepo, categoryRepo, attributeRepo, catalogCache, cfg.Cache)
	categorySvc := service.NewCategoryService(categoryRepo, notifier, snapshots)
	productSvc := service.NewProductService(productRepo, imageRepo, attributeRepo, commentRepo, notifier, snapshots, mediaSvc)

	// 6. Initialize handlers
	handlers := &Handlers{
		Health:   handler.NewHealthHandler(db, redisClient),
		Auth:     handler.NewAuthHandler(authSvc, middleware.NewLoginRateLimiter()),
		Catalog:  handler.NewCatalogHandler(catalogSvc),
		Category: handler.NewCategoryHandler(categorySvc),
		Product:  handler.NewProductHandler(productSvc),
	}

	// 7. Initialize middleware
	jwtMw := middleware.NewJWTMiddleware(tokens)

	// 8. Setup router
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.CORSMiddleware())
	router.Use(middleware.LoggingMiddleware())
	setupRoutes(router, handlers, jwtMw)

	// 9. Start HTTP server
	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		log.Info().Str("port", cfg.Port).Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed")
		}
	}()

	// 10. Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	// 11. Shutdown HTTP server with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}
	log.Info().Msg("Server exited")
}

// Handlers groups all HTTP handlers used by the server.
type Handlers struct {
	Health   *handler.HealthHandler
	Auth     *handler.AuthHandler
	Catalog  *handler.CatalogHandler
	Category *handler.CategoryHandler
	Product  *handler.ProductHandler
}

// setupRoutes registers all routes.
func setupRoutes(router *gin.Engine, handlers *Handlers, jwtMiddleware *middleware.JWTMiddleware) {
	router.GET("/health/", handlers.Health.GetHealth)

	// Auth
	router.POST("/register/", handlers.Auth.Register)
	router.POST("/login/", handlers.Auth.Login)
	router.POST("/logout/", handlers.Auth.Logout)

	// Public catalog reads. A Bearer token is optional and only adds the
	// per-user like flags.
	reads := router.Group("/")
	reads.Use(jwtMiddleware.Optional())
	{
		reads.GET("/", handlers.Catalog.ListProducts)
		reads.GET("/categories/", handlers.Catalog.ListCategories)
		reads.GET("/category/:slug/", handlers.Catalog.ListCategoryProducts)
		reads.GET("/product/detail/:id/", handlers.Catalog.ProductDetail)
		reads.GET("/attribute-key/", handlers.Catalog.ListAttributeKeys)
		reads.GET("/attribute-value/", handlers.Catalog.ListAttributeValues)
	}

	// Authenticated writes
	writes := router.Group("/")
	writes.Use(jwtMiddleware.Handle())
	{
		writes.POST("/category/add/", handlers.Category.Create)
		writes.GET("/category/:slug/edit/", handlers.Category.Get)
		writes.PUT("/category/:slug/edit/", handlers.Category.Update)
		writes.PATCH("/category/:slug/edit/", handlers.Category.Patch)

		writes.POST("/product/add/", handlers.Product.Create)
		writes.GET("/product/:id/edit/", handlers.Product.Get)
		writes.PUT("/product/:id/edit/", handlers.Product.Update)
		writes.PATCH("/product/:id/edit/", handlers.Product.Patch)
		writes.GET("/product/:id/delete/", handlers.Product.Get)
		writes.DELETE("/product/:id/delete/", handlers.Product.Delete)

		writes.POST("/product/:id/comment/", handlers.Product.AddComment)
		writes.POST("/product/:id/like/", handlers.Product.ToggleLike)
		writes.POST("/product/:id/image/", handlers.Product.UploadImage)
	}

	// Category deletion is restricted to superusers.
	admin := router.Group("/")
	admin.Use(jwtMiddleware.RequireSuperuser())
	{
		admin.GET("/category/:slug/delete/", handlers.Category.Get)
		admin.DELETE("/category/:slug/delete/", handlers.Category.Delete)
	}
}

func runMigrations(db *sql.DB) error {
	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		return fmt.Errorf("could not create migration driver: %w", err)
	}

	m, err := migrate.NewWithDatabaseInstance(
		"file://migrations",
		"postgres", driver)
	if err != nil {
		return fmt.Errorf("could not create migration instance: %w", err)
	}

	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("could not run migrations: %w", err)
	}

	return nil
}

func setupLogger(env string) {
	if env == "production" {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
	log.Logger = zerolog.New(os.Stdout).With().Timestamp().Logger()
}
