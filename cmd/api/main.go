package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/GTDGit/ecotoken_store/internal/cache"
	"github.com/GTDGit/ecotoken_store/internal/config"
	"github.com/GTDGit/ecotoken_store/internal/database"
	"github.com/GTDGit/ecotoken_store/internal/handler"
	"github.com/GTDGit/ecotoken_store/internal/middleware"
	"github.com/GTDGit/ecotoken_store/internal/pricing"
	"github.com/GTDGit/ecotoken_store/internal/repository"
	"github.com/GTDGit/ecotoken_store/internal/service"
	"github.com/GTDGit/ecotoken_store/internal/sse"
	"github.com/GTDGit/ecotoken_store/internal/utils"
	"github.com/GTDGit/ecotoken_store/internal/worker"
	"github.com/GTDGit/ecotoken_store/pkg/productfeed"
)

// main is the application entrypoint for the EcoToken storefront API.
func main() {
	// 1. Load config
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// 2. Setup logger
	setupLogger(cfg.Env)
	utils.SetJWTSecret(cfg.JWTSecret)
	log.Info().Str("env", cfg.Env).Str("catalog_source", cfg.Catalog.Source).Msg("starting ecotoken store api")

	// 3. Connect database
	db, err := database.Connect(&cfg.DB)
	if err != nil {
		log.Error().Err(err).Msg("database connection failed")
		fmt.Fprintf(os.Stderr, "database connection failed: %v\n", err)
		os.Exit(1)
	}
	defer db.Close()

	// 3a. Run migrations
	if err := database.Migrate(db.DB, "file://migrations"); err != nil {
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

	// 4. Initialize repositories and sources
	walletRepo := repository.NewWalletRepository(db)
	var source service.ProductSource
	switch cfg.Catalog.Source {
	case config.SourceFeed:
		source = productfeed.NewClient(cfg.Catalog.FeedURL, cfg.Catalog.FeedAPIKey)
	default:
		source = repository.NewProductRepository(db)
	}

	// 5. Initialize services
	hub := sse.NewHub()
	catalogSvc := service.NewCatalogService(source, sse.NewHubNotifier(hub), cfg.Catalog.PageSize, cfg.Catalog.MaxPageSize)
	cartSvc := service.NewCartService(cache.NewCartCache(redisClient, cfg.Cart.TTL), catalogSvc)
	resolver := pricing.NewResolver(cfg.Pricing.TokenToFiatRate, cfg.Pricing.FloorFinalTotal)
	checkoutSvc := service.NewCheckoutService(cartSvc, walletRepo, resolver)

	// 5a. Initial catalog load; the service keeps an empty catalog on failure
	bootCtx, bootCancel := context.WithTimeout(context.Background(), 30*time.Second)
	if err := catalogSvc.Refresh(bootCtx); err != nil {
		log.Warn().Err(err).Msg("initial catalog load failed - serving empty catalog until next refresh")
	}
	bootCancel()

	// 6. Initialize handlers
	handlers := &Handlers{
		Health:   handler.NewHealthHandler(catalogSvc, redisClient),
		Catalog:  handler.NewCatalogHandler(catalogSvc),
		Cart:     handler.NewCartHandler(cartSvc),
		Checkout: handler.NewCheckoutHandler(checkoutSvc),
		SSE:      handler.NewSSEHandler(hub),
	}

	// 7. Setup router
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.CORSMiddleware())
	router.Use(middleware.SessionMiddleware())
	router.Use(middleware.LoggingMiddleware())
	jwtMiddleware := middleware.NewJWTMiddleware()
	defer jwtMiddleware.Stop()
	setupRoutes(router, handlers, jwtMiddleware)

	// 8. Create context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 9. Start workers
	go worker.NewCatalogRefreshWorker(catalogSvc, cfg.Worker.CatalogRefreshInterval).Start(ctx)

	// 10. Start HTTP server
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

	// 11. Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	// 12. Cancel context to stop workers
	cancel()

	// 13. Shutdown HTTP server with timeout
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
	Catalog  *handler.CatalogHandler
	Cart     *handler.CartHandler
	Checkout *handler.CheckoutHandler
	SSE      *handler.SSEHandler
}

// setupRoutes registers all routes.
func setupRoutes(router *gin.Engine, handlers *Handlers, jwtMiddleware *middleware.JWTMiddleware) {
	router.GET("/v1/health", handlers.Health.GetHealth)

	catalog := router.Group("/v1/catalog")
	{
		catalog.GET("/products", handlers.Catalog.GetProducts)
		catalog.GET("/products/:id", handlers.Catalog.GetProduct)
		catalog.GET("/categories", handlers.Catalog.GetCategories)
		catalog.GET("/events", handlers.SSE.Stream)
	}

	cart := router.Group("/v1/cart")
	{
		cart.GET("", handlers.Cart.GetCart)
		cart.DELETE("", handlers.Cart.ClearCart)
		cart.POST("/items", handlers.Cart.AddItem)
		cart.PUT("/items/:productId", handlers.Cart.UpdateQuantity)
		cart.DELETE("/items/:productId", handlers.Cart.RemoveItem)
	}

	// Optional shopper JWT: anonymous checkout applies no tokens
	router.GET("/v1/checkout", jwtMiddleware.Handle(), handlers.Checkout.GetCheckout)
}

func setupLogger(env string) {
	if env == "production" {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
	log.Logger = zerolog.New(os.Stdout).With().Timestamp().Logger()
}
