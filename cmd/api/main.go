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
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/GTDGit/gtd_jewel/internal/cache"
	"github.com/GTDGit/gtd_jewel/internal/config"
	"github.com/GTDGit/gtd_jewel/internal/database"
	"github.com/GTDGit/gtd_jewel/internal/handler"
	"github.com/GTDGit/gtd_jewel/internal/middleware"
	"github.com/GTDGit/gtd_jewel/internal/repository"
	"github.com/GTDGit/gtd_jewel/internal/service"
	"github.com/GTDGit/gtd_jewel/internal/utils"
	"github.com/GTDGit/gtd_jewel/pkg/exchangerate"
	"github.com/GTDGit/gtd_jewel/pkg/goldapi"
	"github.com/GTDGit/gtd_jewel/pkg/goldprice"
	"github.com/GTDGit/gtd_jewel/pkg/goldspot"
	"github.com/GTDGit/gtd_jewel/pkg/metalslive"
)

// main is the application entrypoint for the jewellery pricing API.
func main() {
	// 1. Load config
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// 2. Setup logger
	setupLogger(cfg.Env)
	log.Info().Str("env", cfg.Env).Msg("starting gtd jewel api")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 3. Connect database
	db, err := database.Connect(ctx, &cfg.DB)
	if err != nil {
		log.Error().Err(err).Msg("database connection failed")
		fmt.Fprintf(os.Stderr, "database connection failed: %v\n", err)
		os.Exit(1)
	}
	defer db.Close()

	// 3a. Run migrations
	if err := database.RunMigrations(db.DB, "migrations"); err != nil {
		log.Error().Err(err).Msg("migration failed")
		fmt.Fprintf(os.Stderr, "migration failed: %v\n", err)
		os.Exit(1)
	}
	log.Info().Msg("migrations completed successfully")

	// 3b. Rate cache storage: Redis when configured, process memory otherwise
	var store cache.SnapshotStore = cache.NewMemoryStore()
	var redisPinger handler.Pinger
	if cfg.Redis.Enabled() {
		redisClient, err := cache.NewRedisClient(&cfg.Redis)
		if err != nil {
			log.Warn().Err(err).Msg("Redis unavailable, caching metal rates in memory")
		} else {
			defer redisClient.Close()
			store = cache.NewRedisStore(redisClient, 2*cfg.Rates.CacheTTL)
			redisPinger = redisClient
			log.Info().Msg("redis connected successfully")
		}
	}

	// 4. Rate sources
	fx := service.NewFxService(
		exchangerate.NewClient(cfg.FX.BaseURL, cfg.Rates.SourceTimeout),
		cfg.FX.Quote, cfg.FX.FallbackRate, cfg.FX.TTL,
	)
	sources := buildRateSources(cfg, fx)

	fallback, err := buildFallbackTable(&cfg.Rates)
	if err != nil {
		log.Warn().Err(err).Msg("Fallback rates file ignored")
	}

	aggregator := service.NewRateAggregator(sources, fallback, cfg.Rates.SourceTimeout)
	rateCache := cache.NewRateCache(aggregator, cfg.Rates.CacheTTL, cache.WithStore(store))
	log.Info().Strs("sources", aggregator.SourceNames()).Dur("ttl", cfg.Rates.CacheTTL).Msg("rate sources configured")

	// 5. Initialize repositories
	productRepo := repository.NewProductRepository(db)
	chitPlanRepo := repository.NewChitPlanRepository(db)

	// 6. Initialize services
	membershipSvc := service.NewMembershipService(chitPlanRepo)
	pricingSvc := service.NewPricingService(rateCache, productRepo)
	lineItemSvc := service.NewLineItemService(productRepo, membershipSvc)

	// 7. Initialize handlers
	handlers := &Handlers{
		Health:    handler.NewHealthHandler(rateCache, aggregator.SourceNames(), redisPinger),
		MetalRate: handler.NewMetalRateHandler(rateCache, pricingSvc, cfg.Rates.DefaultGST),
		Pricing:   handler.NewPricingHandler(lineItemSvc, pricingSvc),
	}

	// 8. Middleware
	jwtManager := utils.NewJWTManager(cfg.JWTSecret, 24*time.Hour)
	authLimiter := middleware.NewInvalidAuthRateLimiter(5, time.Minute)
	defer authLimiter.Stop()
	jwtMiddleware := middleware.NewJWTMiddleware(jwtManager, authLimiter)

	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.CORSMiddleware(cfg.CORSAllowedHosts))
	router.Use(middleware.LoggingMiddleware())
	router.Use(middleware.MetricsMiddleware())

	// 9. Routes
	setupRoutes(router, handlers, jwtMiddleware)

	// 10. Start server
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
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
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}
	log.Info().Msg("Server exited")
}

// Handlers groups all HTTP handlers used by the server.
type Handlers struct {
	Health    *handler.HealthHandler
	MetalRate *handler.MetalRateHandler
	Pricing   *handler.PricingHandler
}

// setupRoutes registers all routes.
func setupRoutes(router *gin.Engine, handlers *Handlers, jwtMiddleware *middleware.JWTMiddleware) {
	router.GET("/health", handlers.Health.GetHealth)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	rates := router.Group("/metal-rates")
	{
		rates.GET("/live", handlers.MetalRate.GetLive)
		rates.POST("/calculate-price", handlers.MetalRate.CalculatePrice)
		rates.POST("/refresh", jwtMiddleware.Handle(), jwtMiddleware.RequireRole("admin"), handlers.MetalRate.Refresh)
	}

	// Storefront pricing; members are recognised from an optional token
	storefront := router.Group("")
	storefront.Use(jwtMiddleware.Optional())
	{
		storefront.POST("/pricing/line-items", handlers.Pricing.PriceLineItems)
		storefront.GET("/products/:id/price", handlers.Pricing.GetProductPrice)
	}

	admin := router.Group("/admin")
	admin.Use(jwtMiddleware.Handle(), jwtMiddleware.RequireRole("admin"))
	{
		admin.POST("/products/:id/price-breakup", handlers.Pricing.RecalculateProduct)
	}
}

// buildRateSources returns the sources in priority order. The premium feed,
// when configured, always goes first; RATE_SOURCE_ORDER orders the free feeds.
func buildRateSources(cfg *config.Config, fx service.FxConverter) []service.RateSource {
	timeout := cfg.Rates.SourceTimeout
	free := []service.RateSource{
		service.NewGoldPriceRateSource(goldprice.NewClient(cfg.Providers.GoldPriceURL, timeout), fx),
		service.NewMetalsLiveRateSource(metalslive.NewClient(cfg.Providers.MetalsLiveURL, timeout), fx),
		service.NewGoldSpotRateSource(goldspot.NewClient(cfg.Providers.GoldSpotURL, timeout), fx),
	}
	free = service.OrderSources(free, cfg.Rates.SourceOrder)

	if !cfg.GoldAPI.Enabled() {
		return free
	}
	premium := service.NewGoldAPIRateSource(goldapi.NewClient(goldapi.Config{
		BaseURL: cfg.GoldAPI.BaseURL,
		APIKey:  cfg.GoldAPI.APIKey,
		Timeout: timeout,
	}), cfg.GoldAPI.Currency)
	return append([]service.RateSource{premium}, free...)
}

// buildFallbackTable layers the built-in table, the optional YAML file and
// the FALLBACK_*_PER_GRAM variables, in that order.
func buildFallbackTable(cfg *config.RatesConfig) (service.FallbackTable, error) {
	table := service.DefaultFallbackTable()
	var fileErr error
	if cfg.FallbackRatesFile != "" {
		loaded, err := service.LoadFallbackTable(cfg.FallbackRatesFile)
		if err != nil {
			fileErr = err
		} else {
			table = loaded
		}
	}
	table = table.Merge(service.FallbackTable{
		GoldPerGram:   cfg.FallbackGold,
		SilverPerGram: cfg.FallbackSilver,
	})
	return table, fileErr
}

func setupLogger(env string) {
	if env == "production" {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
	log.Logger = zerolog.New(os.Stdout).With().Timestamp().Logger()
}
