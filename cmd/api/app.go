package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"tripweaver/internal/cache"
	"tripweaver/internal/config"
	"tripweaver/internal/country"
	"tripweaver/internal/poi"
	"tripweaver/internal/providers/nominatim"
	"tripweaver/internal/providers/osrm"
	"tripweaver/internal/providers/overpass"
	"tripweaver/internal/providers/valhalla"
	"tripweaver/internal/routing"
	"tripweaver/internal/segment"
	"tripweaver/internal/timezone"
	"tripweaver/internal/types"
	"tripweaver/internal/usage"
	"tripweaver/internal/waypoint"
)

// App encapsulates application dependencies
type App struct {
	router         *gin.Engine
	logger         *slog.Logger
	cfg            *config.Config
	routingService routing.Service
	planner        *segment.Planner
	timezones      timezone.Service
	countries      *country.Resolver
}

// NewApp creates a new application with injected dependencies
func NewApp(cfg *config.Config, logger *slog.Logger) (*App, error) {
	// Set Gin mode from configuration
	gin.SetMode(cfg.Server.GinMode)

	// Create Gin router
	router := gin.New()

	// Add middleware
	router.Use(gin.Recovery())

	// Storage backends
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Cache.RedisAddr,
		Password: cfg.Cache.RedisPassword,
		DB:       cfg.Cache.RedisDB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	mongoClient, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.Mongo.URI))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}
	db := mongoClient.Database(cfg.Mongo.Database)

	routeCache := cache.NewDualLayerWithHorizons(logger,
		cache.NewRedisLayer(redisClient),
		cache.NewMongoLayer(db),
		cfg.Cache.TTL,
		cfg.Mongo.Freshness,
	)

	// Enrichment services
	countries := country.NewResolverWithProvider(logger,
		nominatim.NewClientWithBaseURL(logger, cfg.Providers.NominatimURL))
	finder := poi.NewFinderWithProviders(logger,
		overpass.NewClientWithBaseURL(logger, cfg.Providers.OverpassURL), countries)
	waypoints := waypoint.NewSelectorWithProviders(logger, finder, countries)

	// Provider chain
	keyConfigured := cfg.Providers.ValhallaAPIKey != ""
	gate := routing.NewGate(logger, usage.NewMongoStore(db), cfg.Providers.ValhallaQuota, keyConfigured)

	var hosted routing.Adapter
	if cfg.Providers.ValhallaHostedURL != "" && keyConfigured {
		hosted = routing.NewValhallaAdapter(logger, types.ProviderValhallaHosted,
			valhalla.NewClient(logger, cfg.Providers.ValhallaHostedURL, cfg.Providers.ValhallaAPIKey))
	}
	var selfHosted routing.Adapter
	if cfg.Providers.ValhallaSelfURL != "" {
		selfHosted = routing.NewValhallaAdapter(logger, types.ProviderValhallaSelfHosted,
			valhalla.NewClient(logger, cfg.Providers.ValhallaSelfURL, ""))
	}
	fallback := routing.NewOSRMAdapter(logger, osrm.NewClientWithBaseURL(logger, cfg.Providers.OSRMURL))

	routingService := routing.NewService(logger, routing.Deps{
		Cache:      routeCache,
		Countries:  countries,
		Waypoints:  waypoints,
		Scorer:     finder,
		Gate:       gate,
		Hosted:     hosted,
		SelfHosted: selfHosted,
		Fallback:   fallback,
	})

	// Segmentation
	timezones, err := timezone.NewService()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize timezone service: %w", err)
	}
	planner := segment.NewPlannerWithTimezones(logger, timezones)

	app := &App{
		router:         router,
		logger:         logger,
		cfg:            cfg,
		routingService: routingService,
		planner:        planner,
		timezones:      timezones,
		countries:      countries,
	}

	logger.Info("application initialized")

	// Register routes
	app.registerRoutes()

	return app, nil
}

// Run starts the HTTP server
func (app *App) Run(addr string) error {
	return app.router.Run(addr)
}
