// README: Entry point; loads config, wires storage, the LLM and travel tools, and starts the HTTP server.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/log"

	"wayfarer/internal/ai"
	"wayfarer/internal/config"
	httptransport "wayfarer/internal/http"
	"wayfarer/internal/http/handlers"
	"wayfarer/internal/infra"
	"wayfarer/internal/logging"
	"wayfarer/internal/maps"
	"wayfarer/internal/metrics"
	"wayfarer/internal/modules/thread"
	"wayfarer/internal/modules/usage"
	"wayfarer/internal/service"
	"wayfarer/internal/tools"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("config", "err", err)
	}
	logger := logging.New(os.Stderr, cfg.Log.Level, cfg.Log.JSON)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	m := metrics.New()

	var (
		store thread.Store
		quota handlers.Quota
	)
	switch cfg.Store.Backend {
	case config.StorePostgres:
		dbPool, err := infra.NewDB(ctx, cfg.DB.DSN)
		if err != nil {
			logger.Fatal("postgres", "err", err)
		}
		defer dbPool.Close()
		if err := infra.Migrate(ctx, dbPool); err != nil {
			logger.Fatal("migrate", "err", err)
		}
		store = thread.NewPostgresStore(dbPool)
		quota = usage.NewService(usage.NewStore(dbPool, cfg.Usage.MonthlyTurns))
	default:
		redisClient, err := infra.NewRedis(ctx, cfg.Redis.Addr)
		if err != nil {
			logger.Fatal("redis", "err", err)
		}
		defer redisClient.Close()
		store = thread.NewRedisStore(redisClient, cfg.Store.ThreadTTL)
	}

	var verifier infra.TokenVerifier
	if cfg.Firebase.ProjectID != "" {
		verifier, err = infra.NewFirebaseVerifier(ctx, cfg.Firebase.ProjectID, cfg.Firebase.CredentialsFile)
		if err != nil {
			logger.Fatal("firebase init", "err", err)
		}
	} else {
		logger.Warn("FIREBASE_PROJECT_ID not set; API is unauthenticated")
	}

	llm, err := ai.NewGeminiProvider(ctx, cfg.AI.GeminiKey, cfg.AI.Model)
	if err != nil {
		logger.Fatal("gemini init", "err", err)
	}
	defer llm.Close()

	hotels := tools.NewHotelSearch(tools.HotelConfig{APIKey: cfg.SearchAPI.Key})
	registry, err := buildRegistry(ctx, cfg, logger, hotels)
	if err != nil {
		logger.Fatal("tools", "err", err)
	}

	planner := service.NewPlanner(llm, registry, store, logger,
		service.WithMaxRounds(cfg.Planner.MaxRounds),
		service.WithMetrics(m),
	)

	router := httptransport.NewRouter(httptransport.RouterDeps{
		Planner:  planner,
		Quota:    quota,
		Hotels:   hotels,
		Verifier: verifier,
		Metrics:  m,
		Logger:   logger,
	})

	server := httptransport.NewServer(cfg.HTTP.Addr, router, logger)
	if err := server.Run(ctx); err != nil {
		logger.Fatal("http server", "err", err)
	}
}

func buildRegistry(ctx context.Context, cfg config.Config, logger *log.Logger, hotels *tools.HotelSearch) (*tools.Registry, error) {
	web, err := tools.NewWebSearch(ctx, tools.SearchConfig{
		APIKey:   cfg.Google.SearchKey,
		EngineID: cfg.Google.EngineID,
	})
	if err != nil {
		return nil, err
	}

	directions := tools.NewDirections(nil, nil)
	if cfg.Google.MapsKey != "" {
		client, err := maps.NewClient(cfg.Google.MapsKey, "")
		if err != nil {
			return nil, err
		}
		directions = tools.NewDirections(maps.NewRouteService(client), maps.NewPlacesService(client))
	} else {
		logger.Warn("GOOGLE_MAPS_API_KEY not set; directions disabled")
	}

	return tools.NewRegistry(logger,
		tools.TravelTool{},
		tools.NewFlightSearch(tools.FlightConfig{
			ClientID:     cfg.Amadeus.ClientID,
			ClientSecret: cfg.Amadeus.ClientSecret,
			BaseURL:      cfg.Amadeus.BaseURL,
		}, tools.DefaultAirlines()),
		hotels,
		tools.NewActivitiesSearch(web),
		tools.NewEntertainmentSearch(web),
		directions,
	), nil
}
