// README: Terminal demo; runs planning turns against Gemini and the configured tools without the HTTP layer.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/alicebob/miniredis/v2"
	"github.com/charmbracelet/log"

	"wayfarer/internal/ai"
	"wayfarer/internal/config"
	"wayfarer/internal/infra"
	"wayfarer/internal/logging"
	"wayfarer/internal/maps"
	"wayfarer/internal/modules/thread"
	"wayfarer/internal/service"
	"wayfarer/internal/tools"
)

func main() {
	message := flag.String("message", "", "run a single turn with this message and exit")
	threadID := flag.String("thread", "", "continue an existing thread")
	ephemeral := flag.Bool("ephemeral", true, "keep threads in an in-process Redis instead of WAYFARER_REDIS_ADDR")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("config", "err", err)
	}
	logger := logging.New(os.Stderr, cfg.Log.Level, cfg.Log.JSON)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	addr := cfg.Redis.Addr
	if *ephemeral {
		mr, err := miniredis.Run()
		if err != nil {
			logger.Fatal("in-process redis", "err", err)
		}
		defer mr.Close()
		addr = mr.Addr()
	}
	rdb, err := infra.NewRedis(ctx, addr)
	if err != nil {
		logger.Fatal("redis", "err", err)
	}
	defer rdb.Close()

	llm, err := ai.NewGeminiProvider(ctx, cfg.AI.GeminiKey, cfg.AI.Model)
	if err != nil {
		logger.Fatal("gemini init", "err", err)
	}
	defer llm.Close()

	registry, err := registryFromConfig(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("tools", "err", err)
	}
	planner := service.NewPlanner(llm, registry, thread.NewRedisStore(rdb, cfg.Store.ThreadTTL), logger,
		service.WithMaxRounds(cfg.Planner.MaxRounds))

	if *message != "" {
		res, err := planner.Plan(ctx, *threadID, *message)
		if err != nil {
			logger.Fatal("plan", "err", err)
		}
		printResult(res)
		return
	}

	id := *threadID
	fmt.Println("Describe your trip (empty line or Ctrl-D to quit).")
	in := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !in.Scan() {
			return
		}
		line := strings.TrimSpace(in.Text())
		if line == "" {
			return
		}
		res, err := planner.Plan(ctx, id, line)
		if err != nil {
			logger.Error("plan", "err", err)
			continue
		}
		id = res.ThreadID
		printResult(res)
	}
}

func printResult(res service.Result) {
	fmt.Printf("\n[thread %s, %d rounds]\n%s\n\n", res.ThreadID, res.Rounds, res.Reply)
}

func registryFromConfig(ctx context.Context, cfg config.Config, logger *log.Logger) (*tools.Registry, error) {
	web, err := tools.NewWebSearch(ctx, tools.SearchConfig{APIKey: cfg.Google.SearchKey, EngineID: cfg.Google.EngineID})
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
	}
	return tools.NewRegistry(logger,
		tools.TravelTool{},
		tools.NewFlightSearch(tools.FlightConfig{
			ClientID:     cfg.Amadeus.ClientID,
			ClientSecret: cfg.Amadeus.ClientSecret,
			BaseURL:      cfg.Amadeus.BaseURL,
		}, tools.DefaultAirlines()),
		tools.NewHotelSearch(tools.HotelConfig{APIKey: cfg.SearchAPI.Key}),
		tools.NewActivitiesSearch(web),
		tools.NewEntertainmentSearch(web),
		directions,
	), nil
}
