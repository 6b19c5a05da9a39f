package main

import (
	"flag"
	"log"
	"net/http"

	"task-planner-api/internal/auth"
	"task-planner-api/internal/config"
	"task-planner-api/internal/database"
	"task-planner-api/internal/engine"
	"task-planner-api/internal/handlers"
	"task-planner-api/internal/insights"
	"task-planner-api/internal/logger"
	"task-planner-api/internal/realtime"
	"task-planner-api/internal/routes"
	"task-planner-api/internal/store"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal("Failed to load config: ", err)
	}

	zlog, err := logger.New(cfg.Logger)
	if err != nil {
		log.Fatal("Failed to build logger: ", err)
	}
	defer zlog.Sync()

	db, err := database.Open(cfg.Database.Path)
	if err != nil {
		zlog.Fatalw("failed to open database", "error", err)
	}

	st := store.New(db)
	aggregator := engine.NewAggregator(st, st)
	snapshots := handlers.NewSnapshots(cfg.Analytics.SnapshotTTL)
	hub := realtime.NewHub()
	tokens := auth.NewTokenIssuer(cfg.Auth)
	generator := insights.New(insights.Config{
		Mode:    insights.Mode(cfg.Insights.Mode),
		APIKey:  cfg.Insights.APIKey,
		BaseURL: cfg.Insights.BaseURL,
		Model:   cfg.Insights.Model,
		Timeout: cfg.Insights.Timeout,
	}, zlog)

	router := routes.SetupRoutes(routes.Deps{
		Tokens:    tokens,
		Auth:      handlers.NewAuthHandler(st, tokens, zlog),
		Tasks:     handlers.NewTaskHandler(st, aggregator, snapshots, hub, zlog),
		Analytics: handlers.NewAnalyticsHandler(aggregator, snapshots, generator, cfg.Analytics.WeekStartDay(), zlog),
		WS:        handlers.NewWSHandler(hub, zlog),
	})

	server := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	zlog.Infow("server starting", "addr", server.Addr, "insights_mode", cfg.Insights.Mode)
	if err := server.ListenAndServe(); err != nil {
		zlog.Fatalw("server stopped", "error", err)
	}
}
