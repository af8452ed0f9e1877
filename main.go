package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"hypergram/ai"
	"hypergram/bot"
	"hypergram/core"
	"hypergram/lib/sl"
	"hypergram/obs"
	"hypergram/storage"
)

const (
	envLocal = "local"
	envDev   = "dev"
	envProd  = "prod"
)

const sweepInterval = time.Hour

func main() {

	configPath := flag.String("conf", "config.yml", "path to config file")
	flag.Parse()

	conf := core.MustLoad(*configPath)
	log := setupLogger(conf.Env)
	log.With(
		slog.String("config", *configPath),
		slog.String("env", conf.Env),
		sl.Secret(conf.APIKey),
	).Info("starting hypergram bot")

	var metrics *obs.Metrics
	var metricsServer *obs.Server
	if conf.ListenMetrics != "" {
		metrics = obs.NewMetrics("hypergram")
		metricsServer = obs.NewServer(conf.ListenMetrics, log)
		metricsServer.Start()
	}

	store := storage.NewMemorySessions()

	services := bot.Services{
		Text:   ai.NewChat(conf, log),
		Image:  ai.NewImage(conf, log),
		Speech: ai.NewAudio(conf, log),
	}

	tgBot, err := bot.NewTgBot(conf, log)
	if err != nil {
		log.Error("creating telegram bot", sl.Err(err))
		return
	}

	dispatcher := bot.NewDispatcher(conf, log, store, tgBot, services, metrics)
	tgBot.SetDispatcher(dispatcher)

	// Periodic eviction of idle sessions
	sweepCtx, stopSweep := context.WithCancel(context.Background())
	go func() {
		ticker := time.NewTicker(sweepInterval)
		defer ticker.Stop()
		for {
			select {
			case <-sweepCtx.Done():
				return
			case now := <-ticker.C:
				removed := store.Sweep(now, conf.SessionTTL)
				if metrics != nil {
					metrics.SweptSessions.Add(float64(removed))
					metrics.ActiveSessions.Set(float64(store.Len()))
				}
				log.With(
					slog.Int("removed", removed),
					slog.Int("remaining", store.Len()),
				).Info("session sweep")
			}
		}
	}()

	// Setup signal handling for graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	// Start bot in goroutine
	go func() {
		if err := tgBot.Start(); err != nil {
			log.Error("bot stopped with error", sl.Err(err))
		}
	}()

	log.Info("bot started")

	// Wait for shutdown signal
	sig := <-sigChan
	log.Info("received signal, shutting down", slog.String("signal", sig.String()))

	// Graceful shutdown
	tgBot.Stop()
	stopSweep()

	if metricsServer != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := metricsServer.Stop(shutdownCtx); err != nil {
			log.Error("stopping metrics server", sl.Err(err))
		}
	}

	log.Info("shutdown complete")
}

func setupLogger(env string) *slog.Logger {
	var log *slog.Logger

	switch env {
	case envLocal, envDev:
		log = slog.New(
			slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}),
		)
	case envProd:
		log = slog.New(
			slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}),
		)
	default:
		log = slog.New(
			slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}),
		)
	}

	return log
}
