package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/caseopen-dev/kazino/internal/casebox"
	"github.com/caseopen-dev/kazino/internal/catalog"
	"github.com/caseopen-dev/kazino/internal/concurrency"
	"github.com/caseopen-dev/kazino/internal/config"
	"github.com/caseopen-dev/kazino/internal/database"
	"github.com/caseopen-dev/kazino/internal/database/postgres"
	"github.com/caseopen-dev/kazino/internal/economy"
	"github.com/caseopen-dev/kazino/internal/feed"
	"github.com/caseopen-dev/kazino/internal/giveaway"
	"github.com/caseopen-dev/kazino/internal/handler"
	"github.com/caseopen-dev/kazino/internal/scheduler"
	"github.com/caseopen-dev/kazino/internal/server"
	"github.com/caseopen-dev/kazino/internal/upgrade"
	"github.com/caseopen-dev/kazino/internal/user"
	"github.com/caseopen-dev/kazino/internal/worker"
)

const (
	workerCount     = 4
	workerQueueSize = 64

	giveawayPollInterval   = 30 * time.Second
	dailyResetPollInterval = time.Minute

	shutdownTimeout = 10 * time.Second
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Configuration failed", "error", err)
		os.Exit(1)
	}

	initLogger(cfg)
	handler.InitValidator()

	dbPool, err := database.NewPool(context.Background(), cfg.GetDBConnString(), database.PoolConfig{})
	if err != nil {
		slog.Error("Database connection failed", "error", err)
		os.Exit(1)
	}
	defer dbPool.Close()

	if err := database.Migrate(dbPool); err != nil {
		slog.Error("Database migration failed", "error", err)
		os.Exit(1)
	}

	cat, err := catalog.Load(cfg.CatalogPath)
	if err != nil {
		slog.Error("Catalog load failed", "error", err, "path", cfg.CatalogPath)
		os.Exit(1)
	}
	slog.Info("Catalog loaded", "cases", len(cat.Cases()), "items", len(cat.Items()))

	userRepo := postgres.NewUserRepository(dbPool)
	giveawayRepo := postgres.NewGiveawayRepository(dbPool)
	locks := concurrency.NewLockManager()
	liveFeed := feed.New()

	userService := user.NewService(userRepo, locks, cfg.StartingBalance)
	caseboxService := casebox.NewService(userRepo, cat, locks, liveFeed)
	upgradeService := upgrade.NewService(userRepo, cat, locks, liveFeed, cfg.ConsolationRate)
	economyService := economy.NewService(userRepo, locks, cfg.ClaimBonusAmount, cfg.ClaimCooldown)
	giveawayService := giveaway.NewService(giveawayRepo, cat, locks)

	pool := worker.NewPool(workerCount, workerQueueSize)
	pool.Start()

	sched := scheduler.New(pool)
	sched.Schedule(giveawayPollInterval, worker.NewGiveawayWorker(giveawayService))
	sched.Schedule(dailyResetPollInterval, worker.NewDailyResetWorker(userRepo))

	var feedWorker *worker.FeedWorker
	if cfg.FeedBots {
		feedWorker = worker.NewFeedWorker(feed.NewBotDropper(liveFeed, cat, nil))
		feedWorker.Start()
	}

	srv := server.NewServer(cfg.Port, dbPool, server.Services{
		Catalog:  cat,
		Feed:     liveFeed,
		User:     userService,
		Casebox:  caseboxService,
		Upgrade:  upgradeService,
		Economy:  economyService,
		Giveaway: giveawayService,
	})

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Server failed", "error", err)
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	slog.Info("Shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Stop(ctx); err != nil {
		slog.Error("Server forced shutdown", "error", err)
	}
	sched.Stop()
	pool.Stop()
	if feedWorker != nil {
		feedWorker.Stop()
	}

	slog.Info("Server stopped")
}
