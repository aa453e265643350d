// File: cmd/app/main.go
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"discord-guild-economy/internal/application"
	"discord-guild-economy/internal/config"
	"discord-guild-economy/internal/domain/ports/adapter"
	dg "discord-guild-economy/internal/infra/adapters/discord"
	pg "discord-guild-economy/internal/infra/db/postgres"
	httpapi "discord-guild-economy/internal/infra/http"
	"discord-guild-economy/internal/infra/logging"
	"discord-guild-economy/internal/infra/metrics"
	red "discord-guild-economy/internal/infra/redis"
	"discord-guild-economy/internal/infra/worker"
	"discord-guild-economy/internal/usecase"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ---- CLI flags ----
	cfgPath := flag.String("config", "config.yaml", "path to YAML config file")
	devMode := flag.Bool("dev", false, "enable developer mode (noop guild adapter, console logs)")
	flag.Parse()

	cfg, err := config.LoadConfig(*cfgPath, *devMode)
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger := logging.New(cfg.Log, cfg.Runtime.Dev)
	if cfg.Runtime.Dev {
		logger.Info().Msg("dev mode enabled")
	}

	metrics.Register()

	// ---- Postgres ----
	pool, err := pg.NewPgxPool(ctx, cfg.Database.URL, 10)
	if err != nil {
		logger.Fatal().Err(err).Msg("postgres")
	}
	defer pool.Close()
	if err := pg.EnsureSchema(ctx, pool); err != nil {
		logger.Fatal().Err(err).Msg("schema")
	}

	// ---- Redis ----
	redisClient, err := red.NewClient(ctx, &cfg.Redis)
	if err != nil {
		logger.Fatal().Err(err).Msg("redis")
	}
	defer redisClient.Close()
	locker := red.NewLocker(redisClient)

	// ---- Repositories ----
	recordRepo := pg.NewPostgresRecordRepo(pool)
	modLogRepo := pg.NewPostgresModLogRepo(pool)
	txManager := pg.NewTxManager(pool)

	// ---- Worker pool ----
	wpool := worker.NewPool(cfg.Bot.Workers, logger)
	wpool.Start(ctx)
	defer wpool.Stop()

	// ---- Use cases ----
	activityUC := usecase.NewActivityUseCase(recordRepo, txManager, locker, logger)

	// The guild adapter backs the purchase and moderation flows, so wire it
	// in two phases: dev runs get the in-memory noop guild.
	var guild adapter.GuildAdapter
	var session *dg.RealSessionAdapter
	facade := application.NewBotFacade(activityUC, nil, nil)

	if cfg.Runtime.Dev {
		guild = dg.NewNoopSessionAdapter(logger)
	} else {
		session, err = dg.NewRealSessionAdapter(cfg, facade, wpool, logger)
		if err != nil {
			logger.Fatal().Err(err).Msg("discord session")
		}
		guild = session
	}

	purchaseUC := usecase.NewPurchaseUseCase(recordRepo, guild, locker, cfg.Economy.AdminRoleBlock, nil, logger)
	moderationUC := usecase.NewModerationUseCase(guild, modLogRepo, usecase.ModerationConfig{
		MutedRoleID:       cfg.Moderation.MutedRoleID,
		StaffRoleID:       cfg.Moderation.StaffRoleID,
		TrialModRoleID:    cfg.Moderation.TrialModRoleID,
		TicketCategoryID:  cfg.Moderation.TicketCategoryID,
		ArchiveCategoryID: cfg.Moderation.ArchiveCategoryID,
	}, logger)
	facade.PurchaseUC = purchaseUC
	facade.ModerationUC = moderationUC

	// ---- Gateway ----
	if session != nil {
		go func() {
			if err := session.Start(ctx); err != nil {
				logger.Error().Err(err).Msg("gateway session stopped")
				cancel()
			}
		}()
	}

	// ---- Ops HTTP server (healthz + metrics) ----
	ops := httpapi.NewOpsServer(cfg.Metrics.Port, logger)
	go func() {
		if err := ops.Start(ctx); err != nil {
			logger.Error().Err(err).Msg("ops server stopped")
		}
	}()

	// ---- Graceful shutdown ----
	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-sigc:
		logger.Info().Msg("shutdown requested")
	case <-ctx.Done():
	}
	cancel()
}
