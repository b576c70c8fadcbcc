package main

import (
	"context"
	"time"

	"github.com/cppla/earlybird/config"
	"github.com/cppla/earlybird/jobs"
	"github.com/cppla/earlybird/models"
	"github.com/cppla/earlybird/routes"
	"github.com/cppla/earlybird/services"
	"github.com/cppla/earlybird/store"
	"github.com/cppla/earlybird/utils"
)

func main() {
	cfg := config.Load()

	// Initialize logger early
	if err := utils.InitLogger(cfg.Log); err != nil {
		panic(err)
	}
	defer utils.Logger.Sync() //nolint:errcheck

	rules, err := services.RulesFromConfig(cfg.CheckIn)
	if err != nil {
		utils.Sugar.Fatalf("invalid check-in rules: %v", err)
	}

	db := config.InitDatabase(models.AllModels()...)
	s := store.NewGorm(db)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := s.EnsureBadges(ctx, models.DefaultBadges()); err != nil {
		utils.Sugar.Fatalf("seed badges: %v", err)
	}

	// Warm the cache connection; a nil client means memory fallbacks.
	if utils.GetRedis() == nil {
		utils.Sugar.Info("redis disabled, using in-memory cache and token blacklist")
	}

	opts := []services.Option{services.WithLogger(utils.Logger)}
	qrCodes := services.NewQRCodeService(s, rules, opts...)

	r := routes.SetupRouter(routes.Dependencies{
		Config:    cfg,
		Store:     s,
		CheckIns:  services.NewCheckInService(s, rules, opts...),
		Stats:     services.NewStatsService(s, rules, opts...),
		Rewards:   services.NewRewardService(s, opts...),
		QRCodes:   qrCodes,
		Bonuses:   services.NewBonusService(s, opts...),
		AccessLog: utils.NewAccessLogger(cfg.App.GinLogPath, cfg.Log),
	})

	jobs.QRCodePurge{
		Cleaner:   qrCodes,
		Retention: time.Duration(cfg.App.QRCodeRetentionDays) * 24 * time.Hour,
		Logger:    utils.Logger.Named("jobs"),
	}.Start(ctx)

	utils.Sugar.Infof("Starting server on port %s (graceful)", cfg.App.Port)
	if err := utils.GraceServer(ctx, ":"+cfg.App.Port, r); err != nil {
		utils.Sugar.Fatalf("server stopped with error: %v", err)
	}
}
