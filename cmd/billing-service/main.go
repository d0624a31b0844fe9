package main

import (
	"context"
	"fmt"
	"os"

	"github.com/nurpe/contracts-billing/internal/auth"
	"github.com/nurpe/contracts-billing/internal/config"
	"github.com/nurpe/contracts-billing/internal/db"
	"github.com/nurpe/contracts-billing/internal/excel"
	httphandler "github.com/nurpe/contracts-billing/internal/http"
	"github.com/nurpe/contracts-billing/internal/http/middleware"
	"github.com/nurpe/contracts-billing/internal/logger"
	"github.com/nurpe/contracts-billing/internal/pdf"
	"github.com/nurpe/contracts-billing/internal/repository"
	"github.com/nurpe/contracts-billing/internal/seed"
	"github.com/nurpe/contracts-billing/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.Environment)

	database, err := db.New(cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect database")
	}

	if cfg.Billing.SeedOnStart {
		if err := seed.New(database, log).Run(context.Background()); err != nil {
			log.Fatal().Err(err).Msg("failed to seed database")
		}
	}

	txManager, err := repository.NewTxManager(database, cfg.DB.LockTimeout)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to init transaction manager")
	}
	profileRepo := repository.NewProfileRepository(database)
	jobRepo := repository.NewJobRepository(database)
	contractRepo := repository.NewContractRepository(database)
	reportRepo := repository.NewReportRepository(database)

	pdfGenerator, err := pdf.NewGenerator()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to init pdf generator")
	}
	excelGenerator := excel.NewGenerator()

	jobService := service.NewJobService(txManager, jobRepo, pdfGenerator, cfg)
	profileService := service.NewProfileService(txManager, profileRepo, cfg)
	contractService := service.NewContractService(contractRepo)
	adminService := service.NewAdminService(reportRepo, excelGenerator)

	tokenParser := auth.NewParser(cfg.Auth.AccessSecret)
	handler := httphandler.NewHandler(jobService, profileService, contractService, adminService, log)
	authMiddleware := middleware.Auth(tokenParser, profileService)
	router := httphandler.NewRouter(handler, authMiddleware, cfg.Environment)

	addr := fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port)
	log.Info().Str("addr", addr).Msg("starting billing service")

	if err := router.Run(addr); err != nil {
		log.Error().Err(err).Msg("server stopped")
		os.Exit(1)
	}
}
