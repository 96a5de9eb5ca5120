// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package main

import (
	"context"
	"fmt"

	"github.com/MKhiriev/decklister/internal/config"
	"github.com/MKhiriev/decklister/internal/handler"
	"github.com/MKhiriev/decklister/internal/logger"
	"github.com/MKhiriev/decklister/internal/server"
	"github.com/MKhiriev/decklister/internal/service"
	"github.com/MKhiriev/decklister/internal/store"
	"github.com/MKhiriev/decklister/internal/workers"
	"github.com/MKhiriev/decklister/models"
)

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

func main() {
	buildInfo := models.NewAppBuildInfo(buildVersion, buildDate, buildCommit)
	fmt.Print(buildInfo)

	cfg, err := config.GetStructuredConfig()
	if err != nil {
		logger.NewLogger("decklister-server").Fatal().Err(err).Msg("error getting configs")
	}
	if cfg.App.Version == "" {
		cfg.App.Version = buildInfo.BuildVersion()
	}

	log := logger.NewLogger("decklister-server", logger.WithLevel(logger.LevelForProfile(cfg.App.IsProduction())))
	log.Debug().
		Str("profile", cfg.App.Profile).
		Str("driver", cfg.Storage.Driver).
		Str("address", cfg.Server.HTTPAddress).
		Msg("received configs")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	storages, err := store.NewStorages(ctx, cfg.Storage, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating storages")
	}
	defer func() {
		if err := storages.Close(); err != nil {
			log.Err(err).Msg("error closing storages")
		}
	}()

	services, err := service.NewServices(ctx, storages, cfg.App, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating services")
	}

	handlers, err := handler.NewHandlers(services, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating handlers")
	}

	srv, err := server.NewServer(handlers, cfg.Server, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating server")
	}

	background := workers.NewWorkers(storages, cfg.Storage, log)
	workersDone := make(chan struct{})
	go func() {
		defer close(workersDone)
		background.Run(ctx)
	}()

	srv.RunServer()

	cancel()
	<-workersDone
}
