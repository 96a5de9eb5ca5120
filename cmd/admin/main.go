// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Command admin is the operator tool for a decklister deployment.
//
// Store commands (keys, reconcile) open the configured backend directly and
// read the same environment and JSON config as the server. Deck commands
// (export, import, share) go through the HTTP API of a running server.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v2"

	"github.com/MKhiriev/decklister/internal/logger"
)

func main() {
	log := logger.NewLogger("decklister-admin", logger.WithOutput(os.Stderr))

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := newApp(log).RunContext(ctx, os.Args); err != nil {
		log.Error().Err(err).Msg("admin command failed")
		os.Exit(1)
	}
}

func newApp(log *logger.Logger) *cli.App {
	var configPath string
	return &cli.App{
		Name:  "decklister-admin",
		Usage: "Inspect and repair a decklister deployment",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "config",
				Aliases:     []string{"c"},
				Usage:       "Path to the JSON config file shared with the server",
				EnvVars:     []string{"CONFIG"},
				Destination: &configPath,
			},
		},
		Commands: []*cli.Command{
			keysCmd(&configPath, log),
			reconcileCmd(&configPath, log),
			exportCmd(log),
			importCmd(log),
			shareCmd(log),
		},
	}
}
