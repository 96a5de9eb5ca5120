// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/urfave/cli/v2"

	"github.com/MKhiriev/decklister/internal/config"
	"github.com/MKhiriev/decklister/internal/logger"
	"github.com/MKhiriev/decklister/internal/service"
	"github.com/MKhiriev/decklister/internal/store"
)

var errInconsistent = errors.New("account index is inconsistent, rerun with --fix to repair")

// openStorages loads the server configuration and opens its backend.
func openStorages(ctx context.Context, configPath string, log *logger.Logger) (*store.Storages, error) {
	var args []string
	if configPath != "" {
		args = []string{"-config", configPath}
	}

	cfg, err := config.GetStructuredConfigFromArgs(args)
	if err != nil {
		return nil, fmt.Errorf("error getting configs: %w", err)
	}

	return store.NewStorages(ctx, cfg.Storage, log)
}

// withStorages runs fn against the configured backend and closes it.
func withStorages(c *cli.Context, configPath string, log *logger.Logger, fn func(kv store.KV) error) error {
	storages, err := openStorages(c.Context, configPath, log)
	if err != nil {
		return err
	}
	defer storages.Close()

	return fn(storages.KV)
}

func keysCmd(configPath *string, log *logger.Logger) *cli.Command {
	var prefix string
	return &cli.Command{
		Name:  "keys",
		Usage: "Inspect raw store keys",
		Subcommands: []*cli.Command{
			{
				Name:      "get",
				Usage:     "Print the value stored under a key",
				ArgsUsage: "KEY",
				Action: func(c *cli.Context) error {
					if c.NArg() != 1 {
						return cli.Exit("exactly one KEY is required", 2)
					}
					return withStorages(c, *configPath, log, func(kv store.KV) error {
						return runKeysGet(c.Context, kv, c.Args().First(), c.App.Writer)
					})
				},
			},
			{
				Name:  "list",
				Usage: "List live keys",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:        "prefix",
						Aliases:     []string{"p"},
						Usage:       "Only list keys starting with `PREFIX`, e.g. account: or share:",
						Destination: &prefix,
					},
				},
				Action: func(c *cli.Context) error {
					return withStorages(c, *configPath, log, func(kv store.KV) error {
						return runKeysList(c.Context, kv, prefix, c.App.Writer)
					})
				},
			},
		},
	}
}

func reconcileCmd(configPath *string, log *logger.Logger) *cli.Command {
	var fix bool
	return &cli.Command{
		Name:  "reconcile",
		Usage: "Check accounts against the deck identity index",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "fix",
				Usage:       "Delete dangling index entries and restore missing ones",
				Destination: &fix,
			},
		},
		Action: func(c *cli.Context) error {
			return withStorages(c, *configPath, log, func(kv store.KV) error {
				ctx := log.WithContext(c.Context)
				return runReconcile(ctx, service.NewReconciler(kv), fix, c.App.Writer)
			})
		},
	}
}

func runKeysGet(ctx context.Context, kv store.KV, key string, w io.Writer) error {
	value, err := kv.Get(ctx, key)
	if err != nil {
		return fmt.Errorf("error reading %q: %w", key, err)
	}
	_, err = fmt.Fprintln(w, value)
	return err
}

func runKeysList(ctx context.Context, kv store.KV, prefix string, w io.Writer) error {
	keys, err := kv.List(ctx, prefix)
	if err != nil {
		return fmt.Errorf("error listing keys: %w", err)
	}
	for _, key := range keys {
		if _, err = fmt.Fprintln(w, key); err != nil {
			return err
		}
	}
	return nil
}

// runReconcile prints the report as JSON. An inconsistent index that was
// not fixed is reported as an error so scripts can detect it.
func runReconcile(ctx context.Context, reconciler service.Reconciler, fix bool, w io.Writer) error {
	report, err := reconciler.Reconcile(ctx, fix)
	if err != nil {
		return fmt.Errorf("error reconciling accounts: %w", err)
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err = enc.Encode(report); err != nil {
		return err
	}

	if !report.Consistent() && !report.Fixed {
		return errInconsistent
	}
	return nil
}
