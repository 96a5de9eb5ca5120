// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/MKhiriev/decklister/internal/adapter"
	"github.com/MKhiriev/decklister/internal/logger"
	"github.com/MKhiriev/decklister/models"
)

// apiOptions are the flags shared by commands that talk to a server.
type apiOptions struct {
	server   string
	user     string
	token    string
	username string
	password string
	timeout  time.Duration
}

func (o *apiOptions) flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "server",
			Aliases:     []string{"s"},
			Usage:       "Server address",
			Value:       "http://localhost:8080",
			EnvVars:     []string{"DECKLISTER_SERVER"},
			Destination: &o.server,
		},
		&cli.StringFlag{
			Name:        "user",
			Aliases:     []string{"u"},
			Usage:       "Deck identity (UUID)",
			Required:    true,
			Destination: &o.user,
		},
		&cli.StringFlag{
			Name:        "token",
			Usage:       "Session token for a protected identity",
			EnvVars:     []string{"DECKLISTER_TOKEN"},
			Destination: &o.token,
		},
		&cli.StringFlag{
			Name:        "username",
			Usage:       "Log in as this account instead of passing --token",
			Destination: &o.username,
		},
		&cli.StringFlag{
			Name:        "password",
			Usage:       "Account password, read from the environment by default",
			EnvVars:     []string{"DECKLISTER_PASSWORD"},
			Destination: &o.password,
		},
		&cli.DurationFlag{
			Name:        "timeout",
			Value:       15 * time.Second,
			Destination: &o.timeout,
		},
	}
}

// client builds an API client and authenticates it when credentials or a
// token were given.
func (o *apiOptions) client(ctx context.Context, log *logger.Logger) (adapter.DeckClient, error) {
	client, err := adapter.NewHTTPDeckClient(o.server, o.timeout, log)
	if err != nil {
		return nil, err
	}

	switch {
	case o.username != "":
		if _, err = client.Login(ctx, o.username, o.password); err != nil {
			return nil, fmt.Errorf("error logging in as %q: %w", o.username, err)
		}
	case o.token != "":
		client.SetToken(o.token)
	}
	return client, nil
}

func exportCmd(log *logger.Logger) *cli.Command {
	opts := &apiOptions{}
	var out string
	return &cli.Command{
		Name:  "export",
		Usage: "Download a deck collection as JSON",
		Flags: append(opts.flags(), &cli.StringFlag{
			Name:        "out",
			Aliases:     []string{"o"},
			Usage:       "Output file, stdout when empty",
			Destination: &out,
		}),
		Action: func(c *cli.Context) error {
			client, err := opts.client(c.Context, log)
			if err != nil {
				return err
			}

			w := c.App.Writer
			if out != "" {
				f, err := os.Create(out)
				if err != nil {
					return fmt.Errorf("error creating %s: %w", out, err)
				}
				defer f.Close()
				w = f
			}
			return runExport(c.Context, client, opts.user, w)
		},
	}
}

func importCmd(log *logger.Logger) *cli.Command {
	opts := &apiOptions{}
	var in string
	return &cli.Command{
		Name:  "import",
		Usage: "Replace a deck collection with the contents of a JSON file",
		Flags: append(opts.flags(), &cli.StringFlag{
			Name:        "in",
			Aliases:     []string{"i"},
			Usage:       "Input file, stdin when empty",
			Destination: &in,
		}),
		Action: func(c *cli.Context) error {
			client, err := opts.client(c.Context, log)
			if err != nil {
				return err
			}

			var r io.Reader = os.Stdin
			if in != "" {
				f, err := os.Open(in)
				if err != nil {
					return fmt.Errorf("error opening %s: %w", in, err)
				}
				defer f.Close()
				r = f
			}
			return runImport(c.Context, client, opts.user, r, c.App.Writer)
		},
	}
}

func shareCmd(log *logger.Logger) *cli.Command {
	opts := &apiOptions{}
	var deckID string
	return &cli.Command{
		Name:  "share",
		Usage: "Publish one deck and print its share id",
		Flags: append(opts.flags(), &cli.StringFlag{
			Name:        "deck",
			Aliases:     []string{"d"},
			Usage:       "Deck id",
			Required:    true,
			Destination: &deckID,
		}),
		Action: func(c *cli.Context) error {
			client, err := opts.client(c.Context, log)
			if err != nil {
				return err
			}
			return runShare(c.Context, client, opts.user, deckID, c.App.Writer)
		},
	}
}

func runExport(ctx context.Context, client adapter.DeckClient, user string, w io.Writer) error {
	decks, err := client.GetDecks(ctx, user)
	if err != nil {
		return fmt.Errorf("error exporting decks of %s: %w", user, err)
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(decks)
}

func runImport(ctx context.Context, client adapter.DeckClient, user string, r io.Reader, w io.Writer) error {
	var decks models.DeckCollection
	if err := json.NewDecoder(r).Decode(&decks); err != nil {
		return fmt.Errorf("error decoding deck collection: %w", err)
	}

	stored, err := client.PutDecks(ctx, user, decks)
	if err != nil {
		return fmt.Errorf("error importing decks of %s: %w", user, err)
	}

	_, err = fmt.Fprintf(w, "imported %d decks into %s\n", len(stored), user)
	return err
}

func runShare(ctx context.Context, client adapter.DeckClient, user, deckID string, w io.Writer) error {
	shareID, err := client.CreateShare(ctx, user, deckID)
	if err != nil {
		return fmt.Errorf("error sharing deck %s of %s: %w", deckID, user, err)
	}
	_, err = fmt.Fprintln(w, shareID)
	return err
}
