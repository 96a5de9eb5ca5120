// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/decklister/internal/adapter"
	"github.com/MKhiriev/decklister/internal/config"
	handlerhttp "github.com/MKhiriev/decklister/internal/handler/http"
	"github.com/MKhiriev/decklister/internal/logger"
	"github.com/MKhiriev/decklister/internal/service"
	"github.com/MKhiriev/decklister/internal/store"
	"github.com/MKhiriev/decklister/models"
)

func newMemoryKV(t *testing.T) *store.BadgerKV {
	t.Helper()
	kv, err := store.NewInMemoryBadgerKV(logger.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = kv.Close() })
	return kv
}

func TestRunKeys(t *testing.T) {
	ctx := context.Background()
	kv := newMemoryKV(t)
	require.NoError(t, kv.Put(ctx, store.ShareKey("s-1"), `{"uuid":"u-1","deckId":"d1"}`))
	require.NoError(t, kv.Put(ctx, store.ShareKey("s-2"), `{"uuid":"u-1","deckId":"d2"}`))
	require.NoError(t, kv.Put(ctx, store.DecksKey("u-1"), `[]`))

	var out bytes.Buffer
	require.NoError(t, runKeysList(ctx, kv, "share:", &out))
	assert.Equal(t, "share:s-1\nshare:s-2\n", out.String())

	out.Reset()
	require.NoError(t, runKeysGet(ctx, kv, store.ShareKey("s-2"), &out))
	assert.Equal(t, "{\"uuid\":\"u-1\",\"deckId\":\"d2\"}\n", out.String())

	err := runKeysGet(ctx, kv, "share:missing", &out)
	assert.ErrorIs(t, err, store.ErrKeyNotFound)
}

func TestRunReconcile(t *testing.T) {
	ctx := context.Background()
	kv := newMemoryKV(t)
	require.NoError(t, kv.Put(ctx, store.UUIDAccountKey("u-ghost"), "ghost"))

	var out bytes.Buffer
	err := runReconcile(ctx, service.NewReconciler(kv), false, &out)
	assert.ErrorIs(t, err, errInconsistent)

	var report models.ReconcileReport
	require.NoError(t, json.Unmarshal(out.Bytes(), &report))
	assert.Equal(t, []string{"u-ghost"}, report.DanglingPointers)

	out.Reset()
	require.NoError(t, runReconcile(ctx, service.NewReconciler(kv), true, &out))

	out.Reset()
	require.NoError(t, runReconcile(ctx, service.NewReconciler(kv), false, &out))
	require.NoError(t, json.Unmarshal(out.Bytes(), &report))
	assert.True(t, report.Consistent())
}

func newTestServer(t *testing.T) (adapter.DeckClient, string) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	storages, err := store.NewStorages(ctx, config.Storage{Driver: config.DriverMemory}, logger.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = storages.Close() })

	appCfg := config.App{
		Profile:            config.ProfileDevelopment,
		TokenSignKey:       "admin-test-sign-key",
		TokenDuration:      time.Hour,
		PasswordIterations: 1000,
		NonceTTL:           time.Minute,
		MaxDeckBytes:       1_000_000,
		LoginMaxFailures:   5,
		LoginFailureWindow: time.Minute,
		Version:            "1.0.0-test",
	}
	services, err := service.NewServices(ctx, storages, appCfg, logger.Nop())
	require.NoError(t, err)

	h := handlerhttp.NewHandler(services, config.Server{}, appCfg.MaxDeckBytes, logger.Nop())
	srv := httptest.NewServer(h.Init())
	t.Cleanup(srv.Close)

	client, err := adapter.NewHTTPDeckClient(srv.URL, 5*time.Second, logger.Nop())
	require.NoError(t, err)
	return client, srv.URL
}

func TestImportExportShare(t *testing.T) {
	ctx := context.Background()
	client, _ := newTestServer(t)

	var out bytes.Buffer
	in := strings.NewReader(`[{"id":"d1","text":"Burn\n4x Lightning Bolt"},{"id":"d2","text":"Control"}]`)
	require.NoError(t, runImport(ctx, client, "u-1", in, &out))
	assert.Equal(t, "imported 2 decks into u-1\n", out.String())

	out.Reset()
	require.NoError(t, runExport(ctx, client, "u-1", &out))
	var decks models.DeckCollection
	require.NoError(t, json.Unmarshal(out.Bytes(), &decks))
	require.Len(t, decks, 2)
	assert.Equal(t, "Burn", decks[0].Title())

	out.Reset()
	require.NoError(t, runShare(ctx, client, "u-1", "d1", &out))
	shareID := strings.TrimSpace(out.String())
	require.NotEmpty(t, shareID)

	text, err := client.ResolveShare(ctx, shareID)
	require.NoError(t, err)
	assert.Equal(t, "Burn\n4x Lightning Bolt", text)
}

func TestRunImport_InvalidJSON(t *testing.T) {
	client, _ := newTestServer(t)

	err := runImport(context.Background(), client, "u-1", strings.NewReader(`{"not":"a list"}`), &bytes.Buffer{})

	assert.ErrorContains(t, err, "error decoding deck collection")
}

func TestApp_ExportToFile(t *testing.T) {
	client, url := newTestServer(t)
	_, err := client.PutDecks(context.Background(), "u-1", models.DeckCollection{{ID: "d1", Text: "Mono red"}})
	require.NoError(t, err)

	out := filepath.Join(t.TempDir(), "decks.json")
	app := newApp(logger.Nop())
	app.Writer = &bytes.Buffer{}

	err = app.RunContext(context.Background(), []string{
		"decklister-admin", "export",
		"--server", url,
		"--user", "u-1",
		"--out", out,
	})
	require.NoError(t, err)

	raw, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.JSONEq(t, `[{"id":"d1","text":"Mono red"}]`, string(raw))
}

func TestApp_KeysWithConfigFile(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.json")
	cfg := `{"storage": {"driver": "badger", "badger": {"dir": ` + jsonString(filepath.Join(dir, "data")) + `}}}`
	require.NoError(t, os.WriteFile(cfgPath, []byte(cfg), 0o600))

	var buf bytes.Buffer
	app := newApp(logger.Nop())
	app.Writer = &buf

	require.NoError(t, app.RunContext(context.Background(), []string{
		"decklister-admin", "--config", cfgPath, "keys", "list", "--prefix", "account:",
	}))
	assert.Empty(t, buf.String())
}

func jsonString(s string) string {
	raw, _ := json.Marshal(s)
	return string(raw)
}
