// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package adapter

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/MKhiriev/decklister/internal/logger"
	"github.com/MKhiriev/decklister/internal/utils"
	"github.com/MKhiriev/decklister/models"
)

type httpDeckClient struct {
	client *utils.HTTPClient

	mu    sync.RWMutex
	token string

	logger *logger.Logger
}

// NewHTTPDeckClient returns a [DeckClient] for the server at address. A
// missing scheme defaults to http.
func NewHTTPDeckClient(address string, timeout time.Duration, logger *logger.Logger) (DeckClient, error) {
	baseURL, err := normalizeBaseURL(address)
	if err != nil {
		return nil, fmt.Errorf("invalid server address: %w", err)
	}

	return &httpDeckClient{
		client: utils.NewHTTPClient(baseURL, timeout),
		logger: logger,
	}, nil
}

func normalizeBaseURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", fmt.Errorf("empty address")
	}

	if !strings.Contains(raw, "://") {
		raw = "http://" + raw
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", err
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("address must include host and scheme")
	}

	return strings.TrimRight(u.String(), "/"), nil
}

func (h *httpDeckClient) SetToken(token string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.token = strings.TrimSpace(token)
}

func (h *httpDeckClient) Token() string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.token
}

func (h *httpDeckClient) Login(ctx context.Context, username, password string) (models.LoginResponse, error) {
	var result models.LoginResponse

	resp, err := h.client.R().
		SetContext(ctx).
		SetBody(models.LoginRequest{Username: username, Password: password}).
		SetResult(&result).
		Post("/api/auth/login")
	if err != nil {
		return models.LoginResponse{}, fmt.Errorf("login request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return models.LoginResponse{}, err
	}

	h.SetToken(result.Token)
	h.logger.Debug().Str("username", result.Username).Str("uuid", result.UUID).Msg("logged in")
	return result, nil
}

func (h *httpDeckClient) GetDecks(ctx context.Context, user string) (models.DeckCollection, error) {
	resp, err := h.authedRequest(ctx).
		SetPathParam("user", user).
		Get("/api/{user}")
	if err != nil {
		return nil, fmt.Errorf("get decks request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return nil, err
	}

	var decks models.DeckCollection
	if err = json.Unmarshal(resp.Body(), &decks); err != nil {
		return nil, fmt.Errorf("decode decks response: %w", err)
	}
	return decks, nil
}

func (h *httpDeckClient) PutDecks(ctx context.Context, user string, decks models.DeckCollection) (models.DeckCollection, error) {
	if decks == nil {
		decks = models.DeckCollection{}
	}

	resp, err := h.authedRequest(ctx).
		SetPathParam("user", user).
		SetBody(decks).
		Put("/api/{user}")
	if err != nil {
		return nil, fmt.Errorf("put decks request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return nil, err
	}

	var stored models.DeckCollection
	if err = json.Unmarshal(resp.Body(), &stored); err != nil {
		return nil, fmt.Errorf("decode decks response: %w", err)
	}
	return stored, nil
}

func (h *httpDeckClient) CreateShare(ctx context.Context, user, deckID string) (string, error) {
	var result models.ShareResponse

	resp, err := h.authedRequest(ctx).
		SetBody(models.ShareRequest{User: user, DeckID: deckID}).
		SetResult(&result).
		Post("/api/share")
	if err != nil {
		return "", fmt.Errorf("create share request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return "", err
	}
	return result.UUID, nil
}

func (h *httpDeckClient) ResolveShare(ctx context.Context, shareID string) (string, error) {
	resp, err := h.client.R().
		SetContext(ctx).
		SetPathParam("id", shareID).
		Get("/api/share/{id}")
	if err != nil {
		return "", fmt.Errorf("resolve share request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return "", err
	}
	return string(resp.Body()), nil
}

func (h *httpDeckClient) Version(ctx context.Context) (string, error) {
	resp, err := h.client.R().SetContext(ctx).Get("/healthz")
	if err != nil {
		return "", fmt.Errorf("version request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return "", err
	}
	return strings.TrimSpace(string(resp.Body())), nil
}

func (h *httpDeckClient) authedRequest(ctx context.Context) *resty.Request {
	req := h.client.R().SetContext(ctx)
	if token := h.Token(); token != "" {
		req.SetAuthToken(token)
	}
	return req
}
