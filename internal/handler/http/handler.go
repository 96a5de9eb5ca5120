// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"github.com/MKhiriev/decklister/internal/config"
	"github.com/MKhiriev/decklister/internal/logger"
	"github.com/MKhiriev/decklister/internal/service"
)

type Handler struct {
	services *service.Services

	cfg          config.Server
	maxDeckBytes int64

	logger *logger.Logger
}

// NewHandler creates the HTTP handler. maxDeckBytes bounds how much of a
// deck collection body is read before the request is rejected.
func NewHandler(services *service.Services, cfg config.Server, maxDeckBytes int64, logger *logger.Logger) *Handler {
	logger.Info().Msg("http handler created")
	return &Handler{
		services:     services,
		cfg:          cfg,
		maxDeckBytes: maxDeckBytes,
		logger:       logger,
	}
}
