// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"net/http"

	"github.com/MKhiriev/decklister/internal/utils"
)

// getServerVersion handles GET /healthz.
func (h *Handler) getServerVersion(w http.ResponseWriter, r *http.Request) {
	serverVersion := h.services.AppInfoService.GetAppVersion(r.Context())

	utils.WriteRaw(w, []byte(serverVersion), "text/plain; charset=utf-8", http.StatusOK)
}
