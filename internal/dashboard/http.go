// Copyright (c) 2026 Elimu. All rights reserved.
// Author: joseph.masanja.tz@gmail.com

package dashboard

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/jmasanja/elimu/internal/platform/middleware"
	"github.com/jmasanja/elimu/internal/platform/respond"
	"github.com/jmasanja/elimu/internal/platform/sec"
)

// Handler implements the HTTP layer for the staff dashboard.
type Handler struct {
	dashboardService *Service
	gate             *middleware.Gate
}

// NewHandler constructs a new dashboard [Handler].
func NewHandler(service *Service, gate *middleware.Gate) *Handler {
	return &Handler{dashboardService: service, gate: gate}
}

// capabilities is the route-capability table for this module.
var capabilities = map[string]middleware.Capability{
	"stats": middleware.RequireRoles(sec.RoleAdmin, sec.RoleTeacher),
}

// Routes returns a [chi.Router] configured with the dashboard endpoints.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.With(handler.gate.Allow(capabilities["stats"])).Get("/stats", handler.stats)

	return router
}

func (handler *Handler) stats(writer http.ResponseWriter, request *http.Request) {
	stats, err := handler.dashboardService.Stats(request.Context())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, stats)
}
