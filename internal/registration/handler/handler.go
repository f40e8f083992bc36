// Package handler is the thin HTTP layer over the registration service. It
// decodes and validates request bodies, delegates to the service and writes
// the JSON envelopes; business logic stays out.
package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"skibazar/internal/platform/metrics"
	"skibazar/internal/platform/middleware"
	"skibazar/internal/registration/models"
	dErrors "skibazar/pkg/domain-errors"
	"skibazar/pkg/platform/httputil"
	"skibazar/pkg/platform/middleware/admin"
)

// Service defines the registration operations the handler depends on.
type Service interface {
	Create(ctx context.Context, reg *models.Registration) (string, error)
	Get(ctx context.Context, identifier string) (*models.Registration, error)
	Replace(ctx context.Context, identifier string, reg *models.Registration) error
	List(ctx context.Context) ([]*models.Registration, error)
}

// Handler handles the registration endpoints.
type Handler struct {
	logger     *slog.Logger
	service    Service
	metrics    *metrics.Metrics
	adminToken string
}

// New creates a registration Handler.
func New(service Service, logger *slog.Logger, m *metrics.Metrics, adminToken string) *Handler {
	return &Handler{
		logger:     logger,
		service:    service,
		metrics:    m,
		adminToken: adminToken,
	}
}

// Register mounts the registration routes with their middleware chain. The
// listing route additionally passes the admin gate.
func (h *Handler) Register(r chi.Router) {
	router := chi.NewRouter()
	router.Use(middleware.Recovery(h.logger))
	router.Use(middleware.RequestID)
	router.Use(middleware.Logger(h.logger))
	router.Use(middleware.Latency(h.metrics))
	router.Post("/api/registrations", h.handleCreate)
	router.Get("/api/registrations/{identifier}", h.handleGet)
	router.Put("/api/registrations/{identifier}", h.handleUpdate)
	router.With(admin.RequireAdminToken(h.adminToken, h.logger)).
		Get("/api/registrations", h.handleList)

	r.Mount("/", router)
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	payload, err := decodePayload(r)
	if err != nil {
		h.logger.WarnContext(ctx, "invalid create request",
			"request_id", middleware.GetRequestID(ctx),
			"error", err.Error(),
		)
		httputil.WriteError(w, err)
		return
	}

	identifier, err := h.service.Create(ctx, payload.toModel())
	if err != nil {
		h.logger.ErrorContext(ctx, "create registration failed",
			"request_id", middleware.GetRequestID(ctx),
			"error", err.Error(),
		)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, statusResponse{Status: "ok", Identifier: identifier})
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	identifier := chi.URLParam(r, "identifier")

	reg, err := h.service.Get(ctx, identifier)
	if err != nil {
		if !dErrors.Is(err, dErrors.CodeNotFound) {
			h.logger.ErrorContext(ctx, "get registration failed",
				"request_id", middleware.GetRequestID(ctx),
				"error", err.Error(),
			)
		}
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, toResponse(reg))
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	identifier := chi.URLParam(r, "identifier")

	payload, err := decodePayload(r)
	if err != nil {
		h.logger.WarnContext(ctx, "invalid update request",
			"request_id", middleware.GetRequestID(ctx),
			"error", err.Error(),
		)
		httputil.WriteError(w, err)
		return
	}

	if err := h.service.Replace(ctx, identifier, payload.toModel()); err != nil {
		if !dErrors.Is(err, dErrors.CodeNotFound) {
			h.logger.ErrorContext(ctx, "update registration failed",
				"request_id", middleware.GetRequestID(ctx),
				"error", err.Error(),
			)
		}
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, statusResponse{Status: "ok", Identifier: identifier})
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	regs, err := h.service.List(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "list registrations failed",
			"request_id", middleware.GetRequestID(ctx),
			"error", err.Error(),
		)
		httputil.WriteError(w, err)
		return
	}

	result := make([]registrationResponse, 0, len(regs))
	for _, reg := range regs {
		result = append(result, toResponse(reg))
	}
	httputil.WriteJSON(w, http.StatusOK, result)
}

func decodePayload(r *http.Request) (*registrationPayload, error) {
	var payload registrationPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		return nil, dErrors.New(dErrors.CodeBadRequest, "invalid request body")
	}
	if err := payload.validate(); err != nil {
		return nil, err
	}
	return &payload, nil
}
