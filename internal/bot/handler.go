// AngelaMos | 2026
// handler.go

package bot

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/umb-labs/umb-api/internal/core"
	"github.com/umb-labs/umb-api/internal/middleware"
)

type Handler struct {
	service   *Service
	validator *validator.Validate
}

func NewHandler(service *Service) *Handler {
	return &Handler{
		service:   service,
		validator: core.NewValidator(),
	}
}

func (h *Handler) RegisterRoutes(
	r chi.Router,
	authenticator, adminOnly func(http.Handler) http.Handler,
) {
	r.Route("/bots", func(r chi.Router) {
		r.Use(authenticator)
		r.Use(adminOnly)

		r.Get("/", h.List)
		r.Post("/", h.Create)

		r.Route("/{botID}", func(r chi.Router) {
			r.Get("/", h.Get)
			r.Put("/", h.Update)
			r.Delete("/", h.Delete)
			r.Patch("/estado", h.ChangeStatus)
			r.Get("/estadisticas", h.Stats)
			r.Post("/resetear-uso", h.ResetUsage)
			r.Post("/uso/{kind}", h.RecordUsage)
		})
	})
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	bots, err := h.service.List(r.Context())
	if err != nil {
		core.Error(w, r, err)
		return
	}

	core.List(w, bots, len(bots))
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	bot, err := h.service.Get(r.Context(), chi.URLParam(r, "botID"))
	if err != nil {
		core.Error(w, r, err)
		return
	}

	core.OK(w, "", bot)
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateBotRequest
	if err := core.DecodeJSON(w, r, &req); err != nil {
		core.Error(w, r, err)
		return
	}

	if err := core.Validate(h.validator, req); err != nil {
		core.Error(w, r, err)
		return
	}

	bot, err := h.service.Create(r.Context(), req, middleware.GetUserID(r.Context()))
	if err != nil {
		core.Error(w, r, err)
		return
	}

	core.Created(w, "Bot creado exitosamente", bot)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	var req UpdateBotRequest
	if err := core.DecodeJSON(w, r, &req); err != nil {
		core.Error(w, r, err)
		return
	}

	if err := core.Validate(h.validator, req); err != nil {
		core.Error(w, r, err)
		return
	}

	bot, err := h.service.Update(r.Context(), chi.URLParam(r, "botID"), req)
	if err != nil {
		core.Error(w, r, err)
		return
	}

	core.OK(w, "Bot actualizado exitosamente", bot)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Delete(r.Context(), chi.URLParam(r, "botID")); err != nil {
		core.Error(w, r, err)
		return
	}

	core.OK(w, "Bot eliminado exitosamente", nil)
}

func (h *Handler) ChangeStatus(w http.ResponseWriter, r *http.Request) {
	var req ChangeStatusRequest
	if err := core.DecodeJSON(w, r, &req); err != nil {
		core.Error(w, r, err)
		return
	}

	bot, err := h.service.ChangeStatus(r.Context(), chi.URLParam(r, "botID"), req.Status)
	if err != nil {
		core.Error(w, r, err)
		return
	}

	core.OK(w, fmt.Sprintf("Estado del bot cambiado a %s", bot.Status), bot)
}

func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.service.Stats(r.Context(), chi.URLParam(r, "botID"))
	if err != nil {
		core.Error(w, r, err)
		return
	}

	core.OK(w, "", stats)
}

func (h *Handler) ResetUsage(w http.ResponseWriter, r *http.Request) {
	usage, err := h.service.ResetUsage(r.Context(), chi.URLParam(r, "botID"))
	if err != nil {
		core.Error(w, r, err)
		return
	}

	core.OK(w, "Uso del bot reseteado exitosamente", ResetUsageResponse{Usage: *usage})
}

func (h *Handler) RecordUsage(w http.ResponseWriter, r *http.Request) {
	counters, err := h.service.RecordUsage(
		r.Context(),
		chi.URLParam(r, "botID"),
		UsageKind(chi.URLParam(r, "kind")),
	)
	if err != nil {
		core.Error(w, r, err)
		return
	}

	core.OK(w, "Uso registrado exitosamente", counters)
}
