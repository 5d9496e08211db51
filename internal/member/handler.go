// AngelaMos | 2026
// handler.go

package member

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/carterperez-dev/dating-api/internal/access"
	"github.com/carterperez-dev/dating-api/internal/core"
	"github.com/carterperez-dev/dating-api/internal/paging"
)

type Handler struct {
	service   *Service
	validator *validator.Validate
}

func NewHandler(service *Service) *Handler {
	return &Handler{
		service:   service,
		validator: validator.New(validator.WithRequiredStructEnabled()),
	}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/users", h.List)
	r.Get("/users/{userID}", h.Get)
	r.Put("/users/{userID}", h.Update)
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	params := ListParams{
		Params: paging.Params{
			Page:     core.QueryInt(r, "page", 1),
			PageSize: core.QueryInt(r, "page_size", paging.DefaultPageSize),
		},
		Gender:  r.URL.Query().Get("gender"),
		MinAge:  core.QueryInt(r, "min_age", DefaultMinAge),
		MaxAge:  core.QueryInt(r, "max_age", DefaultMaxAge),
		Likers:  core.QueryBool(r, "likers"),
		Likees:  core.QueryBool(r, "likees"),
		OrderBy: r.URL.Query().Get("order_by"),
	}

	caller := access.CallerFrom(r.Context())
	items, meta, err := h.service.List(r.Context(), caller, params)
	if err != nil {
		core.HandleError(w, err, "user")
		return
	}

	core.Paginated(w, items, meta)
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := core.PathID(r, "userID")
	if !ok {
		core.BadRequest(w, "invalid user id")
		return
	}

	detail, err := h.service.Get(r.Context(), access.CallerFrom(r.Context()), id)
	if err != nil {
		core.HandleError(w, err, "user")
		return
	}

	core.OK(w, detail)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := core.PathID(r, "userID")
	if !ok {
		core.BadRequest(w, "invalid user id")
		return
	}

	var req UpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	detail, err := h.service.Update(r.Context(), access.CallerFrom(r.Context()), id, req)
	if err != nil {
		core.HandleError(w, err, "user")
		return
	}

	core.OK(w, detail)
}
