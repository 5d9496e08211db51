// AngelaMos | 2026
// handler.go

package message

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
	r.Get("/users/{userID}/messages", h.List)
	r.Post("/users/{userID}/messages", h.Create)
	r.Get("/users/{userID}/messages/thread/{recipientID}", h.Thread)
	r.Get("/users/{userID}/messages/{messageID}", h.Get)
	r.Post("/users/{userID}/messages/{messageID}/read", h.MarkRead)
	r.Post("/users/{userID}/messages/{messageID}/delete", h.Delete)
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := core.PathID(r, "userID")
	if !ok {
		core.BadRequest(w, "invalid user id")
		return
	}

	params := ListParams{
		Params: paging.Params{
			Page:     core.QueryInt(r, "page", 1),
			PageSize: core.QueryInt(r, "page_size", paging.DefaultPageSize),
		},
		Container: r.URL.Query().Get("container"),
	}

	items, meta, err := h.service.List(r.Context(), access.CallerFrom(r.Context()), userID, params)
	if err != nil {
		core.HandleError(w, err, "message")
		return
	}

	core.Paginated(w, items, meta)
}

func (h *Handler) Thread(w http.ResponseWriter, r *http.Request) {
	userID, ok := core.PathID(r, "userID")
	if !ok {
		core.BadRequest(w, "invalid user id")
		return
	}
	recipientID, ok := core.PathID(r, "recipientID")
	if !ok {
		core.BadRequest(w, "invalid recipient id")
		return
	}

	thread, err := h.service.Thread(r.Context(), access.CallerFrom(r.Context()), userID, recipientID)
	if err != nil {
		core.HandleError(w, err, "message")
		return
	}

	core.OK(w, thread)
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	userID, messageID, ok := pathIDs(r)
	if !ok {
		core.BadRequest(w, "invalid id")
		return
	}

	msg, err := h.service.Get(r.Context(), access.CallerFrom(r.Context()), userID, messageID)
	if err != nil {
		core.HandleError(w, err, "message")
		return
	}

	core.OK(w, msg)
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := core.PathID(r, "userID")
	if !ok {
		core.BadRequest(w, "invalid user id")
		return
	}

	var req CreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	msg, err := h.service.Create(r.Context(), access.CallerFrom(r.Context()), userID, req)
	if err != nil {
		core.HandleError(w, err, "user")
		return
	}

	core.Created(w, msg)
}

func (h *Handler) MarkRead(w http.ResponseWriter, r *http.Request) {
	userID, messageID, ok := pathIDs(r)
	if !ok {
		core.BadRequest(w, "invalid id")
		return
	}

	if err := h.service.MarkRead(r.Context(), access.CallerFrom(r.Context()), userID, messageID); err != nil {
		core.HandleError(w, err, "message")
		return
	}

	core.NoContent(w)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, messageID, ok := pathIDs(r)
	if !ok {
		core.BadRequest(w, "invalid id")
		return
	}

	if err := h.service.Delete(r.Context(), access.CallerFrom(r.Context()), userID, messageID); err != nil {
		core.HandleError(w, err, "message")
		return
	}

	core.NoContent(w)
}

func pathIDs(r *http.Request) (int64, int64, bool) {
	userID, ok := core.PathID(r, "userID")
	if !ok {
		return 0, 0, false
	}
	messageID, ok := core.PathID(r, "messageID")
	return userID, messageID, ok
}
