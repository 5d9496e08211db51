// AngelaMos | 2026
// handler.go

package like

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/carterperez-dev/dating-api/internal/access"
	"github.com/carterperez-dev/dating-api/internal/core"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/users/{userID}/like/{recipientID}", h.Like)
}

func (h *Handler) Like(w http.ResponseWriter, r *http.Request) {
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

	caller := access.CallerFrom(r.Context())
	if err := h.service.Like(r.Context(), caller, userID, recipientID); err != nil {
		core.HandleError(w, err, "user")
		return
	}

	core.OK(w, nil)
}
