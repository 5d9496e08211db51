// AngelaMos | 2026
// handler.go

package photo

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/carterperez-dev/dating-api/internal/access"
	"github.com/carterperez-dev/dating-api/internal/core"
)

const defaultMaxUpload = 10 << 20

type Handler struct {
	service   *Service
	validator *validator.Validate
	maxUpload int64
}

func NewHandler(service *Service, maxUploadBytes int64) *Handler {
	if maxUploadBytes <= 0 {
		maxUploadBytes = defaultMaxUpload
	}
	return &Handler{
		service:   service,
		validator: validator.New(validator.WithRequiredStructEnabled()),
		maxUpload: maxUploadBytes,
	}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/users/{userID}/photos", h.Add)
	r.Get("/users/{userID}/photos/{photoID}", h.Get)
	r.Post("/users/{userID}/photos/{photoID}/setMain", h.SetMain)
	r.Delete("/users/{userID}/photos/{photoID}", h.Delete)
}

func (h *Handler) Add(w http.ResponseWriter, r *http.Request) {
	userID, ok := core.PathID(r, "userID")
	if !ok {
		core.BadRequest(w, "invalid user id")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.maxUpload)
	if err := r.ParseMultipartForm(h.maxUpload); err != nil {
		core.BadRequest(w, "invalid multipart upload")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		core.BadRequest(w, "file is required")
		return
	}
	defer file.Close() //nolint:errcheck // read-only multipart part

	req := AddRequest{
		Filename:    header.Filename,
		Description: r.FormValue("description"),
		File:        file,
	}
	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	resp, err := h.service.Add(r.Context(), access.CallerFrom(r.Context()), userID, req)
	if err != nil {
		core.HandleError(w, err, "photo")
		return
	}

	core.Created(w, resp)
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	photoID, ok := core.PathID(r, "photoID")
	if !ok {
		core.BadRequest(w, "invalid photo id")
		return
	}

	resp, err := h.service.Get(r.Context(), access.CallerFrom(r.Context()), photoID)
	if err != nil {
		core.HandleError(w, err, "photo")
		return
	}

	core.OK(w, resp)
}

func (h *Handler) SetMain(w http.ResponseWriter, r *http.Request) {
	userID, photoID, ok := pathIDs(r)
	if !ok {
		core.BadRequest(w, "invalid id")
		return
	}

	err := h.service.SetMain(r.Context(), access.CallerFrom(r.Context()), userID, photoID)
	if err != nil {
		core.HandleError(w, err, "photo")
		return
	}

	core.NoContent(w)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, photoID, ok := pathIDs(r)
	if !ok {
		core.BadRequest(w, "invalid id")
		return
	}

	err := h.service.Delete(r.Context(), access.CallerFrom(r.Context()), userID, photoID)
	if err != nil {
		core.HandleError(w, err, "photo")
		return
	}

	core.OK(w, nil)
}

func pathIDs(r *http.Request) (int64, int64, bool) {
	userID, ok := core.PathID(r, "userID")
	if !ok {
		return 0, 0, false
	}
	photoID, ok := core.PathID(r, "photoID")
	return userID, photoID, ok
}
