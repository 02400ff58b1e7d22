package catalog

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/reelboost/reelboost-api/internal/pkg/response"
)

// Handler serves the buyer-facing catalog endpoints
type Handler struct {
	manager *Manager
}

func NewHandler(manager *Manager) *Handler {
	return &Handler{manager: manager}
}

// ListActive handles GET /api/services
func (h *Handler) ListActive(w http.ResponseWriter, r *http.Request) {
	services, err := h.manager.ListActive(r.Context())
	if err != nil {
		response.InternalError(w)
		return
	}
	response.OK(w, services)
}

// Get handles GET /api/services/{id}
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "invalid service id")
		return
	}

	service, err := h.manager.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			response.NotFound(w, "Service not found")
		} else {
			response.InternalError(w)
		}
		return
	}
	response.OK(w, service)
}

// Routes returns the buyer-facing catalog router
func (h *Handler) Routes(authMiddleware func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(authMiddleware)
	r.Get("/", h.ListActive)
	r.Get("/{id}", h.Get)
	return r
}
