package referral

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/reelboost/reelboost-api/internal/middleware"
	"github.com/reelboost/reelboost-api/internal/pkg/response"
)

// Handler serves GET /api/referrals
type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Summary(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	summary, err := h.svc.Summary(r.Context(), userID)
	if err != nil {
		response.InternalError(w)
		return
	}
	response.OK(w, summary)
}

func (h *Handler) Routes(authMiddleware func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(authMiddleware)
	r.Get("/", h.Summary)
	return r
}
