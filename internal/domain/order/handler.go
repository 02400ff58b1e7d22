package order

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/reelboost/reelboost-api/internal/domain/catalog"
	"github.com/reelboost/reelboost-api/internal/middleware"
	"github.com/reelboost/reelboost-api/internal/pkg/response"
	"github.com/reelboost/reelboost-api/internal/pkg/validator"
)

// Handler serves the user-facing order endpoints
type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

type placeOrderRequest struct {
	ServiceID     uuid.UUID `json:"service_id" validate:"required"`
	TargetLink    string    `json:"target_link" validate:"required,max=500"`
	Quantity      int       `json:"quantity" validate:"required,min=1"`
	ConsentAgreed bool      `json:"consent_agreed"`
}

// Place handles POST /api/orders
func (h *Handler) Place(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	var req placeOrderRequest
	if err := response.DecodeJSON(r.Body, &req); err != nil {
		response.BadRequest(w, "invalid JSON body")
		return
	}
	if details := validator.Validate(req); details != nil {
		response.ValidationError(w, details)
		return
	}

	o, err := h.svc.Place(r.Context(), userID, PlaceRequest{
		ServiceID:     req.ServiceID,
		TargetLink:    req.TargetLink,
		Quantity:      req.Quantity,
		ConsentAgreed: req.ConsentAgreed,
	}, middleware.ClientIP(r))
	if err != nil {
		writePlaceError(w, err)
		return
	}

	response.Created(w, o)
}

func writePlaceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrConsentRequired):
		response.BadRequest(w, "You must agree to the terms of service before placing an order")
	case errors.Is(err, ErrInvalidTargetLink):
		response.BadRequest(w, "Invalid target link")
	case errors.Is(err, ErrQuantityOutOfRange):
		response.BadRequest(w, err.Error())
	case errors.Is(err, ErrInsufficientFunds):
		response.BadRequest(w, "Insufficient wallet balance")
	case errors.Is(err, catalog.ErrNotFound), errors.Is(err, catalog.ErrInactive):
		response.NotFound(w, "Service not found or inactive")
	default:
		response.InternalError(w)
	}
}

// List handles GET /api/orders
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	orders, err := h.svc.List(r.Context(), userID)
	if err != nil {
		response.InternalError(w)
		return
	}
	response.OK(w, orders)
}

// Recent handles GET /api/orders/recent
func (h *Handler) Recent(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	orders, err := h.svc.Recent(r.Context(), userID)
	if err != nil {
		response.InternalError(w)
		return
	}
	response.OK(w, orders)
}

// Get handles GET /api/orders/{id}
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "invalid order id")
		return
	}

	o, err := h.svc.Get(r.Context(), userID, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			response.NotFound(w, "Order not found")
			return
		}
		response.InternalError(w)
		return
	}
	response.OK(w, o)
}

// UserAnalytics handles GET /api/analytics/user
func (h *Handler) UserAnalytics(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	stats, err := h.svc.Analytics(r.Context(), userID)
	if err != nil {
		response.InternalError(w)
		return
	}
	response.OK(w, stats)
}

// Routes returns the order router
func (h *Handler) Routes(authMiddleware func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(authMiddleware)
	r.Post("/", h.Place)
	r.Get("/", h.List)
	r.Get("/recent", h.Recent)
	r.Get("/{id}", h.Get)
	return r
}
