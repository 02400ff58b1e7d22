package admin

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/reelboost/reelboost-api/internal/domain/catalog"
	"github.com/reelboost/reelboost-api/internal/domain/order"
	"github.com/reelboost/reelboost-api/internal/domain/user"
	"github.com/reelboost/reelboost-api/internal/domain/wallet"
	"github.com/reelboost/reelboost-api/internal/pkg/response"
	"github.com/reelboost/reelboost-api/internal/pkg/validator"
)

// Handler serves /api/admin. Every route assumes the admin role guard
// already ran in the middleware chain.
type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// ListUsers handles GET /api/admin/users
func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.svc.users.List(r.Context())
	if err != nil {
		response.InternalError(w)
		return
	}

	profiles := make([]user.Profile, 0, len(users))
	for _, u := range users {
		profiles = append(profiles, u.ToProfile())
	}
	response.OK(w, profiles)
}

// CreateUser handles POST /api/admin/users
func (h *Handler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req createUserRequest
	if err := response.DecodeJSON(r.Body, &req); err != nil {
		response.BadRequest(w, "invalid JSON body")
		return
	}
	if details := validator.Validate(req); details != nil {
		response.ValidationError(w, details)
		return
	}

	u, err := h.svc.CreateUser(r.Context(), &req)
	if err != nil {
		if errors.Is(err, user.ErrEmailExists) {
			response.Conflict(w, "Email already registered")
			return
		}
		response.InternalError(w)
		return
	}
	response.Created(w, u.ToProfile())
}

// UpdateUser handles PATCH /api/admin/users/{id}
func (h *Handler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "invalid user id")
		return
	}

	var req updateUserRequest
	if err := response.DecodeJSON(r.Body, &req); err != nil {
		response.BadRequest(w, "invalid JSON body")
		return
	}
	if details := validator.Validate(req); details != nil {
		response.ValidationError(w, details)
		return
	}

	u, err := h.svc.UpdateUser(r.Context(), id, &req)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			response.NotFound(w, "User not found")
			return
		}
		response.InternalError(w)
		return
	}
	response.OK(w, u.ToProfile())
}

// DeleteUser handles DELETE /api/admin/users/{id}
func (h *Handler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "invalid user id")
		return
	}

	if err := h.svc.users.Delete(r.Context(), id); err != nil {
		if errors.Is(err, user.ErrNotFound) {
			response.NotFound(w, "User not found")
			return
		}
		response.InternalError(w)
		return
	}
	response.NoContent(w)
}

// GenerateAPIKey handles POST /api/admin/users/{id}/api-key
func (h *Handler) GenerateAPIKey(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "invalid user id")
		return
	}

	key, err := h.svc.GenerateAPIKey(r.Context(), id)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			response.NotFound(w, "User not found")
			return
		}
		response.InternalError(w)
		return
	}
	response.OK(w, map[string]string{"api_key": key})
}

// ConsentLogs handles GET /api/admin/users/{id}/consent-logs
func (h *Handler) ConsentLogs(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "invalid user id")
		return
	}

	logs, err := h.svc.orders.ListConsentLogs(r.Context(), id)
	if err != nil {
		response.InternalError(w)
		return
	}
	response.OK(w, logs)
}

// ListServices handles GET /api/admin/services
func (h *Handler) ListServices(w http.ResponseWriter, r *http.Request) {
	services, err := h.svc.catalog.List(r.Context())
	if err != nil {
		response.InternalError(w)
		return
	}
	response.OK(w, services)
}

// CreateService handles POST /api/admin/services
func (h *Handler) CreateService(w http.ResponseWriter, r *http.Request) {
	var req serviceRequest
	if err := response.DecodeJSON(r.Body, &req); err != nil {
		response.BadRequest(w, "invalid JSON body")
		return
	}
	if details := validator.Validate(req); details != nil {
		response.ValidationError(w, details)
		return
	}

	svc, err := serviceFromRequest(&req, uuid.New())
	if err != nil {
		response.BadRequest(w, err.Error())
		return
	}
	if err := h.svc.catalog.Create(r.Context(), svc); err != nil {
		writeCatalogError(w, err)
		return
	}
	response.Created(w, svc)
}

// UpdateService handles PUT /api/admin/services/{id}
func (h *Handler) UpdateService(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "invalid service id")
		return
	}

	var req serviceRequest
	if err := response.DecodeJSON(r.Body, &req); err != nil {
		response.BadRequest(w, "invalid JSON body")
		return
	}
	if details := validator.Validate(req); details != nil {
		response.ValidationError(w, details)
		return
	}

	svc, err := serviceFromRequest(&req, id)
	if err != nil {
		response.BadRequest(w, err.Error())
		return
	}
	if err := h.svc.catalog.Update(r.Context(), svc); err != nil {
		writeCatalogError(w, err)
		return
	}
	response.OK(w, svc)
}

// DeleteService handles DELETE /api/admin/services/{id}
func (h *Handler) DeleteService(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "invalid service id")
		return
	}

	if err := h.svc.catalog.Delete(r.Context(), id); err != nil {
		writeCatalogError(w, err)
		return
	}
	response.NoContent(w)
}

func writeCatalogError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, catalog.ErrNotFound):
		response.NotFound(w, "Service not found")
	case errors.Is(err, catalog.ErrInvalidQuantity), errors.Is(err, catalog.ErrInvalidPrice):
		response.BadRequest(w, err.Error())
	default:
		response.InternalError(w)
	}
}

// ListOrders handles GET /api/admin/orders
func (h *Handler) ListOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.svc.orders.ListAll(r.Context())
	if err != nil {
		response.InternalError(w)
		return
	}
	response.OK(w, orders)
}

// UpdateOrderStatus handles PATCH /api/admin/orders/{id}/status
func (h *Handler) UpdateOrderStatus(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "invalid order id")
		return
	}

	var req updateOrderStatusRequest
	if err := response.DecodeJSON(r.Body, &req); err != nil {
		response.BadRequest(w, "invalid JSON body")
		return
	}
	if details := validator.Validate(req); details != nil {
		response.ValidationError(w, details)
		return
	}

	o, err := h.svc.SetOrderStatus(r.Context(), id, order.Status(req.Status))
	if err != nil {
		switch {
		case errors.Is(err, order.ErrNotFound):
			response.NotFound(w, "Order not found")
		case errors.Is(err, order.ErrAlreadyRefunded):
			response.Conflict(w, "Order already refunded")
		default:
			response.InternalError(w)
		}
		return
	}
	response.OK(w, o)
}

// ListProofs handles GET /api/admin/payment-proofs
func (h *Handler) ListProofs(w http.ResponseWriter, r *http.Request) {
	proofs, err := h.svc.wallet.AllProofs(r.Context())
	if err != nil {
		response.InternalError(w)
		return
	}
	response.OK(w, proofs)
}

// ReviewProof handles PATCH /api/admin/payment-proofs/{id}
func (h *Handler) ReviewProof(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "invalid proof id")
		return
	}

	var req reviewProofRequest
	if err := response.DecodeJSON(r.Body, &req); err != nil {
		response.BadRequest(w, "invalid JSON body")
		return
	}
	if details := validator.Validate(req); details != nil {
		response.ValidationError(w, details)
		return
	}

	proof, err := h.svc.wallet.ReviewProof(r.Context(), id, wallet.ProofStatus(req.Status), req.AdminNotes)
	if err != nil {
		switch {
		case errors.Is(err, wallet.ErrProofNotFound):
			response.NotFound(w, "Payment proof not found")
		case errors.Is(err, wallet.ErrProofAlreadyProcessed):
			response.Conflict(w, "Payment proof already processed")
		case errors.Is(err, wallet.ErrInvalidProofStatus):
			response.BadRequest(w, "Status must be approved or rejected")
		default:
			response.InternalError(w)
		}
		return
	}
	response.OK(w, proof)
}

// Dashboard handles GET /api/admin/analytics
func (h *Handler) Dashboard(w http.ResponseWriter, r *http.Request) {
	stats, err := h.svc.Dashboard(r.Context())
	if err != nil {
		response.InternalError(w)
		return
	}
	response.OK(w, stats)
}

// Routes returns the admin router; callers mount it behind auth plus
// the admin role guard.
func (h *Handler) Routes(authMiddleware, adminOnly func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(authMiddleware)
	r.Use(adminOnly)

	r.Get("/users", h.ListUsers)
	r.Post("/users", h.CreateUser)
	r.Patch("/users/{id}", h.UpdateUser)
	r.Delete("/users/{id}", h.DeleteUser)
	r.Post("/users/{id}/api-key", h.GenerateAPIKey)
	r.Get("/users/{id}/consent-logs", h.ConsentLogs)

	r.Get("/services", h.ListServices)
	r.Post("/services", h.CreateService)
	r.Put("/services/{id}", h.UpdateService)
	r.Delete("/services/{id}", h.DeleteService)

	r.Get("/orders", h.ListOrders)
	r.Patch("/orders/{id}/status", h.UpdateOrderStatus)

	r.Get("/payment-proofs", h.ListProofs)
	r.Patch("/payment-proofs/{id}", h.ReviewProof)

	r.Get("/analytics", h.Dashboard)
	return r
}
