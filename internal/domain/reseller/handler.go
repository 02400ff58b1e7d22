package reseller

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/reelboost/reelboost-api/internal/domain/catalog"
	"github.com/reelboost/reelboost-api/internal/domain/order"
	"github.com/reelboost/reelboost-api/internal/domain/user"
	"github.com/reelboost/reelboost-api/internal/middleware"
	"github.com/reelboost/reelboost-api/internal/pkg/response"
	"github.com/reelboost/reelboost-api/internal/pkg/validator"
)

// consentVersionAPI marks consent given programmatically through the
// reseller API terms.
const consentVersionAPI = "api-v1.0"

var oneHundred = decimal.NewFromInt(100)

// Handler serves the X-API-Key reseller surface
type Handler struct {
	catalog *catalog.Manager
	orders  *order.Service
	users   user.Store
}

func NewHandler(catalogMgr *catalog.Manager, orders *order.Service, users user.Store) *Handler {
	return &Handler{catalog: catalogMgr, orders: orders, users: users}
}

// serviceView is a catalog item with the reseller's markup applied
type serviceView struct {
	ID               uuid.UUID        `json:"id"`
	Platform         catalog.Platform `json:"platform"`
	Name             string           `json:"name"`
	PricePerThousand decimal.Decimal  `json:"price_per_thousand"`
	MinQuantity      int              `json:"min_quantity"`
	MaxQuantity      int              `json:"max_quantity"`
	ETA              *string          `json:"eta,omitempty"`
}

// markupPrice applies a percentage markup to a base price
func markupPrice(base, markup decimal.Decimal) decimal.Decimal {
	return base.Mul(oneHundred.Add(markup)).Div(oneHundred).Round(2)
}

// Services handles GET /reseller/services
func (h *Handler) Services(w http.ResponseWriter, r *http.Request) {
	account := Account(r.Context())

	services, err := h.catalog.ListActive(r.Context())
	if err != nil {
		response.InternalError(w)
		return
	}

	views := make([]serviceView, 0, len(services))
	for _, svc := range services {
		views = append(views, serviceView{
			ID:               svc.ID,
			Platform:         svc.Platform,
			Name:             svc.Name,
			PricePerThousand: markupPrice(svc.PricePerThousand, account.ResellerMarkup),
			MinQuantity:      svc.MinQuantity,
			MaxQuantity:      svc.MaxQuantity,
			ETA:              svc.ETA,
		})
	}
	response.OK(w, views)
}

type placeOrderRequest struct {
	ServiceID  uuid.UUID `json:"service_id" validate:"required"`
	TargetLink string    `json:"target_link" validate:"required,max=500"`
	Quantity   int       `json:"quantity" validate:"required,min=1"`
}

// PlaceOrder handles POST /reseller/order. API orders pay the
// marked-up unit price and consent is carried by the API terms.
func (h *Handler) PlaceOrder(w http.ResponseWriter, r *http.Request) {
	account := Account(r.Context())

	var req placeOrderRequest
	if err := response.DecodeJSON(r.Body, &req); err != nil {
		response.BadRequest(w, "invalid JSON body")
		return
	}
	if details := validator.Validate(req); details != nil {
		response.ValidationError(w, details)
		return
	}

	svc, err := h.catalog.Get(r.Context(), req.ServiceID)
	if err != nil {
		response.NotFound(w, "Service not found or inactive")
		return
	}
	unitPrice := markupPrice(svc.PricePerThousand, account.ResellerMarkup)

	o, err := h.orders.Place(r.Context(), account.ID, order.PlaceRequest{
		ServiceID:      req.ServiceID,
		TargetLink:     req.TargetLink,
		Quantity:       req.Quantity,
		ConsentAgreed:  true,
		ConsentVersion: consentVersionAPI,
		UnitPrice:      &unitPrice,
	}, middleware.ClientIP(r))
	if err != nil {
		writeOrderError(w, err)
		return
	}
	response.Created(w, o)
}

func writeOrderError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, order.ErrInvalidTargetLink):
		response.BadRequest(w, "Invalid target link")
	case errors.Is(err, order.ErrQuantityOutOfRange):
		response.BadRequest(w, err.Error())
	case errors.Is(err, order.ErrInsufficientFunds):
		response.BadRequest(w, "Insufficient wallet balance")
	case errors.Is(err, catalog.ErrNotFound), errors.Is(err, catalog.ErrInactive):
		response.NotFound(w, "Service not found or inactive")
	default:
		response.InternalError(w)
	}
}

// GetOrder handles GET /reseller/order/{id}
func (h *Handler) GetOrder(w http.ResponseWriter, r *http.Request) {
	account := Account(r.Context())

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "invalid order id")
		return
	}

	o, err := h.orders.Get(r.Context(), account.ID, id)
	if err != nil {
		if errors.Is(err, order.ErrNotFound) {
			response.NotFound(w, "Order not found")
			return
		}
		response.InternalError(w)
		return
	}
	response.OK(w, o)
}

// Routes returns the reseller router
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(APIKeyAuth(h.users))
	r.Get("/services", h.Services)
	r.Post("/order", h.PlaceOrder)
	r.Get("/order/{id}", h.GetOrder)
	return r
}
