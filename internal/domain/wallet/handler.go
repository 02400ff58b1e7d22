package wallet

import (
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/reelboost/reelboost-api/internal/middleware"
	"github.com/reelboost/reelboost-api/internal/pkg/response"
	"github.com/reelboost/reelboost-api/internal/pkg/storage"
)

const maxScreenshotSize = 5 << 20 // 5 MiB

// Handler serves the user-facing wallet endpoints
type Handler struct {
	svc         *Service
	screenshots storage.Storage
}

func NewHandler(svc *Service, screenshots storage.Storage) *Handler {
	return &Handler{svc: svc, screenshots: screenshots}
}

type submitProofRequest struct {
	Amount        decimal.Decimal `json:"amount"`
	UTRNumber     string          `json:"utr_number"`
	ScreenshotURL string          `json:"screenshot_url"`
}

// Transactions handles GET /api/transactions
func (h *Handler) Transactions(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	txs, err := h.svc.Transactions(r.Context(), userID)
	if err != nil {
		response.InternalError(w)
		return
	}
	response.OK(w, txs)
}

// SubmitProof handles POST /api/wallet/submit-payment-proof
func (h *Handler) SubmitProof(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	var req submitProofRequest
	if err := response.DecodeJSON(r.Body, &req); err != nil {
		response.BadRequest(w, "invalid JSON body")
		return
	}

	proof, err := h.svc.SubmitProof(r.Context(), userID, req.Amount, strings.TrimSpace(req.UTRNumber), strings.TrimSpace(req.ScreenshotURL))
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidAmount):
			response.BadRequest(w, "Invalid amount")
		case errors.Is(err, ErrEvidenceRequired):
			response.BadRequest(w, "Please provide UTR number or payment screenshot URL")
		default:
			response.InternalError(w)
		}
		return
	}

	response.OK(w, map[string]interface{}{
		"message": "Payment proof submitted successfully. Admin will verify and credit your wallet within 24 hours.",
		"proof":   proof,
	})
}

// Proofs handles GET /api/wallet/payment-proofs
func (h *Handler) Proofs(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	proofs, err := h.svc.Proofs(r.Context(), userID)
	if err != nil {
		response.InternalError(w)
		return
	}
	response.OK(w, proofs)
}

// UploadScreenshot handles POST /api/wallet/screenshot-upload. Stores
// the image and returns a URL usable in a payment-proof submission.
func (h *Handler) UploadScreenshot(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	if err := r.ParseMultipartForm(maxScreenshotSize); err != nil {
		response.BadRequest(w, "invalid multipart form")
		return
	}

	file, header, err := r.FormFile("screenshot")
	if err != nil {
		response.BadRequest(w, "screenshot file is required")
		return
	}
	defer file.Close()

	if header.Size > maxScreenshotSize {
		response.BadRequest(w, "screenshot exceeds the 5 MiB limit")
		return
	}

	contentType := header.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "image/") {
		response.BadRequest(w, "screenshot must be an image")
		return
	}

	ext := filepath.Ext(header.Filename)
	key := fmt.Sprintf("screenshots/%s/%s%s", userID, uuid.New(), ext)

	if err := h.screenshots.Put(r.Context(), key, file, contentType); err != nil {
		response.InternalError(w)
		return
	}

	response.OK(w, map[string]string{"screenshot_url": h.screenshots.URL(key)})
}

// Routes returns the wallet router
func (h *Handler) Routes(authMiddleware func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(authMiddleware)
	r.Post("/submit-payment-proof", h.SubmitProof)
	r.Get("/payment-proofs", h.Proofs)
	r.Post("/screenshot-upload", h.UploadScreenshot)
	return r
}
