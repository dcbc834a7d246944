package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/Cheertaboi/Ecommerce-voucher-microservice/internal/models"
	"github.com/Cheertaboi/Ecommerce-voucher-microservice/internal/service"
)

// CustomerIDHeader carries the authenticated customer identity resolved by
// the platform's auth middleware upstream of this service.
const CustomerIDHeader = "X-Customer-ID"

// --- Request / Response DTOs ---

type ClaimRequest struct {
	Code string `json:"code"`
}

// --- Engine interfaces (stubbed in tests) ---

type AllocationEngine interface {
	Claim(ctx context.Context, customerID, code string) (*models.ClaimedCode, error)
	ClaimedCodes(ctx context.Context, customerID string, isUsed *bool) ([]models.DiscountCode, error)
}

type RedemptionEngine interface {
	Validate(ctx context.Context, id string, kind models.DiscountType) (*models.ResolvedTerms, error)
}

// --- Handler struct & constructor ---

type VoucherHandler struct {
	allocation AllocationEngine
	redemption RedemptionEngine
	log        zerolog.Logger
}

func NewVoucherHandler(allocation AllocationEngine, redemption RedemptionEngine, log zerolog.Logger) *VoucherHandler {
	return &VoucherHandler{
		allocation: allocation,
		redemption: redemption,
		log:        log,
	}
}

// --- Helpers ---

func writeJSON(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, log zerolog.Logger, err error) {
	switch {
	case errors.Is(err, service.ErrNotFound):
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "code_not_found"})
	case errors.Is(err, service.ErrExhausted):
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "pool_exhausted"})
	case errors.Is(err, service.ErrCooldown):
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "cooldown_active"})
	case errors.Is(err, service.ErrAlreadyUsed):
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "already_used"})
	case errors.Is(err, service.ErrExpired):
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "expired"})
	case errors.Is(err, service.ErrWrongType):
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "wrong_type"})
	case errors.Is(err, service.ErrInvalidArgument):
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid_argument"})
	default:
		log.Error().Err(err).Msg("request failed")
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal_error"})
	}
}

// --- Handlers ---

// Claim handles POST /vouchers/claim
func (h *VoucherHandler) Claim(w http.ResponseWriter, r *http.Request) {
	customerID := r.Header.Get(CustomerIDHeader)

	var req ClaimRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid_body"})
		return
	}
	if req.Code == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "code required"})
		return
	}

	claimed, err := h.allocation.Claim(r.Context(), customerID, req.Code)
	if err != nil {
		writeError(w, h.log, err)
		return
	}

	writeJSON(w, http.StatusCreated, claimed)
}

// ValidateProduct handles GET /vouchers/validate/product/{id}
func (h *VoucherHandler) ValidateProduct(w http.ResponseWriter, r *http.Request) {
	h.validate(w, r, models.DiscountTypeProduct)
}

// ValidateShipping handles GET /vouchers/validate/shipping/{id}
func (h *VoucherHandler) ValidateShipping(w http.ResponseWriter, r *http.Request) {
	h.validate(w, r, models.DiscountTypeShipping)
}

func (h *VoucherHandler) validate(w http.ResponseWriter, r *http.Request, kind models.DiscountType) {
	terms, err := h.redemption.Validate(r.Context(), chi.URLParam(r, "id"), kind)
	if err != nil {
		writeError(w, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, terms)
}

// ListMine handles GET /vouchers/mine?is_used=
func (h *VoucherHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	customerID := r.Header.Get(CustomerIDHeader)

	var isUsed *bool
	if raw := r.URL.Query().Get("is_used"); raw != "" {
		parsed, err := strconv.ParseBool(raw)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid is_used; use true or false"})
			return
		}
		isUsed = &parsed
	}

	codes, err := h.allocation.ClaimedCodes(r.Context(), customerID, isUsed)
	if err != nil {
		writeError(w, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"discount_codes": codes})
}
