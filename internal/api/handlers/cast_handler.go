package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/Cheertaboi/Ecommerce-voucher-microservice/internal/models"
	"github.com/Cheertaboi/Ecommerce-voucher-microservice/internal/repository"
	"github.com/Cheertaboi/Ecommerce-voucher-microservice/internal/service"
)

// --- Request DTOs ---

type CreateCastRequest struct {
	Code              string  `json:"code"`
	Type              string  `json:"type"`
	CalculationMethod string  `json:"calculation_method"`
	DiscountAmount    float64 `json:"discount_amount"`
	ExpiryDate        string  `json:"expiry_date"` // RFC3339
	Quantity          int     `json:"quantity"`
}

// CastAdmin is the admin surface over the cast registry.
type CastAdmin interface {
	CreateCast(ctx context.Context, in service.CreateCastInput) (*models.Cast, error)
	DeleteCast(ctx context.Context, id int64) error
	ListCasts(ctx context.Context, filter repository.CastFilter, page repository.PageRequest) ([]models.Cast, error)
}

type CastHandler struct {
	admin CastAdmin
	log   zerolog.Logger
}

func NewCastHandler(admin CastAdmin, log zerolog.Logger) *CastHandler {
	return &CastHandler{admin: admin, log: log}
}

// CreateCast handles POST /admin/casts
func (h *CastHandler) CreateCast(w http.ResponseWriter, r *http.Request) {
	var req CreateCastRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid_body"})
		return
	}

	expiry, err := time.Parse(time.RFC3339, req.ExpiryDate)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid expiry_date; use RFC3339"})
		return
	}

	cast, err := h.admin.CreateCast(r.Context(), service.CreateCastInput{
		Code:              req.Code,
		Type:              models.DiscountType(req.Type),
		CalculationMethod: models.CalculationMethod(req.CalculationMethod),
		DiscountAmount:    req.DiscountAmount,
		ExpiryDate:        expiry,
		Quantity:          req.Quantity,
	})
	if err != nil {
		writeError(w, h.log, err)
		return
	}

	writeJSON(w, http.StatusCreated, cast)
}

// DeleteCast handles DELETE /admin/casts/{id}
func (h *CastHandler) DeleteCast(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid cast id"})
		return
	}

	if err := h.admin.DeleteCast(r.Context(), id); err != nil {
		writeError(w, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// ListCasts handles GET /admin/casts?type=&page=&page_size=
func (h *CastHandler) ListCasts(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	filter := repository.CastFilter{}
	if t := query.Get("type"); t != "" {
		kind := models.DiscountType(t)
		if !kind.Valid() {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid type filter"})
			return
		}
		filter.Type = kind
	}

	page, _ := strconv.Atoi(query.Get("page"))
	pageSize, _ := strconv.Atoi(query.Get("page_size"))

	casts, err := h.admin.ListCasts(r.Context(), filter, repository.PageRequest{Page: page, PageSize: pageSize})
	if err != nil {
		writeError(w, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"casts": casts})
}
