package http

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/azizikri/beat-market/internal/domain"
	"github.com/azizikri/beat-market/internal/usecase"
)

type CreatePromoRequest struct {
	Code       string           `json:"code"`
	AssetID    int64            `json:"assetId"`
	AssetType  domain.AssetType `json:"assetType"`
	ValidFrom  *time.Time       `json:"validFrom"`
	ValidUntil *time.Time       `json:"validUntil"`
	MaxUses    *int             `json:"maxUses"`
}

type GeneratePromosRequest struct {
	Count      int              `json:"count"`
	Prefix     string           `json:"prefix"`
	AssetID    int64            `json:"assetId"`
	AssetType  domain.AssetType `json:"assetType"`
	ValidUntil *time.Time       `json:"validUntil"`
}

type UpdatePromoRequest struct {
	IsActive        *bool      `json:"isActive"`
	ValidFrom       *time.Time `json:"validFrom"`
	ValidUntil      *time.Time `json:"validUntil"`
	ClearValidUntil bool       `json:"clearValidUntil"`
	MaxUses         *int       `json:"maxUses"`
	ClearMaxUses    bool       `json:"clearMaxUses"`
}

func (h *Handler) CreatePromo(w http.ResponseWriter, r *http.Request) {
	var req CreatePromoRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, msgInvalidBody)
		return
	}

	promo, err := h.deps.Admin.CreatePromo(r.Context(), usecase.CreatePromoInput{
		Code:       req.Code,
		AssetID:    req.AssetID,
		AssetType:  req.AssetType,
		ValidFrom:  req.ValidFrom,
		ValidUntil: req.ValidUntil,
		MaxUses:    req.MaxUses,
	})
	if err != nil {
		h.writeAdminError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, promo)
}

func (h *Handler) GeneratePromos(w http.ResponseWriter, r *http.Request) {
	var req GeneratePromosRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, msgInvalidBody)
		return
	}

	promos, err := h.deps.Admin.GeneratePromos(r.Context(), usecase.GeneratePromoInput{
		Count:      req.Count,
		Prefix:     req.Prefix,
		AssetID:    req.AssetID,
		AssetType:  req.AssetType,
		ValidUntil: req.ValidUntil,
	})
	if err != nil {
		h.writeAdminError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, promos)
}

func (h *Handler) ListPromos(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

	promos, err := h.deps.Admin.ListPromos(r.Context(), limit, offset)
	if err != nil {
		h.writeAdminError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, promos)
}

func (h *Handler) GetPromo(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid promo id")
		return
	}

	details, err := h.deps.Admin.GetPromo(r.Context(), id)
	if err != nil {
		h.writeAdminError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, details)
}

func (h *Handler) UpdatePromo(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid promo id")
		return
	}
	var req UpdatePromoRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, msgInvalidBody)
		return
	}

	promo, err := h.deps.Admin.UpdatePromo(r.Context(), id, usecase.PromoPatch{
		IsActive:        req.IsActive,
		ValidFrom:       req.ValidFrom,
		ValidUntil:      req.ValidUntil,
		ClearValidUntil: req.ClearValidUntil,
		MaxUses:         req.MaxUses,
		ClearMaxUses:    req.ClearMaxUses,
	})
	if err != nil {
		h.writeAdminError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, promo)
}

func (h *Handler) DeletePromo(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid promo id")
		return
	}

	if err := h.deps.Admin.DeletePromo(r.Context(), id); err != nil {
		h.writeAdminError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) writeAdminError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrAssetNotFound):
		writeError(w, http.StatusBadRequest, "Asset not found")
	case errors.Is(err, domain.ErrDuplicatePromo):
		writeError(w, http.StatusConflict, "Promo code already exists")
	case errors.Is(err, domain.ErrPromoNotFound):
		writeError(w, http.StatusNotFound, "Promo code not found")
	default:
		writeServerError(w, r, err, "internal server error")
	}
}
