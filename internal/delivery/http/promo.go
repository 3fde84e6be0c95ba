package http

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/azizikri/beat-market/internal/domain"
)

type PromoRequest struct {
	Code string `json:"code"`
}

type PromoCodeResponse struct {
	Code         string              `json:"code"`
	DiscountType domain.DiscountType `json:"discountType"`
	AssetID      int64               `json:"assetId"`
	AssetType    domain.AssetType    `json:"assetType"`
	ValidUntil   *time.Time          `json:"validUntil"`
}

type ValidateResponse struct {
	Valid           bool               `json:"valid"`
	Error           string             `json:"error,omitempty"`
	PromoCode       *PromoCodeResponse `json:"promoCode,omitempty"`
	AlreadyRedeemed bool               `json:"alreadyRedeemed,omitempty"`
	AssetID         int64              `json:"assetId,omitempty"`
	AssetType       domain.AssetType   `json:"assetType,omitempty"`
}

type RedeemResponse struct {
	Success         bool             `json:"success"`
	Error           string           `json:"error,omitempty"`
	AssetID         int64            `json:"assetId,omitempty"`
	AssetType       domain.AssetType `json:"assetType,omitempty"`
	PurchaseID      int64            `json:"purchaseId,omitempty"`
	AlreadyRedeemed bool             `json:"alreadyRedeemed,omitempty"`
}

const (
	msgCodeRequired   = "Promo code is required"
	msgInvalidBody    = "Invalid request body"
	msgValidateFailed = "Failed to validate promo code"
	msgRedeemFailed   = "Failed to redeem promo code"
)

// promoMessage returns the user-facing text for a promo rule rejection, or ""
// when err is not one.
func promoMessage(err error) string {
	switch {
	case errors.Is(err, domain.ErrInvalidPromoCode):
		return "Invalid promo code"
	case errors.Is(err, domain.ErrPromoExpired):
		return "This promo code has expired"
	case errors.Is(err, domain.ErrPromoNotYetValid):
		return "This promo code is not yet valid"
	case errors.Is(err, domain.ErrPromoUsageLimit):
		return "This promo code has reached its usage limit"
	}
	return ""
}

func (h *Handler) ValidatePromo(w http.ResponseWriter, r *http.Request) {
	var req PromoRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, ValidateResponse{Error: msgInvalidBody})
		return
	}
	if strings.TrimSpace(req.Code) == "" {
		writeJSON(w, http.StatusBadRequest, ValidateResponse{Error: msgCodeRequired})
		return
	}

	check, err := h.deps.Promos.ValidatePromo(r.Context(), principal(r).UserID, req.Code)
	if err != nil {
		if msg := promoMessage(err); msg != "" {
			writeJSON(w, http.StatusBadRequest, ValidateResponse{Error: msg})
			return
		}
		writeServerErrorBody(w, r, err, ValidateResponse{Error: msgValidateFailed})
		return
	}

	if check.AlreadyRedeemed && check.Grant != nil {
		writeJSON(w, http.StatusOK, ValidateResponse{
			Valid:           true,
			AlreadyRedeemed: true,
			AssetID:         check.Grant.AssetID,
			AssetType:       check.Grant.AssetType,
		})
		return
	}

	writeJSON(w, http.StatusOK, ValidateResponse{
		Valid: true,
		PromoCode: &PromoCodeResponse{
			Code:         check.Promo.Code,
			DiscountType: check.Promo.DiscountType,
			AssetID:      check.Promo.AssetID,
			AssetType:    check.Promo.AssetType,
			ValidUntil:   check.Promo.ValidUntil,
		},
	})
}

func (h *Handler) RedeemPromo(w http.ResponseWriter, r *http.Request) {
	var req PromoRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, RedeemResponse{Error: msgInvalidBody})
		return
	}
	if strings.TrimSpace(req.Code) == "" {
		writeJSON(w, http.StatusBadRequest, RedeemResponse{Error: msgCodeRequired})
		return
	}

	grant, err := h.deps.Promos.RedeemPromo(r.Context(), principal(r).UserID, req.Code)
	if err != nil {
		if msg := promoMessage(err); msg != "" {
			writeJSON(w, http.StatusBadRequest, RedeemResponse{Error: msg})
			return
		}
		writeServerErrorBody(w, r, err, RedeemResponse{Error: msgRedeemFailed})
		return
	}

	writeJSON(w, http.StatusOK, RedeemResponse{
		Success:         true,
		AssetID:         grant.AssetID,
		AssetType:       grant.AssetType,
		PurchaseID:      grant.PurchaseID,
		AlreadyRedeemed: grant.AlreadyRedeemed,
	})
}

func writeServerErrorBody(w http.ResponseWriter, r *http.Request, err error, body any) {
	slog.Error("promo request failed", "method", r.Method, "path", r.URL.Path, "user_id", principal(r).UserID, "error", err)
	writeJSON(w, http.StatusInternalServerError, body)
}
