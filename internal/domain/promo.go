package domain

import (
	"strings"
	"time"
)

type DiscountType string

// DiscountFreeAsset grants the target asset at no cost. It is the only kind
// redemption currently understands.
const DiscountFreeAsset DiscountType = "free_asset"

type PromoCode struct {
	ID           int64        `json:"id"`
	Code         string       `json:"code"`
	DiscountType DiscountType `json:"discountType"`
	AssetID      int64        `json:"assetId"`
	AssetType    AssetType    `json:"assetType"`
	ValidFrom    time.Time    `json:"validFrom"`
	ValidUntil   *time.Time   `json:"validUntil"`
	MaxUses      *int         `json:"maxUses"`
	UsesCount    int          `json:"usesCount"`
	IsActive     bool         `json:"isActive"`
	CreatedAt    time.Time    `json:"createdAt"`
	UpdatedAt    time.Time    `json:"updatedAt"`
}

// NormalizeCode is applied to every code before it is stored or looked up.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// CheckWindow reports why the code cannot be redeemed at now, in order:
// expired, not yet valid, usage cap. Existence, the active flag and prior
// redemption are resolved by the caller before this runs.
func (p *PromoCode) CheckWindow(now time.Time) error {
	if p.ValidUntil != nil && p.ValidUntil.Before(now) {
		return ErrPromoExpired
	}
	if p.ValidFrom.After(now) {
		return ErrPromoNotYetValid
	}
	if p.MaxUses != nil && p.UsesCount >= *p.MaxUses {
		return ErrPromoUsageLimit
	}
	return nil
}

type PromoRedemption struct {
	ID          int64     `json:"id"`
	PromoCodeID *int64    `json:"promoCodeId"`
	UserID      int64     `json:"userId"`
	AssetID     int64     `json:"assetId"`
	AssetType   AssetType `json:"assetType"`
	RedeemedAt  time.Time `json:"redeemedAt"`
}

// Grant is the access right produced by a redemption.
type Grant struct {
	PurchaseID      int64     `json:"purchaseId"`
	AssetID         int64     `json:"assetId"`
	AssetType       AssetType `json:"assetType"`
	AlreadyRedeemed bool      `json:"alreadyRedeemed"`
}

// PromoCheck is the successful outcome of validation. Business-rule failures
// are returned as errors instead.
type PromoCheck struct {
	Promo           *PromoCode `json:"promo,omitempty"`
	AlreadyRedeemed bool       `json:"alreadyRedeemed"`
	Grant           *Grant     `json:"grant,omitempty"`
}

type PromoDetails struct {
	Promo       *PromoCode        `json:"promo"`
	Redemptions []PromoRedemption `json:"redemptions"`
}
