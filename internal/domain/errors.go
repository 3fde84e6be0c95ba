package domain

import "errors"

var (
	ErrInvalidPromoCode = errors.New("invalid promo code")
	ErrPromoExpired     = errors.New("promo code has expired")
	ErrPromoNotYetValid = errors.New("promo code is not yet valid")
	ErrPromoUsageLimit  = errors.New("promo code usage limit reached")
	ErrPromoNotFound    = errors.New("promo code not found")
	ErrDuplicatePromo   = errors.New("promo code already exists")
	ErrInvalidInput     = errors.New("invalid input")

	ErrAssetNotFound = errors.New("asset not found")
	ErrNotOwned      = errors.New("asset not owned by user")

	ErrUnknownBucket    = errors.New("unknown bucket")
	ErrObjectNotFound   = errors.New("object not found")
	ErrInvalidSignature = errors.New("invalid signature")
	ErrSignatureExpired = errors.New("signed url has expired")
)
