package usecase

import (
	"context"

	"github.com/azizikri/beat-market/internal/domain"
)

// PromoGateway is what the HTTP layer calls for promo checks. It is served
// in-process or over kafka request/reply.
type PromoGateway interface {
	ValidatePromo(ctx context.Context, userID int64, code string) (*domain.PromoCheck, error)
	RedeemPromo(ctx context.Context, userID int64, code string) (*domain.Grant, error)
}
