package kafka

import (
	"context"

	"github.com/azizikri/beat-market/internal/domain"
	"github.com/azizikri/beat-market/internal/usecase"
)

// DirectGateway runs promo operations in-process when event-driven mode is off.
type DirectGateway struct {
	service *usecase.PromoService
}

func NewDirectGateway(service *usecase.PromoService) usecase.PromoGateway {
	return &DirectGateway{service: service}
}

func (g *DirectGateway) ValidatePromo(ctx context.Context, userID int64, code string) (*domain.PromoCheck, error) {
	return g.service.ValidatePromo(ctx, userID, code)
}

func (g *DirectGateway) RedeemPromo(ctx context.Context, userID int64, code string) (*domain.Grant, error) {
	return g.service.RedeemPromo(ctx, userID, code)
}
