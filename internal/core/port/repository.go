package port

import (
	"context"

	"github.com/Wyydra/confbridge/internal/core/domain"
)

type CampaignRepository interface {
	Save(ctx context.Context, c domain.Campaign) error
	Get(ctx context.Context, id domain.CampaignID) (domain.Campaign, error)
	List(ctx context.Context) ([]domain.Campaign, error)
}
