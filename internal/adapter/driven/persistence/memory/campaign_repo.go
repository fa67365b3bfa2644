package memory

import (
	"context"
	"sync"

	"github.com/Wyydra/confbridge/internal/core/domain"
)

const DefaultRetention = 256

// CampaignRepository keeps the most recent campaigns in memory. Older ones
// are evicted once retention is exceeded; nothing survives a restart.
type CampaignRepository struct {
	mu        sync.Mutex
	campaigns []domain.Campaign
	retention int
}

func NewCampaignRepository(retention int) *CampaignRepository {
	if retention <= 0 {
		retention = DefaultRetention
	}
	return &CampaignRepository{
		campaigns: make([]domain.Campaign, 0),
		retention: retention,
	}
}

func (r *CampaignRepository) Save(ctx context.Context, c domain.Campaign) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	c.Outcomes = append([]domain.DialOutcome(nil), c.Outcomes...)
	r.campaigns = append(r.campaigns, c)
	if over := len(r.campaigns) - r.retention; over > 0 {
		r.campaigns = append([]domain.Campaign(nil), r.campaigns[over:]...)
	}
	return nil
}

func (r *CampaignRepository) Get(ctx context.Context, id domain.CampaignID) (domain.Campaign, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := len(r.campaigns) - 1; i >= 0; i-- {
		if r.campaigns[i].ID == id {
			return r.campaigns[i], nil
		}
	}
	return domain.Campaign{}, domain.ErrCampaignNotFound
}

// List returns campaigns newest first.
func (r *CampaignRepository) List(ctx context.Context) ([]domain.Campaign, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]domain.Campaign, 0, len(r.campaigns))
	for i := len(r.campaigns) - 1; i >= 0; i-- {
		out = append(out, r.campaigns[i])
	}
	return out, nil
}
