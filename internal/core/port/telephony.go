package port

import (
	"context"

	"github.com/Wyydra/confbridge/internal/core/domain"
)

// Telephony is the subset of the provider API the core drives.
type Telephony interface {
	Originate(ctx context.Context, req domain.OriginateRequest) (domain.CallSID, error)
	// ListConferences returns every conference the provider knows under that
	// friendly name, including completed ones.
	ListConferences(ctx context.Context, name domain.ConferenceName) ([]domain.Conference, error)
	EndConference(ctx context.Context, sid domain.ConferenceSID) error
	EndCall(ctx context.Context, sid domain.CallSID) error
	RemoveParticipant(ctx context.Context, conference domain.ConferenceSID, call domain.CallSID) error
}
