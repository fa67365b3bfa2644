package port

import (
	"context"

	"github.com/Wyydra/confbridge/internal/core/domain"
)

// EventPublisher delivers call-status events to whoever is listening.
type EventPublisher interface {
	Publish(ctx context.Context, evt domain.CallStatusEvent) error
}
