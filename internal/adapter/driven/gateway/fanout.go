package gateway

import (
	"context"
	"errors"

	"github.com/Wyydra/confbridge/internal/core/domain"
	"github.com/Wyydra/confbridge/internal/core/port"
)

// Fanout publishes every event to each sink in turn. A failing sink does not
// stop the others; all failures are joined into the returned error.
type Fanout struct {
	sinks []port.EventPublisher
}

func NewFanout(sinks ...port.EventPublisher) *Fanout {
	var live []port.EventPublisher
	for _, s := range sinks {
		if s != nil {
			live = append(live, s)
		}
	}
	return &Fanout{sinks: live}
}

func (f *Fanout) Publish(ctx context.Context, evt domain.CallStatusEvent) error {
	var errs []error
	for _, s := range f.sinks {
		if err := s.Publish(ctx, evt); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
