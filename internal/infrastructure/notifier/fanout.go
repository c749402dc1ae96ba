package notifier

import (
	"context"
	"errors"

	"github.com/agrisetu/agri-trade-service/internal/domain"
)

// Fanout delivers each event to every configured dispatcher. Failures are
// joined; one slow or failing sink never drops the others.
type Fanout struct {
	dispatchers []domain.NotificationDispatcher
}

func NewFanout(dispatchers ...domain.NotificationDispatcher) *Fanout {
	return &Fanout{dispatchers: dispatchers}
}

func (f *Fanout) Notify(ctx context.Context, userID, eventType string, payload map[string]string) error {
	var errs []error
	for _, d := range f.dispatchers {
		if d == nil {
			continue
		}
		if err := d.Notify(ctx, userID, eventType, payload); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
