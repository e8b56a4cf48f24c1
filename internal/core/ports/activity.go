package ports

import (
	"context"

	"github.com/atelier/marketplace-api/internal/core/domain"
)

// ActivityRecorder accepts audit events. Implementations must not block the
// caller on slow storage.
type ActivityRecorder interface {
	Record(event domain.ActivityEvent)
}

// ActivityRepository persists audit events.
type ActivityRepository interface {
	Insert(ctx context.Context, event domain.ActivityEvent) error
}

// NopActivity discards every event.
type NopActivity struct{}

func (NopActivity) Record(domain.ActivityEvent) {}
