package queue

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/atelier/marketplace-api/internal/core/domain"
)

// LogActivityRepository writes audit events to the structured log. It backs the
// dispatcher when no document store is configured.
type LogActivityRepository struct {
	log zerolog.Logger
}

func NewLogActivityRepository(log zerolog.Logger) *LogActivityRepository {
	return &LogActivityRepository{log: log}
}

func (r *LogActivityRepository) Insert(_ context.Context, event domain.ActivityEvent) error {
	ev := r.log.Info().
		Str("type", string(event.Type)).
		Str("subject", event.Subject).
		Time("occurred_at", event.OccurredAt)
	if event.Actor != "" {
		ev = ev.Str("actor", event.Actor)
	}
	for k, v := range event.Metadata {
		ev = ev.Str(k, v)
	}
	ev.Msg("activity")
	return nil
}
