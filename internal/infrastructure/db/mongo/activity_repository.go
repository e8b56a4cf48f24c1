package mongo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/atelier/marketplace-api/internal/core/domain"
)

const activityCollection = "auth_activity"

// ActivityRepository persists audit events to the auth_activity collection.
type ActivityRepository struct {
	coll *mongo.Collection
}

func NewActivityRepository(db *mongo.Database) *ActivityRepository {
	return &ActivityRepository{coll: db.Collection(activityCollection)}
}

// Insert appends event to the audit trail.
func (r *ActivityRepository) Insert(ctx context.Context, event domain.ActivityEvent) error {
	doc := bson.M{
		"type":        string(event.Type),
		"subject":     event.Subject,
		"actor":       event.Actor,
		"occurred_at": event.OccurredAt.UTC(),
		"recorded_at": time.Now().UTC(),
	}
	if len(event.Metadata) > 0 {
		doc["metadata"] = event.Metadata
	}

	_, err := r.coll.InsertOne(ctx, doc)
	return err
}
