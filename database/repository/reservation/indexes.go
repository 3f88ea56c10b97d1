package reservationRepo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ensureIndexes creates the indexes behind lookups, listings and overlap checks.
func (r *MongoReservationRepo) ensureIndexes() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	indexModels := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "id", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("unique_id"),
		},
		{
			Keys:    bson.D{{Key: "client_id", Value: 1}, {Key: "scheduled_at", Value: -1}},
			Options: options.Index().SetName("client_scheduled_idx"),
		},
		{
			Keys:    bson.D{{Key: "stylist_id", Value: 1}, {Key: "status", Value: 1}, {Key: "scheduled_at", Value: 1}},
			Options: options.Index().SetName("stylist_status_scheduled_idx"),
		},
		{
			Keys:    bson.D{{Key: "payment_intent_id", Value: 1}},
			Options: options.Index().SetSparse(true).SetName("payment_intent_idx"),
		},
	}

	if _, err := r.coll.Indexes().CreateMany(ctx, indexModels); err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}
	return nil
}
