package paymentRepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"salonify/database"
	"salonify/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoPaymentRepo implements PaymentRepository using MongoDB.
type MongoPaymentRepo struct {
	coll *mongo.Collection
}

func NewMongoPaymentRepo(db *mongo.Database) PaymentRepository {
	repo := &MongoPaymentRepo{coll: db.Collection("payments")}
	if err := repo.ensureIndexes(); err != nil {
		fmt.Printf("failed to create payment indexes: %v\n", err)
	}
	return repo
}

// The unique provider_reference index is what makes reconciliation idempotent across instances.
func (r *MongoPaymentRepo) ensureIndexes() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	indexModels := []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true).SetName("unique_id")},
		{Keys: bson.D{{Key: "provider_reference", Value: 1}}, Options: options.Index().SetUnique(true).SetName("unique_provider_reference")},
		{Keys: bson.D{{Key: "reservation_id", Value: 1}}, Options: options.Index().SetName("reservation_idx")},
	}
	if _, err := r.coll.Indexes().CreateMany(ctx, indexModels); err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}
	return nil
}

func (r *MongoPaymentRepo) InsertOrGet(ctx context.Context, rec *models.PaymentRecord) (*models.PaymentRecord, bool, error) {
	insertCtx, cancel := database.NewContext(ctx, 5*time.Second)
	defer cancel()

	_, err := r.coll.InsertOne(insertCtx, rec)
	if err == nil {
		return rec, true, nil
	}
	if !errors.Is(database.Translate(err, ""), database.ErrDuplicate) {
		return nil, false, fmt.Errorf("error inserting payment record: %w", err)
	}
	existing, err := r.GetByProviderReference(ctx, rec.ProviderReference)
	if err != nil {
		return nil, false, err
	}
	return existing, false, nil
}

func (r *MongoPaymentRepo) GetByProviderReference(ctx context.Context, ref string) (*models.PaymentRecord, error) {
	return r.findOne(ctx, bson.M{"provider_reference": ref})
}

func (r *MongoPaymentRepo) GetByReservation(ctx context.Context, reservationID string) (*models.PaymentRecord, error) {
	return r.findOne(ctx, bson.M{"reservation_id": reservationID})
}

func (r *MongoPaymentRepo) findOne(ctx context.Context, filter bson.M) (*models.PaymentRecord, error) {
	ctx, cancel := database.NewContext(ctx, 5*time.Second)
	defer cancel()

	var rec models.PaymentRecord
	opts := options.FindOne().SetSort(bson.D{{Key: "created_at", Value: -1}})
	if err := r.coll.FindOne(ctx, filter, opts).Decode(&rec); err != nil {
		return nil, database.Translate(err, "error fetching payment record")
	}
	return &rec, nil
}
