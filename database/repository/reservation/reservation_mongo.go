package reservationRepo

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

const opTimeout = 5 * time.Second

var liveStatuses = bson.A{models.ReservationPending, models.ReservationConfirmed}

// MongoReservationRepo implements ReservationRepository using MongoDB.
type MongoReservationRepo struct {
	coll *mongo.Collection
}

// NewMongoReservationRepo constructs the repository and ensures its indexes.
func NewMongoReservationRepo(db *mongo.Database) ReservationRepository {
	repo := &MongoReservationRepo{coll: db.Collection("reservations")}
	if err := repo.ensureIndexes(); err != nil {
		fmt.Printf("failed to create reservation indexes: %v\n", err)
	}
	return repo
}

func (r *MongoReservationRepo) Create(ctx context.Context, res *models.Reservation) error {
	ctx, cancel := database.NewContext(ctx, opTimeout)
	defer cancel()

	if _, err := r.coll.InsertOne(ctx, res); err != nil {
		return database.Translate(err, "error creating reservation")
	}
	return nil
}

func (r *MongoReservationRepo) GetByID(ctx context.Context, id string) (*models.Reservation, error) {
	ctx, cancel := database.NewContext(ctx, opTimeout)
	defer cancel()

	var res models.Reservation
	if err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&res); err != nil {
		return nil, database.Translate(err, fmt.Sprintf("error fetching reservation %s", id))
	}
	return &res, nil
}

func buildFilter(f models.ReservationFilter) bson.M {
	filter := bson.M{}
	if f.ClientID != "" {
		filter["client_id"] = f.ClientID
	}
	if f.StylistID != "" {
		filter["stylist_id"] = f.StylistID
	}
	if f.Status != "" {
		filter["status"] = f.Status
	}
	return filter
}

func (r *MongoReservationRepo) List(ctx context.Context, f models.ReservationFilter, skip int64, limit int) ([]models.Reservation, int64, error) {
	ctx, cancel := database.NewContext(ctx, 10*time.Second)
	defer cancel()

	filter := buildFilter(f)
	total, err := r.coll.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("error counting reservations: %w", err)
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "scheduled_at", Value: -1}}).
		SetSkip(skip).
		SetLimit(int64(limit))
	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("error listing reservations: %w", err)
	}
	defer cursor.Close(ctx)

	reservations := make([]models.Reservation, 0, limit)
	if err := cursor.All(ctx, &reservations); err != nil {
		return nil, 0, fmt.Errorf("error decoding reservations: %w", err)
	}
	return reservations, total, nil
}

func (r *MongoReservationRepo) HasOverlap(ctx context.Context, stylistID string, start, end time.Time, excludeID string) (bool, error) {
	ctx, cancel := database.NewContext(ctx, opTimeout)
	defer cancel()

	filter := bson.M{
		"stylist_id":   stylistID,
		"status":       bson.M{"$in": liveStatuses},
		"scheduled_at": bson.M{"$lt": end},
		"ends_at":      bson.M{"$gt": start},
	}
	if excludeID != "" {
		filter["id"] = bson.M{"$ne": excludeID}
	}
	n, err := r.coll.CountDocuments(ctx, filter, options.Count().SetLimit(1))
	if err != nil {
		return false, fmt.Errorf("error checking overlapping reservations: %w", err)
	}
	return n > 0, nil
}

func (r *MongoReservationRepo) SetPaymentIntent(ctx context.Context, id, intentID string, attempts int) error {
	ctx, cancel := database.NewContext(ctx, opTimeout)
	defer cancel()

	filter := bson.M{"id": id, "status": models.ReservationPending}
	update := bson.M{"$set": bson.M{
		"payment_intent_id": intentID,
		"intent_attempts":   attempts,
		"updated_at":        time.Now(),
	}}
	res, err := r.coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("error setting payment intent on reservation %s: %w", id, err)
	}
	if res.MatchedCount == 0 {
		return database.ErrNotFound
	}
	return nil
}

func (r *MongoReservationRepo) AppendPaymentAttempt(ctx context.Context, id string, attempt models.PaymentAttempt) error {
	ctx, cancel := database.NewContext(ctx, opTimeout)
	defer cancel()

	update := bson.M{
		"$push": bson.M{"payment_attempts": attempt},
		"$set":  bson.M{"updated_at": time.Now()},
	}
	if _, err := r.coll.UpdateOne(ctx, bson.M{"id": id}, update); err != nil {
		return fmt.Errorf("error appending payment attempt to reservation %s: %w", id, err)
	}
	return nil
}

func (r *MongoReservationRepo) MarkConfirmed(ctx context.Context, id, paymentRecordID string, at time.Time) (bool, error) {
	if paymentRecordID == "" {
		return false, errors.New("refusing to confirm reservation without a payment record")
	}
	ctx, cancel := database.NewContext(ctx, opTimeout)
	defer cancel()

	filter := bson.M{"id": id, "status": models.ReservationPending}
	update := bson.M{"$set": bson.M{
		"status":            models.ReservationConfirmed,
		"payment_record_id": paymentRecordID,
		"confirmed_at":      at,
		"updated_at":        at,
	}}
	res, err := r.coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return false, fmt.Errorf("error confirming reservation %s: %w", id, err)
	}
	return res.ModifiedCount == 1, nil
}

func (r *MongoReservationRepo) Cancel(ctx context.Context, id, reason string, at time.Time) (bool, error) {
	ctx, cancel := database.NewContext(ctx, opTimeout)
	defer cancel()

	filter := bson.M{"id": id, "status": bson.M{"$in": liveStatuses}}
	update := bson.M{"$set": bson.M{
		"status":        models.ReservationCancelled,
		"cancel_reason": reason,
		"cancelled_at":  at,
		"updated_at":    at,
	}}
	res, err := r.coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return false, fmt.Errorf("error cancelling reservation %s: %w", id, err)
	}
	return res.ModifiedCount == 1, nil
}
