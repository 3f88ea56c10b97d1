package auditRepo

import (
	"context"
	"fmt"
	"time"

	"salonify/database"
	"salonify/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// AuditRepository is an append-only log of state changes.
type AuditRepository interface {
	Create(ctx context.Context, entry *models.AuditEntry) error
	List(ctx context.Context, entity string, skip int64, limit int) ([]models.AuditEntry, int64, error)
}

type MongoAuditRepo struct {
	coll *mongo.Collection
}

func NewMongoAuditRepo(db *mongo.Database) AuditRepository {
	repo := &MongoAuditRepo{coll: db.Collection("audit_log")}
	if err := repo.ensureIndexes(); err != nil {
		fmt.Printf("failed to create audit indexes: %v\n", err)
	}
	return repo
}

func (r *MongoAuditRepo) ensureIndexes() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	indexModels := []mongo.IndexModel{
		{Keys: bson.D{{Key: "created_at", Value: -1}}, Options: options.Index().SetName("created_idx")},
		{Keys: bson.D{{Key: "entity", Value: 1}, {Key: "entity_id", Value: 1}}, Options: options.Index().SetName("entity_idx")},
	}
	if _, err := r.coll.Indexes().CreateMany(ctx, indexModels); err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}
	return nil
}

func (r *MongoAuditRepo) Create(ctx context.Context, entry *models.AuditEntry) error {
	ctx, cancel := database.NewContext(ctx, 5*time.Second)
	defer cancel()

	if _, err := r.coll.InsertOne(ctx, entry); err != nil {
		return fmt.Errorf("error writing audit entry: %w", err)
	}
	return nil
}

// List returns newest first. An empty entity matches every entry.
func (r *MongoAuditRepo) List(ctx context.Context, entity string, skip int64, limit int) ([]models.AuditEntry, int64, error) {
	ctx, cancel := database.NewContext(ctx, 10*time.Second)
	defer cancel()

	filter := bson.M{}
	if entity != "" {
		filter["entity"] = entity
	}
	total, err := r.coll.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("error counting audit entries: %w", err)
	}
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}).SetSkip(skip).SetLimit(int64(limit))
	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("error listing audit entries: %w", err)
	}
	defer cursor.Close(ctx)

	entries := make([]models.AuditEntry, 0, limit)
	if err := cursor.All(ctx, &entries); err != nil {
		return nil, 0, fmt.Errorf("error decoding audit entries: %w", err)
	}
	return entries, total, nil
}
