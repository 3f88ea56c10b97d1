package promotionRepo

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

// MongoPromotionRepo implements PromotionRepository using MongoDB.
type MongoPromotionRepo struct {
	coll *mongo.Collection
}

func NewMongoPromotionRepo(db *mongo.Database) PromotionRepository {
	repo := &MongoPromotionRepo{coll: db.Collection("promotions")}
	if err := repo.ensureIndexes(); err != nil {
		fmt.Printf("failed to create promotion indexes: %v\n", err)
	}
	return repo
}

func (r *MongoPromotionRepo) ensureIndexes() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	indexModels := []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true).SetName("unique_id")},
		{Keys: bson.D{{Key: "code", Value: 1}}, Options: options.Index().SetUnique(true).SetName("unique_code")},
	}
	if _, err := r.coll.Indexes().CreateMany(ctx, indexModels); err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}
	return nil
}

func (r *MongoPromotionRepo) Create(ctx context.Context, p *models.Promotion) error {
	ctx, cancel := database.NewContext(ctx, 5*time.Second)
	defer cancel()

	p.Code = models.NormalizePromotionCode(p.Code)
	if _, err := r.coll.InsertOne(ctx, p); err != nil {
		return database.Translate(err, "error creating promotion")
	}
	return nil
}

func (r *MongoPromotionRepo) GetByCode(ctx context.Context, code string) (*models.Promotion, error) {
	ctx, cancel := database.NewContext(ctx, 5*time.Second)
	defer cancel()

	var p models.Promotion
	filter := bson.M{"code": models.NormalizePromotionCode(code)}
	if err := r.coll.FindOne(ctx, filter).Decode(&p); err != nil {
		return nil, database.Translate(err, "error fetching promotion")
	}
	return &p, nil
}

func (r *MongoPromotionRepo) List(ctx context.Context, skip int64, limit int) ([]models.Promotion, int64, error) {
	ctx, cancel := database.NewContext(ctx, 10*time.Second)
	defer cancel()

	total, err := r.coll.CountDocuments(ctx, bson.M{})
	if err != nil {
		return nil, 0, fmt.Errorf("error counting promotions: %w", err)
	}
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}).SetSkip(skip).SetLimit(int64(limit))
	cursor, err := r.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("error listing promotions: %w", err)
	}
	defer cursor.Close(ctx)

	promotions := make([]models.Promotion, 0, limit)
	if err := cursor.All(ctx, &promotions); err != nil {
		return nil, 0, fmt.Errorf("error decoding promotions: %w", err)
	}
	return promotions, total, nil
}

// Redeem is a single conditional update so concurrent redemptions cannot exceed max_uses.
// max_uses of zero means unlimited.
func (r *MongoPromotionRepo) Redeem(ctx context.Context, code string) (bool, error) {
	ctx, cancel := database.NewContext(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{
		"code":   models.NormalizePromotionCode(code),
		"active": true,
		"$or": bson.A{
			bson.M{"max_uses": 0},
			bson.M{"$expr": bson.M{"$lt": bson.A{"$times_used", "$max_uses"}}},
		},
	}
	update := bson.M{
		"$inc": bson.M{"times_used": 1},
		"$set": bson.M{"updated_at": time.Now()},
	}
	res, err := r.coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return false, fmt.Errorf("error redeeming promotion %s: %w", code, err)
	}
	return res.ModifiedCount == 1, nil
}

func (r *MongoPromotionRepo) Release(ctx context.Context, code string) error {
	ctx, cancel := database.NewContext(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{"code": models.NormalizePromotionCode(code), "times_used": bson.M{"$gt": 0}}
	update := bson.M{
		"$inc": bson.M{"times_used": -1},
		"$set": bson.M{"updated_at": time.Now()},
	}
	if _, err := r.coll.UpdateOne(ctx, filter, update); err != nil {
		return fmt.Errorf("error releasing promotion %s: %w", code, err)
	}
	return nil
}
