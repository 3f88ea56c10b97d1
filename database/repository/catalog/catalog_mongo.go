package catalogRepo

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

// MongoCatalogRepo implements CatalogRepository using one collection per entity.
type MongoCatalogRepo struct {
	branches *mongo.Collection
	services *mongo.Collection
	stylists *mongo.Collection
}

func NewMongoCatalogRepo(db *mongo.Database) CatalogRepository {
	repo := &MongoCatalogRepo{
		branches: db.Collection("branches"),
		services: db.Collection("services"),
		stylists: db.Collection("stylists"),
	}
	if err := repo.ensureIndexes(); err != nil {
		fmt.Printf("failed to create catalog indexes: %v\n", err)
	}
	return repo
}

func (r *MongoCatalogRepo) ensureIndexes() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	unique := mongo.IndexModel{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true).SetName("unique_id")}
	for _, coll := range []*mongo.Collection{r.branches, r.services} {
		if _, err := coll.Indexes().CreateOne(ctx, unique); err != nil {
			return fmt.Errorf("failed to create indexes on %s: %w", coll.Name(), err)
		}
	}
	_, err := r.stylists.Indexes().CreateMany(ctx, []mongo.IndexModel{
		unique,
		{Keys: bson.D{{Key: "branch_id", Value: 1}, {Key: "active", Value: 1}}, Options: options.Index().SetName("branch_active_idx")},
		{Keys: bson.D{{Key: "service_ids", Value: 1}}, Options: options.Index().SetName("service_ids_idx")},
		{Keys: bson.D{{Key: "user_id", Value: 1}}, Options: options.Index().SetSparse(true).SetName("user_idx")},
	})
	if err != nil {
		return fmt.Errorf("failed to create indexes on stylists: %w", err)
	}
	return nil
}

func insert(ctx context.Context, coll *mongo.Collection, doc any) error {
	ctx, cancel := database.NewContext(ctx, 5*time.Second)
	defer cancel()

	if _, err := coll.InsertOne(ctx, doc); err != nil {
		return database.Translate(err, "error inserting into "+coll.Name())
	}
	return nil
}

func findByID[T any](ctx context.Context, coll *mongo.Collection, id string) (*T, error) {
	ctx, cancel := database.NewContext(ctx, 5*time.Second)
	defer cancel()

	var out T
	if err := coll.FindOne(ctx, bson.M{"id": id}).Decode(&out); err != nil {
		return nil, database.Translate(err, fmt.Sprintf("error fetching %s %s", coll.Name(), id))
	}
	return &out, nil
}

func list[T any](ctx context.Context, coll *mongo.Collection, filter bson.M, skip int64, limit int) ([]T, int64, error) {
	ctx, cancel := database.NewContext(ctx, 10*time.Second)
	defer cancel()

	total, err := coll.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("error counting %s: %w", coll.Name(), err)
	}
	opts := options.Find().SetSort(bson.D{{Key: "name", Value: 1}}).SetSkip(skip).SetLimit(int64(limit))
	cursor, err := coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("error listing %s: %w", coll.Name(), err)
	}
	defer cursor.Close(ctx)

	items := make([]T, 0, limit)
	if err := cursor.All(ctx, &items); err != nil {
		return nil, 0, fmt.Errorf("error decoding %s: %w", coll.Name(), err)
	}
	return items, total, nil
}

func (r *MongoCatalogRepo) CreateBranch(ctx context.Context, b *models.Branch) error {
	return insert(ctx, r.branches, b)
}

func (r *MongoCatalogRepo) GetBranch(ctx context.Context, id string) (*models.Branch, error) {
	return findByID[models.Branch](ctx, r.branches, id)
}

func (r *MongoCatalogRepo) ListBranches(ctx context.Context, skip int64, limit int) ([]models.Branch, int64, error) {
	return list[models.Branch](ctx, r.branches, bson.M{"active": true}, skip, limit)
}

func (r *MongoCatalogRepo) CreateService(ctx context.Context, s *models.Service) error {
	return insert(ctx, r.services, s)
}

func (r *MongoCatalogRepo) GetService(ctx context.Context, id string) (*models.Service, error) {
	return findByID[models.Service](ctx, r.services, id)
}

func (r *MongoCatalogRepo) ListServices(ctx context.Context, skip int64, limit int) ([]models.Service, int64, error) {
	return list[models.Service](ctx, r.services, bson.M{"active": true}, skip, limit)
}

func (r *MongoCatalogRepo) CreateStylist(ctx context.Context, s *models.Stylist) error {
	return insert(ctx, r.stylists, s)
}

func (r *MongoCatalogRepo) GetStylist(ctx context.Context, id string) (*models.Stylist, error) {
	return findByID[models.Stylist](ctx, r.stylists, id)
}

func (r *MongoCatalogRepo) GetStylistByUserID(ctx context.Context, userID string) (*models.Stylist, error) {
	ctx, cancel := database.NewContext(ctx, 5*time.Second)
	defer cancel()

	var s models.Stylist
	if err := r.stylists.FindOne(ctx, bson.M{"user_id": userID}).Decode(&s); err != nil {
		return nil, database.Translate(err, "error fetching stylist for user "+userID)
	}
	return &s, nil
}

func (r *MongoCatalogRepo) ListStylists(ctx context.Context, f models.StylistFilter, skip int64, limit int) ([]models.Stylist, int64, error) {
	filter := bson.M{"active": true}
	if f.BranchID != "" {
		filter["branch_id"] = f.BranchID
	}
	if f.ServiceID != "" {
		filter["service_ids"] = f.ServiceID
	}
	return list[models.Stylist](ctx, r.stylists, filter, skip, limit)
}
