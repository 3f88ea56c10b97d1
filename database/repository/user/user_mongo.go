package userRepo

import (
	"context"
	"fmt"
	"strings"
	"time"

	"salonify/database"
	"salonify/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// MongoUserRepo implements UserRepository using MongoDB.
type MongoUserRepo struct {
	coll *mongo.Collection
}

// NewMongoUserRepo creates a new instance of UserRepository using MongoDB.
func NewMongoUserRepo(db *mongo.Database) UserRepository {
	repo := &MongoUserRepo{coll: db.Collection("users")}

	if err := repo.ensureIndexes(); err != nil {
		fmt.Printf("failed to create indexes: %v\n", err)
	}
	return repo
}

func (r *MongoUserRepo) GetByID(ctx context.Context, id string) (*models.User, error) {
	ctx, cancel := database.NewContext(ctx, 5*time.Second)
	defer cancel()

	var user models.User
	if err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&user); err != nil {
		return nil, database.Translate(err, fmt.Sprintf("failed to fetch user with id %s", id))
	}
	return &user, nil
}

// GetByEmail matches on the lower-cased address, which is how Create stores it.
func (r *MongoUserRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	ctx, cancel := database.NewContext(ctx, 5*time.Second)
	defer cancel()

	var user models.User
	filter := bson.M{"email": strings.ToLower(strings.TrimSpace(email))}
	if err := r.coll.FindOne(ctx, filter).Decode(&user); err != nil {
		return nil, database.Translate(err, fmt.Sprintf("failed to fetch user with email %s", email))
	}
	return &user, nil
}

func (r *MongoUserRepo) Create(ctx context.Context, user *models.User) error {
	ctx, cancel := database.NewContext(ctx, 5*time.Second)
	defer cancel()

	user.Email = strings.ToLower(strings.TrimSpace(user.Email))
	if _, err := r.coll.InsertOne(ctx, user); err != nil {
		return database.Translate(err, "failed to create user")
	}
	return nil
}
