package adminRepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"clinicore/database"
	"clinicore/models"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// ErrNotFound is returned when no admin matches the lookup.
var ErrNotFound = errors.New("admin not found")

// AdminRepository is the persistence port for back-office users.
type AdminRepository interface {
	Create(ctx context.Context, admin models.Admin) (string, error)
	GetByID(ctx context.Context, id string) (*models.Admin, error)
	GetByEmail(ctx context.Context, email string) (*models.Admin, error)
	GetByTokenHash(ctx context.Context, hash string) (*models.Admin, error)
	Update(ctx context.Context, admin models.Admin) error
	SetTokenHash(ctx context.Context, id, hash string) error
	TouchLastLogin(ctx context.Context, id string) error
}

// MongoAdminRepo is the MongoDB-backed implementation.
type MongoAdminRepo struct {
	coll *mongo.Collection
}

// NewMongoAdminRepo returns a new AdminRepository backed by MongoDB.
func NewMongoAdminRepo() *MongoAdminRepo {
	return &MongoAdminRepo{
		coll: database.DB().Collection("admins"),
	}
}

// Create inserts a new admin and returns its ID.
func (r *MongoAdminRepo) Create(ctx context.Context, admin models.Admin) (string, error) {
	if admin.ID == "" {
		admin.ID = uuid.New().String()
	}
	now := time.Now()
	admin.CreatedAt = now
	admin.UpdatedAt = now
	if admin.Role == "" {
		admin.Role = "admin"
	}

	if _, err := r.coll.InsertOne(ctx, admin); err != nil {
		return "", fmt.Errorf("insert admin failed: %w", err)
	}
	return admin.ID, nil
}

func (r *MongoAdminRepo) findOne(ctx context.Context, query bson.M) (*models.Admin, error) {
	var admin models.Admin
	err := r.coll.FindOne(ctx, query).Decode(&admin)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find admin failed: %w", err)
	}
	return &admin, nil
}

// GetByID returns the admin with the given id.
func (r *MongoAdminRepo) GetByID(ctx context.Context, id string) (*models.Admin, error) {
	return r.findOne(ctx, bson.M{"id": id})
}

// GetByEmail returns the admin with the given email.
func (r *MongoAdminRepo) GetByEmail(ctx context.Context, email string) (*models.Admin, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

// GetByTokenHash returns the admin holding the given session token hash.
func (r *MongoAdminRepo) GetByTokenHash(ctx context.Context, hash string) (*models.Admin, error) {
	if hash == "" {
		return nil, ErrNotFound
	}
	return r.findOne(ctx, bson.M{"token_hash": hash})
}

// Update replaces the stored admin.
func (r *MongoAdminRepo) Update(ctx context.Context, admin models.Admin) error {
	admin.UpdatedAt = time.Now()

	res, err := r.coll.ReplaceOne(ctx, bson.M{"id": admin.ID}, admin)
	if err != nil {
		return fmt.Errorf("update admin failed: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// SetTokenHash stores the current session token hash; an empty hash revokes
// the session.
func (r *MongoAdminRepo) SetTokenHash(ctx context.Context, id, hash string) error {
	res, err := r.coll.UpdateOne(ctx, bson.M{"id": id}, bson.M{
		"$set": bson.M{"token_hash": hash, "updated_at": time.Now()},
	})
	if err != nil {
		return fmt.Errorf("set token hash failed: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// TouchLastLogin records a successful login.
func (r *MongoAdminRepo) TouchLastLogin(ctx context.Context, id string) error {
	now := time.Now()
	_, err := r.coll.UpdateOne(ctx, bson.M{"id": id}, bson.M{
		"$set": bson.M{"last_login": now, "updated_at": now},
	})
	if err != nil {
		return fmt.Errorf("touch last login failed: %w", err)
	}
	return nil
}
