package inquiryRepo

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
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ErrNotFound is returned when no inquiry matches the given id.
var ErrNotFound = errors.New("inquiry not found")

// Filter enumerates the supported inquiry query predicates.
type Filter struct {
	Status   models.InquiryStatus
	Archived *bool
	Page     int64
	Limit    int64
}

// InquiryRepository is the persistence port for contact-form inquiries.
type InquiryRepository interface {
	Create(ctx context.Context, inq models.Inquiry) (string, error)
	GetByID(ctx context.Context, id string) (*models.Inquiry, error)
	Update(ctx context.Context, inq models.Inquiry) error
	List(ctx context.Context, f Filter) ([]models.Inquiry, int64, error)
	Delete(ctx context.Context, id string) error
	Stats(ctx context.Context) (*models.InquiryStats, error)
}

// MongoInquiryRepo is the MongoDB-backed implementation.
type MongoInquiryRepo struct {
	coll *mongo.Collection
}

// NewMongoInquiryRepo returns a new InquiryRepository backed by MongoDB.
func NewMongoInquiryRepo() *MongoInquiryRepo {
	return &MongoInquiryRepo{
		coll: database.DB().Collection("inquiries"),
	}
}

// Create inserts a new inquiry and returns its ID.
func (r *MongoInquiryRepo) Create(ctx context.Context, inq models.Inquiry) (string, error) {
	if inq.ID == "" {
		inq.ID = uuid.New().String()
	}
	now := time.Now()
	inq.CreatedAt = now
	inq.UpdatedAt = now
	if inq.Status == "" {
		inq.Status = models.InquiryUnread
	}

	if _, err := r.coll.InsertOne(ctx, inq); err != nil {
		return "", fmt.Errorf("insert inquiry failed: %w", err)
	}
	return inq.ID, nil
}

// GetByID returns the inquiry with the given id.
func (r *MongoInquiryRepo) GetByID(ctx context.Context, id string) (*models.Inquiry, error) {
	var inq models.Inquiry
	err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&inq)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find inquiry failed: %w", err)
	}
	return &inq, nil
}

// Update replaces the stored inquiry.
func (r *MongoInquiryRepo) Update(ctx context.Context, inq models.Inquiry) error {
	inq.UpdatedAt = time.Now()

	res, err := r.coll.ReplaceOne(ctx, bson.M{"id": inq.ID}, inq)
	if err != nil {
		return fmt.Errorf("update inquiry failed: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// List returns a page of inquiries plus the total match count, newest first.
func (r *MongoInquiryRepo) List(ctx context.Context, f Filter) ([]models.Inquiry, int64, error) {
	query := bson.M{}
	if f.Status != "" {
		query["status"] = f.Status
	}
	if f.Archived != nil {
		query["is_archived"] = *f.Archived
	}

	total, err := r.coll.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, fmt.Errorf("count inquiries failed: %w", err)
	}

	page := f.Page
	if page < 1 {
		page = 1
	}
	limit := f.Limit
	if limit < 1 {
		limit = 20
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetSkip((page - 1) * limit).
		SetLimit(limit)

	cursor, err := r.coll.Find(ctx, query, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("list inquiries failed: %w", err)
	}
	defer cursor.Close(ctx)

	var inquiries []models.Inquiry
	if err := cursor.All(ctx, &inquiries); err != nil {
		return nil, 0, fmt.Errorf("decode inquiries failed: %w", err)
	}
	return inquiries, total, nil
}

// Delete permanently removes an inquiry.
func (r *MongoInquiryRepo) Delete(ctx context.Context, id string) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"id": id})
	if err != nil {
		return fmt.Errorf("delete inquiry failed: %w", err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// Stats aggregates inquiry counts by status.
func (r *MongoInquiryRepo) Stats(ctx context.Context) (*models.InquiryStats, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.M{
			"_id":   "$status",
			"count": bson.M{"$sum": 1},
		}}},
	}

	cursor, err := r.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("aggregate inquiry stats failed: %w", err)
	}
	defer cursor.Close(ctx)

	var rows []struct {
		Status string `bson:"_id"`
		Count  int64  `bson:"count"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, fmt.Errorf("decode inquiry stats failed: %w", err)
	}

	stats := &models.InquiryStats{ByStatus: make(map[string]int64, len(rows))}
	for _, row := range rows {
		stats.ByStatus[row.Status] = row.Count
		stats.Total += row.Count
		if row.Status == string(models.InquiryUnread) {
			stats.Unread = row.Count
		}
	}
	return stats, nil
}
