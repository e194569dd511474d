package logRepo

import (
	"context"
	"fmt"
	"time"

	"clinicore/database"
	"clinicore/models"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Filter enumerates the supported audit-trail query predicates.
type Filter struct {
	ActorID    string
	Action     string
	EntityType string
	From       *time.Time
	To         *time.Time
	Page       int64
	Limit      int64
}

// LogRepository is the persistence port for the audit trail.
type LogRepository interface {
	Insert(ctx context.Context, entry models.AuditLog) error
	List(ctx context.Context, f Filter) ([]models.AuditLog, int64, error)
	Stats(ctx context.Context) (*models.LogStats, error)
}

// MongoLogRepo is the MongoDB-backed implementation.
type MongoLogRepo struct {
	coll *mongo.Collection
}

// NewMongoLogRepo returns a new LogRepository backed by MongoDB.
func NewMongoLogRepo() *MongoLogRepo {
	return &MongoLogRepo{
		coll: database.DB().Collection("audit_logs"),
	}
}

// Insert appends one trail entry. Entries are immutable once written.
func (r *MongoLogRepo) Insert(ctx context.Context, entry models.AuditLog) error {
	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}
	if entry.ActorName == "" {
		entry.ActorName = "Public User"
	}

	if _, err := r.coll.InsertOne(ctx, entry); err != nil {
		return fmt.Errorf("insert audit log failed: %w", err)
	}
	return nil
}

// List returns a page of trail entries plus the total match count, newest
// first.
func (r *MongoLogRepo) List(ctx context.Context, f Filter) ([]models.AuditLog, int64, error) {
	query := bson.M{}
	if f.ActorID != "" {
		query["actor_id"] = f.ActorID
	}
	if f.Action != "" {
		query["action"] = f.Action
	}
	if f.EntityType != "" {
		query["entity_type"] = f.EntityType
	}
	if f.From != nil || f.To != nil {
		created := bson.M{}
		if f.From != nil {
			created["$gte"] = *f.From
		}
		if f.To != nil {
			created["$lte"] = *f.To
		}
		query["created_at"] = created
	}

	total, err := r.coll.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, fmt.Errorf("count audit logs failed: %w", err)
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
		return nil, 0, fmt.Errorf("list audit logs failed: %w", err)
	}
	defer cursor.Close(ctx)

	var entries []models.AuditLog
	if err := cursor.All(ctx, &entries); err != nil {
		return nil, 0, fmt.Errorf("decode audit logs failed: %w", err)
	}
	return entries, total, nil
}

// Stats aggregates trail volume by action plus today's entry count.
func (r *MongoLogRepo) Stats(ctx context.Context) (*models.LogStats, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.M{
			"_id":   "$action",
			"count": bson.M{"$sum": 1},
		}}},
	}

	cursor, err := r.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("aggregate log stats failed: %w", err)
	}
	defer cursor.Close(ctx)

	var rows []struct {
		Action string `bson:"_id"`
		Count  int64  `bson:"count"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, fmt.Errorf("decode log stats failed: %w", err)
	}

	stats := &models.LogStats{ByAction: make(map[string]int64, len(rows))}
	for _, row := range rows {
		stats.ByAction[row.Action] = row.Count
		stats.Total += row.Count
	}

	midnight := time.Now().Truncate(24 * time.Hour)
	today, err := r.coll.CountDocuments(ctx, bson.M{"created_at": bson.M{"$gte": midnight}})
	if err != nil {
		return nil, fmt.Errorf("count today's logs failed: %w", err)
	}
	stats.Today = today

	return stats, nil
}
