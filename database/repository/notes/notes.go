package noteRepo

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

// ErrNotFound is returned when no note matches the lookup.
var ErrNotFound = errors.New("note not found")

// NoteRepository is the persistence port for clinical notes.
type NoteRepository interface {
	Create(ctx context.Context, note models.Note) (string, error)
	GetByID(ctx context.Context, id string) (*models.Note, error)
	GetByAppointment(ctx context.Context, appointmentID string) (*models.Note, error)
	ListByPatient(ctx context.Context, patientID string) ([]models.Note, error)
	Update(ctx context.Context, note models.Note) error
	Delete(ctx context.Context, id string) error

	// Revenue aggregations over paid notes, keyed by the note's creation time.
	RevenueBetween(ctx context.Context, from, to time.Time) (float64, error)
	RevenueByDay(ctx context.Context, from, to time.Time) (map[string]float64, error)
}

// MongoNoteRepo is the MongoDB-backed implementation.
type MongoNoteRepo struct {
	coll *mongo.Collection
}

// NewMongoNoteRepo returns a new NoteRepository backed by MongoDB.
func NewMongoNoteRepo() *MongoNoteRepo {
	return &MongoNoteRepo{
		coll: database.DB().Collection("notes"),
	}
}

// Create inserts a new clinical note and returns its ID.
func (r *MongoNoteRepo) Create(ctx context.Context, note models.Note) (string, error) {
	if note.ID == "" {
		note.ID = uuid.New().String()
	}
	now := time.Now()
	note.CreatedAt = now
	note.UpdatedAt = now

	if _, err := r.coll.InsertOne(ctx, note); err != nil {
		return "", fmt.Errorf("insert note failed: %w", err)
	}
	return note.ID, nil
}

// GetByID returns the note with the given id.
func (r *MongoNoteRepo) GetByID(ctx context.Context, id string) (*models.Note, error) {
	var note models.Note
	err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&note)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find note failed: %w", err)
	}
	return &note, nil
}

// GetByAppointment returns the note attached to the given appointment.
func (r *MongoNoteRepo) GetByAppointment(ctx context.Context, appointmentID string) (*models.Note, error) {
	var note models.Note
	err := r.coll.FindOne(ctx, bson.M{"appointment_id": appointmentID}).Decode(&note)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find note failed: %w", err)
	}
	return &note, nil
}

// ListByPatient returns the patient's notes, newest first.
func (r *MongoNoteRepo) ListByPatient(ctx context.Context, patientID string) ([]models.Note, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.coll.Find(ctx, bson.M{"patient_id": patientID}, opts)
	if err != nil {
		return nil, fmt.Errorf("list notes failed: %w", err)
	}
	defer cursor.Close(ctx)

	var notes []models.Note
	if err := cursor.All(ctx, &notes); err != nil {
		return nil, fmt.Errorf("decode notes failed: %w", err)
	}
	return notes, nil
}

// Update replaces the stored note.
func (r *MongoNoteRepo) Update(ctx context.Context, note models.Note) error {
	note.UpdatedAt = time.Now()

	res, err := r.coll.ReplaceOne(ctx, bson.M{"id": note.ID}, note)
	if err != nil {
		return fmt.Errorf("update note failed: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a note.
func (r *MongoNoteRepo) Delete(ctx context.Context, id string) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"id": id})
	if err != nil {
		return fmt.Errorf("delete note failed: %w", err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func paidWindow(from, to time.Time) bson.M {
	return bson.M{
		"payment.status": "Paid",
		"created_at":     bson.M{"$gte": from, "$lte": to},
	}
}

// RevenueBetween sums the payment amounts of paid notes created inside the
// window.
func (r *MongoNoteRepo) RevenueBetween(ctx context.Context, from, to time.Time) (float64, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: paidWindow(from, to)}},
		{{Key: "$group", Value: bson.M{
			"_id":   nil,
			"total": bson.M{"$sum": "$payment.amount"},
		}}},
	}

	cursor, err := r.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return 0, fmt.Errorf("aggregate revenue failed: %w", err)
	}
	defer cursor.Close(ctx)

	var rows []struct {
		Total float64 `bson:"total"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return 0, fmt.Errorf("decode revenue failed: %w", err)
	}
	if len(rows) == 0 {
		return 0, nil
	}
	return rows[0].Total, nil
}

// RevenueByDay sums paid-note amounts per calendar day inside the window,
// keyed by "2006-01-02". Days without revenue are absent; the service fills
// the gaps.
func (r *MongoNoteRepo) RevenueByDay(ctx context.Context, from, to time.Time) (map[string]float64, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: paidWindow(from, to)}},
		{{Key: "$group", Value: bson.M{
			"_id": bson.M{"$dateToString": bson.M{
				"format": "%Y-%m-%d",
				"date":   "$created_at",
			}},
			"revenue": bson.M{"$sum": "$payment.amount"},
		}}},
	}

	cursor, err := r.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("aggregate revenue trend failed: %w", err)
	}
	defer cursor.Close(ctx)

	var rows []struct {
		Day     string  `bson:"_id"`
		Revenue float64 `bson:"revenue"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, fmt.Errorf("decode revenue trend failed: %w", err)
	}

	byDay := make(map[string]float64, len(rows))
	for _, row := range rows {
		byDay[row.Day] = row.Revenue
	}
	return byDay, nil
}
