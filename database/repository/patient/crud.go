package patientRepo

import (
	"context"
	"fmt"
	"time"

	"clinicore/models"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Create inserts a new patient record and returns its ID.
func (r *MongoPatientRepo) Create(ctx context.Context, patient models.Patient) (string, error) {
	if patient.ID == "" {
		patient.ID = uuid.New().String()
	}
	now := time.Now()
	patient.CreatedAt = now
	patient.UpdatedAt = now
	if patient.RegistrationDate.IsZero() {
		patient.RegistrationDate = now
	}

	if _, err := r.coll.InsertOne(ctx, patient); err != nil {
		return "", fmt.Errorf("insert patient failed: %w", err)
	}
	return patient.ID, nil
}

// GetByID returns the patient with the given id.
func (r *MongoPatientRepo) GetByID(ctx context.Context, id string) (*models.Patient, error) {
	var patient models.Patient
	err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&patient)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find patient failed: %w", err)
	}
	return &patient, nil
}

// Update replaces the stored patient record.
func (r *MongoPatientRepo) Update(ctx context.Context, patient models.Patient) error {
	patient.UpdatedAt = time.Now()

	res, err := r.coll.ReplaceOne(ctx, bson.M{"id": patient.ID}, patient)
	if err != nil {
		return fmt.Errorf("update patient failed: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// List returns a page of patients plus the total match count. Search matches
// name parts, contact number and email case-insensitively.
func (r *MongoPatientRepo) List(ctx context.Context, opts ListOptions) ([]models.Patient, int64, error) {
	query := bson.M{}
	if opts.Search != "" {
		regex := bson.M{"$regex": opts.Search, "$options": "i"}
		query["$or"] = bson.A{
			bson.M{"first_name": regex},
			bson.M{"last_name": regex},
			bson.M{"contact_number": regex},
			bson.M{"email": regex},
		}
	}

	total, err := r.coll.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, fmt.Errorf("count patients failed: %w", err)
	}

	page := opts.Page
	if page < 1 {
		page = 1
	}
	limit := opts.Limit
	if limit < 1 {
		limit = 10
	}

	findOpts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetSkip((page - 1) * limit).
		SetLimit(limit)

	cursor, err := r.coll.Find(ctx, query, findOpts)
	if err != nil {
		return nil, 0, fmt.Errorf("list patients failed: %w", err)
	}
	defer cursor.Close(ctx)

	var patients []models.Patient
	if err := cursor.All(ctx, &patients); err != nil {
		return nil, 0, fmt.Errorf("decode patients failed: %w", err)
	}
	return patients, total, nil
}

// SetActive flips the soft-delete flag.
func (r *MongoPatientRepo) SetActive(ctx context.Context, id string, active bool) error {
	res, err := r.coll.UpdateOne(ctx, bson.M{"id": id}, bson.M{
		"$set": bson.M{"is_active": active, "updated_at": time.Now()},
	})
	if err != nil {
		return fmt.Errorf("set patient active failed: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// HardDelete permanently removes a patient record. Superadmin only.
func (r *MongoPatientRepo) HardDelete(ctx context.Context, id string) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"id": id})
	if err != nil {
		return fmt.Errorf("delete patient failed: %w", err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// Count returns the number of patients, optionally active only.
func (r *MongoPatientRepo) Count(ctx context.Context, activeOnly bool) (int64, error) {
	query := bson.M{}
	if activeOnly {
		query["is_active"] = true
	}
	n, err := r.coll.CountDocuments(ctx, query)
	if err != nil {
		return 0, fmt.Errorf("count patients failed: %w", err)
	}
	return n, nil
}
