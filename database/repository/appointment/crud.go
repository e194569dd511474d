package appointmentRepo

import (
	"context"
	"fmt"
	"time"

	"clinicore/models"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// Create inserts a new appointment without a capacity re-check. Callers that
// need the check-then-write guarantee use InsertWithCapacityCheck instead.
func (r *MongoAppointmentRepo) Create(ctx context.Context, appt models.Appointment) error {
	if appt.ID == "" {
		appt.ID = uuid.New().String()
	}
	if appt.CreatedAt.IsZero() {
		now := time.Now()
		appt.CreatedAt = now
		appt.UpdatedAt = now
	}

	if _, err := r.coll.InsertOne(ctx, appt); err != nil {
		return fmt.Errorf("insert appointment failed: %w", err)
	}
	return nil
}

// GetByID returns the appointment with the given id.
func (r *MongoAppointmentRepo) GetByID(ctx context.Context, id string) (*models.Appointment, error) {
	var appt models.Appointment
	err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&appt)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find appointment failed: %w", err)
	}
	return &appt, nil
}

// Update replaces the stored appointment with the given one.
func (r *MongoAppointmentRepo) Update(ctx context.Context, appt models.Appointment) error {
	if appt.UpdatedAt.IsZero() {
		appt.UpdatedAt = time.Now()
	}

	res, err := r.coll.ReplaceOne(ctx, bson.M{"id": appt.ID}, appt)
	if err != nil {
		return fmt.Errorf("update appointment failed: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}
