package patientRepo

import (
	"context"
	"errors"

	"clinicore/database"
	"clinicore/models"

	"go.mongodb.org/mongo-driver/mongo"
)

// ErrNotFound is returned when no patient matches the given id.
var ErrNotFound = errors.New("patient not found")

// ListOptions are the supported patient listing predicates.
type ListOptions struct {
	Page   int64
	Limit  int64
	Search string // matches name, contact number or email, case-insensitive
}

// PatientRepository is the persistence port for patient records.
type PatientRepository interface {
	Create(ctx context.Context, patient models.Patient) (string, error)
	GetByID(ctx context.Context, id string) (*models.Patient, error)
	Update(ctx context.Context, patient models.Patient) error
	List(ctx context.Context, opts ListOptions) ([]models.Patient, int64, error)
	SetActive(ctx context.Context, id string, active bool) error
	HardDelete(ctx context.Context, id string) error
	Count(ctx context.Context, activeOnly bool) (int64, error)
}

// MongoPatientRepo is the MongoDB-backed implementation.
type MongoPatientRepo struct {
	coll *mongo.Collection
}

// NewMongoPatientRepo returns a new PatientRepository backed by MongoDB.
func NewMongoPatientRepo() *MongoPatientRepo {
	return &MongoPatientRepo{
		coll: database.DB().Collection("patients"),
	}
}
