package appointmentRepo

import (
	"context"
	"errors"

	"clinicore/database"
	"clinicore/models"

	"go.mongodb.org/mongo-driver/mongo"
)

// ErrNotFound is returned when no appointment matches the given id.
var ErrNotFound = errors.New("appointment not found")

// ErrSlotTaken is returned by the capacity-checked writes when the candidate
// window is already at capacity at commit time.
var ErrSlotTaken = errors.New("slot capacity reached")

// Filter enumerates the supported appointment query predicates. Zero values
// mean "no constraint".
type Filter struct {
	Date             string
	DateFrom         string
	DateTo           string
	Status           models.AppointmentStatus
	PatientID        string
	ExcludeCancelled bool
	OnlyCancelled    bool
	Limit            int64
	SortDesc         bool
}

// AppointmentRepository is the persistence port for appointments.
type AppointmentRepository interface {
	Create(ctx context.Context, appt models.Appointment) error
	GetByID(ctx context.Context, id string) (*models.Appointment, error)
	Update(ctx context.Context, appt models.Appointment) error
	List(ctx context.Context, f Filter) ([]models.Appointment, error)
	ListByDate(ctx context.Context, date string) ([]models.Appointment, error)

	// Missed returns appointments in an active status whose window has fully
	// elapsed relative to the given civil date and wall-clock time.
	Missed(ctx context.Context, today, now string) ([]models.Appointment, error)

	// InsertWithCapacityCheck and UpdateWithCapacityCheck re-validate the
	// overlap count inside a transaction before committing the write. They
	// return ErrSlotTaken when the window is full.
	InsertWithCapacityCheck(ctx context.Context, appt models.Appointment, capacity int) error
	UpdateWithCapacityCheck(ctx context.Context, appt models.Appointment, capacity int) error

	CountByStatus(ctx context.Context) (map[string]int64, error)
	CountOnDate(ctx context.Context, date string, activeOnly bool) (int64, error)
	CountUpcoming(ctx context.Context, fromDate string) (int64, error)

	// DistinctPatients counts the unique patients with a non-cancelled
	// appointment dated inside [fromDate, toDate].
	DistinctPatients(ctx context.Context, fromDate, toDate string) (int64, error)
}

// MongoAppointmentRepo is the MongoDB-backed implementation.
type MongoAppointmentRepo struct {
	coll *mongo.Collection
}

// NewMongoAppointmentRepo returns a new AppointmentRepository backed by MongoDB.
func NewMongoAppointmentRepo() *MongoAppointmentRepo {
	repo := &MongoAppointmentRepo{
		coll: database.DB().Collection("appointments"),
	}
	if err := repo.ensureIndexes(); err != nil {
		// Index creation failures are non-fatal; queries degrade to scans.
		logIndexError(err)
	}
	return repo
}
