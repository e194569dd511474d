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

// overlapQuery matches non-cancelled appointments on appt.Date whose half-open
// window [start,end) intersects the candidate's. Intervals [s1,e1) and [s2,e2)
// overlap iff s1 < e2 && s2 < e1; HH:mm strings compare lexicographically.
func overlapQuery(appt models.Appointment, excludeSelf bool) bson.M {
	query := bson.M{
		"date":       appt.Date,
		"status":     bson.M{"$ne": models.StatusCancelled},
		"start_time": bson.M{"$lt": appt.EndTime},
		"end_time":   bson.M{"$gt": appt.StartTime},
	}
	if excludeSelf {
		query["id"] = bson.M{"$ne": appt.ID}
	}
	return query
}

// InsertWithCapacityCheck inserts the appointment only if the overlap count
// for its window is still below capacity. Count and insert run in one Mongo
// transaction so two concurrent bookings cannot both slip under the limit.
func (r *MongoAppointmentRepo) InsertWithCapacityCheck(ctx context.Context, appt models.Appointment, capacity int) error {
	if appt.ID == "" {
		appt.ID = uuid.New().String()
	}
	if appt.CreatedAt.IsZero() {
		now := time.Now()
		appt.CreatedAt = now
		appt.UpdatedAt = now
	}

	return r.withCapacityCheck(ctx, appt, capacity, false, func(sc mongo.SessionContext) error {
		if _, err := r.coll.InsertOne(sc, appt); err != nil {
			return fmt.Errorf("insert appointment failed: %w", err)
		}
		return nil
	})
}

// UpdateWithCapacityCheck replaces the stored appointment only if its new
// window is still below capacity, excluding the appointment's own pre-move
// record from the count.
func (r *MongoAppointmentRepo) UpdateWithCapacityCheck(ctx context.Context, appt models.Appointment, capacity int) error {
	if appt.UpdatedAt.IsZero() {
		appt.UpdatedAt = time.Now()
	}

	return r.withCapacityCheck(ctx, appt, capacity, true, func(sc mongo.SessionContext) error {
		res, err := r.coll.ReplaceOne(sc, bson.M{"id": appt.ID}, appt)
		if err != nil {
			return fmt.Errorf("update appointment failed: %w", err)
		}
		if res.MatchedCount == 0 {
			return ErrNotFound
		}
		return nil
	})
}

func (r *MongoAppointmentRepo) withCapacityCheck(
	ctx context.Context,
	appt models.Appointment,
	capacity int,
	excludeSelf bool,
	write func(sc mongo.SessionContext) error,
) error {
	client := r.coll.Database().Client()
	sess, err := client.StartSession()
	if err != nil {
		return fmt.Errorf("could not start mongo session: %w", err)
	}
	defer sess.EndSession(ctx)

	txnFn := func(sc mongo.SessionContext) error {
		// Cancelled appointments never count toward capacity; a swept or
		// cancelled record frees its window for re-booking.
		n, err := r.coll.CountDocuments(sc, overlapQuery(appt, excludeSelf))
		if err != nil {
			return fmt.Errorf("overlap count failed: %w", err)
		}
		if n >= int64(capacity) {
			return ErrSlotTaken
		}
		return write(sc)
	}

	return mongo.WithSession(ctx, sess, func(sc mongo.SessionContext) error {
		if err := sc.StartTransaction(); err != nil {
			return err
		}
		if err := txnFn(sc); err != nil {
			_ = sc.AbortTransaction(context.Background())
			return err
		}
		return sc.CommitTransaction(sc)
	})
}
