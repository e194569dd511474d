package appointmentRepo

import (
	"context"
	"fmt"

	"clinicore/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func (f Filter) toBSON() bson.M {
	query := bson.M{}
	if f.Date != "" {
		query["date"] = f.Date
	}
	if f.DateFrom != "" || f.DateTo != "" {
		dateRange := bson.M{}
		if f.DateFrom != "" {
			dateRange["$gte"] = f.DateFrom
		}
		if f.DateTo != "" {
			dateRange["$lte"] = f.DateTo
		}
		query["date"] = dateRange
	}
	if f.PatientID != "" {
		query["patient_id"] = f.PatientID
	}
	switch {
	case f.Status != "":
		query["status"] = f.Status
	case f.OnlyCancelled:
		query["status"] = models.StatusCancelled
	case f.ExcludeCancelled:
		query["status"] = bson.M{"$ne": models.StatusCancelled}
	}
	return query
}

// List returns appointments matching the typed filter, ordered by date and
// start time.
func (r *MongoAppointmentRepo) List(ctx context.Context, f Filter) ([]models.Appointment, error) {
	order := 1
	if f.SortDesc {
		order = -1
	}
	opts := options.Find().SetSort(bson.D{
		{Key: "date", Value: order},
		{Key: "start_time", Value: order},
	})
	if f.Limit > 0 {
		opts.SetLimit(f.Limit)
	}

	cursor, err := r.coll.Find(ctx, f.toBSON(), opts)
	if err != nil {
		return nil, fmt.Errorf("list appointments failed: %w", err)
	}
	defer cursor.Close(ctx)

	var appts []models.Appointment
	if err := cursor.All(ctx, &appts); err != nil {
		return nil, fmt.Errorf("decode appointments failed: %w", err)
	}
	return appts, nil
}

// ListByDate returns every appointment on the given civil date, cancelled
// included. The calendar layer decides which ones count toward capacity.
func (r *MongoAppointmentRepo) ListByDate(ctx context.Context, date string) ([]models.Appointment, error) {
	return r.List(ctx, Filter{Date: date})
}

// Missed returns appointments still in an active status whose window has
// fully elapsed: either the date is past, or it is today and the end time is
// already behind the clock. HH:mm strings compare lexicographically.
func (r *MongoAppointmentRepo) Missed(ctx context.Context, today, now string) ([]models.Appointment, error) {
	query := bson.M{
		"status": bson.M{"$in": bson.A{
			models.StatusPending, models.StatusScheduled, models.StatusRescheduled,
		}},
		"$or": bson.A{
			bson.M{"date": bson.M{"$lt": today}},
			bson.M{"date": today, "end_time": bson.M{"$lt": now}},
		},
	}

	cursor, err := r.coll.Find(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query missed appointments failed: %w", err)
	}
	defer cursor.Close(ctx)

	var appts []models.Appointment
	if err := cursor.All(ctx, &appts); err != nil {
		return nil, fmt.Errorf("decode missed appointments failed: %w", err)
	}
	return appts, nil
}

// CountByStatus returns the number of appointments per status.
func (r *MongoAppointmentRepo) CountByStatus(ctx context.Context) (map[string]int64, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.M{
			"_id":   "$status",
			"count": bson.M{"$sum": 1},
		}}},
	}

	cursor, err := r.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("aggregate status counts failed: %w", err)
	}
	defer cursor.Close(ctx)

	var rows []struct {
		Status string `bson:"_id"`
		Count  int64  `bson:"count"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, fmt.Errorf("decode status counts failed: %w", err)
	}

	counts := make(map[string]int64, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.Count
	}
	return counts, nil
}

// CountOnDate returns how many appointments fall on the given date.
func (r *MongoAppointmentRepo) CountOnDate(ctx context.Context, date string, activeOnly bool) (int64, error) {
	query := bson.M{"date": date}
	if activeOnly {
		query["status"] = bson.M{"$in": bson.A{
			models.StatusPending, models.StatusScheduled, models.StatusRescheduled,
		}}
	}
	n, err := r.coll.CountDocuments(ctx, query)
	if err != nil {
		return 0, fmt.Errorf("count appointments on date failed: %w", err)
	}
	return n, nil
}

// DistinctPatients counts the unique patients with a non-cancelled
// appointment dated inside [fromDate, toDate].
func (r *MongoAppointmentRepo) DistinctPatients(ctx context.Context, fromDate, toDate string) (int64, error) {
	query := bson.M{
		"date":   bson.M{"$gte": fromDate, "$lte": toDate},
		"status": bson.M{"$ne": models.StatusCancelled},
	}
	ids, err := r.coll.Distinct(ctx, "patient_id", query)
	if err != nil {
		return 0, fmt.Errorf("distinct patients failed: %w", err)
	}
	return int64(len(ids)), nil
}

// CountUpcoming returns the number of non-cancelled appointments dated on or
// after fromDate.
func (r *MongoAppointmentRepo) CountUpcoming(ctx context.Context, fromDate string) (int64, error) {
	query := bson.M{
		"date":   bson.M{"$gte": fromDate},
		"status": bson.M{"$ne": models.StatusCancelled},
	}
	n, err := r.coll.CountDocuments(ctx, query)
	if err != nil {
		return 0, fmt.Errorf("count upcoming appointments failed: %w", err)
	}
	return n, nil
}
