// File: database/repository/availability/availability_mongo.go
package availabilityRepo

import (
	"context"
	"fmt"
	"time"

	"skedy/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

func (r *mongoAvailabilityRepo) GetByBusiness(ctx context.Context, businessID string) (*models.AvailabilityStore, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var store models.AvailabilityStore
	err := r.coll.FindOne(ctx, bson.M{"business_id": businessID}).Decode(&store)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, fmt.Errorf("error fetching availability for business %s: %w", businessID, err)
	}
	if store.Slots == nil {
		store.Slots = make(map[string]models.DaySlots)
	}
	return &store, nil
}

func (r *mongoAvailabilityRepo) Save(ctx context.Context, store *models.AvailabilityStore) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	now := time.Now().UTC()

	if store.Version == 0 {
		store.Version = 1
		store.UpdatedAt = now
		if _, err := r.coll.InsertOne(ctx, store); err != nil {
			return fmt.Errorf("error inserting availability for business %s: %w", store.BusinessID, err)
		}
		return nil
	}

	filter := bson.M{"business_id": store.BusinessID, "version": store.Version}
	update := bson.M{"$set": bson.M{
		"slots":            store.Slots,
		"applied_bookings": store.AppliedBookings,
		"version":          store.Version + 1,
		"updated_at":       now,
	}}
	res, err := r.coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("error saving availability for business %s: %w", store.BusinessID, err)
	}
	if res.MatchedCount == 0 {
		return ErrVersionConflict
	}
	store.Version++
	store.UpdatedAt = now
	return nil
}
