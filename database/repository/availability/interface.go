// File: database/repository/availability/interface.go
package availabilityRepo

import (
	"context"
	"errors"

	"skedy/database"
	"skedy/models"

	"go.mongodb.org/mongo-driver/mongo"
)

// ErrVersionConflict is returned when a versioned save loses the race
// against a concurrent writer. Callers must re-read and retry.
var ErrVersionConflict = errors.New("availability store version conflict")

type AvailabilityRepository interface {
	// GetByBusiness loads a business's store snapshot. Returns (nil, nil)
	// when the business has never been onboarded into availability.
	GetByBusiness(ctx context.Context, businessID string) (*models.AvailabilityStore, error)
	// Save persists a snapshot. A snapshot with Version 0 is inserted; any
	// other version performs an optimistic replace guarded by the version
	// read, returning ErrVersionConflict if the row moved underneath it.
	Save(ctx context.Context, store *models.AvailabilityStore) error
}

type mongoAvailabilityRepo struct {
	coll *mongo.Collection
}

// NewMongoAvailabilityRepo constructs a new MongoDB AvailabilityRepository.
func NewMongoAvailabilityRepo() AvailabilityRepository {
	db := database.GetDatabase()
	return &mongoAvailabilityRepo{
		coll: db.Collection("availability"),
	}
}
