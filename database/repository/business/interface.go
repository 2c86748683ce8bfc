// File: database/repository/business/interface.go
package businessRepo

import (
	"context"
	"time"

	"skedy/database"
	"skedy/models"

	"go.mongodb.org/mongo-driver/mongo"
)

type BusinessRepository interface {
	GetByID(ctx context.Context, businessID string) (*models.Business, error)
	// ListAtLocalMidnight returns every active business for which the given
	// UTC instant falls within tolerance after local midnight.
	ListAtLocalMidnight(ctx context.Context, utcInstant time.Time, tolerance time.Duration) ([]models.Business, error)
}

type mongoBusinessRepo struct {
	coll *mongo.Collection
}

// NewMongoBusinessRepo constructs a new MongoDB BusinessRepository.
func NewMongoBusinessRepo() BusinessRepository {
	db := database.GetDatabase()
	return &mongoBusinessRepo{
		coll: db.Collection("businesses"),
	}
}
