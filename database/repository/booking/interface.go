// File: database/repository/booking/interface.go
package bookingRepo

import (
	"context"
	"time"

	"skedy/database"
	"skedy/models"

	"go.mongodb.org/mongo-driver/mongo"
)

type BookingRepository interface {
	Create(ctx context.Context, booking *models.Booking) error
	GetByID(ctx context.Context, bookingID string) (*models.Booking, error)
	// ListConfirmedInRange returns confirmed bookings for the given providers
	// whose windows intersect [from, to). Used during slot generation to drop
	// candidates a provider is no longer free for.
	ListConfirmedInRange(ctx context.Context, businessID string, providerIDs []string, from, to time.Time) ([]models.Booking, error)
}

type mongoBookingRepo struct {
	coll *mongo.Collection
}

// NewMongoBookingRepo constructs a new MongoDB BookingRepository.
func NewMongoBookingRepo() BookingRepository {
	db := database.GetDatabase()
	return &mongoBookingRepo{
		coll: db.Collection("bookings"),
	}
}
