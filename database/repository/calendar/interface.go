// File: database/repository/calendar/interface.go
package calendarRepo

import (
	"context"

	"skedy/database"
	"skedy/models"

	"go.mongodb.org/mongo-driver/mongo"
)

type CalendarSettingsRepository interface {
	GetByProvider(ctx context.Context, providerID string) (*models.CalendarSettings, error)
	ListByBusiness(ctx context.Context, businessID string) ([]models.CalendarSettings, error)
}

type mongoCalendarRepo struct {
	coll *mongo.Collection
}

// NewMongoCalendarRepo constructs a new MongoDB CalendarSettingsRepository.
func NewMongoCalendarRepo() CalendarSettingsRepository {
	db := database.GetDatabase()
	return &mongoCalendarRepo{
		coll: db.Collection("calendar_settings"),
	}
}
