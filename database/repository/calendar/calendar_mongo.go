// File: database/repository/calendar/calendar_mongo.go
package calendarRepo

import (
	"context"
	"fmt"
	"time"

	"skedy/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

func (r *mongoCalendarRepo) GetByProvider(ctx context.Context, providerID string) (*models.CalendarSettings, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var settings models.CalendarSettings
	err := r.coll.FindOne(ctx, bson.M{"provider_id": providerID}).Decode(&settings)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, fmt.Errorf("calendar settings for provider %s not found", providerID)
		}
		return nil, fmt.Errorf("error fetching calendar settings for provider %s: %w", providerID, err)
	}
	return &settings, nil
}

func (r *mongoCalendarRepo) ListByBusiness(ctx context.Context, businessID string) ([]models.CalendarSettings, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	cursor, err := r.coll.Find(ctx, bson.M{"business_id": businessID})
	if err != nil {
		return nil, fmt.Errorf("error listing calendar settings for business %s: %w", businessID, err)
	}
	defer cursor.Close(ctx)

	var settings []models.CalendarSettings
	if err := cursor.All(ctx, &settings); err != nil {
		return nil, fmt.Errorf("error decoding calendar settings: %w", err)
	}
	return settings, nil
}
