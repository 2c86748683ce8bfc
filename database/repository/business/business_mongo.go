// File: database/repository/business/business_mongo.go
package businessRepo

import (
	"context"
	"fmt"
	"time"

	"skedy/models"
	"skedy/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

func (r *mongoBusinessRepo) GetByID(ctx context.Context, businessID string) (*models.Business, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var biz models.Business
	err := r.coll.FindOne(ctx, bson.M{"id": businessID}).Decode(&biz)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, fmt.Errorf("business %s not found", businessID)
		}
		return nil, fmt.Errorf("error fetching business %s: %w", businessID, err)
	}
	return &biz, nil
}

// ListAtLocalMidnight fetches all active businesses and filters them by
// wall-clock time in application code; Mongo cannot evaluate IANA timezone
// rules server-side.
func (r *mongoBusinessRepo) ListAtLocalMidnight(ctx context.Context, utcInstant time.Time, tolerance time.Duration) ([]models.Business, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	cursor, err := r.coll.Find(ctx, bson.M{"status": "active"})
	if err != nil {
		return nil, fmt.Errorf("error listing businesses: %w", err)
	}
	defer cursor.Close(ctx)

	var all []models.Business
	if err := cursor.All(ctx, &all); err != nil {
		return nil, fmt.Errorf("error decoding businesses: %w", err)
	}

	logger := utils.GetLogger()
	var matched []models.Business
	for _, biz := range all {
		loc, err := time.LoadLocation(biz.Timezone)
		if err != nil {
			logger.Warn("business has invalid timezone, skipping rollover",
				zap.String("businessID", biz.ID), zap.String("timezone", biz.Timezone))
			continue
		}
		if utils.IsLocalMidnight(utcInstant, loc, tolerance) {
			matched = append(matched, biz)
		}
	}
	return matched, nil
}
