// File: database/repository/provider/interface.go
package providerRepo

import (
	"context"

	"skedy/database"
	"skedy/models"

	"go.mongodb.org/mongo-driver/mongo"
)

type ProviderRepository interface {
	ListByBusiness(ctx context.Context, businessID string) ([]models.Provider, error)
}

type mongoProviderRepo struct {
	coll *mongo.Collection
}

// NewMongoProviderRepo constructs a new MongoDB ProviderRepository.
func NewMongoProviderRepo() ProviderRepository {
	db := database.GetDatabase()
	return &mongoProviderRepo{
		coll: db.Collection("providers"),
	}
}
