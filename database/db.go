package database

import (
	"context"
	"log"
	"time"

	"skedy/config"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoClient is the global MongoDB client instance.
var MongoClient *mongo.Client

// InitDB initializes the MongoDB connection.
func InitDB() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	clientOptions := options.Client().ApplyURI(config.AppConfig.DatabaseURL)
	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		log.Fatalf("failed to connect to MongoDB: %v", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		log.Fatalf("failed to ping MongoDB: %v", err)
	}
	MongoClient = client
	log.Println("Connected to MongoDB successfully!")
}

// databaseName resolves the configured application database name.
func databaseName() string {
	if name := config.AppConfig.DatabaseName; name != "" {
		return name
	}
	return "skedy"
}

// GetDatabase returns a handle to the configured application database.
func GetDatabase() *mongo.Database {
	return MongoClient.Database(databaseName())
}
