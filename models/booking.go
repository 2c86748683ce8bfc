package models

import "time"

// Booking represents a confirmed booking record. The scheduling engine only
// reads BusinessID, ProviderID and the UTC start/end instants.
type Booking struct {
	ID         string    `bson:"id" json:"id"`
	BusinessID string    `bson:"business_id" json:"business_id"`
	ProviderID string    `bson:"provider_id" json:"provider_id"`
	UserID     string    `bson:"user_id" json:"user_id"`
	StartAt    time.Time `bson:"start_at" json:"start_at"` // UTC
	EndAt      time.Time `bson:"end_at" json:"end_at"`     // UTC
	Status     string    `bson:"status" json:"status"`     // "confirmed", "cancelled"
	CreatedAt  time.Time `bson:"created_at" json:"created_at"`
}
