package models

import "time"

// Business represents a mobile service company (removalists, plumbers, etc.)
// whose field providers share one aggregated availability calendar.
type Business struct {
	ID        string    `bson:"id" json:"id"`
	Name      string    `bson:"name" json:"name"`
	Timezone  string    `bson:"timezone" json:"timezone"` // IANA identifier, e.g. "Australia/Melbourne"
	Status    string    `bson:"status" json:"status"`     // "active", "suspended"
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}
