package model

import "time"

// FieldMap is a catalog record for a playing field layout. Games reference
// maps by id only.
type FieldMap struct {
	ID        string    `json:"id" bson:"_id,omitempty"`
	Name      string    `json:"name" bson:"name"`
	Location  string    `json:"location,omitempty" bson:"location,omitempty"`
	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
}
