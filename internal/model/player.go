package model

import "time"

// Player is a roster record in the externally-owned player catalog. Games
// reference players by id and snapshot the name at registration time.
type Player struct {
	ID        string    `json:"id" bson:"_id,omitempty"`
	Name      string    `json:"name" bson:"name"`
	Callsign  string    `json:"callsign,omitempty" bson:"callsign,omitempty"`
	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
}
