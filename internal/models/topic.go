package models

import "time"

// Topic is a long-lived aggregate tracking how often a subject comes up.
// Topics carry no expiration and are never evicted by consolidation.
type Topic struct {
	Name           string    `bson:"_id" json:"name"`
	Frequency      int       `bson:"frequency" json:"frequency"`
	Importance     float64   `bson:"importance" json:"importance"`
	FirstDiscussed time.Time `bson:"first_discussed" json:"firstDiscussed"`
	LastDiscussed  time.Time `bson:"last_discussed" json:"lastDiscussed"`
}
