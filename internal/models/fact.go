package models

import "time"

// Fact is a single extracted or explicitly stored piece of knowledge,
// keyed by a unique name such as "user_name" or "favorite_color".
type Fact struct {
	Key            string     `bson:"_id" json:"key"`
	Value          string     `bson:"value" json:"value"`
	Category       string     `bson:"category" json:"category"`
	Timestamp      time.Time  `bson:"timestamp" json:"timestamp"`
	Importance     float64    `bson:"importance" json:"importance"`
	ExpirationTime *time.Time `bson:"expiration_time" json:"expirationTime"`
	UpdateCount    int        `bson:"update_count" json:"updateCount"`
}
