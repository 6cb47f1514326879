package models

import "time"

// Preference has the same shape as Fact, scoped to a category such as
// "food" or "entertainment".
type Preference struct {
	Key            string     `bson:"_id" json:"key"`
	Value          string     `bson:"value" json:"value"`
	Category       string     `bson:"category" json:"category"`
	Timestamp      time.Time  `bson:"timestamp" json:"timestamp"`
	Importance     float64    `bson:"importance" json:"importance"`
	ExpirationTime *time.Time `bson:"expiration_time" json:"expirationTime"`
	UpdateCount    int        `bson:"update_count" json:"updateCount"`
}
