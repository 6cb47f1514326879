package models

import "time"

// Relationship tracks a person mentioned by the user and how they relate.
// Like Topic it is a durable aggregate: no expiration field, never swept.
type Relationship struct {
	Name           string    `bson:"_id" json:"name"`
	Type           string    `bson:"type" json:"type"`
	Importance     float64   `bson:"importance" json:"importance"`
	FirstMentioned time.Time `bson:"first_mentioned" json:"firstMentioned"`
	LastMentioned  time.Time `bson:"last_mentioned" json:"lastMentioned"`
	MentionCount   int       `bson:"mention_count" json:"mentionCount"`
}
