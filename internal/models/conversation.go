package models

import "time"

// ConversationRecord is one message of dialogue history. Records are
// immutable once written; they are only ever deleted, never updated.
type ConversationRecord struct {
	ID             string     `bson:"_id" json:"id"`
	Message        string     `bson:"message" json:"message"`
	IsUser         bool       `bson:"is_user" json:"isUser"`
	Timestamp      time.Time  `bson:"timestamp" json:"timestamp"`
	Importance     float64    `bson:"importance" json:"importance"`
	ExpirationTime *time.Time `bson:"expiration_time" json:"expirationTime"`
	Topic          string     `bson:"topic" json:"topic"`
	AllTopics      []string   `bson:"all_topics" json:"allTopics"`
}
