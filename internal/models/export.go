package models

import "time"

// SchemaVersion is the version stamped into export metadata and checked
// nowhere on import: imports merge by key regardless of origin version.
const SchemaVersion = 1

// ExportMetadata describes an export document.
type ExportMetadata struct {
	ExportTime time.Time `json:"exportTime"`
	Version    int       `json:"version"`
	DBName     string    `json:"dbName"`
}

// ExportDocument is the full-store dump used for backup and migration.
type ExportDocument struct {
	Facts         []Fact               `json:"facts"`
	Conversations []ConversationRecord `json:"conversations"`
	Topics        []Topic              `json:"topics"`
	Preferences   []Preference         `json:"preferences"`
	Relationships []Relationship       `json:"relationships"`
	Metadata      *ExportMetadata      `json:"metadata"`
}

// ContextBundle is the retrieval engine's hand-off to the external
// response generator. The engine never composes prose itself.
type ContextBundle struct {
	RecentMessages      []ConversationRecord `json:"recentMessages"`
	TopicMessages       []ConversationRecord `json:"topicMessages"`
	RelevantFacts       []Fact               `json:"relevantFacts"`
	RelevantPreferences []Preference         `json:"relevantPreferences"`
	Topics              []string             `json:"topics"`
}

// SearchResults groups importance-weighted lexical search hits per collection.
type SearchResults struct {
	Facts         []Fact               `json:"facts,omitempty"`
	Conversations []ConversationRecord `json:"conversations,omitempty"`
	Topics        []Topic              `json:"topics,omitempty"`
	Preferences   []Preference         `json:"preferences,omitempty"`
	Relationships []Relationship       `json:"relationships,omitempty"`
}
