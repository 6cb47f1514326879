package models

import (
	"encoding/json"
	"time"
)

// Inbound notification kinds consumed from the message bus.
const (
	EventConversationMessage  = "conversation-message"
	EventStoreFact            = "store-fact"
	EventUpdatePreference     = "update-preference"
	EventRequestVisualization = "request-memory-visualization"
	EventRequestExport        = "request-memory-export"
	EventRequestImport        = "request-memory-import"
)

// Outbound notification kinds emitted to the message bus.
const (
	EventInitialized        = "long-term-memory-initialized"
	EventFactStored         = "fact-stored"
	EventPreferenceStored   = "preference-stored"
	EventRelationshipStored = "relationship-stored"
	EventVisualizationData  = "memory-visualization-data"
	EventExportData         = "memory-export-data"
	EventImportCompleted    = "memory-import-completed"
	EventConsolidated       = "memory-consolidated"
)

// EventEnvelope wraps every notification on the wire.
type EventEnvelope struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// ConversationMessageEvent carries one message of dialogue to be memorized.
type ConversationMessageEvent struct {
	Message   string    `json:"message"`
	IsUser    bool      `json:"isUser"`
	Timestamp time.Time `json:"timestamp"`
}

// StoreFactEvent explicitly stores a fact, bypassing extraction.
type StoreFactEvent struct {
	Key        string  `json:"key"`
	Value      string  `json:"value"`
	Importance float64 `json:"importance"`
	Category   string  `json:"category"`
}

// UpdatePreferenceEvent stores or updates a user preference.
type UpdatePreferenceEvent struct {
	Key        string  `json:"key"`
	Value      string  `json:"value"`
	Category   string  `json:"category"`
	Importance float64 `json:"importance"`
}

// VisualizationRequest asks for the raw data behind one visualization type.
type VisualizationRequest struct {
	Type   string `json:"type"`
	Filter string `json:"filter,omitempty"`
}

// ImportRequest carries a previously exported memory document.
type ImportRequest struct {
	MemoryData *ExportDocument `json:"memoryData"`
}
