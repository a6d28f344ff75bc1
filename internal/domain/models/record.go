package models

import "time"

// MessageDirection distinguishes the origin of a logged message.
type MessageDirection string

const (
	DirectionInbound  MessageDirection = "in"
	DirectionOutbound MessageDirection = "out"
	DirectionStatus   MessageDirection = "status"
)

// MessageRecord is a single WhatsApp message (or status update) as persisted
// in the MongoDB message log.
type MessageRecord struct {
	Direction  MessageDirection `bson:"direction" json:"direction"`
	WaID       string           `bson:"wa_id" json:"wa_id"`
	Name       string           `bson:"name,omitempty" json:"name,omitempty"`
	MessageID  string           `bson:"message_id" json:"message_id"`
	Type       string           `bson:"type" json:"type"`
	Body       string           `bson:"body,omitempty" json:"body,omitempty"`
	Status     string           `bson:"status,omitempty" json:"status,omitempty"`
	Timestamp  string           `bson:"timestamp,omitempty" json:"timestamp,omitempty"`
	RecordedAt time.Time        `bson:"recorded_at" json:"recorded_at"`
}

// TrafficSummary aggregates message counts over a reporting window.
type TrafficSummary struct {
	Inbound       int64 `bson:"inbound" json:"inbound"`
	Outbound      int64 `bson:"outbound" json:"outbound"`
	Failed        int64 `bson:"failed" json:"failed"`
	UniqueSenders int64 `bson:"unique_senders" json:"unique_senders"`
}
