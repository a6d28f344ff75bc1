package models

import "time"

// Digest represents the aggregated daily traffic data to be stored in MongoDB
// and exported to Google Sheets.
type Digest struct {
	Date          time.Time `bson:"date" json:"date"`
	Inbound       int64     `bson:"inbound" json:"inbound"`
	Outbound      int64     `bson:"outbound" json:"outbound"`
	Failed        int64     `bson:"failed" json:"failed"`
	UniqueSenders int64     `bson:"unique_senders" json:"unique_senders"`
	CreatedAt     time.Time `bson:"created_at" json:"created_at"`
}
