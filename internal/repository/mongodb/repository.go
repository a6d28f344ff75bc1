package mongodb

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/lordskyzw/pygwan/internal/domain/models"
)

// Repository defines the interface for message log storage.
type Repository interface {
	SaveMessage(ctx context.Context, record models.MessageRecord) error
	TrafficSummary(ctx context.Context, start, end time.Time) (models.TrafficSummary, error)
	SaveDigest(ctx context.Context, digest models.Digest) error
}

// MessageLogRepository implements the Repository interface for MongoDB.
type MessageLogRepository struct {
	client      *mongo.Client
	dbName      string
	messageColl string
	digestColl  string
}

// NewMessageLogRepository creates a new MongoDB message log repository.
func NewMessageLogRepository(ctx context.Context, uri string, dbName string) (*MessageLogRepository, error) {
	clientOptions := options.Client().ApplyURI(uri)
	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}

	// Ping the database to verify connection
	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	return &MessageLogRepository{
		client:      client,
		dbName:      dbName,
		messageColl: "messages",
		digestColl:  "digests",
	}, nil
}

// SaveMessage appends a message record to the log.
func (r *MessageLogRepository) SaveMessage(ctx context.Context, record models.MessageRecord) error {
	collection := r.client.Database(r.dbName).Collection(r.messageColl)
	_, err := collection.InsertOne(ctx, record)
	if err != nil {
		return fmt.Errorf("failed to insert message record: %w", err)
	}
	return nil
}

// TrafficSummary aggregates message counts between start (inclusive) and end
// (exclusive).
func (r *MessageLogRepository) TrafficSummary(ctx context.Context, start, end time.Time) (models.TrafficSummary, error) {
	collection := r.client.Database(r.dbName).Collection(r.messageColl)
	window := bson.M{"$gte": start, "$lt": end}

	var summary models.TrafficSummary
	var err error

	summary.Inbound, err = collection.CountDocuments(ctx, bson.M{
		"direction":   models.DirectionInbound,
		"recorded_at": window,
	})
	if err != nil {
		return models.TrafficSummary{}, fmt.Errorf("count inbound messages: %w", err)
	}

	summary.Outbound, err = collection.CountDocuments(ctx, bson.M{
		"direction":   models.DirectionOutbound,
		"recorded_at": window,
	})
	if err != nil {
		return models.TrafficSummary{}, fmt.Errorf("count outbound messages: %w", err)
	}

	summary.Failed, err = collection.CountDocuments(ctx, bson.M{
		"direction":   models.DirectionStatus,
		"status":      "failed",
		"recorded_at": window,
	})
	if err != nil {
		return models.TrafficSummary{}, fmt.Errorf("count failed messages: %w", err)
	}

	senders, err := collection.Distinct(ctx, "wa_id", bson.M{
		"direction":   models.DirectionInbound,
		"recorded_at": window,
	})
	if err != nil {
		return models.TrafficSummary{}, fmt.Errorf("count unique senders: %w", err)
	}
	summary.UniqueSenders = int64(len(senders))

	return summary, nil
}

// SaveDigest stores an aggregated daily digest.
func (r *MessageLogRepository) SaveDigest(ctx context.Context, digest models.Digest) error {
	collection := r.client.Database(r.dbName).Collection(r.digestColl)
	_, err := collection.InsertOne(ctx, digest)
	if err != nil {
		return fmt.Errorf("failed to insert digest: %w", err)
	}
	return nil
}

// Close closes the MongoDB connection.
func (r *MessageLogRepository) Close(ctx context.Context) error {
	return r.client.Disconnect(ctx)
}
