package controllers

import (
	"context"
	"time"

	"tube-service/configs"
	"tube-service/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MessageStore is the append-only chat log per stream.
type MessageStore interface {
	Insert(ctx context.Context, msg *models.ChatMessage) (primitive.ObjectID, error)
	// ListBefore returns up to limit messages newest-first, restricted to
	// timestamps strictly before the cursor when one is set.
	ListBefore(ctx context.Context, streamID string, limit int64, before time.Time) ([]models.ChatMessage, error)
}

type MongoMessageStore struct{}

func NewMongoMessageStore() *MongoMessageStore {
	return &MongoMessageStore{}
}

func (s *MongoMessageStore) collection() *mongo.Collection {
	return configs.GetCollection(configs.DB, "chatmessages")
}

func (s *MongoMessageStore) Insert(ctx context.Context, msg *models.ChatMessage) (primitive.ObjectID, error) {
	res, err := s.collection().InsertOne(ctx, msg)
	if err != nil {
		return primitive.NilObjectID, err
	}
	return res.InsertedID.(primitive.ObjectID), nil
}

func (s *MongoMessageStore) ListBefore(ctx context.Context, streamID string, limit int64, before time.Time) ([]models.ChatMessage, error) {
	filter := bson.M{"streamid": streamID}
	if !before.IsZero() {
		filter["datecreated"] = bson.M{"$lt": before}
	}

	findOpts := options.Find().
		SetSort(bson.D{{Key: "datecreated", Value: -1}}).
		SetLimit(limit)

	cur, err := s.collection().Find(ctx, filter, findOpts)
	if err != nil {
		return nil, err
	}
	messages := []models.ChatMessage{}
	if err := cur.All(ctx, &messages); err != nil {
		return nil, err
	}
	return messages, nil
}
