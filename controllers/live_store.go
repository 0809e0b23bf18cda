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

type ViewerAction string

const (
	ActionJoin  ViewerAction = "join"
	ActionLeave ViewerAction = "leave"
)

type StreamListOptions struct {
	UserID   string
	LiveOnly bool
	Limit    int64
}

// StreamStore persists live stream records. All counter mutation happens
// as single-document atomic updates at the store, never as a read plus a
// write from the handler.
type StreamStore interface {
	Insert(ctx context.Context, stream *models.LiveStream) (primitive.ObjectID, error)
	Get(ctx context.Context, streamID string) (*models.LiveStream, error)
	List(ctx context.Context, opts StreamListOptions) ([]models.LiveStream, error)
	ApplyViewerAction(ctx context.Context, streamID string, action ViewerAction) (*models.LiveStream, error)
	// SetLive flips islive false->true on a stream that has not ended.
	// Reports whether this call performed the flip, so StreamStart fires
	// exactly once under concurrent starts.
	SetLive(ctx context.Context, streamID string) (bool, error)
	// SetEnded marks the stream terminally ended. Reports whether this
	// call performed the transition.
	SetEnded(ctx context.Context, streamID string) (bool, error)
}

type MongoStreamStore struct{}

func NewMongoStreamStore() *MongoStreamStore {
	return &MongoStreamStore{}
}

func (s *MongoStreamStore) collection() *mongo.Collection {
	return configs.GetCollection(configs.DB, "livestreams")
}

func (s *MongoStreamStore) Insert(ctx context.Context, stream *models.LiveStream) (primitive.ObjectID, error) {
	res, err := s.collection().InsertOne(ctx, stream)
	if err != nil {
		return primitive.NilObjectID, err
	}
	return res.InsertedID.(primitive.ObjectID), nil
}

func (s *MongoStreamStore) Get(ctx context.Context, streamID string) (*models.LiveStream, error) {
	oID, err := primitive.ObjectIDFromHex(streamID)
	if err != nil {
		return nil, errNotFound
	}
	stream := models.LiveStream{}
	err = s.collection().FindOne(ctx, bson.M{"_id": oID}).Decode(&stream)
	if err == mongo.ErrNoDocuments {
		return nil, errNotFound
	}
	if err != nil {
		return nil, err
	}
	return &stream, nil
}

func (s *MongoStreamStore) List(ctx context.Context, opts StreamListOptions) ([]models.LiveStream, error) {
	filter := bson.M{}
	if opts.UserID != "" {
		filter["userid"] = opts.UserID
	}
	if opts.LiveOnly {
		filter["islive"] = true
		filter["ended"] = false
	}

	findOpts := options.Find().
		SetSort(bson.D{{Key: "datecreated", Value: -1}}).
		SetLimit(opts.Limit)

	cur, err := s.collection().Find(ctx, filter, findOpts)
	if err != nil {
		return nil, err
	}
	streams := []models.LiveStream{}
	if err := cur.All(ctx, &streams); err != nil {
		return nil, err
	}
	return streams, nil
}

// joinPipeline increments viewers and raises peakviewers in the same
// atomic document update, so the peak comparison can't race a concurrent
// join.
func joinPipeline() bson.A {
	return bson.A{
		bson.M{"$set": bson.M{"viewers": bson.M{"$add": bson.A{"$viewers", 1}}}},
		bson.M{"$set": bson.M{"peakviewers": bson.M{"$max": bson.A{"$peakviewers", "$viewers"}}}},
	}
}

// leavePipeline decrements viewers with a floor at zero.
func leavePipeline() bson.A {
	return bson.A{
		bson.M{"$set": bson.M{"viewers": bson.M{"$max": bson.A{0, bson.M{"$add": bson.A{"$viewers", -1}}}}}},
	}
}

func (s *MongoStreamStore) ApplyViewerAction(ctx context.Context, streamID string, action ViewerAction) (*models.LiveStream, error) {
	oID, err := primitive.ObjectIDFromHex(streamID)
	if err != nil {
		return nil, errNotFound
	}

	pipeline := joinPipeline()
	if action == ActionLeave {
		pipeline = leavePipeline()
	}

	after := options.FindOneAndUpdate().SetReturnDocument(options.After)
	stream := models.LiveStream{}
	err = s.collection().FindOneAndUpdate(ctx, bson.M{"_id": oID}, pipeline, after).Decode(&stream)
	if err == mongo.ErrNoDocuments {
		return nil, errNotFound
	}
	if err != nil {
		return nil, err
	}
	return &stream, nil
}

func (s *MongoStreamStore) SetLive(ctx context.Context, streamID string) (bool, error) {
	oID, err := primitive.ObjectIDFromHex(streamID)
	if err != nil {
		return false, errNotFound
	}

	now := time.Now()
	filter := bson.M{"_id": oID, "islive": false, "ended": false}
	update := bson.M{"$set": bson.M{"islive": true, "startedat": now}}

	res, err := s.collection().UpdateOne(ctx, filter, update)
	if err != nil {
		return false, err
	}
	return res.ModifiedCount == 1, nil
}

func (s *MongoStreamStore) SetEnded(ctx context.Context, streamID string) (bool, error) {
	oID, err := primitive.ObjectIDFromHex(streamID)
	if err != nil {
		return false, errNotFound
	}

	now := time.Now()
	filter := bson.M{"_id": oID, "ended": false}
	update := bson.M{"$set": bson.M{"ended": true, "islive": false, "endedat": now}}

	res, err := s.collection().UpdateOne(ctx, filter, update)
	if err != nil {
		return false, err
	}
	return res.ModifiedCount == 1, nil
}
