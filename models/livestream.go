package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// LiveStream is the persisted live-broadcast session. Ingest credentials
// are write-once at creation; the stream key is a secret and is kept out
// of the default JSON shape, creation returns it through a dedicated
// response struct.
type LiveStream struct {
	ID               primitive.ObjectID `json:"_id,omitempty" bson:"_id,omitempty"`
	UserID           string             `json:"userID" bson:"userid"`
	Title            string             `json:"title" bson:"title"`
	Description      string             `json:"description,omitempty" bson:"description,omitempty"`
	ProviderStreamID string             `json:"-" bson:"provider_stream_id"`
	StreamKey        string             `json:"-" bson:"stream_key"`
	IngestURL        string             `json:"-" bson:"ingest_url"`
	PlaybackURL      string             `json:"playbackUrl" bson:"playback_url"`
	IsLive           bool               `json:"isLive" bson:"islive"`
	Ended            bool               `json:"ended" bson:"ended"`
	Viewers          int64              `json:"viewers" bson:"viewers"`
	PeakViewers      int64              `json:"peakViewers" bson:"peakviewers"`
	DateCreated      time.Time          `json:"datecreated" bson:"datecreated"`
	StartedAt        *time.Time         `json:"startedat,omitempty" bson:"startedat,omitempty"`
	EndedAt          *time.Time         `json:"endedat,omitempty" bson:"endedat,omitempty"`
}

type LiveStreamBody struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}
