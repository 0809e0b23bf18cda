package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// HistoryEntry keeps one row per user+video, bumped to the latest watch
// time on rewatch.
type HistoryEntry struct {
	ID        primitive.ObjectID `json:"_id,omitempty" bson:"_id,omitempty"`
	UserID    string             `json:"userID" bson:"userid"`
	VideoID   string             `json:"videoID" bson:"videoid"`
	WatchedAt time.Time          `json:"watchedat" bson:"watchedat"`
}

type HistoryEntryWithVideo struct {
	HistoryEntry
	Video *Video `json:"video,omitempty"`
}
