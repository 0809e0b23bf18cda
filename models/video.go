package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Video holds the upload metadata for both long-form videos and shorts,
// distinguished by the Type field. Files themselves live behind the
// playback URL and are never handled here.
type Video struct {
	ID              primitive.ObjectID `json:"_id,omitempty" bson:"_id,omitempty"`
	Type            string             `json:"type" bson:"type"`
	UserID          string             `json:"userID" bson:"userid"`
	Title           string             `json:"title" bson:"title"`
	Description     string             `json:"description,omitempty" bson:"description,omitempty"`
	PlaybackURL     string             `json:"playbackUrl" bson:"playback_url"`
	ThumbnailURL    string             `json:"thumbnailUrl,omitempty" bson:"thumbnail_url,omitempty"`
	DurationSeconds int                `json:"durationSeconds,omitempty" bson:"duration_seconds,omitempty"`
	Tags            []string           `json:"tags" bson:"tags"`
	Visibility      string             `json:"visibility" bson:"visibility"`
	Views           int64              `json:"views" bson:"views"`
	IsDeleted       bool               `json:"-" bson:"isdeleted"`
	DateCreated     time.Time          `json:"datecreated" bson:"datecreated"`
}

type VideoBody struct {
	Title           string   `json:"title"`
	Description     string   `json:"description"`
	PlaybackURL     string   `json:"playbackUrl"`
	ThumbnailURL    string   `json:"thumbnailUrl"`
	DurationSeconds int      `json:"durationSeconds"`
	Tags            []string `json:"tags"`
	Visibility      string   `json:"visibility"`
}

// VideoWithUploader is the detail response shape: the uploader reference
// is resolved into username/avatar at the boundary instead of leaving the
// field variant-shaped.
type VideoWithUploader struct {
	Video
	Uploader AuthorIdentity `json:"uploader"`
}

// AuthorIdentity is the denormalized author block embedded in responses.
// A deleted account resolves to the Unknown placeholder, never an error.
type AuthorIdentity struct {
	UserID   string `json:"userID"`
	Username string `json:"username"`
	Avatar   string `json:"avatar,omitempty"`
}
