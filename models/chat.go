package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ChatMessage is append-only: there is no edit or delete path.
type ChatMessage struct {
	ID          primitive.ObjectID `json:"_id,omitempty" bson:"_id,omitempty"`
	StreamID    string             `json:"streamID" bson:"streamid"`
	UserID      string             `json:"userID" bson:"userid"`
	Body        string             `json:"body" bson:"body"`
	DateCreated time.Time          `json:"datecreated" bson:"datecreated"`
}

type ChatMessageBody struct {
	Body string `json:"body"`
}

// ChatMessageView is the fully denormalized shape sent to clients, both
// in history pages and in the message:new broadcast, so subscribers need
// no follow-up fetch.
type ChatMessageView struct {
	ID        string    `json:"_id"`
	StreamID  string    `json:"streamID"`
	UserID    string    `json:"userID"`
	Username  string    `json:"username"`
	Avatar    string    `json:"avatar,omitempty"`
	Body      string    `json:"body"`
	Timestamp time.Time `json:"timestamp"`
}
