package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Subscription links a subscriber to a channel (a creator's user id).
type Subscription struct {
	ID          primitive.ObjectID `json:"_id,omitempty" bson:"_id,omitempty"`
	Subscriber  string             `json:"subscriber" bson:"subscriber"`
	Channel     string             `json:"channel" bson:"channel"`
	DateCreated time.Time          `json:"datecreated" bson:"datecreated"`
}
