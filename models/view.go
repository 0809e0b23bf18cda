package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// View is a dedup witness: it exists only so a repeat view by the same
// subject inside the trailing window can be detected. Expiry is implicit
// via the time-range lookup, the records are never deleted here.
type View struct {
	ID          primitive.ObjectID `json:"_id,omitempty" bson:"_id,omitempty"`
	ContentID   string             `json:"contentID" bson:"contentid"`
	ContentType string             `json:"contentType" bson:"contenttype"`
	Subject     string             `json:"subject" bson:"subject"`
	DateCreated time.Time          `json:"datecreated" bson:"datecreated"`
}
