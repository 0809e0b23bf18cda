package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Comment struct {
	ID          primitive.ObjectID `json:"_id,omitempty" bson:"_id,omitempty"`
	VideoID     string             `json:"videoID" bson:"videoid"`
	UserID      string             `json:"userID" bson:"userid"`
	Comment     string             `json:"comment" bson:"comment"`
	IsDeleted   bool               `json:"-" bson:"isdeleted"`
	DateCreated time.Time          `json:"datecreated" bson:"datecreated"`
}

type CommentBody struct {
	Comment string `json:"comment"`
}

type CommentWithAuthor struct {
	Comment
	Author AuthorIdentity `json:"author"`
}
