package models

import "time"

type User struct {
	UserID     string    `json:"_id,omitempty" bson:"_id,omitempty"`
	UserName   string    `json:"username,omitempty" bson:"username,omitempty"`
	ProfilePic string    `json:"profile_pic" bson:"profile_pic"`
	CreatedAt  time.Time `json:"created_at,omitempty" bson:"created_at,omitempty"`
}
