package comments

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Comment is stored embedded in its post document.
type Comment struct {
	ID     primitive.ObjectID `json:"id" bson:"_id"`
	Text   string             `json:"text" bson:"text"`
	Name   string             `json:"name,omitempty" bson:"name,omitempty"`
	Avatar string             `json:"avatar,omitempty" bson:"avatar,omitempty"`
	User   int64              `json:"user" bson:"user"`
	Date   time.Time          `json:"date" bson:"date"`
}

// New assigns a fresh id and the current time.
func New(text, name, avatar string, userID int64) *Comment {
	return &Comment{
		ID:     primitive.NewObjectID(),
		Text:   text,
		Name:   name,
		Avatar: avatar,
		User:   userID,
		Date:   time.Now(),
	}
}
