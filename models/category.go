package models

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

type Category struct {
	Id          bson.ObjectID  `bson:"_id,omitempty" json:"id"`
	Name        BilingualText  `bson:"name" json:"name"`
	Slug        string         `bson:"slug" json:"slug"`
	Description *BilingualText `bson:"description,omitempty" json:"description,omitempty"`
	Image       Image          `bson:"image" json:"image"`
	Version     int64          `bson:"version" json:"version"`
	CreatedAt   time.Time      `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time      `bson:"updatedAt" json:"updatedAt"`
}
