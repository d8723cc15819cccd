package models

import "time"

type Course struct {
	ID        string    `bson:"_id,omitempty" json:"id"`
	Name      string    `bson:"name" json:"name"`
	Number    string    `bson:"number" json:"number"`
	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
}
