package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// TroupeMovie is one appearance summary. Built once at ingestion time,
// not maintained incrementally afterwards.
type TroupeMovie struct {
	Title       string `json:"title" bson:"title"`
	Poster      string `json:"poster,omitempty" bson:"poster,omitempty"`
	ReleaseYear int    `json:"release_year,omitempty" bson:"release_year,omitempty"`
}

type TroupeDoc struct {
	ID       primitive.ObjectID `json:"_id,omitempty" bson:"_id,omitempty"`
	FullName string             `json:"full_name" bson:"full_name"`
	Type     string             `json:"type" bson:"type"` // actor|director
	Picture  string             `json:"picture,omitempty" bson:"picture,omitempty"`
	Movies   []TroupeMovie      `json:"movies" bson:"movies"`
}
