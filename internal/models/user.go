package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// ListEntry is one movie in a user's list. The user document is the
// source of truth for list state; movie.added_count/watched_count are
// derived from these entries.
//
// Invariant: Favourite == true implies Watched == true. Enforced at
// every mutation site, not by the store.
type ListEntry struct {
	MovieID   primitive.ObjectID `json:"movie_id" bson:"movie_id"`
	Title     string             `json:"title" bson:"title"`
	Poster    string             `json:"poster,omitempty" bson:"poster,omitempty"`
	Watched   bool               `json:"watched" bson:"watched"`
	Favourite bool               `json:"favourite" bson:"favourite"`
}

type UserDoc struct {
	ID         primitive.ObjectID `json:"_id,omitempty" bson:"_id,omitempty"`
	Username   string             `json:"username" bson:"username"`
	Email      string             `json:"email" bson:"email"`
	Password   string             `json:"-" bson:"password"`
	Role       string             `json:"role" bson:"role"` // user|admin
	MoviesList []ListEntry        `json:"movies_list" bson:"movies_list"`
}

// Bounds mirror the user collection's original JSON schema: username
// capped at 20 chars, password 8-16 chars, email must look like an
// address. Checked before every write instead of by a store validator.
type RegisterRequest struct {
	Username string `json:"username" validate:"required,max=20"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=16"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type AppleSignInRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Username string `json:"username" validate:"required,max=20"`
}

type AddListEntryRequest struct {
	UserID    string `json:"user_id" validate:"required"`
	MovieID   string `json:"movie_id" validate:"required"`
	Title     string `json:"title" validate:"required"`
	Poster    string `json:"poster"`
	Watched   bool   `json:"watched"`
	Favourite bool   `json:"favourite"`
}

type UpdateListEntryRequest struct {
	UserID    string `json:"user_id" validate:"required"`
	MovieID   string `json:"movie_id" validate:"required"`
	Watched   bool   `json:"watched"`
	Favourite bool   `json:"favourite"`
}
