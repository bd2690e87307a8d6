package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// TroupeRef is the denormalized cast/crew snapshot embedded in a movie.
// It carries the member's name only, not a foreign key.
type TroupeRef struct {
	FullName string `json:"full_name" bson:"full_name"`
}

// ReviewSnapshot is one entry of the movie's embedded review cache
// (subset pattern: the 5 most recent reviews, newest first). The full
// review set lives in the review collection; the cache is a read
// optimization and never the source of truth.
type ReviewSnapshot struct {
	ID       primitive.ObjectID `json:"_id" bson:"_id"`
	UserID   primitive.ObjectID `json:"user_id" bson:"user_id"`
	Username string             `json:"username" bson:"username"`
	Title    string             `json:"title" bson:"title"`
	Content  string             `json:"content" bson:"content"`
	Vote     float64            `json:"vote" bson:"vote"`
	Date     time.Time          `json:"date" bson:"date"`
}

type MovieDoc struct {
	ID                  primitive.ObjectID `json:"_id,omitempty" bson:"_id,omitempty"`
	Title               string             `json:"title" bson:"title"`
	Poster              string             `json:"poster,omitempty" bson:"poster,omitempty"`
	Overview            string             `json:"overview,omitempty" bson:"overview,omitempty"`
	Tagline             string             `json:"tagline,omitempty" bson:"tagline,omitempty"`
	ReleaseDate         time.Time          `json:"release_date,omitempty" bson:"release_date,omitempty"`
	ReleaseYear         int                `json:"release_year,omitempty" bson:"release_year,omitempty"`
	Genres              []string           `json:"genres,omitempty" bson:"genres,omitempty"`
	ProductionCompanies []string           `json:"production_companies,omitempty" bson:"production_companies,omitempty"`
	ProductionCountries []string           `json:"production_countries,omitempty" bson:"production_countries,omitempty"`
	SpokenLanguages     []string           `json:"spoken_languages,omitempty" bson:"spoken_languages,omitempty"`
	Budget              int64              `json:"budget,omitempty" bson:"budget,omitempty"`
	Revenue             int64              `json:"revenue,omitempty" bson:"revenue,omitempty"`
	Runtime             int                `json:"runtime,omitempty" bson:"runtime,omitempty"`
	Popularity          float64            `json:"popularity,omitempty" bson:"popularity,omitempty"`
	Status              string             `json:"status,omitempty" bson:"status,omitempty"`
	Actors              []TroupeRef        `json:"actors,omitempty" bson:"actors,omitempty"`
	Directors           []TroupeRef        `json:"directors,omitempty" bson:"directors,omitempty"`

	// Derived aggregates. Rebuildable from the review and user
	// collections; allowed to lag within the pending-write thresholds.
	VoteAverage  float64 `json:"vote_average" bson:"vote_average"`
	VoteCount    int64   `json:"vote_count" bson:"vote_count"`
	AddedCount   int64   `json:"added_count" bson:"added_count"`
	WatchedCount int64   `json:"watched_count" bson:"watched_count"`

	Reviews []ReviewSnapshot `json:"reviews" bson:"reviews"`

	// Durable pending-write counters driving batched recomputation.
	PendingReviewWrites int64 `json:"-" bson:"pending_review_writes"`
	PendingListWrites   int64 `json:"-" bson:"pending_list_writes"`
}
