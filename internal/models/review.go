package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ReviewDoc is the authoritative record of one user's opinion on one
// movie. The username is an extended-reference snapshot: it avoids a
// join on the common read path and may go stale if the user renames.
type ReviewDoc struct {
	ID       primitive.ObjectID `json:"_id,omitempty" bson:"_id,omitempty"`
	MovieID  primitive.ObjectID `json:"movie_id" bson:"movie_id"`
	UserID   primitive.ObjectID `json:"user_id" bson:"user_id"`
	Username string             `json:"username" bson:"username"`
	Title    string             `json:"title" bson:"title"`
	Content  string             `json:"content" bson:"content"`
	Vote     float64            `json:"vote" bson:"vote"`
	Date     time.Time          `json:"date" bson:"date"`
}

// Snapshot is the form of the review embedded in the movie's cache.
func (r *ReviewDoc) Snapshot() ReviewSnapshot {
	return ReviewSnapshot{
		ID:       r.ID,
		UserID:   r.UserID,
		Username: r.Username,
		Title:    r.Title,
		Content:  r.Content,
		Vote:     r.Vote,
		Date:     r.Date,
	}
}

type AddReviewRequest struct {
	UserID   string  `json:"user_id" validate:"required"`
	Username string  `json:"username" validate:"required,max=20"`
	Title    string  `json:"title" validate:"required"`
	Content  string  `json:"content" validate:"required"`
	Vote     float64 `json:"vote" validate:"gte=0,lte=5"`
}

type UpdateReviewRequest struct {
	Title   string  `json:"title" validate:"required"`
	Content string  `json:"content" validate:"required"`
	Vote    float64 `json:"vote" validate:"gte=0,lte=5"`
}
