package repository

import (
	"context"

	"github.com/SugarStoneMaster/MyMovieList/internal/db"
	"github.com/SugarStoneMaster/MyMovieList/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type ReviewRepository struct {
	col *mongo.Collection
}

func NewReviewRepository() *ReviewRepository {
	return &ReviewRepository{col: db.DB().Collection("review")}
}

func (r *ReviewRepository) Insert(ctx context.Context, rev *models.ReviewDoc) (primitive.ObjectID, error) {
	res, err := r.col.InsertOne(ctx, rev)
	if err != nil {
		return primitive.NilObjectID, err
	}
	return res.InsertedID.(primitive.ObjectID), nil
}

func (r *ReviewRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.ReviewDoc, error) {
	var rev models.ReviewDoc
	err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&rev)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	return &rev, err
}

// Update overwrites the mutable fields of a review. The date is left
// untouched so the movie's cached copy keeps its position.
func (r *ReviewRepository) Update(ctx context.Context, id primitive.ObjectID, title, content string, vote float64) (MutationResult, error) {
	res, err := r.col.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{
			"title":   title,
			"content": content,
			"vote":    vote,
		}},
	)
	if err != nil {
		return MutationResult{}, err
	}
	return mutationResult(res), nil
}

// ListByMovie pages over a movie's reviews, newest first.
func (r *ReviewRepository) ListByMovie(ctx context.Context, movieID primitive.ObjectID, offset, limit int64) (Page[models.ReviewDoc], error) {
	return paginate[models.ReviewDoc](ctx, r.col,
		bson.M{"movie_id": movieID},
		nil,
		bson.D{{Key: "date", Value: -1}},
		offset, limit,
	)
}

// VoteStats aggregates the authoritative review rows for one movie
// into the mean vote and the row count. No rows yields (0, 0).
func (r *ReviewRepository) VoteStats(ctx context.Context, movieID primitive.ObjectID) (float64, int64, error) {
	pipeline := bson.A{
		bson.D{{Key: "$match", Value: bson.D{{Key: "movie_id", Value: movieID}}}},
		bson.D{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: nil},
			{Key: "avg", Value: bson.D{{Key: "$avg", Value: "$vote"}}},
			{Key: "count", Value: bson.D{{Key: "$sum", Value: 1}}},
		}}},
	}

	cur, err := r.col.Aggregate(ctx, pipeline)
	if err != nil {
		return 0, 0, err
	}
	defer cur.Close(ctx)

	if !cur.Next(ctx) {
		return 0, 0, cur.Err()
	}

	var doc struct {
		Avg   float64 `bson:"avg"`
		Count int64   `bson:"count"`
	}
	if err := cur.Decode(&doc); err != nil {
		return 0, 0, err
	}
	return doc.Avg, doc.Count, nil
}

// TopByMovie returns the n most recent reviews as cache snapshots,
// used to rebuild a movie's embedded subset.
func (r *ReviewRepository) TopByMovie(ctx context.Context, movieID primitive.ObjectID, n int64) ([]models.ReviewSnapshot, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "date", Value: -1}}).
		SetLimit(n)

	cur, err := r.col.Find(ctx, bson.M{"movie_id": movieID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var snaps []models.ReviewSnapshot
	for cur.Next(ctx) {
		var rev models.ReviewDoc
		if err := cur.Decode(&rev); err != nil {
			return nil, err
		}
		snaps = append(snaps, rev.Snapshot())
	}
	return snaps, cur.Err()
}
