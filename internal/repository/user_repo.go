package repository

import (
	"context"

	"github.com/SugarStoneMaster/MyMovieList/internal/db"
	"github.com/SugarStoneMaster/MyMovieList/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type UserRepository struct {
	col *mongo.Collection
}

func NewUserRepository() *UserRepository {
	return &UserRepository{col: db.DB().Collection("user")}
}

func (r *UserRepository) Insert(ctx context.Context, u *models.UserDoc) (primitive.ObjectID, error) {
	res, err := r.col.InsertOne(ctx, u)
	if err != nil {
		return primitive.NilObjectID, err
	}
	return res.InsertedID.(primitive.ObjectID), nil
}

func (r *UserRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.UserDoc, error) {
	var u models.UserDoc
	err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&u)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	return &u, err
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*models.UserDoc, error) {
	var u models.UserDoc
	err := r.col.FindOne(ctx, bson.M{"email": email}).Decode(&u)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	return &u, err
}

// PushListEntry appends an entry to the user's list. The $ne guard
// makes the write a no-op when the movie is already in the list, so a
// double add cannot duplicate the entry.
func (r *UserRepository) PushListEntry(ctx context.Context, userID primitive.ObjectID, entry models.ListEntry) (MutationResult, error) {
	res, err := r.col.UpdateOne(ctx,
		bson.M{"_id": userID, "movies_list.movie_id": bson.M{"$ne": entry.MovieID}},
		bson.M{"$push": bson.M{"movies_list": entry}},
	)
	if err != nil {
		return MutationResult{}, err
	}
	return mutationResult(res), nil
}

// UpdateListEntry sets the watched/favourite flags of one entry in
// place via the positional operator.
func (r *UserRepository) UpdateListEntry(ctx context.Context, userID, movieID primitive.ObjectID, watched, favourite bool) (MutationResult, error) {
	res, err := r.col.UpdateOne(ctx,
		bson.M{"_id": userID, "movies_list.movie_id": movieID},
		bson.M{"$set": bson.M{
			"movies_list.$.watched":   watched,
			"movies_list.$.favourite": favourite,
		}},
	)
	if err != nil {
		return MutationResult{}, err
	}
	return mutationResult(res), nil
}

// PullListEntry removes an entry. Matched-without-modified means the
// user exists but never had the movie.
func (r *UserRepository) PullListEntry(ctx context.Context, userID, movieID primitive.ObjectID) (MutationResult, error) {
	res, err := r.col.UpdateOne(ctx,
		bson.M{"_id": userID},
		bson.M{"$pull": bson.M{"movies_list": bson.M{"movie_id": movieID}}},
	)
	if err != nil {
		return MutationResult{}, err
	}
	return mutationResult(res), nil
}

// ListEntries projects the user's entries matching both flags, keeping
// insertion order. The filtering happens server-side with $filter.
func (r *UserRepository) ListEntries(ctx context.Context, userID primitive.ObjectID, watched, favourite bool) ([]models.ListEntry, error) {
	pipeline := bson.A{
		bson.D{{Key: "$match", Value: bson.D{{Key: "_id", Value: userID}}}},
		bson.D{{Key: "$project", Value: bson.D{
			{Key: "movies_list", Value: bson.D{{Key: "$filter", Value: bson.D{
				{Key: "input", Value: "$movies_list"},
				{Key: "as", Value: "entry"},
				{Key: "cond", Value: bson.D{{Key: "$and", Value: bson.A{
					bson.D{{Key: "$eq", Value: bson.A{"$$entry.watched", watched}}},
					bson.D{{Key: "$eq", Value: bson.A{"$$entry.favourite", favourite}}},
				}}}},
			}}}},
		}}},
	}

	cur, err := r.col.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	if !cur.Next(ctx) {
		if err := cur.Err(); err != nil {
			return nil, err
		}
		return nil, mongo.ErrNoDocuments
	}

	var doc struct {
		MoviesList []models.ListEntry `bson:"movies_list"`
	}
	if err := cur.Decode(&doc); err != nil {
		return nil, err
	}
	return doc.MoviesList, nil
}

// CountByMovie is the ground truth behind added_count: the number of
// users holding the movie in their list.
func (r *UserRepository) CountByMovie(ctx context.Context, movieID primitive.ObjectID) (int64, error) {
	return r.col.CountDocuments(ctx, bson.M{"movies_list.movie_id": movieID})
}

// CountWatchedByMovie backs watched_count.
func (r *UserRepository) CountWatchedByMovie(ctx context.Context, movieID primitive.ObjectID) (int64, error) {
	return r.col.CountDocuments(ctx, bson.M{
		"movies_list": bson.M{"$elemMatch": bson.M{
			"movie_id": movieID,
			"watched":  true,
		}},
	})
}
