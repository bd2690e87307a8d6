package repository

import (
	"context"
	"fmt"

	"github.com/SugarStoneMaster/MyMovieList/internal/db"
	"github.com/SugarStoneMaster/MyMovieList/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ReviewCacheSize bounds the embedded review subset on each movie.
const ReviewCacheSize = 5

// Fields a list query may sort or project by. Anything else is a
// client error, surfaced before the query runs.
var movieListFields = map[string]bool{
	"title":        true,
	"poster":       true,
	"release_year": true,
	"release_date": true,
	"popularity":   true,
	"vote_average": true,
	"vote_count":   true,
	"added_count":  true,
}

// MovieQuery describes a filtered, sorted, paginated movie listing.
type MovieQuery struct {
	Title       string
	Genres      []string
	ReleaseYear int
	Actor       string
	Director    string

	SortField string // empty: no explicit sort
	SortDesc  bool

	Projection []string // empty: default listing projection
	Offset     int64
	Limit      int64
}

type MovieRepository struct {
	col *mongo.Collection
}

func NewMovieRepository() *MovieRepository {
	return &MovieRepository{col: db.DB().Collection("movie")}
}

func (r *MovieRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.MovieDoc, error) {
	var m models.MovieDoc
	err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&m)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	return &m, err
}

func (r *MovieRepository) Insert(ctx context.Context, m *models.MovieDoc) (primitive.ObjectID, error) {
	res, err := r.col.InsertOne(ctx, m)
	if err != nil {
		return primitive.NilObjectID, err
	}
	return res.InsertedID.(primitive.ObjectID), nil
}

func (r *MovieRepository) InsertMany(ctx context.Context, movies []models.MovieDoc) (int, error) {
	docs := make([]any, len(movies))
	for i := range movies {
		docs[i] = movies[i]
	}
	res, err := r.col.InsertMany(ctx, docs)
	if err != nil {
		return 0, err
	}
	return len(res.InsertedIDs), nil
}

// List runs a filtered/sorted/projected page over the movie
// collection and returns it with the total match count.
func (r *MovieRepository) List(ctx context.Context, q MovieQuery) (Page[models.MovieDoc], error) {
	filter, err := buildMovieFilter(q)
	if err != nil {
		return Page[models.MovieDoc]{}, err
	}
	sort, err := buildMovieSort(q)
	if err != nil {
		return Page[models.MovieDoc]{}, err
	}
	projection, err := buildMovieProjection(q)
	if err != nil {
		return Page[models.MovieDoc]{}, err
	}
	return paginate[models.MovieDoc](ctx, r.col, filter, projection, sort, q.Offset, q.Limit)
}

func buildMovieFilter(q MovieQuery) (bson.M, error) {
	filter := bson.M{}
	if q.Title != "" {
		filter["title"] = q.Title
	}
	if len(q.Genres) == 1 {
		filter["genres"] = q.Genres[0]
	} else if len(q.Genres) > 1 {
		filter["genres"] = bson.M{"$all": q.Genres}
	}
	if q.ReleaseYear > 0 {
		filter["release_year"] = q.ReleaseYear
	}
	if q.Actor != "" {
		filter["actors.full_name"] = q.Actor
	}
	if q.Director != "" {
		filter["directors.full_name"] = q.Director
	}
	return filter, nil
}

func buildMovieSort(q MovieQuery) (bson.D, error) {
	if q.SortField == "" {
		return nil, nil
	}
	if !movieListFields[q.SortField] {
		return nil, fmt.Errorf("%w: cannot sort movies by %q", ErrBadQuery, q.SortField)
	}
	order := 1
	if q.SortDesc {
		order = -1
	}
	return bson.D{{Key: q.SortField, Value: order}}, nil
}

func buildMovieProjection(q MovieQuery) (bson.M, error) {
	if len(q.Projection) == 0 {
		return bson.M{
			"_id":          1,
			"title":        1,
			"poster":       1,
			"release_year": 1,
			"popularity":   1,
			"vote_average": 1,
		}, nil
	}
	projection := bson.M{"_id": 1}
	for _, f := range q.Projection {
		if !movieListFields[f] {
			return nil, fmt.Errorf("%w: cannot project movie field %q", ErrBadQuery, f)
		}
		projection[f] = 1
	}
	return projection, nil
}

// PushReviewSnapshot appends a review to the movie's embedded cache in
// a single update: $push with $sort/$slice keeps the newest five,
// date-descending, with no read-modify-write window.
func (r *MovieRepository) PushReviewSnapshot(ctx context.Context, movieID primitive.ObjectID, snap models.ReviewSnapshot) (MutationResult, error) {
	res, err := r.col.UpdateOne(ctx,
		bson.M{"_id": movieID},
		bson.M{"$push": bson.M{"reviews": bson.M{
			"$each":  bson.A{snap},
			"$sort":  bson.M{"date": -1},
			"$slice": ReviewCacheSize,
		}}},
	)
	if err != nil {
		return MutationResult{}, err
	}
	return mutationResult(res), nil
}

// UpdateCachedReview overwrites the mutable fields of a cached review
// in place. A miss means the review aged out of the five-review window
// and the cache is left untouched; the date is unchanged so no re-sort
// is needed.
func (r *MovieRepository) UpdateCachedReview(ctx context.Context, movieID, reviewID primitive.ObjectID, title, content string, vote float64) (MutationResult, error) {
	res, err := r.col.UpdateOne(ctx,
		bson.M{"_id": movieID, "reviews._id": reviewID},
		bson.M{"$set": bson.M{
			"reviews.$.title":   title,
			"reviews.$.content": content,
			"reviews.$.vote":    vote,
		}},
	)
	if err != nil {
		return MutationResult{}, err
	}
	return mutationResult(res), nil
}

// ReplaceReviewCache swaps the whole embedded cache, used by the
// reconciliation pass to rebuild it from the review collection.
func (r *MovieRepository) ReplaceReviewCache(ctx context.Context, movieID primitive.ObjectID, cache []models.ReviewSnapshot) error {
	if cache == nil {
		cache = []models.ReviewSnapshot{}
	}
	_, err := r.col.UpdateOne(ctx,
		bson.M{"_id": movieID},
		bson.M{"$set": bson.M{"reviews": cache}},
	)
	return err
}

// BumpPendingReviews atomically increments the movie's pending review
// write counter and returns the new value. Being a document field, the
// counter survives restarts and is shared across processes.
func (r *MovieRepository) BumpPendingReviews(ctx context.Context, movieID primitive.ObjectID) (int64, error) {
	return r.bumpPending(ctx, movieID, "pending_review_writes")
}

func (r *MovieRepository) BumpPendingListWrites(ctx context.Context, movieID primitive.ObjectID) (int64, error) {
	return r.bumpPending(ctx, movieID, "pending_list_writes")
}

func (r *MovieRepository) bumpPending(ctx context.Context, movieID primitive.ObjectID, field string) (int64, error) {
	opts := options.FindOneAndUpdate().
		SetReturnDocument(options.After).
		SetProjection(bson.M{field: 1})

	var doc bson.M
	err := r.col.FindOneAndUpdate(ctx,
		bson.M{"_id": movieID},
		bson.M{"$inc": bson.M{field: 1}},
		opts,
	).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	switch n := doc[field].(type) {
	case int32:
		return int64(n), nil
	case int64:
		return n, nil
	case float64:
		return int64(n), nil
	default:
		return 0, nil
	}
}

// StoreVoteStats writes recomputed vote aggregates and clears the
// pending counter in the same update, so a crash cannot leave a
// recomputed movie with stale pending writes.
func (r *MovieRepository) StoreVoteStats(ctx context.Context, movieID primitive.ObjectID, avg float64, count int64) error {
	_, err := r.col.UpdateOne(ctx,
		bson.M{"_id": movieID},
		bson.M{"$set": bson.M{
			"vote_average":          avg,
			"vote_count":            count,
			"pending_review_writes": int64(0),
		}},
	)
	return err
}

func (r *MovieRepository) StoreListCounts(ctx context.Context, movieID primitive.ObjectID, added, watched int64) error {
	_, err := r.col.UpdateOne(ctx,
		bson.M{"_id": movieID},
		bson.M{"$set": bson.M{
			"added_count":         added,
			"watched_count":       watched,
			"pending_list_writes": int64(0),
		}},
	)
	return err
}

// IncAddedCount is the immediate, best-effort counter bump on list
// adds. The batched recomputation reconciles it against ground truth.
func (r *MovieRepository) IncAddedCount(ctx context.Context, movieID primitive.ObjectID, delta int64) error {
	_, err := r.col.UpdateOne(ctx,
		bson.M{"_id": movieID},
		bson.M{"$inc": bson.M{"added_count": delta}},
	)
	return err
}

// AllIDs streams every movie id, used by the reconciliation pass.
func (r *MovieRepository) AllIDs(ctx context.Context) ([]primitive.ObjectID, error) {
	cur, err := r.col.Find(ctx, bson.M{}, options.Find().SetProjection(bson.M{"_id": 1}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var ids []primitive.ObjectID
	for cur.Next(ctx) {
		var doc struct {
			ID primitive.ObjectID `bson:"_id"`
		}
		if err := cur.Decode(&doc); err != nil {
			return nil, err
		}
		ids = append(ids, doc.ID)
	}
	return ids, cur.Err()
}

// CountPendingDrift reports how many movies still carry nonzero
// pending counters, for the maintenance summary.
func (r *MovieRepository) CountPendingDrift(ctx context.Context) (reviews, lists int64, err error) {
	reviews, err = r.col.CountDocuments(ctx, bson.M{"pending_review_writes": bson.M{"$gt": 0}})
	if err != nil {
		return 0, 0, err
	}
	lists, err = r.col.CountDocuments(ctx, bson.M{"pending_list_writes": bson.M{"$gt": 0}})
	if err != nil {
		return 0, 0, err
	}
	return reviews, lists, nil
}
