package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/SugarStoneMaster/MyMovieList/internal/models"
	"github.com/SugarStoneMaster/MyMovieList/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ReviewStore interface {
	Insert(ctx context.Context, rev *models.ReviewDoc) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.ReviewDoc, error)
	Update(ctx context.Context, id primitive.ObjectID, title, content string, vote float64) (repository.MutationResult, error)
	ListByMovie(ctx context.Context, movieID primitive.ObjectID, offset, limit int64) (repository.Page[models.ReviewDoc], error)
}

type ReviewMovieStore interface {
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.MovieDoc, error)
	PushReviewSnapshot(ctx context.Context, movieID primitive.ObjectID, snap models.ReviewSnapshot) (repository.MutationResult, error)
	UpdateCachedReview(ctx context.Context, movieID, reviewID primitive.ObjectID, title, content string, vote float64) (repository.MutationResult, error)
}

// ReviewService owns the review write path: the authoritative insert,
// the movie's embedded five-review cache (subset pattern) and the
// pending-write accounting that drives aggregate recomputation.
type ReviewService struct {
	reviews ReviewStore
	movies  ReviewMovieStore
	stats   *StatsService
	feed    *ReviewFeed
}

func NewReviewService(reviews ReviewStore, movies ReviewMovieStore, stats *StatsService, feed *ReviewFeed) *ReviewService {
	return &ReviewService{reviews: reviews, movies: movies, stats: stats, feed: feed}
}

// AddReview inserts the authoritative review row, then pushes a
// snapshot into the movie's cache with a capped, date-sorted $push so
// two concurrent submissions cannot lose each other's entry. Cache and
// counter maintenance is best-effort once the insert has succeeded:
// failures are logged and reconciled later, never dropped silently.
func (s *ReviewService) AddReview(ctx context.Context, movieIDHex string, req models.AddReviewRequest) (primitive.ObjectID, error) {
	if err := checkStruct(req); err != nil {
		return primitive.NilObjectID, err
	}
	movieID, err := parseID("movie_id", movieIDHex)
	if err != nil {
		return primitive.NilObjectID, err
	}
	userID, err := parseID("user_id", req.UserID)
	if err != nil {
		return primitive.NilObjectID, err
	}

	movie, err := s.movies.GetByID(ctx, movieID)
	if err != nil {
		return primitive.NilObjectID, err
	}
	if movie == nil {
		return primitive.NilObjectID, fmt.Errorf("%w: movie %s", ErrNotFound, movieIDHex)
	}

	rev := &models.ReviewDoc{
		MovieID:  movieID,
		UserID:   userID,
		Username: req.Username,
		Title:    req.Title,
		Content:  req.Content,
		Vote:     req.Vote,
		Date:     time.Now().UTC(),
	}
	id, err := s.reviews.Insert(ctx, rev)
	if err != nil {
		return primitive.NilObjectID, err
	}
	rev.ID = id

	snap := rev.Snapshot()
	if _, err := s.movies.PushReviewSnapshot(ctx, movieID, snap); err != nil {
		log.Printf("[review] cache push for movie %s failed: %v", movieIDHex, err)
	}
	cacheDel(ctx, movieCacheKey(movieIDHex))
	s.feed.Publish(movieID, snap)

	if err := s.stats.NoteReviewWrite(ctx, movieID); err != nil {
		log.Printf("[review] stats update for movie %s failed (will retry on next write): %v", movieIDHex, err)
	}
	return id, nil
}

// UpdateReview overwrites title/content/vote of an existing review and
// mirrors the change into the movie's cached copy when it is still
// inside the five-review window. The date never changes, so the cache
// order is preserved.
func (s *ReviewService) UpdateReview(ctx context.Context, reviewIDHex string, req models.UpdateReviewRequest) (repository.MutationResult, error) {
	if err := checkStruct(req); err != nil {
		return repository.MutationResult{}, err
	}
	reviewID, err := parseID("review_id", reviewIDHex)
	if err != nil {
		return repository.MutationResult{}, err
	}

	rev, err := s.reviews.GetByID(ctx, reviewID)
	if err != nil {
		return repository.MutationResult{}, err
	}
	if rev == nil {
		return repository.MutationResult{}, fmt.Errorf("%w: review %s", ErrNotFound, reviewIDHex)
	}

	res, err := s.reviews.Update(ctx, reviewID, req.Title, req.Content, req.Vote)
	if err != nil {
		return repository.MutationResult{}, err
	}
	if !res.Modified {
		return res, nil
	}

	if _, err := s.movies.UpdateCachedReview(ctx, rev.MovieID, reviewID, req.Title, req.Content, req.Vote); err != nil {
		log.Printf("[review] cached review update for movie %s failed: %v", rev.MovieID.Hex(), err)
	}
	cacheDel(ctx, movieCacheKey(rev.MovieID.Hex()))

	if err := s.stats.NoteReviewWrite(ctx, rev.MovieID); err != nil {
		log.Printf("[review] stats update for movie %s failed (will retry on next write): %v", rev.MovieID.Hex(), err)
	}
	return res, nil
}

// ListByMovie pages over the authoritative review set, newest first.
func (s *ReviewService) ListByMovie(ctx context.Context, movieIDHex string, page, pageSize int64) (repository.Page[models.ReviewDoc], error) {
	movieID, err := parseID("movie_id", movieIDHex)
	if err != nil {
		return repository.Page[models.ReviewDoc]{}, err
	}
	if pageSize <= 0 {
		pageSize = 20
	}
	if page < 0 {
		page = 0
	}
	return s.reviews.ListByMovie(ctx, movieID, page*pageSize, pageSize)
}

// Feed exposes the live review stream for the WebSocket handler.
func (s *ReviewService) Feed() *ReviewFeed {
	return s.feed
}
