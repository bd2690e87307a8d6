package service

import (
	"context"
	"fmt"
	"math"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// RecomputeThreshold is the number of pending writes a movie
// accumulates before its aggregates are recomputed from the
// authoritative collections. Batching trades freshness for query cost:
// aggregates may lag true state by up to threshold-1 writes.
const RecomputeThreshold = 5

type StatsMovieStore interface {
	BumpPendingReviews(ctx context.Context, movieID primitive.ObjectID) (int64, error)
	BumpPendingListWrites(ctx context.Context, movieID primitive.ObjectID) (int64, error)
	StoreVoteStats(ctx context.Context, movieID primitive.ObjectID, avg float64, count int64) error
	StoreListCounts(ctx context.Context, movieID primitive.ObjectID, added, watched int64) error
}

type StatsReviewSource interface {
	VoteStats(ctx context.Context, movieID primitive.ObjectID) (float64, int64, error)
}

type StatsUserSource interface {
	CountByMovie(ctx context.Context, movieID primitive.ObjectID) (int64, error)
	CountWatchedByMovie(ctx context.Context, movieID primitive.ObjectID) (int64, error)
}

// StatsService recomputes the derived movie aggregates behind durable
// per-movie pending counters. The counters live on the movie document
// and are bumped atomically, so the threshold behaves the same across
// restarts and multiple API processes.
type StatsService struct {
	movies  StatsMovieStore
	reviews StatsReviewSource
	users   StatsUserSource
}

func NewStatsService(movies StatsMovieStore, reviews StatsReviewSource, users StatsUserSource) *StatsService {
	return &StatsService{movies: movies, reviews: reviews, users: users}
}

// NoteReviewWrite records one review create/update for the movie and
// recomputes the vote aggregates once the threshold is reached. On a
// recomputation failure the pending counter is left intact, so the
// next qualifying write retries; nothing is silently dropped.
func (s *StatsService) NoteReviewWrite(ctx context.Context, movieID primitive.ObjectID) error {
	pending, err := s.movies.BumpPendingReviews(ctx, movieID)
	if err != nil {
		return fmt.Errorf("bump pending review writes: %w", err)
	}
	if pending < RecomputeThreshold {
		return nil
	}
	return s.RecomputeVoteStats(ctx, movieID)
}

// NoteListWrite is the list-side counterpart, batching the
// added_count/watched_count recomputation independently of reviews.
func (s *StatsService) NoteListWrite(ctx context.Context, movieID primitive.ObjectID) error {
	pending, err := s.movies.BumpPendingListWrites(ctx, movieID)
	if err != nil {
		return fmt.Errorf("bump pending list writes: %w", err)
	}
	if pending < RecomputeThreshold {
		return nil
	}
	return s.RecomputeListCounts(ctx, movieID)
}

// RecomputeVoteStats derives vote_average/vote_count from the review
// collection. Zero reviews writes 0/0 rather than leaving stale
// values. The store clears the pending counter in the same write.
func (s *StatsService) RecomputeVoteStats(ctx context.Context, movieID primitive.ObjectID) error {
	avg, count, err := s.reviews.VoteStats(ctx, movieID)
	if err != nil {
		return fmt.Errorf("vote stats aggregation: %w", err)
	}
	if err := s.movies.StoreVoteStats(ctx, movieID, round2(avg), count); err != nil {
		return fmt.Errorf("store vote stats: %w", err)
	}
	return nil
}

// RecomputeListCounts derives added_count/watched_count from the user
// collection.
func (s *StatsService) RecomputeListCounts(ctx context.Context, movieID primitive.ObjectID) error {
	added, err := s.users.CountByMovie(ctx, movieID)
	if err != nil {
		return fmt.Errorf("count added: %w", err)
	}
	watched, err := s.users.CountWatchedByMovie(ctx, movieID)
	if err != nil {
		return fmt.Errorf("count watched: %w", err)
	}
	if err := s.movies.StoreListCounts(ctx, movieID, added, watched); err != nil {
		return fmt.Errorf("store list counts: %w", err)
	}
	return nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
