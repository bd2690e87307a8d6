package service

import (
	"context"
	"fmt"
	"log"

	"github.com/SugarStoneMaster/MyMovieList/internal/models"
	"github.com/SugarStoneMaster/MyMovieList/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type MaintMovieStore interface {
	AllIDs(ctx context.Context) ([]primitive.ObjectID, error)
	ReplaceReviewCache(ctx context.Context, movieID primitive.ObjectID, cache []models.ReviewSnapshot) error
	CountPendingDrift(ctx context.Context) (reviews, lists int64, err error)
}

type MaintReviewSource interface {
	TopByMovie(ctx context.Context, movieID primitive.ObjectID, n int64) ([]models.ReviewSnapshot, error)
}

// MaintenanceService is the exactness backstop behind the approximate
// counters: a full pass rebuilds every movie's review cache and all
// four aggregates from the authoritative collections.
type MaintenanceService struct {
	movies  MaintMovieStore
	reviews MaintReviewSource
	stats   *StatsService
}

func NewMaintenanceService(movies MaintMovieStore, reviews MaintReviewSource, stats *StatsService) *MaintenanceService {
	return &MaintenanceService{movies: movies, reviews: reviews, stats: stats}
}

// Reconcile walks every movie, rebuilding its embedded review subset
// and recomputing vote and list aggregates. Per-movie failures are
// collected and reported, not fatal to the pass.
func (s *MaintenanceService) Reconcile(ctx context.Context) (*models.MaintenanceReport, error) {
	ids, err := s.movies.AllIDs(ctx)
	if err != nil {
		return nil, err
	}

	report := &models.MaintenanceReport{TotalMovies: len(ids)}
	for _, id := range ids {
		if err := s.reconcileMovie(ctx, id); err != nil {
			log.Printf("[maintenance] movie %s: %v", id.Hex(), err)
			report.Errors = append(report.Errors, fmt.Sprintf("%s: %v", id.Hex(), err))
			continue
		}
		report.Reconciled++
	}
	return report, nil
}

func (s *MaintenanceService) reconcileMovie(ctx context.Context, id primitive.ObjectID) error {
	snaps, err := s.reviews.TopByMovie(ctx, id, repository.ReviewCacheSize)
	if err != nil {
		return fmt.Errorf("load recent reviews: %w", err)
	}
	if err := s.movies.ReplaceReviewCache(ctx, id, snaps); err != nil {
		return fmt.Errorf("rebuild review cache: %w", err)
	}
	if err := s.stats.RecomputeVoteStats(ctx, id); err != nil {
		return err
	}
	if err := s.stats.RecomputeListCounts(ctx, id); err != nil {
		return err
	}
	cacheDel(ctx, movieCacheKey(id.Hex()))
	return nil
}

// Summary reports how many movies are still behind their pending-write
// thresholds, without touching anything.
func (s *MaintenanceService) Summary(ctx context.Context) (*models.MaintenanceSummary, error) {
	reviews, lists, err := s.movies.CountPendingDrift(ctx)
	if err != nil {
		return nil, err
	}
	return &models.MaintenanceSummary{
		MoviesWithPendingReviewWrites: reviews,
		MoviesWithPendingListWrites:   lists,
	}, nil
}
