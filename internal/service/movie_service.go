package service

import (
	"context"
	"fmt"
	"log"

	"github.com/SugarStoneMaster/MyMovieList/internal/cache"
	"github.com/SugarStoneMaster/MyMovieList/internal/models"
	"github.com/SugarStoneMaster/MyMovieList/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const movieCacheTTLSeconds = 60

func movieCacheKey(idHex string) string {
	return "movie:" + idHex
}

// cacheDel is an indirection over cache.Del so tests can observe which
// keys a write path invalidates.
var cacheDel = cache.Del

type MovieStore interface {
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.MovieDoc, error)
	List(ctx context.Context, q repository.MovieQuery) (repository.Page[models.MovieDoc], error)
}

type MovieService struct {
	movies MovieStore
}

func NewMovieService(movies MovieStore) *MovieService {
	return &MovieService{movies: movies}
}

// GetMovie reads one movie through the redis cache. Review writes
// invalidate the key, so a cached document is at most TTL seconds
// behind the store.
func (s *MovieService) GetMovie(ctx context.Context, idHex string) (*models.MovieDoc, error) {
	id, err := parseID("movie_id", idHex)
	if err != nil {
		return nil, err
	}

	var cached models.MovieDoc
	hit, err := cache.GetJSON(ctx, movieCacheKey(idHex), &cached)
	if err != nil {
		log.Printf("[movie] cache read for %s failed: %v", idHex, err)
	}
	if hit {
		return &cached, nil
	}

	m, err := s.movies.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, fmt.Errorf("%w: movie %s", ErrNotFound, idHex)
	}

	if err := cache.SetJSON(ctx, movieCacheKey(idHex), m, movieCacheTTLSeconds); err != nil {
		log.Printf("[movie] cache write for %s failed: %v", idHex, err)
	}
	return m, nil
}

// List pages over movies with the caller's filter, sort and
// projection. Page/pageSize follow the offset = page * pageSize
// convention of every list endpoint.
func (s *MovieService) List(ctx context.Context, q repository.MovieQuery, page, pageSize int64) (repository.Page[models.MovieDoc], error) {
	if pageSize <= 0 {
		pageSize = 20
	}
	if page < 0 {
		page = 0
	}
	q.Offset = page * pageSize
	q.Limit = pageSize
	return s.movies.List(ctx, q)
}
