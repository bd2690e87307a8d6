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

const troupeCacheTTLSeconds = 300

type TroupeStore interface {
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.TroupeDoc, error)
	ListByType(ctx context.Context, troupeType string, offset, limit int64) (repository.Page[models.TroupeDoc], error)
}

type TroupeService struct {
	troupe TroupeStore
}

func NewTroupeService(troupe TroupeStore) *TroupeService {
	return &TroupeService{troupe: troupe}
}

// GetTroupe reads one cast/crew member through the redis cache.
// Troupe documents are built at ingestion and effectively immutable,
// so the TTL is generous.
func (s *TroupeService) GetTroupe(ctx context.Context, idHex string) (*models.TroupeDoc, error) {
	id, err := parseID("troupe_id", idHex)
	if err != nil {
		return nil, err
	}

	key := "troupe:" + idHex
	var cached models.TroupeDoc
	hit, err := cache.GetJSON(ctx, key, &cached)
	if err != nil {
		log.Printf("[troupe] cache read for %s failed: %v", idHex, err)
	}
	if hit {
		return &cached, nil
	}

	t, err := s.troupe.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, fmt.Errorf("%w: troupe member %s", ErrNotFound, idHex)
	}

	if err := cache.SetJSON(ctx, key, t, troupeCacheTTLSeconds); err != nil {
		log.Printf("[troupe] cache write for %s failed: %v", idHex, err)
	}
	return t, nil
}

func (s *TroupeService) List(ctx context.Context, troupeType string, page, pageSize int64) (repository.Page[models.TroupeDoc], error) {
	if troupeType != "" && troupeType != "actor" && troupeType != "director" {
		return repository.Page[models.TroupeDoc]{}, fmt.Errorf("%w: type must be actor or director", ErrValidation)
	}
	if pageSize <= 0 {
		pageSize = 20
	}
	if page < 0 {
		page = 0
	}
	return s.troupe.ListByType(ctx, troupeType, page*pageSize, pageSize)
}
