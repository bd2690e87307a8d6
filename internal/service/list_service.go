package service

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/SugarStoneMaster/MyMovieList/internal/models"
	"github.com/SugarStoneMaster/MyMovieList/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type ListUserStore interface {
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.UserDoc, error)
	PushListEntry(ctx context.Context, userID primitive.ObjectID, entry models.ListEntry) (repository.MutationResult, error)
	UpdateListEntry(ctx context.Context, userID, movieID primitive.ObjectID, watched, favourite bool) (repository.MutationResult, error)
	PullListEntry(ctx context.Context, userID, movieID primitive.ObjectID) (repository.MutationResult, error)
	ListEntries(ctx context.Context, userID primitive.ObjectID, watched, favourite bool) ([]models.ListEntry, error)
}

type ListMovieStore interface {
	IncAddedCount(ctx context.Context, movieID primitive.ObjectID, delta int64) error
}

// ListService mutates the embedded movies_list on user documents. Each
// entry moves through to_watch / watched / favourite states; favourite
// always implies watched, enforced here on every mutation.
type ListService struct {
	users  ListUserStore
	movies ListMovieStore
	stats  *StatsService
}

func NewListService(users ListUserStore, movies ListMovieStore, stats *StatsService) *ListService {
	return &ListService{users: users, movies: movies, stats: stats}
}

// normalizeAdd applies the add-side invariant: a favourite entry is
// created watched.
func normalizeAdd(watched, favourite bool) (bool, bool) {
	if favourite {
		watched = true
	}
	return watched, favourite
}

// normalizeUpdate applies the update-side invariant: un-watching an
// entry also un-favourites it.
func normalizeUpdate(watched, favourite bool) (bool, bool) {
	if !watched {
		favourite = false
	}
	return watched, favourite
}

// Add appends a movie to the user's list. A movie already present is a
// no-op (Modified=false), never a duplicate entry. A successful add
// bumps the movie's added_count immediately; the count stays
// approximate until the batched recomputation reconciles it.
func (s *ListService) Add(ctx context.Context, req models.AddListEntryRequest) (repository.MutationResult, error) {
	if err := checkStruct(req); err != nil {
		return repository.MutationResult{}, err
	}
	userID, err := parseID("user_id", req.UserID)
	if err != nil {
		return repository.MutationResult{}, err
	}
	movieID, err := parseID("movie_id", req.MovieID)
	if err != nil {
		return repository.MutationResult{}, err
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return repository.MutationResult{}, err
	}
	if user == nil {
		return repository.MutationResult{}, fmt.Errorf("%w: user %s", ErrNotFound, req.UserID)
	}

	watched, favourite := normalizeAdd(req.Watched, req.Favourite)
	res, err := s.users.PushListEntry(ctx, userID, models.ListEntry{
		MovieID:   movieID,
		Title:     req.Title,
		Poster:    req.Poster,
		Watched:   watched,
		Favourite: favourite,
	})
	if err != nil {
		return repository.MutationResult{}, err
	}
	if res.Modified {
		if err := s.movies.IncAddedCount(ctx, movieID, 1); err != nil {
			log.Printf("[list] added_count bump for movie %s failed: %v", req.MovieID, err)
		}
		cacheDel(ctx, movieCacheKey(req.MovieID))
		s.noteListWrite(ctx, movieID)
	}
	return res, nil
}

// Update toggles the watched/favourite flags of an existing entry.
// Matched-without-modified means the entry already carried the
// requested flags.
func (s *ListService) Update(ctx context.Context, req models.UpdateListEntryRequest) (repository.MutationResult, error) {
	if err := checkStruct(req); err != nil {
		return repository.MutationResult{}, err
	}
	userID, err := parseID("user_id", req.UserID)
	if err != nil {
		return repository.MutationResult{}, err
	}
	movieID, err := parseID("movie_id", req.MovieID)
	if err != nil {
		return repository.MutationResult{}, err
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return repository.MutationResult{}, err
	}
	if user == nil {
		return repository.MutationResult{}, fmt.Errorf("%w: user %s", ErrNotFound, req.UserID)
	}

	watched, favourite := normalizeUpdate(req.Watched, req.Favourite)
	res, err := s.users.UpdateListEntry(ctx, userID, movieID, watched, favourite)
	if err != nil {
		return repository.MutationResult{}, err
	}
	if res.Modified {
		cacheDel(ctx, movieCacheKey(req.MovieID))
		s.noteListWrite(ctx, movieID)
	}
	return res, nil
}

// Remove deletes the entry. The result distinguishes "removed" from
// "nothing to remove". added_count is not decremented here; the
// recomputation pass brings it back to ground truth.
func (s *ListService) Remove(ctx context.Context, userIDHex, movieIDHex string) (repository.MutationResult, error) {
	userID, err := parseID("user_id", userIDHex)
	if err != nil {
		return repository.MutationResult{}, err
	}
	movieID, err := parseID("movie_id", movieIDHex)
	if err != nil {
		return repository.MutationResult{}, err
	}

	res, err := s.users.PullListEntry(ctx, userID, movieID)
	if err != nil {
		return repository.MutationResult{}, err
	}
	if !res.Matched {
		return repository.MutationResult{}, fmt.Errorf("%w: user %s", ErrNotFound, userIDHex)
	}
	if res.Modified {
		cacheDel(ctx, movieCacheKey(movieIDHex))
		s.noteListWrite(ctx, movieID)
	}
	return res, nil
}

// Entries lists the user's entries matching both flags, in insertion
// order. Requesting watched=false forces favourite=false, mirroring
// the write-side invariant.
func (s *ListService) Entries(ctx context.Context, userIDHex string, watched, favourite bool) ([]models.ListEntry, error) {
	userID, err := parseID("user_id", userIDHex)
	if err != nil {
		return nil, err
	}
	if !watched {
		favourite = false
	}

	entries, err := s.users.ListEntries(ctx, userID, watched, favourite)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("%w: user %s", ErrNotFound, userIDHex)
	}
	return entries, err
}

func (s *ListService) noteListWrite(ctx context.Context, movieID primitive.ObjectID) {
	if err := s.stats.NoteListWrite(ctx, movieID); err != nil {
		log.Printf("[list] stats update for movie %s failed (will retry on next write): %v", movieID.Hex(), err)
	}
}
