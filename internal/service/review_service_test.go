package service

import (
	"context"
	"sort"
	"testing"

	"github.com/SugarStoneMaster/MyMovieList/internal/models"
	"github.com/SugarStoneMaster/MyMovieList/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// reviewRepoStub is an in-memory review collection.
type reviewRepoStub struct {
	docs map[primitive.ObjectID]*models.ReviewDoc
}

func newReviewRepoStub() *reviewRepoStub {
	return &reviewRepoStub{docs: make(map[primitive.ObjectID]*models.ReviewDoc)}
}

func (s *reviewRepoStub) Insert(_ context.Context, rev *models.ReviewDoc) (primitive.ObjectID, error) {
	id := primitive.NewObjectID()
	stored := *rev
	stored.ID = id
	s.docs[id] = &stored
	return id, nil
}

func (s *reviewRepoStub) GetByID(_ context.Context, id primitive.ObjectID) (*models.ReviewDoc, error) {
	rev, ok := s.docs[id]
	if !ok {
		return nil, nil
	}
	copied := *rev
	return &copied, nil
}

func (s *reviewRepoStub) Update(_ context.Context, id primitive.ObjectID, title, content string, vote float64) (repository.MutationResult, error) {
	rev, ok := s.docs[id]
	if !ok {
		return repository.MutationResult{}, nil
	}
	rev.Title = title
	rev.Content = content
	rev.Vote = vote
	return repository.MutationResult{Matched: true, Modified: true}, nil
}

func (s *reviewRepoStub) ListByMovie(_ context.Context, movieID primitive.ObjectID, offset, limit int64) (repository.Page[models.ReviewDoc], error) {
	var all []models.ReviewDoc
	for _, rev := range s.docs {
		if rev.MovieID == movieID {
			all = append(all, *rev)
		}
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Date.After(all[j].Date) })

	page := repository.Page[models.ReviewDoc]{Total: int64(len(all))}
	for i := offset; i < int64(len(all)) && i < offset+limit; i++ {
		page.Items = append(page.Items, all[i])
	}
	return page, nil
}

// movieCacheStub mimics the capped, date-sorted $push and the
// positional cached-review update.
type movieCacheStub struct {
	movie *models.MovieDoc
}

func (s *movieCacheStub) GetByID(_ context.Context, id primitive.ObjectID) (*models.MovieDoc, error) {
	if s.movie == nil || s.movie.ID != id {
		return nil, nil
	}
	return s.movie, nil
}

func (s *movieCacheStub) PushReviewSnapshot(_ context.Context, movieID primitive.ObjectID, snap models.ReviewSnapshot) (repository.MutationResult, error) {
	if s.movie == nil || s.movie.ID != movieID {
		return repository.MutationResult{}, nil
	}
	s.movie.Reviews = append(s.movie.Reviews, snap)
	sort.Slice(s.movie.Reviews, func(i, j int) bool {
		return s.movie.Reviews[i].Date.After(s.movie.Reviews[j].Date)
	})
	if len(s.movie.Reviews) > 5 {
		s.movie.Reviews = s.movie.Reviews[:5]
	}
	return repository.MutationResult{Matched: true, Modified: true}, nil
}

func (s *movieCacheStub) UpdateCachedReview(_ context.Context, movieID, reviewID primitive.ObjectID, title, content string, vote float64) (repository.MutationResult, error) {
	if s.movie == nil || s.movie.ID != movieID {
		return repository.MutationResult{}, nil
	}
	for i := range s.movie.Reviews {
		if s.movie.Reviews[i].ID == reviewID {
			s.movie.Reviews[i].Title = title
			s.movie.Reviews[i].Content = content
			s.movie.Reviews[i].Vote = vote
			return repository.MutationResult{Matched: true, Modified: true}, nil
		}
	}
	return repository.MutationResult{}, nil
}

func newReviewTestService(movie *models.MovieDoc) (*ReviewService, *reviewRepoStub, *movieCacheStub) {
	reviews := newReviewRepoStub()
	movies := &movieCacheStub{movie: movie}
	stats := NewStatsService(newStatsMovieStub(), &reviewSourceStub{}, &userSourceStub{})
	svc := NewReviewService(reviews, movies, stats, NewReviewFeed())
	return svc, reviews, movies
}

func testMovie() *models.MovieDoc {
	return &models.MovieDoc{
		ID:      primitive.NewObjectID(),
		Title:   "The Matrix",
		Reviews: []models.ReviewSnapshot{},
	}
}

func addReviewRequest(title string) models.AddReviewRequest {
	return models.AddReviewRequest{
		UserID:   primitive.NewObjectID().Hex(),
		Username: "neo",
		Title:    title,
		Content:  "content of " + title,
		Vote:     4,
	}
}

func TestReviewService_AddReviewCachesSnapshot(t *testing.T) {
	movie := testMovie()
	svc, reviews, movies := newReviewTestService(movie)

	id, err := svc.AddReview(context.Background(), movie.ID.Hex(), addReviewRequest("great"))
	require.NoError(t, err)
	assert.NotEqual(t, primitive.NilObjectID, id)

	require.Len(t, movies.movie.Reviews, 1)
	assert.Equal(t, id, movies.movie.Reviews[0].ID)
	assert.Equal(t, "neo", movies.movie.Reviews[0].Username)
	require.NotNil(t, reviews.docs[id])
	assert.Equal(t, movie.ID, reviews.docs[id].MovieID)
}

func TestReviewService_CacheBoundedAndSorted(t *testing.T) {
	movie := testMovie()
	svc, _, movies := newReviewTestService(movie)

	var lastID primitive.ObjectID
	for i := 0; i < 7; i++ {
		id, err := svc.AddReview(context.Background(), movie.ID.Hex(), addReviewRequest("r"))
		require.NoError(t, err)
		lastID = id
	}

	cached := movies.movie.Reviews
	require.Len(t, cached, 5)
	// Newest first, strictly descending by date.
	assert.Equal(t, lastID, cached[0].ID)
	for i := 1; i < len(cached); i++ {
		assert.True(t, cached[i-1].Date.After(cached[i].Date))
	}
}

func TestReviewService_AddReviewMovieNotFound(t *testing.T) {
	svc, _, _ := newReviewTestService(testMovie())

	_, err := svc.AddReview(context.Background(), primitive.NewObjectID().Hex(), addReviewRequest("r"))
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestReviewService_AddReviewValidation(t *testing.T) {
	movie := testMovie()
	svc, _, _ := newReviewTestService(movie)

	req := addReviewRequest("r")
	req.Vote = 7
	_, err := svc.AddReview(context.Background(), movie.ID.Hex(), req)
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.AddReview(context.Background(), "not-an-id", addReviewRequest("r"))
	assert.ErrorIs(t, err, ErrValidation)
}

func TestReviewService_UpdateReviewInsideWindow(t *testing.T) {
	movie := testMovie()
	svc, reviews, movies := newReviewTestService(movie)

	id, err := svc.AddReview(context.Background(), movie.ID.Hex(), addReviewRequest("first take"))
	require.NoError(t, err)

	res, err := svc.UpdateReview(context.Background(), id.Hex(), models.UpdateReviewRequest{
		Title:   "second take",
		Content: "changed my mind",
		Vote:    2,
	})
	require.NoError(t, err)
	assert.True(t, res.Modified)

	assert.Equal(t, "second take", reviews.docs[id].Title)
	assert.Equal(t, "second take", movies.movie.Reviews[0].Title)
	assert.Equal(t, float64(2), movies.movie.Reviews[0].Vote)
}

func TestReviewService_UpdateAgedOutReviewLeavesCacheUntouched(t *testing.T) {
	movie := testMovie()
	svc, reviews, movies := newReviewTestService(movie)

	oldest, err := svc.AddReview(context.Background(), movie.ID.Hex(), addReviewRequest("first"))
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		_, err := svc.AddReview(context.Background(), movie.ID.Hex(), addReviewRequest("later"))
		require.NoError(t, err)
	}
	// The first review has been evicted from the five-entry window.
	for _, snap := range movies.movie.Reviews {
		require.NotEqual(t, oldest, snap.ID)
	}

	res, err := svc.UpdateReview(context.Background(), oldest.Hex(), models.UpdateReviewRequest{
		Title:   "edited",
		Content: "still here",
		Vote:    1,
	})
	require.NoError(t, err)
	assert.True(t, res.Modified)

	// Authoritative row changed, cache untouched.
	assert.Equal(t, "edited", reviews.docs[oldest].Title)
	for _, snap := range movies.movie.Reviews {
		assert.Equal(t, "content of later", snap.Content)
	}
}

func TestReviewService_UpdateMissingReview(t *testing.T) {
	svc, _, _ := newReviewTestService(testMovie())

	_, err := svc.UpdateReview(context.Background(), primitive.NewObjectID().Hex(), models.UpdateReviewRequest{
		Title:   "t",
		Content: "c",
		Vote:    3,
	})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestReviewService_ListByMoviePagination(t *testing.T) {
	movie := testMovie()
	svc, _, _ := newReviewTestService(movie)

	for i := 0; i < 45; i++ {
		_, err := svc.AddReview(context.Background(), movie.ID.Hex(), addReviewRequest("r"))
		require.NoError(t, err)
	}

	for page, want := range []int{20, 20, 5} {
		result, err := svc.ListByMovie(context.Background(), movie.ID.Hex(), int64(page), 20)
		require.NoError(t, err)
		assert.Len(t, result.Items, want, "page %d", page)
		assert.Equal(t, int64(45), result.Total, "total is the full match count, not the page size")
	}

	// Past the end: empty page, total intact.
	result, err := svc.ListByMovie(context.Background(), movie.ID.Hex(), 3, 20)
	require.NoError(t, err)
	assert.Empty(t, result.Items)
	assert.Equal(t, int64(45), result.Total)
}

func TestReviewService_FeedDeliversNewReviews(t *testing.T) {
	movie := testMovie()
	svc, _, _ := newReviewTestService(movie)

	ch, cancel := svc.Feed().Subscribe(movie.ID)
	defer cancel()

	id, err := svc.AddReview(context.Background(), movie.ID.Hex(), addReviewRequest("live"))
	require.NoError(t, err)

	select {
	case snap := <-ch:
		assert.Equal(t, id, snap.ID)
		assert.Equal(t, "live", snap.Title)
	default:
		t.Fatal("expected a snapshot on the feed")
	}
}
