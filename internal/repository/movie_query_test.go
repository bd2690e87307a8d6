package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
)

func TestBuildMovieFilter(t *testing.T) {
	filter, err := buildMovieFilter(MovieQuery{})
	require.NoError(t, err)
	assert.Empty(t, filter, "no criteria means match everything")

	filter, err = buildMovieFilter(MovieQuery{
		Title:       "Heat",
		Genres:      []string{"Crime"},
		ReleaseYear: 1995,
		Actor:       "Al Pacino",
		Director:    "Michael Mann",
	})
	require.NoError(t, err)
	assert.Equal(t, "Heat", filter["title"])
	assert.Equal(t, "Crime", filter["genres"], "single genre matches directly")
	assert.Equal(t, 1995, filter["release_year"])
	assert.Equal(t, "Al Pacino", filter["actors.full_name"])
	assert.Equal(t, "Michael Mann", filter["directors.full_name"])
}

func TestBuildMovieFilterMultipleGenres(t *testing.T) {
	filter, err := buildMovieFilter(MovieQuery{Genres: []string{"Crime", "Thriller"}})
	require.NoError(t, err)
	assert.Equal(t, bson.M{"$all": []string{"Crime", "Thriller"}}, filter["genres"])
}

func TestBuildMovieSort(t *testing.T) {
	sort, err := buildMovieSort(MovieQuery{})
	require.NoError(t, err)
	assert.Nil(t, sort)

	sort, err = buildMovieSort(MovieQuery{SortField: "popularity", SortDesc: true})
	require.NoError(t, err)
	assert.Equal(t, bson.D{{Key: "popularity", Value: -1}}, sort)

	sort, err = buildMovieSort(MovieQuery{SortField: "vote_average"})
	require.NoError(t, err)
	assert.Equal(t, bson.D{{Key: "vote_average", Value: 1}}, sort)
}

func TestBuildMovieSortRejectsUnknownField(t *testing.T) {
	_, err := buildMovieSort(MovieQuery{SortField: "password"})
	assert.ErrorIs(t, err, ErrBadQuery)

	_, err = buildMovieSort(MovieQuery{SortField: "reviews"})
	assert.ErrorIs(t, err, ErrBadQuery)
}

func TestBuildMovieProjection(t *testing.T) {
	projection, err := buildMovieProjection(MovieQuery{})
	require.NoError(t, err)
	// The default listing shape never drags the embedded reviews along.
	assert.Equal(t, 1, projection["title"])
	assert.NotContains(t, projection, "reviews")

	projection, err = buildMovieProjection(MovieQuery{Projection: []string{"title", "vote_count"}})
	require.NoError(t, err)
	assert.Equal(t, bson.M{"_id": 1, "title": 1, "vote_count": 1}, projection)
}

func TestBuildMovieProjectionRejectsUnknownField(t *testing.T) {
	_, err := buildMovieProjection(MovieQuery{Projection: []string{"title", "budget"}})
	assert.ErrorIs(t, err, ErrBadQuery)
}
