package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/SugarStoneMaster/MyMovieList/internal/models"
	"github.com/SugarStoneMaster/MyMovieList/internal/repository"
	"github.com/SugarStoneMaster/MyMovieList/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type emptyMovieStore struct{}

func (emptyMovieStore) GetByID(context.Context, primitive.ObjectID) (*models.MovieDoc, error) {
	return nil, nil
}

func (emptyMovieStore) List(context.Context, repository.MovieQuery) (repository.Page[models.MovieDoc], error) {
	return repository.Page[models.MovieDoc]{}, nil
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]json.RawMessage {
	t.Helper()
	var body map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestMovieList_EmptyPageIsEmptyArray(t *testing.T) {
	h := NewMovieHandler(service.NewMovieService(emptyMovieStore{}))

	req := httptest.NewRequest(http.MethodGet, "/api/movies?title=nope", nil)
	rec := httptest.NewRecorder()
	h.List(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.JSONEq(t, `[]`, string(body["movies"]), "empty page must serialize as [], not null")
	assert.JSONEq(t, `0`, string(body["total"]))
}
