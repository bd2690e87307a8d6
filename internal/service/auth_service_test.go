package service

import (
	"context"
	"testing"

	"github.com/SugarStoneMaster/MyMovieList/internal/models"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type authUserStub struct {
	byEmail map[string]*models.UserDoc
	inserts int
}

func newAuthUserStub() *authUserStub {
	return &authUserStub{byEmail: make(map[string]*models.UserDoc)}
}

func (s *authUserStub) FindByEmail(_ context.Context, email string) (*models.UserDoc, error) {
	return s.byEmail[email], nil
}

func (s *authUserStub) FindByID(_ context.Context, id primitive.ObjectID) (*models.UserDoc, error) {
	for _, u := range s.byEmail {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, nil
}

func (s *authUserStub) Insert(_ context.Context, u *models.UserDoc) (primitive.ObjectID, error) {
	id := primitive.NewObjectID()
	stored := *u
	stored.ID = id
	s.byEmail[u.Email] = &stored
	s.inserts++
	return id, nil
}

func registerRequest() models.RegisterRequest {
	return models.RegisterRequest{
		Username: "morpheus",
		Email:    "morpheus@example.com",
		Password: "redpill42",
	}
}

func TestAuthService_RegisterHashesPassword(t *testing.T) {
	users := newAuthUserStub()
	svc := NewAuthService(users, "test-secret")

	u, err := svc.Register(context.Background(), registerRequest())
	require.NoError(t, err)
	assert.NotEqual(t, primitive.NilObjectID, u.ID)
	assert.Equal(t, "user", u.Role, "self-registration never grants admin")

	stored := users.byEmail["morpheus@example.com"]
	require.NotNil(t, stored)
	assert.NotEqual(t, "redpill42", stored.Password, "password must never be stored in clear")
	assert.NotEmpty(t, stored.Password)
}

func TestAuthService_RegisterDuplicateEmail(t *testing.T) {
	users := newAuthUserStub()
	svc := NewAuthService(users, "test-secret")

	_, err := svc.Register(context.Background(), registerRequest())
	require.NoError(t, err)

	_, err = svc.Register(context.Background(), registerRequest())
	assert.ErrorIs(t, err, ErrValidation)
	assert.Equal(t, 1, users.inserts)
}

func TestAuthService_RegisterValidation(t *testing.T) {
	svc := NewAuthService(newAuthUserStub(), "test-secret")

	cases := map[string]models.RegisterRequest{
		"short password": {Username: "neo", Email: "neo@example.com", Password: "short"},
		"long password":  {Username: "neo", Email: "neo@example.com", Password: "waytoolongpassword"},
		"bad email":      {Username: "neo", Email: "not-an-email", Password: "redpill42"},
		"long username":  {Username: "thisusernameiswaytoolong", Email: "neo@example.com", Password: "redpill42"},
		"empty username": {Email: "neo@example.com", Password: "redpill42"},
	}
	for name, req := range cases {
		_, err := svc.Register(context.Background(), req)
		assert.ErrorIs(t, err, ErrValidation, name)
	}
}

func TestAuthService_LoginRoundtrip(t *testing.T) {
	users := newAuthUserStub()
	svc := NewAuthService(users, "test-secret")

	registered, err := svc.Register(context.Background(), registerRequest())
	require.NoError(t, err)

	token, u, err := svc.Login(context.Background(), models.LoginRequest{
		Email:    "morpheus@example.com",
		Password: "redpill42",
	})
	require.NoError(t, err)
	assert.Equal(t, registered.ID, u.ID)

	// The token carries the user id and role as verifiable HS256 claims.
	parsed, err := jwt.Parse(token, func(*jwt.Token) (interface{}, error) {
		return []byte("test-secret"), nil
	})
	require.NoError(t, err)
	sub, err := parsed.Claims.GetSubject()
	require.NoError(t, err)
	assert.Equal(t, registered.ID.Hex(), sub)

	claims, ok := parsed.Claims.(jwt.MapClaims)
	require.True(t, ok)
	assert.Equal(t, "user", claims["role"])
}

func TestAuthService_LoginRejectsBadCredentials(t *testing.T) {
	users := newAuthUserStub()
	svc := NewAuthService(users, "test-secret")

	_, err := svc.Register(context.Background(), registerRequest())
	require.NoError(t, err)

	_, _, err = svc.Login(context.Background(), models.LoginRequest{
		Email:    "morpheus@example.com",
		Password: "bluepill42",
	})
	assert.ErrorIs(t, err, ErrValidation)

	_, _, err = svc.Login(context.Background(), models.LoginRequest{
		Email:    "nobody@example.com",
		Password: "redpill42",
	})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestAuthService_AppleSignInFindOrCreate(t *testing.T) {
	users := newAuthUserStub()
	svc := NewAuthService(users, "test-secret")

	req := models.AppleSignInRequest{Username: "smith", Email: "smith@example.com"}

	_, first, err := svc.AppleSignIn(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, 1, users.inserts)
	assert.Equal(t, "user", first.Role)

	_, second, err := svc.AppleSignIn(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, 1, users.inserts, "second sign-in reuses the account")
	assert.Equal(t, first.ID, second.ID)
}
