package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const testJWTSecret = "test-secret"

func signToken(t *testing.T, secret, sub, role string) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  sub,
		"role": role,
		"exp":  time.Now().Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

// protectedAdmin is an endpoint behind the full chain the admin
// maintenance routes use: JWTAuth then AdminOnly.
func protectedAdmin() http.Handler {
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	return JWTAuth(testJWTSecret)(AdminOnly()(ok))
}

func doAuthed(h http.Handler, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/admin/maintenance/reconcile", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestJWTAuth_MissingHeader(t *testing.T) {
	rec := doAuthed(protectedAdmin(), "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestJWTAuth_WrongSecret(t *testing.T) {
	token := signToken(t, "some-other-secret", primitive.NewObjectID().Hex(), "admin")
	rec := doAuthed(protectedAdmin(), token)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAdminOnly_RejectsSignedInUser(t *testing.T) {
	token := signToken(t, testJWTSecret, primitive.NewObjectID().Hex(), "user")
	rec := doAuthed(protectedAdmin(), token)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestAdminOnly_RejectsMissingRole(t *testing.T) {
	token := signToken(t, testJWTSecret, primitive.NewObjectID().Hex(), "")
	rec := doAuthed(protectedAdmin(), token)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestAdminOnly_AllowsAdmin(t *testing.T) {
	token := signToken(t, testJWTSecret, primitive.NewObjectID().Hex(), "admin")
	rec := doAuthed(protectedAdmin(), token)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestJWTAuth_PutsUserIDInContext(t *testing.T) {
	sub := primitive.NewObjectID().Hex()

	var got string
	h := JWTAuth(testJWTSecret)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = UserIDFromContext(r.Context())
	}))
	rec := doAuthed(h, signToken(t, testJWTSecret, sub, "user"))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, sub, got)
}
