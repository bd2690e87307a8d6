package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/SugarStoneMaster/MyMovieList/internal/models"

	"github.com/golang-jwt/jwt/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"
)

type AuthUserStore interface {
	FindByEmail(ctx context.Context, email string) (*models.UserDoc, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.UserDoc, error)
	Insert(ctx context.Context, u *models.UserDoc) (primitive.ObjectID, error)
}

type AuthService struct {
	users     AuthUserStore
	jwtSecret []byte
}

func NewAuthService(users AuthUserStore, secret string) *AuthService {
	return &AuthService{users: users, jwtSecret: []byte(secret)}
}

// Register creates a user. Email format and username/password bounds
// are checked up front; passwords are stored as bcrypt hashes.
func (s *AuthService) Register(ctx context.Context, req models.RegisterRequest) (*models.UserDoc, error) {
	if err := checkStruct(req); err != nil {
		return nil, err
	}

	existing, err := s.users.FindByEmail(ctx, req.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: email already registered", ErrValidation)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	u := &models.UserDoc{
		Username:   req.Username,
		Email:      req.Email,
		Password:   string(hash),
		Role:       "user",
		MoviesList: []models.ListEntry{},
	}
	id, err := s.users.Insert(ctx, u)
	if err != nil {
		return nil, err
	}
	u.ID = id
	return u, nil
}

func (s *AuthService) Login(ctx context.Context, req models.LoginRequest) (string, *models.UserDoc, error) {
	if err := checkStruct(req); err != nil {
		return "", nil, err
	}

	u, err := s.users.FindByEmail(ctx, req.Email)
	if err != nil {
		return "", nil, err
	}
	if u == nil {
		return "", nil, fmt.Errorf("%w: invalid credentials", ErrValidation)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(req.Password)); err != nil {
		return "", nil, fmt.Errorf("%w: invalid credentials", ErrValidation)
	}

	token, err := s.issueToken(u)
	if err != nil {
		return "", nil, err
	}
	return token, u, nil
}

// AppleSignIn finds the user by email or creates one on the fly, the
// way the Sign in with Apple flow expects. A created account gets a
// random password so it can only be used through this flow.
func (s *AuthService) AppleSignIn(ctx context.Context, req models.AppleSignInRequest) (string, *models.UserDoc, error) {
	if err := checkStruct(req); err != nil {
		return "", nil, err
	}

	u, err := s.users.FindByEmail(ctx, req.Email)
	if err != nil {
		return "", nil, err
	}
	if u == nil {
		raw := make([]byte, 12)
		if _, err := rand.Read(raw); err != nil {
			return "", nil, err
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(hex.EncodeToString(raw)), bcrypt.DefaultCost)
		if err != nil {
			return "", nil, err
		}

		u = &models.UserDoc{
			Username:   req.Username,
			Email:      req.Email,
			Password:   string(hash),
			Role:       "user",
			MoviesList: []models.ListEntry{},
		}
		id, err := s.users.Insert(ctx, u)
		if err != nil {
			return "", nil, err
		}
		u.ID = id
	}

	token, err := s.issueToken(u)
	if err != nil {
		return "", nil, err
	}
	return token, u, nil
}

func (s *AuthService) issueToken(u *models.UserDoc) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  u.ID.Hex(),
		"role": u.Role,
		"exp":  time.Now().Add(24 * time.Hour).Unix(),
	})
	return token.SignedString(s.jwtSecret)
}
