// Package auth carries the only real contract in this service: credential
// login, request authentication and the one-way account verification flow.
package auth

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/bazarghat/backend/internal/hash"
	"github.com/bazarghat/backend/internal/logging"
	"github.com/bazarghat/backend/internal/models"
	"github.com/bazarghat/backend/internal/tokens"
)

var (
	// ErrInvalidCredentials covers both unknown username and wrong
	// password, so callers cannot tell the two apart.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrUnauthenticated is returned when a presented token does not
	// decode or its subject no longer resolves to an account.
	ErrUnauthenticated = errors.New("unauthenticated")
)

type Service struct {
	DB        *gorm.DB
	Secret    []byte
	AccessTTL time.Duration
}

func NewService(db *gorm.DB, secret []byte, accessTTL time.Duration) *Service {
	if accessTTL <= 0 {
		accessTTL = 15 * time.Minute
	}
	return &Service{DB: db, Secret: secret, AccessTTL: accessTTL}
}

// Login verifies username/password and returns a signed access token.
func (s *Service) Login(ctx context.Context, username, password string) (string, error) {
	l := logging.FromContext(ctx).With("svc", "auth.login", "username", username)

	var user models.User
	if err := s.DB.WithContext(ctx).Where("username = ?", username).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			l.Warn("login failed", "reason", "unknown username")
			return "", ErrInvalidCredentials
		}
		return "", err
	}

	if !hash.CheckPassword(user.PasswordHash, password) {
		l.Warn("login failed", "reason", "wrong password")
		return "", ErrInvalidCredentials
	}

	token, err := tokens.SignAccess(user.ID, s.AccessTTL, s.Secret)
	if err != nil {
		l.Error("cannot sign access token", "error", err)
		return "", err
	}
	return token, nil
}

// ResolveUser exchanges a bearer token for the account it names. Any decode
// failure and a subject that no longer exists both come back as
// ErrUnauthenticated.
func (s *Service) ResolveUser(ctx context.Context, tokenStr string) (*models.User, error) {
	claims, err := tokens.ParseAccess(tokenStr, s.Secret)
	if err != nil {
		return nil, ErrUnauthenticated
	}

	id, err := tokens.SubjectID(claims.RegisteredClaims)
	if err != nil {
		return nil, ErrUnauthenticated
	}

	var user models.User
	if err := s.DB.WithContext(ctx).First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUnauthenticated
		}
		return nil, err
	}
	return &user, nil
}
