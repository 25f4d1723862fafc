package auth

import (
	"context"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/bazarghat/backend/internal/hash"
	"github.com/bazarghat/backend/internal/models"
	"github.com/bazarghat/backend/internal/tokens"
)

func initTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to connect to in-memory db: %v", err)
	}

	if err := db.AutoMigrate(&models.User{}, &models.Business{}, &models.Product{}); err != nil {
		t.Fatalf("failed to migrate tables: %v", err)
	}

	return db
}

func newTestService(t *testing.T) *Service {
	return NewService(initTestDB(t), []byte("test_secret"), 15*time.Minute)
}

func createUser(t *testing.T, db *gorm.DB, username, email, password string) *models.User {
	pwHash, err := hash.HashPassword(password)
	require.NoError(t, err)

	user := models.User{
		Username:     username,
		Email:        email,
		PasswordHash: pwHash,
	}
	require.NoError(t, db.Create(&user).Error)
	return &user
}

func TestLoginAndResolveUser(t *testing.T) {
	svc := newTestService(t)
	user := createUser(t, svc.DB, "alice", "alice@x.com", "pw123")

	token, err := svc.Login(context.Background(), "alice", "pw123")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	resolved, err := svc.ResolveUser(context.Background(), token)
	require.NoError(t, err)
	require.Equal(t, user.ID, resolved.ID)
	require.Equal(t, "alice", resolved.Username)
}

func TestLoginFailsUniformly(t *testing.T) {
	svc := newTestService(t)
	createUser(t, svc.DB, "alice", "alice@x.com", "pw123")

	_, err := svc.Login(context.Background(), "alice", "wrongpw")
	require.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(context.Background(), "nobody", "pw123")
	require.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestResolveUserRejectsBadTokens(t *testing.T) {
	svc := newTestService(t)
	user := createUser(t, svc.DB, "alice", "alice@x.com", "pw123")

	_, err := svc.ResolveUser(context.Background(), "garbage")
	require.ErrorIs(t, err, ErrUnauthenticated)

	other := NewService(svc.DB, []byte("other_secret"), 15*time.Minute)
	foreign, err := other.Login(context.Background(), "alice", "pw123")
	require.NoError(t, err)
	_, err = svc.ResolveUser(context.Background(), foreign)
	require.ErrorIs(t, err, ErrUnauthenticated)

	token, err := svc.Login(context.Background(), "alice", "pw123")
	require.NoError(t, err)
	require.NoError(t, svc.DB.Delete(&models.User{}, user.ID).Error)
	_, err = svc.ResolveUser(context.Background(), token)
	require.ErrorIs(t, err, ErrUnauthenticated)
}

func TestRedeemFlipsVerifiedOnce(t *testing.T) {
	svc := newTestService(t)
	user := createUser(t, svc.DB, "alice", "alice@x.com", "pw123")
	require.False(t, user.IsVerified)

	token, err := svc.IssueVerification(user)
	require.NoError(t, err)

	redeemed, alreadyVerified, err := svc.Redeem(context.Background(), token)
	require.NoError(t, err)
	require.False(t, alreadyVerified)
	require.True(t, redeemed.IsVerified)

	var stored models.User
	require.NoError(t, svc.DB.First(&stored, user.ID).Error)
	require.True(t, stored.IsVerified)
}

func TestRedeemIsIdempotent(t *testing.T) {
	svc := newTestService(t)
	user := createUser(t, svc.DB, "alice", "alice@x.com", "pw123")

	token, err := svc.IssueVerification(user)
	require.NoError(t, err)

	_, alreadyVerified, err := svc.Redeem(context.Background(), token)
	require.NoError(t, err)
	require.False(t, alreadyVerified)

	redeemed, alreadyVerified, err := svc.Redeem(context.Background(), token)
	require.NoError(t, err)
	require.True(t, alreadyVerified)
	require.True(t, redeemed.IsVerified)
}

func TestRedeemRejectsInvalidTokens(t *testing.T) {
	svc := newTestService(t)
	user := createUser(t, svc.DB, "alice", "alice@x.com", "pw123")

	token, err := svc.IssueVerification(user)
	require.NoError(t, err)

	tampered := []byte(token)
	if tampered[10] == 'A' {
		tampered[10] = 'B'
	} else {
		tampered[10] = 'A'
	}
	_, _, err = svc.Redeem(context.Background(), string(tampered))
	require.ErrorIs(t, err, tokens.ErrInvalidToken)

	// access tokens must not redeem
	access, err := svc.Login(context.Background(), "alice", "pw123")
	require.NoError(t, err)
	_, _, err = svc.Redeem(context.Background(), access)
	require.ErrorIs(t, err, tokens.ErrInvalidToken)

	// subject no longer exists
	require.NoError(t, svc.DB.Delete(&models.User{}, user.ID).Error)
	_, _, err = svc.Redeem(context.Background(), token)
	require.ErrorIs(t, err, tokens.ErrInvalidToken)
}
