package jwtmiddleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/bazarghat/backend/internal/auth"
	"github.com/bazarghat/backend/internal/hash"
	"github.com/bazarghat/backend/internal/models"
)

func newTestAuth(t *testing.T) (*auth.Service, *models.User) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}))

	pwHash, err := hash.HashPassword("pw123")
	require.NoError(t, err)
	user := models.User{Username: "alice", Email: "alice@x.com", PasswordHash: pwHash}
	require.NoError(t, db.Create(&user).Error)

	return auth.NewService(db, []byte("test_secret"), 15*time.Minute), &user
}

func doRequest(t *testing.T, mw *Middleware, authHeader string) (*httptest.ResponseRecorder, error) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/users/me", nil)
	if authHeader != "" {
		req.Header.Set(echo.HeaderAuthorization, authHeader)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	next := func(c echo.Context) error {
		user, ok := c.Get("user").(*models.User)
		require.True(t, ok, "user must be set in context")
		return c.JSON(http.StatusOK, user)
	}
	return rec, mw.RequireAuth(next)(c)
}

func TestRequireAuthAcceptsValidToken(t *testing.T) {
	svc, _ := newTestAuth(t)
	token, err := svc.Login(context.Background(), "alice", "pw123")
	require.NoError(t, err)

	rec, err := doRequest(t, New(svc), "Bearer "+token)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestRequireAuthRejectsBadTokens(t *testing.T) {
	svc, _ := newTestAuth(t)
	mw := New(svc)

	for _, header := range []string{
		"",
		"Bearer garbage",
		"Basic dXNlcjpwdw==",
	} {
		_, err := doRequest(t, mw, header)
		he, ok := err.(*echo.HTTPError)
		require.True(t, ok, "expected HTTPError")
		require.Equal(t, http.StatusUnauthorized, he.Code)
	}
}
