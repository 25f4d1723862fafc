package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/bazarghat/backend/internal/auth"
	"github.com/bazarghat/backend/internal/hash"
	"github.com/bazarghat/backend/internal/mail"
	"github.com/bazarghat/backend/internal/models"
	"github.com/bazarghat/backend/internal/mykafka"
)

type AuthHandler struct {
	DB       *gorm.DB
	Auth     *auth.Service
	Mail     mail.Sender
	Producer *mykafka.Producer
}

// Register creates the account and, in one visible sequence, its default
// business, the verification token and the mail dispatch. Only the mail
// leaves the request path: delivery runs in the background and its failure
// never fails registration.
func (h *AuthHandler) Register(c echo.Context) error {
	var req struct {
		Username string `json:"username"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}

	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err)
	}
	if req.Username == "" || req.Email == "" || req.Password == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "username, email and password are required")
	}

	var existing models.User
	if err := h.DB.Where("username = ?", req.Username).First(&existing).Error; err == nil {
		return echo.NewHTTPError(http.StatusConflict, "user with this username already exists")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return echo.NewHTTPError(http.StatusInternalServerError, err)
	}
	if err := h.DB.Where("email = ?", req.Email).First(&existing).Error; err == nil {
		return echo.NewHTTPError(http.StatusConflict, "user with this email already exists")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return echo.NewHTTPError(http.StatusInternalServerError, err)
	}

	pwHash, err := hash.HashPassword(req.Password)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot hash password")
	}

	user := models.User{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: pwHash,
	}
	// a concurrent registration can slip past the checks above and land
	// on the unique constraint instead
	if err := h.DB.Create(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return echo.NewHTTPError(http.StatusConflict, "user already exists")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err)
	}

	business := models.Business{
		BusinessName: user.Username,
		OwnerID:      user.ID,
	}
	if err := h.DB.Create(&business).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err)
	}

	token, err := h.Auth.IssueVerification(&user)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot issue verification token")
	}

	logger := c.Logger()
	go func() {
		if err := h.Mail.SendVerification(user.Email, user.Username, token); err != nil {
			logger.Errorf("verification mail to %s failed: %v", user.Email, err)
		}
	}()

	publish(c, h.Producer, "user_events", fmt.Sprint(user.ID), map[string]interface{}{
		"type":     "user_registered",
		"userID":   user.ID,
		"username": user.Username,
	})

	return c.JSON(http.StatusCreated, Response{
		Status:  "success",
		Message: fmt.Sprintf("Thanks for choosing us %s, check your email to verify your account", user.Username),
	})
}

// Login exchanges username/password for a bearer access token. Unknown
// username and wrong password are indistinguishable to the caller.
func (h *AuthHandler) Login(c echo.Context) error {
	var req struct {
		Username string `json:"username" form:"username"`
		Password string `json:"password" form:"password"`
	}

	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "incorrect username or password")
	}

	token, err := h.Auth.Login(c.Request().Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			return echo.NewHTTPError(http.StatusUnauthorized, "incorrect username or password")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
	}

	return c.JSON(http.StatusOK, echo.Map{
		"access_token": token,
		"token_type":   "bearer",
	})
}

// Me returns the authenticated account together with its business profile.
func (h *AuthHandler) Me(c echo.Context) error {
	user := CurrentUser(c)
	if user == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "could not validate credentials")
	}

	var business models.Business
	if err := h.DB.Where("owner_id = ?", user.ID).First(&business).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"user":     user,
		"business": business,
	})
}
