package handlers

import (
	"fmt"
	"html"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/bazarghat/backend/internal/auth"
	"github.com/bazarghat/backend/internal/mykafka"
)

type VerifyHandler struct {
	Auth     *auth.Service
	Producer *mykafka.Producer
}

const verifyPageTemplate = `<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif;">
  <h1>Hi %s</h1>
  <p>%s</p>
</body>
</html>`

// Verify redeems the token from the mailed link. Redeeming twice is fine:
// the second visit reports the account as already verified. Every failure
// mode collapses into the same 401.
func (h *VerifyHandler) Verify(c echo.Context) error {
	token := c.Param("token")

	user, alreadyVerified, err := h.Auth.Redeem(c.Request().Context(), token)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "could not validate credentials")
	}

	message := "Account verified successfully!"
	if alreadyVerified {
		message = "Account already verified."
	} else {
		publish(c, h.Producer, "user_events", fmt.Sprint(user.ID), map[string]interface{}{
			"type":     "user_verified",
			"userID":   user.ID,
			"username": user.Username,
		})
	}

	// username is registration input and must not reach the page unescaped
	return c.HTML(http.StatusOK, fmt.Sprintf(verifyPageTemplate, html.EscapeString(user.Username), message))
}
