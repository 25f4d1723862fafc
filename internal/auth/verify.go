package auth

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/bazarghat/backend/internal/logging"
	"github.com/bazarghat/backend/internal/models"
	"github.com/bazarghat/backend/internal/tokens"
)

// IssueVerification builds the token that gets embedded in the verification
// mail. Same secret as access tokens, distinct typ claim, no expiry so a
// stale signup link still redeems.
func (s *Service) IssueVerification(user *models.User) (string, error) {
	return tokens.SignVerify(user.ID, user.Username, s.Secret)
}

// Redeem exchanges a verification token for the verified flag flip. The
// transition is one-way and idempotent: redeeming for an already verified
// account is a success with alreadyVerified=true and no write.
func (s *Service) Redeem(ctx context.Context, tokenStr string) (*models.User, bool, error) {
	l := logging.FromContext(ctx).With("svc", "auth.redeem")

	claims, err := tokens.ParseVerify(tokenStr, s.Secret)
	if err != nil {
		return nil, false, tokens.ErrInvalidToken
	}

	id, err := tokens.SubjectID(claims.RegisteredClaims)
	if err != nil {
		return nil, false, tokens.ErrInvalidToken
	}

	var user models.User
	if err := s.DB.WithContext(ctx).First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, false, tokens.ErrInvalidToken
		}
		return nil, false, err
	}

	if user.IsVerified {
		return &user, true, nil
	}

	if err := s.DB.WithContext(ctx).Model(&user).Update("is_verified", true).Error; err != nil {
		l.Error("cannot persist verified flag", "user_id", user.ID, "error", err)
		return nil, false, err
	}
	user.IsVerified = true
	l.Info("account verified", "user_id", user.ID, "username", user.Username)

	return &user, false, nil
}
