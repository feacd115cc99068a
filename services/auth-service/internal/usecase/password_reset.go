package usecase

import (
	"context"
	"errors"
	"net/url"
	"time"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/vasapolrittideah/becbilldesk-api/services/auth-service/internal/notification"
	"github.com/vasapolrittideah/becbilldesk-api/services/auth-service/internal/repository"
	"github.com/vasapolrittideah/becbilldesk-api/shared/security"
)

// PasswordResetUsecase defines the business logic for password reset operations.
type PasswordResetUsecase interface {
	// RequestPasswordReset issues a reset token for the user with the given
	// email and mails the reset link.
	RequestPasswordReset(ctx context.Context, email string) error

	// ResetPassword consumes the reset token and replaces the user's password.
	ResetPassword(ctx context.Context, token, newPassword string) error
}

var ErrInvalidResetToken = errors.New("invalid or expired reset token")

type passwordResetUsecase struct {
	userRepo                    repository.UserRepository
	notifier                    notification.Notifier
	clientURL                   string
	passwordResetTokenExpiresIn time.Duration
	logger                      *zerolog.Logger
	now                         func() time.Time
}

// NewPasswordResetUsecase creates a new instance of PasswordResetUsecase.
// Reset links point at clientURL/reset-password/<token>.
func NewPasswordResetUsecase(
	userRepo repository.UserRepository,
	notifier notification.Notifier,
	clientURL string,
	passwordResetTokenExpiresIn time.Duration,
	logger *zerolog.Logger,
) PasswordResetUsecase {
	return &passwordResetUsecase{
		userRepo:                    userRepo,
		notifier:                    notifier,
		clientURL:                   clientURL,
		passwordResetTokenExpiresIn: passwordResetTokenExpiresIn,
		logger:                      logger,
		now:                         time.Now,
	}
}

func (u *passwordResetUsecase) RequestPasswordReset(ctx context.Context, email string) error {
	user, err := u.userRepo.GetUserByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return ErrUserNotFound
		}
		return err
	}

	token, err := security.GenerateResetToken()
	if err != nil {
		return err
	}
	expiresAt := u.now().Add(u.passwordResetTokenExpiresIn)

	// A new token replaces any earlier one still pending.
	if _, err := u.userRepo.UpdateUser(ctx, user.ID.Hex(), repository.UpdateUserParams{
		ResetPasswordToken:     &token,
		ResetPasswordExpiresAt: &expiresAt,
	}); err != nil {
		return err
	}

	resetURL, err := url.JoinPath(u.clientURL, "reset-password", token)
	if err != nil {
		return err
	}

	u.logger.Info().Str("user_id", user.ID.Hex()).Msg("password reset requested")

	u.notifier.SendPasswordResetEmail(ctx, user.Email, resetURL, u.passwordResetTokenExpiresIn)

	return nil
}

func (u *passwordResetUsecase) ResetPassword(ctx context.Context, token, newPassword string) error {
	if token == "" {
		return ErrInvalidResetToken
	}

	passwordHash, err := security.HashPassword(newPassword)
	if err != nil {
		return err
	}

	user, err := u.userRepo.ConsumeResetToken(ctx, token, u.now(), passwordHash)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return ErrInvalidResetToken
		}
		return err
	}

	u.logger.Info().Str("user_id", user.ID.Hex()).Msg("password reset")

	u.notifier.SendResetSuccessEmail(ctx, user.Email)

	return nil
}
