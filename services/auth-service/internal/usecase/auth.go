package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/vasapolrittideah/becbilldesk-api/services/auth-service/internal/model"
	"github.com/vasapolrittideah/becbilldesk-api/services/auth-service/internal/notification"
	"github.com/vasapolrittideah/becbilldesk-api/services/auth-service/internal/repository"
	"github.com/vasapolrittideah/becbilldesk-api/shared/security"
)

// AuthUsecase defines the interface for authentication-related use cases.
type AuthUsecase interface {
	Signup(ctx context.Context, params SignupParams) (*model.User, error)
	VerifyEmail(ctx context.Context, code string) (*model.User, error)
	Login(ctx context.Context, params LoginParams) (*model.User, error)
	CheckAuth(ctx context.Context, userID string) (*model.User, error)
}

// SignupParams defines the parameters for user signup.
type SignupParams struct {
	Email    string
	Password string
	Name     string
}

// LoginParams defines the parameters for user login.
type LoginParams struct {
	Email    string
	Password string
}

var (
	ErrUserAlreadyExists       = errors.New("user already exists")
	ErrInvalidCredentials      = errors.New("invalid credentials")
	ErrInvalidVerificationCode = errors.New("invalid or expired verification code")
	ErrUserNotFound            = errors.New("user not found")
)

// maxVerificationCodeAttempts bounds how often Signup draws a new code after
// colliding with another user's pending code.
const maxVerificationCodeAttempts = 5

type authUsecase struct {
	userRepo                  repository.UserRepository
	notifier                  notification.Notifier
	verificationCodeExpiresIn time.Duration
	logger                    *zerolog.Logger
	now                       func() time.Time
	generateCode              func() (string, error)
}

func NewAuthUsecase(
	userRepo repository.UserRepository,
	notifier notification.Notifier,
	verificationCodeExpiresIn time.Duration,
	logger *zerolog.Logger,
) AuthUsecase {
	return &authUsecase{
		userRepo:                  userRepo,
		notifier:                  notifier,
		verificationCodeExpiresIn: verificationCodeExpiresIn,
		logger:                    logger,
		now:                       time.Now,
		generateCode:              security.GenerateVerificationCode,
	}
}

func (u *authUsecase) Signup(ctx context.Context, params SignupParams) (*model.User, error) {
	email := normalizeEmail(params.Email)

	if _, err := u.userRepo.GetUserByEmail(ctx, email); err == nil {
		return nil, ErrUserAlreadyExists
	} else if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, err
	}

	passwordHash, err := security.HashPassword(params.Password)
	if err != nil {
		return nil, err
	}

	expiresAt := u.now().Add(u.verificationCodeExpiresIn)

	user, err := u.createWithUniqueCode(ctx, &model.User{
		Email:                      email,
		PasswordHash:               passwordHash,
		Name:                       strings.TrimSpace(params.Name),
		VerificationTokenExpiresAt: &expiresAt,
	})
	if err != nil {
		return nil, err
	}

	u.logger.Info().Str("user_id", user.ID.Hex()).Msg("user created")

	u.notifier.SendVerificationEmail(ctx, user.Email, user.VerificationToken, u.verificationCodeExpiresIn)

	return user, nil
}

// createWithUniqueCode inserts user with a fresh verification code, drawing
// again when the code is already pending for someone else.
func (u *authUsecase) createWithUniqueCode(ctx context.Context, user *model.User) (*model.User, error) {
	for attempt := 1; ; attempt++ {
		code, err := u.generateCode()
		if err != nil {
			return nil, err
		}
		user.VerificationToken = code

		created, err := u.userRepo.CreateUser(ctx, user)
		switch {
		case err == nil:
			return created, nil
		case errors.Is(err, repository.ErrDuplicateEmail):
			// The unique email index settles concurrent signups for the same address.
			return nil, ErrUserAlreadyExists
		case errors.Is(err, repository.ErrDuplicateVerificationToken) && attempt < maxVerificationCodeAttempts:
			u.logger.Debug().Int("attempt", attempt).Msg("verification code already pending, drawing another")
		default:
			return nil, err
		}
	}
}

func (u *authUsecase) VerifyEmail(ctx context.Context, code string) (*model.User, error) {
	user, err := u.userRepo.ConsumeVerificationToken(ctx, strings.TrimSpace(code), u.now())
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrInvalidVerificationCode
		}

		return nil, err
	}

	u.logger.Info().Str("user_id", user.ID.Hex()).Msg("email verified")

	u.notifier.SendWelcomeEmail(ctx, user.Email, user.Name)

	return user, nil
}

func (u *authUsecase) Login(ctx context.Context, params LoginParams) (*model.User, error) {
	user, err := u.userRepo.GetUserByEmail(ctx, normalizeEmail(params.Email))
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrInvalidCredentials
		}

		return nil, err
	}

	if ok, err := security.VerifyPassword(params.Password, user.PasswordHash); err != nil {
		return nil, err
	} else if !ok {
		return nil, ErrInvalidCredentials
	}

	loginAt := u.now()
	user, err = u.userRepo.UpdateUser(ctx, user.ID.Hex(), repository.UpdateUserParams{
		LastLoginAt: &loginAt,
	})
	if err != nil {
		return nil, err
	}

	return user, nil
}

func (u *authUsecase) CheckAuth(ctx context.Context, userID string) (*model.User, error) {
	user, err := u.userRepo.GetUser(ctx, userID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrUserNotFound
		}

		return nil, err
	}

	return user, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
