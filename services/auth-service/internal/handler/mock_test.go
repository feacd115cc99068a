package handler

import (
	"context"
	"sync"
	"time"

	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/vasapolrittideah/becbilldesk-api/services/auth-service/internal/model"
	"github.com/vasapolrittideah/becbilldesk-api/services/auth-service/internal/repository"
	"github.com/vasapolrittideah/becbilldesk-api/services/auth-service/internal/usecase"
)

type MockAuthUsecase struct {
	mock.Mock
}

func (m *MockAuthUsecase) Signup(ctx context.Context, params usecase.SignupParams) (*model.User, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockAuthUsecase) VerifyEmail(ctx context.Context, code string) (*model.User, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockAuthUsecase) Login(ctx context.Context, params usecase.LoginParams) (*model.User, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockAuthUsecase) CheckAuth(ctx context.Context, userID string) (*model.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

type MockPasswordResetUsecase struct {
	mock.Mock
}

func (m *MockPasswordResetUsecase) RequestPasswordReset(ctx context.Context, email string) error {
	args := m.Called(ctx, email)
	return args.Error(0)
}

func (m *MockPasswordResetUsecase) ResetPassword(ctx context.Context, token, newPassword string) error {
	args := m.Called(ctx, token, newPassword)
	return args.Error(0)
}

// memoryUserRepository is an in-memory UserRepository for end-to-end flows.
type memoryUserRepository struct {
	mu    sync.Mutex
	users map[bson.ObjectID]*model.User
}

func newMemoryUserRepository() *memoryUserRepository {
	return &memoryUserRepository{users: make(map[bson.ObjectID]*model.User)}
}

func (r *memoryUserRepository) CreateUser(_ context.Context, user *model.User) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, u := range r.users {
		if u.Email == user.Email {
			return nil, repository.ErrDuplicateEmail
		}
		if user.VerificationToken != "" && u.VerificationToken == user.VerificationToken {
			return nil, repository.ErrDuplicateVerificationToken
		}
	}

	now := time.Now()
	user.ID = bson.NewObjectID()
	user.CreatedAt, user.UpdatedAt, user.LastLoginAt = now, now, now
	r.users[user.ID] = user

	clone := *user
	return &clone, nil
}

func (r *memoryUserRepository) GetUser(_ context.Context, id string) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	objectID, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return nil, mongo.ErrNoDocuments
	}
	u, ok := r.users[objectID]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}

	clone := *u
	return &clone, nil
}

func (r *memoryUserRepository) GetUserByEmail(_ context.Context, email string) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, u := range r.users {
		if u.Email == email {
			clone := *u
			return &clone, nil
		}
	}
	return nil, mongo.ErrNoDocuments
}

func (r *memoryUserRepository) UpdateUser(
	_ context.Context,
	id string,
	params repository.UpdateUserParams,
) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	objectID, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return nil, mongo.ErrNoDocuments
	}
	u, ok := r.users[objectID]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}

	if params.PasswordHash != nil {
		u.PasswordHash = *params.PasswordHash
	}
	if params.LastLoginAt != nil {
		u.LastLoginAt = *params.LastLoginAt
	}
	if params.ResetPasswordToken != nil {
		u.ResetPasswordToken = *params.ResetPasswordToken
	}
	if params.ResetPasswordExpiresAt != nil {
		expiresAt := *params.ResetPasswordExpiresAt
		u.ResetPasswordExpiresAt = &expiresAt
	}
	u.UpdatedAt = time.Now()

	clone := *u
	return &clone, nil
}

func (r *memoryUserRepository) ConsumeVerificationToken(_ context.Context, code string, now time.Time) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, u := range r.users {
		if u.VerificationToken == code && u.VerificationTokenExpiresAt != nil && now.Before(*u.VerificationTokenExpiresAt) {
			u.Verified = true
			u.VerificationToken = ""
			u.VerificationTokenExpiresAt = nil
			clone := *u
			return &clone, nil
		}
	}
	return nil, mongo.ErrNoDocuments
}

func (r *memoryUserRepository) ConsumeResetToken(
	_ context.Context,
	token string,
	now time.Time,
	passwordHash string,
) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, u := range r.users {
		if u.ResetPasswordToken == token && u.ResetPasswordExpiresAt != nil && now.Before(*u.ResetPasswordExpiresAt) {
			u.PasswordHash = passwordHash
			u.ResetPasswordToken = ""
			u.ResetPasswordExpiresAt = nil
			clone := *u
			return &clone, nil
		}
	}
	return nil, mongo.ErrNoDocuments
}

// recordingNotifier keeps the last code and reset link it was asked to send.
type recordingNotifier struct {
	mu       sync.Mutex
	code     string
	resetURL string
}

func (n *recordingNotifier) SendVerificationEmail(_ context.Context, _, code string, _ time.Duration) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.code = code
}

func (n *recordingNotifier) SendWelcomeEmail(context.Context, string, string) {}

func (n *recordingNotifier) SendPasswordResetEmail(_ context.Context, _, resetURL string, _ time.Duration) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.resetURL = resetURL
}

func (n *recordingNotifier) SendResetSuccessEmail(context.Context, string) {}
