package usecase

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/vasapolrittideah/becbilldesk-api/services/auth-service/internal/model"
	"github.com/vasapolrittideah/becbilldesk-api/services/auth-service/internal/repository"
)

type MockUserRepository struct {
	mock.Mock
}

// CreateUser echoes the given user with a fresh id when no user is configured.
func (m *MockUserRepository) CreateUser(ctx context.Context, user *model.User) (*model.User, error) {
	args := m.Called(ctx, user)
	if err := args.Error(1); err != nil {
		return nil, err
	}
	if created, ok := args.Get(0).(*model.User); ok {
		return created, nil
	}
	user.ID = bson.NewObjectID()
	return user, nil
}

func (m *MockUserRepository) GetUser(ctx context.Context, id string) (*model.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) UpdateUser(
	ctx context.Context,
	id string,
	params repository.UpdateUserParams,
) (*model.User, error) {
	args := m.Called(ctx, id, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) ConsumeVerificationToken(
	ctx context.Context,
	code string,
	now time.Time,
) (*model.User, error) {
	args := m.Called(ctx, code, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) ConsumeResetToken(
	ctx context.Context,
	token string,
	now time.Time,
	passwordHash string,
) (*model.User, error) {
	args := m.Called(ctx, token, now, passwordHash)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) SendVerificationEmail(ctx context.Context, to, code string, expiresIn time.Duration) {
	m.Called(ctx, to, code, expiresIn)
}

func (m *MockNotifier) SendWelcomeEmail(ctx context.Context, to, name string) {
	m.Called(ctx, to, name)
}

func (m *MockNotifier) SendPasswordResetEmail(ctx context.Context, to, resetURL string, expiresIn time.Duration) {
	m.Called(ctx, to, resetURL, expiresIn)
}

func (m *MockNotifier) SendResetSuccessEmail(ctx context.Context, to string) {
	m.Called(ctx, to)
}
