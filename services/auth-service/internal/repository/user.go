package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/vasapolrittideah/becbilldesk-api/services/auth-service/internal/model"
)

// UserRepository defines the interface for user-related database operations.
type UserRepository interface {
	CreateUser(ctx context.Context, user *model.User) (*model.User, error)
	GetUser(ctx context.Context, id string) (*model.User, error)
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
	UpdateUser(ctx context.Context, id string, params UpdateUserParams) (*model.User, error)

	// ConsumeVerificationToken marks the user holding the unexpired code as
	// verified and removes the code. It returns mongo.ErrNoDocuments when no
	// user holds a matching code that expires after now.
	ConsumeVerificationToken(ctx context.Context, code string, now time.Time) (*model.User, error)

	// ConsumeResetToken replaces the password hash of the user holding the
	// unexpired reset token and removes the token. It returns
	// mongo.ErrNoDocuments when no user holds a matching token that expires
	// after now.
	ConsumeResetToken(ctx context.Context, token string, now time.Time, passwordHash string) (*model.User, error)
}

var (
	// ErrDuplicateEmail is returned by CreateUser when the email is taken.
	ErrDuplicateEmail = errors.New("email already registered")

	// ErrDuplicateVerificationToken is returned by CreateUser when another
	// user holds the same pending verification code.
	ErrDuplicateVerificationToken = errors.New("verification token already in use")
)

// UpdateUserParams defines the optional parameters for updating a user.
// Only the fields that are not nil will be updated.
type UpdateUserParams struct {
	PasswordHash           *string
	LastLoginAt            *time.Time
	ResetPasswordToken     *string
	ResetPasswordExpiresAt *time.Time
}

const userCollection = "users"

const (
	emailIndex             = "email_unique"
	verificationTokenIndex = "verification_token_unique"
	resetPasswordIndex     = "reset_password_token_sparse"
)

type userMongoRepository struct {
	db *mongo.Database
}

// NewUserMongoRepository creates the user repository and makes sure its indexes exist.
func NewUserMongoRepository(ctx context.Context, db *mongo.Database) (UserRepository, error) {
	collection := db.Collection(userCollection)

	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetName(emailIndex).SetUnique(true),
		},
		{
			// Pending codes are short, so two unverified users must never share one.
			Keys:    bson.D{{Key: "verification_token", Value: 1}},
			Options: options.Index().SetName(verificationTokenIndex).SetUnique(true).SetSparse(true),
		},
		{
			Keys:    bson.D{{Key: "reset_password_token", Value: 1}},
			Options: options.Index().SetName(resetPasswordIndex).SetSparse(true),
		},
	}

	if _, err := collection.Indexes().CreateMany(ctx, indexes); err != nil {
		return nil, fmt.Errorf("create user indexes: %w", err)
	}

	return &userMongoRepository{db: db}, nil
}

func (r *userMongoRepository) CreateUser(ctx context.Context, user *model.User) (*model.User, error) {
	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now
	if user.LastLoginAt.IsZero() {
		user.LastLoginAt = now
	}

	result, err := r.db.Collection(userCollection).InsertOne(ctx, user)
	if err != nil {
		return nil, classifyDuplicateKey(err)
	}

	if objectID, ok := result.InsertedID.(bson.ObjectID); ok {
		user.ID = objectID
	} else {
		return nil, errors.New("failed to convert inserted ID to ObjectID")
	}

	return user, nil
}

func (r *userMongoRepository) GetUser(ctx context.Context, id string) (*model.User, error) {
	objectID, err := parseObjectID(id)
	if err != nil {
		return nil, err
	}

	return r.findOne(ctx, bson.M{"_id": objectID})
}

func (r *userMongoRepository) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

func (r *userMongoRepository) UpdateUser(
	ctx context.Context,
	id string,
	params UpdateUserParams,
) (*model.User, error) {
	objectID, err := parseObjectID(id)
	if err != nil {
		return nil, err
	}

	// Build update query
	updateMap := bson.M{}
	if params.PasswordHash != nil {
		updateMap["password_hash"] = *params.PasswordHash
	}
	if params.LastLoginAt != nil {
		updateMap["last_login_at"] = *params.LastLoginAt
	}
	if params.ResetPasswordToken != nil {
		updateMap["reset_password_token"] = *params.ResetPasswordToken
	}
	if params.ResetPasswordExpiresAt != nil {
		updateMap["reset_password_expires_at"] = *params.ResetPasswordExpiresAt
	}

	if len(updateMap) == 0 {
		return nil, errors.New("no user fields to update")
	}

	updateMap["updated_at"] = time.Now()

	return r.findOneAndUpdate(ctx, bson.M{"_id": objectID}, bson.M{"$set": updateMap})
}

func (r *userMongoRepository) ConsumeVerificationToken(
	ctx context.Context,
	code string,
	now time.Time,
) (*model.User, error) {
	filter := bson.M{
		"verification_token":            code,
		"verification_token_expires_at": bson.M{"$gt": now},
	}
	update := bson.M{
		"$set": bson.M{
			"verified":   true,
			"updated_at": time.Now(),
		},
		"$unset": bson.M{
			"verification_token":            "",
			"verification_token_expires_at": "",
		},
	}

	return r.findOneAndUpdate(ctx, filter, update)
}

func (r *userMongoRepository) ConsumeResetToken(
	ctx context.Context,
	token string,
	now time.Time,
	passwordHash string,
) (*model.User, error) {
	filter := bson.M{
		"reset_password_token":      token,
		"reset_password_expires_at": bson.M{"$gt": now},
	}
	update := bson.M{
		"$set": bson.M{
			"password_hash": passwordHash,
			"updated_at":    time.Now(),
		},
		"$unset": bson.M{
			"reset_password_token":      "",
			"reset_password_expires_at": "",
		},
	}

	return r.findOneAndUpdate(ctx, filter, update)
}

func (r *userMongoRepository) findOne(ctx context.Context, filter bson.M) (*model.User, error) {
	result := r.db.Collection(userCollection).FindOne(ctx, filter)
	if result.Err() != nil {
		return nil, result.Err()
	}

	var user model.User
	if err := result.Decode(&user); err != nil {
		return nil, err
	}

	return &user, nil
}

func (r *userMongoRepository) findOneAndUpdate(ctx context.Context, filter, update bson.M) (*model.User, error) {
	result := r.db.Collection(userCollection).FindOneAndUpdate(
		ctx,
		filter,
		update,
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	)
	if result.Err() != nil {
		return nil, result.Err()
	}

	var user model.User
	if err := result.Decode(&user); err != nil {
		return nil, err
	}

	return &user, nil
}

// parseObjectID treats a malformed id as a missing document.
func parseObjectID(id string) (bson.ObjectID, error) {
	objectID, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return bson.NilObjectID, fmt.Errorf("%w: %w", mongo.ErrNoDocuments, err)
	}

	return objectID, nil
}

// classifyDuplicateKey wraps a duplicate key error with the sentinel of the
// violated index. Other errors are returned unchanged.
func classifyDuplicateKey(err error) error {
	var writeErr mongo.WriteException
	if !errors.As(err, &writeErr) {
		return err
	}

	for _, we := range writeErr.WriteErrors {
		if we.Code != 11000 {
			continue
		}

		switch {
		case strings.Contains(we.Message, emailIndex):
			return fmt.Errorf("%w: %w", ErrDuplicateEmail, err)
		case strings.Contains(we.Message, verificationTokenIndex):
			return fmt.Errorf("%w: %w", ErrDuplicateVerificationToken, err)
		}
	}

	return err
}
