package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/mercadito/ecommerce-api/internal/core/domain"
)

const collectionUsers = "usuarios"

// UserRepository implements ports.UserRepository backed by MongoDB. One-time
// code consumption uses FindOneAndUpdate with filters that re-check code
// equality and expiry, so match-and-clear is a single atomic operation.
type UserRepository struct {
	col *mongo.Collection
}

func NewUserRepository(db *mongo.Database) *UserRepository {
	return &UserRepository{col: db.Collection(collectionUsers)}
}

type mongoUser struct {
	ID               primitive.ObjectID `bson:"_id,omitempty"`
	Username         string             `bson:"username"`
	Email            string             `bson:"email"`
	PasswordHash     string             `bson:"password"`
	TwoFactorEnabled bool               `bson:"two_factor_enabled"`
	VerificationCode string             `bson:"verification_code,omitempty"`
	CodeExpires      *time.Time         `bson:"code_expires,omitempty"`
	ResetCode        string             `bson:"reset_password_token,omitempty"`
	ResetExpires     *time.Time         `bson:"reset_password_expires,omitempty"`
	CreatedAt        time.Time          `bson:"created_at"`
}

func (r *UserRepository) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := mongoUser{
		Username:         user.Username,
		Email:            user.Email,
		PasswordHash:     user.PasswordHash,
		TwoFactorEnabled: user.TwoFactorEnabled,
		CreatedAt:        user.CreatedAt,
	}

	res, err := r.col.InsertOne(ctx, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrUserExists
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}

	created := *user
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		created.ID = oid.Hex()
	}
	return &created, nil
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var mu mongoUser
	if err := r.col.FindOne(ctx, bson.M{"email": email}).Decode(&mu); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return mu.toDomain(), nil
}

func (r *UserRepository) SetVerificationCode(ctx context.Context, email, code string, expires time.Time) error {
	return r.setCode(ctx, email, bson.M{"verification_code": code, "code_expires": expires.UTC()})
}

func (r *UserRepository) ClearVerificationCode(ctx context.Context, email string) error {
	return r.clearFields(ctx, email, "verification_code", "code_expires")
}

func (r *UserRepository) ActivateAccount(ctx context.Context, email, code string, now time.Time) (*domain.User, error) {
	filter := bson.M{
		"email":              email,
		"two_factor_enabled": false,
		"verification_code":  code,
		"code_expires":       bson.M{"$gt": now.UTC()},
	}
	update := bson.M{
		"$set":   bson.M{"two_factor_enabled": true},
		"$unset": bson.M{"verification_code": "", "code_expires": ""},
	}
	return r.consume(ctx, filter, update)
}

func (r *UserRepository) ConsumeVerificationCode(ctx context.Context, email, code string, now time.Time) (*domain.User, error) {
	filter := bson.M{
		"email":              email,
		"two_factor_enabled": true,
		"verification_code":  code,
		"code_expires":       bson.M{"$gt": now.UTC()},
	}
	update := bson.M{
		"$unset": bson.M{"verification_code": "", "code_expires": ""},
	}
	return r.consume(ctx, filter, update)
}

func (r *UserRepository) SetResetCode(ctx context.Context, email, code string, expires time.Time) error {
	return r.setCode(ctx, email, bson.M{"reset_password_token": code, "reset_password_expires": expires.UTC()})
}

func (r *UserRepository) ClearResetCode(ctx context.Context, email string) error {
	return r.clearFields(ctx, email, "reset_password_token", "reset_password_expires")
}

func (r *UserRepository) ResetPassword(ctx context.Context, email, code string, now time.Time, passwordHash string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{
		"email":                  email,
		"reset_password_token":   code,
		"reset_password_expires": bson.M{"$gt": now.UTC()},
	}
	update := bson.M{
		"$set":   bson.M{"password": passwordHash},
		"$unset": bson.M{"reset_password_token": "", "reset_password_expires": ""},
	}

	res, err := r.col.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("reset password: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrCodeInvalid
	}
	return nil
}

func (r *UserRepository) setCode(ctx context.Context, email string, fields bson.M) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.UpdateOne(ctx, bson.M{"email": email}, bson.M{"$set": fields})
	if err != nil {
		return fmt.Errorf("set code: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

func (r *UserRepository) clearFields(ctx context.Context, email string, fields ...string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	unset := bson.M{}
	for _, f := range fields {
		unset[f] = ""
	}
	_, err := r.col.UpdateOne(ctx, bson.M{"email": email}, bson.M{"$unset": unset})
	if err != nil {
		return fmt.Errorf("clear code: %w", err)
	}
	return nil
}

// consume runs a conditional find-and-update; no document matching the filter
// means the supplied code is wrong, already used, or expired. Callers get a
// uniform ErrCodeInvalid either way.
func (r *UserRepository) consume(ctx context.Context, filter, update bson.M) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var mu mongoUser
	err := r.col.FindOneAndUpdate(ctx, filter, update,
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&mu)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrCodeInvalid
		}
		return nil, fmt.Errorf("consume code: %w", err)
	}
	return mu.toDomain(), nil
}

func (mu *mongoUser) toDomain() *domain.User {
	u := &domain.User{
		ID:               mu.ID.Hex(),
		Username:         mu.Username,
		Email:            mu.Email,
		PasswordHash:     mu.PasswordHash,
		TwoFactorEnabled: mu.TwoFactorEnabled,
		VerificationCode: mu.VerificationCode,
		ResetCode:        mu.ResetCode,
		CreatedAt:        mu.CreatedAt,
	}
	if mu.CodeExpires != nil {
		u.CodeExpires = *mu.CodeExpires
	}
	if mu.ResetExpires != nil {
		u.ResetExpires = *mu.ResetExpires
	}
	return u
}
