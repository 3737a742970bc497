package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/energybank/energy-bank/internal/core/domain"
)

const usersCollection = "users"

// UserRepository implements ports.UserRepository on MongoDB. Every balance
// mutation is a single server-side update ($inc, conditionally filtered), so
// concurrent requests for the same user serialize at the document level.
type UserRepository struct {
	coll *mongo.Collection
}

func NewUserRepository(db *mongo.Database) *UserRepository {
	return &UserRepository{coll: db.Collection(usersCollection)}
}

type mongoUser struct {
	ID                 primitive.ObjectID   `bson:"_id,omitempty"`
	Email              string               `bson:"email"`
	Username           string               `bson:"username"`
	PasswordHash       string               `bson:"password_hash"`
	Balance            primitive.Decimal128 `bson:"balance"`
	EnergyBalance      primitive.Decimal128 `bson:"energy_balance"`
	TotalConnectedTime int64                `bson:"total_connected_time"`
	ActivePlanIDs      []string             `bson:"active_plan_ids"`
	IsAdmin            bool                 `bson:"is_admin"`
	LastHeartbeat      *time.Time           `bson:"last_heartbeat,omitempty"`
	CreatedAt          time.Time            `bson:"created_at"`
}

func (mu *mongoUser) toDomain() (*domain.User, error) {
	balance, err := fromDecimal128(mu.Balance)
	if err != nil {
		return nil, err
	}
	energy, err := fromDecimal128(mu.EnergyBalance)
	if err != nil {
		return nil, err
	}
	planIDs := mu.ActivePlanIDs
	if planIDs == nil {
		planIDs = []string{}
	}
	return &domain.User{
		ID:                 mu.ID.Hex(),
		Email:              mu.Email,
		Username:           mu.Username,
		PasswordHash:       mu.PasswordHash,
		Balance:            balance,
		EnergyBalance:      energy,
		TotalConnectedTime: mu.TotalConnectedTime,
		ActivePlanIDs:      planIDs,
		IsAdmin:            mu.IsAdmin,
		LastHeartbeat:      mu.LastHeartbeat,
		CreatedAt:          mu.CreatedAt,
	}, nil
}

func (r *UserRepository) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	balance, err := toDecimal128(user.Balance)
	if err != nil {
		return nil, err
	}
	energy, err := toDecimal128(user.EnergyBalance)
	if err != nil {
		return nil, err
	}

	doc := mongoUser{
		Email:         user.Email,
		Username:      user.Username,
		PasswordHash:  user.PasswordHash,
		Balance:       balance,
		EnergyBalance: energy,
		ActivePlanIDs: []string{},
		IsAdmin:       user.IsAdmin,
		CreatedAt:     user.CreatedAt,
	}

	res, err := r.coll.InsertOne(ctx, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrUserExists
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}

	created := *user
	created.ID = res.InsertedID.(primitive.ObjectID).Hex()
	created.ActivePlanIDs = []string{}
	return &created, nil
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (*domain.User, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrUserNotFound
	}
	return r.findOne(ctx, bson.M{"_id": oid})
}

func (r *UserRepository) findOne(ctx context.Context, filter bson.M) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var mu mongoUser
	if err := r.coll.FindOne(ctx, filter).Decode(&mu); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return mu.toDomain()
}

// ApplyAccrual adds the heartbeat deltas in one atomic update and returns the
// post-increment balance as the server saw it.
func (r *UserRepository) ApplyAccrual(ctx context.Context, userID string, earned, energy decimal.Decimal, seconds int64, at time.Time) (decimal.Decimal, error) {
	oid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return decimal.Decimal{}, domain.ErrUserNotFound
	}
	earned128, err := toDecimal128(earned)
	if err != nil {
		return decimal.Decimal{}, err
	}
	energy128, err := toDecimal128(energy)
	if err != nil {
		return decimal.Decimal{}, err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	update := bson.M{
		"$inc": bson.M{
			"balance":              earned128,
			"energy_balance":       energy128,
			"total_connected_time": seconds,
		},
		"$set": bson.M{"last_heartbeat": at},
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var mu mongoUser
	if err := r.coll.FindOneAndUpdate(ctx, bson.M{"_id": oid}, update, opts).Decode(&mu); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return decimal.Decimal{}, domain.ErrUserNotFound
		}
		return decimal.Decimal{}, fmt.Errorf("apply accrual: %w", err)
	}
	return fromDecimal128(mu.Balance)
}

// DeductBalance subtracts amount only when the balance covers it; the check
// lives in the update filter so two concurrent deducts cannot both pass.
func (r *UserRepository) DeductBalance(ctx context.Context, userID string, amount decimal.Decimal) error {
	return r.conditionalDeduct(ctx, userID, amount, nil)
}

// PurchasePlan deducts the price and appends the plan id in the same
// conditional update that verifies sufficient funds.
func (r *UserRepository) PurchasePlan(ctx context.Context, userID, planID string, price decimal.Decimal) error {
	return r.conditionalDeduct(ctx, userID, price, bson.M{"$push": bson.M{"active_plan_ids": planID}})
}

func (r *UserRepository) conditionalDeduct(ctx context.Context, userID string, amount decimal.Decimal, extra bson.M) error {
	oid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return domain.ErrUserNotFound
	}
	amount128, err := toDecimal128(amount)
	if err != nil {
		return err
	}
	neg128, err := toDecimal128(amount.Neg())
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{"_id": oid, "balance": bson.M{"$gte": amount128}}
	update := bson.M{"$inc": bson.M{"balance": neg128}}
	for k, v := range extra {
		update[k] = v
	}

	res, err := r.coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("deduct balance: %w", err)
	}
	if res.MatchedCount == 0 {
		// Either the user is gone or the balance fell short; tell them apart.
		if _, findErr := r.findOne(ctx, bson.M{"_id": oid}); findErr != nil {
			return findErr
		}
		return domain.ErrInsufficientFunds
	}
	return nil
}

func (r *UserRepository) CreditBalance(ctx context.Context, userID string, amount decimal.Decimal) error {
	oid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return domain.ErrUserNotFound
	}
	amount128, err := toDecimal128(amount)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.coll.UpdateByID(ctx, oid, bson.M{"$inc": bson.M{"balance": amount128}})
	if err != nil {
		return fmt.Errorf("credit balance: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

func (r *UserRepository) PromoteAdmin(ctx context.Context, email string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.coll.UpdateOne(ctx, bson.M{"email": email}, bson.M{"$set": bson.M{"is_admin": true}})
	if err != nil {
		return fmt.Errorf("promote admin: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

// EnsureIndexes creates necessary indexes on the users collection.
func (r *UserRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	}

	_, err := r.coll.Indexes().CreateMany(ctx, indexes)
	return err
}
