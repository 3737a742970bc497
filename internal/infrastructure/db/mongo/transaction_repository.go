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

	"github.com/energybank/energy-bank/internal/core/domain"
)

const transactionsCollection = "transactions"

// TransactionRepository implements ports.TransactionRepository on MongoDB.
type TransactionRepository struct {
	coll *mongo.Collection
}

func NewTransactionRepository(db *mongo.Database) *TransactionRepository {
	return &TransactionRepository{coll: db.Collection(transactionsCollection)}
}

type mongoTransaction struct {
	ID        primitive.ObjectID         `bson:"_id,omitempty"`
	UserID    primitive.ObjectID         `bson:"user_id"`
	Amount    primitive.Decimal128       `bson:"amount"`
	Type      string                     `bson:"type"`
	Status    string                     `bson:"status"`
	Metadata  domain.TransactionMetadata `bson:"metadata"`
	CreatedAt time.Time                  `bson:"created_at"`
}

func (mt *mongoTransaction) toDomain() (*domain.Transaction, error) {
	amount, err := fromDecimal128(mt.Amount)
	if err != nil {
		return nil, err
	}
	return &domain.Transaction{
		ID:        mt.ID.Hex(),
		UserID:    mt.UserID.Hex(),
		Amount:    amount,
		Type:      domain.TransactionType(mt.Type),
		Status:    domain.TransactionStatus(mt.Status),
		Metadata:  mt.Metadata,
		CreatedAt: mt.CreatedAt,
	}, nil
}

func (r *TransactionRepository) Create(ctx context.Context, tx *domain.Transaction) (*domain.Transaction, error) {
	userOID, err := primitive.ObjectIDFromHex(tx.UserID)
	if err != nil {
		return nil, domain.ErrUserNotFound
	}
	amount, err := toDecimal128(tx.Amount)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := mongoTransaction{
		UserID:    userOID,
		Amount:    amount,
		Type:      string(tx.Type),
		Status:    string(tx.Status),
		Metadata:  tx.Metadata,
		CreatedAt: tx.CreatedAt,
	}
	res, err := r.coll.InsertOne(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("insert transaction: %w", err)
	}

	created := *tx
	created.ID = res.InsertedID.(primitive.ObjectID).Hex()
	return &created, nil
}

func (r *TransactionRepository) FindByID(ctx context.Context, id string) (*domain.Transaction, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrTransactionNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var mt mongoTransaction
	if err := r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&mt); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrTransactionNotFound
		}
		return nil, fmt.Errorf("find transaction: %w", err)
	}
	return mt.toDomain()
}

func (r *TransactionRepository) ListByUser(ctx context.Context, userID string) ([]domain.Transaction, error) {
	oid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, domain.ErrUserNotFound
	}
	return r.list(ctx, bson.M{"user_id": oid})
}

func (r *TransactionRepository) ListAll(ctx context.Context) ([]domain.Transaction, error) {
	return r.list(ctx, bson.M{})
}

func (r *TransactionRepository) list(ctx context.Context, filter bson.M) ([]domain.Transaction, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.coll.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer cur.Close(ctx)

	var txs []domain.Transaction
	for cur.Next(ctx) {
		var mt mongoTransaction
		if err := cur.Decode(&mt); err != nil {
			return nil, fmt.Errorf("decode transaction: %w", err)
		}
		tx, err := mt.toDomain()
		if err != nil {
			return nil, err
		}
		txs = append(txs, *tx)
	}
	return txs, cur.Err()
}

// Settle flips a pending transaction to next. The pending filter is part of
// the update, so the first settlement wins and any replay sees
// ErrInvalidSettlement.
func (r *TransactionRepository) Settle(ctx context.Context, id string, next domain.TransactionStatus) (*domain.Transaction, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrTransactionNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{"_id": oid, "status": string(domain.StatusPending)}
	update := bson.M{"$set": bson.M{"status": string(next)}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var mt mongoTransaction
	if err := r.coll.FindOneAndUpdate(ctx, filter, update, opts).Decode(&mt); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			// No pending entry matched: missing id or already terminal.
			if _, findErr := r.FindByID(ctx, id); findErr != nil {
				return nil, findErr
			}
			return nil, domain.ErrInvalidSettlement
		}
		return nil, fmt.Errorf("settle transaction: %w", err)
	}
	return mt.toDomain()
}

// RevertSettlement puts a just-settled transaction back to pending so the
// settlement can be retried after its balance effect failed. The from filter
// keeps a concurrent retry from reverting a state it did not write.
func (r *TransactionRepository) RevertSettlement(ctx context.Context, id string, from domain.TransactionStatus) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrTransactionNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{"_id": oid, "status": string(from)}
	update := bson.M{"$set": bson.M{"status": string(domain.StatusPending)}}
	res, err := r.coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("revert settlement: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrInvalidSettlement
	}
	return nil
}

// EnsureIndexes creates necessary indexes on the transactions collection.
func (r *TransactionRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "created_at", Value: -1}}},
		{Keys: bson.D{{Key: "status", Value: 1}}},
	}

	_, err := r.coll.Indexes().CreateMany(ctx, indexes)
	return err
}
