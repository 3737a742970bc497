package mongo

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/energybank/energy-bank/internal/core/domain"
)

const plansCollection = "plans"

// PlanRepository implements ports.PlanRepository on MongoDB.
type PlanRepository struct {
	coll *mongo.Collection
}

func NewPlanRepository(db *mongo.Database) *PlanRepository {
	return &PlanRepository{coll: db.Collection(plansCollection)}
}

type mongoPlan struct {
	ID          primitive.ObjectID   `bson:"_id,omitempty"`
	Name        string               `bson:"name"`
	Price       primitive.Decimal128 `bson:"price"`
	PowerKw     primitive.Decimal128 `bson:"power_kw"`
	DailyMin    primitive.Decimal128 `bson:"daily_min"`
	DailyMax    primitive.Decimal128 `bson:"daily_max"`
	Description string               `bson:"description"`
}

func (mp *mongoPlan) toDomain() (*domain.Plan, error) {
	price, err := fromDecimal128(mp.Price)
	if err != nil {
		return nil, err
	}
	power, err := fromDecimal128(mp.PowerKw)
	if err != nil {
		return nil, err
	}
	dailyMin, err := fromDecimal128(mp.DailyMin)
	if err != nil {
		return nil, err
	}
	dailyMax, err := fromDecimal128(mp.DailyMax)
	if err != nil {
		return nil, err
	}
	return &domain.Plan{
		ID:          mp.ID.Hex(),
		Name:        mp.Name,
		Price:       price,
		PowerKw:     power,
		DailyMin:    dailyMin,
		DailyMax:    dailyMax,
		Description: mp.Description,
	}, nil
}

func (r *PlanRepository) List(ctx context.Context) ([]domain.Plan, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.coll.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "price", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("list plans: %w", err)
	}
	defer cur.Close(ctx)

	var plans []domain.Plan
	for cur.Next(ctx) {
		var mp mongoPlan
		if err := cur.Decode(&mp); err != nil {
			return nil, fmt.Errorf("decode plan: %w", err)
		}
		p, err := mp.toDomain()
		if err != nil {
			return nil, err
		}
		plans = append(plans, *p)
	}
	return plans, cur.Err()
}

func (r *PlanRepository) FindByID(ctx context.Context, id string) (*domain.Plan, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrPlanNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var mp mongoPlan
	if err := r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&mp); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrPlanNotFound
		}
		return nil, fmt.Errorf("find plan: %w", err)
	}
	return mp.toDomain()
}

// FindByIDs resolves a multiset of plan ids. The catalog query is by unique
// id, but the result repeats a plan once per occurrence in ids so stacked
// purchases contribute their power per copy. Unknown ids are skipped.
func (r *PlanRepository) FindByIDs(ctx context.Context, ids []string) ([]domain.Plan, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	oids := make([]primitive.ObjectID, 0, len(ids))
	for _, id := range ids {
		oid, err := primitive.ObjectIDFromHex(id)
		if err != nil {
			continue
		}
		oids = append(oids, oid)
	}
	if len(oids) == 0 {
		return nil, nil
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.coll.Find(ctx, bson.M{"_id": bson.M{"$in": oids}})
	if err != nil {
		return nil, fmt.Errorf("find plans: %w", err)
	}
	defer cur.Close(ctx)

	byID := make(map[string]domain.Plan)
	for cur.Next(ctx) {
		var mp mongoPlan
		if err := cur.Decode(&mp); err != nil {
			return nil, fmt.Errorf("decode plan: %w", err)
		}
		p, err := mp.toDomain()
		if err != nil {
			return nil, err
		}
		byID[p.ID] = *p
	}
	if err := cur.Err(); err != nil {
		return nil, err
	}

	var plans []domain.Plan
	for _, id := range ids {
		if p, ok := byID[id]; ok {
			plans = append(plans, p)
		}
	}
	return plans, nil
}

// Seed inserts plans only when the catalog is empty.
func (r *PlanRepository) Seed(ctx context.Context, plans []domain.Plan) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	count, err := r.coll.CountDocuments(ctx, bson.M{})
	if err != nil {
		return fmt.Errorf("count plans: %w", err)
	}
	if count > 0 {
		return nil
	}

	docs := make([]any, 0, len(plans))
	for _, p := range plans {
		price, err := toDecimal128(p.Price)
		if err != nil {
			return err
		}
		power, err := toDecimal128(p.PowerKw)
		if err != nil {
			return err
		}
		dailyMin, err := toDecimal128(p.DailyMin)
		if err != nil {
			return err
		}
		dailyMax, err := toDecimal128(p.DailyMax)
		if err != nil {
			return err
		}
		docs = append(docs, mongoPlan{
			Name:        p.Name,
			Price:       price,
			PowerKw:     power,
			DailyMin:    dailyMin,
			DailyMax:    dailyMax,
			Description: p.Description,
		})
	}

	if _, err := r.coll.InsertMany(ctx, docs); err != nil {
		return fmt.Errorf("seed plans: %w", err)
	}
	return nil
}
