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

const collectionCarts = "carritos"

// CartRepository implements ports.CartRepository using MongoDB. All mutations
// are conditional single-document updates: the filter encodes the state the
// caller based its decision on, and a non-match reports a conflict instead of
// overwriting a concurrent change.
type CartRepository struct {
	col *mongo.Collection
}

func NewCartRepository(db *mongo.Database) *CartRepository {
	return &CartRepository{col: db.Collection(collectionCarts)}
}

type mongoCartItem struct {
	ProductID string  `bson:"producto"`
	Name      string  `bson:"nombre"`
	UnitPrice float64 `bson:"precio"`
	Quantity  int     `bson:"cantidad"`
}

type mongoCart struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	UserID    string             `bson:"usuario"`
	Items     []mongoCartItem    `bson:"items"`
	Total     float64            `bson:"total"`
	CreatedAt time.Time          `bson:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at"`
}

// GetOrCreate upserts the user's cart in a single round trip; the unique
// index on usuario means concurrent first accesses converge on one document.
func (r *CartRepository) GetOrCreate(ctx context.Context, userID string) (*domain.Cart, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	now := time.Now().UTC()
	update := bson.M{"$setOnInsert": bson.M{
		"usuario":    userID,
		"items":      bson.A{},
		"total":      0.0,
		"created_at": now,
		"updated_at": now,
	}}

	var mc mongoCart
	err := r.col.FindOneAndUpdate(ctx, bson.M{"usuario": userID}, update,
		options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After),
	).Decode(&mc)
	if err != nil {
		return nil, fmt.Errorf("get or create cart: %w", err)
	}
	return mc.toDomain(), nil
}

// SetItemQuantity updates one line's quantity, conditional on the line still
// holding expectedQty units.
func (r *CartRepository) SetItemQuantity(ctx context.Context, userID, productID string, expectedQty, newQty int) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{
		"usuario": userID,
		"items": bson.M{"$elemMatch": bson.M{
			"producto": productID,
			"cantidad": expectedQty,
		}},
	}
	update := bson.M{"$set": bson.M{
		"items.$.cantidad": newQty,
		"updated_at":       time.Now().UTC(),
	}}

	res, err := r.col.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("set item quantity: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrCartConflict
	}
	return nil
}

// PushItem appends a new line, conditional on no line existing for the product.
func (r *CartRepository) PushItem(ctx context.Context, userID string, item domain.CartItem) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{
		"usuario":        userID,
		"items.producto": bson.M{"$ne": item.ProductID},
	}
	update := bson.M{
		"$push": bson.M{"items": mongoCartItem{
			ProductID: item.ProductID,
			Name:      item.Name,
			UnitPrice: item.UnitPrice,
			Quantity:  item.Quantity,
		}},
		"$set": bson.M{"updated_at": time.Now().UTC()},
	}

	res, err := r.col.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("push cart item: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrCartConflict
	}
	return nil
}

func (r *CartRepository) PullItem(ctx context.Context, userID, productID string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	update := bson.M{
		"$pull": bson.M{"items": bson.M{"producto": productID}},
		"$set":  bson.M{"updated_at": time.Now().UTC()},
	}

	res, err := r.col.UpdateOne(ctx, bson.M{"usuario": userID}, update)
	if err != nil {
		return fmt.Errorf("pull cart item: %w", err)
	}
	if res.MatchedCount == 0 || res.ModifiedCount == 0 {
		return domain.ErrItemNotFound
	}
	return nil
}

// RecomputeTotal re-derives total from items inside the storage engine via an
// aggregation-pipeline update, so the invariant total = Σ(precio×cantidad)
// holds against whatever the items array contains at update time.
func (r *CartRepository) RecomputeTotal(ctx context.Context, userID string) (*domain.Cart, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	pipeline := bson.A{bson.M{"$set": bson.M{
		"total": bson.M{"$sum": bson.M{"$map": bson.M{
			"input": "$items",
			"as":    "item",
			"in":    bson.M{"$multiply": bson.A{"$$item.precio", "$$item.cantidad"}},
		}}},
		"updated_at": time.Now().UTC(),
	}}}

	var mc mongoCart
	err := r.col.FindOneAndUpdate(ctx, bson.M{"usuario": userID}, pipeline,
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&mc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("recompute cart total: %w", err)
	}
	return mc.toDomain(), nil
}

func (mc *mongoCart) toDomain() *domain.Cart {
	items := make([]domain.CartItem, len(mc.Items))
	for i, it := range mc.Items {
		items[i] = domain.CartItem{
			ProductID: it.ProductID,
			Name:      it.Name,
			UnitPrice: it.UnitPrice,
			Quantity:  it.Quantity,
		}
	}
	return &domain.Cart{
		ID:        mc.ID.Hex(),
		UserID:    mc.UserID,
		Items:     items,
		Total:     mc.Total,
		CreatedAt: mc.CreatedAt,
		UpdatedAt: mc.UpdatedAt,
	}
}
