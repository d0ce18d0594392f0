package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/mercadito/ecommerce-api/internal/core/domain"
)

// ---------------------------------------------------------------------------
// In-memory stub cart repository
// ---------------------------------------------------------------------------

type stubCartRepo struct {
	byUser map[string]*domain.Cart
}

func newStubCartRepo() *stubCartRepo {
	return &stubCartRepo{byUser: make(map[string]*domain.Cart)}
}

func (r *stubCartRepo) GetOrCreate(_ context.Context, userID string) (*domain.Cart, error) {
	c, ok := r.byUser[userID]
	if !ok {
		c = &domain.Cart{UserID: userID, Items: []domain.CartItem{}}
		r.byUser[userID] = c
	}
	clone := *c
	clone.Items = append([]domain.CartItem(nil), c.Items...)
	return &clone, nil
}

// SetItemQuantity mirrors the conditional Mongo update: the line must
// currently hold expectedQty units or the call conflicts.
func (r *stubCartRepo) SetItemQuantity(_ context.Context, userID, productID string, expectedQty, newQty int) error {
	c, ok := r.byUser[userID]
	if !ok {
		return domain.ErrCartConflict
	}
	item := c.FindItem(productID)
	if item == nil || item.Quantity != expectedQty {
		return domain.ErrCartConflict
	}
	item.Quantity = newQty
	return nil
}

func (r *stubCartRepo) PushItem(_ context.Context, userID string, item domain.CartItem) error {
	c, ok := r.byUser[userID]
	if !ok {
		return domain.ErrCartConflict
	}
	if c.FindItem(item.ProductID) != nil {
		return domain.ErrCartConflict
	}
	c.Items = append(c.Items, item)
	return nil
}

func (r *stubCartRepo) PullItem(_ context.Context, userID, productID string) error {
	c, ok := r.byUser[userID]
	if !ok {
		return domain.ErrItemNotFound
	}
	for i := range c.Items {
		if c.Items[i].ProductID == productID {
			c.Items = append(c.Items[:i], c.Items[i+1:]...)
			return nil
		}
	}
	return domain.ErrItemNotFound
}

func (r *stubCartRepo) RecomputeTotal(_ context.Context, userID string) (*domain.Cart, error) {
	c, ok := r.byUser[userID]
	if !ok {
		return nil, domain.ErrItemNotFound
	}
	var total float64
	for _, item := range c.Items {
		total += item.UnitPrice * float64(item.Quantity)
	}
	c.Total = total
	clone := *c
	clone.Items = append([]domain.CartItem(nil), c.Items...)
	return &clone, nil
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

func newCartFixture() (*CartService, *stubCartRepo, *stubProductRepo) {
	carts := newStubCartRepo()
	products := newStubProductRepo()
	svc := NewCartService(carts, products, discardLogger)
	return svc, carts, products
}

func seedProduct(products *stubProductRepo, id, name string, price float64, stock int, active bool) {
	products.byID[id] = &domain.Product{
		ID: id, Name: name, Price: price, Stock: stock, Active: active,
	}
}

// ---------------------------------------------------------------------------
// GetCart tests
// ---------------------------------------------------------------------------

func TestCartService_Get_CreatesEmptyCartOnFirstAccess(t *testing.T) {
	svc, _, _ := newCartFixture()

	cart, err := svc.GetCart(context.Background(), "uid-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cart.UserID != "uid-1" {
		t.Errorf("expected owner uid-1, got %q", cart.UserID)
	}
	if len(cart.Items) != 0 || cart.Total != 0 {
		t.Errorf("first access must yield an empty cart, got %d items total %v", len(cart.Items), cart.Total)
	}
}

// ---------------------------------------------------------------------------
// AddItem tests
// ---------------------------------------------------------------------------

func TestCartService_Add_NewLineSnapshotsProduct(t *testing.T) {
	svc, _, products := newCartFixture()
	seedProduct(products, "p1", "Tomates", 25.50, 10, true)

	cart, err := svc.AddItem(context.Background(), "uid-1", "p1", 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cart.Items) != 1 {
		t.Fatalf("expected 1 line, got %d", len(cart.Items))
	}
	line := cart.Items[0]
	if line.Name != "Tomates" || line.UnitPrice != 25.50 || line.Quantity != 2 {
		t.Errorf("line must snapshot name and price: %+v", line)
	}
	if cart.Total != 51.00 {
		t.Errorf("expected total 51.00, got %v", cart.Total)
	}
}

func TestCartService_Add_MergesIntoExistingLine(t *testing.T) {
	svc, _, products := newCartFixture()
	seedProduct(products, "p1", "Tomates", 10, 10, true)

	_, _ = svc.AddItem(context.Background(), "uid-1", "p1", 2)
	cart, err := svc.AddItem(context.Background(), "uid-1", "p1", 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cart.Items) != 1 {
		t.Fatalf("merging must not create a second line, got %d", len(cart.Items))
	}
	if cart.Items[0].Quantity != 5 {
		t.Errorf("expected merged quantity 5, got %d", cart.Items[0].Quantity)
	}
	if cart.Total != 50 {
		t.Errorf("expected total 50, got %v", cart.Total)
	}
}

func TestCartService_Add_RejectsWhenMergedQuantityExceedsStock(t *testing.T) {
	svc, _, products := newCartFixture()
	seedProduct(products, "p1", "Tomates", 10, 5, true)

	_, _ = svc.AddItem(context.Background(), "uid-1", "p1", 3)

	_, err := svc.AddItem(context.Background(), "uid-1", "p1", 3)
	var stockErr *domain.StockError
	if !errors.As(err, &stockErr) {
		t.Fatalf("expected StockError, got %v", err)
	}
	if stockErr.MaxAdditional != 2 {
		t.Errorf("with 5 in stock and 3 in cart, at most 2 more can be added, got %d", stockErr.MaxAdditional)
	}
	if !strings.Contains(stockErr.Error(), "2") {
		t.Errorf("message must name the remaining headroom: %q", stockErr.Error())
	}

	// The rejected add must leave the cart untouched.
	cart, _ := svc.GetCart(context.Background(), "uid-1")
	if cart.Items[0].Quantity != 3 {
		t.Errorf("cart must be unchanged after rejection, got quantity %d", cart.Items[0].Quantity)
	}
}

func TestCartService_Add_AllowsExactlyRemainingStock(t *testing.T) {
	svc, _, products := newCartFixture()
	seedProduct(products, "p1", "Tomates", 10, 5, true)

	_, _ = svc.AddItem(context.Background(), "uid-1", "p1", 3)
	cart, err := svc.AddItem(context.Background(), "uid-1", "p1", 2)
	if err != nil {
		t.Fatalf("adding exactly the remaining stock must succeed: %v", err)
	}
	if cart.Items[0].Quantity != 5 {
		t.Errorf("expected quantity 5, got %d", cart.Items[0].Quantity)
	}
}

func TestCartService_Add_NewLineExceedingStock(t *testing.T) {
	svc, _, products := newCartFixture()
	seedProduct(products, "p1", "Tomates", 10, 5, true)

	_, err := svc.AddItem(context.Background(), "uid-1", "p1", 6)
	var stockErr *domain.StockError
	if !errors.As(err, &stockErr) {
		t.Fatalf("expected StockError, got %v", err)
	}
	if !stockErr.NewLine || stockErr.MaxAdditional != 5 {
		t.Errorf("fresh line: at most the full stock can be added, got %+v", stockErr)
	}
}

func TestCartService_Add_UnknownProduct(t *testing.T) {
	svc, _, _ := newCartFixture()

	_, err := svc.AddItem(context.Background(), "uid-1", "missing", 1)
	if !errors.Is(err, domain.ErrProductUnavailable) {
		t.Errorf("unknown product must read as unavailable, got %v", err)
	}
}

func TestCartService_Add_InactiveProduct(t *testing.T) {
	svc, _, products := newCartFixture()
	seedProduct(products, "p1", "Tomates", 10, 5, false)

	_, err := svc.AddItem(context.Background(), "uid-1", "p1", 1)
	if !errors.Is(err, domain.ErrProductUnavailable) {
		t.Errorf("inactive product must be unavailable, got %v", err)
	}
}

func TestCartService_Add_ZeroStockProduct(t *testing.T) {
	svc, _, products := newCartFixture()
	seedProduct(products, "p1", "Tomates", 10, 0, true)

	_, err := svc.AddItem(context.Background(), "uid-1", "p1", 1)
	if !errors.Is(err, domain.ErrProductUnavailable) {
		t.Errorf("zero-stock product must be unavailable, got %v", err)
	}
}

func TestCartService_Add_InvalidQuantity(t *testing.T) {
	svc, _, products := newCartFixture()
	seedProduct(products, "p1", "Tomates", 10, 5, true)

	for _, qty := range []int{0, -1} {
		_, err := svc.AddItem(context.Background(), "uid-1", "p1", qty)
		if !errors.Is(err, domain.ErrInvalidQuantity) {
			t.Errorf("qty=%d: expected ErrInvalidQuantity, got %v", qty, err)
		}
	}
}

func TestCartService_Add_ConflictOnInterleavedUpdate(t *testing.T) {
	svc, carts, products := newCartFixture()
	seedProduct(products, "p1", "Tomates", 10, 20, true)
	_, _ = svc.AddItem(context.Background(), "uid-1", "p1", 2)

	// Simulate a concurrent request changing the line between this request's
	// read and its conditional write.
	readThenFlip := &flippingCartRepo{inner: carts, userID: "uid-1", productID: "p1", flipTo: 7}
	svc2 := NewCartService(readThenFlip, products, discardLogger)

	_, err := svc2.AddItem(context.Background(), "uid-1", "p1", 1)
	if !errors.Is(err, domain.ErrCartConflict) {
		t.Errorf("interleaved update must surface as ErrCartConflict, got %v", err)
	}
}

// flippingCartRepo changes the line quantity after GetOrCreate returns,
// modelling a racing request that lands between read and conditional write.
type flippingCartRepo struct {
	inner     *stubCartRepo
	userID    string
	productID string
	flipTo    int
}

func (r *flippingCartRepo) GetOrCreate(ctx context.Context, userID string) (*domain.Cart, error) {
	cart, err := r.inner.GetOrCreate(ctx, userID)
	if err == nil && userID == r.userID {
		if item := r.inner.byUser[userID].FindItem(r.productID); item != nil {
			item.Quantity = r.flipTo
		}
	}
	return cart, err
}

func (r *flippingCartRepo) SetItemQuantity(ctx context.Context, userID, productID string, expectedQty, newQty int) error {
	return r.inner.SetItemQuantity(ctx, userID, productID, expectedQty, newQty)
}

func (r *flippingCartRepo) PushItem(ctx context.Context, userID string, item domain.CartItem) error {
	return r.inner.PushItem(ctx, userID, item)
}

func (r *flippingCartRepo) PullItem(ctx context.Context, userID, productID string) error {
	return r.inner.PullItem(ctx, userID, productID)
}

func (r *flippingCartRepo) RecomputeTotal(ctx context.Context, userID string) (*domain.Cart, error) {
	return r.inner.RecomputeTotal(ctx, userID)
}

func TestCartService_Add_PriceChangeDoesNotTouchSnapshot(t *testing.T) {
	svc, _, products := newCartFixture()
	seedProduct(products, "p1", "Tomates", 10, 10, true)

	_, _ = svc.AddItem(context.Background(), "uid-1", "p1", 1)
	products.byID["p1"].Price = 99

	cart, err := svc.AddItem(context.Background(), "uid-1", "p1", 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cart.Items[0].UnitPrice != 10 {
		t.Errorf("line keeps the add-time price, got %v", cart.Items[0].UnitPrice)
	}
	if cart.Total != 20 {
		t.Errorf("total derives from the snapshotted price, got %v", cart.Total)
	}
}

// ---------------------------------------------------------------------------
// RemoveItem tests
// ---------------------------------------------------------------------------

func TestCartService_Remove_DropsLineAndRecomputesTotal(t *testing.T) {
	svc, _, products := newCartFixture()
	seedProduct(products, "p1", "Tomates", 10, 10, true)
	seedProduct(products, "p2", "Cebollas", 5, 10, true)
	_, _ = svc.AddItem(context.Background(), "uid-1", "p1", 2)
	_, _ = svc.AddItem(context.Background(), "uid-1", "p2", 4)

	cart, err := svc.RemoveItem(context.Background(), "uid-1", "p1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cart.Items) != 1 || cart.Items[0].ProductID != "p2" {
		t.Fatalf("expected only p2 to remain, got %+v", cart.Items)
	}
	if cart.Total != 20 {
		t.Errorf("expected total 20 after removal, got %v", cart.Total)
	}
}

func TestCartService_Remove_MissingLine(t *testing.T) {
	svc, _, products := newCartFixture()
	seedProduct(products, "p1", "Tomates", 10, 10, true)
	_, _ = svc.AddItem(context.Background(), "uid-1", "p1", 1)

	_, err := svc.RemoveItem(context.Background(), "uid-1", "p2")
	if !errors.Is(err, domain.ErrItemNotFound) {
		t.Errorf("expected ErrItemNotFound, got %v", err)
	}

	cart, _ := svc.GetCart(context.Background(), "uid-1")
	if len(cart.Items) != 1 {
		t.Errorf("failed removal must leave the cart unchanged, got %d items", len(cart.Items))
	}
}
