package cart

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/emekaobi/naijamart-backend/pkg/db/models"
	pkgerrors "github.com/emekaobi/naijamart-backend/pkg/errors"
)

type fakeRepo struct {
	carts map[string]*Cart
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{carts: map[string]*Cart{}}
}

func (f *fakeRepo) Load(_ context.Context, token string) (*Cart, error) {
	if c, ok := f.carts[token]; ok {
		copied := *c
		copied.Lines = append([]Line(nil), c.Lines...)
		return &copied, nil
	}
	return NewCart(token), nil
}

func (f *fakeRepo) Save(_ context.Context, c *Cart) error {
	copied := *c
	copied.Lines = append([]Line(nil), c.Lines...)
	f.carts[c.Token] = &copied
	return nil
}

func (f *fakeRepo) Delete(_ context.Context, token string) error {
	delete(f.carts, token)
	return nil
}

type fakeProducts struct {
	products map[uuid.UUID]*models.Product
}

func (f *fakeProducts) GetByID(_ context.Context, id uuid.UUID) (*models.Product, error) {
	if p, ok := f.products[id]; ok {
		return p, nil
	}
	return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
}

func testProduct(name, unit string, price int64) *models.Product {
	return &models.Product{
		ID:       uuid.New(),
		Name:     name,
		Unit:     unit,
		Price:    decimal.NewFromInt(price),
		IsActive: true,
	}
}

func newTestService(t *testing.T, products ...*models.Product) (Service, *fakeRepo) {
	t.Helper()
	byID := map[uuid.UUID]*models.Product{}
	for _, p := range products {
		byID[p.ID] = p
	}
	repo := newFakeRepo()
	svc, err := NewService(repo, &fakeProducts{products: byID})
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	return svc, repo
}

func TestUpdateQuantityToZeroRemovesLine(t *testing.T) {
	ctx := context.Background()
	rice := testProduct("Rice", "50kg bag", 45000)
	svc, _ := newTestService(t, rice)
	token := NewToken()

	for _, qty := range []int{1, 3, 7} {
		if _, err := svc.AddItem(ctx, token, rice.ID, qty); err != nil {
			t.Fatalf("AddItem qty=%d: %v", qty, err)
		}
		c, err := svc.UpdateQuantity(ctx, token, rice.ID, 0)
		if err != nil {
			t.Fatalf("UpdateQuantity to 0: %v", err)
		}
		if len(c.Lines) != 0 {
			t.Fatalf("expected no lines after zero-quantity update, got %d", len(c.Lines))
		}
		for _, line := range c.Lines {
			if line.Quantity == 0 {
				t.Fatalf("zero-quantity line survived: %+v", line)
			}
		}
	}
}

func TestTotalPriceRecomputedAcrossMutations(t *testing.T) {
	ctx := context.Background()
	rice := testProduct("Rice", "50kg bag", 45000)
	garri := testProduct("Garri", "paint bucket", 3500)
	oil := testProduct("Palm Oil", "5L keg", 12000)
	svc, _ := newTestService(t, rice, garri, oil)
	token := NewToken()

	if _, err := svc.AddItem(ctx, token, rice.ID, 2); err != nil {
		t.Fatalf("AddItem rice: %v", err)
	}
	if _, err := svc.AddItem(ctx, token, garri.ID, 4); err != nil {
		t.Fatalf("AddItem garri: %v", err)
	}
	if _, err := svc.AddItem(ctx, token, oil.ID, 1); err != nil {
		t.Fatalf("AddItem oil: %v", err)
	}
	if _, err := svc.UpdateQuantity(ctx, token, garri.ID, 2); err != nil {
		t.Fatalf("UpdateQuantity garri: %v", err)
	}
	c, err := svc.RemoveItem(ctx, token, oil.ID)
	if err != nil {
		t.Fatalf("RemoveItem oil: %v", err)
	}

	want := decimal.NewFromInt(2*45000 + 2*3500)
	if !c.TotalPrice().Equal(want) {
		t.Fatalf("TotalPrice = %s, want %s", c.TotalPrice(), want)
	}
	if c.TotalItems() != 4 {
		t.Fatalf("TotalItems = %d, want 4", c.TotalItems())
	}
}

func TestAddItemMergesSameProduct(t *testing.T) {
	ctx := context.Background()
	rice := testProduct("Rice", "50kg bag", 45000)
	svc, _ := newTestService(t, rice)
	token := NewToken()

	if _, err := svc.AddItem(ctx, token, rice.ID, 2); err != nil {
		t.Fatalf("AddItem: %v", err)
	}
	c, err := svc.AddItem(ctx, token, rice.ID, 3)
	if err != nil {
		t.Fatalf("AddItem again: %v", err)
	}
	if len(c.Lines) != 1 {
		t.Fatalf("expected a single merged line, got %d", len(c.Lines))
	}
	if c.Lines[0].Quantity != 5 {
		t.Fatalf("merged quantity = %d, want 5", c.Lines[0].Quantity)
	}
}

func TestClearTwiceIsNoOp(t *testing.T) {
	ctx := context.Background()
	rice := testProduct("Rice", "50kg bag", 45000)
	svc, _ := newTestService(t, rice)
	token := NewToken()

	if _, err := svc.AddItem(ctx, token, rice.ID, 2); err != nil {
		t.Fatalf("AddItem: %v", err)
	}
	c, err := svc.Clear(ctx, token)
	if err != nil {
		t.Fatalf("first Clear: %v", err)
	}
	if c.TotalItems() != 0 {
		t.Fatalf("TotalItems after clear = %d, want 0", c.TotalItems())
	}
	c, err = svc.Clear(ctx, token)
	if err != nil {
		t.Fatalf("second Clear: %v", err)
	}
	if c.TotalItems() != 0 {
		t.Fatalf("TotalItems after second clear = %d, want 0", c.TotalItems())
	}
}

func TestSubscribersSeeEveryMutation(t *testing.T) {
	ctx := context.Background()
	rice := testProduct("Rice", "50kg bag", 45000)
	svc, _ := newTestService(t, rice)
	token := NewToken()

	var seen []int
	svc.Subscribe(func(_ context.Context, c *Cart) {
		seen = append(seen, c.TotalItems())
	})

	if _, err := svc.AddItem(ctx, token, rice.ID, 2); err != nil {
		t.Fatalf("AddItem: %v", err)
	}
	if _, err := svc.UpdateQuantity(ctx, token, rice.ID, 5); err != nil {
		t.Fatalf("UpdateQuantity: %v", err)
	}
	if _, err := svc.Clear(ctx, token); err != nil {
		t.Fatalf("Clear: %v", err)
	}

	want := []int{2, 5, 0}
	if len(seen) != len(want) {
		t.Fatalf("subscriber fired %d times, want %d", len(seen), len(want))
	}
	for i := range want {
		if seen[i] != want[i] {
			t.Fatalf("notification %d saw %d items, want %d", i, seen[i], want[i])
		}
	}
}

func TestAddInactiveProductRejected(t *testing.T) {
	ctx := context.Background()
	rice := testProduct("Rice", "50kg bag", 45000)
	rice.IsActive = false
	svc, _ := newTestService(t, rice)

	_, err := svc.AddItem(ctx, NewToken(), rice.ID, 1)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeStateConflict {
		t.Fatalf("expected state conflict for inactive product, got %v", err)
	}
}
