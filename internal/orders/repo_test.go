package orders

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/emekaobi/naijamart-backend/pkg/db/models"
	"github.com/emekaobi/naijamart-backend/pkg/enums"
)

func setupOrdersTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)

	orders := `
CREATE TABLE IF NOT EXISTS orders (
  id TEXT PRIMARY KEY,
  customer_id TEXT,
  customer_name TEXT NOT NULL,
  customer_email TEXT NOT NULL,
  customer_phone TEXT NOT NULL,
  fulfillment_method TEXT NOT NULL,
  shipping_address TEXT,
  payment_method TEXT NOT NULL,
  notes TEXT,
  status TEXT NOT NULL DEFAULT 'pending',
  total_price TEXT NOT NULL,
  created_at DATETIME,
  updated_at DATETIME
);`
	orderItems := `
CREATE TABLE IF NOT EXISTS order_items (
  id TEXT PRIMARY KEY,
  order_id TEXT NOT NULL,
  product_id TEXT NOT NULL,
  product_name TEXT NOT NULL,
  unit TEXT NOT NULL,
  unit_price TEXT NOT NULL,
  quantity INTEGER NOT NULL,
  created_at DATETIME
);`
	for _, stmt := range []string{orders, orderItems} {
		require.NoError(t, db.Exec(stmt).Error)
	}
	return db
}

func addr(s string) *string { return &s }

func buildOrder(customerID *uuid.UUID) *models.Order {
	return &models.Order{
		ID:                uuid.New(),
		CustomerID:        customerID,
		CustomerName:      "Ada Obi",
		CustomerEmail:     "ada@example.com",
		CustomerPhone:     "08031234567",
		FulfillmentMethod: enums.FulfillmentMethodDelivery,
		ShippingAddress:   addr("12 Allen Avenue, Ikeja, Lagos"),
		PaymentMethod:     enums.PaymentMethodBankTransfer,
		TotalPrice:        decimal.NewFromInt(90000),
		Items: []models.OrderItem{
			{
				ID:          uuid.New(),
				ProductID:   uuid.New(),
				ProductName: "Rice",
				Unit:        "50kg bag",
				UnitPrice:   decimal.NewFromInt(45000),
				Quantity:    2,
			},
		},
	}
}

func TestCreateAndFindOrderWithItems(t *testing.T) {
	ctx := context.Background()
	repo := NewRepository(setupOrdersTestDB(t))

	created, err := repo.Create(ctx, buildOrder(nil))
	require.NoError(t, err)
	assert.Equal(t, enums.OrderStatusPending, created.Status)

	loaded, err := repo.FindByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Nil(t, loaded.CustomerID)
	require.Len(t, loaded.Items, 1)
	assert.Equal(t, "Rice", loaded.Items[0].ProductName)
	assert.True(t, loaded.Items[0].UnitPrice.Equal(decimal.NewFromInt(45000)))
	assert.True(t, loaded.TotalPrice.Equal(decimal.NewFromInt(90000)))
}

func TestListFiltersByCustomerAndStatus(t *testing.T) {
	ctx := context.Background()
	repo := NewRepository(setupOrdersTestDB(t))

	customerID := uuid.New()
	mine := buildOrder(&customerID)
	_, err := repo.Create(ctx, mine)
	require.NoError(t, err)

	guest := buildOrder(nil)
	guest.CreatedAt = time.Now().Add(-time.Hour)
	_, err = repo.Create(ctx, guest)
	require.NoError(t, err)

	rows, err := repo.List(ctx, ListFilter{CustomerID: &customerID}, 10, nil)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, mine.ID, rows[0].ID)

	pending := enums.OrderStatusPending
	rows, err = repo.List(ctx, ListFilter{Status: &pending}, 10, nil)
	require.NoError(t, err)
	assert.Len(t, rows, 2)

	completed := enums.OrderStatusCompleted
	rows, err = repo.List(ctx, ListFilter{Status: &completed}, 10, nil)
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestUpdateStatusPersists(t *testing.T) {
	ctx := context.Background()
	repo := NewRepository(setupOrdersTestDB(t))

	created, err := repo.Create(ctx, buildOrder(nil))
	require.NoError(t, err)

	require.NoError(t, repo.UpdateStatus(ctx, created.ID, enums.OrderStatusProcessing))

	loaded, err := repo.FindByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, enums.OrderStatusProcessing, loaded.Status)
}
