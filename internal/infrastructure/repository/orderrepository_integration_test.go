package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/bajabeat/descargas/internal/domain/order"
	vo "github.com/bajabeat/descargas/internal/domain/order/valueobjects"
	"github.com/bajabeat/descargas/internal/infrastructure/persistence/models"
)

func setupOrderTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(&models.OrderModel{})
	require.NoError(t, err)

	return db
}

func createTestPlanOrder(t *testing.T, userID, planID uint, method vo.PaymentMethod) *order.Order {
	o, err := order.NewPlanOrder(userID, planID, method, vo.NewMoney(19900, "MXN"))
	require.NoError(t, err)
	return o
}

func TestOrderRepository_CreateAndGet(t *testing.T) {
	db := setupOrderTestDB(t)
	repo := NewOrderRepository(db)
	ctx := context.Background()

	o := createTestPlanOrder(t, 1, 2, vo.PaymentMethodStripe)
	require.NoError(t, repo.Create(ctx, o))
	assert.NotZero(t, o.ID())

	found, err := repo.GetByID(ctx, o.ID())
	require.NoError(t, err)
	assert.Equal(t, o.Reference(), found.Reference())
	assert.Equal(t, vo.OrderStatusPending, found.Status())
	require.NotNil(t, found.PlanID())
	assert.Equal(t, uint(2), *found.PlanID())

	byRef, err := repo.GetByReference(ctx, o.Reference())
	require.NoError(t, err)
	assert.Equal(t, o.ID(), byRef.ID())
}

func TestOrderRepository_GetByID_NotFound(t *testing.T) {
	db := setupOrderTestDB(t)
	repo := NewOrderRepository(db)

	_, err := repo.GetByID(context.Background(), 9999)
	assert.ErrorIs(t, err, order.ErrOrderNotFound)
}

func TestOrderRepository_UpdatePersistsPaymentFields(t *testing.T) {
	db := setupOrderTestDB(t)
	repo := NewOrderRepository(db)
	ctx := context.Background()

	o := createTestPlanOrder(t, 1, 2, vo.PaymentMethodStripe)
	require.NoError(t, repo.Create(ctx, o))

	require.NoError(t, o.MarkPaid("pi_abc123"))
	require.NoError(t, repo.Update(ctx, o))

	found, err := repo.GetByProviderTxnID(ctx, "pi_abc123")
	require.NoError(t, err)
	assert.Equal(t, o.ID(), found.ID())
	assert.Equal(t, vo.OrderStatusPaid, found.Status())
	require.NotNil(t, found.PaidAt())
}

func TestOrderRepository_GetPendingVoucherOrder(t *testing.T) {
	db := setupOrderTestDB(t)
	repo := NewOrderRepository(db)
	ctx := context.Background()

	o := createTestPlanOrder(t, 5, 3, vo.PaymentMethodOxxo)
	require.NoError(t, o.AttachVoucher("ord_1", "930012345678901234", time.Now().UTC().Add(72*time.Hour)))
	require.NoError(t, repo.Create(ctx, o))

	found, err := repo.GetPendingVoucherOrder(ctx, 5, 3, vo.PaymentMethodOxxo)
	require.NoError(t, err)
	assert.Equal(t, o.ID(), found.ID())

	// Canceled orders are not reusable.
	found.Cancel()
	require.NoError(t, repo.Update(ctx, found))

	_, err = repo.GetPendingVoucherOrder(ctx, 5, 3, vo.PaymentMethodOxxo)
	assert.ErrorIs(t, err, order.ErrOrderNotFound)
}

func TestOrderRepository_ExistsPaidByUserIDs(t *testing.T) {
	db := setupOrderTestDB(t)
	repo := NewOrderRepository(db)
	ctx := context.Background()

	exists, err := repo.ExistsPaidByUserIDs(ctx, nil)
	require.NoError(t, err)
	assert.False(t, exists)

	o := createTestPlanOrder(t, 7, 1, vo.PaymentMethodStripe)
	require.NoError(t, repo.Create(ctx, o))

	exists, err = repo.ExistsPaidByUserIDs(ctx, []uint{7})
	require.NoError(t, err)
	assert.False(t, exists, "pending orders do not count as paid history")

	require.NoError(t, o.MarkPaid("pi_paid"))
	require.NoError(t, repo.Update(ctx, o))

	exists, err = repo.ExistsPaidByUserIDs(ctx, []uint{7, 8})
	require.NoError(t, err)
	assert.True(t, exists)
}

// Trial abuse checks look at plan purchases only. A paid add-on must not
// mark the user as having plan history.
func TestOrderRepository_ExistsPaidByUserIDsIgnoresAddonOrders(t *testing.T) {
	db := setupOrderTestDB(t)
	repo := NewOrderRepository(db)
	ctx := context.Background()

	addonOrd, err := order.NewAddonOrder(7, 3, vo.PaymentMethodStripe, vo.NewMoney(9900, "MXN"))
	require.NoError(t, err)
	require.NoError(t, repo.Create(ctx, addonOrd))
	require.NoError(t, addonOrd.MarkPaid("pi_addon"))
	require.NoError(t, repo.Update(ctx, addonOrd))

	exists, err := repo.ExistsPaidByUserIDs(ctx, []uint{7})
	require.NoError(t, err)
	assert.False(t, exists, "paid addon orders are not plan purchase history")
}

func TestOrderRepository_GetExpiredPendingOrders(t *testing.T) {
	db := setupOrderTestDB(t)
	repo := NewOrderRepository(db)
	ctx := context.Background()

	expired := createTestPlanOrder(t, 1, 1, vo.PaymentMethodOxxo)
	require.NoError(t, expired.AttachVoucher("ord_exp", "930011111111111111", time.Now().UTC().Add(-time.Hour)))
	require.NoError(t, repo.Create(ctx, expired))

	live := createTestPlanOrder(t, 2, 1, vo.PaymentMethodSpei)
	require.NoError(t, live.AttachVoucher("ord_live", "930022222222222222", time.Now().UTC().Add(72*time.Hour)))
	require.NoError(t, repo.Create(ctx, live))

	found, err := repo.GetExpiredPendingOrders(ctx, 10)
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, expired.ID(), found[0].ID())
}

func TestOrderRepository_ListByUserID(t *testing.T) {
	db := setupOrderTestDB(t)
	repo := NewOrderRepository(db)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		o := createTestPlanOrder(t, 9, uint(i+1), vo.PaymentMethodStripe)
		require.NoError(t, repo.Create(ctx, o))
	}
	other := createTestPlanOrder(t, 10, 1, vo.PaymentMethodStripe)
	require.NoError(t, repo.Create(ctx, other))

	orders, err := repo.ListByUserID(ctx, 9)
	require.NoError(t, err)
	assert.Len(t, orders, 3)
}
