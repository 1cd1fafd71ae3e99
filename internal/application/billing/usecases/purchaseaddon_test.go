package usecases

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/bajabeat/descargas/internal/application/billing/gateway"
	"github.com/bajabeat/descargas/internal/domain/order"
	"github.com/bajabeat/descargas/internal/domain/plan"
	"github.com/bajabeat/descargas/internal/domain/subscription"
	apperrors "github.com/bajabeat/descargas/internal/shared/errors"
)

type addonFixture struct {
	orderRepo *mockOrderRepo
	addonRepo *mockAddonRepo
	subRepo   *mockSubRepo
	userRepo  *mockUserRepo
	voucherGW *mockVoucherGateway
	uc        *PurchaseAddonUseCase
}

func newAddonFixture() *addonFixture {
	f := &addonFixture{
		orderRepo: new(mockOrderRepo),
		addonRepo: new(mockAddonRepo),
		subRepo:   new(mockSubRepo),
		userRepo:  new(mockUserRepo),
		voucherGW: new(mockVoucherGateway),
	}
	f.uc = NewPurchaseAddonUseCase(
		f.orderRepo, f.addonRepo, f.subRepo, f.userRepo, f.voucherGW, 3, testLogger(),
	)
	return f
}

func TestPurchaseAddon(t *testing.T) {
	f := newAddonFixture()
	addon, err := plan.NewAddonProduct("50GB extra", 50, 9900, "MXN")
	require.NoError(t, err)
	expires := time.Now().UTC().Add(72 * time.Hour)

	f.userRepo.On("GetByID", mock.Anything, uint(1)).Return(testUser(t, 1), nil)
	f.subRepo.On("GetActiveByUserID", mock.Anything, uint(1)).Return(activeSubscription(5, 1, 10, 7), nil)
	f.addonRepo.On("GetByID", mock.Anything, uint(3)).Return(addon, nil)
	f.orderRepo.On("Create", mock.Anything, mock.AnythingOfType("*order.Order")).Return(nil)
	f.voucherGW.On("CreateVoucher", mock.Anything, mock.MatchedBy(func(req gateway.CreateVoucherRequest) bool {
		return req.AmountInCents == 9900
	})).Return(&gateway.Voucher{ProviderTxnID: "pi_3", Reference: "930011112222", ExpiresAt: expires}, nil)
	f.orderRepo.On("Update", mock.Anything, mock.AnythingOfType("*order.Order")).Return(nil)

	result, err := f.uc.Execute(context.Background(), PurchaseAddonCommand{
		UserID: 1, AddonID: 3, Method: "OXXO",
	})
	require.NoError(t, err)

	assert.Equal(t, "930011112222", result.Reference)
	f.orderRepo.AssertCalled(t, "Create", mock.Anything, mock.MatchedBy(func(o *order.Order) bool {
		return o.IsAddon() && *o.AddonID() == 3
	}))
}

func TestPurchaseAddon_RequiresActiveSubscription(t *testing.T) {
	f := newAddonFixture()
	f.userRepo.On("GetByID", mock.Anything, uint(1)).Return(testUser(t, 1), nil)
	f.subRepo.On("GetActiveByUserID", mock.Anything, uint(1)).Return(nil, subscription.ErrNoActiveSubscription)

	_, err := f.uc.Execute(context.Background(), PurchaseAddonCommand{
		UserID: 1, AddonID: 3, Method: "OXXO",
	})
	require.Error(t, err)
	assert.True(t, apperrors.IsPreconditionError(err))
	f.voucherGW.AssertNotCalled(t, "CreateVoucher", mock.Anything, mock.Anything)
}

func TestPurchaseAddon_InactiveProductRejected(t *testing.T) {
	f := newAddonFixture()
	now := time.Now().UTC()
	inactive := plan.ReconstructAddonProduct(3, "retired", 50, 9900, "MXN", false, now, now)

	f.userRepo.On("GetByID", mock.Anything, uint(1)).Return(testUser(t, 1), nil)
	f.subRepo.On("GetActiveByUserID", mock.Anything, uint(1)).Return(activeSubscription(5, 1, 10, 7), nil)
	f.addonRepo.On("GetByID", mock.Anything, uint(3)).Return(inactive, nil)

	_, err := f.uc.Execute(context.Background(), PurchaseAddonCommand{
		UserID: 1, AddonID: 3, Method: "OXXO",
	})
	require.Error(t, err)
	assert.True(t, apperrors.IsValidationError(err))
}
