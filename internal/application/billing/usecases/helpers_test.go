package usecases

import (
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/bajabeat/descargas/internal/domain/order"
	vo "github.com/bajabeat/descargas/internal/domain/order/valueobjects"
	"github.com/bajabeat/descargas/internal/domain/plan"
	"github.com/bajabeat/descargas/internal/domain/quota"
	"github.com/bajabeat/descargas/internal/domain/subscription"
	"github.com/bajabeat/descargas/internal/domain/user"
	"github.com/bajabeat/descargas/internal/shared/logger"
)

func testLogger() logger.Interface {
	return logger.NewLoggerWithSlog(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func strPtr(s string) *string { return &s }

func uintPtr(u uint) *uint { return &u }

func timePtr(t time.Time) *time.Time { return &t }

func testAccountKey() quota.AccountKey {
	return quota.MustAccountKey("client42")
}

func testUser(t *testing.T, id uint) *user.User {
	t.Helper()
	now := time.Now().UTC()
	return user.ReconstructUser(id, "client@example.com", "+525512345678",
		testAccountKey(), nil, nil, now, now)
}

func testPlan(id uint, gigas int64) *plan.Plan {
	now := time.Now().UTC()
	return plan.ReconstructPlan(id, "plan", gigas, 19900, "MXN", 30, true,
		nil, nil, nil, nil, now, now)
}

func testPlanWithRefs(id uint, gigas int64, cardPriceRef, walletPlanID, walletProductID *string) *plan.Plan {
	now := time.Now().UTC()
	var productRef *string
	if cardPriceRef != nil {
		productRef = strPtr("prod_x")
	}
	return plan.ReconstructPlan(id, "plan", gigas, 19900, "MXN", 30, true,
		cardPriceRef, productRef, walletPlanID, walletProductID, now, now)
}

func pendingOrder(id, userID, planID uint, method vo.PaymentMethod) *order.Order {
	now := time.Now().UTC()
	return order.ReconstructOrder(id, "ord_test", userID, uintPtr(planID), nil,
		vo.OrderStatusPending, method, vo.NewMoney(19900, "MXN"), false,
		nil, nil, nil, nil, nil, nil, 0, now, now)
}

func paidOrder(id, userID, planID uint, method vo.PaymentMethod, providerSubID *string) *order.Order {
	now := time.Now().UTC()
	return order.ReconstructOrder(id, "ord_test", userID, uintPtr(planID), nil,
		vo.OrderStatusPaid, method, vo.NewMoney(19900, "MXN"), false,
		strPtr("txn_1"), providerSubID, nil, nil, timePtr(now), nil, 1, now, now)
}

func pendingAddonOrder(id, userID, addonID uint, method vo.PaymentMethod) *order.Order {
	now := time.Now().UTC()
	return order.ReconstructOrder(id, "ord_test", userID, nil, uintPtr(addonID),
		vo.OrderStatusPending, method, vo.NewMoney(9900, "MXN"), false,
		nil, nil, nil, nil, nil, nil, 0, now, now)
}

func activeSubscription(id, userID, orderID, planID uint) *subscription.Subscription {
	now := time.Now().UTC()
	return subscription.ReconstructSubscription(id, userID, orderID, planID,
		testAccountKey(), now.AddDate(0, 0, -5), now.AddDate(0, 0, 25), nil, 1, now, now)
}

func testLimits(t *testing.T, key quota.AccountKey, bytesOut int64) *quota.Limits {
	t.Helper()
	limits, err := quota.NewLimits(key, bytesOut)
	if err != nil {
		t.Fatal(err)
	}
	return limits
}
