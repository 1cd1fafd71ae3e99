package subscription

import (
	"testing"
	"time"

	"github.com/bajabeat/descargas/internal/domain/quota"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func activeSub(t *testing.T, periodEnd time.Time) *Subscription {
	t.Helper()
	s, err := NewSubscription(1, 10, 7, quota.MustAccountKey("client42"), periodEnd)
	require.NoError(t, err)
	return s
}

func TestNewSubscription(t *testing.T) {
	end := time.Now().UTC().Add(30 * 24 * time.Hour)
	s := activeSub(t, end)

	assert.True(t, s.IsActive(time.Now().UTC()))
	assert.False(t, s.IsCanceled())
	assert.Equal(t, uint(10), s.OrderID())
	assert.Equal(t, uint(7), s.PlanID())
}

func TestNewSubscription_PastPeriodEnd(t *testing.T) {
	_, err := NewSubscription(1, 10, 7, quota.MustAccountKey("client42"), time.Now().UTC().Add(-time.Hour))
	require.Error(t, err)
}

func TestRenewExtendsFromPeriodEnd(t *testing.T) {
	end := time.Now().UTC().Add(10 * 24 * time.Hour)
	s := activeSub(t, end)

	require.NoError(t, s.Renew(11, 30))
	assert.Equal(t, uint(11), s.OrderID())
	// Early renewal keeps the remaining days.
	assert.WithinDuration(t, end.AddDate(0, 0, 30), s.PeriodEnd(), time.Second)
}

func TestRenewExtendsFromNowWhenLapsed(t *testing.T) {
	now := time.Now().UTC()
	lapsedEnd := now.Add(-5 * 24 * time.Hour)
	s := ReconstructSubscription(1, 1, 10, 7, quota.MustAccountKey("client42"),
		now.Add(-35*24*time.Hour), lapsedEnd, nil, 0, now, now)

	require.NoError(t, s.Renew(11, 30))
	assert.WithinDuration(t, now.AddDate(0, 0, 30), s.PeriodEnd(), time.Minute)
}

func TestRenewClearsCancellation(t *testing.T) {
	s := activeSub(t, time.Now().UTC().Add(10*24*time.Hour))
	require.NoError(t, s.Cancel())
	require.True(t, s.IsCanceled())

	require.NoError(t, s.Renew(11, 30))
	assert.False(t, s.IsCanceled())
}

func TestRepointForPlanChange(t *testing.T) {
	end := time.Now().UTC().Add(10 * 24 * time.Hour)
	s := activeSub(t, end)

	require.NoError(t, s.RepointForPlanChange(20, 9))
	assert.Equal(t, uint(20), s.OrderID())
	assert.Equal(t, uint(9), s.PlanID())
	assert.Equal(t, end, s.PeriodEnd(), "plan change must not grant or remove time")
}

func TestCancelKeepsPeriod(t *testing.T) {
	end := time.Now().UTC().Add(10 * 24 * time.Hour)
	s := activeSub(t, end)

	require.NoError(t, s.Cancel())
	assert.True(t, s.IsCanceled())
	assert.Equal(t, end, s.PeriodEnd())
	assert.True(t, s.IsActive(time.Now().UTC()), "canceled subscription stays active until the paid period ends")

	// Repeated cancel keeps the original timestamp.
	first := *s.CanceledAt()
	require.NoError(t, s.Cancel())
	assert.Equal(t, first, *s.CanceledAt())
}
