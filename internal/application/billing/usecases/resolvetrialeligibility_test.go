package usecases

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/bajabeat/descargas/internal/domain/user"
)

func eligibilityUC(orderRepo *mockOrderRepo, userRepo *mockUserRepo, enabled bool) *ResolveTrialEligibilityUseCase {
	return NewResolveTrialEligibilityUseCase(orderRepo, userRepo, enabled, testLogger())
}

func userWithTrial(id uint, phone string, trialUsed bool) *user.User {
	now := time.Now().UTC()
	var trialAt *time.Time
	if trialUsed {
		trialAt = timePtr(now.AddDate(0, -1, 0))
	}
	return user.ReconstructUser(id, "client@example.com", phone, testAccountKey(), trialAt, nil, now, now)
}

func TestTrialEligibility_Eligible(t *testing.T) {
	orderRepo, userRepo := new(mockOrderRepo), new(mockUserRepo)
	usr := userWithTrial(1, "+525512345678", false)

	userRepo.On("GetByID", mock.Anything, uint(1)).Return(usr, nil)
	orderRepo.On("ExistsPaidByUserIDs", mock.Anything, []uint{1}).Return(false, nil)
	userRepo.On("ListByPhone", mock.Anything, "+525512345678").Return([]*user.User{usr}, nil)

	result, err := eligibilityUC(orderRepo, userRepo, true).Execute(context.Background(),
		ResolveTrialEligibilityCommand{UserID: 1})
	require.NoError(t, err)
	assert.True(t, result.Eligible)
	assert.Empty(t, result.Reason)
}

func TestTrialEligibility_ReasonOrdering(t *testing.T) {
	tests := []struct {
		name   string
		setup  func(orderRepo *mockOrderRepo, userRepo *mockUserRepo)
		reason IneligibilityReason
	}{
		{
			name:   "disabled wins before anything else",
			setup:  func(orderRepo *mockOrderRepo, userRepo *mockUserRepo) {},
			reason: ReasonTrialDisabled,
		},
		{
			name: "unknown user",
			setup: func(orderRepo *mockOrderRepo, userRepo *mockUserRepo) {
				userRepo.On("GetByID", mock.Anything, uint(1)).Return(nil, user.ErrUserNotFound)
			},
			reason: ReasonUserNotFound,
		},
		{
			name: "own trial already used",
			setup: func(orderRepo *mockOrderRepo, userRepo *mockUserRepo) {
				userRepo.On("GetByID", mock.Anything, uint(1)).Return(userWithTrial(1, "", true), nil)
			},
			reason: ReasonTrialAlreadyUsed,
		},
		{
			name: "own paid order",
			setup: func(orderRepo *mockOrderRepo, userRepo *mockUserRepo) {
				userRepo.On("GetByID", mock.Anything, uint(1)).Return(userWithTrial(1, "", false), nil)
				orderRepo.On("ExistsPaidByUserIDs", mock.Anything, []uint{1}).Return(true, nil)
			},
			reason: ReasonHasPaidOrder,
		},
		{
			name: "shared phone trial history",
			setup: func(orderRepo *mockOrderRepo, userRepo *mockUserRepo) {
				usr := userWithTrial(1, "+525512345678", false)
				other := userWithTrial(2, "+525512345678", true)
				userRepo.On("GetByID", mock.Anything, uint(1)).Return(usr, nil)
				orderRepo.On("ExistsPaidByUserIDs", mock.Anything, []uint{1}).Return(false, nil)
				userRepo.On("ListByPhone", mock.Anything, "+525512345678").Return([]*user.User{usr, other}, nil)
			},
			reason: ReasonSharedPhoneTrialHistory,
		},
		{
			name: "shared phone paid history",
			setup: func(orderRepo *mockOrderRepo, userRepo *mockUserRepo) {
				usr := userWithTrial(1, "+525512345678", false)
				other := userWithTrial(2, "+525512345678", false)
				userRepo.On("GetByID", mock.Anything, uint(1)).Return(usr, nil)
				orderRepo.On("ExistsPaidByUserIDs", mock.Anything, []uint{1}).Return(false, nil)
				userRepo.On("ListByPhone", mock.Anything, "+525512345678").Return([]*user.User{usr, other}, nil)
				orderRepo.On("ExistsPaidByUserIDs", mock.Anything, []uint{2}).Return(true, nil)
			},
			reason: ReasonSharedPhonePaidHistory,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			orderRepo, userRepo := new(mockOrderRepo), new(mockUserRepo)
			tt.setup(orderRepo, userRepo)

			enabled := tt.reason != ReasonTrialDisabled
			result, err := eligibilityUC(orderRepo, userRepo, enabled).Execute(context.Background(),
				ResolveTrialEligibilityCommand{UserID: 1})
			require.NoError(t, err)
			assert.False(t, result.Eligible)
			assert.Equal(t, tt.reason, result.Reason)
		})
	}
}

// The reason codes are a wire contract; clients branch on the literal
// strings, so renaming a constant's value is a breaking change.
func TestTrialEligibility_ReasonCodeValues(t *testing.T) {
	assert.Equal(t, IneligibilityReason("trial_disabled"), ReasonTrialDisabled)
	assert.Equal(t, IneligibilityReason("user_not_found"), ReasonUserNotFound)
	assert.Equal(t, IneligibilityReason("trial_used_at"), ReasonTrialAlreadyUsed)
	assert.Equal(t, IneligibilityReason("has_paid_order"), ReasonHasPaidOrder)
	assert.Equal(t, IneligibilityReason("shared_phone_trial_history"), ReasonSharedPhoneTrialHistory)
	assert.Equal(t, IneligibilityReason("shared_phone_paid_history"), ReasonSharedPhonePaidHistory)
}

// A flaky phone lookup must not block a legitimate signup.
func TestTrialEligibility_PhoneLookupFailsOpen(t *testing.T) {
	orderRepo, userRepo := new(mockOrderRepo), new(mockUserRepo)
	usr := userWithTrial(1, "+525512345678", false)

	userRepo.On("GetByID", mock.Anything, uint(1)).Return(usr, nil)
	orderRepo.On("ExistsPaidByUserIDs", mock.Anything, []uint{1}).Return(false, nil)
	userRepo.On("ListByPhone", mock.Anything, "+525512345678").Return(nil, errors.New("index offline"))

	result, err := eligibilityUC(orderRepo, userRepo, true).Execute(context.Background(),
		ResolveTrialEligibilityCommand{UserID: 1})
	require.NoError(t, err)
	assert.True(t, result.Eligible)
}

func TestTrialEligibility_NoPhoneSkipsPhoneChecks(t *testing.T) {
	orderRepo, userRepo := new(mockOrderRepo), new(mockUserRepo)
	usr := userWithTrial(1, "", false)

	userRepo.On("GetByID", mock.Anything, uint(1)).Return(usr, nil)
	orderRepo.On("ExistsPaidByUserIDs", mock.Anything, []uint{1}).Return(false, nil)

	result, err := eligibilityUC(orderRepo, userRepo, true).Execute(context.Background(),
		ResolveTrialEligibilityCommand{UserID: 1})
	require.NoError(t, err)
	assert.True(t, result.Eligible)
	userRepo.AssertNotCalled(t, "ListByPhone", mock.Anything, mock.Anything)
}

// The same inputs always produce the same verdict.
func TestTrialEligibility_Deterministic(t *testing.T) {
	for i := 0; i < 3; i++ {
		orderRepo, userRepo := new(mockOrderRepo), new(mockUserRepo)
		usr := userWithTrial(1, "", false)
		userRepo.On("GetByID", mock.Anything, uint(1)).Return(usr, nil)
		orderRepo.On("ExistsPaidByUserIDs", mock.Anything, []uint{1}).Return(true, nil)

		result, err := eligibilityUC(orderRepo, userRepo, true).Execute(context.Background(),
			ResolveTrialEligibilityCommand{UserID: 1})
		require.NoError(t, err)
		assert.Equal(t, ReasonHasPaidOrder, result.Reason)
	}
}
