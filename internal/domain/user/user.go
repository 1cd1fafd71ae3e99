package user

import (
	"fmt"
	"strings"
	"time"

	"github.com/bajabeat/descargas/internal/domain/quota"
	"github.com/bajabeat/descargas/internal/shared/biztime"
)

// User is the billing-facing slice of a customer account: identity, the
// FTP account the customer downloads with, contact phone for trial abuse
// checks, and provider customer references.
type User struct {
	id             uint
	email          string
	phone          string
	accountKey     quota.AccountKey
	trialUsedAt    *time.Time
	cardCustomerRef *string
	createdAt      time.Time
	updatedAt      time.Time
}

func NewUser(email, phone string, accountKey quota.AccountKey) (*User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, fmt.Errorf("invalid email: %s", email)
	}
	if accountKey.IsZero() {
		return nil, fmt.Errorf("account key is required")
	}
	now := biztime.NowUTC()
	return &User{
		email:      email,
		phone:      NormalizePhone(phone),
		accountKey: accountKey,
		createdAt:  now,
		updatedAt:  now,
	}, nil
}

// ReconstructUser rebuilds a user from persistence.
func ReconstructUser(
	id uint,
	email, phone string,
	accountKey quota.AccountKey,
	trialUsedAt *time.Time,
	cardCustomerRef *string,
	createdAt, updatedAt time.Time,
) *User {
	return &User{
		id:              id,
		email:           email,
		phone:           phone,
		accountKey:      accountKey,
		trialUsedAt:     trialUsedAt,
		cardCustomerRef: cardCustomerRef,
		createdAt:       createdAt,
		updatedAt:       updatedAt,
	}
}

func (u *User) ID() uint                      { return u.id }
func (u *User) Email() string                 { return u.email }
func (u *User) Phone() string                 { return u.phone }
func (u *User) AccountKey() quota.AccountKey  { return u.accountKey }
func (u *User) TrialUsedAt() *time.Time  { return u.trialUsedAt }
func (u *User) CardCustomerRef() *string { return u.cardCustomerRef }
func (u *User) CreatedAt() time.Time     { return u.createdAt }
func (u *User) UpdatedAt() time.Time     { return u.updatedAt }

func (u *User) HasUsedTrial() bool {
	return u.trialUsedAt != nil
}

func (u *User) HasPhone() bool {
	return u.phone != ""
}

// MarkTrialUsed stamps the trial consumption moment. The first stamp wins.
func (u *User) MarkTrialUsed() {
	if u.trialUsedAt != nil {
		return
	}
	now := biztime.NowUTC()
	u.trialUsedAt = &now
	u.updatedAt = now
}

// RememberCardCustomerRef memoizes the card provider customer.
func (u *User) RememberCardCustomerRef(ref string) error {
	if ref == "" {
		return fmt.Errorf("card customer ref is required")
	}
	u.cardCustomerRef = &ref
	u.updatedAt = biztime.NowUTC()
	return nil
}

// NormalizePhone strips formatting so the same number always compares
// equal. Digits and a leading plus survive, everything else is dropped.
func NormalizePhone(phone string) string {
	var b strings.Builder
	for i, r := range phone {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
			continue
		}
		if r == '+' && i == 0 {
			b.WriteRune(r)
		}
	}
	return b.String()
}
