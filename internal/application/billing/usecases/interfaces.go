package usecases

import (
	"context"
	"time"
)

// TxManager runs a function inside a database transaction carried on the
// context, so repositories called within share the same tx.
type TxManager interface {
	RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// PlanChangeLocker serializes plan changes per user. Acquire fails when
// another change for the same user is in flight.
type PlanChangeLocker interface {
	Acquire(ctx context.Context, userID uint, ttl time.Duration) (release func(), err error)
}

// AlertNotifier tells an operator about incidents that need manual
// reconciliation, such as a provider charge whose local bookkeeping failed.
type AlertNotifier interface {
	NotifyConsistencyRisk(ctx context.Context, subject, body string) error
}

// PasswordHasher hashes generated credentials for derived FTP accounts.
type PasswordHasher interface {
	Hash(plain string) (string, error)
}
