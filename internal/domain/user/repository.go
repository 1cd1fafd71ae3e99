package user

import "context"

type UserRepository interface {
	GetByID(ctx context.Context, id uint) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	// ListByPhone returns every user sharing the normalized phone number,
	// for trial abuse checks.
	ListByPhone(ctx context.Context, phone string) ([]*User, error)
	Update(ctx context.Context, user *User) error
}
