package user

import "errors"

// ErrUserNotFound indicates the user does not exist.
var ErrUserNotFound = errors.New("user not found")
