package quota

import "errors"

var (
	// ErrLimitsNotFound indicates no enforcement row exists for the account.
	ErrLimitsNotFound = errors.New("quota limits not found")
	// ErrAccountNotFound indicates no FTP login row exists for the account.
	ErrAccountNotFound = errors.New("ftp account not found")
	// ErrTalliesNotFound indicates the daemon has no usage row for the account.
	ErrTalliesNotFound = errors.New("quota tallies not found")
)
