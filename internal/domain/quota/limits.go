package quota

import (
	"fmt"
	"time"
)

// Unlimited is the mod_quotatab sentinel: a limit column set to zero means
// the dimension is not enforced, not that the account has no allowance.
const Unlimited int64 = 0

// QuotaType is the mod_quotatab quota scope.
type QuotaType string

const (
	QuotaTypeUser  QuotaType = "user"
	QuotaTypeGroup QuotaType = "group"
	QuotaTypeClass QuotaType = "class"
	QuotaTypeAll   QuotaType = "all"
)

// LimitType controls how the daemon reacts when a tally reaches the limit.
type LimitType string

const (
	LimitTypeSoft LimitType = "soft"
	LimitTypeHard LimitType = "hard"
)

// BytesPerGB converts plan sizes to the byte granularity the daemon uses.
const BytesPerGB int64 = 1024 * 1024 * 1024

// GBToBytes converts a plan size in gigabytes to bytes.
func GBToBytes(gigas int64) int64 {
	return gigas * BytesPerGB
}

// Limits is the enforcement row the FTP daemon reads for an account. The
// download allowance lives in bytesOutAvail; the remaining columns are kept
// at their provisioning defaults and only matter because the daemon requires
// the full row to exist.
type Limits struct {
	id             uint
	name           AccountKey
	quotaType      QuotaType
	perSession     bool
	limitType      LimitType
	bytesInAvail   int64
	bytesOutAvail  int64
	bytesXferAvail int64
	filesInAvail   int64
	filesOutAvail  int64
	filesXferAvail int64
	updatedAt      time.Time
}

// NewLimits seeds an enforcement row for a newly provisioned account.
// bytesOut carries the granted download allowance; uploads are capped at one
// byte so the account is effectively read-only, and file counts other than
// filesInAvail stay at the unlimited sentinel.
func NewLimits(name AccountKey, bytesOut int64) (*Limits, error) {
	if name.IsZero() {
		return nil, fmt.Errorf("limits require an account key")
	}
	if bytesOut < 0 {
		return nil, fmt.Errorf("download allowance cannot be negative: %d", bytesOut)
	}
	return &Limits{
		name:           name,
		quotaType:      QuotaTypeUser,
		perSession:     false,
		limitType:      LimitTypeHard,
		bytesInAvail:   1,
		bytesOutAvail:  bytesOut,
		bytesXferAvail: Unlimited,
		filesInAvail:   1,
		filesOutAvail:  Unlimited,
		filesXferAvail: Unlimited,
		updatedAt:      time.Now().UTC(),
	}, nil
}

// ReconstructLimits rebuilds a limits row from persistence.
func ReconstructLimits(
	id uint,
	name AccountKey,
	quotaType QuotaType,
	perSession bool,
	limitType LimitType,
	bytesInAvail, bytesOutAvail, bytesXferAvail int64,
	filesInAvail, filesOutAvail, filesXferAvail int64,
	updatedAt time.Time,
) *Limits {
	return &Limits{
		id:             id,
		name:           name,
		quotaType:      quotaType,
		perSession:     perSession,
		limitType:      limitType,
		bytesInAvail:   bytesInAvail,
		bytesOutAvail:  bytesOutAvail,
		bytesXferAvail: bytesXferAvail,
		filesInAvail:   filesInAvail,
		filesOutAvail:  filesOutAvail,
		filesXferAvail: filesXferAvail,
		updatedAt:      updatedAt,
	}
}

func (l *Limits) ID() uint              { return l.id }
func (l *Limits) Name() AccountKey      { return l.name }
func (l *Limits) QuotaType() QuotaType  { return l.quotaType }
func (l *Limits) PerSession() bool      { return l.perSession }
func (l *Limits) LimitType() LimitType  { return l.limitType }
func (l *Limits) BytesInAvail() int64   { return l.bytesInAvail }
func (l *Limits) BytesOutAvail() int64  { return l.bytesOutAvail }
func (l *Limits) BytesXferAvail() int64 { return l.bytesXferAvail }
func (l *Limits) FilesInAvail() int64   { return l.filesInAvail }
func (l *Limits) FilesOutAvail() int64  { return l.filesOutAvail }
func (l *Limits) FilesXferAvail() int64 { return l.filesXferAvail }
func (l *Limits) UpdatedAt() time.Time  { return l.updatedAt }

// IsUnlimitedBytesOut reports whether the download dimension is unenforced.
func (l *Limits) IsUnlimitedBytesOut() bool {
	return l.bytesOutAvail == Unlimited
}

// IncreaseBytesOut adds a granted allowance on top of the current one.
// Renewals and add-on purchases go through here so repeated grants stack
// instead of clobbering each other. An unlimited row stays unlimited.
func (l *Limits) IncreaseBytesOut(delta int64) error {
	if delta <= 0 {
		return fmt.Errorf("allowance increase must be positive: %d", delta)
	}
	if l.IsUnlimitedBytesOut() {
		return nil
	}
	l.bytesOutAvail += delta
	l.updatedAt = time.Now().UTC()
	return nil
}

// SetBytesOutAvail replaces the download allowance with an absolute value.
// Only the plan change path uses this; everything else increments.
func (l *Limits) SetBytesOutAvail(bytesOut int64) error {
	if bytesOut < 0 {
		return fmt.Errorf("download allowance cannot be negative: %d", bytesOut)
	}
	l.bytesOutAvail = bytesOut
	l.updatedAt = time.Now().UTC()
	return nil
}

// SetID writes back the persistence-generated ID after insert.
func (l *Limits) SetID(id uint) {
	l.id = id
}
