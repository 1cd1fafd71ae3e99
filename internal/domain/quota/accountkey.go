package quota

import (
	"fmt"
	"regexp"
	"strings"
)

// AddonSuffix is appended to a base FTP account name to derive the
// account that holds purchased add-on storage.
const AddonSuffix = "ext"

var accountKeyPattern = regexp.MustCompile(`^[a-z0-9][a-z0-9._-]{0,63}$`)

// AccountKey identifies an FTP account by name. The name is the join key
// across the ftpuser, ftpquotalimits and ftpquotatallies tables, so a typo
// silently orphans quota rows. Construct keys through NewAccountKey to keep
// them validated.
type AccountKey struct {
	value string
}

// NewAccountKey validates and returns an account key.
func NewAccountKey(value string) (AccountKey, error) {
	normalized := strings.ToLower(strings.TrimSpace(value))
	if normalized == "" {
		return AccountKey{}, fmt.Errorf("account key cannot be empty")
	}
	if !accountKeyPattern.MatchString(normalized) {
		return AccountKey{}, fmt.Errorf("invalid account key: %s", value)
	}
	return AccountKey{value: normalized}, nil
}

// MustAccountKey panics on invalid input. Only for constants and tests.
func MustAccountKey(value string) AccountKey {
	key, err := NewAccountKey(value)
	if err != nil {
		panic(err)
	}
	return key
}

// Addon derives the key of the add-on storage account for this base account.
func (k AccountKey) Addon() AccountKey {
	if k.IsAddon() {
		return k
	}
	return AccountKey{value: k.value + "-" + AddonSuffix}
}

// IsAddon reports whether the key names an add-on storage account.
func (k AccountKey) IsAddon() bool {
	return strings.HasSuffix(k.value, "-"+AddonSuffix)
}

// Base returns the base account key, stripping the add-on suffix if present.
func (k AccountKey) Base() AccountKey {
	if !k.IsAddon() {
		return k
	}
	return AccountKey{value: strings.TrimSuffix(k.value, "-"+AddonSuffix)}
}

func (k AccountKey) String() string {
	return k.value
}

func (k AccountKey) IsZero() bool {
	return k.value == ""
}

func (k AccountKey) Equals(other AccountKey) bool {
	return k.value == other.value
}
