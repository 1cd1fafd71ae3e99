package plan

import (
	"fmt"
	"time"

	"github.com/bajabeat/descargas/internal/domain/quota"
	"github.com/bajabeat/descargas/internal/shared/biztime"
)

// AddonProduct is a one-off extra-storage purchase. Unlike a plan it does
// not recur; its allowance stacks onto the buyer's add-on account.
type AddonProduct struct {
	id           uint
	name         string
	gigas        int64
	priceInCents int64
	currency     string
	active       bool
	createdAt    time.Time
	updatedAt    time.Time
}

func NewAddonProduct(name string, gigas, priceInCents int64, currency string) (*AddonProduct, error) {
	if name == "" {
		return nil, fmt.Errorf("addon product name is required")
	}
	if gigas <= 0 {
		return nil, fmt.Errorf("addon storage must be positive: %d", gigas)
	}
	if priceInCents <= 0 {
		return nil, fmt.Errorf("addon price must be positive: %d", priceInCents)
	}
	if currency == "" {
		currency = "MXN"
	}
	now := biztime.NowUTC()
	return &AddonProduct{
		name:         name,
		gigas:        gigas,
		priceInCents: priceInCents,
		currency:     currency,
		active:       true,
		createdAt:    now,
		updatedAt:    now,
	}, nil
}

func ReconstructAddonProduct(
	id uint,
	name string,
	gigas, priceInCents int64,
	currency string,
	active bool,
	createdAt, updatedAt time.Time,
) *AddonProduct {
	return &AddonProduct{
		id:           id,
		name:         name,
		gigas:        gigas,
		priceInCents: priceInCents,
		currency:     currency,
		active:       active,
		createdAt:    createdAt,
		updatedAt:    updatedAt,
	}
}

func (a *AddonProduct) ID() uint            { return a.id }
func (a *AddonProduct) Name() string        { return a.name }
func (a *AddonProduct) Gigas() int64        { return a.gigas }
func (a *AddonProduct) PriceInCents() int64 { return a.priceInCents }
func (a *AddonProduct) Currency() string    { return a.currency }
func (a *AddonProduct) IsActive() bool      { return a.active }
func (a *AddonProduct) CreatedAt() time.Time { return a.createdAt }
func (a *AddonProduct) UpdatedAt() time.Time { return a.updatedAt }

// BytesAllowance is the extra download allowance this product grants.
func (a *AddonProduct) BytesAllowance() int64 {
	return quota.GBToBytes(a.gigas)
}
