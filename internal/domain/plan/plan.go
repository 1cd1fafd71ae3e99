package plan

import (
	"fmt"
	"time"

	"github.com/bajabeat/descargas/internal/domain/quota"
	"github.com/bajabeat/descargas/internal/shared/biztime"
)

// Plan is a sellable subscription tier. The same tier is sold on several
// providers, so provider references (card price, wallet plan) hang off the
// plan row and are provisioned lazily.
type Plan struct {
	id              uint
	name            string
	gigas           int64
	priceInCents    int64
	currency        string
	durationDays    int
	active          bool
	cardPriceRef    *string
	cardProductRef  *string
	walletPlanID    *string
	walletProductID *string
	createdAt       time.Time
	updatedAt       time.Time
}

// NewPlan creates a sellable plan.
func NewPlan(name string, gigas, priceInCents int64, currency string, durationDays int) (*Plan, error) {
	if name == "" {
		return nil, fmt.Errorf("plan name is required")
	}
	if gigas <= 0 {
		return nil, fmt.Errorf("plan storage must be positive: %d", gigas)
	}
	if priceInCents <= 0 {
		return nil, fmt.Errorf("plan price must be positive: %d", priceInCents)
	}
	if durationDays <= 0 {
		return nil, fmt.Errorf("plan duration must be positive: %d", durationDays)
	}
	if currency == "" {
		currency = "MXN"
	}
	now := biztime.NowUTC()
	return &Plan{
		name:         name,
		gigas:        gigas,
		priceInCents: priceInCents,
		currency:     currency,
		durationDays: durationDays,
		active:       true,
		createdAt:    now,
		updatedAt:    now,
	}, nil
}

// ReconstructPlan rebuilds a plan from persistence.
func ReconstructPlan(
	id uint,
	name string,
	gigas, priceInCents int64,
	currency string,
	durationDays int,
	active bool,
	cardPriceRef, cardProductRef, walletPlanID, walletProductID *string,
	createdAt, updatedAt time.Time,
) *Plan {
	return &Plan{
		id:              id,
		name:            name,
		gigas:           gigas,
		priceInCents:    priceInCents,
		currency:        currency,
		durationDays:    durationDays,
		active:          active,
		cardPriceRef:    cardPriceRef,
		cardProductRef:  cardProductRef,
		walletPlanID:    walletPlanID,
		walletProductID: walletProductID,
		createdAt:       createdAt,
		updatedAt:       updatedAt,
	}
}

func (p *Plan) ID() uint                 { return p.id }
func (p *Plan) Name() string             { return p.name }
func (p *Plan) Gigas() int64             { return p.gigas }
func (p *Plan) PriceInCents() int64      { return p.priceInCents }
func (p *Plan) Currency() string         { return p.currency }
func (p *Plan) DurationDays() int        { return p.durationDays }
func (p *Plan) IsActive() bool           { return p.active }
func (p *Plan) CardPriceRef() *string    { return p.cardPriceRef }
func (p *Plan) CardProductRef() *string  { return p.cardProductRef }
func (p *Plan) WalletPlanID() *string    { return p.walletPlanID }
func (p *Plan) WalletProductID() *string { return p.walletProductID }
func (p *Plan) CreatedAt() time.Time     { return p.createdAt }
func (p *Plan) UpdatedAt() time.Time     { return p.updatedAt }

// BytesAllowance is the download allowance this plan grants.
func (p *Plan) BytesAllowance() int64 {
	return quota.GBToBytes(p.gigas)
}

// RememberCardPriceRef memoizes a lazily provisioned card price so the
// provider is only asked to create it once per plan and price key.
func (p *Plan) RememberCardPriceRef(priceRef, productRef string) error {
	if priceRef == "" || productRef == "" {
		return fmt.Errorf("card price and product refs are required")
	}
	p.cardPriceRef = &priceRef
	p.cardProductRef = &productRef
	p.updatedAt = biztime.NowUTC()
	return nil
}

// SharesWalletProduct reports whether both plans bill under the same
// wallet product, which is what makes an in-place wallet revision possible.
func (p *Plan) SharesWalletProduct(other *Plan) bool {
	if p.walletProductID == nil || other == nil || other.walletProductID == nil {
		return false
	}
	return *p.walletProductID == *other.walletProductID
}

// HasWalletPlan reports whether the plan can be sold on the wallet provider.
func (p *Plan) HasWalletPlan() bool {
	return p.walletPlanID != nil && *p.walletPlanID != ""
}

// Deactivate retires the plan from sale without touching existing holders.
func (p *Plan) Deactivate() {
	p.active = false
	p.updatedAt = biztime.NowUTC()
}
