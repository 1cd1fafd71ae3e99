package valueobjects

import "fmt"

type PaymentMethod string

const (
	PaymentMethodStripe         PaymentMethod = "STRIPE"
	PaymentMethodPayPal         PaymentMethod = "PAYPAL"
	PaymentMethodOxxo           PaymentMethod = "OXXO"
	PaymentMethodSpei           PaymentMethod = "SPEI"
	PaymentMethodCash           PaymentMethod = "CASH"
	PaymentMethodStripePlanSwap PaymentMethod = "STRIPE_PLAN_CHANGE"
	PaymentMethodPayPalPlanSwap PaymentMethod = "PAYPAL_PLAN_CHANGE"
)

func NewPaymentMethod(method string) (PaymentMethod, error) {
	pm := PaymentMethod(method)
	if !pm.IsValid() {
		return "", fmt.Errorf("invalid payment method: %s", method)
	}
	return pm, nil
}

func (pm PaymentMethod) IsValid() bool {
	switch pm {
	case PaymentMethodStripe, PaymentMethodPayPal, PaymentMethodOxxo,
		PaymentMethodSpei, PaymentMethodCash,
		PaymentMethodStripePlanSwap, PaymentMethodPayPalPlanSwap:
		return true
	default:
		return false
	}
}

// IsRecurring returns true when the method bills on a provider-managed
// recurring subscription rather than a one-off charge.
func (pm PaymentMethod) IsRecurring() bool {
	switch pm {
	case PaymentMethodStripe, PaymentMethodPayPal,
		PaymentMethodStripePlanSwap, PaymentMethodPayPalPlanSwap:
		return true
	default:
		return false
	}
}

// IsVoucher returns true for cash-style methods that settle through a
// reference the customer pays at a store or by bank transfer.
func (pm PaymentMethod) IsVoucher() bool {
	switch pm {
	case PaymentMethodOxxo, PaymentMethodSpei, PaymentMethodCash:
		return true
	default:
		return false
	}
}

// IsPlanChange returns true for the synthetic methods used on orders
// cloned by the plan change flow.
func (pm PaymentMethod) IsPlanChange() bool {
	return pm == PaymentMethodStripePlanSwap || pm == PaymentMethodPayPalPlanSwap
}

// PlanChangeMethod returns the synthetic method that records a plan change
// settled on this method's provider.
func (pm PaymentMethod) PlanChangeMethod() (PaymentMethod, error) {
	switch pm {
	case PaymentMethodStripe, PaymentMethodStripePlanSwap:
		return PaymentMethodStripePlanSwap, nil
	case PaymentMethodPayPal, PaymentMethodPayPalPlanSwap:
		return PaymentMethodPayPalPlanSwap, nil
	default:
		return "", fmt.Errorf("payment method %s does not support plan changes", pm)
	}
}

func (pm PaymentMethod) String() string {
	return string(pm)
}
