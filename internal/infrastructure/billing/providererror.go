package billing

import "fmt"

// providerError is a non-2xx answer from a payment provider API.
type providerError struct {
	provider   string
	statusCode int
	code       string
	message    string
}

func (e *providerError) Error() string {
	if e.message != "" {
		return fmt.Sprintf("%s provider returned %d (%s): %s", e.provider, e.statusCode, e.code, e.message)
	}
	return fmt.Sprintf("%s provider returned %d", e.provider, e.statusCode)
}

// alreadyCanceled matches the answers providers give when a cancellation
// is replayed against a subscription that is already gone.
func (e *providerError) alreadyCanceled() bool {
	switch e.code {
	case "resource_missing", "subscription_canceled", "SUBSCRIPTION_STATUS_INVALID":
		return true
	}
	return e.statusCode == 404
}
