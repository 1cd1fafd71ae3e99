package dto

import "time"

// AccountQuota is one FTP account's view of allowance versus usage.
type AccountQuota struct {
	Account        string `json:"account"`
	BytesAvailable int64  `json:"bytes_available"`
	BytesUsed      int64  `json:"bytes_used"`
	BytesRemaining int64  `json:"bytes_remaining"`
	// Unlimited marks the zero-sentinel case, where the daemon does not
	// enforce the download dimension at all.
	Unlimited bool `json:"unlimited"`
}

// QuotaSnapshot is what the customer-facing dashboard renders: the base
// plan account, the derived add-on account when it exists, and the
// subscription the allowance hangs off.
type QuotaSnapshot struct {
	UserID      uint          `json:"user_id"`
	PlanID      uint          `json:"plan_id,omitempty"`
	PlanName    string        `json:"plan_name,omitempty"`
	PeriodEnd   *time.Time    `json:"period_end,omitempty"`
	Canceled    bool          `json:"canceled"`
	Base        *AccountQuota `json:"base,omitempty"`
	Addon       *AccountQuota `json:"addon,omitempty"`
	GeneratedAt time.Time     `json:"generated_at"`
}
