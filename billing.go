package forgeseal

import (
	"context"
)

// Billing usage thresholds, as fractions of included minutes.
const (
	// billingWarningRatio marks an account as near exhaustion.
	billingWarningRatio = 0.8
	// billingExhaustedRatio marks an account as effectively unusable for
	// further workflow runs.
	billingExhaustedRatio = 0.95
)

// BillingUsage is an account's Actions minutes usage for the current
// billing cycle.
type BillingUsage struct {
	Login           string
	MinutesUsed     float64
	IncludedMinutes float64
}

// Remaining returns the included minutes not yet used. Never negative.
func (b *BillingUsage) Remaining() float64 {
	remaining := b.IncludedMinutes - b.MinutesUsed
	if remaining < 0 {
		return 0
	}
	return remaining
}

// Exhausted reports whether the account has effectively used up its
// included minutes.
func (b *BillingUsage) Exhausted() bool {
	if b.IncludedMinutes <= 0 {
		return false
	}
	return b.MinutesUsed >= b.IncludedMinutes*billingExhaustedRatio
}

// Warning reports whether the account is close enough to exhaustion that
// rotation should be prepared.
func (b *BillingUsage) Warning() bool {
	if b.IncludedMinutes <= 0 {
		return false
	}
	return b.MinutesUsed >= b.IncludedMinutes*billingWarningRatio
}

// ActionsBilling fetches the Actions usage for the authenticated account.
func (c *Client) ActionsBilling(ctx context.Context) (*BillingUsage, error) {
	billing, err := c.apiClient.GetActionsBilling(ctx, c.login)
	if err != nil {
		return nil, wrapError(err)
	}
	return &BillingUsage{
		Login:           c.login,
		MinutesUsed:     billing.TotalMinutesUsed,
		IncludedMinutes: billing.IncludedMinutes,
	}, nil
}
