package models

import (
	"fmt"
	"strings"
	"time"
)

const (
	ProviderHelio = "helio"

	StatusActive = "active"
)

const (
	PlanMonthly = "monthly"
	PlanYearly  = "yearly"
)

// MembershipRecord is the single persisted entity: one record per identity,
// overwritten on every successful payment notification. Timestamps are kept
// as RFC3339 strings so a corrupted expiry can be detected at read time.
type MembershipRecord struct {
	IdentityKey string  `json:"identity_key"`
	Email       string  `json:"email,omitempty"`
	Wallet      string  `json:"wallet,omitempty"`
	Plan        string  `json:"plan"`
	Amount      float64 `json:"amount"`
	Currency    string  `json:"currency"`
	TxHash      string  `json:"tx_hash,omitempty"`
	Provider    string  `json:"provider"`
	Status      string  `json:"status"`
	StartedAt   string  `json:"started_at"`
	ExpiresAt   string  `json:"expires_at"`
}

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func NormalizeWallet(wallet string) string {
	return strings.TrimSpace(wallet)
}

func ValidPlan(plan string) bool {
	return plan == PlanMonthly || plan == PlanYearly
}

// IdentityKey derives the storage key for a normalized email/wallet pair.
// Email is authoritative when both are present. Wallets keep their original
// casing in the record but the key is lower-cased so lookups are
// case-insensitive.
func IdentityKey(email, wallet string) (string, bool) {
	if email != "" {
		return "email:" + email, true
	}
	if wallet != "" {
		return "wallet:" + strings.ToLower(wallet), true
	}
	return "", false
}

// ExpiryFrom advances started by one calendar month or year. AddDate follows
// Go's rollover convention for short months (Jan 31 + 1 month = Mar 2/3).
func ExpiryFrom(started time.Time, plan string) (time.Time, error) {
	switch plan {
	case PlanMonthly:
		return started.AddDate(0, 1, 0), nil
	case PlanYearly:
		return started.AddDate(1, 0, 0), nil
	default:
		return time.Time{}, fmt.Errorf("unknown plan %q", plan)
	}
}

// Active reports whether the record's expiry is strictly in the future.
// An unparsable expiry counts as inactive.
func (r *MembershipRecord) Active(now time.Time) bool {
	expires, err := time.Parse(time.RFC3339, r.ExpiresAt)
	if err != nil {
		return false
	}
	return expires.After(now)
}
