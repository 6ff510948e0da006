package models

import "time"

// SubscriptionStatus is the server-reported billing state of a plan purchase.
type SubscriptionStatus string

const (
	SubscriptionActive    SubscriptionStatus = "ACTIVE"
	SubscriptionExpired   SubscriptionStatus = "EXPIRED"
	SubscriptionCancelled SubscriptionStatus = "CANCELLED"
	SubscriptionPending   SubscriptionStatus = "PENDING"
)

// Plan describes the purchased plan as echoed by the server.
type Plan struct {
	Name         string `json:"name"`
	Price        int64  `json:"price"`
	DurationDays int    `json:"durationDays"`
}

// Subscription is a standing plan purchase with a validity window.
type Subscription struct {
	ID       string             `json:"id"`
	Status   SubscriptionStatus `json:"status"`
	StartsAt *time.Time         `json:"startsAt,omitempty"`
	EndsAt   *time.Time         `json:"endsAt,omitempty"`
	Plan     Plan               `json:"plan"`
}

// IsActive reports whether the subscription currently grants access:
// status ACTIVE and either no end date or an end date in the future.
// StartsAt is intentionally not compared against now; an ACTIVE
// subscription with a future start date counts as active.
func (s *Subscription) IsActive(now time.Time) bool {
	if s == nil {
		return false
	}
	if s.Status != SubscriptionActive {
		return false
	}
	return s.EndsAt == nil || s.EndsAt.After(now)
}
