package models

// Profile is the authenticated user's snapshot, fetched as a whole and never
// partially mutated. The subscription and entitlement list drive client-side
// access decisions.
type Profile struct {
	UserID       string        `json:"userId"`
	Email        string        `json:"email"`
	Name         string        `json:"name"`
	Subscription *Subscription `json:"subscription,omitempty"`
	Entitlements []Entitlement `json:"entitlements,omitempty"`
}
