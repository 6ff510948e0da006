// Package access decides, without any network I/O, whether the current user
// may open a given content item. It operates over an already-fetched snapshot
// of the user's subscription and entitlement grants.
package access

import (
	"time"

	"github.com/mpetrenko/studyport/internal/client/models"
)

// Reason explains a denied decision.
type Reason string

const (
	ReasonNoEntitlement  Reason = "NO_ENTITLEMENT"
	ReasonScopeMismatch  Reason = "SCOPE_MISMATCH"
	ReasonNoSubscription Reason = "NO_SUBSCRIPTION"
)

// Decision is the outcome of an access check. When Allowed is false, Reason
// carries a machine-readable denial cause. Checks never fail with an error.
type Decision struct {
	Allowed bool
	Reason  Reason
}

var granted = Decision{Allowed: true}

func denied(r Reason) Decision { return Decision{Reason: r} }

// Snapshot is the read-only entitlement state an access check runs against.
// It is owned by the auth service and refreshed wholesale, never mutated.
type Snapshot struct {
	Subscription *models.Subscription
	Entitlements []models.Entitlement
}

// eligible filters the snapshot's entitlements down to live grants of the
// requested kind (or ALL).
func (s Snapshot) eligible(kind models.EntitlementKind, now time.Time) []models.Entitlement {
	var out []models.Entitlement
	for _, e := range s.Entitlements {
		if e.Kind != kind && e.Kind != models.EntitlementAll {
			continue
		}
		if e.Revoked || e.Expired(now) {
			continue
		}
		out = append(out, e)
	}
	return out
}

// CanAccessNote decides access to a single note.
//
// Free notes are always allowed. Premium notes are allowed with an active
// subscription, otherwise the eligible NOTES/ALL grants are scanned in
// precedence order: unscoped grant, note-id match, subject match, topic-set
// intersection. No eligible grant at all yields NO_ENTITLEMENT; eligible
// grants whose scope excludes this note yield SCOPE_MISMATCH.
func CanAccessNote(snap Snapshot, note models.Note, now time.Time) Decision {
	if !note.IsPremium {
		return granted
	}
	if snap.Subscription.IsActive(now) {
		return granted
	}

	eligible := snap.eligible(models.EntitlementNotes, now)
	if len(eligible) == 0 {
		return denied(ReasonNoEntitlement)
	}

	for _, e := range eligible {
		if e.Unscoped() {
			return granted
		}
		if contains(e.NoteIDs, note.ID) {
			return granted
		}
		if contains(e.SubjectIDs, note.SubjectID) {
			return granted
		}
		if intersects(e.TopicIDs, note.TopicIDs) {
			return granted
		}
	}
	return denied(ReasonScopeMismatch)
}

// CanAccessPractice decides access to the practice area: active subscription
// or any live grant of kind ALL/PRACTICE.
func CanAccessPractice(snap Snapshot, now time.Time) Decision {
	return canAccessKind(snap, models.EntitlementPractice, now)
}

// CanAccessTests decides access to the test area: active subscription or any
// live grant of kind ALL/TESTS.
func CanAccessTests(snap Snapshot, now time.Time) Decision {
	return canAccessKind(snap, models.EntitlementTests, now)
}

func canAccessKind(snap Snapshot, kind models.EntitlementKind, now time.Time) Decision {
	if snap.Subscription.IsActive(now) {
		return granted
	}
	if len(snap.eligible(kind, now)) == 0 {
		return denied(ReasonNoEntitlement)
	}
	return granted
}

// PaywallReason refines a denial for display: when the user holds a
// subscription record that is simply not active (expired, cancelled,
// pending), NO_SUBSCRIPTION reads better on the paywall than the raw
// entitlement verdict.
func PaywallReason(snap Snapshot, d Decision, now time.Time) Reason {
	if d.Allowed {
		return ""
	}
	if d.Reason == ReasonNoEntitlement && snap.Subscription != nil && !snap.Subscription.IsActive(now) {
		return ReasonNoSubscription
	}
	return d.Reason
}

func contains(set []string, v string) bool {
	for _, s := range set {
		if s == v {
			return true
		}
	}
	return false
}

func intersects(a, b []string) bool {
	if len(a) == 0 || len(b) == 0 {
		return false
	}
	seen := make(map[string]struct{}, len(a))
	for _, s := range a {
		seen[s] = struct{}{}
	}
	for _, s := range b {
		if _, ok := seen[s]; ok {
			return true
		}
	}
	return false
}
