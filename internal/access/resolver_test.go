package access

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/mpetrenko/studyport/internal/client/models"
)

var now = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func ptr(t time.Time) *time.Time { return &t }

func activeSub() *models.Subscription {
	return &models.Subscription{
		Status: models.SubscriptionActive,
		EndsAt: ptr(now.Add(30 * 24 * time.Hour)),
	}
}

func premiumNote() models.Note {
	return models.Note{ID: "n1", SubjectID: "math", TopicIDs: []string{"algebra"}, IsPremium: true}
}

func TestCanAccessNote_FreeNoteAlwaysAllowed(t *testing.T) {
	note := models.Note{ID: "n1", SubjectID: "math", IsPremium: false}

	// Even with a completely empty snapshot.
	d := CanAccessNote(Snapshot{}, note, now)
	require.True(t, d.Allowed)

	// And with an expired subscription.
	snap := Snapshot{Subscription: &models.Subscription{
		Status: models.SubscriptionExpired,
		EndsAt: ptr(now.Add(-time.Hour)),
	}}
	d = CanAccessNote(snap, note, now)
	require.True(t, d.Allowed)
}

func TestCanAccessNote_ActiveSubscription(t *testing.T) {
	tests := []struct {
		name string
		sub  *models.Subscription
		want bool
	}{
		{"active with future end", activeSub(), true},
		{"active without end date", &models.Subscription{Status: models.SubscriptionActive}, true},
		{"active with past end", &models.Subscription{Status: models.SubscriptionActive, EndsAt: ptr(now.Add(-time.Minute))}, false},
		{"expired status", &models.Subscription{Status: models.SubscriptionExpired}, false},
		{"cancelled status", &models.Subscription{Status: models.SubscriptionCancelled, EndsAt: ptr(now.Add(time.Hour))}, false},
		{"pending status", &models.Subscription{Status: models.SubscriptionPending}, false},
		// StartsAt in the future is deliberately ignored for ACTIVE plans.
		{"active with future start", &models.Subscription{Status: models.SubscriptionActive, StartsAt: ptr(now.Add(time.Hour))}, true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			d := CanAccessNote(Snapshot{Subscription: tc.sub}, premiumNote(), now)
			require.Equal(t, tc.want, d.Allowed)
		})
	}
}

func TestCanAccessNote_NoEntitlement(t *testing.T) {
	d := CanAccessNote(Snapshot{}, premiumNote(), now)
	require.False(t, d.Allowed)
	require.Equal(t, ReasonNoEntitlement, d.Reason)
}

func TestCanAccessNote_SubjectScope(t *testing.T) {
	snap := Snapshot{Entitlements: []models.Entitlement{
		{Kind: models.EntitlementNotes, SubjectIDs: []string{"math"}},
	}}

	d := CanAccessNote(snap, models.Note{ID: "n1", SubjectID: "math", IsPremium: true}, now)
	require.True(t, d.Allowed)

	d = CanAccessNote(snap, models.Note{ID: "n2", SubjectID: "science", IsPremium: true}, now)
	require.False(t, d.Allowed)
	require.Equal(t, ReasonScopeMismatch, d.Reason)
}

func TestCanAccessNote_NoteIDAndTopicScope(t *testing.T) {
	snap := Snapshot{Entitlements: []models.Entitlement{
		{Kind: models.EntitlementNotes, NoteIDs: []string{"n42"}, TopicIDs: []string{"trig"}},
	}}

	d := CanAccessNote(snap, models.Note{ID: "n42", SubjectID: "science", IsPremium: true}, now)
	require.True(t, d.Allowed, "note-id scope match")

	d = CanAccessNote(snap, models.Note{ID: "n7", SubjectID: "science", TopicIDs: []string{"geometry", "trig"}, IsPremium: true}, now)
	require.True(t, d.Allowed, "topic intersection match")

	d = CanAccessNote(snap, models.Note{ID: "n8", SubjectID: "science", TopicIDs: []string{"geometry"}, IsPremium: true}, now)
	require.False(t, d.Allowed)
	require.Equal(t, ReasonScopeMismatch, d.Reason)
}

func TestCanAccessNote_UnscopedAllKind(t *testing.T) {
	snap := Snapshot{Entitlements: []models.Entitlement{
		{Kind: models.EntitlementAll},
	}}

	d := CanAccessNote(snap, models.Note{ID: "whatever", SubjectID: "art", IsPremium: true}, now)
	require.True(t, d.Allowed)
}

func TestCanAccessNote_IgnoresWrongKindRevokedAndExpired(t *testing.T) {
	snap := Snapshot{Entitlements: []models.Entitlement{
		{Kind: models.EntitlementTests},                        // wrong kind
		{Kind: models.EntitlementNotes, Revoked: true},         // revoked
		{Kind: models.EntitlementNotes, EndsAt: ptr(now.Add(-time.Second))}, // lapsed
	}}

	d := CanAccessNote(snap, premiumNote(), now)
	require.False(t, d.Allowed)
	require.Equal(t, ReasonNoEntitlement, d.Reason)
}

func TestCanAccessPracticeAndTests(t *testing.T) {
	// Subscription grants both areas.
	snap := Snapshot{Subscription: activeSub()}
	require.True(t, CanAccessPractice(snap, now).Allowed)
	require.True(t, CanAccessTests(snap, now).Allowed)

	// Kind-specific grant only opens its own area.
	snap = Snapshot{Entitlements: []models.Entitlement{{Kind: models.EntitlementPractice}}}
	require.True(t, CanAccessPractice(snap, now).Allowed)

	d := CanAccessTests(snap, now)
	require.False(t, d.Allowed)
	require.Equal(t, ReasonNoEntitlement, d.Reason)

	// ALL opens everything.
	snap = Snapshot{Entitlements: []models.Entitlement{{Kind: models.EntitlementAll}}}
	require.True(t, CanAccessPractice(snap, now).Allowed)
	require.True(t, CanAccessTests(snap, now).Allowed)
}

func TestPaywallReason(t *testing.T) {
	// Lapsed subscription, zero entitlements: paywall reads NO_SUBSCRIPTION.
	snap := Snapshot{Subscription: &models.Subscription{
		Status: models.SubscriptionExpired,
		EndsAt: ptr(now.Add(-time.Hour)),
	}}
	d := CanAccessNote(snap, premiumNote(), now)
	require.False(t, d.Allowed)
	require.Equal(t, ReasonNoSubscription, PaywallReason(snap, d, now))

	// No subscription record at all: keep the entitlement verdict.
	d = CanAccessNote(Snapshot{}, premiumNote(), now)
	require.Equal(t, ReasonNoEntitlement, PaywallReason(Snapshot{}, d, now))

	// Scope mismatch is never rewritten.
	snap = Snapshot{
		Subscription: &models.Subscription{Status: models.SubscriptionExpired},
		Entitlements: []models.Entitlement{{Kind: models.EntitlementNotes, SubjectIDs: []string{"science"}}},
	}
	d = CanAccessNote(snap, premiumNote(), now)
	require.Equal(t, ReasonScopeMismatch, PaywallReason(snap, d, now))
}
