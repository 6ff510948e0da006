package models

import "time"

// ViewSession is the ephemeral, server-issued credential for viewing one
// note: an identifier, an opaque view token and an expiry timestamp.
// The client holds at most one per opened note.
type ViewSession struct {
	SessionID string    `json:"sessionId"`
	ViewToken string    `json:"viewToken"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// Expired reports whether the session is past its expiry as of now,
// allowing a small grace skew for clock drift.
func (s *ViewSession) Expired(now time.Time, skew time.Duration) bool {
	if s == nil {
		return true
	}
	return now.After(s.ExpiresAt.Add(skew))
}

// Watermark is the personalization payload fetched under an active view
// token and stamped over every rendered page. Purely a visual overlay;
// it carries no security weight of its own.
type Watermark struct {
	DisplayName string `json:"displayName"`
	MaskedEmail string `json:"maskedEmail"`
	MaskedPhone string `json:"maskedPhone"`
	UserHash    string `json:"userHash"`
}
