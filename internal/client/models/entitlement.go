package models

import "time"

// EntitlementKind scopes a grant to a content kind.
type EntitlementKind string

const (
	EntitlementAll      EntitlementKind = "ALL"
	EntitlementNotes    EntitlementKind = "NOTES"
	EntitlementTests    EntitlementKind = "TESTS"
	EntitlementPractice EntitlementKind = "PRACTICE"
)

// Entitlement is a server-issued grant of access to a content kind,
// optionally restricted to sets of subjects, topics or individual notes.
// A grant with no scope fields set means "all content of this kind".
type Entitlement struct {
	ID         string          `json:"id"`
	Kind       EntitlementKind `json:"kind"`
	SubjectIDs []string        `json:"subjectIds,omitempty"`
	TopicIDs   []string        `json:"topicIds,omitempty"`
	NoteIDs    []string        `json:"noteIds,omitempty"`
	StartsAt   *time.Time      `json:"startsAt,omitempty"`
	EndsAt     *time.Time      `json:"endsAt,omitempty"`
	Revoked    bool            `json:"revoked,omitempty"`
}

// Unscoped reports whether the grant carries no scope restriction at all.
func (e Entitlement) Unscoped() bool {
	return len(e.SubjectIDs) == 0 && len(e.TopicIDs) == 0 && len(e.NoteIDs) == 0
}

// Expired reports whether the grant has lapsed as of now.
func (e Entitlement) Expired(now time.Time) bool {
	return e.EndsAt != nil && !e.EndsAt.After(now)
}
