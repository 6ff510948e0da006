// Package models defines the client-side snapshot types fetched from the
// learning-portal API: catalog items, the user profile with its subscription
// and entitlement grants, view sessions and watermark payloads.
//
// Everything here is owned by the server; the client treats the structs as
// immutable snapshots refreshed wholesale.
package models

// Subject is a top-level catalog bucket (e.g. "math", "physics").
type Subject struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Note is a single content item. Free notes (IsPremium false) bypass
// entitlement checks entirely; premium notes require an active subscription
// or a matching entitlement.
type Note struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	SubjectID   string   `json:"subjectId"`
	TopicIDs    []string `json:"topicIds,omitempty"`
	IsPremium   bool     `json:"isPremium"`
	ContentType string   `json:"contentType,omitempty"`
}
