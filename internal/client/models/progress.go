package models

import "time"

// Progress is the locally cached reading position for one note. Dirty rows
// have not yet been flushed to the server.
type Progress struct {
	NoteID            string
	LastPage          int
	PageCount         int
	CompletionPercent float64
	UpdatedAt         time.Time
	Dirty             bool
}

// Completion computes the percentage for a page position, clamped to [0,100].
func Completion(lastPage, pageCount int) float64 {
	if pageCount <= 0 || lastPage <= 0 {
		return 0
	}
	if lastPage >= pageCount {
		return 100
	}
	return float64(lastPage) / float64(pageCount) * 100
}
