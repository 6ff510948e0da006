// Package watermark turns the server's personalization payload into the
// repeating overlay stamped over every rendered page. The overlay is a
// deterrent for screenshots, not a security boundary; enforcement lives
// server-side.
package watermark

import (
	"strings"

	"github.com/mpetrenko/studyport/internal/client/models"
)

// StampInterval is how many content lines separate two overlay stamps.
const StampInterval = 8

// Stamp formats the payload into the single line repeated across the page.
// Empty fields are skipped so a sparse payload still produces a stamp.
func Stamp(wm models.Watermark) string {
	parts := make([]string, 0, 4)
	for _, p := range []string{wm.DisplayName, wm.MaskedEmail, wm.MaskedPhone, wm.UserHash} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, " · ")
}

// Overlay interleaves the stamp into the page lines every StampInterval
// lines, starting above the first line. A missing payload (empty stamp)
// leaves the page untouched.
func Overlay(lines []string, stamp string) []string {
	if stamp == "" {
		return lines
	}

	out := make([]string, 0, len(lines)+len(lines)/StampInterval+1)
	for i, line := range lines {
		if i%StampInterval == 0 {
			out = append(out, stamp)
		}
		out = append(out, line)
	}
	if len(lines) == 0 {
		out = append(out, stamp)
	}
	return out
}
