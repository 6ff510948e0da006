package watermark

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mpetrenko/studyport/internal/client/models"
)

func TestStamp(t *testing.T) {
	wm := models.Watermark{
		DisplayName: "Asha K",
		MaskedEmail: "as***@example.com",
		MaskedPhone: "+91******21",
		UserHash:    "a1b2c3",
	}
	require.Equal(t, "Asha K · as***@example.com · +91******21 · a1b2c3", Stamp(wm))

	// Sparse payloads skip empty fields.
	require.Equal(t, "Asha K · a1b2c3", Stamp(models.Watermark{DisplayName: "Asha K", UserHash: "a1b2c3"}))
	require.Equal(t, "", Stamp(models.Watermark{}))
}

func TestOverlay_InterleavesStamp(t *testing.T) {
	lines := make([]string, 20)
	for i := range lines {
		lines[i] = "content"
	}

	out := Overlay(lines, "STAMP")

	stamps := 0
	for _, l := range out {
		if l == "STAMP" {
			stamps++
		}
	}
	require.Equal(t, 3, stamps, "one stamp per StampInterval lines, starting at the top")
	require.Equal(t, "STAMP", out[0])
	require.Equal(t, len(lines)+stamps, len(out))
	require.Equal(t, strings.Count(strings.Join(out, "\n"), "content"), len(lines), "content never dropped")
}

func TestOverlay_EmptyInputs(t *testing.T) {
	// No stamp: page untouched.
	lines := []string{"a", "b"}
	require.Equal(t, lines, Overlay(lines, ""))

	// Empty page still carries the stamp.
	require.Equal(t, []string{"STAMP"}, Overlay(nil, "STAMP"))
}
