package cli

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mpetrenko/studyport/internal/client/doc"
)

func TestTerminalRenderer_WritesHeaderAndOverlay(t *testing.T) {
	var out bytes.Buffer
	r := NewTerminalRenderer(&out)

	err := r.Render(context.Background(), doc.Frame{
		NoteID:    "n1",
		Page:      doc.Page{Number: 2, Lines: []string{"body"}},
		PageCount: 5,
		Scale:     1.2,
		Overlay:   []string{"Asha K · a1b2", "body"},
	})
	require.NoError(t, err)

	s := out.String()
	require.Contains(t, s, "page 2/5")
	require.Contains(t, s, "zoom 120%")
	require.Contains(t, s, "Asha K · a1b2")
	require.Contains(t, s, "body")
}

func TestTerminalRenderer_HonorsCancellation(t *testing.T) {
	var out bytes.Buffer
	r := NewTerminalRenderer(&out)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := r.Render(ctx, doc.Frame{Page: doc.Page{Number: 1}})
	require.ErrorIs(t, err, context.Canceled)
	require.Empty(t, out.String())
}
