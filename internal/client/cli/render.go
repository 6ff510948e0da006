package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/mpetrenko/studyport/internal/client/doc"
)

// TerminalRenderer draws pages as plain text on a terminal. It implements
// doc.Renderer; the overlay lines already carry the watermark stamp, so the
// renderer only needs to put them on screen with a small header.
type TerminalRenderer struct {
	mu sync.Mutex
	w  io.Writer
}

func NewTerminalRenderer(w io.Writer) *TerminalRenderer {
	return &TerminalRenderer{w: w}
}

func (r *TerminalRenderer) Render(ctx context.Context, f doc.Frame) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	bw := bufio.NewWriter(r.w)
	fmt.Fprintf(bw, "--- page %d/%d (zoom %.0f%%) ---\n", f.Page.Number, f.PageCount, f.Scale*100)
	for _, line := range f.Overlay {
		if err := ctx.Err(); err != nil {
			return err
		}
		fmt.Fprintln(bw, line)
	}
	return bw.Flush()
}
