// Package doc abstracts the document being viewed. The portal serves opaque
// content bytes; an Opener turns them into a paginated Document, and a
// Renderer puts one page onto whatever surface the host provides. PDF
// engines are external collaborators that plug in behind the same
// interfaces.
package doc

import "context"

// Page is one renderable page of a document.
type Page struct {
	Number int
	Lines  []string
}

// Document is an opened, paginated document. Close releases decoder
// resources and must be safe to call once rendering is done or cancelled.
type Document interface {
	PageCount() int
	Page(ctx context.Context, number int) (Page, error)
	Close() error
}

// Opener builds a Document from downloaded content bytes.
type Opener interface {
	Open(ctx context.Context, contentType string, data []byte) (Document, error)
}

// Frame is everything a Renderer needs to draw one page: the page itself,
// the computed scale, and the watermark overlay lines stamped above the
// content.
type Frame struct {
	NoteID    string
	Page      Page
	PageCount int
	Scale     float64
	Overlay   []string
}

// Renderer draws frames. Implementations must honor ctx cancellation so a
// superseded render can be abandoned mid-draw.
type Renderer interface {
	Render(ctx context.Context, f Frame) error
}
