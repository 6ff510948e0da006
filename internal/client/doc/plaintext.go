package doc

import (
	"context"
	"fmt"
	"strings"
)

// DefaultLinesPerPage paginates plain text that carries no form feeds.
const DefaultLinesPerPage = 40

// PlainTextOpener opens text/* content. Pages are split on form-feed
// characters when present, otherwise every LinesPerPage lines.
type PlainTextOpener struct {
	LinesPerPage int
}

func (o PlainTextOpener) Open(ctx context.Context, contentType string, data []byte) (Document, error) {
	if ct := strings.ToLower(contentType); ct != "" && !strings.HasPrefix(ct, "text/") {
		return nil, fmt.Errorf("unsupported content type %q", contentType)
	}

	text := strings.ReplaceAll(string(data), "\r\n", "\n")

	var pages [][]string
	if strings.Contains(text, "\f") {
		for _, chunk := range strings.Split(text, "\f") {
			pages = append(pages, splitLines(chunk))
		}
	} else {
		perPage := o.LinesPerPage
		if perPage <= 0 {
			perPage = DefaultLinesPerPage
		}
		lines := splitLines(text)
		for start := 0; start < len(lines); start += perPage {
			end := min(start+perPage, len(lines))
			pages = append(pages, lines[start:end])
		}
	}

	if len(pages) == 0 {
		pages = [][]string{{}}
	}
	return &plainTextDocument{pages: pages}, nil
}

func splitLines(s string) []string {
	s = strings.Trim(s, "\n")
	if s == "" {
		return nil
	}
	return strings.Split(s, "\n")
}

type plainTextDocument struct {
	pages  [][]string
	closed bool
}

func (d *plainTextDocument) PageCount() int { return len(d.pages) }

func (d *plainTextDocument) Page(ctx context.Context, number int) (Page, error) {
	if err := ctx.Err(); err != nil {
		return Page{}, err
	}
	if d.closed {
		return Page{}, fmt.Errorf("document is closed")
	}
	if number < 1 || number > len(d.pages) {
		return Page{}, fmt.Errorf("page %d out of range [1, %d]", number, len(d.pages))
	}
	return Page{Number: number, Lines: d.pages[number-1]}, nil
}

func (d *plainTextDocument) Close() error {
	d.closed = true
	return nil
}
