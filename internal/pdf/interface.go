package pdf

import (
	"context"
	"image"
)

// Document is an opened PDF whose pages can be rasterized one at a time.
// Page numbers are 1-based.
type Document interface {
	PageCount() int
	RenderPage(ctx context.Context, page int, scale float64) (image.Image, error)
	// ReleasePage drops any buffers held for page after the caller is done with it.
	ReleasePage(page int)
	Close() error
}

type Opener interface {
	Open(data []byte) (Document, error)
}

// ProgressFunc receives a whole percentage and a status line.
type ProgressFunc func(percent int, status string)
