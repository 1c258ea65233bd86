package pdf

import (
	"context"
	"errors"
	"fmt"
	"image"

	"github.com/gen2brain/go-fitz"

	"github.com/kpauljoseph/slidepress/pkg/models"
)

var ErrNoPages = errors.New("PDF has no pages")

// FitzOpener opens documents with MuPDF through go-fitz.
type FitzOpener struct{}

func (FitzOpener) Open(data []byte) (Document, error) {
	doc, err := fitz.NewFromMemory(data)
	if err != nil {
		return nil, fmt.Errorf("failed to open PDF: %w", err)
	}
	if doc.NumPage() < 1 {
		doc.Close()
		return nil, ErrNoPages
	}
	return &fitzDocument{doc: doc, pages: doc.NumPage()}, nil
}

type fitzDocument struct {
	doc     *fitz.Document
	pages   int
	current *image.RGBA
}

func (d *fitzDocument) PageCount() int {
	return d.pages
}

func (d *fitzDocument) RenderPage(ctx context.Context, page int, scale float64) (image.Image, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if page < 1 || page > d.pages {
		return nil, fmt.Errorf("%w: page %d of %d", ErrPageOutOfRange, page, d.pages)
	}

	// Page numbers are zero indexed in the fitz package.
	img, err := d.doc.ImageDPI(page-1, scale*models.BaseDPI)
	if err != nil {
		return nil, fmt.Errorf("failed to render page %d: %w", page, err)
	}
	d.current = img
	return img, nil
}

func (d *fitzDocument) ReleasePage(page int) {
	if d.current == nil {
		return
	}
	d.current.Pix = nil
	d.current.Rect = image.Rectangle{}
	d.current = nil
}

func (d *fitzDocument) Close() error {
	d.ReleasePage(0)
	return d.doc.Close()
}
