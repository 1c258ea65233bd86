package pdf

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
	"sort"
	"strconv"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"

	"github.com/kpauljoseph/slidepress/internal/rules"
	"github.com/kpauljoseph/slidepress/pkg/logger"
)

// stampDescription places the composed canvas over the whole page: centred,
// unrotated, fully opaque and scaled to the page.
const stampDescription = "pos:c, scalefactor:1 rel, rot:0, op:1"

var ErrPageOutOfRange = errors.New("page number out of range")

// Replacer swaps the visible content of pages for letterboxed images.
type Replacer struct {
	tempDir    string
	background color.Color
	logger     *logger.Logger
}

// NewReplacer creates a private work directory under tempRoot; Cleanup removes
// only that directory.
func NewReplacer(tempRoot string, background color.Color, log *logger.Logger) (*Replacer, error) {
	if err := os.MkdirAll(tempRoot, 0755); err != nil {
		return nil, fmt.Errorf("failed to create temp directory: %w", err)
	}
	tempDir, err := os.MkdirTemp(tempRoot, "slidepress-*")
	if err != nil {
		return nil, fmt.Errorf("failed to create temp directory: %w", err)
	}
	if log == nil {
		log = logger.Discard()
	}
	return &Replacer{
		tempDir:    tempDir,
		background: background,
		logger:     log,
	}, nil
}

// PageCount reports how many pages data has.
func (r *Replacer) PageCount(data []byte) (int, error) {
	dims, err := PageDimensions(data)
	if err != nil {
		return 0, err
	}
	return len(dims), nil
}

// Apply validates every rule against the document before touching anything,
// then replaces the pages in ascending order. On error nothing is returned.
func (r *Replacer) Apply(ctx context.Context, data []byte, rs []rules.Rule, progress ProgressFunc) ([]byte, error) {
	if progress == nil {
		progress = func(int, string) {}
	}

	dims, err := PageDimensions(data)
	if err != nil {
		return nil, err
	}
	pageCount := len(dims)

	ordered := make([]rules.Rule, len(rs))
	copy(ordered, rs)
	sort.SliceStable(ordered, func(i, j int) bool { return ordered[i].Page < ordered[j].Page })

	for _, rule := range ordered {
		if rule.Page < 1 || rule.Page > pageCount {
			return nil, fmt.Errorf("%w: page %d (document has %d pages)", ErrPageOutOfRange, rule.Page, pageCount)
		}
	}

	current := data
	for i, rule := range ordered {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		img, format, err := DecodeImage(rule.Image)
		if err != nil {
			return nil, fmt.Errorf("page %d (%s): %w", rule.Page, rule.FileName, err)
		}

		dim := dims[rule.Page-1]
		b := img.Bounds()
		p := Letterbox(dim.Width, dim.Height, float64(b.Dx()), float64(b.Dy()))
		r.logger.Debug("Page %d: %s %s %dx%d onto %.2fx%.2f pt, scale %.4f, offset (%.2f, %.2f)",
			rule.Page, format, rule.FileName, b.Dx(), b.Dy(), dim.Width, dim.Height, p.Scale, p.X, p.Y)

		canvas := Compose(img, dim.Width, dim.Height, r.background)
		current, err = r.stamp(current, rule.Page, canvas)
		if err != nil {
			return nil, fmt.Errorf("failed to replace page %d: %w", rule.Page, err)
		}

		percent := (i + 1) * 100 / len(ordered)
		progress(percent, fmt.Sprintf("Replacing page %d... (%d/%d)", rule.Page, i+1, len(ordered)))
	}

	return current, nil
}

func (r *Replacer) stamp(data []byte, page int, canvas image.Image) ([]byte, error) {
	f, err := os.CreateTemp(r.tempDir, "page-*.png")
	if err != nil {
		return nil, fmt.Errorf("failed to create temp image: %w", err)
	}
	defer os.Remove(f.Name())

	if err := png.Encode(f, canvas); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to encode page image: %w", err)
	}
	if err := f.Close(); err != nil {
		return nil, fmt.Errorf("failed to write page image: %w", err)
	}

	wm, err := pdfcpu.ParseImageWatermarkDetails(f.Name(), stampDescription, true, types.POINTS)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare page image: %w", err)
	}

	var out bytes.Buffer
	pages := []string{strconv.Itoa(page)}
	if err := api.AddWatermarks(bytes.NewReader(data), &out, pages, wm, model.NewDefaultConfiguration()); err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}

// Cleanup removes the work directory used for page images.
func (r *Replacer) Cleanup() error {
	return os.RemoveAll(r.tempDir)
}
