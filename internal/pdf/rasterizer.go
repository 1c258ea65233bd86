package pdf

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image/png"
	"math"

	"github.com/klauspost/compress/zip"

	"github.com/kpauljoseph/slidepress/pkg/logger"
	"github.com/kpauljoseph/slidepress/pkg/models"
)

var ErrNoPagesSelected = errors.New("no pages selected")

// Job describes one rasterization run over an already opened document.
type Job struct {
	// SourceName is the uploaded file name; output names derive from it.
	SourceName string
	Pages      []int
	Scale      models.Scale
}

// Rasterizer renders pages to PNG and packs them into a zip archive.
type Rasterizer struct {
	logger   *logger.Logger
	progress ProgressFunc
	encoder  png.Encoder
}

func NewRasterizer(log *logger.Logger, progress ProgressFunc) *Rasterizer {
	if log == nil {
		log = logger.Discard()
	}
	if progress == nil {
		progress = func(int, string) {}
	}
	return &Rasterizer{
		logger:   log,
		progress: progress,
		encoder:  png.Encoder{CompressionLevel: png.DefaultCompression},
	}
}

// Run processes the pages strictly one after another. Any failure discards the
// archive built so far and returns no artifact.
func (r *Rasterizer) Run(ctx context.Context, doc Document, job Job) (*models.Artifact, error) {
	if len(job.Pages) == 0 {
		return nil, ErrNoPagesSelected
	}
	if !job.Scale.Valid() {
		return nil, fmt.Errorf("unsupported scale %dx", int(job.Scale))
	}

	base := BaseName(job.SourceName)
	pageCount := doc.PageCount()
	total := len(job.Pages)

	r.logger.Info("Rasterizing %d of %d pages from %s at %s", total, pageCount, job.SourceName, job.Scale.Description())

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)

	for i, page := range job.Pages {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		status := fmt.Sprintf("Processing page %d... (%d/%d)", page, i+1, total)
		r.logger.Debug("%s", status)

		name := PageImageName(base, page, pageCount)
		if err := r.addPage(ctx, zw, doc, page, job.Scale, name); err != nil {
			return nil, err
		}

		percent := int(math.Round(float64(i+1) / float64(total) * 100))
		r.progress(percent, status)
	}

	r.progress(100, "Packing ZIP...")
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("failed to finalize archive: %w", err)
	}

	return &models.Artifact{
		Name: ArchiveName(base),
		Data: buf.Bytes(),
	}, nil
}

func (r *Rasterizer) addPage(ctx context.Context, zw *zip.Writer, doc Document, page int, scale models.Scale, name string) error {
	defer doc.ReleasePage(page)

	img, err := doc.RenderPage(ctx, page, float64(scale))
	if err != nil {
		return fmt.Errorf("failed to render page %d: %w", page, err)
	}

	// stored, not deflated: PNG is compressed already
	w, err := zw.CreateHeader(&zip.FileHeader{Name: name, Method: zip.Store})
	if err != nil {
		return fmt.Errorf("failed to add %s to archive: %w", name, err)
	}
	if err := r.encoder.Encode(w, img); err != nil {
		return fmt.Errorf("failed to encode page %d: %w", page, err)
	}

	bounds := img.Bounds()
	r.logger.Trace("Page %d rendered at %dx%d as %s", page, bounds.Dx(), bounds.Dy(), name)
	return nil
}
