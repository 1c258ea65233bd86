package pdf

import (
	"bytes"
	"fmt"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"

	"github.com/kpauljoseph/slidepress/pkg/models"
)

// PageDimensions returns the size of every page in points.
func PageDimensions(data []byte) ([]models.PageDimensions, error) {
	dims, err := api.PageDims(bytes.NewReader(data), model.NewDefaultConfiguration())
	if err != nil {
		return nil, fmt.Errorf("failed to get page dimensions: %w", err)
	}

	out := make([]models.PageDimensions, len(dims))
	for i, dim := range dims {
		out[i] = models.PageDimensions{Width: dim.Width, Height: dim.Height}
	}
	return out, nil
}
