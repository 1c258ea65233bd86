package imagecheck

import (
	"bytes"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"strings"
)

type Status string

const (
	StatusIdeal   Status = "ideal"
	StatusWarning Status = "warning"
)

// Thresholds describe what a replacement slide image should look like.
// The defaults form a tolerance band around 16:9 at Full HD width.
type Thresholds struct {
	MinRatio float64
	MaxRatio float64
	MinWidth int
}

var DefaultThresholds = Thresholds{
	MinRatio: 1.76,
	MaxRatio: 1.79,
	MinWidth: 1920,
}

type Result struct {
	Status        Status
	Width         int
	Height        int
	Ratio         float64
	RatioOK       bool
	LowResolution bool
	Message       string
}

type Checker struct {
	thresholds Thresholds
}

func NewChecker(thresholds Thresholds) *Checker {
	return &Checker{thresholds: thresholds}
}

// Inspect decodes just enough of data to read its dimensions and classifies them.
func (c *Checker) Inspect(data []byte) (Result, error) {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return Result{}, fmt.Errorf("failed to decode image: %w", err)
	}
	return c.Classify(cfg.Width, cfg.Height), nil
}

// Classify never rejects an image; a warning only tells the user what to expect.
func (c *Checker) Classify(width, height int) Result {
	res := Result{Width: width, Height: height}
	if height > 0 {
		res.Ratio = float64(width) / float64(height)
	}
	res.RatioOK = res.Ratio >= c.thresholds.MinRatio && res.Ratio <= c.thresholds.MaxRatio
	res.LowResolution = width < c.thresholds.MinWidth

	if res.RatioOK && !res.LowResolution {
		res.Status = StatusIdeal
		res.Message = fmt.Sprintf("Ideal! The image meets the 16:9 high resolution standard (%dx%d)", width, height)
		return res
	}

	var msgs []string
	if res.LowResolution {
		msgs = append(msgs, fmt.Sprintf("Low resolution (%dx%d).", width, height))
	}
	if !res.RatioOK {
		msgs = append(msgs, "Aspect ratio is not 16:9, black bars will be added to keep the whole picture.")
	}
	res.Status = StatusWarning
	res.Message = strings.Join(msgs, " ")
	return res
}
