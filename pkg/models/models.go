package models

import (
	"fmt"
	"strconv"
	"strings"
)

// BaseDPI is the resolution of a page rendered at scale 1.
const BaseDPI = 72.0

type PageDimensions struct {
	Width  float64
	Height float64
}

// Artifact is a finished output file waiting to be saved.
type Artifact struct {
	Name string
	Data []byte
}

// Scale is one of the fixed rasterization magnification levels.
type Scale int

const (
	ScalePreview Scale = 1
	ScaleDesign  Scale = 2
	ScalePrint   Scale = 3
	ScaleMaximum Scale = 4

	DefaultScale = ScalePrint
)

var Scales = []Scale{ScalePreview, ScaleDesign, ScalePrint, ScaleMaximum}

func ParseScale(s string) (Scale, error) {
	n, err := strconv.Atoi(strings.TrimSuffix(strings.TrimSpace(s), "x"))
	if err != nil {
		return 0, fmt.Errorf("invalid scale %q", s)
	}
	scale := Scale(n)
	if !scale.Valid() {
		return 0, fmt.Errorf("unsupported scale %dx, choose 1, 2, 3 or 4", n)
	}
	return scale, nil
}

func (s Scale) Valid() bool {
	return s >= ScalePreview && s <= ScaleMaximum
}

func (s Scale) DPI() float64 {
	return float64(s) * BaseDPI
}

func (s Scale) Description() string {
	switch s {
	case ScalePreview:
		return "1x - screen preview (72 DPI)"
	case ScaleDesign:
		return "2x - general design (144 DPI)"
	case ScalePrint:
		return "3x - print / high quality retouching (about 216 DPI)"
	case ScaleMaximum:
		return "4x - maximum quality (memory hungry)"
	}
	return fmt.Sprintf("%dx - unsupported", int(s))
}
