package pdf

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/jpeg"
	"image/png"
	"math"
)

var ErrUnsupportedImage = errors.New("could not read this image, use PNG or JPEG")

// Placement is where an image lands on a page, in page units.
type Placement struct {
	Scale  float64
	X      float64
	Y      float64
	Width  float64
	Height float64
}

// Letterbox fits an image inside the page without cropping, preserving its
// aspect ratio, and centres it on both axes.
func Letterbox(pageWidth, pageHeight, imageWidth, imageHeight float64) Placement {
	scale := math.Min(pageWidth/imageWidth, pageHeight/imageHeight)
	width := imageWidth * scale
	height := imageHeight * scale
	return Placement{
		Scale:  scale,
		X:      (pageWidth - width) / 2,
		Y:      (pageHeight - height) / 2,
		Width:  width,
		Height: height,
	}
}

// DecodeImage tries PNG first and falls back to JPEG.
func DecodeImage(data []byte) (image.Image, string, error) {
	img, pngErr := png.Decode(bytes.NewReader(data))
	if pngErr == nil {
		return img, "png", nil
	}
	img, jpegErr := jpeg.Decode(bytes.NewReader(data))
	if jpegErr == nil {
		return img, "jpeg", nil
	}
	return nil, "", fmt.Errorf("%w: png: %v, jpeg: %v", ErrUnsupportedImage, pngErr, jpegErr)
}

// Compose letterboxes img onto a canvas with the page's aspect ratio. The canvas
// is measured in image pixels so the image itself is never resampled, and every
// pixel outside it is painted with background.
func Compose(img image.Image, pageWidth, pageHeight float64, background color.Color) *image.RGBA {
	b := img.Bounds()
	p := Letterbox(pageWidth, pageHeight, float64(b.Dx()), float64(b.Dy()))

	canvasWidth := max(int(math.Round(pageWidth/p.Scale)), b.Dx())
	canvasHeight := max(int(math.Round(pageHeight/p.Scale)), b.Dy())

	canvas := image.NewRGBA(image.Rect(0, 0, canvasWidth, canvasHeight))
	draw.Draw(canvas, canvas.Bounds(), image.NewUniform(background), image.Point{}, draw.Src)

	x := (canvasWidth - b.Dx()) / 2
	y := (canvasHeight - b.Dy()) / 2
	draw.Draw(canvas, image.Rect(x, y, x+b.Dx(), y+b.Dy()), img, b.Min, draw.Over)
	return canvas
}

// ParseHexColor reads an opaque "#rrggbb" colour.
func ParseHexColor(s string) (color.RGBA, error) {
	c := color.RGBA{A: 0xff}
	if len(s) != 7 || s[0] != '#' {
		return c, fmt.Errorf("invalid colour %q, expected #rrggbb", s)
	}
	if _, err := fmt.Sscanf(s[1:], "%02x%02x%02x", &c.R, &c.G, &c.B); err != nil {
		return c, fmt.Errorf("invalid colour %q: %w", s, err)
	}
	return c, nil
}
