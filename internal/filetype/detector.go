package filetype

import (
	"errors"
	"fmt"

	"github.com/gabriel-vasile/mimetype"
)

const (
	MIMEPDF  = "application/pdf"
	MIMEPNG  = "image/png"
	MIMEJPEG = "image/jpeg"
)

var (
	ErrNotPDF   = errors.New("please upload a PDF file")
	ErrNotImage = errors.New("please choose a PNG or JPEG image")
)

// Info is the content type sniffed from a file's magic bytes.
type Info struct {
	MIMEType  string
	Extension string
}

func Detect(data []byte) Info {
	mtype := mimetype.Detect(data)
	return Info{
		MIMEType:  mtype.String(),
		Extension: mtype.Extension(),
	}
}

// RequirePDF rejects anything whose content is not a PDF, whatever its file name says.
func RequirePDF(data []byte) error {
	if !mimetype.Detect(data).Is(MIMEPDF) {
		return fmt.Errorf("%w (detected %s)", ErrNotPDF, Detect(data).MIMEType)
	}
	return nil
}

// RequireImage accepts PNG and JPEG content and returns the detected MIME type.
func RequireImage(data []byte) (string, error) {
	mtype := mimetype.Detect(data)
	switch {
	case mtype.Is(MIMEPNG):
		return MIMEPNG, nil
	case mtype.Is(MIMEJPEG):
		return MIMEJPEG, nil
	}
	return "", fmt.Errorf("%w (detected %s)", ErrNotImage, mtype.String())
}
