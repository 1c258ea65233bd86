package pdf

import (
	"fmt"
	"path/filepath"
	"strings"
)

const (
	ArchiveSuffix = "_images.zip"
	EditedSuffix  = "_edited.pdf"
)

// BaseName strips directories and a trailing .pdf extension (any case) from name.
func BaseName(name string) string {
	base := filepath.Base(name)
	if ext := filepath.Ext(base); strings.EqualFold(ext, ".pdf") {
		base = strings.TrimSuffix(base, ext)
	}
	return base
}

// PageImageName pads page numbers to 2 digits, or 3 once the document reaches
// 100 pages, so that file names sort in page order.
func PageImageName(base string, page, pageCount int) string {
	width := 2
	if pageCount >= 100 {
		width = 3
	}
	return fmt.Sprintf("%s-%0*d.png", base, width, page)
}

func ArchiveName(base string) string {
	return base + ArchiveSuffix
}

func EditedName(base string) string {
	return base + EditedSuffix
}
