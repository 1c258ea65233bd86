package scanner

import (
	"context"
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"github.com/kpauljoseph/slidepress/pkg/logger"
)

type PDFFile struct {
	AbsolutePath string
	RelativePath string
}

type DirectoryScanner struct {
	logger *logger.Logger
}

func New(log *logger.Logger) *DirectoryScanner {
	if log == nil {
		log = logger.Discard()
	}
	return &DirectoryScanner{
		logger: log,
	}
}

// FindPDFs walks dir recursively and returns every .pdf file in path order.
func (s *DirectoryScanner) FindPDFs(ctx context.Context, dir string) ([]PDFFile, error) {
	root, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %s: %w", dir, err)
	}

	var pdfs []PDFFile
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if err != nil {
			return fmt.Errorf("error accessing path %s: %w", path, err)
		}

		if d.IsDir() {
			s.logger.Debug("Scanning directory: %s", path)
			return nil
		}

		if !strings.EqualFold(filepath.Ext(path), ".pdf") {
			return nil
		}

		relPath, err := filepath.Rel(root, path)
		if err != nil {
			relPath = path
		}
		s.logger.Trace("Found PDF: %s", relPath)

		pdfs = append(pdfs, PDFFile{
			AbsolutePath: path,
			RelativePath: relPath,
		})
		return nil
	})
	if err != nil {
		return nil, err
	}

	if len(pdfs) == 0 {
		return nil, fmt.Errorf("no PDF files found in %s or its subdirectories", dir)
	}

	sort.Slice(pdfs, func(i, j int) bool {
		return pdfs[i].RelativePath < pdfs[j].RelativePath
	})
	return pdfs, nil
}
