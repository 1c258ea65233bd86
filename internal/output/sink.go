package output

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/kpauljoseph/slidepress/pkg/logger"
	"github.com/kpauljoseph/slidepress/pkg/models"
)

// DirSink saves finished artifacts into a directory, the CLI's stand-in for a
// browser download.
type DirSink struct {
	dir    string
	logger *logger.Logger
}

func NewDirSink(dir string, log *logger.Logger) (*DirSink, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}
	if log == nil {
		log = logger.Discard()
	}
	return &DirSink{dir: dir, logger: log}, nil
}

func (s *DirSink) Dir() string {
	return s.dir
}

// SaveArtifact writes via a temp file and a rename; a partial file never
// appears under the final name.
func (s *DirSink) SaveArtifact(a models.Artifact) (string, error) {
	path := filepath.Join(s.dir, filepath.Base(a.Name))

	tmp, err := os.CreateTemp(s.dir, ".partial-*")
	if err != nil {
		return "", fmt.Errorf("failed to save %s: %w", a.Name, err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(a.Data); err != nil {
		tmp.Close()
		return "", fmt.Errorf("failed to save %s: %w", a.Name, err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("failed to save %s: %w", a.Name, err)
	}
	if err := os.Chmod(tmp.Name(), 0644); err != nil {
		return "", fmt.Errorf("failed to save %s: %w", a.Name, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return "", fmt.Errorf("failed to save %s: %w", a.Name, err)
	}

	s.logger.Debug("Saved %s (%d bytes)", path, len(a.Data))
	return path, nil
}
