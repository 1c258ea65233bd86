package session

import (
	"context"
	"fmt"
	"sync"

	"github.com/kpauljoseph/slidepress/internal/filetype"
	"github.com/kpauljoseph/slidepress/internal/pagerange"
	"github.com/kpauljoseph/slidepress/internal/pdf"
	"github.com/kpauljoseph/slidepress/pkg/logger"
	"github.com/kpauljoseph/slidepress/pkg/models"
)

// Converter drives the PDF to PNG archive pipeline.
type Converter struct {
	opener pdf.Opener
	sink   Sink
	logger *logger.Logger

	mu         sync.Mutex
	source     *Source
	doc        pdf.Document
	scale      models.Scale
	pageRange  string
	progress   Progress
	processing bool
}

func NewConverter(opener pdf.Opener, sink Sink, log *logger.Logger) *Converter {
	if log == nil {
		log = logger.Discard()
	}
	return &Converter{
		opener: opener,
		sink:   sink,
		logger: log,
		scale:  models.DefaultScale,
	}
}

// Load replaces the current document. A rejected or unreadable file leaves the
// previous document in place.
func (c *Converter) Load(name string, data []byte) error {
	if err := filetype.RequirePDF(data); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.processing {
		return ErrBusy
	}

	doc, err := c.opener.Open(data)
	if err != nil {
		c.logger.Debug("Failed to open %s: %v", name, err)
		return fmt.Errorf("%w: %v", ErrUnreadable, err)
	}

	c.closeDocument()
	c.doc = doc
	c.source = &Source{Name: name, Data: data, PageCount: doc.PageCount()}
	c.progress = Progress{}
	c.logger.Info("Loaded %s (%d pages)", name, c.source.PageCount)
	return nil
}

// Reset discards the document and progress.
func (c *Converter) Reset() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.processing {
		return ErrBusy
	}
	c.closeDocument()
	c.progress = Progress{}
	return nil
}

func (c *Converter) SetScale(scale models.Scale) error {
	if !scale.Valid() {
		return fmt.Errorf("unsupported scale %dx", int(scale))
	}
	c.mu.Lock()
	c.scale = scale
	c.mu.Unlock()
	return nil
}

func (c *Converter) SetPageRange(expr string) {
	c.mu.Lock()
	c.pageRange = expr
	c.mu.Unlock()
}

func (c *Converter) Source() *Source {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.source
}

func (c *Converter) Progress() Progress {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.progress
}

func (c *Converter) Processing() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.processing
}

// Convert rasterizes the selected pages and saves the archive, returning where it
// was saved. onProgress, when set, observes every progress update.
func (c *Converter) Convert(ctx context.Context, onProgress pdf.ProgressFunc) (string, error) {
	c.mu.Lock()
	if c.doc == nil {
		c.mu.Unlock()
		return "", ErrNoDocument
	}
	if c.processing {
		c.mu.Unlock()
		return "", ErrBusy
	}
	pages, err := pagerange.Select(c.pageRange, c.source.PageCount)
	if err != nil {
		c.mu.Unlock()
		return "", err
	}
	c.processing = true
	c.progress = Progress{}
	doc, source, scale := c.doc, *c.source, c.scale
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		c.processing = false
		c.mu.Unlock()
	}()

	report := func(percent int, status string) {
		c.setProgress(percent, status)
		if onProgress != nil {
			onProgress(percent, status)
		}
	}

	rasterizer := pdf.NewRasterizer(c.logger, report)
	artifact, err := rasterizer.Run(ctx, doc, pdf.Job{SourceName: source.Name, Pages: pages, Scale: scale})
	if err != nil {
		c.fail(err)
		return "", err
	}

	path, err := c.sink.SaveArtifact(*artifact)
	if err != nil {
		c.fail(err)
		return "", err
	}

	report(100, StatusDone)
	return path, nil
}

func (c *Converter) setProgress(percent int, status string) {
	c.mu.Lock()
	c.progress = Progress{Percent: percent, Status: status}
	c.mu.Unlock()
}

func (c *Converter) fail(err error) {
	c.logger.Info("Conversion failed: %v", err)
	c.mu.Lock()
	c.progress.Status = StatusFailed
	c.mu.Unlock()
}

// closeDocument must be called with mu held.
func (c *Converter) closeDocument() {
	if c.doc != nil {
		if err := c.doc.Close(); err != nil {
			c.logger.Debug("Error closing document: %v", err)
		}
	}
	c.doc = nil
	c.source = nil
}
