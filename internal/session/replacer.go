package session

import (
	"context"
	"fmt"
	"sync"

	"github.com/kpauljoseph/slidepress/internal/filetype"
	"github.com/kpauljoseph/slidepress/internal/imagecheck"
	"github.com/kpauljoseph/slidepress/internal/pdf"
	"github.com/kpauljoseph/slidepress/internal/rules"
	"github.com/kpauljoseph/slidepress/pkg/logger"
	"github.com/kpauljoseph/slidepress/pkg/models"
)

// Compositor is the document side of the replacement pipeline.
type Compositor interface {
	PageCount(data []byte) (int, error)
	Apply(ctx context.Context, data []byte, rs []rules.Rule, progress pdf.ProgressFunc) ([]byte, error)
}

type stagedImage struct {
	name string
	data []byte
}

// Replacer drives the page replacement pipeline: stage an image, pair it with a
// page as a rule, repeat, then execute every rule at once.
type Replacer struct {
	compositor Compositor
	checker    *imagecheck.Checker
	sink       Sink
	logger     *logger.Logger

	mu         sync.Mutex
	source     *Source
	rules      rules.Set
	staged     *stagedImage
	check      imagecheck.Result
	progress   Progress
	processing bool
}

func NewReplacer(compositor Compositor, checker *imagecheck.Checker, sink Sink, log *logger.Logger) *Replacer {
	if log == nil {
		log = logger.Discard()
	}
	return &Replacer{
		compositor: compositor,
		checker:    checker,
		sink:       sink,
		logger:     log,
	}
}

// Load replaces the current document and clears the rule set.
func (r *Replacer) Load(name string, data []byte) error {
	if err := filetype.RequirePDF(data); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.processing {
		return ErrBusy
	}

	pageCount, err := r.compositor.PageCount(data)
	if err != nil {
		r.logger.Debug("Failed to read %s: %v", name, err)
		return fmt.Errorf("%w: %v", ErrUnreadable, err)
	}

	r.source = &Source{Name: name, Data: data, PageCount: pageCount}
	r.rules.Clear()
	r.progress = Progress{}
	r.logger.Info("Loaded %s (%d pages)", name, pageCount)
	return nil
}

func (r *Replacer) Reset() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.processing {
		return ErrBusy
	}
	r.source = nil
	r.rules.Clear()
	r.staged = nil
	r.check = imagecheck.Result{}
	r.progress = Progress{}
	return nil
}

// StageImage holds an image for the next AddRule and classifies it. The result
// is advisory; a warning never blocks the image from being used.
func (r *Replacer) StageImage(name string, data []byte) (imagecheck.Result, error) {
	if _, err := filetype.RequireImage(data); err != nil {
		return imagecheck.Result{}, err
	}
	res, err := r.checker.Inspect(data)
	if err != nil {
		return imagecheck.Result{}, fmt.Errorf("%w: %v", ErrUnreadable, err)
	}

	r.mu.Lock()
	r.staged = &stagedImage{name: name, data: data}
	r.check = res
	r.mu.Unlock()

	if res.Status == imagecheck.StatusWarning {
		r.logger.Warn("%s: %s", name, res.Message)
	} else {
		r.logger.Debug("%s: %s", name, res.Message)
	}
	return res, nil
}

// AddRule pairs the staged image with page. The staged image is consumed
// whether the rule was added or an overwrite was declined.
func (r *Replacer) AddRule(page int, confirm rules.ConfirmFunc) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if page < 1 {
		return false, fmt.Errorf("%w: %d", rules.ErrInvalidPage, page)
	}
	if r.staged == nil {
		return false, rules.ErrMissingImage
	}

	added, err := r.rules.Add(rules.Rule{Page: page, Image: r.staged.data, FileName: r.staged.name}, confirm)
	if err != nil {
		return false, err
	}
	r.staged = nil
	r.check = imagecheck.Result{}
	return added, nil
}

func (r *Replacer) RemoveRule(index int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.processing {
		return ErrBusy
	}
	return r.rules.Remove(index)
}

func (r *Replacer) Rules() []rules.Rule {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rules.Rules()
}

func (r *Replacer) Source() *Source {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.source
}

func (r *Replacer) Progress() Progress {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.progress
}

// Execute applies every rule and saves the edited document, returning where it
// was saved. No file is saved unless every rule succeeds.
func (r *Replacer) Execute(ctx context.Context, onProgress pdf.ProgressFunc) (string, error) {
	r.mu.Lock()
	if r.source == nil {
		r.mu.Unlock()
		return "", ErrNoDocument
	}
	if r.rules.Len() == 0 {
		r.mu.Unlock()
		return "", ErrNoRules
	}
	if r.processing {
		r.mu.Unlock()
		return "", ErrBusy
	}
	r.processing = true
	source := *r.source
	rs := r.rules.Rules()
	r.mu.Unlock()

	defer func() {
		r.mu.Lock()
		r.processing = false
		r.mu.Unlock()
	}()

	report := func(percent int, status string) {
		r.mu.Lock()
		r.progress = Progress{Percent: percent, Status: status}
		r.mu.Unlock()
		if onProgress != nil {
			onProgress(percent, status)
		}
	}

	report(0, "Loading PDF...")
	out, err := r.compositor.Apply(ctx, source.Data, rs, func(percent int, status string) {
		report(percent*9/10, status)
	})
	if err != nil {
		r.fail(err)
		return "", err
	}

	report(90, "Writing new file...")
	path, err := r.sink.SaveArtifact(models.Artifact{
		Name: pdf.EditedName(pdf.BaseName(source.Name)),
		Data: out,
	})
	if err != nil {
		r.fail(err)
		return "", err
	}

	report(100, StatusDone)
	return path, nil
}

func (r *Replacer) fail(err error) {
	r.logger.Info("Replacement failed: %v", err)
	r.mu.Lock()
	r.progress.Status = StatusFailed
	r.mu.Unlock()
}
