// Package session owns the state of a conversion or replacement run: the loaded
// document, the user's settings, progress, and the processing flag that keeps a
// second run from starting while one is in flight.
package session

import (
	"errors"

	"github.com/kpauljoseph/slidepress/pkg/models"
)

var (
	ErrBusy       = errors.New("a run is already in progress")
	ErrNoDocument = errors.New("no PDF loaded")
	ErrNoRules    = errors.New("no replacement rules configured")
	ErrUnreadable = errors.New("could not read this file, it may be damaged")
)

const (
	StatusFailed = "Processing failed"
	StatusDone   = "Done! Download started."
)

// Sink receives finished artifacts and reports where they went.
type Sink interface {
	SaveArtifact(a models.Artifact) (string, error)
}

// Source is an uploaded document.
type Source struct {
	Name      string
	Data      []byte
	PageCount int
}

type Progress struct {
	Percent int
	Status  string
}
