package processor

import (
	"errors"

	"go.uber.org/zap"
)

// ErrConfiguration wraps every error that prevents a batch from starting.
var ErrConfiguration = errors.New("configuration error")

var (
	errStopped    = errors.New("stopped before the file was started")
	errNotRegular = errors.New("not a regular file")
	errExtension  = errors.New("unsupported extension")
)

type Options struct {
	OutputDir   string
	Prefix      string
	JPEGQuality int
	Logger      *zap.Logger
}

// ProgressFunc is called once per valid file, after that file has been
// handled, with the number of files handled so far.
type ProgressFunc func(completed, total int, name string)

// Outcome summarises one batch. Total counts the valid files only;
// FailedFiles lists valid files that failed or were skipped, in input order,
// followed by the files rejected during validation.
type Outcome struct {
	Succeeded   int
	Total       int
	FailedFiles []string
}

type Job struct {
	Path   string
	Name   string
	Output string
}

type State int

const (
	StateIdle State = iota
	StateValidating
	StateProcessing
	StateCompleted
)

func (s State) String() string {
	switch s {
	case StateValidating:
		return "validating"
	case StateProcessing:
		return "processing"
	case StateCompleted:
		return "completed"
	default:
		return "idle"
	}
}

// Status is a snapshot of an engine's progress.
type Status struct {
	State   State
	Current int
	Total   int
}

type ProgressUpdate struct {
	Completed int
	Total     int
	Name      string
}

// ChannelProgress adapts updates to a ProgressFunc. Sends never block: when
// the channel is full the update is dropped, since the next one supersedes it.
func ChannelProgress(updates chan<- ProgressUpdate) ProgressFunc {
	return func(completed, total int, name string) {
		select {
		case updates <- ProgressUpdate{Completed: completed, Total: total, Name: name}:
		default:
		}
	}
}
