package driver

import "context"

// Status is the state of one file in a check run.
type Status uint8

const (
	StatusQueued Status = iota
	StatusWorking
	StatusDone
	// StatusCached means the result came from the cache without linting.
	StatusCached
	// StatusError covers both unreadable and unparsable files.
	StatusError
)

func (s Status) String() string {
	switch s {
	case StatusQueued:
		return "queued"
	case StatusWorking:
		return "checking"
	case StatusDone:
		return "done"
	case StatusCached:
		return "cached"
	case StatusError:
		return "error"
	}
	return ""
}

// Event reports progress of one file.
type Event struct {
	File        string
	Status      Status
	Diagnostics int
}

func (o *Options) emit(ctx context.Context, ev Event) {
	if o.Events == nil {
		return
	}
	select {
	case o.Events <- ev:
	case <-ctx.Done():
	}
}
