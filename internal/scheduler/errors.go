package scheduler

import "errors"

var (
	// ErrSurfaceUnavailable means no surface could be acquired; the
	// animation does not start.
	ErrSurfaceUnavailable = errors.New("scheduler: surface unavailable")

	// ErrNotRunning is returned by Run before Start succeeded.
	ErrNotRunning = errors.New("scheduler: not running")
)
