package watcher

import "errors"

var (
	// ErrRelativePath is returned by Watch for a path that is not absolute.
	ErrRelativePath = errors.New("watch path must be absolute")

	// ErrSupervisorStopped is returned by Watch after Stop.
	ErrSupervisorStopped = errors.New("watch supervisor stopped")
)
