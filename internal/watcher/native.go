package watcher

import (
	"strings"

	"github.com/fsnotify/fsnotify"
)

// NativeWatcher is the subset of *fsnotify.Watcher the supervisor uses.
type NativeWatcher interface {
	Add(name string) error
	Close() error
	Events() <-chan fsnotify.Event
	Errors() <-chan error
}

// NativeFactory opens a native watcher.
type NativeFactory func() (NativeWatcher, error)

type fsnotifyWatcher struct {
	*fsnotify.Watcher
}

func newFSNotifyWatcher() (NativeWatcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	return fsnotifyWatcher{w}, nil
}

func (w fsnotifyWatcher) Events() <-chan fsnotify.Event { return w.Watcher.Events }
func (w fsnotifyWatcher) Errors() <-chan error          { return w.Watcher.Errors }

// opName maps an fsnotify operation to the event name forwarded to the sink.
func opName(op fsnotify.Op) string {
	switch {
	case op.Has(fsnotify.Create):
		return "create"
	case op.Has(fsnotify.Write):
		return "write"
	case op.Has(fsnotify.Remove):
		return "remove"
	case op.Has(fsnotify.Rename):
		return "rename"
	case op.Has(fsnotify.Chmod):
		return "chmod"
	}
	return strings.ToLower(op.String())
}
