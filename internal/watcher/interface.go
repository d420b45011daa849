// Package watcher dispatches transcript files dropped into the inbox folder.
package watcher

import "context"

// Watcher monitors one directory until its context is cancelled.
type Watcher interface {
	// Start blocks, dispatching files to the handler, and returns after
	// in-flight handlers have finished.
	Start(ctx context.Context) error
	Stop() error
}

// EventHandler processes one newly created file. Its error is logged and
// does not stop the watcher.
type EventHandler func(ctx context.Context, filePath string) error
