package watcher

import (
	"fmt"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/nguyentantai21042004/tubedigest/internal/logger"
)

// Options tune which files are dispatched and how many run at once.
type Options struct {
	Extensions    []string
	MaxConcurrent int
	// SettleDelay is waited after a CREATE event so the writer can finish.
	SettleDelay time.Duration
}

// New creates a new Watcher instance with concurrency control
func New(inputDir string, handler EventHandler, log logger.Logger, opts Options) (Watcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}

	if err := watcher.Add(inputDir); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("add watch path: %w", err)
	}

	// Default to 2 concurrent if not specified
	if opts.MaxConcurrent <= 0 {
		opts.MaxConcurrent = 2
	}
	if len(opts.Extensions) == 0 {
		opts.Extensions = []string{".txt"}
	}
	if opts.SettleDelay < 0 {
		opts.SettleDelay = 0
	}
	exts := make([]string, 0, len(opts.Extensions))
	for _, e := range opts.Extensions {
		exts = append(exts, strings.ToLower(e))
	}

	return &implWatcher{
		inputDir:      inputDir,
		handler:       handler,
		logger:        log.With("watcher"),
		watcher:       watcher,
		extensions:    exts,
		settleDelay:   opts.SettleDelay,
		maxConcurrent: opts.MaxConcurrent,
		semaphore:     make(chan struct{}, opts.MaxConcurrent),
	}, nil
}
