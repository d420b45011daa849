package processor

import (
	"time"

	"github.com/nguyentantai21042004/tubedigest/internal/acquisition"
	"github.com/nguyentantai21042004/tubedigest/internal/config"
	"github.com/nguyentantai21042004/tubedigest/internal/events"
	"github.com/nguyentantai21042004/tubedigest/internal/logger"
	"github.com/nguyentantai21042004/tubedigest/internal/models"
	"github.com/nguyentantai21042004/tubedigest/internal/ratelimit"
	"github.com/nguyentantai21042004/tubedigest/internal/summarizer"
)

// ErrRateLimited is returned when the caller exceeded the request gate.
var ErrRateLimited = &models.ValidationError{Field: "client", Message: "Rate limit exceeded. Please try again later."}

// DefaultClient identifies requests that carry no client identifier.
const DefaultClient = "local"

// InboxClient is the identifier files picked up by the watcher are counted under.
const InboxClient = "inbox"

// Deps are the collaborators the processor drives.
type Deps struct {
	Limiter    *ratelimit.Limiter
	Acquirer   acquisition.Orchestrator
	Summarizer summarizer.Orchestrator
	Publisher  events.Publisher
	Recorder   Recorder
}

type implProcessor struct {
	cfg        *config.Config
	limiter    *ratelimit.Limiter
	acquirer   acquisition.Orchestrator
	summarizer summarizer.Orchestrator
	publisher  events.Publisher
	recorder   Recorder
	sem        *semaphore
	logger     logger.Logger
	now        func() time.Time
}

// New creates a new Processor instance
func New(cfg *config.Config, deps Deps, log logger.Logger) Processor {
	if deps.Limiter == nil {
		deps.Limiter = ratelimit.New()
	}
	if deps.Recorder == nil {
		deps.Recorder = nopRecorder{}
	}
	if deps.Publisher == nil {
		deps.Publisher = events.New(config.KafkaConfig{}, nil, log)
	}
	maxConcurrent := cfg.Performance.MaxConcurrent
	if maxConcurrent <= 0 {
		maxConcurrent = 1
	}

	return &implProcessor{
		cfg:        cfg,
		limiter:    deps.Limiter,
		acquirer:   deps.Acquirer,
		summarizer: deps.Summarizer,
		publisher:  deps.Publisher,
		recorder:   deps.Recorder,
		sem:        newSemaphore(maxConcurrent),
		logger:     log.With("processor"),
		now:        time.Now,
	}
}
