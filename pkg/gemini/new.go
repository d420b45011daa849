package gemini

import (
	"errors"
	"sync"

	"google.golang.org/genai"

	"github.com/nguyentantai21042004/tubedigest/internal/logger"
)

// DefaultModel is used when a request does not name one.
const DefaultModel = "gemini-2.5-flash"

type implClient struct {
	mu         sync.Mutex
	apiKeys    []string
	currentKey int
	clients    map[int]*genai.Client
	// uploaded files are only visible to the key that uploaded them
	owners map[string]int

	model  string
	logger logger.Logger
}

// New creates a Client that rotates through the supplied API keys.
func New(apiKeys []string, model string, log logger.Logger) (Client, error) {
	if len(apiKeys) == 0 {
		return nil, errors.New("gemini: at least one API key is required")
	}
	if model == "" {
		model = DefaultModel
	}
	return &implClient{
		apiKeys: apiKeys,
		clients: make(map[int]*genai.Client),
		owners:  make(map[string]int),
		model:   model,
		logger:  log.With("gemini"),
	}, nil
}
