package summarizer

import (
	"context"
	"fmt"
	"strings"

	"github.com/nguyentantai21042004/tubedigest/internal/config"
	"github.com/nguyentantai21042004/tubedigest/pkg/gemini"
)

type geminiProvider struct {
	client      gemini.Client
	model       string
	temperature float32
}

// NewGemini creates the Gemini summarization provider. Returns nil when client is nil.
func NewGemini(cfg config.GeminiConfig, client gemini.Client) Provider {
	if client == nil {
		return nil
	}
	return &geminiProvider{
		client:      client,
		model:       cfg.Model,
		temperature: float32(cfg.Temperature),
	}
}

func (p *geminiProvider) Name() string { return "gemini" }

func (p *geminiProvider) Summarize(ctx context.Context, req Request) (string, error) {
	temperature := p.temperature
	res, err := p.client.Generate(ctx, gemini.GenerateRequest{
		Model:             p.model,
		SystemInstruction: req.System,
		Prompt:            req.Message(),
		Temperature:       &temperature,
		MaxOutputTokens:   int32(req.MaxTokens),
	})
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(res.Text) == "" {
		return "", fmt.Errorf("empty response (finish_reason=%q, block_reason=%q)", res.FinishReason, res.BlockReason)
	}
	return res.Text, nil
}
