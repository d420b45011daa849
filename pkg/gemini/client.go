package gemini

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

func (c *implClient) Upload(ctx context.Context, path, mimeType string) (*File, error) {
	var out *File
	err := c.withRotation(ctx, func(ctx context.Context, cl *genai.Client, key int) error {
		f, err := cl.Files.UploadFromPath(ctx, path, &genai.UploadFileConfig{MIMEType: mimeType})
		if err != nil {
			return err
		}
		out = fromGenai(f)
		c.mu.Lock()
		c.owners[out.Name] = key
		c.mu.Unlock()
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("upload %s: %w", path, err)
	}
	return out, nil
}

func (c *implClient) GetFile(ctx context.Context, name string) (*File, error) {
	cl, err := c.ownerClient(ctx, name)
	if err != nil {
		return nil, err
	}
	f, err := cl.Files.Get(ctx, name, nil)
	if err != nil {
		return nil, fmt.Errorf("get file %s: %w", name, err)
	}
	return fromGenai(f), nil
}

func (c *implClient) DeleteFile(ctx context.Context, name string) error {
	cl, err := c.ownerClient(ctx, name)
	if err != nil {
		return err
	}
	if _, err := cl.Files.Delete(ctx, name, nil); err != nil {
		return fmt.Errorf("delete file %s: %w", name, err)
	}
	c.mu.Lock()
	delete(c.owners, name)
	c.mu.Unlock()
	return nil
}

func (c *implClient) Generate(ctx context.Context, req GenerateRequest) (*GenerateResult, error) {
	model := req.Model
	if model == "" {
		model = c.model
	}

	parts := make([]*genai.Part, 0, 2)
	if req.File != nil {
		parts = append(parts, genai.NewPartFromURI(req.File.URI, req.File.MIMEType))
	}
	parts = append(parts, genai.NewPartFromText(req.Prompt))
	contents := []*genai.Content{genai.NewContentFromParts(parts, genai.RoleUser)}

	config := &genai.GenerateContentConfig{
		Temperature:     req.Temperature,
		MaxOutputTokens: req.MaxOutputTokens,
	}
	if req.SystemInstruction != "" {
		config.SystemInstruction = genai.NewContentFromText(req.SystemInstruction, genai.RoleUser)
	}

	run := func(ctx context.Context, cl *genai.Client) (*GenerateResult, error) {
		resp, err := cl.Models.GenerateContent(ctx, model, contents, config)
		if err != nil {
			return nil, err
		}
		return fromResponse(resp), nil
	}

	// a request bound to a file cannot move to another key
	if req.File != nil {
		cl, err := c.ownerClient(ctx, req.File.Name)
		if err != nil {
			return nil, err
		}
		res, err := run(ctx, cl)
		if err != nil {
			return nil, fmt.Errorf("generate content: %w", err)
		}
		return res, nil
	}

	var out *GenerateResult
	err := c.withRotation(ctx, func(ctx context.Context, cl *genai.Client, _ int) error {
		res, err := run(ctx, cl)
		if err != nil {
			return err
		}
		out = res
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("generate content: %w", err)
	}
	return out, nil
}

// withRotation runs fn with the current key and moves to the next key when
// the API reports a quota problem. Every key is tried at most once.
func (c *implClient) withRotation(ctx context.Context, fn func(ctx context.Context, cl *genai.Client, key int) error) error {
	return c.rotate(ctx, func(ctx context.Context, key int) error {
		cl, err := c.client(ctx, key)
		if err != nil {
			return err
		}
		return fn(ctx, cl, key)
	})
}

func (c *implClient) rotate(ctx context.Context, fn func(ctx context.Context, key int) error) error {
	var lastErr error
	for range len(c.apiKeys) {
		key := c.current()
		err := fn(ctx, key)
		if err == nil {
			return nil
		}
		if !isQuotaError(err) {
			return err
		}
		c.logger.Warn(ctx, "Key %d rate limited, rotating...", key+1)
		c.rotateKey(key)
		lastErr = err
	}
	return fmt.Errorf("all API keys exhausted: %w", lastErr)
}

func (c *implClient) current() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.currentKey
}

// rotateKey advances past from unless another caller already did.
func (c *implClient) rotateKey(from int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.currentKey == from {
		c.currentKey = (c.currentKey + 1) % len(c.apiKeys)
	}
}

func (c *implClient) client(ctx context.Context, key int) (*genai.Client, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if cl, ok := c.clients[key]; ok {
		return cl, nil
	}
	cl, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  c.apiKeys[key],
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create client: %w", err)
	}
	c.clients[key] = cl
	return cl, nil
}

func (c *implClient) ownerClient(ctx context.Context, name string) (*genai.Client, error) {
	c.mu.Lock()
	key, ok := c.owners[name]
	if !ok {
		key = c.currentKey
	}
	c.mu.Unlock()
	return c.client(ctx, key)
}

func isQuotaError(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "429") || strings.Contains(msg, "quota") || strings.Contains(msg, "RESOURCE_EXHAUSTED")
}

func fromGenai(f *genai.File) *File {
	if f == nil {
		return &File{State: StateFailed}
	}
	return &File{
		Name:     f.Name,
		URI:      f.URI,
		MIMEType: f.MIMEType,
		State:    stateFromGenai(f.State),
	}
}

func stateFromGenai(s genai.FileState) FileState {
	switch s {
	case genai.FileStateActive:
		return StateReady
	case genai.FileStateFailed:
		return StateFailed
	default:
		return StateProcessing
	}
}

func fromResponse(resp *genai.GenerateContentResponse) *GenerateResult {
	res := &GenerateResult{}
	if resp == nil {
		return res
	}
	if resp.PromptFeedback != nil {
		res.BlockReason = string(resp.PromptFeedback.BlockReason)
	}
	if len(resp.Candidates) == 0 {
		return res
	}
	cand := resp.Candidates[0]
	res.FinishReason = string(cand.FinishReason)
	if cand.Content == nil {
		return res
	}
	var b strings.Builder
	for _, part := range cand.Content.Parts {
		if part != nil && part.Text != "" {
			b.WriteString(part.Text)
		}
	}
	res.Text = b.String()
	return res
}
