package gemini

import "context"

// FileState is the lifecycle of an uploaded blob.
type FileState string

const (
	StateProcessing FileState = "processing"
	StateReady      FileState = "ready"
	StateFailed     FileState = "failed"
)

// File is a blob uploaded to the Gemini Files API.
type File struct {
	Name     string
	URI      string
	MIMEType string
	State    FileState
}

// GenerateRequest is a single-turn generation. File is optional and must have
// been returned by Upload on the same client.
type GenerateRequest struct {
	Model             string
	SystemInstruction string
	Prompt            string
	File              *File
	Temperature       *float32
	MaxOutputTokens   int32
}

type GenerateResult struct {
	Text         string
	FinishReason string
	BlockReason  string
}

// Client wraps the Gemini API with API key rotation.
type Client interface {
	Upload(ctx context.Context, path, mimeType string) (*File, error)
	GetFile(ctx context.Context, name string) (*File, error)
	DeleteFile(ctx context.Context, name string) error
	Generate(ctx context.Context, req GenerateRequest) (*GenerateResult, error)
}
