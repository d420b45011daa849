package youtube

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/nguyentantai21042004/tubedigest/internal/config"
)

type fakeExecutor struct {
	mu      sync.Mutex
	calls   [][]string
	handler func(name string, args []string) (string, error)
}

func (f *fakeExecutor) Execute(_ context.Context, name string, args ...string) (string, error) {
	f.mu.Lock()
	f.calls = append(f.calls, append([]string{name}, args...))
	f.mu.Unlock()
	if f.handler == nil {
		return "", nil
	}
	return f.handler(name, args)
}

func (f *fakeExecutor) ExecuteInDir(ctx context.Context, _ string, name string, args ...string) (string, error) {
	return f.Execute(ctx, name, args...)
}

func (f *fakeExecutor) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

type fakeProber struct {
	info  *VideoInfo
	err   error
	calls int
}

func (f *fakeProber) Probe(context.Context, string) (*VideoInfo, error) {
	f.calls++
	return f.info, f.err
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		YouTube: config.YouTubeConfig{
			BinaryPath:      "yt-dlp",
			CaptionLanguage: "pl",
			MaxDuration:     5400 * time.Second,
			SocketTimeout:   60 * time.Second,
			CaptionTimeout:  5 * time.Second,
		},
		Download: config.DownloadConfig{
			Attempts:     3,
			InitialDelay: time.Millisecond,
			Multiplier:   1.5,
			Timeout:      5 * time.Second,
			AudioBitrate: "128K",
		},
		Paths: config.PathsConfig{Temp: t.TempDir()},
	}
}

// argValue returns the value following flag in args.
func argValue(args []string, flag string) string {
	for i := 0; i < len(args)-1; i++ {
		if args[i] == flag {
			return args[i+1]
		}
	}
	return ""
}
