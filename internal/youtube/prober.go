package youtube

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"time"
)

func (p *implProber) Probe(ctx context.Context, url string) (*VideoInfo, error) {
	if p.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}

	args := []string{"-J", "--skip-download", "--no-playlist", "--no-warnings"}
	args = append(args, commonArgs(p.socket, p.cookiesFile)...)
	args = append(args, url)

	p.logger.Debug(ctx, "Probing video metadata: %s", url)
	out, err := p.executor.Execute(ctx, p.binary, args...)
	if err != nil {
		return nil, fmt.Errorf("yt-dlp probe: %w", err)
	}

	var info VideoInfo
	if err := json.Unmarshal([]byte(out), &info); err != nil {
		return nil, fmt.Errorf("decode yt-dlp metadata: %w", err)
	}
	return &info, nil
}

// commonArgs are the network flags shared by every yt-dlp invocation. The
// cookies file is only passed when it exists.
func commonArgs(socket time.Duration, cookiesFile string) []string {
	var args []string
	if socket > 0 {
		args = append(args, "--socket-timeout", strconv.Itoa(int(socket.Seconds())))
	}
	if cookiesFile != "" {
		if _, err := os.Stat(cookiesFile); err == nil {
			args = append(args, "--cookies", cookiesFile)
		}
	}
	return args
}
