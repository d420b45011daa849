package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	YouTube     YouTubeConfig     `yaml:"youtube"`
	Download    DownloadConfig    `yaml:"download"`
	Whisper     WhisperConfig     `yaml:"whisper"`
	FFmpeg      FFmpegConfig      `yaml:"ffmpeg"`
	Gemini      GeminiConfig      `yaml:"gemini"`
	Perplexity  PerplexityConfig  `yaml:"perplexity"`
	Summary     SummaryConfig     `yaml:"summary"`
	Upload      UploadConfig      `yaml:"upload"`
	RateLimit   RateLimitConfig   `yaml:"rate_limit"`
	Paths       PathsConfig       `yaml:"paths"`
	Logging     LoggingConfig     `yaml:"logging"`
	Performance PerformanceConfig `yaml:"performance"`
	Kafka       KafkaConfig       `yaml:"kafka"`
	Metrics     MetricsConfig     `yaml:"metrics"`
}

type YouTubeConfig struct {
	BinaryPath      string        `yaml:"binary_path"`
	CookiesFile     string        `yaml:"cookies_file"`
	CaptionLanguage string        `yaml:"caption_language"`
	MaxDuration     time.Duration `yaml:"max_duration"`
	SocketTimeout   time.Duration `yaml:"socket_timeout"`
	CaptionTimeout  time.Duration `yaml:"caption_timeout"`
}

type DownloadConfig struct {
	Attempts     int           `yaml:"attempts"`
	InitialDelay time.Duration `yaml:"initial_delay"`
	Multiplier   float64       `yaml:"multiplier"`
	Timeout      time.Duration `yaml:"timeout"`
	AudioBitrate string        `yaml:"audio_bitrate"`
}

type WhisperConfig struct {
	ModelPath  string        `yaml:"model_path"`
	BinaryPath string        `yaml:"binary_path"`
	Language   string        `yaml:"language"`
	Prompt     string        `yaml:"prompt"`
	Threads    int           `yaml:"threads"`
	BestOf     int           `yaml:"best_of"`
	Timeout    time.Duration `yaml:"timeout"`
}

type FFmpegConfig struct {
	BinaryPath string `yaml:"binary_path"`
}

type GeminiConfig struct {
	APIKeys            []string      `yaml:"api_keys"`
	Model              string        `yaml:"model"`
	TranscriptionModel string        `yaml:"transcription_model"`
	Temperature        float64       `yaml:"temperature"`
	PollInterval       time.Duration `yaml:"poll_interval"`
	MaxProcessingWait  time.Duration `yaml:"max_processing_wait"`
	Timeout            time.Duration `yaml:"timeout"`
}

type PerplexityConfig struct {
	APIKey      string        `yaml:"api_key"`
	BaseURL     string        `yaml:"base_url"`
	Model       string        `yaml:"model"`
	Temperature float64       `yaml:"temperature"`
	Timeout     time.Duration `yaml:"timeout"`
}

type SummaryConfig struct {
	Language      string        `yaml:"language"`
	MaxTextLength int           `yaml:"max_text_length"`
	Timeout       time.Duration `yaml:"timeout"`
}

type UploadConfig struct {
	MaxSize     int64         `yaml:"max_size"`
	Extensions  []string      `yaml:"extensions"`
	SettleDelay time.Duration `yaml:"settle_delay"`
}

type RateLimitConfig struct {
	Requests      int           `yaml:"requests"`
	Window        time.Duration `yaml:"window"`
	SweepInterval time.Duration `yaml:"sweep_interval"`
}

type PathsConfig struct {
	Input    string `yaml:"input"`
	Output   string `yaml:"output"`
	Archived string `yaml:"archived"`
	Temp     string `yaml:"temp"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

type PerformanceConfig struct {
	MaxConcurrent int `yaml:"max_concurrent"`
}

type KafkaConfig struct {
	Enabled          bool     `yaml:"enabled"`
	Brokers          []string `yaml:"brokers"`
	TopicTranscripts string   `yaml:"topic_transcripts"`
	TopicSummaries   string   `yaml:"topic_summaries"`
	Principal        string   `yaml:"principal"`
}

type MetricsConfig struct {
	Textfile string `yaml:"textfile"`
}

// Load reads the YAML file at path, applies environment overrides for secrets
// and validates the result
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &cfg, nil
}

// applyEnv lets secrets live outside the config file
func (c *Config) applyEnv() {
	if v := strings.TrimSpace(os.Getenv("GEMINI_API_KEYS")); v != "" {
		c.Gemini.APIKeys = splitList(v)
	} else if v := strings.TrimSpace(os.Getenv("GEMINI_API_KEY")); v != "" {
		c.Gemini.APIKeys = []string{v}
	}
	if v := strings.TrimSpace(os.Getenv("PERPLEXITY_API_KEY")); v != "" {
		c.Perplexity.APIKey = v
	}
}

func splitList(v string) []string {
	var out []string
	for _, p := range strings.Split(v, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func (c *Config) Validate() error {
	if c.Whisper.ModelPath == "" {
		return fmt.Errorf("whisper.model_path is required")
	}
	if c.Paths.Input == "" {
		return fmt.Errorf("paths.input is required")
	}
	if c.Paths.Output == "" {
		return fmt.Errorf("paths.output is required")
	}
	if c.Summary.MaxTextLength < 0 {
		return fmt.Errorf("summary.max_text_length must be positive, got %d", c.Summary.MaxTextLength)
	}
	if c.Summary.MaxTextLength > 100000 {
		return fmt.Errorf("summary.max_text_length too large (%d), maximum is 100000", c.Summary.MaxTextLength)
	}
	if c.Download.Attempts < 0 {
		return fmt.Errorf("download.attempts must be positive, got %d", c.Download.Attempts)
	}
	if c.Download.Multiplier != 0 && c.Download.Multiplier < 1 {
		return fmt.Errorf("download.multiplier must be >= 1, got %v", c.Download.Multiplier)
	}
	if c.RateLimit.Requests < 0 {
		return fmt.Errorf("rate_limit.requests must be positive, got %d", c.RateLimit.Requests)
	}

	if c.YouTube.BinaryPath == "" {
		c.YouTube.BinaryPath = "yt-dlp"
	}
	if c.YouTube.CaptionLanguage == "" {
		c.YouTube.CaptionLanguage = "pl"
	}
	if c.YouTube.MaxDuration == 0 {
		c.YouTube.MaxDuration = 5400 * time.Second
	}
	if c.YouTube.SocketTimeout == 0 {
		c.YouTube.SocketTimeout = 60 * time.Second
	}
	if c.YouTube.CaptionTimeout == 0 {
		c.YouTube.CaptionTimeout = 60 * time.Second
	}
	if c.Download.Attempts == 0 {
		c.Download.Attempts = 3
	}
	if c.Download.InitialDelay == 0 {
		c.Download.InitialDelay = 5 * time.Second
	}
	if c.Download.Multiplier == 0 {
		c.Download.Multiplier = 1.5
	}
	if c.Download.Timeout == 0 {
		c.Download.Timeout = 5 * time.Minute
	}
	if c.Download.AudioBitrate == "" {
		c.Download.AudioBitrate = "128K"
	}
	if c.Whisper.BinaryPath == "" {
		c.Whisper.BinaryPath = "whisper-cli"
	}
	if c.Whisper.Language == "" {
		c.Whisper.Language = c.YouTube.CaptionLanguage
	}
	if c.Whisper.Threads == 0 {
		c.Whisper.Threads = 8
	}
	if c.Whisper.BestOf == 0 {
		c.Whisper.BestOf = 5
	}
	if c.Whisper.Timeout == 0 {
		c.Whisper.Timeout = 30 * time.Minute
	}
	if c.FFmpeg.BinaryPath == "" {
		c.FFmpeg.BinaryPath = "ffmpeg"
	}
	if c.Gemini.Model == "" {
		c.Gemini.Model = "gemini-2.5-flash"
	}
	if c.Gemini.TranscriptionModel == "" {
		c.Gemini.TranscriptionModel = c.Gemini.Model
	}
	if c.Gemini.Temperature == 0 {
		c.Gemini.Temperature = 0.7
	}
	if c.Gemini.PollInterval == 0 {
		c.Gemini.PollInterval = 2 * time.Second
	}
	if c.Gemini.MaxProcessingWait == 0 {
		c.Gemini.MaxProcessingWait = 10 * time.Minute
	}
	if c.Gemini.Timeout == 0 {
		c.Gemini.Timeout = 5 * time.Minute
	}
	if c.Perplexity.BaseURL == "" {
		c.Perplexity.BaseURL = "https://api.perplexity.ai"
	}
	if c.Perplexity.Model == "" {
		c.Perplexity.Model = "sonar"
	}
	if c.Perplexity.Temperature == 0 {
		c.Perplexity.Temperature = 0.2
	}
	if c.Perplexity.Timeout == 0 {
		c.Perplexity.Timeout = 120 * time.Second
	}
	if c.Summary.Language == "" {
		c.Summary.Language = "pl"
	}
	if c.Summary.MaxTextLength == 0 {
		c.Summary.MaxTextLength = 20000
	}
	if c.Summary.Timeout == 0 {
		c.Summary.Timeout = 120 * time.Second
	}
	if c.Upload.MaxSize == 0 {
		c.Upload.MaxSize = 5 * 1024 * 1024
	}
	if len(c.Upload.Extensions) == 0 {
		c.Upload.Extensions = []string{".txt"}
	}
	if c.Upload.SettleDelay == 0 {
		c.Upload.SettleDelay = 500 * time.Millisecond
	}
	if c.RateLimit.Requests == 0 {
		c.RateLimit.Requests = 50
	}
	if c.RateLimit.Window == 0 {
		c.RateLimit.Window = time.Hour
	}
	if c.RateLimit.SweepInterval == 0 {
		c.RateLimit.SweepInterval = 10 * time.Minute
	}
	if c.Paths.Archived == "" {
		c.Paths.Archived = "data/archived"
	}
	if c.Paths.Temp == "" {
		c.Paths.Temp = os.TempDir()
	}
	if c.Performance.MaxConcurrent == 0 {
		c.Performance.MaxConcurrent = 2
	}
	if c.Kafka.TopicTranscripts == "" {
		c.Kafka.TopicTranscripts = "tubedigest.transcripts"
	}
	if c.Kafka.TopicSummaries == "" {
		c.Kafka.TopicSummaries = "tubedigest.summaries"
	}

	return nil
}
