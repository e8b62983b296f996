package types

import (
	"fmt"
	"time"
)

// HTTPConfig holds the shared session settings used for every request to the
// video platform: the request timeout and the browser-mimicking header set.
// The search endpoint rejects clients that do not look like a browser, and
// yt-dlp is handed the same headers so the media CDN sees one consistent
// client.
type HTTPConfig struct {
	// Timeout bounds each search and warm-up request (default 10s).
	Timeout time.Duration `json:"timeout" yaml:"timeout" mapstructure:"timeout"`

	UserAgent      string `json:"user_agent" yaml:"user_agent" mapstructure:"user_agent"`
	Referer        string `json:"referer" yaml:"referer" mapstructure:"referer"`
	Origin         string `json:"origin" yaml:"origin" mapstructure:"origin"`
	Accept         string `json:"accept" yaml:"accept" mapstructure:"accept"`
	AcceptLanguage string `json:"accept_language" yaml:"accept_language" mapstructure:"accept_language"`
	Connection     string `json:"connection" yaml:"connection" mapstructure:"connection"`
}

// Headers returns the header set as canonical name/value pairs, skipping
// empty values.
func (c HTTPConfig) Headers() map[string]string {
	h := make(map[string]string, 6)
	set := func(name, value string) {
		if value != "" {
			h[name] = value
		}
	}
	set("User-Agent", c.UserAgent)
	set("Referer", c.Referer)
	set("Origin", c.Origin)
	set("Accept", c.Accept)
	set("Accept-Language", c.AcceptLanguage)
	set("Connection", c.Connection)
	return h
}

// SearchConfig holds settings for the search client.
type SearchConfig struct {
	// Endpoint is the video search API URL.
	Endpoint string `json:"endpoint" yaml:"endpoint" mapstructure:"endpoint"`

	// Homepage is fetched once at startup to pick up session cookies.
	Homepage string `json:"homepage" yaml:"homepage" mapstructure:"homepage"`

	// Page is the result page requested for each song (default 1).
	Page int `json:"page" yaml:"page" mapstructure:"page"`

	// PageSize is the number of results requested per search (default 20).
	PageSize int `json:"page_size" yaml:"page_size" mapstructure:"page_size"`

	// MaxRetries is the number of retries on HTTP 429 (default 2).
	MaxRetries int `json:"max_retries" yaml:"max_retries" mapstructure:"max_retries"`

	// RetryBaseDelay is the first backoff delay after a 429; it doubles per retry.
	RetryBaseDelay time.Duration `json:"retry_base_delay" yaml:"retry_base_delay" mapstructure:"retry_base_delay"`
}

// DownloadConfig holds the yt-dlp invocation settings.
type DownloadConfig struct {
	// Binary is the yt-dlp executable name or path.
	Binary string `json:"binary" yaml:"binary" mapstructure:"binary"`

	// AudioFormat is the target codec passed to --audio-format (default mp3).
	AudioFormat string `json:"audio_format" yaml:"audio_format" mapstructure:"audio_format"`

	// Retries is passed to both --retries and --fragment-retries (default 5).
	Retries int `json:"retries" yaml:"retries" mapstructure:"retries"`

	// CheckCertificate re-enables TLS verification. Off by default because
	// some platform CDNs serve certificates yt-dlp rejects.
	CheckCertificate bool `json:"check_certificate" yaml:"check_certificate" mapstructure:"check_certificate"`

	// ShowProgress streams yt-dlp stdout instead of capturing it.
	ShowProgress bool `json:"show_progress" yaml:"show_progress" mapstructure:"show_progress"`
}

// BatchConfig holds settings for the per-song pipeline.
type BatchConfig struct {
	// SongsFile is the default input list path (default songs.txt).
	SongsFile string `json:"songs_file" yaml:"songs_file" mapstructure:"songs_file"`

	// OutputDir is where audio files are written (default: working directory).
	OutputDir string `json:"output_dir" yaml:"output_dir" mapstructure:"output_dir"`

	// MaxDuration is the duration ceiling in seconds (default 600).
	MaxDuration int `json:"max_duration" yaml:"max_duration" mapstructure:"max_duration"`

	// MaxAttempts caps the candidates tried per song (default 3).
	MaxAttempts int `json:"max_attempts" yaml:"max_attempts" mapstructure:"max_attempts"`

	// Delay is an optional pause between consecutive songs (default 0).
	Delay time.Duration `json:"delay" yaml:"delay" mapstructure:"delay"`
}

// Config groups every stage configuration. It is built once at startup and
// passed by value into each component.
type Config struct {
	HTTP     HTTPConfig     `json:"http" yaml:"http" mapstructure:"http"`
	Search   SearchConfig   `json:"search" yaml:"search" mapstructure:"search"`
	Download DownloadConfig `json:"download" yaml:"download" mapstructure:"download"`
	Batch    BatchConfig    `json:"batch" yaml:"batch" mapstructure:"batch"`
}

// Defaults for the Bilibili search flow.
const (
	DefaultSearchEndpoint = "https://api.bilibili.com/x/web-interface/search/type"
	DefaultHomepage       = "https://www.bilibili.com"
	DefaultUserAgent      = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
	DefaultAccept         = "application/json, text/plain, */*"
	DefaultAcceptLanguage = "en-US,en;q=0.9,zh-CN;q=0.8,zh;q=0.7"

	DefaultMaxDuration = 600
	DefaultMaxAttempts = 3
	DefaultPageSize    = 20
)

// DefaultConfig returns the configuration used when no file, environment
// variable, or flag overrides a value.
func DefaultConfig() Config {
	return Config{
		HTTP: HTTPConfig{
			Timeout:        10 * time.Second,
			UserAgent:      DefaultUserAgent,
			Referer:        DefaultHomepage,
			Origin:         DefaultHomepage,
			Accept:         DefaultAccept,
			AcceptLanguage: DefaultAcceptLanguage,
			Connection:     "keep-alive",
		},
		Search: SearchConfig{
			Endpoint:       DefaultSearchEndpoint,
			Homepage:       DefaultHomepage,
			Page:           1,
			PageSize:       DefaultPageSize,
			MaxRetries:     2,
			RetryBaseDelay: 2 * time.Second,
		},
		Download: DownloadConfig{
			Binary:      "yt-dlp",
			AudioFormat: "mp3",
			Retries:     5,
		},
		Batch: BatchConfig{
			SongsFile:   "songs.txt",
			OutputDir:   ".",
			MaxDuration: DefaultMaxDuration,
			MaxAttempts: DefaultMaxAttempts,
		},
	}
}

// Validate reports the first setting that would break the pipeline.
func (c Config) Validate() error {
	switch {
	case c.Search.Endpoint == "":
		return fmt.Errorf("search.endpoint must not be empty")
	case c.Search.Page < 1:
		return fmt.Errorf("search.page must be >= 1, got %d", c.Search.Page)
	case c.Search.PageSize < 1:
		return fmt.Errorf("search.page_size must be >= 1, got %d", c.Search.PageSize)
	case c.Search.MaxRetries < 0:
		return fmt.Errorf("search.max_retries must be >= 0, got %d", c.Search.MaxRetries)
	case c.HTTP.Timeout <= 0:
		return fmt.Errorf("http.timeout must be positive, got %s", c.HTTP.Timeout)
	case c.Download.Binary == "":
		return fmt.Errorf("download.binary must not be empty")
	case c.Download.AudioFormat == "":
		return fmt.Errorf("download.audio_format must not be empty")
	case c.Download.Retries < 0:
		return fmt.Errorf("download.retries must be >= 0, got %d", c.Download.Retries)
	case c.Batch.MaxDuration < 0:
		return fmt.Errorf("batch.max_duration must be >= 0, got %d", c.Batch.MaxDuration)
	case c.Batch.MaxAttempts < 1:
		return fmt.Errorf("batch.max_attempts must be >= 1, got %d", c.Batch.MaxAttempts)
	case c.Batch.Delay < 0:
		return fmt.Errorf("batch.delay must not be negative, got %s", c.Batch.Delay)
	}
	return nil
}
