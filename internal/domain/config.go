package domain

import "time"

// Config represents the application configuration
type Config struct {
	Server       ServerConfig       `mapstructure:"server"`
	Queue        QueueConfig        `mapstructure:"queue"`
	Worker       WorkerConfig       `mapstructure:"worker"`
	Probe        ProbeConfig        `mapstructure:"probe"`
	Fetch        FetchConfig        `mapstructure:"fetch"`
	History      HistoryConfig      `mapstructure:"history"`
	Notification NotificationConfig `mapstructure:"notification"`
	Logging      LoggingConfig      `mapstructure:"logging"`
}

// ServerConfig contains the HTTP API configuration
type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
}

// QueueConfig contains task queue configuration
type QueueConfig struct {
	// Capacity bounds the queue; 0 means unbounded.
	Capacity int `mapstructure:"capacity"`
}

// WorkerConfig contains download worker configuration
type WorkerConfig struct {
	// PollInterval is how long the worker sleeps between dequeue attempts
	// while the queue is empty.
	PollInterval time.Duration `mapstructure:"poll_interval"`
	// RetryBackoff is how long the worker sleeps before retrying an item
	// after a failure with no network connection.
	RetryBackoff time.Duration `mapstructure:"retry_backoff"`
}

// ProbeConfig contains connectivity probe configuration
type ProbeConfig struct {
	URL     string        `mapstructure:"url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// FetchConfig contains yt-dlp fetcher configuration
type FetchConfig struct {
	Binary           string `mapstructure:"binary"`
	OutputDir        string `mapstructure:"output_dir"`
	OutputTemplate   string `mapstructure:"output_template"`
	Format           string `mapstructure:"format"`
	SocketTimeout    int    `mapstructure:"socket_timeout"`
	CheckCertificate bool   `mapstructure:"check_certificate"`
	CookieFile       string `mapstructure:"cookie_file"`
	LogsDir          string `mapstructure:"logs_dir"`
}

// HistoryConfig contains download-history configuration
type HistoryConfig struct {
	DatabasePath string `mapstructure:"database_path"`
}

// NotificationConfig contains notification-related configuration
type NotificationConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Sound   bool   `mapstructure:"sound"`
	Method  string `mapstructure:"method"` // osascript, notify-send, etc.
}

// LoggingConfig contains logging-related configuration
type LoggingConfig struct {
	Level      string `mapstructure:"level"`       // debug, info, warn, error
	Format     string `mapstructure:"format"`      // json, console
	OutputPath string `mapstructure:"output_path"` // stdout, stderr, or file path
}

// DefaultOptions builds the fetcher options implied by the configuration.
// Per-request overrides are applied on top with Options.Set.
func (c FetchConfig) DefaultOptions() Options {
	opts := Options{
		{Key: OptOutputTemplate, Value: c.OutputTemplate},
		{Key: OptFormat, Value: c.Format},
		{Key: OptNoPlaylist, Value: true},
		{Key: OptSocketTimeout, Value: c.SocketTimeout},
		{Key: OptNoCheckCertificate, Value: !c.CheckCertificate},
	}
	if c.CookieFile != "" {
		opts = opts.Set(OptCookieFile, c.CookieFile)
	}
	return opts
}

// DefaultConfig returns a configuration with default values
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host: "localhost",
			Port: 8080,
		},
		Queue: QueueConfig{
			Capacity: 0,
		},
		Worker: WorkerConfig{
			PollInterval: 100 * time.Millisecond,
			RetryBackoff: 1 * time.Second,
		},
		Probe: ProbeConfig{
			URL:     "https://www.google.com",
			Timeout: 3 * time.Second,
		},
		Fetch: FetchConfig{
			Binary:         "yt-dlp",
			OutputDir:      "$HOME/Downloads/mediaq",
			OutputTemplate: "%(title)s - %(uploader)s.%(ext)s",
			Format: "(bestvideo[ext=mp4][width=1920]/bestvideo[ext=mp4])+" +
				"bestaudio[ext=m4a]/bestvideo+bestaudio/best[ext=mp4]/best",
			SocketTimeout:    5,
			CheckCertificate: true,
			CookieFile:       "",
			LogsDir:          "$HOME/Downloads/mediaq/logs",
		},
		History: HistoryConfig{
			DatabasePath: "$HOME/Downloads/mediaq/config/history.db",
		},
		Notification: NotificationConfig{
			Enabled: true,
			Sound:   true,
			Method:  "notify-send",
		},
		Logging: LoggingConfig{
			Level:      "info",
			Format:     "console",
			OutputPath: "stdout",
		},
	}
}
