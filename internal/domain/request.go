package domain

import (
	"time"

	"github.com/google/uuid"
)

// Request represents one queued download. It is immutable once enqueued;
// the worker never mutates it and the producer keeps no reference.
type Request struct {
	ID       string    `json:"id"`
	URL      string    `json:"url"`
	Private  bool      `json:"private"`
	Options  Options   `json:"options,omitempty"`
	QueuedAt time.Time `json:"queued_at"`
}

// NewRequest creates a download request for the given URL.
func NewRequest(url string, private bool, options Options) Request {
	return Request{
		ID:       uuid.New().String(),
		URL:      url,
		Private:  private,
		Options:  options,
		QueuedAt: time.Now(),
	}
}

// Option is a single fetcher option. Options are carried as an ordered list
// rather than a map so the fetcher sees them in the order they were set.
type Option struct {
	Key   string      `json:"key"`
	Value interface{} `json:"value"`
}

// Options is an ordered set of key/value pairs passed verbatim to the
// fetcher. The core does not interpret option contents; the keys below are
// merely the vocabulary the bundled yt-dlp fetcher understands.
type Options []Option

// Fetcher option keys recognized by the bundled yt-dlp fetcher.
const (
	OptOutputTemplate     = "outtmpl"
	OptFormat             = "format"
	OptNoPlaylist         = "noplaylist"
	OptSocketTimeout      = "socket_timeout"
	OptNoCheckCertificate = "nocheckcertificate"
	OptCookieFile         = "cookiefile"
)

// Get returns the value for key and whether it is present.
func (o Options) Get(key string) (interface{}, bool) {
	for _, opt := range o {
		if opt.Key == key {
			return opt.Value, true
		}
	}
	return nil, false
}

// Set replaces the value for key in place, or appends it when absent,
// returning the updated options. Order of existing keys is preserved.
func (o Options) Set(key string, value interface{}) Options {
	for i, opt := range o {
		if opt.Key == key {
			o[i].Value = value
			return o
		}
	}
	return append(o, Option{Key: key, Value: value})
}

// String returns the value for key as a string, or "" when absent or not a
// string.
func (o Options) String(key string) string {
	if v, ok := o.Get(key); ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// Bool returns the value for key as a bool, or false when absent or not a
// bool.
func (o Options) Bool(key string) bool {
	if v, ok := o.Get(key); ok {
		if b, ok := v.(bool); ok {
			return b
		}
	}
	return false
}

// Int returns the value for key as an int. JSON decoding produces float64
// for numbers, so both are accepted.
func (o Options) Int(key string) (int, bool) {
	v, ok := o.Get(key)
	if !ok {
		return 0, false
	}
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case float64:
		return int(n), true
	}
	return 0, false
}
