package seed

import (
	"log/slog"
	"time"
)

// Option configures a Storage.
type Option func(*options)

type options struct {
	logger        *slog.Logger
	clock         func() time.Time
	skipPopulated bool
	observer      func(Progress)
}

func newOptions(opts []Option) options {
	o := options{
		logger: slog.New(slog.DiscardHandler),
		clock:  time.Now,
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// WithLogger sets the logger; by default nothing is logged.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithClock sets the source of the current instant used for default(now)
// and onUpdate(now) columns.
func WithClock(clock func() time.Time) Option {
	return func(o *options) {
		if clock != nil {
			o.clock = clock
		}
	}
}

// SkipPopulated skips batches whose table already holds rows, so loading
// the same fixtures twice leaves storage unchanged.
func SkipPopulated() Option {
	return func(o *options) {
		o.skipPopulated = true
	}
}

// WithObserver registers a callback invoked after each batch.
func WithObserver(fn func(Progress)) Option {
	return func(o *options) {
		o.observer = fn
	}
}

// Progress reports the outcome of one batch.
type Progress struct {
	Index   int    `json:"index"`
	Total   int    `json:"total"`
	Table   string `json:"table"`
	Rows    int    `json:"rows"`
	Skipped bool   `json:"skipped"`
}
