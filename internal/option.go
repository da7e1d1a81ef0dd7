package internal

import "log/slog"

// Option is a functional option for configuring the application.
type Option func(*application)

type application struct {
	config *Config
	root   string
	logger *slog.Logger
	watch  bool
}

// WithConfig sets the application configuration.
func WithConfig(cfg *Config) Option {
	return func(a *application) {
		a.config = cfg
	}
}

// WithRoot sets the repository root directory.
func WithRoot(root string) Option {
	return func(a *application) {
		a.root = root
	}
}

// WithLogger sets the logger shared by every component.
func WithLogger(l *slog.Logger) Option {
	return func(a *application) {
		a.logger = l
	}
}

// WithWatch makes Serve rebuild the site whenever sources change.
func WithWatch(watch bool) Option {
	return func(a *application) {
		a.watch = watch
	}
}
