package cmd

import "github.com/spiffcs/rdm/internal/constants"

// Options holds the command-line options shared by the rdm commands.
type Options struct {
	ConfigPath string // Skip discovery and load this config file
	Verbosity  int

	// issues
	Format       string
	AssignedTo   string
	Status       string
	Open         bool
	Closed       bool
	All          bool
	Limit        int
	UpdatedSince string // Relative age such as "2w"
}

// Option is a functional option for configuring Options.
type Option func(*Options)

// NewOptions creates a new Options with defaults and applies any provided options.
func NewOptions(opts ...Option) *Options {
	o := &Options{
		Format: "table",
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// WithConfigPath loads the given config file instead of searching for one.
func WithConfigPath(path string) Option {
	return func(o *Options) {
		o.ConfigPath = path
	}
}

// WithVerbosity sets the verbosity level.
func WithVerbosity(v int) Option {
	return func(o *Options) {
		o.Verbosity = v
	}
}

// WithFormat sets the issue output format (table, json, markdown).
func WithFormat(format string) Option {
	return func(o *Options) {
		o.Format = format
	}
}

// state returns the Redmine status_id filter selected by --open, --closed and --all.
func (o *Options) state() string {
	switch {
	case o.Closed:
		return constants.StateClosed
	case o.All:
		return constants.StateAll
	default:
		return constants.StateOpen
	}
}
