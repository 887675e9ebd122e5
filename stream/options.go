package stream

import (
	"log/slog"

	"github.com/casualjim/shoal/pkg/slogx"
	"github.com/casualjim/shoal/pkg/stdx"
	"github.com/fogfish/opts"
)

// Option configures a Registry.
type Option = opts.Option[registryOptions]

type registryOptions struct {
	name   string
	logger *slog.Logger
}

// WithName sets the name a Registry reports in logs and panic errors.
var WithName = opts.ForName[registryOptions, string]("name")

// WithLogger sets the logger used to report recovered handler panics.
// A nil logger keeps the default.
func WithLogger(logger *slog.Logger) Option {
	return opts.Type[registryOptions](func(o *registryOptions) error {
		if logger != nil {
			o.logger = logger
		}
		return nil
	})
}

func newRegistryOptions(options []Option) registryOptions {
	o := registryOptions{
		name:   "anonymous",
		logger: slog.Default().With(slogx.LoggerName("stream")),
	}
	stdx.Must0(opts.Apply(&o, options))
	return o
}
