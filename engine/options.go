package engine

import (
	"github.com/rs/zerolog"

	"github.com/arloliu/tsmodel/internal/options"
)

type settings struct {
	logger zerolog.Logger
}

func newSettings() *settings {
	return &settings{logger: zerolog.Nop()}
}

// Option configures a Writer or a Reader.
type Option = options.Option[*settings]

// WithLogger sets the logger. The default discards all output.
func WithLogger(logger zerolog.Logger) Option {
	return options.NoError(func(s *settings) {
		s.logger = logger
	})
}
