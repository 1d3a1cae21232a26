package assembler

import "github.com/rs/zerolog"

// Option is a configuration function for an Assembler.
type Option func(*Assembler)

// WithLogger logs every emitted instruction and backpatch at trace level.
func WithLogger(logger zerolog.Logger) Option {
	return func(a *Assembler) {
		a.logger = logger
	}
}
