package compiler

import "github.com/rs/zerolog"

// Option is a configuration function for a Compiler.
type Option func(*Compiler)

// WithFilename sets the filename used in error messages and recorded on the
// compiled code.
func WithFilename(filename string) Option {
	return func(c *Compiler) {
		c.filename = filename
	}
}

// WithLogger sets the logger used by the compiler and its assembler.
func WithLogger(logger zerolog.Logger) Option {
	return func(c *Compiler) {
		c.logger = logger
	}
}

// WithID sets the identifier recorded on the compiled code. By default a
// new UUID is generated for each compilation.
func WithID(id string) Option {
	return func(c *Compiler) {
		c.id = id
	}
}
