package pl0

import (
	"io"

	"github.com/rs/zerolog"

	"github.com/plzero/pl0/vm"
)

// WithFilename sets the filename reported in error messages.
func WithFilename(filename string) Option {
	return func(o *options) {
		o.filename = filename
	}
}

// WithInput sets where read statements take integers from. Defaults to
// os.Stdin.
func WithInput(r io.Reader) Option {
	return func(o *options) {
		o.input = r
	}
}

// WithOutput sets where write statements print. Defaults to os.Stdout.
func WithOutput(w io.Writer) Option {
	return func(o *options) {
		o.output = w
	}
}

// WithLogger sets the logger used while compiling and running.
func WithLogger(logger zerolog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithObserver sets an observer for VM execution events. This enables
// tracers and step debuggers.
func WithObserver(observer vm.Observer) Option {
	return func(o *options) {
		o.observer = observer
	}
}

// WithMaxFrameDepth limits procedure call nesting at run time.
func WithMaxFrameDepth(depth int) Option {
	return func(o *options) {
		o.maxFrameDepth = depth
	}
}

// WithMaxStackDepth limits the operand stack at run time.
func WithMaxStackDepth(depth int) Option {
	return func(o *options) {
		o.maxStackDepth = depth
	}
}
