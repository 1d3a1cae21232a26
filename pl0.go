// Package pl0 compiles and runs PL/0 programs.
//
// Compile translates source text into immutable bytecode in a single pass.
// Run executes bytecode in a fresh virtual machine, and Exec does both:
//
//	err := pl0.Exec(ctx, "var x; begin ? x; ! x * x end.",
//		pl0.WithInput(strings.NewReader("7")),
//		pl0.WithOutput(os.Stdout))
package pl0

import (
	"context"
	"io"

	"github.com/rs/zerolog"

	"github.com/plzero/pl0/bytecode"
	"github.com/plzero/pl0/compiler"
	"github.com/plzero/pl0/vm"
)

// Option configures a PL/0 compilation or execution.
type Option func(*options)

type options struct {
	filename      string
	input         io.Reader
	output        io.Writer
	logger        zerolog.Logger
	observer      vm.Observer
	maxFrameDepth int
	maxStackDepth int
}

func collectOptions(opts ...Option) *options {
	o := &options{logger: zerolog.Nop()}
	for _, opt := range opts {
		if opt != nil {
			opt(o)
		}
	}
	return o
}

func (o *options) compilerOpts() []compiler.Option {
	opts := []compiler.Option{compiler.WithLogger(o.logger)}
	if o.filename != "" {
		opts = append(opts, compiler.WithFilename(o.filename))
	}
	return opts
}

func (o *options) vmOpts() []vm.Option {
	var opts []vm.Option
	if o.input != nil {
		opts = append(opts, vm.WithInput(o.input))
	}
	if o.output != nil {
		opts = append(opts, vm.WithOutput(o.output))
	}
	if o.observer != nil {
		opts = append(opts, vm.WithObserver(o.observer))
	}
	if o.maxFrameDepth > 0 {
		opts = append(opts, vm.WithMaxFrameDepth(o.maxFrameDepth))
	}
	if o.maxStackDepth > 0 {
		opts = append(opts, vm.WithMaxStackDepth(o.maxStackDepth))
	}
	return opts
}

// Compile parses and compiles source code into executable bytecode.
// The returned Code is immutable and safe for concurrent use.
func Compile(source string, opts ...Option) (*bytecode.Code, error) {
	o := collectOptions(opts...)
	return compiler.Compile(source, o.compilerOpts()...)
}

// Run executes compiled bytecode. Each call creates a fresh virtual machine,
// so the same Code may be run concurrently.
func Run(ctx context.Context, code *bytecode.Code, opts ...Option) error {
	o := collectOptions(opts...)
	o.logger.Debug().
		Str("id", code.ID()).
		Str("filename", code.Filename()).
		Msg("run")
	return vm.Run(ctx, code, o.vmOpts()...)
}

// Exec compiles and runs source code. It is equivalent to Compile followed
// by Run.
func Exec(ctx context.Context, source string, opts ...Option) error {
	code, err := Compile(source, opts...)
	if err != nil {
		return err
	}
	return Run(ctx, code, opts...)
}
