package main

import (
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/plzero/pl0"
	"github.com/plzero/pl0/bytecode"
	"github.com/plzero/pl0/vm"
)

func addRunFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("input", "i", "", "File that read statements take integers from (default stdin)")
	cmd.Flags().Bool("trace", false, "Log procedure calls and returns")
	cmd.Flags().Int("max-depth", vm.DefaultMaxFrameDepth, "Maximum procedure call depth")
}

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run [file]",
		Short: "Compile and run a PL/0 program",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			source, filename, err := getSource(cmd.InOrStdin(), args)
			if err != nil {
				return err
			}
			opts, closeInput, err := runOptions(cmd)
			if err != nil {
				return err
			}
			defer closeInput()
			opts = append(opts, pl0.WithFilename(filename))
			code, err := pl0.Compile(source, opts...)
			if err != nil {
				return err
			}
			return runCode(cmd, code, opts)
		},
	}
	addRunFlags(cmd)
	return cmd
}

// runOptions builds the options shared by the run and exec commands.
func runOptions(cmd *cobra.Command) ([]pl0.Option, func(), error) {
	logger, err := newLogger()
	if err != nil {
		return nil, nil, err
	}
	trace, _ := cmd.Flags().GetBool("trace")
	if trace && logger.GetLevel() > zerolog.DebugLevel {
		// Calls and returns are logged at debug level
		logger = logger.Level(zerolog.DebugLevel)
	}
	opts := []pl0.Option{
		pl0.WithLogger(logger),
		pl0.WithOutput(cmd.OutOrStdout()),
	}
	if depth, _ := cmd.Flags().GetInt("max-depth"); depth > 0 {
		opts = append(opts, pl0.WithMaxFrameDepth(depth))
	}
	if trace {
		opts = append(opts, pl0.WithObserver(vm.NewTraceObserver(logger)))
	}

	var input io.Reader = cmd.InOrStdin()
	closeInput := func() {}
	if path, _ := cmd.Flags().GetString("input"); path != "" {
		f, err := os.Open(path)
		if err != nil {
			return nil, nil, err
		}
		input = f
		closeInput = func() { f.Close() }
	}
	opts = append(opts, pl0.WithInput(input))
	return opts, closeInput, nil
}

func runCode(cmd *cobra.Command, code *bytecode.Code, opts []pl0.Option) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return pl0.Run(ctx, code, opts...)
}
