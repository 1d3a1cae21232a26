package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/plzero/pl0"
	"github.com/plzero/pl0/bytecode"
)

// BytecodeExt is the extension of compiled bytecode files.
const BytecodeExt = ".pl0c"

func newBuildCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "build [file]",
		Short: "Compile a PL/0 program to a bytecode file",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			source, filename, err := getSource(cmd.InOrStdin(), args)
			if err != nil {
				return err
			}
			logger, err := newLogger()
			if err != nil {
				return err
			}
			code, err := pl0.Compile(source, pl0.WithFilename(filename), pl0.WithLogger(logger))
			if err != nil {
				return err
			}
			out, _ := cmd.Flags().GetString("output")
			if out == "" {
				out = outputPath(args)
			}
			f, err := os.Create(out)
			if err != nil {
				return err
			}
			if err := bytecode.Encode(f, code); err != nil {
				f.Close()
				return fmt.Errorf("writing %s: %w", out, err)
			}
			if err := f.Close(); err != nil {
				return err
			}
			logger.Info().
				Str("file", out).
				Str("id", code.ID()).
				Int("instructions", code.InstructionCount()).
				Msg("wrote bytecode")
			return nil
		},
	}
	cmd.Flags().StringP("output", "o", "", "Output file (default is the input name with "+BytecodeExt+")")
	return cmd
}

func outputPath(args []string) string {
	if len(args) == 0 {
		return "out" + BytecodeExt
	}
	return strings.TrimSuffix(args[0], filepath.Ext(args[0])) + BytecodeExt
}

func readBytecode(path string) (*bytecode.Code, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	code, err := bytecode.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return code, nil
}
