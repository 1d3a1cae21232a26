package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/plzero/pl0"
	"github.com/plzero/pl0/bytecode"
	"github.com/plzero/pl0/dis"
)

var outputFormatsCompletion = []string{"json", "text"}

func newDisCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dis [file]",
		Short: "Disassemble PL/0 source or a bytecode file",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			code, err := getDisCode(cmd, args)
			if err != nil {
				return err
			}
			instructions, err := dis.Disassemble(code)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			format, _ := cmd.Flags().GetString("output")
			switch strings.ToLower(format) {
			case "", "text":
				dis.Print(instructions, out)
				return nil
			case "json":
				data, err := marshalOutput(instructions)
				if err != nil {
					return err
				}
				fmt.Fprintln(out, string(data))
				return nil
			default:
				return fmt.Errorf("unknown output format: %s", format)
			}
		},
	}
	cmd.Flags().StringP("output", "o", "", "Output format (json or text)")
	cmd.RegisterFlagCompletionFunc("output", cobra.FixedCompletions(outputFormatsCompletion, cobra.ShellCompDirectiveNoFileComp))
	return cmd
}

// getDisCode compiles the input, or decodes it when it is a bytecode file.
func getDisCode(cmd *cobra.Command, args []string) (*bytecode.Code, error) {
	if len(args) > 0 && filepath.Ext(args[0]) == BytecodeExt {
		return readBytecode(args[0])
	}
	source, filename, err := getSource(cmd.InOrStdin(), args)
	if err != nil {
		return nil, err
	}
	return pl0.Compile(source, pl0.WithFilename(filename))
}
