package main

import (
	"github.com/spf13/cobra"
)

func newExecCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "exec <file" + BytecodeExt + ">",
		Short: "Run a compiled bytecode file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			code, err := readBytecode(args[0])
			if err != nil {
				return err
			}
			opts, closeInput, err := runOptions(cmd)
			if err != nil {
				return err
			}
			defer closeInput()
			return runCode(cmd, code, opts)
		},
	}
	addRunFlags(cmd)
	return cmd
}
