package main

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/mitchellh/go-homedir"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

var red = color.New(color.FgRed).SprintfFunc()

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "pl0",
		Short: "Compile and run PL/0 programs",
		Long: `pl0 compiles PL/0 source into stack machine bytecode and runs it.

Source can be given as a file argument, with --code, or on stdin with --stdin.`,
		Version:       fmt.Sprintf("%s (commit %s, built %s)", version, commit, date),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := bindFlags(cmd.Root(), globalFlags...); err != nil {
				return err
			}
			if err := initConfig(); err != nil {
				return err
			}
			processGlobalFlags()
			return nil
		},
	}

	flags := root.PersistentFlags()
	flags.String("config", "", "config file (default is $HOME/.pl0.yaml)")
	flags.StringP("code", "c", "", "Code to compile")
	flags.Bool("stdin", false, "Read code from stdin")
	flags.Bool("no-color", false, "Disable colored output")
	flags.String("log-level", "warn", "Log level (trace, debug, info, warn, error)")

	root.AddCommand(
		newRunCmd(),
		newBuildCmd(),
		newExecCmd(),
		newDisCmd(),
	)
	return root
}

// globalFlags are the persistent flags mirrored into viper.
var globalFlags = []string{"config", "code", "stdin", "no-color", "log-level"}

// bindFlags binds the named persistent flags of cmd to viper keys of the
// same name.
func bindFlags(cmd *cobra.Command, names ...string) error {
	for _, name := range names {
		if err := viper.BindPFlag(name, cmd.PersistentFlags().Lookup(name)); err != nil {
			return fmt.Errorf("binding flag %s: %w", name, err)
		}
	}
	return nil
}

// initConfig reads the config file and PL0_* environment variables.
func initConfig() error {
	viper.SetEnvPrefix("pl0")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	if cfgFile := viper.GetString("config"); cfgFile != "" {
		viper.SetConfigFile(cfgFile)
		if err := viper.ReadInConfig(); err != nil {
			return fmt.Errorf("reading config: %w", err)
		}
		return nil
	}
	home, err := homedir.Dir()
	if err != nil {
		return nil
	}
	viper.AddConfigPath(home)
	viper.SetConfigName(".pl0")
	viper.SetConfigType("yaml")
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return fmt.Errorf("reading config: %w", err)
		}
	}
	return nil
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fatal(err)
	}
}
