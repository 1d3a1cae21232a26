package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/hashicorp/go-multierror"
	"github.com/hokaccha/go-prettyjson"
	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/spf13/viper"

	"github.com/plzero/pl0/errz"
)

func fatal(err error) {
	fmt.Fprintln(os.Stderr, red("%s", errorMessage(err)))
	os.Exit(1)
}

// errorMessage renders compile and runtime errors with their source snippet
// and stack trace.
func errorMessage(err error) string {
	var merr *multierror.Error
	if errors.As(err, &merr) {
		msgs := make([]string, len(merr.Errors))
		for i, e := range merr.Errors {
			msgs[i] = errorMessage(e)
		}
		return strings.Join(msgs, "\n")
	}
	var friendly errz.FriendlyError
	if errors.As(err, &friendly) {
		return strings.TrimRight(friendly.FriendlyErrorMessage(), "\n")
	}
	return err.Error()
}

func isTerminalIO() bool {
	stdout := os.Stdout.Fd()
	return isatty.IsTerminal(stdout) || isatty.IsCygwinTerminal(stdout)
}

// Reads global flags from Viper and adjusts the environment accordingly.
func processGlobalFlags() {
	if viper.GetBool("no-color") || !isTerminalIO() {
		color.NoColor = true
	}
}

// newLogger returns a console logger on stderr at the configured level.
func newLogger() (zerolog.Logger, error) {
	level, err := zerolog.ParseLevel(viper.GetString("log-level"))
	if err != nil {
		return zerolog.Nop(), fmt.Errorf("invalid log level: %w", err)
	}
	writer := zerolog.ConsoleWriter{Out: os.Stderr, NoColor: color.NoColor}
	return zerolog.New(writer).Level(level).With().Timestamp().Logger(), nil
}

// getSource determines the code to compile. There are three possibilities:
// 1. --code <code>
// 2. --stdin (read code from stdin)
// 3. path as args[0]
func getSource(stdin io.Reader, args []string) (string, string, error) {
	codeSet := viper.GetString("code") != ""
	stdinSet := viper.GetBool("stdin")
	pathSupplied := len(args) > 0

	count := 0
	for _, set := range []bool{codeSet, stdinSet, pathSupplied} {
		if set {
			count++
		}
	}
	if count > 1 {
		return "", "", errors.New("multiple input sources specified")
	}
	if count == 0 {
		return "", "", errors.New("no input provided")
	}
	switch {
	case stdinSet:
		data, err := io.ReadAll(stdin)
		if err != nil {
			return "", "", err
		}
		return string(data), "<stdin>", nil
	case pathSupplied:
		data, err := os.ReadFile(args[0])
		if err != nil {
			return "", "", err
		}
		return string(data), args[0], nil
	default:
		return viper.GetString("code"), "<code>", nil
	}
}

func marshalOutput(v any) ([]byte, error) {
	if color.NoColor {
		return json.MarshalIndent(v, "", "  ")
	}
	return prettyjson.Marshal(v)
}
