package compiler

import (
	"io"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/plzero/pl0/errz"
)

// failingEmitLogger returns a logger that calls fail while the assembler
// logs its n-th emitted instruction.
func failingEmitLogger(n int, fail func()) zerolog.Logger {
	emitted := 0
	hook := zerolog.HookFunc(func(e *zerolog.Event, level zerolog.Level, msg string) {
		if msg != "emit" {
			return
		}
		emitted++
		if emitted == n {
			fail()
		}
	})
	return zerolog.New(io.Discard).Level(zerolog.TraceLevel).Hook(hook)
}

func TestCompileReturnsContractViolation(t *testing.T) {
	zerolog.SetGlobalLevel(zerolog.TraceLevel)
	logger := failingEmitLogger(3, func() {
		errz.ContractViolation("assembler.Operation", "no opcode for operator token %q", "NOPE")
	})

	code, err := Compile("! 1 + 2.", WithLogger(logger))
	require.Nil(t, code)
	require.NotNil(t, err)
	require.True(t, errz.IsContractViolation(err))
	require.Equal(t, `contract violation: assembler.Operation: no opcode for operator token "NOPE"`, err.Error())
}

func TestCompileRepanicsOtherPanics(t *testing.T) {
	zerolog.SetGlobalLevel(zerolog.TraceLevel)
	logger := failingEmitLogger(1, func() { panic("boom") })

	require.PanicsWithValue(t, "boom", func() {
		_, _ = Compile("! 1.", WithLogger(logger))
	})
}
