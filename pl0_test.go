package pl0

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/plzero/pl0/bytecode"
	"github.com/plzero/pl0/errz"
	"github.com/plzero/pl0/vm"
)

const squares = `
const limit = 5;
var i;
procedure square;
  ! i * i;
begin
  i := 1;
  while i <= limit do
  begin
    call square;
    i := i + 1
  end
end.`

func TestExec(t *testing.T) {
	var out bytes.Buffer
	err := Exec(context.Background(), squares, WithOutput(&out))
	require.Nil(t, err)
	require.Equal(t, "1\n4\n9\n16\n25\n", out.String())
}

func TestExecWithInput(t *testing.T) {
	var out bytes.Buffer
	err := Exec(context.Background(), "var x; begin ? x; ! x * x end.",
		WithInput(strings.NewReader("7")),
		WithOutput(&out))
	require.Nil(t, err)
	require.Equal(t, "49\n", out.String())
}

func TestCompileError(t *testing.T) {
	_, err := Compile("x := 1.", WithFilename("bad.pl0"))
	require.NotNil(t, err)
	require.Equal(t, `name error: undeclared identifier "x" (bad.pl0:1:1)`, err.Error())
}

func TestRuntimeError(t *testing.T) {
	err := Exec(context.Background(), "! 1 / 0.", WithFilename("div.pl0"))
	require.NotNil(t, err)
	var structured *errz.StructuredError
	require.True(t, errors.As(err, &structured))
	require.Equal(t, errz.ErrRuntime, structured.Kind)
	require.Equal(t, "div.pl0", structured.Location.Filename)
}

func TestFrameDepthOption(t *testing.T) {
	err := Exec(context.Background(), "procedure p; call p; call p.", WithMaxFrameDepth(8))
	require.NotNil(t, err)
	require.Contains(t, err.Error(), "max depth 8")
}

func TestConcurrentRuns(t *testing.T) {
	code, err := Compile(squares)
	require.Nil(t, err)

	var wg sync.WaitGroup
	outputs := make([]bytes.Buffer, 8)
	errs := make([]error, len(outputs))
	for i := range outputs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = Run(context.Background(), code, WithOutput(&outputs[i]))
		}(i)
	}
	wg.Wait()
	for i := range outputs {
		require.Nil(t, errs[i])
		require.Equal(t, "1\n4\n9\n16\n25\n", outputs[i].String())
	}
}

func TestRunDecodedCode(t *testing.T) {
	code, err := Compile(squares, WithFilename("squares.pl0"))
	require.Nil(t, err)

	var file bytes.Buffer
	require.Nil(t, bytecode.Encode(&file, code))
	decoded, err := bytecode.Decode(&file)
	require.Nil(t, err)
	require.Equal(t, code.ID(), decoded.ID())

	var out bytes.Buffer
	require.Nil(t, Run(context.Background(), decoded, WithOutput(&out)))
	require.Equal(t, "1\n4\n9\n16\n25\n", out.String())
}

func TestObserverAndLogger(t *testing.T) {
	var logs bytes.Buffer
	logger := zerolog.New(&logs).Level(zerolog.DebugLevel)
	var out bytes.Buffer
	err := Exec(context.Background(), squares,
		WithOutput(&out),
		WithLogger(logger),
		WithObserver(vm.NewTraceObserver(logger)))
	require.Nil(t, err)
	require.Contains(t, logs.String(), `"message":"compiled"`)
	require.Contains(t, logs.String(), `"procedure":"square"`)
}
