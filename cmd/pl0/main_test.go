package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/plzero/pl0"
	"github.com/plzero/pl0/dis"
)

func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.Nil(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestRunCode(t *testing.T) {
	out, err := execute(t, "", "run", "-c", "! 6 * 7.")
	require.Nil(t, err)
	require.Equal(t, "42\n", out)
}

func TestRunStdin(t *testing.T) {
	out, err := execute(t, "! 5.", "run", "--stdin")
	require.Nil(t, err)
	require.Equal(t, "5\n", out)
}

func TestRunFileWithInput(t *testing.T) {
	src := writeFile(t, "sum.pl0", "var a, b; begin ? a; ? b; ! a + b end.")
	input := writeFile(t, "input.txt", "20 22\n")
	out, err := execute(t, "", "run", src, "--input", input)
	require.Nil(t, err)
	require.Equal(t, "42\n", out)
}

func TestRunReadsProgramInput(t *testing.T) {
	src := writeFile(t, "echo.pl0", "var a; begin ? a; ! a end.")
	out, err := execute(t, "17\n", "run", src)
	require.Nil(t, err)
	require.Equal(t, "17\n", out)
}

func TestInputSources(t *testing.T) {
	src := writeFile(t, "x.pl0", "! 1.")

	_, err := execute(t, "", "run", src, "-c", "! 2.")
	require.NotNil(t, err)
	require.Equal(t, "multiple input sources specified", err.Error())

	_, err = execute(t, "", "run")
	require.NotNil(t, err)
	require.Equal(t, "no input provided", err.Error())
}

func TestBuildAndExec(t *testing.T) {
	src := writeFile(t, "squares.pl0", `
var i;
begin
  i := 1;
  while i <= 3 do begin ! i * i; i := i + 1 end
end.`)

	_, err := execute(t, "", "build", src)
	require.Nil(t, err)
	compiled := strings.TrimSuffix(src, ".pl0") + BytecodeExt
	_, err = os.Stat(compiled)
	require.Nil(t, err)

	out, err := execute(t, "", "exec", compiled)
	require.Nil(t, err)
	require.Equal(t, "1\n4\n9\n", out)

	custom := filepath.Join(t.TempDir(), "custom.bin")
	_, err = execute(t, "", "build", src, "-o", custom)
	require.Nil(t, err)
	out, err = execute(t, "", "exec", custom)
	require.Nil(t, err)
	require.Equal(t, "1\n4\n9\n", out)
}

func TestExecRejectsSource(t *testing.T) {
	src := writeFile(t, "plain.pl0", "! 1.")
	_, err := execute(t, "", "exec", src)
	require.NotNil(t, err)
	require.Contains(t, err.Error(), "reading "+src)
}

func TestDisText(t *testing.T) {
	out, err := execute(t, "", "dis", "-c", "! 1 + 2.")
	require.Nil(t, err)
	require.Contains(t, out, "| OFFSET |")
	require.Contains(t, out, "| ADD ")
}

func TestDisJSON(t *testing.T) {
	out, err := execute(t, "", "dis", "--no-color", "-c", "! 1 + 2.", "--output", "json")
	require.Nil(t, err)

	var instructions []dis.Instruction
	require.Nil(t, json.Unmarshal([]byte(out), &instructions))
	var names []string
	for _, inst := range instructions {
		names = append(names, inst.Name)
	}
	require.Equal(t, []string{"BRANCH", "ENTER", "PUSH_CONST", "PUSH_CONST", "ADD", "WRITE", "LEAVE"}, names)
}

func TestDisBytecodeFile(t *testing.T) {
	src := writeFile(t, "one.pl0", "! 1.")
	_, err := execute(t, "", "build", src)
	require.Nil(t, err)
	out, err := execute(t, "", "dis", strings.TrimSuffix(src, ".pl0")+BytecodeExt)
	require.Nil(t, err)
	require.Contains(t, out, "PUSH_CONST")
}

func TestDisUnknownFormat(t *testing.T) {
	_, err := execute(t, "", "dis", "-c", "! 1.", "-o", "yaml")
	require.NotNil(t, err)
	require.Equal(t, "unknown output format: yaml", err.Error())
}

func TestErrorMessage(t *testing.T) {
	_, err := pl0.Compile("var x;\nx := y + z.", pl0.WithFilename("bad.pl0"))
	require.NotNil(t, err)
	expected := `name error: undeclared identifier "y" (bad.pl0:2:6)
 | x := y + z.
 |      ^
hint: did you mean "x"?
name error: undeclared identifier "z" (bad.pl0:2:10)
 | x := y + z.
 |          ^
hint: did you mean "x"?`
	require.Equal(t, expected, errorMessage(err))

	require.Equal(t, "plain", errorMessage(errors.New("plain")))
}

func TestInvalidLogLevel(t *testing.T) {
	_, err := execute(t, "", "run", "-c", "! 1.", "--log-level", "loud")
	require.NotNil(t, err)
	require.Contains(t, err.Error(), "invalid log level")
}

func TestOutputPath(t *testing.T) {
	require.Equal(t, "prog"+BytecodeExt, outputPath([]string{"prog.pl0"}))
	require.Equal(t, "out"+BytecodeExt, outputPath(nil))
}

func TestBindFlags(t *testing.T) {
	root := newRootCmd()
	require.Nil(t, bindFlags(root, globalFlags...))

	err := bindFlags(root, "code", "missing")
	require.NotNil(t, err)
	require.Contains(t, err.Error(), "binding flag missing")
}
