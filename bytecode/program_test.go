package bytecode

import (
	"testing"

	"github.com/plzero/pl0/errz"
	"github.com/plzero/pl0/op"
	"github.com/stretchr/testify/require"
)

func TestProgramAppendReturnsDenseAddresses(t *testing.T) {
	p := NewProgram()
	require.Equal(t, 0, p.Len())
	for i := 0; i < 5; i++ {
		addr := p.Append(Instruction{Opcode: op.PushConst, B: i * 10}, SourceLocation{Line: i + 1})
		require.Equal(t, i, addr)
		require.Equal(t, i+1, p.Len())
	}
	for i := 0; i < 5; i++ {
		require.Equal(t, Instruction{Opcode: op.PushConst, B: i * 10}, p.At(i))
		require.Equal(t, i+1, p.LocationAt(i).Line)
	}
}

func TestProgramSetOperandsTouchesOnlyTarget(t *testing.T) {
	p := NewProgram()
	p.Append(Instruction{Opcode: op.LoadVar, A: 1, B: 2}, SourceLocation{})
	p.Append(Instruction{Opcode: op.Call}, SourceLocation{})
	p.Append(Instruction{Opcode: op.StoreVar, A: 3, B: 4}, SourceLocation{})

	p.SetA(1, 2)
	p.SetB(1, 17)

	require.Equal(t, Instruction{Opcode: op.LoadVar, A: 1, B: 2}, p.At(0))
	require.Equal(t, Instruction{Opcode: op.Call, A: 2, B: 17}, p.At(1))
	require.Equal(t, Instruction{Opcode: op.StoreVar, A: 3, B: 4}, p.At(2))
}

func TestProgramOutOfRangeIsContractViolation(t *testing.T) {
	p := NewProgram()
	p.Append(Instruction{Opcode: op.Leave}, SourceLocation{})

	tests := []struct {
		name string
		fn   func()
	}{
		{"At", func() { p.At(1) }},
		{"At negative", func() { p.At(-1) }},
		{"SetA", func() { p.SetA(5, 0) }},
		{"SetB", func() { p.SetB(1, 0) }},
		{"LocationAt", func() { p.LocationAt(2) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			defer func() {
				r := recover()
				require.NotNil(t, r)
				ce, ok := r.(*errz.ContractError)
				require.True(t, ok, "expected *errz.ContractError, got %T", r)
				require.Contains(t, ce.Error(), "out of range")
			}()
			tt.fn()
		})
	}
}

func TestInstructionString(t *testing.T) {
	require.Equal(t, "LOAD_VAR 2, 5", Instruction{Opcode: op.LoadVar, A: 2, B: 5}.String())
	require.Equal(t, "PUSH_CONST 7", Instruction{Opcode: op.PushConst, B: 7}.String())
	require.Equal(t, "ADD", Instruction{Opcode: op.Add}.String())
}
