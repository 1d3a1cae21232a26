// Package dis disassembles compiled PL/0 bytecode into a readable listing.
package dis

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/fatih/color"

	"github.com/plzero/pl0/bytecode"
	"github.com/plzero/pl0/internal/table"
	"github.com/plzero/pl0/op"
)

// Instruction is one disassembled instruction.
type Instruction struct {
	Offset   int    `json:"offset"`
	Name     string `json:"name"`
	Operands []int  `json:"operands,omitempty"`
	Info     string `json:"info,omitempty"`
	Line     int    `json:"line,omitempty"`
	// Jump is set when the address operand is an instruction address.
	Jump     bool   `json:"jump,omitempty"`
}

// Disassemble decodes every instruction in code. INFO holds the called
// procedure's name for calls and the source operator for arithmetic and
// relational instructions.
func Disassemble(code *bytecode.Code) ([]Instruction, error) {
	count := code.InstructionCount()
	result := make([]Instruction, 0, count)
	for offset := 0; offset < count; offset++ {
		inst := code.InstructionAt(offset)
		info := op.GetInfo(inst.Opcode)
		if info.Name == "" {
			return nil, fmt.Errorf("invalid opcode %d at offset %d", inst.Opcode, offset)
		}
		var operands []int
		if info.UsesLevel() {
			operands = append(operands, inst.A)
		}
		if info.UsesAddress() {
			operands = append(operands, inst.B)
		}
		d := Instruction{
			Offset:   offset,
			Name:     info.Name,
			Operands: operands,
			Info:     info.Symbol,
			Line:     code.LocationAt(offset).Line,
			Jump:     info.IsJump(),
		}
		if inst.Opcode == op.Call {
			if proc, ok := code.ProcedureAtEntry(inst.B); ok {
				d.Info = proc.Name
			}
		}
		result = append(result, d)
	}
	return result, nil
}

// Print writes the instructions as a table. Opcode names are colored when
// color output is enabled.
func Print(instructions []Instruction, writer io.Writer) {
	opcode := color.New(color.FgCyan)
	jump := color.New(color.FgYellow)

	t := table.NewTable(writer)
	t.WithHeader([]string{"OFFSET", "OPCODE", "OPERANDS", "INFO"})
	t.WithColumnAlignment([]table.Alignment{
		table.AlignRight,
		table.AlignLeft,
		table.AlignRight,
		table.AlignLeft,
	})
	t.WithHeaderAlignment([]table.Alignment{
		table.AlignCenter,
		table.AlignCenter,
		table.AlignCenter,
		table.AlignCenter,
	})
	for _, inst := range instructions {
		operands := make([]string, len(inst.Operands))
		for i, v := range inst.Operands {
			operands[i] = strconv.Itoa(v)
		}
		name := opcode.Sprint(inst.Name)
		if inst.Jump {
			name = jump.Sprint(inst.Name)
		}
		t.Append([]string{
			strconv.Itoa(inst.Offset),
			name,
			strings.Join(operands, ", "),
			inst.Info,
		})
	}
	t.Render()
}
