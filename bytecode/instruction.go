package bytecode

import (
	"fmt"

	"github.com/plzero/pl0/op"
)

// Instruction is a single fixed-shape bytecode instruction. A holds the
// scope distance ("level") and B holds the value, slot index, slot count or
// target address, depending on the opcode. Unused operands are zero.
type Instruction struct {
	Opcode op.Code `json:"op" cbor:"1,keyasint"`
	A      int     `json:"a" cbor:"2,keyasint"`
	B      int     `json:"b" cbor:"3,keyasint"`
}

// String returns the instruction in assembly form, e.g. "LOAD_VAR 1, 0".
func (i Instruction) String() string {
	info := op.GetInfo(i.Opcode)
	switch {
	case info.UsesLevel() && info.UsesAddress():
		return fmt.Sprintf("%s %d, %d", i.Opcode, i.A, i.B)
	case info.UsesAddress():
		return fmt.Sprintf("%s %d", i.Opcode, i.B)
	default:
		return i.Opcode.String()
	}
}
