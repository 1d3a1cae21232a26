package bytecode

import (
	"github.com/plzero/pl0/errz"
)

// Program is the append-only instruction store written by the assembler.
// Instructions are never removed or reordered, so an address handed out by
// Append stays valid for the life of the Program. The only permitted
// mutation of an existing instruction is replacing one of its operands,
// which is how forward references are backpatched.
//
// A Program is not safe for concurrent use.
type Program struct {
	instructions []Instruction
	locations    []SourceLocation
}

// NewProgram returns an empty Program.
func NewProgram() *Program {
	return &Program{}
}

// Append adds an instruction and returns the address it was written to.
func (p *Program) Append(inst Instruction, loc SourceLocation) int {
	p.instructions = append(p.instructions, inst)
	p.locations = append(p.locations, loc)
	return len(p.instructions) - 1
}

// Len returns the number of instructions, which is also the address the next
// appended instruction will receive.
func (p *Program) Len() int {
	return len(p.instructions)
}

// At returns the instruction at the given address.
func (p *Program) At(addr int) Instruction {
	p.check("At", addr)
	return p.instructions[addr]
}

// LocationAt returns the source location recorded for the given address.
func (p *Program) LocationAt(addr int) SourceLocation {
	p.check("LocationAt", addr)
	return p.locations[addr]
}

// SetA replaces operand A (the level slot) of an existing instruction.
func (p *Program) SetA(addr, value int) {
	p.check("SetA", addr)
	p.instructions[addr].A = value
}

// SetB replaces operand B (the address slot) of an existing instruction.
func (p *Program) SetB(addr, value int) {
	p.check("SetB", addr)
	p.instructions[addr].B = value
}

func (p *Program) check(method string, addr int) {
	if addr < 0 || addr >= len(p.instructions) {
		errz.ContractViolation("bytecode.Program."+method,
			"address %d out of range [0, %d)", addr, len(p.instructions))
	}
}
