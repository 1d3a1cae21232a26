package bytecode

import (
	"sort"
	"strings"

	"github.com/plzero/pl0/op"
)

// Procedure describes a procedure whose body was emitted into a Code.
type Procedure struct {
	Name  string `json:"name" cbor:"1,keyasint"`
	Entry int    `json:"entry" cbor:"2,keyasint"` // address of the procedure's first instruction
	Level int    `json:"level" cbor:"3,keyasint"` // nesting depth, the main program is 0
}

// Code represents a finished program handed to the virtual machine.
// It is immutable after creation and safe for concurrent use.
type Code struct {
	id           string
	filename     string
	source       string
	instructions []Instruction
	locations    []SourceLocation
	procedures   []Procedure
}

// CodeParams contains parameters for creating a new Code.
type CodeParams struct {
	ID           string
	Filename     string
	Source       string
	Instructions []Instruction
	Locations    []SourceLocation
	Procedures   []Procedure
}

// NewCode creates a new immutable Code from the given parameters.
// Input slices are copied to ensure immutability. The Code is fully
// immutable after construction - there are no mutation methods.
func NewCode(params CodeParams) *Code {
	procs := copySlice(params.Procedures)
	sort.SliceStable(procs, func(i, j int) bool {
		return procs[i].Entry < procs[j].Entry
	})
	return &Code{
		id:           params.ID,
		filename:     params.Filename,
		source:       params.Source,
		instructions: copySlice(params.Instructions),
		locations:    copySlice(params.Locations),
		procedures:   procs,
	}
}

// Freeze returns an immutable Code holding a copy of the program's
// instructions and locations.
func (p *Program) Freeze(params CodeParams) *Code {
	params.Instructions = p.instructions
	params.Locations = p.locations
	return NewCode(params)
}

// ID returns the identifier of this code, if one was assigned.
func (c *Code) ID() string {
	return c.id
}

// Filename returns the source filename.
func (c *Code) Filename() string {
	return c.filename
}

// Source returns the source code this was compiled from.
func (c *Code) Source() string {
	return c.source
}

// InstructionCount returns the number of instructions.
func (c *Code) InstructionCount() int {
	return len(c.instructions)
}

// InstructionAt returns the instruction at the given address.
func (c *Code) InstructionAt(addr int) Instruction {
	return c.instructions[addr]
}

// LocationAt returns the source location for the instruction at the given
// address. If no location is recorded, an empty SourceLocation is returned.
func (c *Code) LocationAt(addr int) SourceLocation {
	if addr < 0 || addr >= len(c.locations) {
		return SourceLocation{}
	}
	return c.locations[addr]
}

// ProcedureCount returns the number of procedures.
func (c *Code) ProcedureCount() int {
	return len(c.procedures)
}

// ProcedureAt returns the procedure at the given index, ordered by entry.
func (c *Code) ProcedureAt(index int) Procedure {
	return c.procedures[index]
}

// ProcedureAtEntry returns the procedure whose entry address is addr.
func (c *Code) ProcedureAtEntry(addr int) (Procedure, bool) {
	i := sort.Search(len(c.procedures), func(i int) bool {
		return c.procedures[i].Entry >= addr
	})
	if i < len(c.procedures) && c.procedures[i].Entry == addr {
		return c.procedures[i], true
	}
	return Procedure{}, false
}

// GetSourceLine returns the source code line at the given 1-based line number.
// If the line is out of range, an empty string is returned.
func (c *Code) GetSourceLine(lineNum int) string {
	if c.source == "" || lineNum < 1 {
		return ""
	}
	lines := strings.Split(c.source, "\n")
	if lineNum > len(lines) {
		return ""
	}
	return lines[lineNum-1]
}

// Stats returns statistics about this code.
func (c *Code) Stats() Stats {
	stats := Stats{
		InstructionCount: len(c.instructions),
		ProcedureCount:   len(c.procedures),
		SourceBytes:      len(c.source),
	}
	for _, inst := range c.instructions {
		if inst.Opcode == op.Branch || inst.Opcode == op.BranchIfFalse {
			stats.BranchCount++
		}
	}
	return stats
}
