// Package assembler emits PL/0 bytecode on behalf of a single-pass front end.
//
// The front end walks the source once and calls one Assembler method per
// language construct. Branch and call targets that are not yet known are
// emitted with placeholder operands through the *Forward variants, which
// return a Backpatcher for that exact instruction. Once the target address
// is known, typically NextAddress() right after the body is emitted, the
// front end resolves the Backpatcher:
//
//	test := asm.NextAddress()
//	// ... emit the loop condition ...
//	exit := asm.BranchIfFalseForward()
//	// ... emit the loop body ...
//	asm.Branch(test)
//	exit.SetAddress(asm.NextAddress())
//
// The Assembler performs no semantic validation. Distances, slot indexes and
// entry addresses are trusted as given. The only failure it detects is an
// operator token with no opcode, reported as a contract violation panic.
package assembler

import (
	"github.com/rs/zerolog"

	"github.com/plzero/pl0/bytecode"
	"github.com/plzero/pl0/errz"
	"github.com/plzero/pl0/op"
	"github.com/plzero/pl0/token"
)

// Assembler appends instructions to the Program it owns. It is not safe for
// concurrent use.
type Assembler struct {
	code     *bytecode.Program
	location bytecode.SourceLocation
	logger   zerolog.Logger
}

// New returns an Assembler writing into a fresh Program.
func New(opts ...Option) *Assembler {
	a := &Assembler{
		code:   bytecode.NewProgram(),
		logger: zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Program returns the store the assembler writes into.
func (a *Assembler) Program() *bytecode.Program {
	return a.code
}

// Mark sets the source location recorded with subsequently emitted
// instructions.
func (a *Assembler) Mark(loc bytecode.SourceLocation) {
	a.location = loc
}

// Finish freezes the emitted instructions into an immutable Code.
func (a *Assembler) Finish(params bytecode.CodeParams) *bytecode.Code {
	return a.code.Freeze(params)
}

// NextAddress returns the address the next emitted instruction will occupy.
func (a *Assembler) NextAddress() int {
	return a.code.Len()
}

// LastAddress returns the address of the most recently emitted instruction,
// or -1 if nothing has been emitted.
func (a *Assembler) LastAddress() int {
	return a.code.Len() - 1
}

// LoadConst pushes a constant value.
func (a *Assembler) LoadConst(value int) {
	a.emit(op.PushConst, 0, value)
}

// Load pushes the variable at the given lexical address.
func (a *Assembler) Load(distance, index int) {
	a.emit(op.LoadVar, distance, index)
}

// Store pops into the variable at the given lexical address.
func (a *Assembler) Store(distance, index int) {
	a.emit(op.StoreVar, distance, index)
}

// Call calls the procedure at a known entry address. distance is the number
// of scopes between the caller and the scope declaring the procedure.
func (a *Assembler) Call(distance, entry int) {
	a.emit(op.Call, distance, entry)
}

// CallForward emits a call whose entry address is not known yet. The level
// operand defaults to 0, meaning the procedure is declared in the current
// scope. A caller at a different depth resolves it with SetLevel as well.
func (a *Assembler) CallForward() *Backpatcher {
	return a.forward(op.Call)
}

// Branch jumps unconditionally to target.
func (a *Assembler) Branch(target int) {
	a.emit(op.Branch, 0, target)
}

// BranchForward emits an unconditional jump to a target resolved later.
func (a *Assembler) BranchForward() *Backpatcher {
	return a.forward(op.Branch)
}

// BranchIfFalse pops the condition and jumps to target if it is false.
func (a *Assembler) BranchIfFalse(target int) {
	a.emit(op.BranchIfFalse, 0, target)
}

// BranchIfFalseForward emits a conditional jump to a target resolved later.
func (a *Assembler) BranchIfFalseForward() *Backpatcher {
	return a.forward(op.BranchIfFalse)
}

// Enter sets up an activation record with scopeVarCount local slots.
func (a *Assembler) Enter(scopeVarCount int) {
	a.emit(op.Enter, 0, scopeVarCount)
}

// Leave tears down the current activation record and returns to the caller.
func (a *Assembler) Leave() {
	a.emit(op.Leave, 0, 0)
}

// Read pushes an integer read from the program input.
func (a *Assembler) Read() {
	a.emit(op.Read, 0, 0)
}

// Write pops a value and writes it to the program output.
func (a *Assembler) Write() {
	a.emit(op.Write, 0, 0)
}

// Operation emits the arithmetic or relational instruction for an operator
// token. Unary negation must be passed as token.NEG. A token with no
// corresponding opcode is a contract violation.
func (a *Assembler) Operation(tok token.Type) {
	code, ok := op.ForOperator(tok)
	if !ok {
		errz.ContractViolation("assembler.Operation", "no opcode for operator token %q", tok)
	}
	a.emit(code, 0, 0)
}

func (a *Assembler) forward(opcode op.Code) *Backpatcher {
	return &Backpatcher{
		code:   a.code,
		at:     a.emit(opcode, 0, 0),
		logger: a.logger,
	}
}

func (a *Assembler) emit(opcode op.Code, level, address int) int {
	addr := a.code.Append(bytecode.Instruction{
		Opcode: opcode,
		A:      level,
		B:      address,
	}, a.location)
	a.logger.Trace().
		Int("addr", addr).
		Stringer("op", opcode).
		Int("a", level).
		Int("b", address).
		Msg("emit")
	return addr
}
