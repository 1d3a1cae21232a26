// Package bytecode holds the instruction encoding of compiled PL/0 programs.
//
// Two representations exist:
//
//   - [Program]: the append-only store written by the assembler during a
//     single compilation pass. Existing instructions can only change through
//     operand replacement (backpatching).
//   - [Code]: the immutable result handed to the virtual machine. It is
//     created once from a finished Program and may be shared by any number
//     of goroutines and VM instances.
//
// Every instruction has the fixed shape {Opcode, A, B}. A is the lexical
// scope distance and B carries a constant, slot index, slot count or
// instruction address depending on the opcode:
//
//	PUSH_CONST       B = value
//	LOAD_VAR         A = distance, B = slot
//	STORE_VAR        A = distance, B = slot
//	CALL             A = distance, B = entry address
//	BRANCH           B = target address
//	BRANCH_IF_FALSE  B = target address
//	ENTER            B = slot count
//
// Index-based access is used for all collections:
//
//	code.InstructionAt(0)
//	code.ProcedureAt(i)
//
// A Code can be serialized to CBOR with [Marshal] / [Encode] and restored
// with [Unmarshal] / [Decode].
package bytecode
