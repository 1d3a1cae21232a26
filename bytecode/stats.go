package bytecode

// Stats contains statistics about compiled bytecode.
type Stats struct {
	// InstructionCount is the total number of bytecode instructions.
	InstructionCount int

	// ProcedureCount is the number of procedures declared in the program.
	ProcedureCount int

	// BranchCount is the number of conditional and unconditional branches.
	BranchCount int

	// SourceBytes is the size of the original source code in bytes.
	SourceBytes int
}
