// Package op defines opcodes used by the PL/0 assembler and virtual machine.
package op

// Code is an integer opcode that indicates an operation to execute.
type Code uint8

const (
	Invalid Code = 0

	// Stack
	PushConst Code = 1

	// Variables, addressed lexically by (distance, index)
	LoadVar  Code = 10
	StoreVar Code = 11

	// Control flow
	Call          Code = 20
	Branch        Code = 21
	BranchIfFalse Code = 22

	// Activation records
	Enter Code = 30
	Leave Code = 31

	// I/O
	Read  Code = 40
	Write Code = 41

	// Unary operations
	Negate Code = 50
	Odd    Code = 51

	// Arithmetic
	Add      Code = 60
	Subtract Code = 61
	Multiply Code = 62
	Divide   Code = 63

	// Comparison
	Equal              Code = 70
	NotEqual           Code = 71
	LessThan           Code = 72
	LessThanOrEqual    Code = 73
	GreaterThan        Code = 74
	GreaterThanOrEqual Code = 75
)

// Operand describes which instruction operand slots an opcode uses.
type Operand uint8

const (
	// UsesLevel marks opcodes that read operand A, the scope distance.
	UsesLevel Operand = 1 << iota
	// UsesAddress marks opcodes that read operand B, the value, slot or target.
	UsesAddress
)

// Info contains information about an opcode.
type Info struct {
	Code         Code
	Name         string
	Operands     Operand
	OperandCount int
	// Symbol is the source operator for arithmetic and relational opcodes.
	Symbol string
}

// UsesLevel reports whether the opcode reads operand A.
func (i Info) UsesLevel() bool {
	return i.Operands&UsesLevel != 0
}

// UsesAddress reports whether the opcode reads operand B.
func (i Info) UsesAddress() bool {
	return i.Operands&UsesAddress != 0
}

// IsJump reports whether operand B holds an instruction address.
func (i Info) IsJump() bool {
	return i.Code == Call || i.Code == Branch || i.Code == BranchIfFalse
}

// String returns the opcode name, e.g. "PUSH_CONST".
func (c Code) String() string {
	if name := infos[c].Name; name != "" {
		return name
	}
	return "INVALID"
}

var infos = make([]Info, 256)

func init() {
	type opInfo struct {
		op       Code
		name     string
		operands Operand
		symbol   string
	}
	const both = UsesLevel | UsesAddress
	ops := []opInfo{
		{Add, "ADD", 0, "+"},
		{Branch, "BRANCH", UsesAddress, ""},
		{BranchIfFalse, "BRANCH_IF_FALSE", UsesAddress, ""},
		{Call, "CALL", both, ""},
		{Divide, "DIV", 0, "/"},
		{Enter, "ENTER", UsesAddress, ""},
		{Equal, "EQ", 0, "="},
		{GreaterThan, "GT", 0, ">"},
		{GreaterThanOrEqual, "GE", 0, ">="},
		{Leave, "LEAVE", 0, ""},
		{LessThan, "LT", 0, "<"},
		{LessThanOrEqual, "LE", 0, "<="},
		{LoadVar, "LOAD_VAR", both, ""},
		{Multiply, "MUL", 0, "*"},
		{Negate, "NEG", 0, "-"},
		{NotEqual, "NE", 0, "#"},
		{Odd, "ODD", 0, "odd"},
		{PushConst, "PUSH_CONST", UsesAddress, ""},
		{Read, "READ", 0, ""},
		{StoreVar, "STORE_VAR", both, ""},
		{Subtract, "SUB", 0, "-"},
		{Write, "WRITE", 0, ""},
	}
	for _, o := range ops {
		count := 0
		if o.operands&UsesLevel != 0 {
			count++
		}
		if o.operands&UsesAddress != 0 {
			count++
		}
		infos[o.op] = Info{
			Code:         o.op,
			Name:         o.name,
			Operands:     o.operands,
			OperandCount: count,
			Symbol:       o.symbol,
		}
	}
}

// GetInfo returns information about the given opcode.
func GetInfo(op Code) Info {
	return infos[op]
}

// All returns every defined opcode in ascending order.
func All() []Code {
	var codes []Code
	for i := range infos {
		if infos[i].Name != "" {
			codes = append(codes, Code(i))
		}
	}
	return codes
}
