package vm

import (
	"github.com/plzero/pl0/bytecode"
	"github.com/plzero/pl0/errz"
)

// runtimeError builds an error located at the instruction being executed.
func (vm *VirtualMachine) runtimeError(format string, args ...any) *errz.StructuredError {
	err := errz.NewStructuredErrorf(errz.ErrRuntime, vm.location(vm.ip-1), format, args...)
	return err.WithStack(vm.stackTrace())
}

func (vm *VirtualMachine) location(addr int) errz.SourceLocation {
	loc := vm.code.LocationAt(addr)
	if loc.IsZero() {
		return errz.SourceLocation{}
	}
	return errz.SourceLocation{
		Filename: vm.code.Filename(),
		Line:     loc.Line,
		Column:   loc.Column,
		Source:   vm.code.GetSourceLine(loc.Line),
	}
}

// stackTrace lists the active frames, innermost first.
func (vm *VirtualMachine) stackTrace() []errz.StackFrame {
	if vm.fp == 0 {
		return nil
	}
	stack := make([]errz.StackFrame, 0, vm.fp+1)
	addr := vm.ip - 1
	for i := vm.fp; i >= 0; i-- {
		f := vm.frames[i]
		stack = append(stack, errz.StackFrame{
			Procedure: vm.procedureName(f.entry),
			Location:  vm.location(addr),
		})
		addr = f.callSite
	}
	return stack
}

func (vm *VirtualMachine) procedureName(entry int) string {
	if proc, ok := vm.code.ProcedureAtEntry(entry); ok {
		return proc.Name
	}
	return ""
}

// Code returns the code this VM executes.
func (vm *VirtualMachine) Code() *bytecode.Code {
	return vm.code
}
