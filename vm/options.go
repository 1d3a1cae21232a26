package vm

import "io"

// Option is a configuration function for a Virtual Machine.
type Option func(*VirtualMachine)

// WithInput sets the reader that READ instructions consume integers from.
func WithInput(r io.Reader) Option {
	return func(vm *VirtualMachine) {
		vm.input = r
	}
}

// WithOutput sets the writer that WRITE instructions print to.
func WithOutput(w io.Writer) Option {
	return func(vm *VirtualMachine) {
		vm.output = w
	}
}

// WithMaxFrameDepth limits the number of nested activation records.
func WithMaxFrameDepth(depth int) Option {
	return func(vm *VirtualMachine) {
		if depth > 0 {
			vm.maxFrameDepth = depth
		}
	}
}

// WithMaxStackDepth limits the size of the operand stack.
func WithMaxStackDepth(depth int) Option {
	return func(vm *VirtualMachine) {
		if depth > 0 {
			vm.maxStackDepth = depth
		}
	}
}

// WithContextCheckInterval sets how often the VM checks ctx.Done() during
// execution. The interval is specified in number of instructions. A value of 0
// disables deterministic checking, relying only on the background goroutine
// that monitors the context. The default is DefaultContextCheckInterval (1000).
func WithContextCheckInterval(interval int) Option {
	return func(vm *VirtualMachine) {
		vm.contextCheckInterval = interval
	}
}

// WithObserver sets an observer for VM execution events.
// The observer receives callbacks for instruction steps, procedure calls,
// and procedure returns. Returning false from any observer method halts
// execution immediately.
func WithObserver(observer Observer) Option {
	return func(vm *VirtualMachine) {
		vm.observer = observer
	}
}
