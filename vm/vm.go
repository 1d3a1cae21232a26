// Package vm provides a VirtualMachine that executes compiled PL/0 bytecode.
//
// The machine keeps an operand stack of integers and a stack of activation
// records. Each record holds a static link to the record of its lexically
// enclosing scope; LOAD_VAR, STORE_VAR and CALL follow that chain for the
// number of hops given by their level operand.
package vm

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
	"sync/atomic"

	"github.com/plzero/pl0/bytecode"
	"github.com/plzero/pl0/errz"
	"github.com/plzero/pl0/op"
)

const (
	DefaultMaxFrameDepth = 1024
	DefaultMaxStackDepth = 1024
	StopSignal           = -1

	// DefaultContextCheckInterval is the number of instructions between
	// deterministic checks of ctx.Done(). Set to 0 to disable.
	DefaultContextCheckInterval = 1000
)

var (
	ErrAlreadyRunning   = errors.New("vm is already running")
	ErrHaltedByObserver = errors.New("execution halted by observer")
)

type VirtualMachine struct {
	ip     int // instruction pointer
	sp     int // stack pointer
	fp     int // frame pointer
	halt   int32
	code   *bytecode.Code
	stack  []int64
	frames []frame
	input  io.Reader
	reader *bufio.Reader
	output io.Writer

	running  bool
	runMutex sync.Mutex
	// stopped is closed when a run ends so its context watcher exits
	stopped  chan struct{}
	watcher  sync.WaitGroup

	maxFrameDepth        int
	maxStackDepth        int
	contextCheckInterval int

	// observer receives callbacks for VM execution events (steps, calls,
	// returns). If nil, no callbacks are made.
	observer Observer
	stepMode StepMode
	sample   int
}

// New creates a new Virtual Machine for the given code.
func New(code *bytecode.Code, options ...Option) *VirtualMachine {
	vm := &VirtualMachine{
		code:                 code,
		sp:                   -1,
		input:                os.Stdin,
		output:               os.Stdout,
		maxFrameDepth:        DefaultMaxFrameDepth,
		maxStackDepth:        DefaultMaxStackDepth,
		contextCheckInterval: DefaultContextCheckInterval,
	}
	for _, opt := range options {
		opt(vm)
	}
	if vm.observer != nil {
		cfg := NormalizeConfig(vm.observer.Config())
		vm.stepMode = cfg.StepMode
		vm.sample = cfg.SampleInterval
	}
	return vm
}

// Run the given code in a new Virtual Machine.
func Run(ctx context.Context, code *bytecode.Code, options ...Option) error {
	return New(code, options...).Run(ctx)
}

func (vm *VirtualMachine) start(ctx context.Context) error {
	vm.runMutex.Lock()
	defer vm.runMutex.Unlock()
	if vm.running {
		return ErrAlreadyRunning
	}
	vm.running = true
	// Halt execution when the context is cancelled
	atomic.StoreInt32(&vm.halt, 0)
	vm.stopped = make(chan struct{})
	if doneChan := ctx.Done(); doneChan != nil {
		vm.watcher.Add(1)
		go func(stopped <-chan struct{}) {
			defer vm.watcher.Done()
			select {
			case <-doneChan:
				atomic.StoreInt32(&vm.halt, 1)
			case <-stopped:
			}
		}(vm.stopped)
	}
	return nil
}

// stop ends the run. The context watcher has exited when stop returns, so
// it cannot halt a later run.
func (vm *VirtualMachine) stop() {
	vm.runMutex.Lock()
	defer vm.runMutex.Unlock()
	close(vm.stopped)
	vm.watcher.Wait()
	vm.running = false
}

// Run executes the code from address 0 until the outermost activation record
// is left or the instruction pointer moves past the last instruction.
func (vm *VirtualMachine) Run(ctx context.Context) (err error) {
	// Set up some guarantees:
	// 1. It is an error to call Run on a VM that is already running
	// 2. The running flag will always be set to false when Run returns
	// 3. Any panics are translated to errors and the VM is stopped
	if err := vm.start(ctx); err != nil {
		return err
	}
	defer func() {
		if r := recover(); r != nil {
			if rerr, ok := r.(*errz.StructuredError); ok {
				err = rerr
			} else {
				err = fmt.Errorf("panic: %v", r)
			}
		}
		vm.stop()
	}()
	vm.reset()
	return vm.eval(ctx)
}

func (vm *VirtualMachine) reset() {
	vm.ip = 0
	vm.sp = -1
	vm.fp = 0
	if len(vm.stack) != vm.maxStackDepth {
		vm.stack = make([]int64, vm.maxStackDepth)
	}
	if len(vm.frames) != vm.maxFrameDepth {
		vm.frames = make([]frame, vm.maxFrameDepth)
	}
	vm.frames[0].activate(noFrame, StopSignal, StopSignal, 0)
	vm.reader = nil
}

// TOS returns the value on top of the operand stack, if any.
func (vm *VirtualMachine) TOS() (int64, bool) {
	if vm.sp < 0 {
		return 0, false
	}
	return vm.stack[vm.sp], true
}

// Evaluate the code. Assuming this function returns without error, the
// outermost activation record was left or execution fell off the end.
func (vm *VirtualMachine) eval(ctx context.Context) error {
	var instructionCount, stepCount int
	checkInterval := vm.contextCheckInterval
	doneChan := ctx.Done()
	count := vm.code.InstructionCount()

	for vm.ip >= 0 && vm.ip < count {

		if atomic.LoadInt32(&vm.halt) == 1 {
			return ctx.Err()
		}

		// Deterministic check of ctx.Done() every N instructions.
		// This guarantees responsiveness regardless of goroutine scheduling.
		if checkInterval > 0 && doneChan != nil {
			instructionCount++
			if instructionCount >= checkInterval {
				instructionCount = 0
				select {
				case <-doneChan:
					atomic.StoreInt32(&vm.halt, 1)
					return ctx.Err()
				default:
				}
			}
		}

		inst := vm.code.InstructionAt(vm.ip)

		if vm.observer != nil && vm.shouldStep(&stepCount) {
			if !vm.observer.OnStep(StepEvent{
				IP:          vm.ip,
				Instruction: inst,
				Location:    vm.code.LocationAt(vm.ip),
				StackDepth:  vm.sp + 1,
				FrameDepth:  vm.fp + 1,
			}) {
				return ErrHaltedByObserver
			}
		}

		// Advance the instruction pointer before executing, so jumps simply
		// overwrite it.
		vm.ip++

		switch inst.Opcode {
		case op.PushConst:
			vm.push(int64(inst.B))
		case op.LoadVar:
			locals := vm.localsAt(inst.A, inst.B)
			vm.push(locals[inst.B])
		case op.StoreVar:
			locals := vm.localsAt(inst.A, inst.B)
			locals[inst.B] = vm.pop()
		case op.Call:
			if err := vm.call(inst); err != nil {
				return err
			}
		case op.Branch:
			if err := vm.jump(inst.B); err != nil {
				return err
			}
		case op.BranchIfFalse:
			if vm.pop() == 0 {
				if err := vm.jump(inst.B); err != nil {
					return err
				}
			}
		case op.Enter:
			if inst.B < 0 {
				return vm.runtimeError("negative slot count %d", inst.B)
			}
			vm.frames[vm.fp].enter(inst.B)
		case op.Leave:
			if err := vm.leave(); err != nil {
				return err
			}
		case op.Read:
			value, err := vm.read()
			if err != nil {
				return err
			}
			vm.push(value)
		case op.Write:
			if _, err := fmt.Fprintln(vm.output, vm.pop()); err != nil {
				return vm.runtimeError("write failed: %v", err)
			}
		case op.Negate:
			vm.push(-vm.pop())
		case op.Odd:
			vm.push(boolToInt(vm.pop()%2 != 0))
		case op.Add, op.Subtract, op.Multiply, op.Divide,
			op.Equal, op.NotEqual, op.LessThan, op.LessThanOrEqual,
			op.GreaterThan, op.GreaterThanOrEqual:
			b := vm.pop()
			a := vm.pop()
			result, err := vm.binaryOp(inst.Opcode, a, b)
			if err != nil {
				return err
			}
			vm.push(result)
		default:
			return vm.runtimeError("invalid opcode %d", inst.Opcode)
		}
	}
	return nil
}

// jump moves the instruction pointer to target. Only the main program may
// jump just past the last instruction, which ends execution.
func (vm *VirtualMachine) jump(target int) error {
	count := vm.code.InstructionCount()
	if target < 0 || target > count || (target == count && vm.fp > 0) {
		return vm.runtimeError("jump to invalid address %d", target)
	}
	vm.ip = target
	return nil
}

func (vm *VirtualMachine) binaryOp(opcode op.Code, a, b int64) (int64, error) {
	switch opcode {
	case op.Add:
		return a + b, nil
	case op.Subtract:
		return a - b, nil
	case op.Multiply:
		return a * b, nil
	case op.Divide:
		if b == 0 {
			return 0, vm.runtimeError("division by zero")
		}
		return a / b, nil
	case op.Equal:
		return boolToInt(a == b), nil
	case op.NotEqual:
		return boolToInt(a != b), nil
	case op.LessThan:
		return boolToInt(a < b), nil
	case op.LessThanOrEqual:
		return boolToInt(a <= b), nil
	case op.GreaterThan:
		return boolToInt(a > b), nil
	default:
		return boolToInt(a >= b), nil
	}
}

func (vm *VirtualMachine) call(inst bytecode.Instruction) error {
	if inst.B < 0 || inst.B >= vm.code.InstructionCount() {
		return vm.runtimeError("call to invalid address %d", inst.B)
	}
	base := vm.base(inst.A)
	if vm.fp+1 >= vm.maxFrameDepth {
		return vm.runtimeError("call stack overflow (max depth %d)", vm.maxFrameDepth)
	}
	callSite := vm.ip - 1
	vm.fp++
	vm.frames[vm.fp].activate(base, vm.ip, callSite, inst.B)
	vm.ip = inst.B
	if vm.observer != nil {
		if !vm.observer.OnCall(CallEvent{
			Procedure:  vm.procedureName(inst.B),
			Entry:      inst.B,
			Distance:   inst.A,
			Location:   vm.code.LocationAt(callSite),
			FrameDepth: vm.fp + 1,
		}) {
			return ErrHaltedByObserver
		}
	}
	return nil
}

func (vm *VirtualMachine) leave() error {
	f := &vm.frames[vm.fp]
	returnAddr := f.returnAddr
	entry := f.entry
	f.locals = nil
	if vm.fp == 0 {
		vm.ip = StopSignal
		return nil
	}
	vm.fp--
	vm.ip = returnAddr
	if vm.observer != nil {
		if !vm.observer.OnReturn(ReturnEvent{
			Procedure:  vm.procedureName(entry),
			Location:   vm.code.LocationAt(returnAddr - 1),
			FrameDepth: vm.fp + 1,
		}) {
			return ErrHaltedByObserver
		}
	}
	return nil
}

// base follows distance static links from the active frame.
func (vm *VirtualMachine) base(distance int) int {
	f := vm.fp
	for i := 0; i < distance; i++ {
		f = vm.frames[f].staticLink
		if f == noFrame {
			panic(vm.runtimeError("static chain is shorter than distance %d", distance))
		}
	}
	return f
}

func (vm *VirtualMachine) localsAt(distance, index int) []int64 {
	locals := vm.frames[vm.base(distance)].locals
	if index < 0 || index >= len(locals) {
		panic(vm.runtimeError("variable slot %d out of range at distance %d", index, distance))
	}
	return locals
}

func (vm *VirtualMachine) read() (int64, error) {
	if vm.reader == nil {
		vm.reader = bufio.NewReader(vm.input)
	}
	var value int64
	if _, err := fmt.Fscan(vm.reader, &value); err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return 0, vm.runtimeError("read: unexpected end of input")
		}
		return 0, vm.runtimeError("read: %v", err)
	}
	return value, nil
}

func (vm *VirtualMachine) push(value int64) {
	if vm.sp+1 >= len(vm.stack) {
		panic(vm.runtimeError("stack overflow (max depth %d)", len(vm.stack)))
	}
	vm.sp++
	vm.stack[vm.sp] = value
}

func (vm *VirtualMachine) pop() int64 {
	if vm.sp < 0 {
		panic(vm.runtimeError("stack underflow"))
	}
	value := vm.stack[vm.sp]
	vm.sp--
	return value
}

func (vm *VirtualMachine) shouldStep(count *int) bool {
	switch vm.stepMode {
	case StepNone:
		return false
	case StepSampled:
		*count++
		if *count >= vm.sample {
			*count = 0
			return true
		}
		return false
	default:
		return true
	}
}

func boolToInt(b bool) int64 {
	if b {
		return 1
	}
	return 0
}
