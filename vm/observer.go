package vm

import (
	"github.com/rs/zerolog"

	"github.com/plzero/pl0/bytecode"
)

// StepMode controls when OnStep callbacks are triggered.
type StepMode uint8

const (
	// StepAll calls OnStep for every instruction.
	StepAll StepMode = iota

	// StepNone never calls OnStep.
	StepNone

	// StepSampled calls OnStep every N instructions.
	StepSampled
)

// ObserverConfig specifies what events an observer wants to receive.
type ObserverConfig struct {
	// StepMode controls OnStep callback frequency.
	StepMode StepMode

	// SampleInterval is the number of instructions between OnStep calls
	// when StepMode is StepSampled. Values <= 0 are treated as 1.
	SampleInterval int
}

// NormalizeConfig validates and clamps config values.
func NormalizeConfig(cfg ObserverConfig) ObserverConfig {
	if cfg.StepMode == StepSampled && cfg.SampleInterval <= 0 {
		cfg.SampleInterval = 1
	}
	return cfg
}

// Observer is an interface for observing VM execution events.
// Implementations can embed NoOpObserver to provide default no-op
// implementations for methods they don't need.
//
// Observer methods are called synchronously during VM execution.
// Implementations should be fast to avoid impacting performance.
type Observer interface {
	// Config returns the observer's configuration.
	// Called once when the observer is attached to the VM.
	Config() ObserverConfig

	// OnStep is called before an instruction executes.
	// Returns false to halt execution immediately.
	OnStep(event StepEvent) bool

	// OnCall is called after a CALL created a new activation record.
	// Returns false to halt execution immediately.
	OnCall(event CallEvent) bool

	// OnReturn is called after LEAVE returned to the caller.
	// Returns false to halt execution immediately.
	OnReturn(event ReturnEvent) bool
}

// StepEvent contains information about a single instruction step.
type StepEvent struct {
	// IP is the address of the instruction.
	IP int

	// Instruction is the instruction about to execute.
	Instruction bytecode.Instruction

	// Location is the source location of the instruction.
	Location bytecode.SourceLocation

	// StackDepth is the current depth of the operand stack.
	StackDepth int

	// FrameDepth is the current number of activation records.
	FrameDepth int
}

// CallEvent contains information about a procedure call.
type CallEvent struct {
	// Procedure is the name of the called procedure, if known.
	Procedure string

	// Entry is the address the call jumped to.
	Entry int

	// Distance is the static-link distance from caller to callee's
	// declaring scope.
	Distance int

	// Location is the source location of the call site.
	Location bytecode.SourceLocation

	// FrameDepth is the number of activation records after the call.
	FrameDepth int
}

// ReturnEvent contains information about a procedure return.
type ReturnEvent struct {
	// Procedure is the name of the returning procedure, if known.
	Procedure string

	// Location is the source location of the call being returned to.
	Location bytecode.SourceLocation

	// FrameDepth is the number of activation records after returning.
	FrameDepth int
}

// NoOpObserver is an Observer implementation that does nothing.
type NoOpObserver struct{}

func (NoOpObserver) Config() ObserverConfig {
	return ObserverConfig{StepMode: StepAll}
}

func (NoOpObserver) OnStep(StepEvent) bool     { return true }
func (NoOpObserver) OnCall(CallEvent) bool     { return true }
func (NoOpObserver) OnReturn(ReturnEvent) bool { return true }

// Ensure NoOpObserver implements Observer.
var _ Observer = NoOpObserver{}

// TraceObserver logs every VM event to a zerolog logger. Steps are logged
// at trace level, calls and returns at debug level.
type TraceObserver struct {
	logger zerolog.Logger
	mode   StepMode
}

// NewTraceObserver returns an observer that writes execution events to logger.
// Steps are skipped unless the logger is enabled for trace level.
func NewTraceObserver(logger zerolog.Logger) *TraceObserver {
	mode := StepNone
	if logger.GetLevel() <= zerolog.TraceLevel {
		mode = StepAll
	}
	return &TraceObserver{logger: logger, mode: mode}
}

func (o *TraceObserver) Config() ObserverConfig {
	return ObserverConfig{StepMode: o.mode}
}

func (o *TraceObserver) OnStep(e StepEvent) bool {
	o.logger.Trace().
		Int("ip", e.IP).
		Str("inst", e.Instruction.String()).
		Int("stack", e.StackDepth).
		Int("frames", e.FrameDepth).
		Msg("step")
	return true
}

func (o *TraceObserver) OnCall(e CallEvent) bool {
	o.logger.Debug().
		Str("procedure", e.Procedure).
		Int("entry", e.Entry).
		Int("distance", e.Distance).
		Int("frames", e.FrameDepth).
		Msg("call")
	return true
}

func (o *TraceObserver) OnReturn(e ReturnEvent) bool {
	o.logger.Debug().
		Str("procedure", e.Procedure).
		Int("frames", e.FrameDepth).
		Msg("return")
	return true
}

var _ Observer = (*TraceObserver)(nil)
