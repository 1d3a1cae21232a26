package assembler

import (
	"github.com/rs/zerolog"

	"github.com/plzero/pl0/bytecode"
)

// Backpatcher is a handle to one instruction emitted with placeholder
// operands. It can only replace that instruction's level and address
// operands; every other instruction stays out of reach.
type Backpatcher struct {
	code   *bytecode.Program
	at     int
	logger zerolog.Logger
}

// Index returns the address of the instruction this handle patches.
func (b *Backpatcher) Index() int {
	return b.at
}

// SetLevel replaces the scope-distance operand. The last call wins.
func (b *Backpatcher) SetLevel(level int) {
	b.code.SetA(b.at, level)
	b.logger.Trace().Int("addr", b.at).Int("level", level).Msg("backpatch level")
}

// SetAddress replaces the target address operand. The last call wins.
func (b *Backpatcher) SetAddress(address int) {
	b.code.SetB(b.at, address)
	b.logger.Trace().Int("addr", b.at).Int("target", address).Msg("backpatch address")
}
