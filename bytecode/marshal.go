package bytecode

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/fxamacker/cbor/v2"
	"github.com/gofrs/uuid"
)

const (
	// Magic identifies a serialized PL/0 bytecode file.
	Magic = "PL0C"

	// FormatVersion is incremented whenever the serialized layout changes.
	FormatVersion = 1
)

// ErrBadMagic is returned when decoding data that is not PL/0 bytecode.
var ErrBadMagic = errors.New("bytecode: not a pl0 bytecode file")

// codeState is the serialized form of a Code.
type codeState struct {
	Magic        string           `json:"-" cbor:"1,keyasint"`
	Version      int              `json:"version" cbor:"2,keyasint"`
	ID           string           `json:"id,omitempty" cbor:"3,keyasint,omitempty"`
	Filename     string           `json:"filename,omitempty" cbor:"4,keyasint,omitempty"`
	Source       string           `json:"source,omitempty" cbor:"5,keyasint,omitempty"`
	Instructions []Instruction    `json:"instructions" cbor:"6,keyasint"`
	Locations    []SourceLocation `json:"locations,omitempty" cbor:"7,keyasint,omitempty"`
	Procedures   []Procedure      `json:"procedures,omitempty" cbor:"8,keyasint,omitempty"`
}

var cborEncMode cbor.EncMode

func init() {
	em, err := cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		panic(fmt.Sprintf("bytecode: failed to create CBOR enc mode: %v", err))
	}
	cborEncMode = em
}

// NewID returns a fresh identifier for a compiled program.
func NewID() string {
	return uuid.Must(uuid.NewV4()).String()
}

func (c *Code) state() *codeState {
	return &codeState{
		Magic:        Magic,
		Version:      FormatVersion,
		ID:           c.id,
		Filename:     c.filename,
		Source:       c.source,
		Instructions: c.instructions,
		Locations:    c.locations,
		Procedures:   c.procedures,
	}
}

// Marshal serializes the Code to CBOR bytes.
func Marshal(c *Code) ([]byte, error) {
	return cborEncMode.Marshal(c.state())
}

// Unmarshal deserializes a Code from CBOR bytes produced by Marshal.
func Unmarshal(data []byte) (*Code, error) {
	var state codeState
	if err := cbor.Unmarshal(data, &state); err != nil {
		return nil, fmt.Errorf("bytecode: unmarshal: %w", err)
	}
	if state.Magic != Magic {
		return nil, ErrBadMagic
	}
	if state.Version != FormatVersion {
		return nil, fmt.Errorf("bytecode: unsupported format version %d", state.Version)
	}
	if state.ID != "" {
		if _, err := uuid.FromString(state.ID); err != nil {
			return nil, fmt.Errorf("bytecode: invalid id: %w", err)
		}
	}
	return NewCode(CodeParams{
		ID:           state.ID,
		Filename:     state.Filename,
		Source:       state.Source,
		Instructions: state.Instructions,
		Locations:    state.Locations,
		Procedures:   state.Procedures,
	}), nil
}

// Encode writes the CBOR form of the Code to w.
func Encode(w io.Writer, c *Code) error {
	data, err := Marshal(c)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

// Decode reads a Code previously written by Encode.
func Decode(r io.Reader) (*Code, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("bytecode: read: %w", err)
	}
	return Unmarshal(data)
}

// MarshalJSON implements json.Marshaler.
func (c *Code) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.state())
}
