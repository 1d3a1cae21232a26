package compiler

import (
	"fmt"
	"sort"
)

// SymbolKind distinguishes the three kinds of PL/0 declarations.
type SymbolKind int

const (
	Constant SymbolKind = iota
	Variable
	Procedure
)

func (k SymbolKind) String() string {
	switch k {
	case Constant:
		return "constant"
	case Variable:
		return "variable"
	case Procedure:
		return "procedure"
	default:
		return "symbol"
	}
}

// Symbol is one declared name.
type Symbol struct {
	name  string
	kind  SymbolKind
	value int // constant value, variable slot or procedure entry address
}

func (s *Symbol) Name() string {
	return s.name
}

func (s *Symbol) Kind() SymbolKind {
	return s.kind
}

// Value returns the constant's value.
func (s *Symbol) Value() int {
	return s.value
}

// Index returns the variable's slot within its frame.
func (s *Symbol) Index() int {
	return s.value
}

// Entry returns the procedure's entry address.
func (s *Symbol) Entry() int {
	return s.value
}

// Resolution is the result of looking up a name from some scope.
type Resolution struct {
	Symbol *Symbol
	// Distance is the number of scopes between the lookup and the
	// declaration. 0 means the name is declared in the current scope.
	Distance int
}

// SymbolTable holds the declarations of one PL/0 block. Each procedure gets
// a child table one level deeper than its parent.
type SymbolTable struct {
	parent   *SymbolTable
	level    int
	symbols  map[string]*Symbol
	varCount int
}

// NewSymbolTable returns the table for the outermost block.
func NewSymbolTable() *SymbolTable {
	return &SymbolTable{symbols: map[string]*Symbol{}}
}

// NewChild returns the table for a procedure declared in this block.
func (t *SymbolTable) NewChild() *SymbolTable {
	return &SymbolTable{
		parent:  t,
		level:   t.level + 1,
		symbols: map[string]*Symbol{},
	}
}

func (t *SymbolTable) Parent() *SymbolTable {
	return t.parent
}

// Level returns the nesting depth; the outermost block is 0.
func (t *SymbolTable) Level() int {
	return t.level
}

// Count returns the number of variables, which is the block's frame size.
func (t *SymbolTable) Count() int {
	return t.varCount
}

func (t *SymbolTable) IsDefined(name string) bool {
	_, ok := t.symbols[name]
	return ok
}

func (t *SymbolTable) Get(name string) (*Symbol, bool) {
	s, ok := t.symbols[name]
	return s, ok
}

func (t *SymbolTable) InsertConstant(name string, value int) (*Symbol, error) {
	return t.insert(&Symbol{name: name, kind: Constant, value: value})
}

func (t *SymbolTable) InsertVariable(name string) (*Symbol, error) {
	s, err := t.insert(&Symbol{name: name, kind: Variable, value: t.varCount})
	if err != nil {
		return nil, err
	}
	t.varCount++
	return s, nil
}

func (t *SymbolTable) InsertProcedure(name string, entry int) (*Symbol, error) {
	return t.insert(&Symbol{name: name, kind: Procedure, value: entry})
}

func (t *SymbolTable) insert(s *Symbol) (*Symbol, error) {
	if prev, exists := t.symbols[s.name]; exists {
		return nil, fmt.Errorf("%q redeclared (previously declared as %s)", s.name, prev.kind)
	}
	t.symbols[s.name] = s
	return s, nil
}

// Resolve looks name up in this table and then in each enclosing table.
func (t *SymbolTable) Resolve(name string) (*Resolution, bool) {
	distance := 0
	for curr := t; curr != nil; curr = curr.parent {
		if s, ok := curr.symbols[name]; ok {
			return &Resolution{Symbol: s, Distance: distance}, true
		}
		distance++
	}
	return nil, false
}

// Names returns the names declared in this table, sorted.
func (t *SymbolTable) Names() []string {
	names := make([]string, 0, len(t.symbols))
	for name := range t.symbols {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
