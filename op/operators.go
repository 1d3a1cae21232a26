package op

import "github.com/plzero/pl0/token"

// operators translates operator tokens classified by the front end into the
// opcode that implements them. It is never modified after initialization.
var operators = map[token.Type]Code{
	token.PLUS:      Add,
	token.MINUS:     Subtract,
	token.ASTERISK:  Multiply,
	token.SLASH:     Divide,
	token.EQ:        Equal,
	token.NOT_EQ:    NotEqual,
	token.LT:        LessThan,
	token.LT_EQUALS: LessThanOrEqual,
	token.GT:        GreaterThan,
	token.GT_EQUALS: GreaterThanOrEqual,
	token.NEG:       Negate,
	token.ODD:       Odd,
}

// ForOperator returns the opcode for an operator token. The second result is
// false if the token is not an operator.
func ForOperator(tok token.Type) (Code, bool) {
	code, ok := operators[tok]
	return code, ok
}

// Operators returns the operator tokens that ForOperator accepts.
func Operators() []token.Type {
	toks := make([]token.Type, 0, len(operators))
	for tok := range operators {
		toks = append(toks, tok)
	}
	return toks
}
