package lexer

import (
	"testing"

	"github.com/plzero/pl0/token"
	"github.com/stretchr/testify/require"
)

func TestNextToken(t *testing.T) {
	input := `const max = 10;
var x, y;
begin
  x := -max + (3 * y) / 2;
  if x <= y then ! x;
  while odd x # 0 do ? y
end.`

	tests := []struct {
		expectedType    token.Type
		expectedLiteral string
	}{
		{token.CONST, "const"},
		{token.IDENT, "max"},
		{token.EQ, "="},
		{token.NUMBER, "10"},
		{token.SEMICOLON, ";"},
		{token.VAR, "var"},
		{token.IDENT, "x"},
		{token.COMMA, ","},
		{token.IDENT, "y"},
		{token.SEMICOLON, ";"},
		{token.BEGIN, "begin"},
		{token.IDENT, "x"},
		{token.ASSIGN, ":="},
		{token.MINUS, "-"},
		{token.IDENT, "max"},
		{token.PLUS, "+"},
		{token.LPAREN, "("},
		{token.NUMBER, "3"},
		{token.ASTERISK, "*"},
		{token.IDENT, "y"},
		{token.RPAREN, ")"},
		{token.SLASH, "/"},
		{token.NUMBER, "2"},
		{token.SEMICOLON, ";"},
		{token.IF, "if"},
		{token.IDENT, "x"},
		{token.LT_EQUALS, "<="},
		{token.IDENT, "y"},
		{token.THEN, "then"},
		{token.BANG, "!"},
		{token.IDENT, "x"},
		{token.SEMICOLON, ";"},
		{token.WHILE, "while"},
		{token.ODD, "odd"},
		{token.IDENT, "x"},
		{token.NOT_EQ, "#"},
		{token.NUMBER, "0"},
		{token.DO, "do"},
		{token.QUESTION, "?"},
		{token.IDENT, "y"},
		{token.END, "end"},
		{token.PERIOD, "."},
		{token.EOF, ""},
	}
	l := New(input)
	for i, tt := range tests {
		tok, err := l.Next()
		require.Nil(t, err)
		require.Equal(t, tt.expectedType, tok.Type, "tests[%d]", i)
		require.Equal(t, tt.expectedLiteral, tok.Literal, "tests[%d]", i)
	}
}

func TestRelationalOperators(t *testing.T) {
	l := New("< <= > >= <> # =")
	expected := []token.Type{
		token.LT, token.LT_EQUALS, token.GT, token.GT_EQUALS,
		token.NOT_EQ, token.NOT_EQ, token.EQ, token.EOF,
	}
	for _, want := range expected {
		tok, err := l.Next()
		require.Nil(t, err)
		require.Equal(t, want, tok.Type)
	}
}

func TestKeywordWords(t *testing.T) {
	l := New("READ x; WRITE x")
	expected := []token.Type{token.QUESTION, token.IDENT, token.SEMICOLON, token.BANG, token.IDENT}
	for _, want := range expected {
		tok, err := l.Next()
		require.Nil(t, err)
		require.Equal(t, want, tok.Type)
	}
}

func TestComments(t *testing.T) {
	l := New("{ header }\nx { inline } := 1")
	tok, err := l.Next()
	require.Nil(t, err)
	require.Equal(t, token.IDENT, tok.Type)
	require.Equal(t, 1, tok.StartPosition.Line)
	require.Equal(t, 0, tok.StartPosition.Column)
	tok, err = l.Next()
	require.Nil(t, err)
	require.Equal(t, token.ASSIGN, tok.Type)
}

func TestUnterminatedComment(t *testing.T) {
	l := New("{ never closed")
	_, err := l.Next()
	require.Error(t, err)
	require.Contains(t, err.Error(), "unterminated comment")
}

func TestIllegalCharacter(t *testing.T) {
	l := New("x := 1 $ 2")
	for i := 0; i < 3; i++ {
		_, err := l.Next()
		require.Nil(t, err)
	}
	tok, err := l.Next()
	require.Error(t, err)
	require.Equal(t, token.ILLEGAL, tok.Type)
	require.Equal(t, "unexpected character '$' (line 1, column 8)", err.Error())
}

func TestColonWithoutEquals(t *testing.T) {
	l := New("x : 1")
	_, err := l.Next()
	require.Nil(t, err)
	_, err = l.Next()
	require.Error(t, err)
}

func TestPositions(t *testing.T) {
	l := New("begin\n  x := 42\nend")
	var toks []token.Token
	for {
		tok, err := l.Next()
		require.Nil(t, err)
		toks = append(toks, tok)
		if tok.Type == token.EOF {
			break
		}
	}
	require.Equal(t, 1, toks[1].StartPosition.Line)
	require.Equal(t, 2, toks[1].StartPosition.Column)
	require.Equal(t, "  x := 42", l.GetLineText(toks[1].StartPosition))
	require.Equal(t, 2, toks[4].StartPosition.Line)
}
