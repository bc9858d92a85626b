package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lexAll(t *testing.T, src string) []Token {
	t.Helper()
	l := NewLexer(src)
	var toks []Token
	for {
		tok, err := l.Next()
		require.NoError(t, err)
		if tok.Kind == TokEOF {
			return toks
		}
		toks = append(toks, tok)
	}
}

func TestLexerBasics(t *testing.T) {
	toks := lexAll(t, "int x = 42;")
	require.Len(t, toks, 5)
	assert.Equal(t, Token{TokKeyword, "int", 1}, toks[0])
	assert.Equal(t, Token{TokIdent, "x", 1}, toks[1])
	assert.Equal(t, Token{TokPunct, "=", 1}, toks[2])
	assert.Equal(t, Token{TokInt, "42", 1}, toks[3])
	assert.Equal(t, Token{TokPunct, ";", 1}, toks[4])
}

func TestLexerGreedyPunct(t *testing.T) {
	toks := lexAll(t, "a <<= b >> c->d ... e")
	var texts []string
	for _, tok := range toks {
		texts = append(texts, tok.Text)
	}
	assert.Equal(t, []string{"a", "<<=", "b", ">>", "c", "->", "d", "...", "e"}, texts)
}

func TestLexerCommentsAndLines(t *testing.T) {
	toks := lexAll(t, "a // one\nb /* two\nlines */ c")
	require.Len(t, toks, 3)
	assert.Equal(t, 1, toks[0].Line)
	assert.Equal(t, 2, toks[1].Line)
	assert.Equal(t, 3, toks[2].Line)
}

func TestLexerLiteralsKeepSpelling(t *testing.T) {
	toks := lexAll(t, `0x1f 1.5e-3 10UL 'a' '\n' "hi\"there"`)
	require.Len(t, toks, 6)
	assert.Equal(t, Token{TokInt, "0x1f", 1}, toks[0])
	assert.Equal(t, Token{TokFloat, "1.5e-3", 1}, toks[1])
	assert.Equal(t, Token{TokInt, "10UL", 1}, toks[2])
	assert.Equal(t, Token{TokChar, `'a'`, 1}, toks[3])
	assert.Equal(t, Token{TokChar, `'\n'`, 1}, toks[4])
	assert.Equal(t, Token{TokString, `"hi\"there"`, 1}, toks[5])
}

func TestLexerUnterminatedString(t *testing.T) {
	l := NewLexer(`"oops`)
	_, err := l.Next()
	assert.ErrorContains(t, err, "unterminated")
}

func TestLexerUnterminatedComment(t *testing.T) {
	l := NewLexer("/* oops")
	_, err := l.Next()
	assert.ErrorContains(t, err, "unterminated comment")
}
