// Package parser turns C-like source text into the ast package's
// translation units. It is a testbed front end: it covers declarations,
// definitions, statements, and the full expression grammar, but it is
// not a conforming C parser and does not try to be one.
package parser

import (
	"fmt"
	"strings"
)

// TokenKind classifies one lexical token.
type TokenKind int

const (
	TokEOF TokenKind = iota
	TokIdent
	TokKeyword
	TokInt
	TokFloat
	TokChar
	TokString
	TokPunct
)

func (k TokenKind) String() string {
	switch k {
	case TokEOF:
		return "end of input"
	case TokIdent:
		return "identifier"
	case TokKeyword:
		return "keyword"
	case TokInt:
		return "integer literal"
	case TokFloat:
		return "float literal"
	case TokChar:
		return "character literal"
	case TokString:
		return "string literal"
	default:
		return "punctuation"
	}
}

// Token is one lexical token. Text holds the source spelling; literal
// tokens keep their quotes and suffixes so the AST can print them back
// untouched.
type Token struct {
	Kind TokenKind
	Text string
	Line int
}

var keywords = map[string]bool{
	"auto": true, "break": true, "case": true, "char": true,
	"const": true, "continue": true, "default": true, "do": true,
	"double": true, "else": true, "enum": true, "extern": true,
	"float": true, "for": true, "goto": true, "if": true,
	"inline": true, "int": true, "long": true, "register": true,
	"return": true, "short": true, "signed": true, "sizeof": true,
	"static": true, "struct": true, "switch": true, "typedef": true,
	"union": true, "unsigned": true, "void": true, "volatile": true,
	"while": true, "_Bool": true, "__int64": true,
	"typeof": true, "__typeof__": true,
	"__alignof__": true, "_Alignof": true,
	"asm": true, "__asm__": true,
	"__attribute__": true, "__inline__": true,
}

// Multi-byte punctuators, longest first so the lexer is greedy.
var puncts = []string{
	"<<=", ">>=", "...",
	"==", "!=", "<=", ">=", "&&", "||", "<<", ">>",
	"+=", "-=", "*=", "/=", "%=", "&=", "|=", "^=",
	"->", "++", "--",
	"+", "-", "*", "/", "%", "&", "|", "^", "~", "!",
	"<", ">", "=", "?", ":", ";", ",", ".",
	"(", ")", "[", "]", "{", "}", "#",
}

// Lexer iterates over the tokens of one source buffer.
type Lexer struct {
	src  string
	pos  int
	line int
}

// NewLexer creates a Lexer over src. Line numbers start at 1.
func NewLexer(src string) *Lexer {
	return &Lexer{src: src, line: 1}
}

// Next returns the next token. At end of input it returns a TokEOF
// token, indefinitely.
func (l *Lexer) Next() (Token, error) {
	if err := l.skipSpace(); err != nil {
		return Token{}, err
	}
	if l.pos >= len(l.src) {
		return Token{Kind: TokEOF, Line: l.line}, nil
	}

	start, line := l.pos, l.line
	ch := l.src[l.pos]

	switch {
	case isIdentStart(ch):
		for l.pos < len(l.src) && isIdentPart(l.src[l.pos]) {
			l.pos++
		}
		text := l.src[start:l.pos]
		kind := TokIdent
		if keywords[text] {
			kind = TokKeyword
		}
		return Token{Kind: kind, Text: text, Line: line}, nil

	case isDigit(ch) || (ch == '.' && l.pos+1 < len(l.src) && isDigit(l.src[l.pos+1])):
		return l.number(line)

	case ch == '\'':
		text, err := l.quoted('\'')
		if err != nil {
			return Token{}, err
		}
		return Token{Kind: TokChar, Text: text, Line: line}, nil

	case ch == '"':
		text, err := l.quoted('"')
		if err != nil {
			return Token{}, err
		}
		return Token{Kind: TokString, Text: text, Line: line}, nil
	}

	for _, p := range puncts {
		if strings.HasPrefix(l.src[l.pos:], p) {
			l.pos += len(p)
			return Token{Kind: TokPunct, Text: p, Line: line}, nil
		}
	}
	return Token{}, fmt.Errorf("line %d: unexpected character %q", line, ch)
}

// skipSpace advances past whitespace, // comments, and /* comments */.
func (l *Lexer) skipSpace() error {
	for l.pos < len(l.src) {
		ch := l.src[l.pos]
		switch {
		case ch == '\n':
			l.line++
			l.pos++
		case ch == ' ' || ch == '\t' || ch == '\r':
			l.pos++
		case strings.HasPrefix(l.src[l.pos:], "//"):
			for l.pos < len(l.src) && l.src[l.pos] != '\n' {
				l.pos++
			}
		case strings.HasPrefix(l.src[l.pos:], "/*"):
			end := strings.Index(l.src[l.pos+2:], "*/")
			if end < 0 {
				return fmt.Errorf("line %d: unterminated comment", l.line)
			}
			l.line += strings.Count(l.src[l.pos:l.pos+2+end+2], "\n")
			l.pos += 2 + end + 2
		default:
			return nil
		}
	}
	return nil
}

func (l *Lexer) number(line int) (Token, error) {
	start := l.pos
	kind := TokInt
	if strings.HasPrefix(l.src[l.pos:], "0x") || strings.HasPrefix(l.src[l.pos:], "0X") {
		l.pos += 2
		for l.pos < len(l.src) && isHexDigit(l.src[l.pos]) {
			l.pos++
		}
	} else {
		for l.pos < len(l.src) && isDigit(l.src[l.pos]) {
			l.pos++
		}
		if l.pos < len(l.src) && l.src[l.pos] == '.' {
			kind = TokFloat
			l.pos++
			for l.pos < len(l.src) && isDigit(l.src[l.pos]) {
				l.pos++
			}
		}
		if l.pos < len(l.src) && (l.src[l.pos] == 'e' || l.src[l.pos] == 'E') {
			kind = TokFloat
			l.pos++
			if l.pos < len(l.src) && (l.src[l.pos] == '+' || l.src[l.pos] == '-') {
				l.pos++
			}
			for l.pos < len(l.src) && isDigit(l.src[l.pos]) {
				l.pos++
			}
		}
	}
	// Integer and float suffixes ride along in the source spelling.
	for l.pos < len(l.src) && isSuffix(l.src[l.pos]) {
		l.pos++
	}
	return Token{Kind: kind, Text: l.src[start:l.pos], Line: line}, nil
}

// quoted consumes a delimited literal including its quotes, honoring
// backslash escapes.
func (l *Lexer) quoted(delim byte) (string, error) {
	start := l.pos
	l.pos++ // opening quote
	for l.pos < len(l.src) {
		ch := l.src[l.pos]
		if ch == '\\' {
			l.pos += 2
			continue
		}
		if ch == delim {
			l.pos++
			return l.src[start:l.pos], nil
		}
		if ch == '\n' {
			break
		}
		l.pos++
	}
	return "", fmt.Errorf("line %d: unterminated %c literal", l.line, delim)
}

func isIdentStart(ch byte) bool {
	return ch == '_' || ('a' <= ch && ch <= 'z') || ('A' <= ch && ch <= 'Z')
}

func isIdentPart(ch byte) bool { return isIdentStart(ch) || isDigit(ch) }

func isDigit(ch byte) bool { return '0' <= ch && ch <= '9' }

func isHexDigit(ch byte) bool {
	return isDigit(ch) || ('a' <= ch && ch <= 'f') || ('A' <= ch && ch <= 'F')
}

func isSuffix(ch byte) bool {
	return ch == 'u' || ch == 'U' || ch == 'l' || ch == 'L' || ch == 'f' || ch == 'F'
}
