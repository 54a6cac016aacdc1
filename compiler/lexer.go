package compiler

import (
	"fmt"
	"strconv"
	"strings"
)

type tokenKind int

const (
	tokenEOF tokenKind = iota
	// A word is a field name, a keyword, or a bare literal: numbers, IPs,
	// and true/false all lex as words and are only told apart later, when
	// the kernel knows what type the context demands.
	tokenWord
	tokenString
	tokenOp
	tokenLParen
	tokenRParen
	tokenLBrace
	tokenRBrace
)

type token struct {
	kind tokenKind
	text string
	pos  int
}

func (t token) String() string {
	if t.kind == tokenEOF {
		return "end of input"
	}
	return strconv.Quote(t.text)
}

type lexer struct {
	src    string
	cursor int
}

func (l *lexer) next() (token, error) {
	l.skipSpace()
	pos := l.cursor
	if l.cursor >= len(l.src) {
		return token{kind: tokenEOF, pos: pos}, nil
	}
	c := l.src[l.cursor]
	switch c {
	case '(':
		l.cursor++
		return token{tokenLParen, "(", pos}, nil
	case ')':
		l.cursor++
		return token{tokenRParen, ")", pos}, nil
	case '{':
		l.cursor++
		return token{tokenLBrace, "{", pos}, nil
	case '}':
		l.cursor++
		return token{tokenRBrace, "}", pos}, nil
	case '"':
		return l.scanString()
	case '=', '!', '<', '>', '&', '|':
		return l.scanOp()
	}
	if isWordByte(c) {
		return l.scanWord()
	}
	return token{}, &Error{pos, fmt.Sprintf("unexpected character %q", c)}
}

func (l *lexer) skipSpace() {
	for l.cursor < len(l.src) {
		switch l.src[l.cursor] {
		case ' ', '\t', '\n', '\r':
			l.cursor++
		default:
			return
		}
	}
}

func (l *lexer) scanOp() (token, error) {
	pos := l.cursor
	two := ""
	if l.cursor+2 <= len(l.src) {
		two = l.src[l.cursor : l.cursor+2]
	}
	switch two {
	case "==", "!=", "<=", ">=", "&&", "||":
		l.cursor += 2
		return token{tokenOp, two, pos}, nil
	}
	switch l.src[l.cursor] {
	case '<', '>', '!':
		one := l.src[l.cursor : l.cursor+1]
		l.cursor++
		return token{tokenOp, one, pos}, nil
	}
	return token{}, &Error{pos, fmt.Sprintf("unexpected character %q", l.src[l.cursor])}
}

func (l *lexer) scanString() (token, error) {
	pos := l.cursor
	l.cursor++ // opening quote
	var b strings.Builder
	for l.cursor < len(l.src) {
		c := l.src[l.cursor]
		switch c {
		case '"':
			l.cursor++
			return token{tokenString, b.String(), pos}, nil
		case '\\':
			l.cursor++
			if l.cursor >= len(l.src) {
				return token{}, &Error{pos, "unterminated string"}
			}
			switch e := l.src[l.cursor]; e {
			case '"', '\\':
				b.WriteByte(e)
			case 'n':
				b.WriteByte('\n')
			case 't':
				b.WriteByte('\t')
			default:
				return token{}, &Error{l.cursor, fmt.Sprintf("unknown escape \\%c", e)}
			}
			l.cursor++
		default:
			b.WriteByte(c)
			l.cursor++
		}
	}
	return token{}, &Error{pos, "unterminated string"}
}

func (l *lexer) scanWord() (token, error) {
	pos := l.cursor
	for l.cursor < len(l.src) && isWordByte(l.src[l.cursor]) {
		l.cursor++
	}
	return token{tokenWord, l.src[pos:l.cursor], pos}, nil
}

// isWordByte admits field names (http.host, tcp_flags) and bare literals
// (1024, 0x2a, -1, 1.5, 192.168.0.1, 2001:db8::1, true).
func isWordByte(c byte) bool {
	switch {
	case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
		return true
	case c == '_', c == '.', c == ':', c == '-':
		return true
	}
	return false
}
