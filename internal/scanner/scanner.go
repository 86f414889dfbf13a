// Package scanner turns chasm source text into a lazy sequence of
// classified tokens. It is consumed one token at a time by the single-pass
// compiler, with no intermediate token slice ever materialised.
package scanner

import (
	"github.com/chasm-lang/chasmc/internal/diagnostic"
	"github.com/chasm-lang/chasmc/internal/token"
)

// Scanner scans chasm source text character by character.
type Scanner struct {
	input        string
	position     int  // index of ch
	readPosition int  // index after ch
	ch           byte // current char, 0 at end of input
	line         int
	column       int
}

// New creates a Scanner positioned at the start of input.
func New(input string) *Scanner {
	s := &Scanner{input: input, line: 1, column: 0}
	s.readChar()
	return s
}

func (s *Scanner) readChar() {
	if s.readPosition >= len(s.input) {
		s.ch = 0
	} else {
		s.ch = s.input[s.readPosition]
	}
	s.position = s.readPosition
	s.readPosition++
	s.column++
}

func (s *Scanner) peekChar() byte {
	if s.readPosition >= len(s.input) {
		return 0
	}
	return s.input[s.readPosition]
}

func (s *Scanner) skipWhitespace() {
	for s.ch == ' ' || s.ch == '\t' || s.ch == '\r' || s.ch == '\n' {
		if s.ch == '\n' {
			s.line++
			s.column = 0
		}
		s.readChar()
	}
}

func (s *Scanner) readIdentifier() string {
	start := s.position
	for isIdentStart(s.ch) || isDigit(s.ch) {
		s.readChar()
	}
	return s.input[start:s.position]
}

// readNumber reads a decimal float literal: digits, optional '.', optional
// 'e[+-]?digits'. A leading '-' is never part of the literal: unary minus
// is not a token in chasm.
func (s *Scanner) readNumber() string {
	start := s.position
	for isDigit(s.ch) {
		s.readChar()
	}
	if s.ch == '.' && isDigit(s.peekChar()) {
		s.readChar()
		for isDigit(s.ch) {
			s.readChar()
		}
	}
	if s.ch == 'e' || s.ch == 'E' {
		lookahead := s.readPosition
		if lookahead < len(s.input) && (s.input[lookahead] == '+' || s.input[lookahead] == '-') {
			lookahead++
		}
		if lookahead < len(s.input) && isDigit(s.input[lookahead]) {
			s.readChar() // consume e/E
			if s.ch == '+' || s.ch == '-' {
				s.readChar()
			}
			for isDigit(s.ch) {
				s.readChar()
			}
		}
	}
	return s.input[start:s.position]
}

// Next returns the next token, or a diagnostic.Error with Kind
// UnexpectedChar if the current character starts no recognised token. Once
// the input is exhausted, Next returns an Eof token indefinitely.
func (s *Scanner) Next() (token.Token, error) {
	s.skipWhitespace()

	line, column := s.line, s.column

	switch {
	case s.ch == 0:
		return token.Token{Kind: token.Eof, Literal: "", Line: line, Column: column}, nil

	case s.ch == '=':
		if s.peekChar() == '=' {
			s.readChar()
			s.readChar()
			return token.Token{Kind: token.Eq, Literal: "==", Line: line, Column: column}, nil
		}
		s.readChar()
		return token.Token{Kind: token.Assign, Literal: "=", Line: line, Column: column}, nil

	case s.ch == '<':
		s.readChar()
		return token.Token{Kind: token.Lt, Literal: "<", Line: line, Column: column}, nil

	case s.ch == '>':
		s.readChar()
		return token.Token{Kind: token.Gt, Literal: ">", Line: line, Column: column}, nil

	case s.ch == '+':
		s.readChar()
		return token.Token{Kind: token.Plus, Literal: "+", Line: line, Column: column}, nil

	case s.ch == '-':
		s.readChar()
		return token.Token{Kind: token.Minus, Literal: "-", Line: line, Column: column}, nil

	case s.ch == '*':
		s.readChar()
		return token.Token{Kind: token.Star, Literal: "*", Line: line, Column: column}, nil

	case s.ch == '/':
		s.readChar()
		return token.Token{Kind: token.Slash, Literal: "/", Line: line, Column: column}, nil

	case s.ch == '&' && s.peekChar() == '&':
		s.readChar()
		s.readChar()
		return token.Token{Kind: token.And, Literal: "&&", Line: line, Column: column}, nil

	case s.ch == '|' && s.peekChar() == '|':
		s.readChar()
		s.readChar()
		return token.Token{Kind: token.Or, Literal: "||", Line: line, Column: column}, nil

	case s.ch == '(':
		s.readChar()
		return token.Token{Kind: token.LParen, Literal: "(", Line: line, Column: column}, nil

	case s.ch == ')':
		s.readChar()
		return token.Token{Kind: token.RParen, Literal: ")", Line: line, Column: column}, nil

	case s.ch == ',':
		s.readChar()
		return token.Token{Kind: token.Comma, Literal: ",", Line: line, Column: column}, nil

	case isDigit(s.ch):
		lit := s.readNumber()
		return token.Token{Kind: token.Number, Literal: lit, Line: line, Column: column}, nil

	case isIdentStart(s.ch):
		ident := s.readIdentifier()
		return token.Token{Kind: token.Lookup(ident), Literal: ident, Line: line, Column: column}, nil

	default:
		ch := s.ch
		s.readChar()
		return token.Token{}, diagnostic.UnexpectedCharAt(ch, line, column)
	}
}

func isIdentStart(ch byte) bool {
	return 'a' <= ch && ch <= 'z' || 'A' <= ch && ch <= 'Z' || ch == '_' || ch == '$'
}

func isDigit(ch byte) bool {
	return '0' <= ch && ch <= '9'
}
