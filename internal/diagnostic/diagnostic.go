// Package diagnostic defines the structured, fatal compiler error chasmc
// reports. chasm has no error recovery: the first diagnostic aborts
// compilation and travels to the API boundary unchanged.
package diagnostic

import (
	"fmt"

	"github.com/chasm-lang/chasmc/internal/token"
)

// Kind is the closed set of error categories chasmc can report.
type Kind string

const (
	// UnexpectedChar: the scanner found a character outside any token pattern.
	UnexpectedChar Kind = "UnexpectedChar"
	// UnexpectedToken: the parser expected a specific token/keyword and saw another.
	UnexpectedToken Kind = "UnexpectedToken"
	// UndefinedSymbol: an identifier was referenced before its `var` declaration.
	UndefinedSymbol Kind = "UndefinedSymbol"
	// NumberOutOfRange: a numeric literal cannot be parsed as f32.
	NumberOutOfRange Kind = "NumberOutOfRange"
)

// TokenInfo is the span a diagnostic points at, shaped for a host editor to
// highlight directly.
type TokenInfo struct {
	Value string `json:"value"`
	Line  int    `json:"line"`
	Char  int    `json:"char"`
}

// Error is the single structured error chasmc ever returns. It serialises to
// JSON as {kind, message, token: {value, line, char}} per the API contract.
type Error struct {
	Kind    Kind      `json:"kind"`
	Message string    `json:"message"`
	Token   TokenInfo `json:"token"`
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("%s at %d:%d: %s", e.Kind, e.Token.Line, e.Token.Char, e.Message)
}

// FromToken builds an Error anchored at tok with a formatted message.
func FromToken(kind Kind, tok token.Token, format string, args ...interface{}) *Error {
	return &Error{
		Kind:    kind,
		Message: fmt.Sprintf(format, args...),
		Token: TokenInfo{
			Value: tok.Literal,
			Line:  tok.Line,
			Char:  tok.Column,
		},
	}
}

// UnexpectedCharAt builds an UnexpectedChar error for a raw scanner position,
// before any Token has been assembled.
func UnexpectedCharAt(ch byte, line, column int) *Error {
	return &Error{
		Kind:    UnexpectedChar,
		Message: fmt.Sprintf("unexpected character %q", ch),
		Token: TokenInfo{
			Value: string(ch),
			Line:  line,
			Char:  column,
		},
	}
}
