// Package chasm compiles chasm source directly to a WebAssembly binary
// module. Compile is a pure, synchronous function: no I/O, no concurrency,
// no global state carried between calls.
package chasm

import "github.com/chasm-lang/chasmc/internal/compiler"

// Compile lexes and compiles source in a single pass, returning the
// assembled Wasm module bytes or the first diagnostic error encountered.
func Compile(source string) ([]byte, error) {
	return compiler.Compile(source)
}
