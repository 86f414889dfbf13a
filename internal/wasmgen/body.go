package wasmgen

// Body is an append-only Wasm opcode stream for a single function. The
// single-pass compiler calls these methods directly as it parses chasm
// source, so the final byte layout always matches parse order exactly —
// nothing is reordered or buffered outside this one growing slice.
type Body struct {
	code []byte
}

// NewBody starts a fresh, empty opcode stream for one function body.
func NewBody() *Body {
	return &Body{}
}

// Bytes returns the raw opcode stream accumulated so far (without the
// locals header or terminating end — see EncodeFunctionBody).
func (b *Body) Bytes() []byte {
	return b.code
}

func (b *Body) emit(op byte) {
	b.code = append(b.code, op)
}

func (b *Body) emitLEB128U(v uint64) {
	b.code = append(b.code, encodeLEB128U(v)...)
}

// Block opens a void-typed `block`.
func (b *Body) Block() {
	b.code = append(b.code, opBlock, blockVoid)
}

// Loop opens a void-typed `loop`.
func (b *Body) Loop() {
	b.code = append(b.code, opLoop, blockVoid)
}

// If opens a void-typed `if`, consuming an i32 condition already on the stack.
func (b *Body) If() {
	b.code = append(b.code, opIf, blockVoid)
}

// Else opens the else arm of the innermost open `if`.
func (b *Body) Else() {
	b.emit(opElse)
}

// End closes the innermost open block/loop/if.
func (b *Body) End() {
	b.emit(opEnd)
}

// Br branches out of the block/loop depth levels up (0 = innermost).
func (b *Body) Br(depth int) {
	b.emit(opBr)
	b.emitLEB128U(uint64(depth))
}

// BrIf conditionally branches, consuming an i32 condition.
func (b *Body) BrIf(depth int) {
	b.emit(opBrIf)
	b.emitLEB128U(uint64(depth))
}

// Call invokes the function at funcIdx.
func (b *Body) Call(funcIdx int) {
	b.emit(opCall)
	b.emitLEB128U(uint64(funcIdx))
}

// LocalGet pushes the value of local slot idx.
func (b *Body) LocalGet(idx int) {
	b.emit(opLocalGet)
	b.emitLEB128U(uint64(idx))
}

// LocalSet pops the top of stack into local slot idx.
func (b *Body) LocalSet(idx int) {
	b.emit(opLocalSet)
	b.emitLEB128U(uint64(idx))
}

// F32Const pushes a 32-bit float constant.
func (b *Body) F32Const(v float32) {
	b.emit(opF32Const)
	b.code = append(b.code, encodeF32(v)...)
}

// I32Store8 stores the low byte of the top-of-stack i32 value at the i32
// address below it, with zero alignment hint and zero offset.
func (b *Body) I32Store8() {
	b.emit(opI32Store8)
	b.emitLEB128U(0) // align
	b.emitLEB128U(0) // offset
}

// Eqz tests the top-of-stack i32 for zero, replacing it with an i32 0/1.
func (b *Body) Eqz() {
	b.emit(opI32Eqz)
}

// CmpEq, CmpLt, CmpGt compare the top two f32 values, replacing them with
// an i32 0/1 result. chasm's grammar has no `!=`, `<=`, or `>=` operators.
func (b *Body) CmpEq() { b.emit(opF32Eq) }
func (b *Body) CmpLt() { b.emit(opF32Lt) }
func (b *Body) CmpGt() { b.emit(opF32Gt) }

// And, Or apply bitwise i32.and/i32.or to the top two i32 values — chasm's
// `&&`/`||` have no short-circuit branching, per spec.
func (b *Body) And() { b.emit(opI32And) }
func (b *Body) Or()  { b.emit(opI32Or) }

// Add, Sub, Mul, Div apply f32 arithmetic to the top two f32 values.
func (b *Body) Add() { b.emit(opF32Add) }
func (b *Body) Sub() { b.emit(opF32Sub) }
func (b *Body) Mul() { b.emit(opF32Mul) }
func (b *Body) Div() { b.emit(opF32Div) }

// TruncF32S converts the top-of-stack f32 to a signed i32, truncating
// toward zero. Used to coerce a value to i32 on demand: br_if/if conditions,
// and setpixel's address/colour operands.
func (b *Body) TruncF32S() {
	b.emit(opI32TruncF32S)
}

// ConvertI32S converts the top-of-stack i32 back to f32, keeping the
// compiler's operand-stack discipline uniformly f32 outside of control flow.
func (b *Body) ConvertI32S() {
	b.emit(opF32ConvertI32S)
}

// EncodeFunctionBody frames code (an opcode stream produced by Body) as a
// complete Wasm function body: a LEB128 locals-group count, the single f32
// locals group (omitted if localCount is 0), the opcode stream, and the
// terminating end (0x0B).
func EncodeFunctionBody(code []byte, localCount int) []byte {
	var result []byte
	if localCount > 0 {
		result = append(result, encodeLEB128U(1)...)
		result = append(result, encodeLEB128U(uint64(localCount))...)
		result = append(result, valF32)
	} else {
		result = append(result, encodeLEB128U(0)...)
	}
	result = append(result, code...)
	result = append(result, opEnd)
	return result
}
