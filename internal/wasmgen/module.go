// Package wasmgen assembles a byte-exact WebAssembly MVP binary module: the
// LEB128/IEEE-754 primitives in encoding.go, and the section bookkeeping
// here. It knows nothing about chasm's grammar — internal/compiler drives it
// opcode by opcode as it parses.
package wasmgen

// funcSig is a Wasm function type signature.
type funcSig struct {
	params  []byte
	results []byte
}

// Module accumulates the sections of a Wasm binary as the single-pass
// compiler emits into it, and serialises them on Finish.
type Module struct {
	types []funcSig

	printTypeIdx int
	printFuncIdx int // always 0: the only function import

	userFuncType int // type index shared by main and every proc

	funcTypeIdxs []int    // function section: type index per declared proc
	funcNames    []string // declared proc names, in declaration order
	codes        [][]byte // code section bodies, parallel to funcTypeIdxs
	mainBody     []byte   // main's compiled body, installed once parsing reaches EOF

	mainIndex int // function index of main, always 1 (one function import)
}

// NewModule creates a Module with the print/memory imports already wired in,
// per spec.md §3's fixed module layout.
func NewModule() *Module {
	m := &Module{}
	m.printTypeIdx = m.addType([]byte{valF32}, nil)
	m.userFuncType = m.addType(nil, nil)
	m.printFuncIdx = 0
	m.mainIndex = 1 // offset by the one function import (print)
	return m
}

func (m *Module) addType(params, results []byte) int {
	idx := len(m.types)
	m.types = append(m.types, funcSig{params: params, results: results})
	return idx
}

// PrintFuncIndex is the function index `print x` calls.
func (m *Module) PrintFuncIndex() int {
	return m.printFuncIdx
}

// MainIndex is the function index reserved for main, exported at Finish.
func (m *Module) MainIndex() int {
	return m.mainIndex
}

// DeclareProc reserves the next function index for a user `proc` and
// returns it. The caller supplies the compiled body later via SetProcBody.
func (m *Module) DeclareProc(name string) int {
	idx := m.mainIndex + len(m.funcNames) + 1 // +1 because main itself occupies a slot
	m.funcNames = append(m.funcNames, name)
	m.funcTypeIdxs = append(m.funcTypeIdxs, m.userFuncType)
	m.codes = append(m.codes, nil)
	return idx
}

// SetMainBody installs main's compiled function body.
func (m *Module) SetMainBody(body []byte) {
	m.mainBody = body
}

// SetProcBody installs the compiled body for the proc at function index idx
// (as returned by DeclareProc).
func (m *Module) SetProcBody(idx int, body []byte) {
	m.codes[idx-m.mainIndex-1] = body
}

// Finish serialises the complete module: magic header, version, and
// sections in canonical order Type(1) Import(2) Function(3) Memory(5)
// Export(7) Code(10).
func (m *Module) Finish() []byte {
	var out []byte
	out = append(out, wasmMagic...)
	out = append(out, wasmVersion...)

	out = append(out, m.emitTypeSection()...)
	out = append(out, m.emitImportSection()...)
	out = append(out, m.emitFunctionSection()...)
	out = append(out, m.emitMemorySection()...)
	out = append(out, m.emitExportSection()...)
	out = append(out, m.emitCodeSection()...)

	return out
}

func (m *Module) emitTypeSection() []byte {
	var contents []byte
	for _, sig := range m.types {
		contents = append(contents, 0x60) // func type tag
		contents = append(contents, encodeLEB128U(uint64(len(sig.params)))...)
		contents = append(contents, sig.params...)
		contents = append(contents, encodeLEB128U(uint64(len(sig.results)))...)
		contents = append(contents, sig.results...)
	}
	return encodeSection(sectionType, encodeVector(len(m.types), contents))
}

func (m *Module) emitImportSection() []byte {
	var contents []byte

	// env.print : (f32) -> ()
	contents = append(contents, encodeString("env")...)
	contents = append(contents, encodeString("print")...)
	contents = append(contents, externFunc)
	contents = append(contents, encodeLEB128U(uint64(m.printTypeIdx))...)

	// env.memory : memory { min: 1 }
	contents = append(contents, encodeString("env")...)
	contents = append(contents, encodeString("memory")...)
	contents = append(contents, externMemory)
	contents = append(contents, 0x00) // limits flag: no max
	contents = append(contents, encodeLEB128U(1)...)

	return encodeSection(sectionImport, encodeVector(2, contents))
}

func (m *Module) emitFunctionSection() []byte {
	var contents []byte
	// main always comes first among declared functions.
	contents = append(contents, encodeLEB128U(uint64(m.userFuncType))...)
	for _, tidx := range m.funcTypeIdxs {
		contents = append(contents, encodeLEB128U(uint64(tidx))...)
	}
	count := 1 + len(m.funcTypeIdxs)
	return encodeSection(sectionFunction, encodeVector(count, contents))
}

func (m *Module) emitMemorySection() []byte {
	// The memory itself is imported (env.memory), so the MVP rule that an
	// explicit Memory(5) section is omitted when memory is imported applies
	// here: chasmc never declares its own memory. Returning no bytes keeps
	// Finish's section list uniform while the section is left out entirely.
	return nil
}

func (m *Module) emitExportSection() []byte {
	var contents []byte
	contents = append(contents, encodeString("main")...)
	contents = append(contents, externFunc)
	contents = append(contents, encodeLEB128U(uint64(m.mainIndex))...)
	return encodeSection(sectionExport, encodeVector(1, contents))
}

func (m *Module) emitCodeSection() []byte {
	var contents []byte
	bodies := append([][]byte{m.mainBody}, m.codes...)
	for _, code := range bodies {
		contents = append(contents, encodeLEB128U(uint64(len(code)))...)
		contents = append(contents, code...)
	}
	return encodeSection(sectionCode, encodeVector(len(bodies), contents))
}
