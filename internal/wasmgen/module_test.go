package wasmgen

import "testing"

func TestModule_MagicAndVersion(t *testing.T) {
	m := NewModule()
	m.SetMainBody(EncodeFunctionBody(nil, 0))
	result := m.Finish()

	if len(result) < 8 {
		t.Fatalf("module too short: %d bytes", len(result))
	}
	if !bytesEqual(result[0:4], []byte{0x00, 0x61, 0x73, 0x6D}) {
		t.Errorf("expected Wasm magic, got %x", result[0:4])
	}
	if !bytesEqual(result[4:8], []byte{0x01, 0x00, 0x00, 0x00}) {
		t.Errorf("expected version 1, got %x", result[4:8])
	}
}

func TestModule_SectionsPresentAndOrdered(t *testing.T) {
	m := NewModule()
	m.SetMainBody(EncodeFunctionBody(nil, 0))
	result := m.Finish()

	sections := parseSections(result[8:])
	var ids []byte
	for _, s := range sections {
		ids = append(ids, s.id)
	}

	want := []byte{sectionType, sectionImport, sectionFunction, sectionExport, sectionCode}
	if !bytesEqual(ids, want) {
		t.Errorf("section order = %v, want %v", ids, want)
	}
}

func TestModule_MemorySectionOmitted(t *testing.T) {
	// env.memory is imported, so chasmc never emits a standalone Memory(5)
	// section, per the MVP rule that it's omitted when memory is imported.
	m := NewModule()
	m.SetMainBody(EncodeFunctionBody(nil, 0))
	result := m.Finish()

	for _, s := range parseSections(result[8:]) {
		if s.id == sectionMemory {
			t.Error("unexpected standalone Memory(5) section: memory is imported")
		}
	}
}

func TestModule_ImportSectionHasPrintAndMemory(t *testing.T) {
	m := NewModule()
	m.SetMainBody(EncodeFunctionBody(nil, 0))
	result := m.Finish()

	var importSection []byte
	for _, s := range parseSections(result[8:]) {
		if s.id == sectionImport {
			importSection = s.data
		}
	}
	if importSection == nil {
		t.Fatal("missing import section")
	}
	if !containsBytes(importSection, encodeString("print")) {
		t.Error("import section missing env.print")
	}
	if !containsBytes(importSection, encodeString("memory")) {
		t.Error("import section missing env.memory")
	}
}

func TestModule_ExportsOnlyMain(t *testing.T) {
	m := NewModule()
	m.SetMainBody(EncodeFunctionBody(nil, 0))
	result := m.Finish()

	var exportSection []byte
	for _, s := range parseSections(result[8:]) {
		if s.id == sectionExport {
			exportSection = s.data
		}
	}
	if exportSection == nil {
		t.Fatal("missing export section")
	}
	// One export (vector count 1), named "main".
	want := append([]byte{0x01}, encodeString("main")...)
	if !bytesEqual(exportSection[:len(want)], want) {
		t.Errorf("expected a single export named \"main\", got %x", exportSection)
	}
}

func TestModule_DeclareProcAssignsSequentialIndices(t *testing.T) {
	m := NewModule()
	if got := m.MainIndex(); got != 1 {
		t.Fatalf("MainIndex() = %d, want 1 (offset past the print import)", got)
	}
	first := m.DeclareProc("a")
	second := m.DeclareProc("b")
	if first != 2 {
		t.Errorf("first proc index = %d, want 2", first)
	}
	if second != 3 {
		t.Errorf("second proc index = %d, want 3", second)
	}
}

func TestModule_CodeSectionOrdersMainThenProcsByIndex(t *testing.T) {
	m := NewModule()
	idxA := m.DeclareProc("a")
	idxB := m.DeclareProc("b")
	m.SetProcBody(idxB, EncodeFunctionBody([]byte{0xBB}, 0))
	m.SetProcBody(idxA, EncodeFunctionBody([]byte{0xAA}, 0))
	m.SetMainBody(EncodeFunctionBody([]byte{0x4D}, 0))

	result := m.Finish()
	var codeSection []byte
	for _, s := range parseSections(result[8:]) {
		if s.id == sectionCode {
			codeSection = s.data
		}
	}
	if codeSection == nil {
		t.Fatal("missing code section")
	}
	if !containsBytes(codeSection, []byte{0x4D}) || !containsBytes(codeSection, []byte{0xAA}) || !containsBytes(codeSection, []byte{0xBB}) {
		t.Fatalf("code section missing expected function bodies: %x", codeSection)
	}
	// main's body must appear before either proc's.
	mainPos := indexOf(codeSection, []byte{0x4D})
	aPos := indexOf(codeSection, []byte{0xAA})
	bPos := indexOf(codeSection, []byte{0xBB})
	if !(mainPos < aPos && aPos < bPos) {
		t.Errorf("expected main, then proc a, then proc b; positions were %d %d %d", mainPos, aPos, bPos)
	}
}

func TestEncodeFunctionBody_LocalsHeader(t *testing.T) {
	noLocals := EncodeFunctionBody([]byte{0x01}, 0)
	want := []byte{0x00, 0x01, opEnd}
	if !bytesEqual(noLocals, want) {
		t.Errorf("EncodeFunctionBody(_, 0) = %x, want %x", noLocals, want)
	}

	withLocals := EncodeFunctionBody([]byte{0x01}, 3)
	want2 := []byte{0x01, 0x03, valF32, 0x01, opEnd}
	if !bytesEqual(withLocals, want2) {
		t.Errorf("EncodeFunctionBody(_, 3) = %x, want %x", withLocals, want2)
	}
}

// --- Helpers, mirroring the corpus's own hand-rolled section parser ---

type section struct {
	id   byte
	data []byte
}

func parseSections(data []byte) []section {
	var sections []section
	i := 0
	for i < len(data) {
		id := data[i]
		i++
		size, n := decodeLEB128U(data[i:])
		i += n
		if i+int(size) > len(data) {
			break
		}
		sections = append(sections, section{id: id, data: data[i : i+int(size)]})
		i += int(size)
	}
	return sections
}

func containsBytes(data, sub []byte) bool {
	return indexOf(data, sub) >= 0
}

func indexOf(data, sub []byte) int {
	if len(sub) == 0 {
		return 0
	}
	for i := 0; i <= len(data)-len(sub); i++ {
		if bytesEqual(data[i:i+len(sub)], sub) {
			return i
		}
	}
	return -1
}
