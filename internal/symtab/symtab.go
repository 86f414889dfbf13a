// Package symtab tracks chasm's user-declared variables, mapping each name
// to its Wasm local-index slot. chasm has no shadowing and no nested
// scopes, so a flat insertion-ordered table is the whole of it.
package symtab

// Table maps variable names to local slot indices in declaration order.
// The zero value is ready to use.
type Table struct {
	order []string
	slots map[string]int
}

// Declare records name if it is new, assigning it the next local slot, and
// returns its slot index either way. Re-declaring an already-known name
// reuses the existing slot: chasm has no shadowing.
func (t *Table) Declare(name string) int {
	if t.slots == nil {
		t.slots = make(map[string]int)
	}
	if idx, ok := t.slots[name]; ok {
		return idx
	}
	idx := len(t.order)
	t.order = append(t.order, name)
	t.slots[name] = idx
	return idx
}

// Lookup returns the slot index for name and whether it has been declared.
func (t *Table) Lookup(name string) (int, bool) {
	idx, ok := t.slots[name]
	return idx, ok
}

// DeclareAnon reserves a fresh local slot with no name, for compiler-internal
// temporaries (setpixel's address/colour staging). It draws from the same
// counter as Declare, so named and anonymous slots never collide.
func (t *Table) DeclareAnon() int {
	idx := len(t.order)
	t.order = append(t.order, "")
	return idx
}

// Len returns the number of local slots in use, named and anonymous.
func (t *Table) Len() int {
	return len(t.order)
}
