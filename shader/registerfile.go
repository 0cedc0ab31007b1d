package shader

// registerEntry tracks the initialization and access history of a single
// register within a logical register file.
type registerEntry struct {
	initialized   bool
	lastWriteCycle uint32
	readCycles     []uint32
}

// registerFile models one logical register bank (temp, input, const,
// address, texture, texcoord-out, attr-out, rast-out). Index range
// checking is the caller's (rule engine's) responsibility -- the file
// itself does not enforce capability-derived bounds, per spec.md §4.C.
type registerFile struct {
	tag     RegisterFileTag
	entries map[uint32]*registerEntry
	// readOnly files (const, input when pre-initialized by convention)
	// report every index as initialized without requiring a write.
	readOnly bool
}

func newRegisterFile(tag RegisterFileTag, readOnly bool) *registerFile {
	return &registerFile{
		tag:      tag,
		entries:  make(map[uint32]*registerEntry),
		readOnly: readOnly,
	}
}

func (f *registerFile) entry(index uint32) *registerEntry {
	e, ok := f.entries[index]
	if !ok {
		e = &registerEntry{initialized: f.readOnly}
		f.entries[index] = e
	}
	return e
}

// markWritten records a write to index at the given cycle.
func (f *registerFile) markWritten(index uint32, cycle uint32) {
	e := f.entry(index)
	e.initialized = true
	e.lastWriteCycle = cycle
}

// markInitialized marks index as initialized without an associated
// write cycle -- used for VS inputs bound by a declaration. Read-only
// files need no marking; they report every index as initialized.
func (f *registerFile) markInitialized(index uint32) {
	f.entry(index).initialized = true
}

// markRead records a read of index at the given cycle.
func (f *registerFile) markRead(index uint32, cycle uint32) {
	e := f.entry(index)
	e.readCycles = append(e.readCycles, cycle)
}

// isInitialized reports whether index has ever been written (or is a
// read-only file, or was declared).
func (f *registerFile) isInitialized(index uint32) bool {
	e, ok := f.entries[index]
	if !ok {
		return f.readOnly
	}
	return e.initialized
}

// lastWrite returns the cycle of the most recent write to index, and
// whether one has occurred.
func (f *registerFile) lastWrite(index uint32) (uint32, bool) {
	e, ok := f.entries[index]
	if !ok || !e.initialized {
		return 0, false
	}
	return e.lastWriteCycle, true
}
