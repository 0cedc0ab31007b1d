package shader

// MaxParams is the maximum number of dst+src parameters a single
// instruction may carry. Extra source tokens beyond this are consumed to
// keep the stream aligned and reported as a warning (see
// decodeNextInstruction).
const MaxParams = 8

// DstParam is a decoded destination parameter.
type DstParam struct {
	File       RegisterFileTag
	Index      uint32
	WriteMask  WriteMask
	Modifier   DstModifier
	Saturate   bool
	// Used is set when the instruction actually emits a dst (NOP has
	// none; DEF's dst is used but has no associated source params).
	Used bool
}

// SrcParam is a decoded source parameter.
type SrcParam struct {
	File     RegisterFileTag
	Index    uint32
	Swizzle  Swizzle
	Modifier SourceModifier

	// ComponentReadMask is populated once, by the read-mask dataflow pass
	// (decodeReadMasks), after the full instruction has been decoded.
	ComponentReadMask WriteMask
}

// Instruction is a fully decoded program instruction. Instructions form
// an append-only, singly linked program-order sequence; Prev is a
// non-owning back-reference into that same sequence (set once, at
// append time, and never mutated after).
type Instruction struct {
	Opcode Opcode

	DstParams []DstParam
	SrcParams []SrcParam

	CoIssue   bool
	CycleNum  uint32
	SpewIndex uint32

	Location SpewLocation

	// Prev is nil for the first instruction in the program.
	Prev *Instruction

	// isTexOp/isTexMOp/texMBaseDstReg are pixel-shader bookkeeping,
	// populated by classifyPSInstruction for pixel shaders; they are harmless zero
	// values for vertex-shader instructions.
	isTexOp        bool
	isTexMOp       bool
	texMBaseDstReg uint32
}

// Dst returns the instruction's sole destination parameter and whether
// one is present. D3D8 shader instructions never have more than one dst.
func (in *Instruction) Dst() (DstParam, bool) {
	if len(in.DstParams) == 0 || !in.DstParams[0].Used {
		return DstParam{}, false
	}
	return in.DstParams[0], true
}
