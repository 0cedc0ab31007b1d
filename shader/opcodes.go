package shader

// Opcode values shared by both shader families, plus the two
// stream-control opcodes (OpEnd, OpComment) defined in token.go.
const (
	OpNop Opcode = 0x00
	OpMov Opcode = 0x01
	OpAdd Opcode = 0x02
	OpSub Opcode = 0x03
	OpMad Opcode = 0x04
	OpMul Opcode = 0x05
	OpRcp Opcode = 0x06
	OpRsq Opcode = 0x07
	OpDp3 Opcode = 0x08
	OpDp4 Opcode = 0x09
	OpMin Opcode = 0x0A
	OpMax Opcode = 0x0B
	OpSlt Opcode = 0x0C
	OpSge Opcode = 0x0D
	OpAbs Opcode = 0x0E
	OpExp Opcode = 0x0F
	OpLog Opcode = 0x10
	OpLit Opcode = 0x11
	OpDst Opcode = 0x12
	OpLrp Opcode = 0x13
	OpFrc Opcode = 0x14
	OpCrs Opcode = 0x15
	OpSgn Opcode = 0x16
	OpPow Opcode = 0x17

	OpM4x4 Opcode = 0x1E
	OpM4x3 Opcode = 0x1F
	OpM3x4 Opcode = 0x20
	OpM3x3 Opcode = 0x21
	OpM3x2 Opcode = 0x22

	OpCall   Opcode = 0x2E
	OpCallNz Opcode = 0x2F
	OpLoop   Opcode = 0x30
	OpRet    Opcode = 0x31
	OpEndLoop Opcode = 0x32
	OpLabel  Opcode = 0x33

	OpDef Opcode = 0x51

	OpCmp Opcode = 0x58
	OpCnd Opcode = 0x59
)

// Pixel-shader-only opcodes (texture addressing / blending family).
const (
	OpTex          Opcode = 0x42
	OpTexCoord     Opcode = 0x40
	OpTexKill      Opcode = 0x41
	OpTexBem       Opcode = 0x43
	OpTexBeml      Opcode = 0x44
	OpTexReg2Ar    Opcode = 0x45
	OpTexReg2Gb    Opcode = 0x46
	OpTexReg2Rgb   Opcode = 0x47
	OpTexM3x2Pad   Opcode = 0x48
	OpTexM3x2Tex   Opcode = 0x49
	OpTexM3x3Pad   Opcode = 0x4A
	OpTexM3x3Tex   Opcode = 0x4B
	OpTexM3x3Spec  Opcode = 0x4C
	OpTexM3x3VSpec Opcode = 0x4D
	OpTexM3x3      Opcode = 0x4E
	OpTexDp3       Opcode = 0x4F
	OpTexDp3Tex    Opcode = 0x50
	OpTexDepth     Opcode = 0x54
	OpBem          Opcode = 0x55

	// OpXfc is a synthetic opcode value representing the ps_1_0 final
	// combiner pseudo-instruction described in spec.md §4.G/§4.E. It does
	// not collide with any opcode used above.
	OpXfc Opcode = 0x7E
)

// opcodeInfo is the static per-opcode table the decoder and rule engine
// both consult for arity and naming.
type opcodeInfo struct {
	name     string
	dstCount int // 0 or 1
	srcCount int // expected number of source params (XFC takes seven)
}

var opcodeTable = map[Opcode]opcodeInfo{
	OpNop: {"nop", 0, 0},
	OpMov: {"mov", 1, 1},
	OpAdd: {"add", 1, 2},
	OpSub: {"sub", 1, 2},
	OpMad: {"mad", 1, 3},
	OpMul: {"mul", 1, 2},
	OpRcp: {"rcp", 1, 1},
	OpRsq: {"rsq", 1, 1},
	OpDp3: {"dp3", 1, 2},
	OpDp4: {"dp4", 1, 2},
	OpMin: {"min", 1, 2},
	OpMax: {"max", 1, 2},
	OpSlt: {"slt", 1, 2},
	OpSge: {"sge", 1, 2},
	OpAbs: {"abs", 1, 1},
	OpExp: {"exp", 1, 1},
	OpLog: {"log", 1, 1},
	OpLit: {"lit", 1, 1},
	OpDst: {"dst", 1, 2},
	OpLrp: {"lrp", 1, 3},
	OpFrc: {"frc", 1, 1},
	OpCrs: {"crs", 1, 2},
	OpSgn: {"sgn", 1, 3},
	OpPow: {"pow", 1, 2},

	OpM4x4: {"m4x4", 1, 2},
	OpM4x3: {"m4x3", 1, 2},
	OpM3x4: {"m3x4", 1, 2},
	OpM3x3: {"m3x3", 1, 2},
	OpM3x2: {"m3x2", 1, 2},

	OpCall:    {"call", 0, 1},
	OpCallNz:  {"callnz", 0, 2},
	OpLoop:    {"loop", 0, 2},
	OpRet:     {"ret", 0, 0},
	OpEndLoop: {"endloop", 0, 0},
	OpLabel:   {"label", 0, 1},

	OpDef: {"def", 1, 0}, // four raw floats, handled specially by the decoder

	OpCmp: {"cmp", 1, 3},
	OpCnd: {"cnd", 1, 3},

	OpTex:          {"tex", 1, 0},
	OpTexCoord:     {"texcoord", 1, 0},
	OpTexKill:      {"texkill", 0, 1},
	OpTexBem:       {"texbem", 1, 0},
	OpTexBeml:      {"texbeml", 1, 0},
	OpTexReg2Ar:    {"texreg2ar", 1, 0},
	OpTexReg2Gb:    {"texreg2gb", 1, 0},
	OpTexReg2Rgb:   {"texreg2rgb", 1, 0},
	OpTexM3x2Pad:   {"texm3x2pad", 1, 0},
	OpTexM3x2Tex:   {"texm3x2tex", 1, 0},
	OpTexM3x3Pad:   {"texm3x3pad", 1, 0},
	OpTexM3x3Tex:   {"texm3x3tex", 1, 0},
	OpTexM3x3Spec:  {"texm3x3spec", 1, 1},
	OpTexM3x3VSpec: {"texm3x3vspec", 1, 0},
	OpTexM3x3:      {"texm3x3", 1, 0},
	OpTexDp3:       {"texdp3", 1, 0},
	OpTexDp3Tex:    {"texdp3tex", 1, 0},
	OpTexDepth:     {"texdepth", 1, 0},
	OpBem:          {"bem", 1, 1},

	OpXfc: {"xfc", 0, 7},
}

func (op Opcode) String() string {
	if info, ok := opcodeTable[op]; ok {
		return info.name
	}
	if op == OpEnd {
		return "end"
	}
	if op == OpComment {
		return "comment"
	}
	return "?unknown?"
}

// isTexOpcode reports whether op is one of the "texture addressing"
// family pixel-shader ops that count against texOpCount.
func isTexOpcode(op Opcode) bool {
	switch op {
	case OpTex, OpTexCoord, OpTexBem, OpTexBeml, OpTexReg2Ar, OpTexReg2Gb, OpTexReg2Rgb,
		OpTexM3x2Pad, OpTexM3x2Tex, OpTexM3x3Pad, OpTexM3x3Tex, OpTexM3x3Spec, OpTexM3x3VSpec,
		OpTexM3x3, OpTexDp3, OpTexDp3Tex, OpTexDepth:
		return true
	default:
		return false
	}
}

// isTexMOpcode reports whether op belongs to the texm3x* chained family,
// which shares a base destination register across the chain
// (m_TexMBaseDstReg in the original validator).
func isTexMOpcode(op Opcode) bool {
	switch op {
	case OpTexM3x2Pad, OpTexM3x2Tex, OpTexM3x3Pad, OpTexM3x3Tex, OpTexM3x3Spec, OpTexM3x3VSpec, OpTexM3x3:
		return true
	default:
		return false
	}
}

// isBlendOpcode reports whether op counts against blendOpCount --
// arithmetic/blend instructions as opposed to texture-addressing ones.
func isBlendOpcode(op Opcode) bool {
	switch op {
	case OpAdd, OpSub, OpMad, OpMul, OpDp3, OpDp4, OpMin, OpMax, OpLrp, OpCmp, OpCnd, OpBem:
		return true
	default:
		return false
	}
}
