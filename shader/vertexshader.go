package shader

// vsStrategy implements familyStrategy for vertex shaders (spec.md §4.H).
// In addition to the familyStrategy methods it owns declaration parsing,
// which runs before the instruction stream.
type vsStrategy struct {
	declTokens []Token
	declared   []declaration
	oPosWritten bool
}

// declaration is one parsed entry of the vertex declaration stream
// (SPEC_FULL.md §4.K): a usage/index pair bound to an input register.
type declaration struct {
	usage      uint32
	usageIndex uint32
	dst        DstParam
}

var recognizedVSOpcodes = buildRecognizedSet(
	OpNop, OpMov, OpAdd, OpSub, OpMad, OpMul, OpRcp, OpRsq, OpDp3, OpDp4,
	OpMin, OpMax, OpSlt, OpSge, OpAbs, OpExp, OpLog, OpLit, OpDst, OpLrp,
	OpFrc, OpCrs, OpSgn, OpPow, OpDef,
	OpM4x4, OpM4x3, OpM3x4, OpM3x3, OpM3x2,
	OpCall, OpCallNz, OpLoop, OpRet, OpEndLoop, OpLabel,
)

func (*vsStrategy) shaderType() Token { return ShaderTypeVertex }

func (*vsStrategy) recognized(op Opcode) bool {
	return recognizedVSOpcodes[op]
}

func (*vsStrategy) supportedByVersion(op Opcode, major, minor uint8) bool {
	if major != 1 {
		return false
	}
	switch op {
	case OpCall, OpCallNz, OpLoop, OpRet, OpEndLoop, OpLabel:
		return minor >= 1
	default:
		return true
	}
}

func (*vsStrategy) decodeDstParam(tok Token) DstParam {
	file := extractRegType(tok)
	if file == regAddrOrTexture {
		file = RegAddress
	}
	return DstParam{
		File:      file,
		Index:     extractRegNum(tok),
		WriteMask: extractWriteMask(tok),
		Modifier:  extractDstModifier(tok),
		Saturate:  extractDstModifier(tok)&DstModSaturate != 0,
	}
}

func (*vsStrategy) decodeSrcParam(tok Token) SrcParam {
	file := extractRegType(tok)
	if file == regAddrOrTexture {
		file = RegAddress
	}
	return SrcParam{
		File:     file,
		Index:    extractRegNum(tok),
		Swizzle:  extractSwizzle(tok),
		Modifier: extractSourceModifier(tok),
	}
}

func (s *vsStrategy) initValidation(e *Engine) {
	e.temp = newRegisterFile(RegTemp, false)
	e.input = newRegisterFile(RegInput, false) // initialized only by declaration
	e.constant = newRegisterFile(RegConst, true)
	e.address = newRegisterFile(RegAddress, false)
	e.rastOut = newRegisterFile(RegRastOut, false)
	e.attrOut = newRegisterFile(RegAttrOut, false)
	e.texCoordOut = newRegisterFile(RegTexCoordOut, false)

	s.applyDeclarations(e)
}

// applyDeclarations parses the pDecl token stream (terminated the same
// way the instruction stream is, by an END token) and marks every
// declared input register as initialized.
func (s *vsStrategy) applyDeclarations(e *Engine) {
	pos := 0
	for pos < len(s.declTokens) {
		tok := s.declTokens[pos]
		if ExtractOpcode(tok) == OpEnd {
			break
		}
		usage := uint32(tok) & 0x1F
		usageIndex := (uint32(tok) >> 16) & 0xF

		pos++
		if pos >= len(s.declTokens) {
			e.report(CategoryGlobalError, "truncated vertex declaration stream")
			return
		}
		dstTok := s.declTokens[pos]
		dst := s.decodeDstParam(dstTok)
		dst.Used = true
		pos++

		for _, prior := range s.declared {
			if prior.dst.File == dst.File && prior.dst.Index == dst.Index {
				e.report(CategoryWarning, "register %s%d is declared more than once", dst.File, dst.Index)
			}
		}
		s.declared = append(s.declared, declaration{usage: usage, usageIndex: usageIndex, dst: dst})
		if dst.File == RegInput {
			e.input.markInitialized(dst.Index)
		}
	}
}

func (s *vsStrategy) applyPerInstructionRules(e *Engine, in *Instruction) (fatal bool) {
	if e.ruleInstructionRecognized(in) {
		return true
	}
	e.ruleInstructionSupportedByVersion(in)
	e.ruleValidParamCount(in)
	e.ruleValidDstParam(in)
	e.ruleValidSrcParams(in)
	e.ruleSrcInitialized(in)
	e.ruleValidFRCInstruction(in)
	s.ruleValidAddressRegWrite(e, in)
	e.ruleValidRegisterPortUsage(in)
	e.ruleValidInstructionCount()

	if dst, ok := in.Dst(); ok && dst.File == RegRastOut && dst.Index == rastOutPositionIndex {
		s.oPosWritten = true
	}

	e.markRegisterAccesses(in)
	return false
}

const rastOutPositionIndex uint32 = 0

// ruleValidAddressRegWrite enforces that only MOV may target the address
// register, and restricts its legal sources.
func (s *vsStrategy) ruleValidAddressRegWrite(e *Engine, in *Instruction) {
	dst, ok := in.Dst()
	if !ok || dst.File != RegAddress {
		return
	}
	if in.Opcode != OpMov {
		e.report(CategoryInstructionError, "only MOV may write the address register, got %s", in.Opcode)
		return
	}
	for i, src := range in.SrcParams {
		if src.File == RegAddress {
			e.report(CategoryInstructionError, "source %d of an address register write cannot itself read the address register", i+1)
		}
	}
}

// isFixedFunction reports whether this run is a declaration-only,
// fixed-function vertex shader: no programmable instruction body, but at
// least one declared input binding (spec.md §4.H, vshdrval.hpp's
// m_bFixedFunction). Such a program is accepted without running the
// instruction-body whole-program rules, since there is no body to check.
func (s *vsStrategy) isFixedFunction(e *Engine) bool {
	return e.totalOpCount == 0 && len(s.declared) > 0
}

func (s *vsStrategy) applyPostInstructionRules(e *Engine) {
	if s.isFixedFunction(e) {
		return
	}
	e.ruleNonEmptyProgram()
	e.ruleValidInstructionCount()
	s.ruleOPosWritten(e)
}

// ruleOPosWritten enforces that the clip-space position output register
// is written at least once over the whole program.
func (s *vsStrategy) ruleOPosWritten(e *Engine) {
	if !s.oPosWritten {
		e.report(CategoryGlobalError, "oPos not written")
	}
}

// NewVertexShaderEngine constructs an Engine over code and decl, ready to
// run via run().
func NewVertexShaderEngine(code, decl []uint32, caps Capabilities) *Engine {
	return &Engine{
		stream:   tokensFromWords(code),
		caps:     caps,
		strategy: &vsStrategy{declTokens: tokensFromWords(decl)},
	}
}

// ValidateVertexShader decodes and validates vertex-shader bytecode and
// its declaration stream, returning the verdict and diagnostic log
// (spec.md §6).
func ValidateVertexShader(code, declaration []uint32, caps Capabilities, flags uint32) Result {
	e := NewVertexShaderEngine(code, declaration, caps)
	return e.run()
}
