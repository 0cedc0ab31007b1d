package shader

// psStrategy implements familyStrategy for pixel shaders (spec.md §4.G).
// It overrides opcode recognition, dst/src decoding (to resolve the
// shared register-type-3 encoding as "texture"), and the per-instruction
// rule selection -- including co-issue legality, which only exists for
// pixel shaders.
type psStrategy struct{}

var recognizedPSOpcodes = buildRecognizedSet(
	OpNop, OpMov, OpAdd, OpSub, OpMad, OpMul, OpRcp, OpRsq, OpDp3, OpDp4,
	OpMin, OpMax, OpAbs, OpLrp, OpFrc, OpCrs, OpCmp, OpCnd, OpPow,
	OpDef,
	OpTex, OpTexCoord, OpTexKill, OpTexBem, OpTexBeml, OpTexReg2Ar, OpTexReg2Gb,
	OpTexReg2Rgb, OpTexM3x2Pad, OpTexM3x2Tex, OpTexM3x3Pad, OpTexM3x3Tex,
	OpTexM3x3Spec, OpTexM3x3VSpec, OpTexM3x3, OpTexDp3, OpTexDp3Tex, OpTexDepth,
	OpBem, OpXfc,
)

func buildRecognizedSet(ops ...Opcode) map[Opcode]bool {
	m := make(map[Opcode]bool, len(ops))
	for _, op := range ops {
		m[op] = true
	}
	return m
}

func (psStrategy) shaderType() Token { return ShaderTypePixel }

func (psStrategy) recognized(op Opcode) bool {
	return recognizedPSOpcodes[op]
}

// minPSVersionForOpcode gives the minor version (within major 1) that
// introduced an opcode; ps 1.0 is the implicit floor. This is a
// simplified version-gating table -- real hardware gating is finer
// grained, but this is enough to exercise InstructionSupportedByVersion.
var minPSVersionForOpcode = map[Opcode]uint8{
	OpTexM3x3Spec:  2,
	OpTexM3x3VSpec: 2,
	OpTexDepth:     4,
	OpBem:          4,
	OpCmp:          1,
	OpXfc:          0,
}

func (psStrategy) supportedByVersion(op Opcode, major, minor uint8) bool {
	if major != 1 {
		return false
	}
	if need, ok := minPSVersionForOpcode[op]; ok {
		return minor >= need
	}
	return true
}

func (psStrategy) decodeDstParam(tok Token) DstParam {
	file := extractRegType(tok)
	if file == regAddrOrTexture {
		file = RegTexture
	}
	return DstParam{
		File:      file,
		Index:     extractRegNum(tok),
		WriteMask: extractWriteMask(tok),
		Modifier:  extractDstModifier(tok),
		Saturate:  extractDstModifier(tok)&DstModSaturate != 0,
	}
}

func (psStrategy) decodeSrcParam(tok Token) SrcParam {
	file := extractRegType(tok)
	if file == regAddrOrTexture {
		file = RegTexture
	}
	return SrcParam{
		File:     file,
		Index:    extractRegNum(tok),
		Swizzle:  extractSwizzle(tok),
		Modifier: extractSourceModifier(tok),
	}
}

func (psStrategy) initValidation(e *Engine) {
	e.temp = newRegisterFile(RegTemp, false)
	e.input = newRegisterFile(RegInput, true)    // v0/v1 (diffuse/specular) are pre-initialized
	e.constant = newRegisterFile(RegConst, true) // c# are pre-initialized by convention
	e.texture = newRegisterFile(RegTexture, true)
}

func (s psStrategy) applyPerInstructionRules(e *Engine, in *Instruction) (fatal bool) {
	if e.ruleInstructionRecognized(in) {
		return true
	}
	e.ruleInstructionSupportedByVersion(in)
	e.ruleValidParamCount(in)
	e.ruleValidDstParam(in)
	e.ruleValidSrcParams(in)
	e.ruleSrcInitialized(in)
	e.ruleValidFRCInstruction(in)
	e.ruleCoIssueLegality(in)
	e.ruleValidRegisterPortUsage(in)
	e.ruleValidInstructionCount()

	e.markRegisterAccesses(in)
	return false
}

func (s psStrategy) applyPostInstructionRules(e *Engine) {
	e.ruleNonEmptyProgram()
	e.ruleValidInstructionCount()
}

// ruleCoIssueLegality enforces that a co-issued instruction's pairing is
// legal and that the previous instruction was not itself already
// co-issued into another pair (spec.md §4.F).
func (e *Engine) ruleCoIssueLegality(in *Instruction) {
	if !in.CoIssue {
		return
	}
	if in.Prev == nil {
		e.report(CategoryInstructionError, "co-issue flag set on the first instruction")
		return
	}
	if in.Prev.CoIssue {
		e.report(CategoryInstructionError, "cannot co-issue into an instruction that was itself co-issued")
		return
	}
	if in.Prev.Opcode == OpTexKill || isTexMOpcode(in.Prev.Opcode) != isTexMOpcode(in.Opcode) {
		e.report(CategoryInstructionError, "co-issue pairing of %s with %s is not legal", in.Prev.Opcode, in.Opcode)
	}
}

// NewPixelShaderEngine constructs an Engine over code, ready to run via
// run(). Exposed for tests that want direct access to the decoded
// instruction list alongside the verdict.
func NewPixelShaderEngine(code []uint32, caps Capabilities) *Engine {
	return &Engine{
		stream:   tokensFromWords(code),
		caps:     caps,
		strategy: psStrategy{},
	}
}

func tokensFromWords(words []uint32) []Token {
	toks := make([]Token, len(words))
	for i, w := range words {
		toks[i] = Token(w)
	}
	return toks
}

// ValidatePixelShader decodes and validates pixel-shader bytecode,
// returning the verdict and diagnostic log (spec.md §6).
func ValidatePixelShader(code []uint32, caps Capabilities, flags uint32) Result {
	e := NewPixelShaderEngine(code, caps)
	return e.run()
}
