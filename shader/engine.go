package shader

// familyStrategy is the small set of operations that differ between the
// pixel-shader and vertex-shader validators. The base engine owns the
// decode/validate loop and all shared state; family types only decide
// which opcodes exist, how dst/src parameter tokens resolve register
// files, and which rules run. See spec.md §9 "Inheritance of base
// validator -> family validators".
type familyStrategy interface {
	// shaderType returns ShaderTypePixel or ShaderTypeVertex.
	shaderType() Token

	// recognized reports whether op is a legal opcode for this family at
	// all (InstructionRecognized).
	recognized(op Opcode) bool

	// supportedByVersion reports whether op is legal for the decoded
	// (major, minor) version (InstructionSupportedByVersion).
	supportedByVersion(op Opcode, major, minor uint8) bool

	// decodeDstParam resolves a dst token into a DstParam, disambiguating
	// the shared register-type encoding (e.g. type 3 means "address" for
	// VS, "texture" for PS).
	decodeDstParam(tok Token) DstParam

	// decodeSrcParam resolves a src token into a SrcParam.
	decodeSrcParam(tok Token) SrcParam

	// initValidation allocates this family's register files, sized from
	// the borrowed capability structure.
	initValidation(e *Engine)

	// applyPerInstructionRules runs this family's selected per-instruction
	// rule set against the just-decoded instruction. Returns true if a
	// fatal rule failure should abort the decode loop.
	applyPerInstructionRules(e *Engine, in *Instruction) (fatal bool)

	// applyPostInstructionRules runs whole-program rules once decoding
	// has finished (or aborted).
	applyPostInstructionRules(e *Engine)
}

// Engine is the base rule engine: it owns the token stream, the decoded
// instruction list, every register file, the diagnostic sink, and the
// running cycle/op counters. It is constructed around a single bytecode
// buffer, decodes all instructions, runs all rules, then exposes its
// verdict and log -- no state survives past one call.
type Engine struct {
	stream []Token
	pos    int

	caps Capabilities

	versionMajor, versionMinor uint8

	sink diagnosticSink

	instructions []*Instruction
	current      *Instruction
	prev         *Instruction

	cycleNum  uint32
	spewIndex uint32

	latestSpewFile string
	latestSpewLine int

	totalOpCount   int
	texOpCount     int
	blendOpCount   int
	texMBaseDstReg uint32
	inTexMChain    bool

	temp     *registerFile
	input    *registerFile
	constant *registerFile
	address  *registerFile
	texture  *registerFile
	texCoordOut *registerFile
	attrOut  *registerFile
	rastOut  *registerFile

	strategy familyStrategy
}

// Verdict is the pass/fail outcome of a validation run.
type Verdict int

const (
	VerdictSuccess Verdict = iota
	VerdictFailure
)

func (v Verdict) String() string {
	if v == VerdictSuccess {
		return "success"
	}
	return "failure"
}

// Result bundles the verdict with its diagnostic log, mirroring the
// status-plus-optional-log shape of the ValidatePixelShader /
// ValidateVertexShader entry points in spec.md §6.
type Result struct {
	Verdict Verdict
	Log     string
}

func (e *Engine) peek() (Token, bool) {
	if e.pos >= len(e.stream) {
		return 0, false
	}
	return e.stream[e.pos], true
}

func (e *Engine) advance() (Token, bool) {
	tok, ok := e.peek()
	if ok {
		e.pos++
	}
	return tok, ok
}

func (e *Engine) report(category DiagnosticCategory, format string, args ...any) {
	loc := SpewLocation{}
	if e.current != nil {
		loc = e.current.Location
	}
	e.sink.report(category, loc, format, args...)
}

// run decodes the version header, initializes the family strategy, then
// iterates decode+rule passes until the stream ends or a fatal error is
// hit, finally running the whole-program rule pass. This is spec.md
// §4.F's orchestration.
func (e *Engine) run() Result {
	if !e.decodeVersionHeader() {
		return e.verdict()
	}

	e.strategy.initValidation(e)

	for {
		res, err := e.decodeNextInstruction()
		if err != nil {
			e.report(CategoryGlobalError, "%s", err)
			break
		}
		if res == decodeEnd {
			break
		}
		if res == decodeContinue {
			continue
		}

		in := e.current
		e.prev = in
		if fatal := e.strategy.applyPerInstructionRules(e, in); fatal {
			break
		}
	}

	e.strategy.applyPostInstructionRules(e)

	return e.verdict()
}

func (e *Engine) verdict() Result {
	v := VerdictSuccess
	if e.sink.hasError() {
		v = VerdictFailure
	}
	return Result{Verdict: v, Log: e.sink.Log()}
}

// decodeVersionHeader reads and validates the first DWORD of the stream.
func (e *Engine) decodeVersionHeader() bool {
	tok, ok := e.advance()
	if !ok {
		e.report(CategoryGlobalError, "%s", errMissingVersionHdr)
		return false
	}

	shaderType, major, minor := DecodeVersionToken(tok)
	if shaderType != e.strategy.shaderType() {
		e.report(CategoryGlobalError, "version token shader-type tag does not match entry point")
		return false
	}

	minMajor, minMinor := e.caps.MinPixelShaderMajor, e.caps.MinPixelShaderMinor
	maxMajor, maxMinor := e.caps.MaxPixelShaderMajor, e.caps.MaxPixelShaderMinor
	if shaderType == ShaderTypeVertex {
		minMajor, minMinor = e.caps.MinVertexShaderMajor, e.caps.MinVertexShaderMinor
		maxMajor, maxMinor = e.caps.MaxVertexShaderMajor, e.caps.MaxVertexShaderMinor
	}
	version := uint16(major)<<8 | uint16(minor)
	if version < uint16(minMajor)<<8|uint16(minMinor) || version > uint16(maxMajor)<<8|uint16(maxMinor) {
		e.report(CategoryGlobalError, "shader version %d.%d is outside the supported range %d.%d-%d.%d", major, minor, minMajor, minMinor, maxMajor, maxMinor)
		return false
	}

	e.versionMajor, e.versionMinor = major, minor
	return true
}

// allocateInstruction appends a new Instruction to the owned, append-only
// program-order sequence and wires its Prev back-reference.
func (e *Engine) allocateInstruction() *Instruction {
	in := &Instruction{Prev: e.prev}
	e.instructions = append(e.instructions, in)
	e.current = in
	return in
}
