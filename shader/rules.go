package shader

// This file holds the per-instruction and whole-program rules that are
// identical in both shader families (spec.md §4.F's "superset, families
// select"). Family-specific rules (co-issue legality, address-register
// write discipline, oPosWritten, ...) live in pixelshader.go /
// vertexshader.go.

// ruleInstructionRecognized checks the opcode against the family's
// recognized set. Per the Open Question in spec.md §9, an unrecognized
// opcode is treated as fatal.
func (e *Engine) ruleInstructionRecognized(in *Instruction) (fatal bool) {
	if !e.strategy.recognized(in.Opcode) {
		e.report(CategoryInstructionError, "opcode %s is not recognized for this shader type", in.Opcode)
		return true
	}
	return false
}

// ruleInstructionSupportedByVersion checks the opcode against the
// decoded (major, minor) version.
func (e *Engine) ruleInstructionSupportedByVersion(in *Instruction) {
	if !e.strategy.supportedByVersion(in.Opcode, e.versionMajor, e.versionMinor) {
		e.report(CategoryInstructionError, "opcode %s is not supported by shader version %d.%d", in.Opcode, e.versionMajor, e.versionMinor)
	}
}

// ruleValidParamCount checks that the decoded dst/src counts match the
// opcode's arity table entry.
func (e *Engine) ruleValidParamCount(in *Instruction) {
	info, ok := opcodeTable[in.Opcode]
	if !ok {
		return
	}
	if len(in.DstParams) != info.dstCount {
		e.report(CategoryInstructionError, "%s expects %d destination parameter(s), got %d", in.Opcode, info.dstCount, len(in.DstParams))
	}
	if info.srcCount >= 0 && len(in.SrcParams) != info.srcCount {
		e.report(CategoryInstructionError, "%s expects %d source parameter(s), got %d", in.Opcode, info.srcCount, len(in.SrcParams))
	}
}

// regFile resolves an Engine's owned registerFile for the given tag and
// shader-type-resolved meaning.
func (e *Engine) regFile(tag RegisterFileTag) *registerFile {
	switch tag {
	case RegTemp:
		return e.temp
	case RegInput:
		return e.input
	case RegConst:
		return e.constant
	case RegAddress:
		if e.strategy.shaderType() == ShaderTypeVertex {
			return e.address
		}
		return e.texture
	case RegRastOut:
		return e.rastOut
	case RegAttrOut:
		return e.attrOut
	case RegTexCoordOut:
		return e.texCoordOut
	default:
		return nil
	}
}

// ruleSrcInitialized checks that every read register was previously
// written, or belongs to a read-only file.
func (e *Engine) ruleSrcInitialized(in *Instruction) {
	for i, src := range in.SrcParams {
		f := e.regFile(src.File)
		if f == nil {
			continue
		}
		if !f.isInitialized(src.Index) {
			e.report(CategoryInstructionError, "source %d reads %s register %d before it is written", i+1, src.File, src.Index)
		}
	}
}

// ruleValidFRCInstruction restricts FRC's dst write mask to .y or .xy.
func (e *Engine) ruleValidFRCInstruction(in *Instruction) {
	if in.Opcode != OpFrc {
		return
	}
	dst, ok := in.Dst()
	if !ok {
		return
	}
	if dst.WriteMask != MaskG && dst.WriteMask != (MaskR|MaskG) {
		e.report(CategoryInstructionError, "FRC destination write mask must be .y or .xy, got %s", dst.WriteMask)
	}
}

// ruleValidRegisterPortUsage enforces the per-instruction distinct
// register count for port-limited files (constants), accounting for
// swizzle-derived component reads: a source that reads zero components
// (e.g. masked entirely off by the dst write mask) does not occupy a
// port. Co-issued instructions share a cycle, so a pair's constant
// reads are aggregated before comparing against the port limit
// (spec.md §4.F cycle accounting).
func (e *Engine) ruleValidRegisterPortUsage(in *Instruction) {
	seen := make(map[uint32]bool)
	collectConstReads(in, seen)
	if in.CoIssue && in.Prev != nil {
		collectConstReads(in.Prev, seen)
	}
	if len(seen) > e.caps.MaxConstantPortReads {
		e.report(CategoryInstructionError, "instruction reads %d distinct constant registers, exceeding the port limit of %d", len(seen), e.caps.MaxConstantPortReads)
	}
}

func collectConstReads(in *Instruction, seen map[uint32]bool) {
	for _, src := range in.SrcParams {
		if src.File != RegConst {
			continue
		}
		if src.ComponentReadMask == 0 {
			continue
		}
		seen[src.Index] = true
	}
}

// markRegisterAccesses updates register-file read/write histories for
// every dst/src in the instruction. Called after the rules that need the
// pre-instruction initialization state have already run.
func (e *Engine) markRegisterAccesses(in *Instruction) {
	if dst, ok := in.Dst(); ok {
		if f := e.regFile(dst.File); f != nil {
			f.markWritten(dst.Index, in.CycleNum)
		}
	}
	for _, src := range in.SrcParams {
		if f := e.regFile(src.File); f != nil {
			f.markRead(src.Index, in.CycleNum)
		}
	}
}

// regFileBound returns the capability-derived number of valid indices
// for a register file, or -1 if this implementation does not bound it
// (the input file). The register file itself never enforces
// this -- per spec.md §4.C, bounds checking is the rule engine's job.
func (e *Engine) regFileBound(tag RegisterFileTag) int {
	switch tag {
	case RegTemp:
		return e.caps.MaxTempRegisters
	case RegConst:
		return e.caps.MaxConstRegisters
	case RegAddress:
		if e.strategy.shaderType() == ShaderTypeVertex {
			return 1
		}
		return e.caps.MaxTextureStages
	case RegRastOut:
		return 3 // oPos, oFog, oPts
	case RegAttrOut:
		return 2 // oD0, oD1
	case RegTexCoordOut:
		return 8
	default:
		return -1
	}
}

// ruleValidDstParam checks that the destination's register file/index
// combination is legal: in range, and not one of the read-only files
// (DEF is the one opcode allowed to write a constant register).
func (e *Engine) ruleValidDstParam(in *Instruction) {
	dst, ok := in.Dst()
	if !ok {
		return
	}
	if dst.File == RegInput || (dst.File == RegConst && in.Opcode != OpDef) {
		e.report(CategoryInstructionError, "cannot write to read-only register file %s", dst.File)
		return
	}
	if bound := e.regFileBound(dst.File); bound >= 0 && int(dst.Index) >= bound {
		e.report(CategoryInstructionError, "destination register %s%d is out of range (limit %d)", dst.File, dst.Index, bound)
	}
}

// ruleValidSrcParams checks that every source's register file/index
// combination is legal.
func (e *Engine) ruleValidSrcParams(in *Instruction) {
	for i, src := range in.SrcParams {
		if src.File == RegRastOut || src.File == RegAttrOut || src.File == RegTexCoordOut {
			e.report(CategoryInstructionError, "source %d reads write-only register file %s", i+1, src.File)
			continue
		}
		if bound := e.regFileBound(src.File); bound >= 0 && int(src.Index) >= bound {
			e.report(CategoryInstructionError, "source %d register %s%d is out of range (limit %d)", i+1, src.File, src.Index, bound)
		}
	}
}

// ruleNonEmptyProgram enforces that a shader decodes at least one real
// instruction (spec.md §9 Open Question: an empty program is a failure,
// not a vacuous success).
func (e *Engine) ruleNonEmptyProgram() {
	if e.totalOpCount == 0 {
		e.report(CategoryGlobalError, "no instructions in shader")
	}
}

// ruleValidInstructionCount enforces total/tex/blend instruction count
// limits. It is run after each instruction and once more, finally, from
// applyPostInstructionRules.
func (e *Engine) ruleValidInstructionCount() {
	if e.totalOpCount > e.caps.MaxInstructions {
		e.report(CategoryGlobalError, "total instruction count %d exceeds device limit %d", e.totalOpCount, e.caps.MaxInstructions)
	}
	if e.caps.MaxTexOps > 0 && e.texOpCount > e.caps.MaxTexOps {
		e.report(CategoryGlobalError, "texture instruction count %d exceeds device limit %d", e.texOpCount, e.caps.MaxTexOps)
	}
	if e.caps.MaxBlendOps > 0 && e.blendOpCount > e.caps.MaxBlendOps {
		e.report(CategoryGlobalError, "blend instruction count %d exceeds device limit %d", e.blendOpCount, e.caps.MaxBlendOps)
	}
}
