package shader

type decodeResult int

const (
	decodeContinue decodeResult = iota
	decodeInstruction
	decodeEnd
)

// decodeNextInstruction implements spec.md §4.E: advance the token
// pointer, populate the current instruction record (or skip a comment
// frame), or report a fatal error.
func (e *Engine) decodeNextInstruction() (decodeResult, error) {
	tok, ok := e.advance()
	if !ok {
		return decodeEnd, wrapAt(errTruncatedStream, e.pos)
	}

	opcode := ExtractOpcode(tok)

	if opcode == OpEnd {
		return decodeEnd, nil
	}

	if opcode == OpComment {
		e.parseCommentFrame(tok)
		return decodeContinue, nil
	}

	in := e.allocateInstruction()
	in.Opcode = opcode

	in.Location = SpewLocation{File: e.latestSpewFile, Line: e.latestSpewLine}

	if IsCoIssue(tok) {
		in.CoIssue = true
	} else {
		e.cycleNum++
	}
	in.CycleNum = e.cycleNum

	e.spewIndex++
	in.SpewIndex = e.spewIndex

	if HasReservedOpcodeBits(tok) {
		e.report(CategoryInstructionError, "reserved bit(s) set in instruction parameter token")
		return decodeInstruction, nil
	}

	dstCount := 1
	if info, ok := opcodeTable[opcode]; ok {
		dstCount = info.dstCount
	}

	for dstCount > 0 {
		next, ok := e.peek()
		if !ok || !IsParamToken(next) {
			break
		}
		dstTok, _ := e.advance()
		dstCount--

		if hasReservedDstBits(dstTok) {
			e.report(CategoryInstructionError, "reserved bit(s) set in destination parameter token")
			return decodeInstruction, nil
		}

		dst := e.strategy.decodeDstParam(dstTok)
		dst.Used = true
		in.DstParams = append(in.DstParams, dst)

		if opcode == OpDef {
			// DEF's payload is four raw floats, not source parameters.
			for i := 0; i < 4; i++ {
				if _, ok := e.advance(); !ok {
					e.report(CategoryInstructionError, "truncated DEF constant payload")
					return decodeInstruction, nil
				}
			}
			decodeReadMasks(in)
			e.totalOpCount++
			if e.strategy.shaderType() == ShaderTypePixel {
				e.classifyPSInstruction(in)
			}
			return decodeInstruction, nil
		}
	}

	for {
		next, ok := e.peek()
		if !ok || !IsParamToken(next) {
			break
		}
		srcTok, _ := e.advance()

		if len(in.DstParams)+len(in.SrcParams) >= MaxParams {
			e.report(CategoryWarning, "excess source parameter token(s) discarded to resync stream")
			continue
		}

		if hasReservedSrcBits(srcTok) {
			e.report(CategoryInstructionError, "reserved bit(s) set in source %d parameter token", len(in.SrcParams)+1)
			return decodeInstruction, nil
		}

		src := e.strategy.decodeSrcParam(srcTok)
		in.SrcParams = append(in.SrcParams, src)
	}

	decodeReadMasks(in)

	e.totalOpCount++
	if e.strategy.shaderType() == ShaderTypePixel {
		e.classifyPSInstruction(in)
	}

	return decodeInstruction, nil
}

// parseCommentFrame skips a comment token's payload, extracting assembler
// file/line messages from a well-known sub-format: a comment payload
// whose first DWORD is a marker (1 = file name follows as packed ASCII
// DWORDs, 2 = line number follows as a single DWORD). Any other payload
// is skipped without interpretation.
func (e *Engine) parseCommentFrame(tok Token) {
	length := CommentLength(tok)
	if length == 0 {
		return
	}

	marker, ok := e.advance()
	if !ok {
		return
	}
	consumed := uint32(1)

	switch marker {
	case 1:
		var name []byte
		for ; consumed < length; consumed++ {
			dw, ok := e.advance()
			if !ok {
				break
			}
			for shift := 0; shift < 32; shift += 8 {
				b := byte(dw >> shift)
				if b == 0 {
					break
				}
				name = append(name, b)
			}
		}
		e.latestSpewFile = string(name)
		return
	case 2:
		if consumed < length {
			line, ok2 := e.advance()
			consumed++
			if ok2 {
				e.latestSpewLine = int(line)
			}
		}
	}

	for ; consumed < length; consumed++ {
		e.advance()
	}
}

// decodeReadMasks implements spec.md §4.E's component-read-mask
// derivation for every source parameter of in.
func decodeReadMasks(in *Instruction) {
	dst, hasDst := in.Dst()

	for i := range in.SrcParams {
		var bR, bG, bB, bA bool

		if hasDst {
			bR = dst.WriteMask&MaskR != 0
			bG = dst.WriteMask&MaskG != 0
			bB = dst.WriteMask&MaskB != 0
			bA = dst.WriteMask&MaskA != 0
		} else {
			// XFC: the first six sources default to reading RGB, the
			// seventh reads only B.
			if i <= 5 {
				bR, bG, bB = true, true, true
			} else {
				bB = true
			}
		}

		if in.Opcode == OpDp3 {
			bA = false
		}

		sw := in.SrcParams[i].Swizzle
		var read [4]bool
		if bR {
			read[sw.Channel(0)] = true
		}
		if bG {
			read[sw.Channel(1)] = true
		}
		if bB {
			read[sw.Channel(2)] = true
		}
		if bA {
			read[sw.Channel(3)] = true
		}

		var mask WriteMask
		if read[0] {
			mask |= MaskR
		}
		if read[1] {
			mask |= MaskG
		}
		if read[2] {
			mask |= MaskB
		}
		if read[3] {
			mask |= MaskA
		}
		in.SrcParams[i].ComponentReadMask = mask
	}
}

// classifyPSInstruction updates the pixel-shader-only texOpCount /
// texMBaseDstReg bookkeeping (spec.md §4.E step 11, §4.G).
func (e *Engine) classifyPSInstruction(in *Instruction) {
	if isTexOpcode(in.Opcode) {
		e.texOpCount++
		in.isTexOp = true
	}
	if isBlendOpcode(in.Opcode) {
		e.blendOpCount++
	}

	if isTexMOpcode(in.Opcode) {
		in.isTexMOp = true
		if dst, ok := in.Dst(); ok {
			if !e.inTexMChain {
				e.texMBaseDstReg = dst.Index
				e.inTexMChain = true
			}
			in.texMBaseDstReg = e.texMBaseDstReg
		}
	} else {
		e.inTexMChain = false
	}
}
