package shader

import (
	"fmt"
	"strings"
	"testing"
)

func assert(t *testing.T, cond bool, format string, args ...any) {
	t.Helper()
	if !cond {
		t.Fatalf(fmt.Sprintf("%v %s", cond, format), args...)
	}
}

// psWords builds a raw uint32 token stream: a ps.major.minor version
// token, the given instruction tokens, then an END token.
func psWords(major, minor uint8, instrTokens ...Token) []uint32 {
	out := make([]uint32, 0, len(instrTokens)+2)
	out = append(out, uint32(EncodeVersionToken(ShaderTypePixel, major, minor)))
	for _, tok := range instrTokens {
		out = append(out, uint32(tok))
	}
	out = append(out, uint32(OpEnd))
	return out
}

func opTok(op Opcode) Token {
	return Token(op)
}

func runPS(t *testing.T, caps Capabilities, words []uint32) Result {
	t.Helper()
	return ValidatePixelShader(words, caps, 0)
}

func TestEmptyPixelShaderFails(t *testing.T) {
	words := psWords(1, 1)
	res := runPS(t, DefaultPixelShaderCaps(), words)
	assert(t, res.Verdict == VerdictFailure, "empty ps.1.1 program should fail, got %s", res.Verdict)
	assert(t, strings.Contains(res.Log, "no instructions in shader"), "expected no-instructions diagnostic, got log: %s", res.Log)
}

func TestTexThenMovFromTextureRegisterSucceeds(t *testing.T) {
	// tex t0
	// mov r0, t0
	texDst := EncodeDstToken(RegTexture, 0, MaskRGBA, 0)
	movDst := EncodeDstToken(RegTemp, 0, MaskRGBA, 0)
	movSrc := EncodeSrcToken(RegTexture, 0, IdentitySwizzle, SrcModNone)
	words := psWords(1, 1,
		opTok(OpTex), texDst,
		opTok(OpMov), movDst, movSrc,
	)

	e := NewPixelShaderEngine(words, DefaultPixelShaderCaps())
	res := e.run()
	assert(t, res.Verdict == VerdictSuccess, "tex t0 / mov r0, t0 should validate cleanly, got log: %s", res.Log)
	assert(t, e.totalOpCount == 2, "expected totalOpCount 2, got %d", e.totalOpCount)
	assert(t, e.texOpCount == 1, "expected texOpCount 1, got %d", e.texOpCount)
}

func TestReservedDstBitIsRejected(t *testing.T) {
	dst := EncodeDstToken(RegTemp, 0, MaskRGBA, 0) | Token(1<<13) // a reserved dst bit
	src := EncodeSrcToken(RegTexture, 0, IdentitySwizzle, SrcModNone)
	words := psWords(1, 1, opTok(OpMov), dst, src)

	res := runPS(t, DefaultPixelShaderCaps(), words)
	assert(t, res.Verdict == VerdictFailure, "reserved dst bit should fail validation")
	assert(t, strings.Contains(res.Log, "reserved bit"), "expected reserved-bit diagnostic, got log: %s", res.Log)
}

func TestDP3ReadMaskIgnoresAlpha(t *testing.T) {
	// dp3 r0, t0, t1 -- should read rgb from both sources, never alpha,
	// even though the destination write mask includes alpha.
	dst := EncodeDstToken(RegTemp, 0, MaskRGBA, 0)
	src0 := EncodeSrcToken(RegTexture, 0, IdentitySwizzle, SrcModNone)
	src1 := EncodeSrcToken(RegTexture, 1, IdentitySwizzle, SrcModNone)
	words := psWords(1, 1, opTok(OpDp3), dst, src0, src1)

	e := NewPixelShaderEngine(words, DefaultPixelShaderCaps())
	res := e.run()
	assert(t, res.Verdict == VerdictSuccess, "dp3 should validate cleanly, got log: %s", res.Log)

	assert(t, len(e.instructions) == 1, "expected exactly one decoded instruction, got %d", len(e.instructions))
	in := e.instructions[0]
	for i, src := range in.SrcParams {
		assert(t, src.ComponentReadMask&MaskA == 0, "dp3 source %d should never read alpha, mask=%s", i, src.ComponentReadMask)
		assert(t, src.ComponentReadMask == MaskRGB, "dp3 source %d should read exactly rgb, got %s", i, src.ComponentReadMask)
	}
}

func TestFRCRejectsInvalidWriteMask(t *testing.T) {
	// frc r0.x -- illegal, FRC may only write .y or .xy
	dst := EncodeDstToken(RegTemp, 0, MaskR, 0)
	src := EncodeSrcToken(RegTexture, 0, IdentitySwizzle, SrcModNone)
	words := psWords(1, 1, opTok(OpFrc), dst, src)

	res := runPS(t, DefaultPixelShaderCaps(), words)
	assert(t, res.Verdict == VerdictFailure, "frc with .x write mask should fail")
	assert(t, strings.Contains(res.Log, "FRC destination write mask"), "expected FRC write-mask diagnostic, got log: %s", res.Log)
}

func TestFRCAcceptsValidWriteMask(t *testing.T) {
	dst := EncodeDstToken(RegTemp, 0, MaskG, 0)
	src := EncodeSrcToken(RegTexture, 0, IdentitySwizzle, SrcModNone)
	words := psWords(1, 1, opTok(OpFrc), dst, src)

	res := runPS(t, DefaultPixelShaderCaps(), words)
	assert(t, res.Verdict == VerdictSuccess, "frc with .y write mask should validate cleanly, got log: %s", res.Log)
}

func TestReadBeforeWriteIsRejected(t *testing.T) {
	// mov r0, r1 -- r1 is never written first.
	dst := EncodeDstToken(RegTemp, 0, MaskRGBA, 0)
	src := EncodeSrcToken(RegTemp, 1, IdentitySwizzle, SrcModNone)
	words := psWords(1, 1, opTok(OpMov), dst, src)

	res := runPS(t, DefaultPixelShaderCaps(), words)
	assert(t, res.Verdict == VerdictFailure, "reading an uninitialized temp register should fail")
	assert(t, strings.Contains(res.Log, "before it is written"), "expected uninitialized-read diagnostic, got log: %s", res.Log)
}

func TestCoIssueOnFirstInstructionIsRejected(t *testing.T) {
	dst := EncodeDstToken(RegTemp, 0, MaskRGBA, 0)
	src := EncodeSrcToken(RegTexture, 0, IdentitySwizzle, SrcModNone)
	words := psWords(1, 1, opTok(OpMov)|CoIssueBit, dst, src)

	res := runPS(t, DefaultPixelShaderCaps(), words)
	assert(t, res.Verdict == VerdictFailure, "co-issue flag on the first instruction should fail")
	assert(t, strings.Contains(res.Log, "co-issue flag set on the first instruction"), "expected co-issue diagnostic, got log: %s", res.Log)
}

func TestConstantPortLimitExceeded(t *testing.T) {
	// mad r0, c0, c1, c2 -- three distinct constant registers read by one
	// instruction, exceeding the default port limit of 2.
	dst := EncodeDstToken(RegTemp, 0, MaskRGBA, 0)
	src0 := EncodeSrcToken(RegConst, 0, IdentitySwizzle, SrcModNone)
	src1 := EncodeSrcToken(RegConst, 1, IdentitySwizzle, SrcModNone)
	src2 := EncodeSrcToken(RegConst, 2, IdentitySwizzle, SrcModNone)
	words := psWords(1, 1, opTok(OpMad), dst, src0, src1, src2)

	res := runPS(t, DefaultPixelShaderCaps(), words)
	assert(t, res.Verdict == VerdictFailure, "reading 3 distinct constant registers should exceed the port limit")
	assert(t, strings.Contains(res.Log, "port limit"), "expected port-limit diagnostic, got log: %s", res.Log)
}

func TestTruncatedStreamIsReportedAsFatal(t *testing.T) {
	// A valid mov instruction, but the stream ends before the END token.
	dst := EncodeDstToken(RegTemp, 0, MaskRGBA, 0)
	src := EncodeSrcToken(RegTexture, 0, IdentitySwizzle, SrcModNone)
	words := psWords(1, 1, opTok(OpMov), dst, src)
	words = words[:len(words)-1] // drop the trailing END token

	res := runPS(t, DefaultPixelShaderCaps(), words)
	assert(t, res.Verdict == VerdictFailure, "a stream missing its END token should fail")
	assert(t, strings.Contains(res.Log, "truncated bytecode stream"), "expected truncated-stream diagnostic, got log: %s", res.Log)
}

func TestDefThenUseConstantSucceeds(t *testing.T) {
	// def c0, 1.0, 0.0, 0.0, 1.0
	// mov r0, c0
	defDst := EncodeDstToken(RegConst, 0, MaskRGBA, 0)
	movDst := EncodeDstToken(RegTemp, 0, MaskRGBA, 0)
	movSrc := EncodeSrcToken(RegConst, 0, IdentitySwizzle, SrcModNone)
	words := psWords(1, 1,
		opTok(OpDef), defDst, Token(0x3F800000), Token(0), Token(0), Token(0x3F800000),
		opTok(OpMov), movDst, movSrc,
	)

	res := runPS(t, DefaultPixelShaderCaps(), words)
	assert(t, res.Verdict == VerdictSuccess, "def c0, ... / mov r0, c0 should validate cleanly, got log: %s", res.Log)
}

func TestConstantPortLimitAggregatesCoIssuedPair(t *testing.T) {
	// mov r0, c0
	// + mov r1, c1 (co-issued, shares a cycle with the instruction above)
	// two distinct constant registers read jointly in one cycle, exceeding
	// a port limit of 1.
	dst0 := EncodeDstToken(RegTemp, 0, MaskRGBA, 0)
	src0 := EncodeSrcToken(RegConst, 0, IdentitySwizzle, SrcModNone)
	dst1 := EncodeDstToken(RegTemp, 1, MaskRGBA, 0)
	src1 := EncodeSrcToken(RegConst, 1, IdentitySwizzle, SrcModNone)
	words := psWords(1, 1,
		opTok(OpMov), dst0, src0,
		opTok(OpMov)|CoIssueBit, dst1, src1,
	)

	caps := DefaultPixelShaderCaps()
	caps.MaxConstantPortReads = 1
	res := runPS(t, caps, words)
	assert(t, res.Verdict == VerdictFailure, "co-issued pair jointly exceeding the port limit should fail")
	assert(t, strings.Contains(res.Log, "port limit"), "expected port-limit diagnostic, got log: %s", res.Log)
}

func TestUnrecognizedOpcodeIsFatal(t *testing.T) {
	// loop/call/label are VS-only, not recognized by the PS family.
	words := psWords(1, 1, opTok(OpLoop))

	res := runPS(t, DefaultPixelShaderCaps(), words)
	assert(t, res.Verdict == VerdictFailure, "a VS-only opcode should be rejected by the PS family")
	assert(t, strings.Contains(res.Log, "not recognized"), "expected recognition diagnostic, got log: %s", res.Log)
}
