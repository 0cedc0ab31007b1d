package shader

import (
	"strings"
	"testing"
)

// vsWords builds a raw uint32 token stream: a vs.major.minor version
// token, the given instruction tokens, then an END token.
func vsWords(major, minor uint8, instrTokens ...Token) []uint32 {
	out := make([]uint32, 0, len(instrTokens)+2)
	out = append(out, uint32(EncodeVersionToken(ShaderTypeVertex, major, minor)))
	for _, tok := range instrTokens {
		out = append(out, uint32(tok))
	}
	out = append(out, uint32(OpEnd))
	return out
}

// declWords builds a minimal declaration stream binding each given input
// register v# to usage 0, index 0 (position), terminated the same way the
// instruction stream is.
func declWords(regs ...uint32) []uint32 {
	var out []uint32
	for _, r := range regs {
		out = append(out, 0) // usage token: usage=0 (position), index=0
		out = append(out, uint32(EncodeDstToken(RegInput, r, MaskRGBA, 0)))
	}
	out = append(out, uint32(OpEnd))
	return out
}

func runVS(code, decl []uint32, caps Capabilities) Result {
	return ValidateVertexShader(code, decl, caps, 0)
}

func TestVertexShaderRequiresOPosWritten(t *testing.T) {
	// mov r0, v0 -- never writes oPos.
	dst := EncodeDstToken(RegTemp, 0, MaskRGBA, 0)
	src := EncodeSrcToken(RegInput, 0, IdentitySwizzle, SrcModNone)
	code := vsWords(1, 1, opTok(OpMov), dst, src)

	res := runVS(code, declWords(0), DefaultVertexShaderCaps())
	assert(t, res.Verdict == VerdictFailure, "a program that never writes oPos should fail")
	assert(t, strings.Contains(res.Log, "oPos not written"), "expected oPos diagnostic, got log: %s", res.Log)
}

func TestVertexShaderWritingOPosSucceeds(t *testing.T) {
	// mov oPos, v0
	dst := EncodeDstToken(RegRastOut, 0, MaskRGBA, 0)
	src := EncodeSrcToken(RegInput, 0, IdentitySwizzle, SrcModNone)
	code := vsWords(1, 1, opTok(OpMov), dst, src)

	res := runVS(code, declWords(0), DefaultVertexShaderCaps())
	assert(t, res.Verdict == VerdictSuccess, "mov oPos, v0 should validate cleanly, got log: %s", res.Log)
}

func TestOnlyMovMayWriteAddressRegister(t *testing.T) {
	// add a0, v0, v0 -- illegal, only MOV may write the address register.
	dst := EncodeDstToken(RegAddress, 0, MaskRGBA, 0)
	src0 := EncodeSrcToken(RegInput, 0, IdentitySwizzle, SrcModNone)
	src1 := EncodeSrcToken(RegInput, 0, IdentitySwizzle, SrcModNone)
	code := vsWords(1, 1, opTok(OpAdd), dst, src0, src1)

	res := runVS(code, declWords(0), DefaultVertexShaderCaps())
	assert(t, res.Verdict == VerdictFailure, "add writing the address register should fail")
	assert(t, strings.Contains(res.Log, "only MOV may write the address register"), "expected address-register diagnostic, got log: %s", res.Log)
}

func TestMovMayWriteAddressRegister(t *testing.T) {
	movA0 := EncodeDstToken(RegAddress, 0, MaskRGBA, 0)
	src := EncodeSrcToken(RegInput, 0, IdentitySwizzle, SrcModNone)
	oPos := EncodeDstToken(RegRastOut, 0, MaskRGBA, 0)
	code := vsWords(1, 1,
		opTok(OpMov), movA0, src,
		opTok(OpMov), oPos, src,
	)

	res := runVS(code, declWords(0), DefaultVertexShaderCaps())
	assert(t, res.Verdict == VerdictSuccess, "mov writing the address register should validate cleanly, got log: %s", res.Log)
}

func TestDeclaredInputIsInitialized(t *testing.T) {
	// mov oPos, v1 -- v1 is bound by the declaration stream, so reading it
	// should not trip the uninitialized-read rule.
	dst := EncodeDstToken(RegRastOut, 0, MaskRGBA, 0)
	src := EncodeSrcToken(RegInput, 1, IdentitySwizzle, SrcModNone)
	code := vsWords(1, 1, opTok(OpMov), dst, src)

	res := runVS(code, declWords(0, 1), DefaultVertexShaderCaps())
	assert(t, res.Verdict == VerdictSuccess, "reading a declared input should validate cleanly, got log: %s", res.Log)
}

func TestUndeclaredInputIsRejected(t *testing.T) {
	// mov oPos, v2 -- v2 was never declared.
	dst := EncodeDstToken(RegRastOut, 0, MaskRGBA, 0)
	src := EncodeSrcToken(RegInput, 2, IdentitySwizzle, SrcModNone)
	code := vsWords(1, 1, opTok(OpMov), dst, src)

	res := runVS(code, declWords(0), DefaultVertexShaderCaps())
	assert(t, res.Verdict == VerdictFailure, "reading an undeclared input register should fail")
	assert(t, strings.Contains(res.Log, "before it is written"), "expected uninitialized-read diagnostic, got log: %s", res.Log)
}

func TestEmptyVertexShaderWithNoDeclarationsFails(t *testing.T) {
	code := vsWords(1, 1)
	res := runVS(code, declWords(), DefaultVertexShaderCaps())
	assert(t, res.Verdict == VerdictFailure, "empty vs.1.1 program with no declarations should fail")
	assert(t, strings.Contains(res.Log, "no instructions in shader"), "expected no-instructions diagnostic, got log: %s", res.Log)
}

func TestDeclarationOnlyFixedFunctionShaderSucceeds(t *testing.T) {
	// No instruction body at all, only declarations: a fixed-function
	// vertex shader, accepted without running the body rules.
	code := vsWords(1, 1)
	res := runVS(code, declWords(0), DefaultVertexShaderCaps())
	assert(t, res.Verdict == VerdictSuccess, "declaration-only fixed-function shader should validate cleanly, got log: %s", res.Log)
}
