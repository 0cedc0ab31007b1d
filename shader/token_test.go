package shader

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDstSrcTokenRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		file RegisterFileTag
		reg  uint32
	}{
		{"temp register 0", RegTemp, 0},
		{"const register 7", RegConst, 7},
		{"register-type-3 (address/texture encoding)", regAddrOrTexture, 2},
		{"rastout register 0", RegRastOut, 0},
		{"texcoordout register 5", RegTexCoordOut, 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dst := EncodeDstToken(tt.file, tt.reg, MaskRGBA, DstModSaturate)
			assert.True(t, IsParamToken(dst), "encoded dst token must carry the parameter bit")
			assert.Equal(t, tt.file, extractRegType(dst))
			assert.Equal(t, tt.reg, extractRegNum(dst))
			assert.Equal(t, MaskRGBA, extractWriteMask(dst))
			assert.Equal(t, DstModSaturate, extractDstModifier(dst))

			src := EncodeSrcToken(tt.file, tt.reg, IdentitySwizzle, SrcModNegate)
			assert.True(t, IsParamToken(src))
			assert.Equal(t, tt.file, extractRegType(src))
			assert.Equal(t, tt.reg, extractRegNum(src))
			assert.Equal(t, IdentitySwizzle, extractSwizzle(src))
			assert.Equal(t, SrcModNegate, extractSourceModifier(src))
		})
	}
}

func TestVersionTokenRoundTrip(t *testing.T) {
	tok := EncodeVersionToken(ShaderTypePixel, 1, 4)
	shaderType, major, minor := DecodeVersionToken(tok)
	assert.Equal(t, ShaderTypePixel, shaderType)
	assert.Equal(t, uint8(1), major)
	assert.Equal(t, uint8(4), minor)
}

func TestSwizzleChannel(t *testing.T) {
	assert.Equal(t, uint(0), IdentitySwizzle.Channel(0))
	assert.Equal(t, uint(1), IdentitySwizzle.Channel(1))
	assert.Equal(t, uint(2), IdentitySwizzle.Channel(2))
	assert.Equal(t, uint(3), IdentitySwizzle.Channel(3))

	// .wwww: every output channel reads source channel 3 (alpha).
	wwww := Swizzle(3<<0 | 3<<2 | 3<<4 | 3<<6)
	for out := uint(0); out < 4; out++ {
		assert.Equal(t, uint(3), wwww.Channel(out))
	}
}

func TestHasReservedOpcodeBits(t *testing.T) {
	assert.False(t, HasReservedOpcodeBits(Token(OpMov)))
	assert.False(t, HasReservedOpcodeBits(Token(OpMov)|CoIssueBit))
	assert.True(t, HasReservedOpcodeBits(Token(OpMov)|(1<<20)))
}

func TestCommentTokenRoundTrip(t *testing.T) {
	tok := EncodeCommentToken(3)
	assert.Equal(t, OpComment, ExtractOpcode(tok))
	assert.Equal(t, uint32(3), CommentLength(tok))
}
