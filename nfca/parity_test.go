package nfca

import (
	"math/bits"
	"testing"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"
)

// TestComputeEvenParity checks invariant 5 (spec section 8): parity
// equals the XOR reduction of the byte's 8 bits for every value.
func TestComputeEvenParity(t *testing.T) {
	for x := 0; x <= 255; x++ {
		want := byte(bits.OnesCount8(byte(x)) % 2)
		assert.Equalf(t, want, computeEvenParity(byte(x)), "byte %d", x)
	}
}

// TestComputeEvenParityProperty fuzzes the same identity with rapid
// instead of a hand-rolled loop, per SPEC_FULL.md section 8.
func TestComputeEvenParityProperty(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		x := rapid.Byte().Draw(rt, "x")
		want := byte(bits.OnesCount8(x) % 2)
		assert.Equal(rt, want, computeEvenParity(x))
	})
}

func TestAssembleFrameParityPass(t *testing.T) {
	bits9 := []byte{1, 0, 0, 0, 0, 0, 0, 0, 1}
	noParity := false
	f := assembleFrame(bits9, &noParity)

	require := assert.New(t)
	require.Equal([]byte{0x01}, f.Bytes)
	require.Len(f.Tokens, 1)
	require.Equal(ByteOK, f.Tokens[0].Kind)
	require.Equal("Tag ->   01 \n", f.Trace)
}

func TestAssembleFrameParityFail(t *testing.T) {
	bits9 := []byte{1, 0, 0, 0, 0, 0, 0, 0, 0}
	noParity := false
	f := assembleFrame(bits9, &noParity)

	assert.Equal(t, []byte{0x01}, f.Bytes)
	require := assert.New(t)
	require.Len(f.Tokens, 1)
	require.Equal(ByteParityFail, f.Tokens[0].Kind)
	require.Equal("Tag -> (01)\n", f.Trace)
}

func TestAssembleFrameShortCommand(t *testing.T) {
	bits7 := []byte{1, 0, 0, 0, 0, 0, 0}
	noParity := false
	f := assembleFrame(bits7, &noParity)

	require := assert.New(t)
	require.Len(f.Tokens, 1)
	require.Equal(ByteShort, f.Tokens[0].Kind)
}

func TestAssembleFrameEmpty(t *testing.T) {
	noParity := false
	f := assembleFrame(nil, &noParity)
	assert.Empty(t, f.Bytes)
	assert.Empty(t, f.Trace)
}
