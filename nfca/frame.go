package nfca

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

const frameCapacity = 1000

// bitBuffer is the decoded-bit accumulator shared by both variants (spec
// section 3, "Frame buffer"). Only positions [0, decodedBitNum) are
// meaningful; writes past capacity are silently dropped (spec section 7,
// "Capacity").
type bitBuffer struct {
	bits          [frameCapacity]byte
	decodedBitNum int
}

// appendBit appends one decoded bit, truncating at capacity.
func (b *bitBuffer) appendBit(bit byte) {
	if b.decodedBitNum >= frameCapacity {
		return
	}
	b.bits[b.decodedBitNum] = bit
	b.decodedBitNum++
}

func (b *bitBuffer) clear() {
	b.decodedBitNum = 0
}

// ByteKind classifies one emitted byte for the trace line (spec section
// 4.5, step 3).
type ByteKind int

const (
	// ByteShort is a 7-bit short command frame: "[HH]".
	ByteShort ByteKind = iota
	// ByteFraming is a malformed trailing byte: "/HH\".
	ByteFraming
	// ByteOK is a byte with parity off or passing: "  HH ".
	ByteOK
	// ByteParityFail is a byte whose parity bit did not match: "(HH)".
	ByteParityFail
)

// ByteToken is the structured form of one trace token.
type ByteToken struct {
	Value byte
	Kind  ByteKind
}

func (t ByteToken) String() string {
	hex := fmt.Sprintf("%02X", t.Value)
	switch t.Kind {
	case ByteShort:
		return "[" + hex + "]"
	case ByteFraming:
		return "/" + hex + `\`
	case ByteParityFail:
		return "(" + hex + ")"
	default:
		return "  " + hex + " "
	}
}

// Frame is the structured form of one completed, fully-assembled tag
// frame: the decoded bytes, their per-token classification, and the
// formatted trace line spec section 6 requires.
type Frame struct {
	ID           uuid.UUID
	Bytes        []byte
	Tokens       []ByteToken
	NoParityMode bool
	Trace        string
}

// computeEvenParity returns the XOR reduction of a byte's 8 bits (spec
// section 4.5).
func computeEvenParity(b byte) byte {
	var x byte
	for i := 0; i < 8; i++ {
		x ^= (b >> uint(i)) & 1
	}
	return x
}

// assembleFrame implements the shared Frame Assembler (spec section 4.5).
// lastKnownNoParity carries the "last-known mode" across frames for the
// decoded_bit_num%72==0 case and is updated in place.
func assembleFrame(bits []byte, lastKnownNoParity *bool) Frame {
	n := len(bits)
	frame := Frame{ID: uuid.New()}
	if n == 0 {
		return frame
	}

	var noParity bool
	if n%72 == 0 {
		noParity = *lastKnownNoParity
	} else {
		noParity = n%9 != 0 && n%8 == 0
	}
	*lastKnownNoParity = noParity
	frame.NoParityMode = noParity

	var outBit int
	var cur byte
	i := 0
	emit := func(kind ByteKind) {
		frame.Bytes = append(frame.Bytes, cur)
		frame.Tokens = append(frame.Tokens, ByteToken{Value: cur, Kind: kind})
		outBit = 0
		cur = 0
	}

	for i < n {
		if bits[i] != 0 {
			cur |= 1 << uint(outBit)
		}
		outBit++
		i++

		if outBit != 8 {
			continue
		}

		if noParity {
			emit(ByteOK)
			continue
		}

		if i >= n {
			// Frame ended right after the 8th data bit with no parity
			// bit available: a framing error.
			emit(ByteFraming)
			continue
		}

		parityBit := bits[i]
		i++
		// The nine bits (byte + parity) must carry an even number of
		// ones, so the parity bit must equal the byte's own XOR
		// reduction (spec section 8's worked examples resolve the
		// prose formula in section 4.5 this way: 0x01 with parity 1
		// passes, with parity 0 fails).
		if parityBit == computeEvenParity(cur) {
			emit(ByteOK)
		} else {
			emit(ByteParityFail)
		}
	}

	if outBit > 0 {
		if n == 7 {
			emit(ByteShort)
		} else {
			emit(ByteFraming)
		}
	}

	frame.Trace = formatTrace(frame)
	return frame
}

// formatTrace renders a Frame's trace line per spec section 6: "Tag -> "
// followed by each byte's token, an optional "(No parity)" annotation, and
// a trailing newline.
func formatTrace(f Frame) string {
	var sb strings.Builder
	sb.WriteString("Tag -> ")
	for _, tok := range f.Tokens {
		sb.WriteString(tok.String())
	}
	if f.NoParityMode {
		sb.WriteString(" (No parity)")
	}
	sb.WriteByte('\n')
	return sb.String()
}
