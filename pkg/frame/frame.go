// Package frame appends and validates the additive checksum protecting a
// bit sequence on the optical channel.
//
// The checksum is the 32-bit sum of the payload's 8-bit groups. Validation
// compares the recomputed sum with the transmitted one and reports a fidelity
// ratio instead of an exact match, so a single misclassified pulse degrades
// the score rather than failing the frame. This is an approximate integrity
// check, not a cryptographic one.
package frame

import (
	"errors"

	"github.com/robotalks/optolink/pkg/bits"
)

const (
	// ChecksumBits is the width of the trailing checksum field.
	ChecksumBits = 32
	// MinBits is the shortest valid frame: one byte plus checksum.
	MinBits = 8 + ChecksumBits
	// DefaultAcceptance is the fidelity a frame must exceed to be valid.
	DefaultAcceptance = 0.995
)

// ErrShortFrame indicates fewer bits than a frame can hold.
var ErrShortFrame = errors.New("frame too short")

// AddChecksum pads seq with zero bits to a multiple of 8 and appends the
// checksum least-significant bit first. The pad length is returned so the
// receiving end can strip it; it is not transmitted.
func AddChecksum(seq bits.Seq) (bits.Seq, int) {
	pad := bits.PadLen(len(seq))
	framed := make(bits.Seq, 0, len(seq)+pad+ChecksumBits)
	framed = append(framed, seq...)
	framed = append(framed, bits.Zeros(pad)...)
	return framed.AppendUint32LSB(framed.ByteSum()), pad
}

// Verdict is the result of validating a framed sequence.
type Verdict struct {
	Valid    bool
	Fidelity float64
	Sum      uint32
	Checksum uint32
}

// Validate recomputes the sum over everything but the trailing checksum
// and compares it with the checksum. Fidelity is min/max of the two.
func Validate(framed bits.Seq, acceptance float64) Verdict {
	if len(framed) < MinBits {
		return Verdict{}
	}
	n := len(framed) - ChecksumBits
	v := Verdict{
		Sum:      framed[:n].ByteSum(),
		Checksum: framed.Uint32LSB(n),
	}
	v.Fidelity = Fidelity(v.Sum, v.Checksum)
	v.Valid = v.Fidelity > acceptance
	return v
}

// Fidelity scores how close two sums are, 1 when equal.
func Fidelity(sum, checksum uint32) float64 {
	if sum == checksum {
		return 1
	}
	lo, hi := sum, checksum
	if lo > hi {
		lo, hi = hi, lo
	}
	return float64(lo) / float64(hi)
}

// Strip removes the checksum and pad bits, returning the payload.
func Strip(framed bits.Seq, pad int) (bits.Seq, error) {
	n := len(framed) - ChecksumBits - pad
	if pad < 0 || n < 0 {
		return nil, ErrShortFrame
	}
	return framed[:n].Clone(), nil
}

// Frame is an encoded payload ready to transmit.
type Frame struct {
	Payload bits.Seq
	Pad     int
	Bits    bits.Seq
}

// New frames payload.
func New(payload bits.Seq) *Frame {
	framed, pad := AddChecksum(payload)
	return &Frame{Payload: payload.Clone(), Pad: pad, Bits: framed}
}

// Len is the number of bits on the wire.
func (f *Frame) Len() int {
	return len(f.Bits)
}
