// Package bits provides the bit sequence type shared by the codec,
// the frame checksum and the pulse protocol.
package bits

import (
	"fmt"
	"strings"
)

// Seq is an ordered sequence of bits. Order on the wire equals order in the slice.
type Seq []bool

// Parse parses a text form like "0110 1001". Whitespace is ignored.
func Parse(s string) (Seq, error) {
	seq := make(Seq, 0, len(s))
	for n, c := range s {
		switch c {
		case '0':
			seq = append(seq, false)
		case '1':
			seq = append(seq, true)
		case ' ', '\t', '\n', '\r':
		default:
			return nil, fmt.Errorf("invalid bit %q at %d", c, n)
		}
	}
	return seq, nil
}

// MustParse is Parse which panics on error.
func MustParse(s string) Seq {
	seq, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return seq
}

// String renders the sequence as '0'/'1' characters.
func (s Seq) String() string {
	var b strings.Builder
	b.Grow(len(s))
	for _, bit := range s {
		if bit {
			b.WriteByte('1')
		} else {
			b.WriteByte('0')
		}
	}
	return b.String()
}

// Clone returns an independent copy.
func (s Seq) Clone() Seq {
	if s == nil {
		return nil
	}
	out := make(Seq, len(s))
	copy(out, s)
	return out
}

// Ones counts the set bits.
func (s Seq) Ones() int {
	var n int
	for _, bit := range s {
		if bit {
			n++
		}
	}
	return n
}

// PadLen returns the number of zero bits needed to reach a multiple of 8.
func PadLen(n int) int {
	return (8 - n%8) % 8
}

// Byte interprets the 8 bits starting at offset as an unsigned integer,
// bit j weighted 1<<j. Bits past the end count as zero.
func (s Seq) Byte(offset int) byte {
	var b byte
	for j := 0; j < 8 && offset+j < len(s); j++ {
		if s[offset+j] {
			b |= 1 << uint(j)
		}
	}
	return b
}

// ByteSum sums all 8-bit groups, wrapping at 32 bits.
func (s Seq) ByteSum() uint32 {
	var sum uint32
	for i := 0; i < len(s); i += 8 {
		sum += uint32(s.Byte(i))
	}
	return sum
}

// Uint32LSB reads 32 bits starting at offset, least-significant first.
func (s Seq) Uint32LSB(offset int) uint32 {
	var v uint32
	for i := 0; i < 32 && offset+i < len(s); i++ {
		if s[offset+i] {
			v |= 1 << uint(i)
		}
	}
	return v
}

// AppendUint32LSB appends v as 32 bits, least-significant first.
func (s Seq) AppendUint32LSB(v uint32) Seq {
	for i := uint(0); i < 32; i++ {
		s = append(s, (v>>i)&1 == 1)
	}
	return s
}

// Zeros returns a sequence of n zero bits.
func Zeros(n int) Seq {
	return make(Seq, n)
}
