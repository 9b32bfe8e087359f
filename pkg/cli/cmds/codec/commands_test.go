package codec

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/robotalks/optolink/pkg/frame"
	"github.com/robotalks/optolink/pkg/link"
	"github.com/robotalks/optolink/pkg/pulse"
)

func newSession(t *testing.T, message string) *link.Session {
	protocol := pulse.DefaultProtocol()
	s, err := link.NewSession(message, &protocol)
	require.NoError(t, err)
	return s
}

func TestCodeRows(t *testing.T) {
	rows := CodeRows(newSession(t, "abbccc"))
	require.Len(t, rows, 3)
	require.Equal(t, `'c'`, rows[0].Symbol)
	require.Equal(t, 3, rows[0].Count)
	require.Len(t, rows[0].Code, 1)
	for _, row := range rows[1:] {
		require.Len(t, row.Code, 2)
	}
}

func TestDescribeFrame(t *testing.T) {
	s := newSession(t, "abbccc")
	info := DescribeFrame(s.Frame)
	require.Equal(t, 9, info.PayloadBits)
	require.Equal(t, 7, info.Pad)
	require.Len(t, info.Bits, 9+7+frame.ChecksumBits)
	require.Equal(t, s.Frame.Bits[:16].ByteSum(), info.Checksum)
}

func TestParseBits(t *testing.T) {
	seq, err := ParseBits([]string{"01", "1 0"})
	require.NoError(t, err)
	require.Equal(t, "0110", seq.String())
	_, err = ParseBits([]string{"012"})
	require.Error(t, err)
}

func TestFormatVerdict(t *testing.T) {
	s := newSession(t, "hello")
	require.Contains(t, formatVerdict(frame.Validate(s.Frame.Bits, frame.DefaultAcceptance)), "VALID fidelity 1.00000")
	require.Contains(t, formatVerdict(frame.Verdict{}), "INVALID")
}
