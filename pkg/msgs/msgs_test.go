package msgs

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/robotalks/optolink/pkg/bits"
	"github.com/robotalks/optolink/pkg/frame"
	"github.com/robotalks/optolink/pkg/link"
)

func TestLinkResultEncodeDecode(t *testing.T) {
	start := time.Unix(1000, 0)
	res := &link.Result{
		Message: "hello",
		Verdict: frame.Verdict{Valid: true, Fidelity: 1, Sum: 42, Checksum: 42},
		Bits:    bits.Zeros(48),
		Noise:   2,
		Started: start,
		// 5 bytes in 2ms
		Finished: start.Add(2 * time.Millisecond),
	}
	msg := NewLinkResult("node-1", 7, res)
	require.Equal(t, int64(2000), msg.ElapsedUs)
	require.InDelta(t, 2.5, msg.KbPerSecond, 1e-9)

	data, err := Encode(msg)
	require.NoError(t, err)
	decoded, err := Decode(data)
	require.NoError(t, err)
	require.Equal(t, msg, decoded)
}

func TestTypedEnvelope(t *testing.T) {
	typed, err := TypedFrom(&LinkStatus{Node: "n", TxState: "Idle", FramesSent: 3})
	require.NoError(t, err)
	require.Equal(t, LinkStatusTypeID, typed.TypeId)
	require.True(t, typed.IsEvent())

	data, err := typed.Encode()
	require.NoError(t, err)
	back, err := DecodeTyped(data)
	require.NoError(t, err)
	msg, err := back.Decode()
	require.NoError(t, err)
	status, ok := msg.(*LinkStatus)
	require.True(t, ok)
	require.Equal(t, uint64(3), status.FramesSent)
	require.Equal(t, "Idle", status.TxState)
}

func TestUnknownType(t *testing.T) {
	typed := &Typed{TypeId: 0x1234}
	_, err := typed.Decode()
	require.Error(t, err)
	unknown, ok := err.(*ErrUnknownType)
	require.True(t, ok)
	require.Equal(t, uint32(0x1234), unknown.TypeID)

	_, err = TypedFrom(nil)
	require.Equal(t, ErrEmptyMessage, err)
}
