package stream

import (
	"bytes"
	"io"
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestReadWriter(t *testing.T) {
	var buf bytes.Buffer
	rw := New(&buf)
	require.NoError(t, rw.WritePacket([]byte("abc")))
	require.NoError(t, rw.WritePacket(nil))
	require.Equal(t, []byte{3, 0, 0, 0, 'a', 'b', 'c', 0, 0, 0, 0}, buf.Bytes())

	pkt, err := rw.ReadPacket()
	require.NoError(t, err)
	require.Equal(t, []byte("abc"), pkt)
	pkt, err = rw.ReadPacket()
	require.NoError(t, err)
	require.Empty(t, pkt)
	_, err = rw.ReadPacket()
	require.Equal(t, io.EOF, err)
}

func TestReadTruncated(t *testing.T) {
	rw := New(bytes.NewBuffer([]byte{5, 0, 0, 0, 'a'}))
	_, err := rw.ReadPacket()
	require.Equal(t, io.ErrUnexpectedEOF, err)

	rw = New(bytes.NewBuffer([]byte{0, 0, 0, 0x7f}))
	_, err = rw.ReadPacket()
	require.Equal(t, ErrPacketTooLarge, err)
}

func TestFile(t *testing.T) {
	dir, err := ioutil.TempDir("", "stream")
	require.NoError(t, err)
	defer os.RemoveAll(dir)
	fn := filepath.Join(dir, "record.bin")

	for _, pkt := range []string{"one", "two"} {
		f, err := Append(fn)
		require.NoError(t, err)
		require.NoError(t, f.WritePacket([]byte(pkt)))
		require.NoError(t, f.Close())
	}

	f, err := Open(fn)
	require.NoError(t, err)
	defer f.Close()
	var got []string
	for {
		pkt, err := f.ReadPacket()
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		got = append(got, string(pkt))
	}
	require.Equal(t, []string{"one", "two"}, got)
}
