// Package stream frames packets on a byte stream, used to record and
// replay published events.
package stream

import (
	"encoding/binary"
	"errors"
	"io"
	"os"
)

// MaxPacketSize bounds the length prefix accepted by ReadPacket.
const MaxPacketSize = 1 << 20

// ErrPacketTooLarge indicates a length prefix beyond MaxPacketSize.
var ErrPacketTooLarge = errors.New("packet too large")

// ReadWriter implements report.PacketReadWriter.
// Each packet is prefixed by 4-byte (little-endian) indicate the length.
type ReadWriter struct {
	io.ReadWriter
}

// New creates a ReadWriter with io.ReadWriter.
func New(s io.ReadWriter) *ReadWriter {
	return &ReadWriter{s}
}

// ReadPacket implements report.PacketReader. A stream ending between
// packets returns io.EOF, inside a packet io.ErrUnexpectedEOF.
func (p *ReadWriter) ReadPacket() ([]byte, error) {
	var size uint32
	if err := binary.Read(p, binary.LittleEndian, &size); err != nil {
		return nil, err
	}
	if size > MaxPacketSize {
		return nil, ErrPacketTooLarge
	}
	pkt := make([]byte, size)
	if _, err := io.ReadFull(p, pkt); err != nil {
		if err == io.EOF {
			err = io.ErrUnexpectedEOF
		}
		return nil, err
	}
	return pkt, nil
}

// WritePacket implements report.PacketWriter. The prefix and packet go out
// in a single write.
func (p *ReadWriter) WritePacket(pkt []byte) error {
	if len(pkt) > MaxPacketSize {
		return ErrPacketTooLarge
	}
	buf := make([]byte, 4+len(pkt))
	binary.LittleEndian.PutUint32(buf, uint32(len(pkt)))
	copy(buf[4:], pkt)
	_, err := p.Write(buf)
	return err
}

// File is a ReadWriter on a record file.
type File struct {
	ReadWriter
	file *os.File
}

// Append opens fn for appending records, creating it if needed.
func Append(fn string) (*File, error) {
	f, err := os.OpenFile(fn, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0644)
	if err != nil {
		return nil, err
	}
	return &File{ReadWriter: ReadWriter{f}, file: f}, nil
}

// Open opens fn for replaying records.
func Open(fn string) (*File, error) {
	f, err := os.Open(fn)
	if err != nil {
		return nil, err
	}
	return &File{ReadWriter: ReadWriter{f}, file: f}, nil
}

// Close implements io.Closer.
func (f *File) Close() error {
	return f.file.Close()
}
