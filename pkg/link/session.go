package link

import (
	"github.com/robotalks/optolink/pkg/frame"
	"github.com/robotalks/optolink/pkg/huffman"
	"github.com/robotalks/optolink/pkg/line"
	"github.com/robotalks/optolink/pkg/pulse"
)

// Session holds what both ends of a link agree on out of band: the
// protocol, the codebook of the message and the framed message.
type Session struct {
	Message  string
	Protocol *pulse.Protocol
	Codebook *huffman.Codebook
	Frame    *frame.Frame
}

// NewSession builds the codebook of message and frames it.
func NewSession(message string, protocol *pulse.Protocol) (*Session, error) {
	cb, err := huffman.NewCodebook(message)
	if err != nil {
		return nil, err
	}
	payload, err := cb.Encode(message)
	if err != nil {
		return nil, err
	}
	return &Session{
		Message:  message,
		Protocol: protocol,
		Codebook: cb,
		Frame:    frame.New(payload),
	}, nil
}

// NewTransmitter creates a transmitter repeating the session frame.
func (s *Session) NewTransmitter(out line.OutputLine) *Transmitter {
	tx := NewTransmitter(out, s.Protocol)
	tx.Frame = s.Frame
	return tx
}

// NewReceiver creates a receiver holding its own copy of the codebook.
func (s *Session) NewReceiver(in line.InputLine, handler ResultHandler) *Receiver {
	rx := NewReceiver(in, s.Protocol, s.Codebook.Clone(), s.Frame.Pad)
	rx.Handler = handler
	return rx
}
