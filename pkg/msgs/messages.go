package msgs

import (
	"github.com/golang/protobuf/proto"

	"github.com/robotalks/optolink/pkg/link"
)

// GroupLink is the type ID group of link messages.
const GroupLink uint32 = 0x00100000

// TypeIDs
const (
	LinkResultTypeID uint32 = GroupLink | TypeIDKindEvent | 0x0001
	LinkStatusTypeID uint32 = GroupLink | TypeIDKindEvent | 0x0002
)

// LinkResult is the event of a received frame.
type LinkResult struct {
	Node        string  `protobuf:"bytes,1,opt,name=node,proto3" json:"node,omitempty"`
	Seq         uint64  `protobuf:"varint,2,opt,name=seq,proto3" json:"seq,omitempty"`
	Message     string  `protobuf:"bytes,3,opt,name=message,proto3" json:"message,omitempty"`
	Corrupted   bool    `protobuf:"varint,4,opt,name=corrupted,proto3" json:"corrupted,omitempty"`
	Fidelity    float64 `protobuf:"fixed64,5,opt,name=fidelity,proto3" json:"fidelity,omitempty"`
	Sum         uint32  `protobuf:"varint,6,opt,name=sum,proto3" json:"sum,omitempty"`
	Checksum    uint32  `protobuf:"varint,7,opt,name=checksum,proto3" json:"checksum,omitempty"`
	BitCount    uint32  `protobuf:"varint,8,opt,name=bit_count,proto3" json:"bit_count,omitempty"`
	Noise       uint32  `protobuf:"varint,9,opt,name=noise,proto3" json:"noise,omitempty"`
	ElapsedUs   int64   `protobuf:"varint,10,opt,name=elapsed_us,proto3" json:"elapsed_us,omitempty"`
	Timestamp   int64   `protobuf:"varint,11,opt,name=timestamp,proto3" json:"timestamp,omitempty"`
	KbPerSecond float64 `protobuf:"fixed64,12,opt,name=kb_per_second,proto3" json:"kb_per_second,omitempty"`
}

// NewLinkResult creates the event of a received frame.
func NewLinkResult(node string, seq uint64, r *link.Result) *LinkResult {
	return &LinkResult{
		Node:        node,
		Seq:         seq,
		Message:     r.Message,
		Corrupted:   r.Corrupted,
		Fidelity:    r.Verdict.Fidelity,
		Sum:         r.Verdict.Sum,
		Checksum:    r.Verdict.Checksum,
		BitCount:    uint32(len(r.Bits)),
		Noise:       uint32(r.Noise),
		ElapsedUs:   r.Elapsed().Microseconds(),
		Timestamp:   r.Finished.UnixNano(),
		KbPerSecond: r.KBPerSecond(),
	}
}

// NewMessage implements Message.
func (m *LinkResult) NewMessage() Message { return &LinkResult{} }

// TypeID implements Message.
func (m *LinkResult) TypeID() uint32 { return LinkResultTypeID }

// ProtoMessage implements proto.Message.
func (m *LinkResult) ProtoMessage() {}

// Reset implements proto.Message.
func (m *LinkResult) Reset() { *m = LinkResult{} }

// String implements proto.Message.
func (m *LinkResult) String() string { return proto.CompactTextString(m) }

// LinkStatus is the periodic status of a link node.
type LinkStatus struct {
	Node        string `protobuf:"bytes,1,opt,name=node,proto3" json:"node,omitempty"`
	TxState     string `protobuf:"bytes,2,opt,name=tx_state,proto3" json:"tx_state,omitempty"`
	RxState     string `protobuf:"bytes,3,opt,name=rx_state,proto3" json:"rx_state,omitempty"`
	FramesSent  uint64 `protobuf:"varint,4,opt,name=frames_sent,proto3" json:"frames_sent,omitempty"`
	FramesValid uint64 `protobuf:"varint,5,opt,name=frames_valid,proto3" json:"frames_valid,omitempty"`
	FramesBad   uint64 `protobuf:"varint,6,opt,name=frames_bad,proto3" json:"frames_bad,omitempty"`
}

// NewMessage implements Message.
func (m *LinkStatus) NewMessage() Message { return &LinkStatus{} }

// TypeID implements Message.
func (m *LinkStatus) TypeID() uint32 { return LinkStatusTypeID }

// ProtoMessage implements proto.Message.
func (m *LinkStatus) ProtoMessage() {}

// Reset implements proto.Message.
func (m *LinkStatus) Reset() { *m = LinkStatus{} }

// String implements proto.Message.
func (m *LinkStatus) String() string { return proto.CompactTextString(m) }
