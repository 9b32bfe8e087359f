package link

import (
	"fmt"
	"sync/atomic"
)

// TxState is the state of a Transmitter.
type TxState int32

// Transmitter states
const (
	TxIdle TxState = iota
	TxInitiating
	TxSendingBit
	TxTerminating
)

var txStateNames = map[TxState]string{
	TxIdle:        "Idle",
	TxInitiating:  "Initiating",
	TxSendingBit:  "SendingBit",
	TxTerminating: "Terminating",
}

func (s TxState) String() string {
	if name, ok := txStateNames[s]; ok {
		return name
	}
	return fmt.Sprintf("TxState(%d)", int32(s))
}

// RxState is the state of a Receiver.
type RxState int32

// Receiver states
const (
	RxAwaitingInitiation RxState = iota
	RxReceivingBits
	RxDone
)

var rxStateNames = map[RxState]string{
	RxAwaitingInitiation: "AwaitingInitiation",
	RxReceivingBits:      "ReceivingBits",
	RxDone:               "Done",
}

func (s RxState) String() string {
	if name, ok := rxStateNames[s]; ok {
		return name
	}
	return fmt.Sprintf("RxState(%d)", int32(s))
}

type stateVar struct {
	v int32
}

func (s *stateVar) load() int32 {
	return atomic.LoadInt32(&s.v)
}

func (s *stateVar) store(v int32) {
	atomic.StoreInt32(&s.v, v)
}
