// Package ingress carries host-originated events (decoded MIDI/CC/RPN
// messages, out of scope to decode here) from a control thread into the
// engine channel's per-fragment merge step, without the audio thread
// ever blocking or allocating to receive them.
package ingress

import (
	"encoding/binary"
	"math"

	"github.com/smallnest/ringbuffer"

	"github.com/coresampler/rtscript/pkg/event"
	"github.com/coresampler/rtscript/pkg/logging"
)

// recordSize is the fixed on-the-wire size of one encoded event: ID(8) +
// Type(4) + ScheduleTime(8) + FragmentPos(4) + Note.Key(1) +
// Note.Velocity(1) + pad(2) + Note.NoteID(8) + Controller.Controller(2) +
// pad(2) + Controller.Value(4) + SynthParam.NoteID(8) +
// SynthParam.Param(4) + SynthParam.Delta(8) + SynthParam.Scope(4).
const recordSize = 8 + 4 + 8 + 4 + 1 + 1 + 2 + 8 + 2 + 2 + 4 + 8 + 4 + 8 + 4

// Queue is a fixed-capacity single-producer/single-consumer transfer of
// event.Event values, backed by smallnest/ringbuffer's byte ring. A full
// queue drops the oldest entry (never blocks the producer) and logs a
// host-error-severity message — back-pressure here is a host concern,
// not a script concern.
type Queue struct {
	rb      *ringbuffer.RingBuffer
	logger  *logging.Logger
	dropped uint64
}

// New returns a Queue sized to hold capacity events.
func New(capacity int, logger *logging.Logger) *Queue {
	return &Queue{
		rb:     ringbuffer.New(capacity * recordSize),
		logger: logger,
	}
}

func encode(e event.Event) [recordSize]byte {
	var b [recordSize]byte
	o := 0
	putU64 := func(v uint64) { binary.LittleEndian.PutUint64(b[o:], v); o += 8 }
	putU32 := func(v uint32) { binary.LittleEndian.PutUint32(b[o:], v); o += 4 }
	putU16 := func(v uint16) { binary.LittleEndian.PutUint16(b[o:], v); o += 2 }
	putU8 := func(v uint8) { b[o] = v; o++ }

	putU64(uint64(e.ID))
	putU32(uint32(e.Type))
	putU64(uint64(e.ScheduleTime))
	putU32(uint32(e.FragmentPos))
	putU8(e.Note.Key)
	putU8(e.Note.Velocity)
	o += 2 // pad
	putU64(e.Note.NoteID)
	putU16(e.Controller.Controller)
	o += 2 // pad
	putU32(uint32(e.Controller.Value))
	putU64(e.SynthParam.NoteID)
	putU32(uint32(e.SynthParam.Param))
	putU64(math.Float64bits(e.SynthParam.Delta))
	putU32(uint32(e.SynthParam.Scope))
	return b
}

func decode(b []byte) event.Event {
	o := 0
	getU64 := func() uint64 { v := binary.LittleEndian.Uint64(b[o:]); o += 8; return v }
	getU32 := func() uint32 { v := binary.LittleEndian.Uint32(b[o:]); o += 4; return v }
	getU16 := func() uint16 { v := binary.LittleEndian.Uint16(b[o:]); o += 2; return v }
	getU8 := func() uint8 { v := b[o]; o++; return v }

	var e event.Event
	e.ID = event.ID(getU64())
	e.Type = event.Type(getU32())
	e.ScheduleTime = int64(getU64())
	e.FragmentPos = int32(getU32())
	e.Note.Key = getU8()
	e.Note.Velocity = getU8()
	o += 2
	e.Note.NoteID = getU64()
	e.Controller.Controller = getU16()
	o += 2
	e.Controller.Value = int32(getU32())
	e.SynthParam.NoteID = getU64()
	e.SynthParam.Param = event.SynthParamKind(getU32())
	e.SynthParam.Delta = math.Float64frombits(getU64())
	e.SynthParam.Scope = event.ValueScope(getU32())
	return e
}

// Push enqueues e from the control thread. If the ring is full, the
// oldest queued event is discarded to make room and a host-error-severity
// warning is logged — Push itself never blocks.
func (q *Queue) Push(e event.Event) {
	rec := encode(e)
	if _, err := q.rb.TryWrite(rec[:]); err != nil {
		var discard [recordSize]byte
		q.rb.TryRead(discard[:])
		q.dropped++
		if q.logger != nil {
			q.logger.With("droppedTotal", int64(q.dropped)).Error("ingress queue full, dropped oldest host event")
		}
		q.rb.TryWrite(rec[:])
	}
}

// DrainAll pops every currently queued event, in FIFO order, calling fn
// for each. Called once per ProcessFragment from the audio thread.
func (q *Queue) DrainAll(fn func(event.Event)) {
	var rec [recordSize]byte
	for {
		n, err := q.rb.TryRead(rec[:])
		if err != nil || n < recordSize {
			return
		}
		fn(decode(rec[:]))
	}
}

// Dropped returns the total number of events discarded due to overflow.
func (q *Queue) Dropped() uint64 { return q.dropped }
