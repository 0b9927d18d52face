// Package mixbus publishes axis corrections to the motor mixer as CAN
// frames and decodes them on the receiving side.
package mixbus

import (
	"context"
	"fmt"
	"math"
	"sync"

	"go.einride.tech/can"

	"github.com/san-kum/flightcore/internal/flight"
)

const (
	DefaultFrameID = 0x120
	frameLength    = 7

	signalBits = 16
	statusBit  = 48

	statusArmed = 1 << 0
)

// Command is what the mixer needs for one tick.
type Command struct {
	Output flight.AxisOutput
	Armed  bool
}

// Writer transmits frames to the mixer.
type Writer interface {
	TransmitFrame(ctx context.Context, frame can.Frame) error
}

// Encode packs a command into a frame: three signed 16-bit little-endian
// axis signals (roll, pitch, yaw) followed by a status byte. Outputs are
// rounded and saturated to the int16 range.
func Encode(id uint32, cmd Command) (can.Frame, error) {
	f := can.Frame{ID: id, Length: frameLength}
	for i, axis := range flight.Axes {
		v := math.Round(cmd.Output.At(axis))
		v = math.Max(math.MinInt16, math.Min(math.MaxInt16, v))
		f.Data.SetSignedBitsLittleEndian(uint8(i*signalBits), signalBits, int64(v))
	}
	var status uint64
	if cmd.Armed {
		status |= statusArmed
	}
	f.Data.SetUnsignedBitsLittleEndian(statusBit, 8, status)

	if err := f.Validate(); err != nil {
		return can.Frame{}, fmt.Errorf("mixbus: encode: %w", err)
	}
	return f, nil
}

// Decode unpacks a frame produced by Encode.
func Decode(f can.Frame) (Command, error) {
	if f.Length < frameLength {
		return Command{}, fmt.Errorf("mixbus: frame 0x%X has length %d, want %d", f.ID, f.Length, frameLength)
	}
	var cmd Command
	for i, axis := range flight.Axes {
		cmd.Output.Set(axis, float64(f.Data.SignedBitsLittleEndian(uint8(i*signalBits), signalBits)))
	}
	cmd.Armed = f.Data.UnsignedBitsLittleEndian(statusBit, 8)&statusArmed != 0
	return cmd, nil
}

// Publisher encodes commands and hands them to a Writer.
type Publisher struct {
	id uint32
	w  Writer
}

func NewPublisher(id uint32, w Writer) *Publisher {
	if id == 0 {
		id = DefaultFrameID
	}
	return &Publisher{id: id, w: w}
}

func (p *Publisher) Publish(ctx context.Context, cmd Command) error {
	f, err := Encode(p.id, cmd)
	if err != nil {
		return err
	}
	return p.w.TransmitFrame(ctx, f)
}

// Recorder is an in-memory Writer.
type Recorder struct {
	mu     sync.Mutex
	frames []can.Frame
}

func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) TransmitFrame(ctx context.Context, frame can.Frame) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.frames = append(r.frames, frame)
	return nil
}

func (r *Recorder) Frames() []can.Frame {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]can.Frame, len(r.frames))
	copy(out, r.frames)
	return out
}

// Last returns the most recent frame, if any.
func (r *Recorder) Last() (can.Frame, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.frames) == 0 {
		return can.Frame{}, false
	}
	return r.frames[len(r.frames)-1], true
}

func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.frames = r.frames[:0]
}

type tee []Writer

// Tee fans every frame out to all writers, stopping at the first error.
func Tee(ws ...Writer) Writer {
	return tee(ws)
}

func (t tee) TransmitFrame(ctx context.Context, frame can.Frame) error {
	for _, w := range t {
		if err := w.TransmitFrame(ctx, frame); err != nil {
			return err
		}
	}
	return nil
}
