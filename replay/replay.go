// Package replay writes the state of a world after every tick as a stream of
// msgpack frames. Two runs of the same scenario produce identical streams.
package replay

import (
	"errors"
	"fmt"
	"io"

	"github.com/milk9111/collider/collision"
	"github.com/milk9111/collider/ecs"
	"github.com/vmihailenco/msgpack/v5"
)

// Body flags.
const (
	FlagAlive uint8 = 1 << iota
	FlagHidden
	FlagTerminated
	FlagOnPlatform
	FlagMounted
)

// Body is one entity in a frame.
type Body struct {
	Entity uint64     `msgpack:"e"`
	Pos    [3]float32 `msgpack:"p"`
	Vel    [3]float32 `msgpack:"v"`
	Life   float32    `msgpack:"l,omitempty"`
	Flags  uint8      `msgpack:"f"`
}

// Frame is the world after one tick.
type Frame struct {
	Tick   uint64          `msgpack:"t"`
	Stats  collision.Stats `msgpack:"s"`
	Bodies []Body          `msgpack:"b"`
}

// Capture snapshots the characters and particles of w in storage order.
func Capture(w *ecs.World, stats collision.Stats) Frame {
	f := Frame{Tick: w.Tick(), Stats: stats}
	for _, e := range w.Characters() {
		c := w.Character(e)
		var flags uint8
		if c.Alive {
			flags |= FlagAlive
		}
		if c.Hidden {
			flags |= FlagHidden
		}
		if c.OnPlatform.Valid() {
			flags |= FlagOnPlatform
		}
		if c.AttachedTo.Valid() {
			flags |= FlagMounted
		}
		f.Bodies = append(f.Bodies, Body{Entity: uint64(e), Pos: c.Pos, Vel: c.Vel, Life: c.Life, Flags: flags})
	}
	for _, e := range w.Particles() {
		p := w.Particle(e)
		var flags uint8
		if p.Alive {
			flags |= FlagAlive
		}
		if p.Hidden {
			flags |= FlagHidden
		}
		if p.Terminated {
			flags |= FlagTerminated
		}
		f.Bodies = append(f.Bodies, Body{Entity: uint64(e), Pos: p.Pos, Vel: p.Vel, Flags: flags})
	}
	return f
}

// Recorder appends frames to a writer.
type Recorder struct {
	enc    *msgpack.Encoder
	frames int
}

func NewRecorder(w io.Writer) *Recorder {
	enc := msgpack.NewEncoder(w)
	enc.UseCompactInts(true)
	enc.UseCompactFloats(true)
	return &Recorder{enc: enc}
}

// Record captures w and writes the frame.
func (r *Recorder) Record(w *ecs.World, stats collision.Stats) error {
	if r == nil {
		return nil
	}
	return r.Write(Capture(w, stats))
}

func (r *Recorder) Write(f Frame) error {
	if err := r.enc.Encode(&f); err != nil {
		return fmt.Errorf("replay: frame %d: %w", f.Tick, err)
	}
	r.frames++
	return nil
}

// Frames is the number of frames written so far.
func (r *Recorder) Frames() int {
	if r == nil {
		return 0
	}
	return r.frames
}

// ReadFrames decodes every frame in rd.
func ReadFrames(rd io.Reader) ([]Frame, error) {
	dec := msgpack.NewDecoder(rd)
	var frames []Frame
	for {
		if _, err := dec.PeekCode(); err != nil {
			if errors.Is(err, io.EOF) {
				return frames, nil
			}
			return frames, fmt.Errorf("replay: frame %d: %w", len(frames), err)
		}
		var f Frame
		if err := dec.Decode(&f); err != nil {
			return frames, fmt.Errorf("replay: frame %d: %w", len(frames), err)
		}
		frames = append(frames, f)
	}
}
