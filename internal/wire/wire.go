// Package wire records and replays the sequence of random draws a
// Simulation's RNG makes, so a run that used unseeded randomness can
// still be reproduced exactly afterward. The framing is a fixed-width,
// big-endian, length-free record stream built with encoding/binary
// directly against a bytes.Buffer, generalized from string-field framing
// to one draw, together with the bound it was taken from, per record.
package wire

import (
	"bytes"
	"encoding/binary"
	"errors"

	"github.com/357r4bd/loosemac"
)

// recordSize is the encoded width of one draw: the draw itself plus
// the bound it was taken from (uint32 each).
const recordSize = 8

// Recorder wraps an RNG and appends one record per draw to an internal
// buffer, so a live run can be replayed later via a Player.
type Recorder struct {
	rng loosemac.RNG
	buf bytes.Buffer
}

// NewRecorder returns a Recorder that draws from rng and transcribes
// every call to Intn.
func NewRecorder(rng loosemac.RNG) *Recorder {
	return &Recorder{rng: rng}
}

// Intn satisfies loosemac.RNG: it forwards to the wrapped source and
// records the (bound, result) pair before returning.
func (r *Recorder) Intn(n int) int {
	v := r.rng.Intn(n)
	binary.Write(&r.buf, binary.BigEndian, uint32(n))
	binary.Write(&r.buf, binary.BigEndian, uint32(v))
	return v
}

// Bytes returns the recorded draw log, suitable for persisting and
// later handing to NewPlayer.
func (r *Recorder) Bytes() []byte {
	return append([]byte(nil), r.buf.Bytes()...)
}

// Player replays a previously recorded draw log verbatim. It satisfies
// loosemac.RNG, so a Simulation built with WithRNG(player) reproduces
// the original run's slot assignments exactly, independent of the
// original random source.
type Player struct {
	buf *bytes.Reader
}

// NewPlayer returns a Player over a log produced by Recorder.Bytes.
func NewPlayer(log []byte) *Player {
	return &Player{buf: bytes.NewReader(log)}
}

// ErrExhausted is the value Intn panics with once every recorded draw
// has been replayed; a caller seeing it has a log shorter than the run
// being replayed.
var ErrExhausted = errors.New("wire: replay log exhausted")

// Intn returns the next recorded draw. It panics with ErrExhausted if
// the log is exhausted — a Simulation never tolerates its RNG failing
// mid-run, so a truncated log is a programmer error, not a runtime one.
func (p *Player) Intn(n int) int {
	var wantN, v uint32
	if err := binary.Read(p.buf, binary.BigEndian, &wantN); err != nil {
		panic(ErrExhausted)
	}
	if err := binary.Read(p.buf, binary.BigEndian, &v); err != nil {
		panic(ErrExhausted)
	}
	if int(wantN) != n {
		panic("wire: replay log diverges from the live run's draw sequence")
	}
	return int(v)
}

// Remaining reports how many whole records are left unread.
func (p *Player) Remaining() int {
	return int(p.buf.Len()) / recordSize
}
