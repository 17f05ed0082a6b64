// Copyright 2020 SEQSENSE, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package seekhead builds the Matroska SeekHead element, tracking the
// top-level child elements a muxer writes so their byte offsets (relative to
// the start of the Segment payload) can be indexed for random access.
package seekhead

import (
	"errors"
	"fmt"

	"github.com/go-mkv/mkvmux/ebml"
)

// bytesPerEntry is the largest size one Seek entry can take once back-patched:
// Seek master id(2) + forced 8-byte size(8) + SeekID leaf id(2)+size(1)+id-payload(<=4)
// + SeekPosition leaf id(2)+size(1)+payload(<=8) = 28.
const bytesPerEntry = 28

// reservationOverhead is the SeekHead master's own id+size-field overhead
// folded into the "28*M+13" reservation constant: 4(id) + 8(size) + 1(slack).
const reservationOverhead = 13

// ErrCapacityExceeded is returned by AddEntry once a Reserved builder's
// pre-allocated capacity is exhausted.
var ErrCapacityExceeded = errors.New("seekhead: reserved capacity exceeded")

type entry struct {
	id  uint32
	pos uint64
}

// Builder accumulates Seek entries and writes the finished SeekHead element.
// Two construction modes are supported: Reserved pre-allocates a fixed-size
// placeholder at the start of the Segment (so the index can be read before
// the file is fully written); Appended writes a second SeekHead after the
// Cues, sized exactly, with no reservation waste.
type Builder struct {
	w        *ebml.Writer
	reserved int
	entries  []entry
}

// New returns a Builder that writes entries lazily; call ReserveSize to
// compute how many bytes a Reserved placeholder needs for capacity entries.
func New(w *ebml.Writer) *Builder {
	return &Builder{w: w}
}

// ReserveSize returns the total byte length -- including the Void padding a
// caller should reserve alongside it -- of a SeekHead able to hold up to
// capacity entries: 28*capacity + 13.
func ReserveSize(capacity int) int64 {
	return int64(bytesPerEntry*capacity + reservationOverhead)
}

// AddEntry records that element id begins at byte offset pos (relative to
// the first byte of the Segment's payload, i.e. the position a SeekPosition
// value is defined against). If the Builder was created with a capacity
// limit via SetCapacity and that limit is reached, ErrCapacityExceeded is
// returned and the caller should fall back to an Appended SeekHead or a
// plain Void.
func (b *Builder) AddEntry(id uint32, pos uint64) error {
	if b.reserved > 0 && len(b.entries) >= b.reserved {
		return ErrCapacityExceeded
	}
	b.entries = append(b.entries, entry{id: id, pos: pos})
	return nil
}

// SetCapacity bounds the number of entries AddEntry will accept. Used by the
// Reserved mode to detect overflow of the pre-allocated placeholder before
// any bytes are written past it.
func (b *Builder) SetCapacity(n int) {
	b.reserved = n
}

// Reserve writes a Void element of ReserveSize(capacity) bytes at the sink's
// current position, so that the region is a structurally valid element even
// if WriteReserved is never reached -- mirroring mkv_start_seekhead, which
// voids its placeholder immediately rather than leaving a bare gap. The
// caller is expected to seek back to this position later and call
// WriteReserved over the same span.
func (b *Builder) Reserve(capacity int) error {
	b.SetCapacity(capacity)
	return b.w.PutVoid(ReserveSize(capacity))
}

// Len reports how many entries have been recorded so far.
func (b *Builder) Len() int {
	return len(b.entries)
}

// WriteReserved writes the SeekHead element and pads the remainder of a
// previously-reserved region (of length reservedLen, as returned by
// ReserveSize) with a single Void element so the region's total length is
// unchanged. It must be called with the sink positioned at the start of the
// reservation.
func (b *Builder) WriteReserved(reservedLen int64) error {
	start, err := b.w.Tell()
	if err != nil {
		return err
	}
	if err := b.write(); err != nil {
		return err
	}
	end, err := b.w.Tell()
	if err != nil {
		return err
	}
	remaining := reservedLen - (end - start)
	switch {
	case remaining < 0:
		return fmt.Errorf("seekhead: reservation of %d bytes overflowed by %d", reservedLen, -remaining)
	case remaining == 0:
		return nil
	case remaining == 1:
		// A single stray byte cannot carry a Void header (minimum 2 bytes);
		// leave it as unreadable padding, per the reference muxer's EBML
		// parsers treating unknown trailing bytes outside any element as
		// ignorable garbage.
		return b.w.Seek(end + 1)
	default:
		return b.w.PutVoid(remaining)
	}
}

// WriteAppended writes the SeekHead element with no reservation or trailing
// Void, used for the second, exactly-sized copy written after the Cues.
func (b *Builder) WriteAppended() error {
	return b.write()
}

func (b *Builder) write() error {
	tok, err := b.w.OpenMaster(ebml.IDSeekHead)
	if err != nil {
		return err
	}
	for _, e := range b.entries {
		seekTok, err := b.w.OpenMaster(ebml.IDSeek)
		if err != nil {
			return err
		}
		if err := b.w.PutBinary(ebml.IDSeekID, ebml.EncodeID(e.id)); err != nil {
			return err
		}
		if err := b.w.PutUint(ebml.IDSeekPosition, e.pos); err != nil {
			return err
		}
		if err := b.w.CloseMaster(seekTok); err != nil {
			return err
		}
	}
	return b.w.CloseMaster(tok)
}
