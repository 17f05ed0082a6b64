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

// Package ebml implements the primitive EBML encoding used by the Matroska
// muxer: variable-length identifiers and sizes, fixed-width scalar elements,
// void padding, and back-patchable master elements.
package ebml

import (
	"encoding/binary"
	"fmt"
	"math"
)

// Writer emits EBML primitives onto a Sink.
type Writer struct {
	sink Sink
}

// NewWriter wraps sink.
func NewWriter(sink Sink) *Writer {
	return &Writer{sink: sink}
}

func (w *Writer) write(p []byte) error {
	_, err := w.sink.Write(p)
	return err
}

// Tell returns the sink's current offset.
func (w *Writer) Tell() (int64, error) {
	return w.sink.Tell()
}

// Seek repositions the sink.
func (w *Writer) Seek(pos int64) error {
	return w.sink.Seek(pos)
}

// idSize returns the canonical byte length of an EBML identifier: L =
// floor(log2(id+1)/7) + 1, which for the ids this muxer uses reduces to the
// natural byte-width of the (already marker-inclusive) numeric value.
func idSize(id uint32) int {
	switch {
	case id <= 0xFF:
		return 1
	case id <= 0xFFFF:
		return 2
	case id <= 0xFFFFFF:
		return 3
	default:
		return 4
	}
}

// EncodeID returns the raw big-endian bytes of id, at its canonical width.
// Used by the seek-head builder, whose SeekID payload is these bytes.
func EncodeID(id uint32) []byte {
	n := idSize(id)
	buf := make([]byte, n)
	for i := 0; i < n; i++ {
		buf[n-1-i] = byte(id >> uint(8*i))
	}
	return buf
}

// PutID emits id.
func (w *Writer) PutID(id uint32) error {
	return w.write(EncodeID(id))
}

// ebmlSizeBytes computes the smallest B such that S+1 <= 2^(7B).
func ebmlSizeBytes(size uint64) int {
	b := 1
	for size+1 > uint64(1)<<uint(7*b) {
		b++
	}
	return b
}

func (w *Writer) putSizeRaw(x uint64, b int) error {
	buf := make([]byte, b)
	for i := 0; i < b; i++ {
		buf[b-1-i] = byte(x >> uint(8*i))
	}
	return w.write(buf)
}

// PutSize emits the VINT encoding of size in max(minBytes, ebmlSizeBytes(size))
// bytes. Sizes at or beyond 2^56-1 are emitted as a one-byte "unknown size"
// regardless of minBytes.
func (w *Writer) PutSize(size uint64, minBytes int) error {
	if size >= (uint64(1)<<56)-1 {
		return w.write([]byte{0xFF})
	}
	b := ebmlSizeBytes(size)
	if minBytes > b {
		b = minBytes
	}
	x := size | (uint64(1) << uint(7*b))
	return w.putSizeRaw(x, b)
}

// PutEBMLSizeUnknown emits the distinguished "unknown size" VINT in exactly
// nbytes bytes (all payload bits set). Exposed separately from the internal
// master-open reservation because the outer Segment element uses it directly
// and is never back-patched.
func (w *Writer) PutEBMLSizeUnknown(nbytes int) error {
	size := (uint64(1) << uint(7*nbytes)) - 1
	x := size | (uint64(1) << uint(7*nbytes))
	return w.putSizeRaw(x, nbytes)
}

func minUintBytes(val uint64) int {
	n := 1
	for v := val >> 8; v != 0; v >>= 8 {
		n++
	}
	return n
}

// PutUint emits id, then val in the smallest big-endian byte width >= 1 that
// fits it.
func (w *Writer) PutUint(id uint32, val uint64) error {
	if err := w.PutID(id); err != nil {
		return err
	}
	n := minUintBytes(val)
	if err := w.PutSize(uint64(n), 0); err != nil {
		return err
	}
	buf := make([]byte, n)
	for i := 0; i < n; i++ {
		buf[n-1-i] = byte(val >> uint(8*i))
	}
	return w.write(buf)
}

// PutFloat emits id, then val as an 8-byte IEEE-754 big-endian double.
func (w *Writer) PutFloat(id uint32, val float64) error {
	if err := w.PutID(id); err != nil {
		return err
	}
	if err := w.PutSize(8, 0); err != nil {
		return err
	}
	buf := make([]byte, 8)
	binary.BigEndian.PutUint64(buf, math.Float64bits(val))
	return w.write(buf)
}

// PutBinary emits id, then data verbatim.
func (w *Writer) PutBinary(id uint32, data []byte) error {
	if err := w.PutID(id); err != nil {
		return err
	}
	if err := w.PutSize(uint64(len(data)), 0); err != nil {
		return err
	}
	return w.write(data)
}

// PutString emits id, then str's bytes verbatim (no terminator).
func (w *Writer) PutString(id uint32, str string) error {
	return w.PutBinary(id, []byte(str))
}

// PutVoid emits a Void element occupying exactly totalLen bytes, including
// its own id and size field. The region beyond the size field is left
// untouched: the cursor is moved to start+totalLen without writing anything.
//
// Matches the reference muxer's put_ebml_void byte for byte, including its
// size encoding: for totalLen < 10 the one-byte size field carries the value
// totalLen-1 (not totalLen-2, which a naive reading of "1 id byte + 1 size
// byte + payload" would suggest) -- see DESIGN.md.
func (w *Writer) PutVoid(totalLen int64) error {
	if totalLen < 2 {
		return fmt.Errorf("ebml: void length must be >= 2, got %d", totalLen)
	}
	start, err := w.sink.Tell()
	if err != nil {
		return err
	}
	if err := w.PutID(IDVoid); err != nil {
		return err
	}
	if totalLen < 10 {
		if err := w.PutSize(uint64(totalLen-1), 0); err != nil {
			return err
		}
	} else {
		if err := w.PutSize(uint64(totalLen-9), 8); err != nil {
			return err
		}
	}
	return w.sink.Seek(start + totalLen)
}

// Token identifies an in-flight master element opened with OpenMaster.
type Token struct {
	payloadStart int64
}

// OpenMaster emits id followed by an 8-byte "unknown size" reservation and
// returns a Token for the matching CloseMaster call. Every master element
// this muxer emits uses this deferred strategy uniformly.
func (w *Writer) OpenMaster(id uint32) (Token, error) {
	if err := w.PutID(id); err != nil {
		return Token{}, err
	}
	pos, err := w.sink.Tell()
	if err != nil {
		return Token{}, err
	}
	if err := w.PutEBMLSizeUnknown(8); err != nil {
		return Token{}, err
	}
	return Token{payloadStart: pos + 8}, nil
}

// CloseMaster seeks back to tok's reserved size field, writes the real
// 8-byte payload size, and restores the cursor to the end of the payload.
func (w *Writer) CloseMaster(tok Token) error {
	end, err := w.sink.Tell()
	if err != nil {
		return err
	}
	if err := w.sink.Seek(tok.payloadStart - 8); err != nil {
		return err
	}
	size := uint64(end - tok.payloadStart)
	x := size | (uint64(1) << 56)
	if err := w.putSizeRaw(x, 8); err != nil {
		return err
	}
	return w.sink.Seek(end)
}

// XiphLace encodes n in Xiph lacing form: floor(n/255) bytes of 0xFF
// followed by one byte n mod 255.
func XiphLace(n int) []byte {
	var b []byte
	for n >= 255 {
		b = append(b, 0xFF)
		n -= 255
	}
	return append(b, byte(n))
}
