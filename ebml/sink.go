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

package ebml

import (
	"fmt"
	"io"
	"os"
)

// Sink is the byte-stream collaborator the primitive writer emits to. It
// must support seeking back to a previously seen offset so that masters and
// void reservations can be back-patched once their final content is known.
type Sink interface {
	Write(p []byte) (int, error)
	Tell() (int64, error)
	Seek(pos int64) error
}

// FileSink adapts an *os.File to Sink.
type FileSink struct {
	f *os.File
}

// NewFileSink wraps f. The caller keeps ownership of f and must close it.
func NewFileSink(f *os.File) *FileSink {
	return &FileSink{f: f}
}

func (s *FileSink) Write(p []byte) (int, error) {
	return s.f.Write(p)
}

func (s *FileSink) Tell() (int64, error) {
	return s.f.Seek(0, io.SeekCurrent)
}

func (s *FileSink) Seek(pos int64) error {
	_, err := s.f.Seek(pos, io.SeekStart)
	return err
}

// BufferSink is an in-memory Sink useful for tests and for muxing to
// memory before handing the result to another collaborator (e.g. kvsupload).
type BufferSink struct {
	data []byte
	pos  int64
}

// NewBufferSink returns an empty BufferSink.
func NewBufferSink() *BufferSink {
	return &BufferSink{}
}

func (s *BufferSink) Write(p []byte) (int, error) {
	end := s.pos + int64(len(p))
	if end > int64(len(s.data)) {
		grown := make([]byte, end)
		copy(grown, s.data)
		s.data = grown
	}
	copy(s.data[s.pos:end], p)
	s.pos = end
	return len(p), nil
}

func (s *BufferSink) Tell() (int64, error) {
	return s.pos, nil
}

func (s *BufferSink) Seek(pos int64) error {
	if pos < 0 {
		return fmt.Errorf("ebml: negative seek offset %d", pos)
	}
	s.pos = pos
	return nil
}

// Bytes returns the bytes written so far. The returned slice aliases the
// sink's internal buffer.
func (s *BufferSink) Bytes() []byte {
	return s.data
}
