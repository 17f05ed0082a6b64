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

package mux

import (
	"github.com/go-mkv/mkvmux/codec"
)

// Option configures a Muxer at construction time.
type Option func(*Muxer)

// WithLogger injects a logging collaborator. The default is a no-op logger.
func WithLogger(l LoggerIF) Option {
	return func(m *Muxer) { m.log = l }
}

// WithTitle sets the Segment's Info.Title.
func WithTitle(title string) Option {
	return func(m *Muxer) { m.title = title }
}

// WithIdentification overrides the MuxingApp/WritingApp strings. The
// default is the module's own name and version-less identifier, mirroring
// how the reference muxer stamps LIBAVFORMAT_IDENT.
func WithIdentification(app string) Option {
	return func(m *Muxer) { m.appIdent = app }
}

// WithXiphSplitter injects the Xiph header-splitter collaborator required
// to mux Vorbis or Theora streams.
func WithXiphSplitter(s codec.XiphSplitter) Option {
	return func(m *Muxer) { m.shaper.Xiph = s }
}

// WithHeaderBuilder injects the BITMAPINFOHEADER/WAVEFORMATEX collaborator
// required to mux non-native codecs.
func WithHeaderBuilder(h codec.HeaderBuilder) Option {
	return func(m *Muxer) { m.shaper.Headers = h }
}

// WithMainSeekHeadCapacity overrides the number of entries reserved in the
// main seek-head (default 10, per §4.F).
func WithMainSeekHeadCapacity(n int) Option {
	return func(m *Muxer) { m.mainSeekHeadCapacity = n }
}
