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

// Package mux orchestrates a Matroska Segment: the header phase, the
// streaming packet-writing phase, and the trailer phase that back-patches
// everything the header reserved space for.
package mux

import (
	"crypto/md5"
	"fmt"
	"hash"

	"github.com/go-mkv/mkvmux/codec"
	"github.com/go-mkv/mkvmux/cue"
	"github.com/go-mkv/mkvmux/ebml"
	"github.com/go-mkv/mkvmux/seekhead"
	"github.com/go-mkv/mkvmux/track"
)

// defaultMainSeekHeadCapacity is the number of entries reserved in the main
// seek-head: Info, Tracks, Cues, and the cluster seek-head, with headroom for
// future top-level children. Clusters are indexed in the cluster seek-head.
const defaultMainSeekHeadCapacity = 10

// defaultIdent is the MuxingApp/WritingApp string stamped on non-bit-exact
// output, mirroring the reference muxer's LIBAVFORMAT_IDENT stamp.
const defaultIdent = "mkvmux"

const clusterRolloverBytes = 5 * (1 << 20)
const clusterRolloverMillis = 5000

// FlagKey marks a packet as a keyframe, the sole bit the packet-record flag
// set carries.
const FlagKey byte = 0x01

// StreamDescriptor is a stream's full identity at header-writing time: its
// codec (consumed by the codec package) and its track metadata (consumed by
// the track package). BitExact is only meaningful on stream 0; it governs
// whether the whole segment suppresses MuxingApp/WritingApp/SegmentUID.
type StreamDescriptor struct {
	Codec    codec.Descriptor
	Track    track.Descriptor
	BitExact bool
}

// Packet is one elementary-stream access unit.
type Packet struct {
	StreamIndex int
	PTS         int64
	DTS         int64 // accepted for logging only
	Duration    int32
	Flags       byte
	Data        []byte
}

// Muxer writes one Matroska Segment to a Sink. A Muxer instance owns all of
// its state; nothing is shared across instances.
type Muxer struct {
	w   *ebml.Writer
	log LoggerIF

	title    string
	appIdent string
	format   Format

	shaper *codec.Shaper

	streams  []StreamDescriptor
	shaped   []codec.Shaped
	bitExact bool

	mainSeekHeadCapacity int
	mainSeekHead         *seekhead.Builder
	mainSeekHeadStart    int64
	mainSeekHeadReserved int64
	clusterSeekHead      *seekhead.Builder

	cues *cue.Builder

	segmentPayloadStart int64
	segmentUIDOffset    int64
	durationOffset      int64

	md5 hash.Hash

	clusterTok        ebml.Token
	clusterOpenOffset int64
	clusterPTS        int64

	duration int64
	closed   bool
}

// New writes the EBML header, opens the Segment, and runs the header phase
// (Phase H): main and cluster seek-heads, Info, Tracks, and the first
// Cluster. Streams whose codec kind is none of video, audio, or subtitle
// are rejected up front, per the muxer's redesigned handling of that case
// (§9): rather than closing a non-conformant trackless TrackEntry, New
// fails before any bytes are written.
func New(sink ebml.Sink, format Format, streams []StreamDescriptor, opts ...Option) (*Muxer, error) {
	if len(streams) > 126 {
		return nil, track.ErrTooManyStreams
	}
	for i, s := range streams {
		switch s.Codec.Kind {
		case codec.KindVideo, codec.KindAudio, codec.KindSubtitle:
		default:
			return nil, fmt.Errorf("mux: stream %d: %w", i, ErrRejectedTrackType)
		}
		if s.Codec.Kind == codec.KindVideo && !format.AllowVideo {
			return nil, fmt.Errorf("mux: stream %d: %w: format %q does not carry video tracks", i, ErrRejectedTrackType, format.Name)
		}
	}

	m := &Muxer{
		w:                    ebml.NewWriter(sink),
		log:                  &noopLogger{},
		appIdent:             defaultIdent,
		format:               format,
		shaper:               &codec.Shaper{},
		streams:              streams,
		mainSeekHeadCapacity: defaultMainSeekHeadCapacity,
		md5:                  md5.New(),
	}
	for _, opt := range opts {
		opt(m)
	}
	if len(streams) > 0 {
		m.bitExact = streams[0].BitExact
	}

	if err := m.writeEBMLHeader(); err != nil {
		return nil, err
	}
	if err := m.w.PutID(ebml.IDSegment); err != nil {
		return nil, err
	}
	if err := m.w.PutEBMLSizeUnknown(8); err != nil {
		return nil, err
	}
	var err error
	m.segmentPayloadStart, err = m.w.Tell()
	if err != nil {
		return nil, err
	}

	m.mainSeekHead = seekhead.New(m.w)
	m.mainSeekHeadReserved = seekhead.ReserveSize(m.mainSeekHeadCapacity)
	m.mainSeekHeadStart = m.segmentPayloadStart
	if err := m.mainSeekHead.Reserve(m.mainSeekHeadCapacity); err != nil {
		return nil, err
	}

	m.clusterSeekHead = seekhead.New(m.w)

	if err := m.indexMain(ebml.IDInfo); err != nil {
		return nil, err
	}
	if err := m.writeInfo(); err != nil {
		return nil, err
	}
	if err := m.indexMain(ebml.IDTracks); err != nil {
		return nil, err
	}
	if err := m.writeTracks(); err != nil {
		return nil, err
	}

	m.cues = cue.New(m.w)

	pos, err := m.w.Tell()
	if err != nil {
		return nil, err
	}
	m.clusterSeekHead.AddEntry(ebml.IDCluster, uint64(pos-m.segmentPayloadStart))
	m.clusterOpenOffset = pos
	m.clusterTok, err = m.w.OpenMaster(ebml.IDCluster)
	if err != nil {
		return nil, err
	}
	if err := m.w.PutUint(ebml.IDClusterTimecode, 0); err != nil {
		return nil, err
	}

	return m, nil
}

func (m *Muxer) indexMain(id uint32) error {
	pos, err := m.w.Tell()
	if err != nil {
		return err
	}
	return m.mainSeekHead.AddEntry(id, uint64(pos-m.segmentPayloadStart))
}

func (m *Muxer) writeEBMLHeader() error {
	tok, err := m.w.OpenMaster(ebml.IDEBML)
	if err != nil {
		return err
	}
	if err := m.w.PutUint(ebml.IDEBMLVersion, 1); err != nil {
		return err
	}
	if err := m.w.PutUint(ebml.IDEBMLReadVersion, 1); err != nil {
		return err
	}
	if err := m.w.PutUint(ebml.IDEBMLMaxIDLength, 4); err != nil {
		return err
	}
	if err := m.w.PutUint(ebml.IDEBMLMaxSizeLength, 8); err != nil {
		return err
	}
	if err := m.w.PutString(ebml.IDDocType, "matroska"); err != nil {
		return err
	}
	if err := m.w.PutUint(ebml.IDDocTypeVersion, 2); err != nil {
		return err
	}
	if err := m.w.PutUint(ebml.IDDocTypeReadVersion, 2); err != nil {
		return err
	}
	return m.w.CloseMaster(tok)
}

func (m *Muxer) writeInfo() error {
	tok, err := m.w.OpenMaster(ebml.IDInfo)
	if err != nil {
		return err
	}
	if err := m.w.PutUint(ebml.IDTimecodeScale, 1_000_000); err != nil {
		return err
	}
	if m.title != "" {
		if err := m.w.PutString(ebml.IDTitle, m.title); err != nil {
			return err
		}
	}
	if !m.bitExact {
		if err := m.w.PutString(ebml.IDMuxingApp, m.appIdent); err != nil {
			return err
		}
		if err := m.w.PutString(ebml.IDWritingApp, m.appIdent); err != nil {
			return err
		}
		m.segmentUIDOffset, err = m.w.Tell()
		if err != nil {
			return err
		}
		if err := m.w.PutVoid(19); err != nil {
			return err
		}
	}
	m.durationOffset, err = m.w.Tell()
	if err != nil {
		return err
	}
	if err := m.w.PutVoid(11); err != nil {
		return err
	}
	return m.w.CloseMaster(tok)
}

func (m *Muxer) writeTracks() error {
	// Shaping is a pure function of a stream's codec.Descriptor: it writes
	// nothing to the sink, so failures across independent streams can be
	// collected in one pass instead of aborting on the first one, per
	// spec.md §7's "codec-private shaping failure" error kind. Emitting the
	// TrackEntry elements themselves is sink-stateful and cannot be
	// similarly batched, so that loop still returns on its first error.
	m.shaped = make([]codec.Shaped, len(m.streams))
	var shapeErrs multiError
	for i, s := range m.streams {
		shaped, err := m.shaper.Shape(s.Codec)
		if err != nil {
			shapeErrs.Add(fmt.Errorf("mux: stream %d: %w", i, err))
			continue
		}
		m.shaped[i] = shaped
	}
	if len(shapeErrs) > 0 {
		return shapeErrs
	}

	tok, err := m.w.OpenMaster(ebml.IDTracks)
	if err != nil {
		return err
	}
	for i, s := range m.streams {
		if err := track.Write(m.w, m.log, i, s.Codec.Kind, s.Track, m.shaped[i]); err != nil {
			return fmt.Errorf("mux: stream %d: %w", i, err)
		}
	}
	return m.w.CloseMaster(tok)
}
