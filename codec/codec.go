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

// Package codec shapes per-codec private data (CodecPrivate blobs and
// CodecID strings) for the track entries a muxer writes, falling back to
// BITMAPINFOHEADER/WAVEFORMATEX wrapping when a codec has no native
// Matroska representation.
package codec

import "fmt"

// Kind is the coarse media type of a stream, used to pick between the video
// and audio non-native fallback branches.
type Kind int

// Stream kinds.
const (
	KindVideo Kind = iota
	KindAudio
	KindSubtitle
)

// Descriptor describes one elementary stream's codec as reported by the
// packet producer: a short codec name (e.g. "aac", "vorbis", "h264"), its
// out-of-band extradata, and an optional four-character-code for non-native
// video.
type Descriptor struct {
	Kind      Kind
	Name      string
	Extradata []byte
	FourCC    string
}

// Shaped is the codec-private material a TrackEntry writer embeds.
type Shaped struct {
	CodecID                 string
	CodecPrivate            []byte
	SamplingFrequency       float64 // 0 if not applicable
	OutputSamplingFrequency float64 // 0 if not signaled (no SBR)
}

// HeaderBuilder produces the fallback CodecPrivate blob for a codec with no
// native Matroska CodecID: a BITMAPINFOHEADER for video or a WAVEFORMATEX
// for audio. Implementations are out-of-scope collaborators this package
// only calls through the interface.
type HeaderBuilder interface {
	BuildBitmapInfoHeader(d Descriptor, fourCC [4]byte) ([]byte, error)
	BuildWaveFormatEx(d Descriptor, tag uint16) ([]byte, error)
}

// XiphSplitter splits a concatenated Xiph-style header blob (as produced by
// libvorbis/libtheora encoders) into its constituent header packets. An
// out-of-scope collaborator.
type XiphSplitter interface {
	Split(extradata []byte, firstLen int) (h0, h1, h2 []byte, err error)
}

// nativeCodecIDs maps a short codec name to its native Matroska CodecID, for
// the codecs Matroska represents natively without a BITMAPINFOHEADER or
// WAVEFORMATEX wrapper.
var nativeCodecIDs = map[string]string{
	"h264":      "V_MPEG4/ISO/AVC",
	"hevc":      "V_MPEGH/ISO/HEVC",
	"vp8":       "V_VP8",
	"vp9":       "V_VP9",
	"av1":       "V_AV1",
	"theora":    "V_THEORA",
	"mpeg4":     "V_MPEG4/ISO/ASP",
	"aac":       "A_AAC",
	"vorbis":    "A_VORBIS",
	"opus":      "A_OPUS",
	"flac":      "A_FLAC",
	"ac3":       "A_AC3",
	"eac3":      "A_EAC3",
	"mp3":       "A_MPEG/L3",
	"pcm_s16le": "A_PCM/INT/LIT",
	"pcm_s24le": "A_PCM/INT/LIT",
	"pcm_s32le": "A_PCM/INT/LIT",
	"pcm_s24be": "A_PCM/INT/BIG",
	"pcm_s32be": "A_PCM/INT/BIG",
	"pcm_f32le": "A_PCM/FLOAT/IEEE",
	"pcm_f64le": "A_PCM/FLOAT/IEEE",
	"subrip":    "S_TEXT/UTF8",
	"ass":       "S_TEXT/ASS",
	"webvtt":    "S_TEXT/WEBVTT",
}

// Shaper dispatches a Descriptor to the right shaping strategy.
type Shaper struct {
	Xiph    XiphSplitter
	Headers HeaderBuilder
}

// New returns a Shaper using the given out-of-scope collaborators.
func New(xiph XiphSplitter, headers HeaderBuilder) *Shaper {
	return &Shaper{Xiph: xiph, Headers: headers}
}

// Shape produces the CodecID/CodecPrivate (and, for AAC, sampling-frequency
// fields) for d, per §4.D: Xiph-laced native codecs, native FLAC, generic
// native-with-extradata passthrough, and non-native BITMAPINFOHEADER/
// WAVEFORMATEX fallback.
func (s *Shaper) Shape(d Descriptor) (Shaped, error) {
	switch d.Name {
	case "vorbis":
		priv, err := s.shapeXiph(d, 30)
		if err != nil {
			return Shaped{}, err
		}
		return Shaped{CodecID: nativeCodecIDs["vorbis"], CodecPrivate: priv}, nil
	case "theora":
		priv, err := s.shapeXiph(d, 42)
		if err != nil {
			return Shaped{}, err
		}
		return Shaped{CodecID: nativeCodecIDs["theora"], CodecPrivate: priv}, nil
	case "flac":
		priv, err := shapeFLAC(d.Extradata)
		if err != nil {
			return Shaped{}, err
		}
		return Shaped{CodecID: nativeCodecIDs["flac"], CodecPrivate: priv}, nil
	case "aac":
		shaped := Shaped{CodecID: nativeCodecIDs["aac"], CodecPrivate: d.Extradata}
		sniffAACSampleRate(d.Extradata, &shaped)
		return shaped, nil
	}
	if id, ok := nativeCodecIDs[d.Name]; ok {
		return Shaped{CodecID: id, CodecPrivate: d.Extradata}, nil
	}
	return s.shapeNonNative(d)
}

func (s *Shaper) shapeXiph(d Descriptor, firstLen int) ([]byte, error) {
	if s.Xiph == nil {
		return nil, fmt.Errorf("codec: %s requires a Xiph header splitter collaborator", d.Name)
	}
	h0, h1, h2, err := s.Xiph.Split(d.Extradata, firstLen)
	if err != nil {
		return nil, fmt.Errorf("codec: splitting %s xiph headers: %w", d.Name, err)
	}
	var out []byte
	out = append(out, 0x02)
	out = append(out, xiphLace(len(h0))...)
	out = append(out, xiphLace(len(h1))...)
	out = append(out, h0...)
	out = append(out, h1...)
	out = append(out, h2...)
	return out, nil
}

// xiphLace duplicates ebml.XiphLace's encoding locally so this package does
// not need to import the ebml package merely for a byte-counting helper.
func xiphLace(n int) []byte {
	var b []byte
	for n >= 255 {
		b = append(b, 0xFF)
		n -= 255
	}
	return append(b, byte(n))
}

func (s *Shaper) shapeNonNative(d Descriptor) (Shaped, error) {
	switch d.Kind {
	case KindVideo:
		fourCC := d.FourCC
		if fourCC == "" {
			tag, ok := bmpFourCCByName[d.Name]
			if !ok {
				return Shaped{}, fmt.Errorf("codec: %w: no BMP FourCC tag for %q", ErrUnsupportedCodec, d.Name)
			}
			fourCC = tag
		}
		if s.Headers == nil {
			return Shaped{}, fmt.Errorf("codec: %s has no native CodecID and no header-builder collaborator is configured", d.Name)
		}
		var cc [4]byte
		copy(cc[:], fourCC)
		priv, err := s.Headers.BuildBitmapInfoHeader(d, cc)
		if err != nil {
			return Shaped{}, fmt.Errorf("codec: building BITMAPINFOHEADER for %q: %w", d.Name, err)
		}
		return Shaped{CodecID: "V_MS/VFW/FOURCC", CodecPrivate: priv}, nil
	case KindAudio:
		tag, ok := wavTagByName[d.Name]
		if !ok {
			return Shaped{}, fmt.Errorf("codec: %w: no WAVE format tag for %q", ErrUnsupportedCodec, d.Name)
		}
		if s.Headers == nil {
			return Shaped{}, fmt.Errorf("codec: %s has no native CodecID and no header-builder collaborator is configured", d.Name)
		}
		priv, err := s.Headers.BuildWaveFormatEx(d, tag)
		if err != nil {
			return Shaped{}, fmt.Errorf("codec: building WAVEFORMATEX for %q: %w", d.Name, err)
		}
		return Shaped{CodecID: "A_MS/ACM", CodecPrivate: priv}, nil
	default:
		return Shaped{}, fmt.Errorf("codec: %w: %q has no native or fallback representation for subtitle tracks", ErrUnsupportedCodec, d.Name)
	}
}
