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

// Package track writes Matroska TrackEntry elements from stream descriptors
// and their already-shaped codec-private data.
package track

import (
	"fmt"

	"github.com/go-mkv/mkvmux/codec"
	"github.com/go-mkv/mkvmux/ebml"
)

// Matroska TrackType values.
const (
	TrackTypeVideo    = 1
	TrackTypeAudio    = 2
	TrackTypeSubtitle = 17
)

// AspectRatio is a stream's sample aspect ratio, expressed as the
// unresolved numerator/denominator pair that DisplayWidth/DisplayHeight
// carry verbatim -- a legacy convention preserved for bit-compatibility
// rather than the scaled display resolution the field names suggest.
type AspectRatio struct {
	Num, Den uint64
}

// Descriptor is everything the track writer needs about one input stream
// beyond what the codec package already shapes. The stream's Kind is not
// repeated here: callers already hold it on the codec.Descriptor they just
// passed to the codec Shaper and pass it again explicitly to Write.
type Descriptor struct {
	Language     string // ISO-639; "und" is substituted if empty
	Width        uint64
	Height       uint64
	SampleAspect AspectRatio
	Channels     uint64
	SampleRate   float64 // nominal container sample rate; overridden by an AAC sniff, if any
	BitDepth     uint64  // 0 if not applicable
}

// Logger is the subset of logging this package needs; callers pass the
// muxer's configured logger through so unsupported-track-type warnings land
// in the same sink as the rest of the muxer's diagnostics.
type Logger interface {
	Warnf(format string, args ...interface{})
}

// Write emits a TrackEntry for stream index i (0-based) with the given
// kind, descriptor, and already-shaped codec data.
func Write(w *ebml.Writer, log Logger, i int, kind codec.Kind, d Descriptor, shaped codec.Shaped) error {
	tok, err := w.OpenMaster(ebml.IDTrackEntry)
	if err != nil {
		return err
	}
	num := uint64(i + 1)
	if err := w.PutUint(ebml.IDTrackNumber, num); err != nil {
		return err
	}
	if err := w.PutUint(ebml.IDTrackUID, num); err != nil {
		return err
	}
	if err := w.PutUint(ebml.IDFlagLacing, 0); err != nil {
		return err
	}
	lang := d.Language
	if lang == "" {
		lang = "und"
	}
	if err := w.PutString(ebml.IDLanguage, lang); err != nil {
		return err
	}
	if err := w.PutString(ebml.IDCodecID, shaped.CodecID); err != nil {
		return err
	}
	if len(shaped.CodecPrivate) > 0 {
		if err := w.PutBinary(ebml.IDCodecPrivate, shaped.CodecPrivate); err != nil {
			return err
		}
	}

	switch kind {
	case codec.KindVideo:
		if err := w.PutUint(ebml.IDTrackType, TrackTypeVideo); err != nil {
			return err
		}
		if err := writeVideo(w, d); err != nil {
			return err
		}
	case codec.KindAudio:
		if err := w.PutUint(ebml.IDTrackType, TrackTypeAudio); err != nil {
			return err
		}
		if err := writeAudio(w, d, shaped); err != nil {
			return err
		}
	case codec.KindSubtitle:
		if err := w.PutUint(ebml.IDTrackType, TrackTypeSubtitle); err != nil {
			return err
		}
	default:
		log.Warnf("track %d: unsupported track type %v, emitting identity and codec fields only", i, kind)
	}

	return w.CloseMaster(tok)
}

func writeVideo(w *ebml.Writer, d Descriptor) error {
	tok, err := w.OpenMaster(ebml.IDVideo)
	if err != nil {
		return err
	}
	if err := w.PutUint(ebml.IDPixelWidth, d.Width); err != nil {
		return err
	}
	if err := w.PutUint(ebml.IDPixelHeight, d.Height); err != nil {
		return err
	}
	if d.SampleAspect.Num != 0 {
		if err := w.PutUint(ebml.IDDisplayWidth, d.SampleAspect.Num); err != nil {
			return err
		}
		if err := w.PutUint(ebml.IDDisplayHeight, d.SampleAspect.Den); err != nil {
			return err
		}
	}
	return w.CloseMaster(tok)
}

func writeAudio(w *ebml.Writer, d Descriptor, shaped codec.Shaped) error {
	tok, err := w.OpenMaster(ebml.IDAudio)
	if err != nil {
		return err
	}
	if err := w.PutUint(ebml.IDChannels, d.Channels); err != nil {
		return err
	}
	freq := d.SampleRate
	if shaped.SamplingFrequency != 0 {
		freq = shaped.SamplingFrequency
	}
	if err := w.PutFloat(ebml.IDSamplingFrequency, freq); err != nil {
		return err
	}
	if shaped.OutputSamplingFrequency != 0 {
		if err := w.PutFloat(ebml.IDOutputSamplingFrequency, shaped.OutputSamplingFrequency); err != nil {
			return err
		}
	}
	if d.BitDepth != 0 {
		if err := w.PutUint(ebml.IDBitDepth, d.BitDepth); err != nil {
			return err
		}
	}
	return w.CloseMaster(tok)
}

// ErrTooManyStreams is returned if a stream index would overflow the
// single-byte VINT track-number encoding the block writer assumes.
var ErrTooManyStreams = fmt.Errorf("track: more than 126 streams is not supported")
