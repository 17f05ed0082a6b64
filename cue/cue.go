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

// Package cue builds the Matroska Cues element, the random-access index
// mapping presentation timestamps to cluster byte offsets.
package cue

import "github.com/go-mkv/mkvmux/ebml"

// Point is one random-access entry: a keyframe on trackNumber at time pts
// (in the Segment's timecode-scale units) located at clusterPos bytes from
// the start of the Segment payload.
type Point struct {
	PTS         uint64
	TrackNumber uint64
	ClusterPos  uint64
}

// Builder accumulates cue points and writes the finished Cues element.
// Points sharing the same PTS are grouped into a single CuePoint with
// multiple CueTrackPositions children, mirroring how a multi-track keyframe
// that lands on the same cluster boundary is indexed once per timestamp
// rather than once per track.
type Builder struct {
	w      *ebml.Writer
	points []Point
}

// New returns an empty Builder.
func New(w *ebml.Writer) *Builder {
	return &Builder{w: w}
}

// Add records a cue point. Callers append points in non-decreasing PTS
// order, matching the order keyframes are observed while muxing.
func (b *Builder) Add(p Point) {
	b.points = append(b.points, p)
}

// Len reports how many cue points have been recorded.
func (b *Builder) Len() int {
	return len(b.points)
}

// Write emits the Cues element: a CuePoint per distinct PTS, each carrying
// one CueTrackPositions child per track present at that PTS.
//
// Points are consumed in groups that share a PTS; the loop advances by the
// full group size j on each iteration (not j-1), which is the resolution
// this muxer uses for grouping adjacent same-timestamp entries -- see
// DESIGN.md.
func (b *Builder) Write() error {
	tok, err := b.w.OpenMaster(ebml.IDCues)
	if err != nil {
		return err
	}
	for i := 0; i < len(b.points); {
		j := 1
		for i+j < len(b.points) && b.points[i+j].PTS == b.points[i].PTS {
			j++
		}
		if err := b.writeCuePoint(b.points[i : i+j]); err != nil {
			return err
		}
		i += j
	}
	return b.w.CloseMaster(tok)
}

func (b *Builder) writeCuePoint(group []Point) error {
	tok, err := b.w.OpenMaster(ebml.IDCuePoint)
	if err != nil {
		return err
	}
	if err := b.w.PutUint(ebml.IDCueTime, group[0].PTS); err != nil {
		return err
	}
	for _, p := range group {
		posTok, err := b.w.OpenMaster(ebml.IDCueTrackPositions)
		if err != nil {
			return err
		}
		if err := b.w.PutUint(ebml.IDCueTrack, p.TrackNumber); err != nil {
			return err
		}
		if err := b.w.PutUint(ebml.IDCueClusterPosition, p.ClusterPos); err != nil {
			return err
		}
		if err := b.w.CloseMaster(posTok); err != nil {
			return err
		}
	}
	return b.w.CloseMaster(tok)
}
