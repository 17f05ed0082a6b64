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

import "github.com/go-mkv/mkvmux/ebml"

// WriteTrailer runs the trailer phase (Phase T): closes the current
// cluster, finalizes the Cues and cluster SeekHead, indexes both into the
// main SeekHead and writes it into its reservation, and back-patches
// Duration and (unless bit-exact output was requested) SegmentUID. The
// Segment master is never closed; it keeps its unknown-size marker.
func (m *Muxer) WriteTrailer() error {
	if m.closed {
		return ErrSegmentClosed
	}
	if err := m.w.CloseMaster(m.clusterTok); err != nil {
		return err
	}

	cuesPos, err := m.w.Tell()
	if err != nil {
		return err
	}
	if err := m.cues.Write(); err != nil {
		return err
	}

	clusterSeekHeadPos, err := m.w.Tell()
	if err != nil {
		return err
	}
	if err := m.clusterSeekHead.WriteAppended(); err != nil {
		return err
	}

	if err := m.mainSeekHead.AddEntry(ebml.IDCues, uint64(cuesPos-m.segmentPayloadStart)); err != nil {
		return err
	}
	if err := m.mainSeekHead.AddEntry(ebml.IDSeekHead, uint64(clusterSeekHeadPos-m.segmentPayloadStart)); err != nil {
		return err
	}

	end, err := m.w.Tell()
	if err != nil {
		return err
	}
	if err := m.w.Seek(m.mainSeekHeadStart); err != nil {
		return err
	}
	if err := m.mainSeekHead.WriteReserved(m.mainSeekHeadReserved); err != nil {
		return err
	}

	if err := m.w.Seek(m.durationOffset); err != nil {
		return err
	}
	if err := m.w.PutFloat(ebml.IDDuration, float64(m.duration)); err != nil {
		return err
	}

	if !m.bitExact {
		sum := m.md5.Sum(nil)
		if err := m.w.Seek(m.segmentUIDOffset); err != nil {
			return err
		}
		if err := m.w.PutBinary(ebml.IDSegmentUID, sum); err != nil {
			return err
		}
	}

	if err := m.w.Seek(end); err != nil {
		return err
	}
	m.closed = true
	return nil
}
