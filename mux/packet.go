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
	"fmt"

	"github.com/go-mkv/mkvmux/codec"
	"github.com/go-mkv/mkvmux/cue"
	"github.com/go-mkv/mkvmux/ebml"
)

// WritePacket runs the streaming phase (Phase P) for one packet: testing
// for cluster rollover, emitting the block, and recording a cue entry for
// video keyframes.
func (m *Muxer) WritePacket(pkt Packet) error {
	if m.closed {
		return ErrSegmentClosed
	}
	if pkt.StreamIndex < 0 || pkt.StreamIndex >= len(m.streams) {
		return fmt.Errorf("mux: packet references stream index %d, have %d streams", pkt.StreamIndex, len(m.streams))
	}

	pos, err := m.w.Tell()
	if err != nil {
		return err
	}
	// The file-size half of this test is a strict ">" on the position before
	// this packet is written: the first packet that arrives once the cluster
	// already holds more than 5 MiB forces a split. The PTS half
	// uses ">=" so that a packet landing exactly on the 5-second boundary
	// starts the next cluster (see DESIGN.md on the scenario this matches).
	if pos > m.clusterOpenOffset+clusterRolloverBytes || pkt.PTS >= m.clusterPTS+clusterRolloverMillis {
		if err := m.rollCluster(pkt); err != nil {
			return err
		}
	}

	kind := m.streams[pkt.StreamIndex].Codec.Kind
	if err := m.writeBlock(pkt, kind); err != nil {
		return err
	}

	if kind == codec.KindVideo && pkt.Flags&FlagKey != 0 {
		m.cues.Add(cue.Point{
			PTS:         uint64(pkt.PTS),
			TrackNumber: uint64(pkt.StreamIndex + 1),
			ClusterPos:  uint64(m.clusterOpenOffset - m.segmentPayloadStart),
		})
	}

	m.duration = pkt.PTS + int64(pkt.Duration)
	return nil
}

func (m *Muxer) rollCluster(pkt Packet) error {
	if err := m.w.CloseMaster(m.clusterTok); err != nil {
		return err
	}
	pos, err := m.w.Tell()
	if err != nil {
		return err
	}
	m.clusterSeekHead.AddEntry(ebml.IDCluster, uint64(pos-m.segmentPayloadStart))
	m.clusterTok, err = m.w.OpenMaster(ebml.IDCluster)
	if err != nil {
		return err
	}
	if err := m.w.PutUint(ebml.IDClusterTimecode, uint64(pkt.PTS)); err != nil {
		return err
	}
	m.clusterOpenOffset = pos
	m.clusterPTS = pkt.PTS

	if !m.bitExact {
		n := len(pkt.Data)
		if n > 200 {
			n = 200
		}
		if _, err := m.md5.Write(pkt.Data[:n]); err != nil {
			return err
		}
	}
	return nil
}

func (m *Muxer) writeBlock(pkt Packet, kind codec.Kind) error {
	delta := pkt.PTS - m.clusterPTS
	if delta < -32768 || delta > 32767 {
		return fmt.Errorf("mux: packet pts %d is outside the 16-bit intra-cluster timecode range of cluster at %d", pkt.PTS, m.clusterPTS)
	}

	var flagsByte byte
	switch {
	case kind == codec.KindVideo && pkt.Flags&FlagKey != 0:
		flagsByte = 0x80
	case kind == codec.KindSubtitle:
		flagsByte = pkt.Flags &^ 0x80
	default:
		flagsByte = pkt.Flags
	}

	payload := make([]byte, 0, 4+len(pkt.Data))
	payload = append(payload, 0x80|byte(pkt.StreamIndex+1))
	payload = append(payload, byte(delta>>8), byte(delta))
	payload = append(payload, flagsByte)
	payload = append(payload, pkt.Data...)

	if kind == codec.KindSubtitle {
		tok, err := m.w.OpenMaster(ebml.IDBlockGroup)
		if err != nil {
			return err
		}
		if err := m.w.PutBinary(ebml.IDBlock, payload); err != nil {
			return err
		}
		if err := m.w.PutUint(ebml.IDBlockDuration, uint64(pkt.Duration)); err != nil {
			return err
		}
		return m.w.CloseMaster(tok)
	}
	return m.w.PutBinary(ebml.IDSimpleBlock, payload)
}
