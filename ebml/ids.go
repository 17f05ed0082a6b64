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

// Element IDs defined by the EBML and Matroska v2 specifications. Only the
// ids this muxer emits are listed.
const (
	IDEBML               uint32 = 0x1A45DFA3
	IDEBMLVersion        uint32 = 0x4286
	IDEBMLReadVersion    uint32 = 0x42F7
	IDEBMLMaxIDLength    uint32 = 0x42F2
	IDEBMLMaxSizeLength  uint32 = 0x42F3
	IDDocType            uint32 = 0x4282
	IDDocTypeVersion     uint32 = 0x4287
	IDDocTypeReadVersion uint32 = 0x4285

	IDVoid uint32 = 0xEC

	IDSegment uint32 = 0x18538067

	IDSeekHead     uint32 = 0x114D9B74
	IDSeek         uint32 = 0x4DBB
	IDSeekID       uint32 = 0x53AB
	IDSeekPosition uint32 = 0x53AC

	IDInfo          uint32 = 0x1549A966
	IDTimecodeScale uint32 = 0x2AD7B1
	IDDuration      uint32 = 0x4489
	IDSegmentUID    uint32 = 0x73A4
	IDTitle         uint32 = 0x7BA9
	IDMuxingApp     uint32 = 0x4D80
	IDWritingApp    uint32 = 0x5741

	IDTracks                  uint32 = 0x1654AE6B
	IDTrackEntry              uint32 = 0xAE
	IDTrackNumber             uint32 = 0xD7
	IDTrackUID                uint32 = 0x73C5
	IDTrackType               uint32 = 0x83
	IDFlagLacing              uint32 = 0x9C
	IDLanguage                uint32 = 0x22B59C
	IDCodecID                 uint32 = 0x86
	IDCodecPrivate            uint32 = 0x63A2
	IDVideo                   uint32 = 0xE0
	IDPixelWidth              uint32 = 0xB0
	IDPixelHeight             uint32 = 0xBA
	IDDisplayWidth            uint32 = 0x54B0
	IDDisplayHeight           uint32 = 0x54BA
	IDAudio                   uint32 = 0xE1
	IDChannels                uint32 = 0x9F
	IDSamplingFrequency       uint32 = 0xB5
	IDOutputSamplingFrequency uint32 = 0x78B5
	IDBitDepth                uint32 = 0x6264

	IDCluster         uint32 = 0x1F43B675
	IDClusterTimecode uint32 = 0xE7
	IDSimpleBlock     uint32 = 0xA3
	IDBlockGroup      uint32 = 0xA0
	IDBlock           uint32 = 0xA1
	IDBlockDuration   uint32 = 0x9B

	IDCues               uint32 = 0x1C53BB6B
	IDCuePoint           uint32 = 0xBB
	IDCueTime            uint32 = 0xB3
	IDCueTrackPositions  uint32 = 0xB7
	IDCueTrack           uint32 = 0xF7
	IDCueClusterPosition uint32 = 0xF1
)
