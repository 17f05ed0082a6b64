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

// Command mkvmux reads a sequence of length-prefixed H.264 Annex-B access
// units from stdin and writes a single-video-track Matroska file.
//
// Frame format: a big-endian uint32 byte length followed by that many
// bytes of frame data, repeated until EOF. Every frame is treated as a
// keyframe at 30fps; this tool exists to exercise the mux package end to
// end, not to demux a real container.
package main

import (
	"encoding/binary"
	"flag"
	"io"
	"log"
	"os"

	"github.com/go-mkv/mkvmux/codec"
	"github.com/go-mkv/mkvmux/ebml"
	"github.com/go-mkv/mkvmux/mux"
	"github.com/go-mkv/mkvmux/track"
)

func main() {
	log.SetFlags(log.Lmicroseconds)

	out := flag.String("o", "out.mkv", "output file path")
	width := flag.Uint64("width", 1280, "frame width in pixels")
	height := flag.Uint64("height", 720, "frame height in pixels")
	flag.Parse()

	f, err := os.Create(*out)
	if err != nil {
		log.Fatal(err)
	}
	defer f.Close()

	m, err := mux.New(ebml.NewFileSink(f), mux.FormatMatroska, []mux.StreamDescriptor{
		{
			Codec: codec.Descriptor{Kind: codec.KindVideo, Name: "h264"},
			Track: track.Descriptor{Width: *width, Height: *height},
		},
	})
	if err != nil {
		log.Fatal(err)
	}

	const frameDurationMS = 33
	pts := int64(0)
	count := 0
	for {
		var length uint32
		if err := binary.Read(os.Stdin, binary.BigEndian, &length); err != nil {
			if err == io.EOF {
				break
			}
			log.Fatalf("reading frame length: %v", err)
		}
		data := make([]byte, length)
		if _, err := io.ReadFull(os.Stdin, data); err != nil {
			log.Fatalf("reading frame data: %v", err)
		}
		if err := m.WritePacket(mux.Packet{
			StreamIndex: 0,
			PTS:         pts,
			Duration:    frameDurationMS,
			Flags:       mux.FlagKey,
			Data:        data,
		}); err != nil {
			log.Fatalf("writing packet %d: %v", count, err)
		}
		pts += frameDurationMS
		count++
	}

	if err := m.WriteTrailer(); err != nil {
		log.Fatal(err)
	}
	log.Printf("wrote %d frames to %s", count, *out)
}
