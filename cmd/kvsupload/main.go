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

// Command kvsupload uploads a Matroska file to a Kinesis Video Streams
// PUT_MEDIA endpoint.
package main

import (
	"context"
	"flag"
	"log"
	"os"

	"github.com/aws/aws-sdk-go-v2/config"

	"github.com/go-mkv/mkvmux/kvsupload"
)

func main() {
	log.SetFlags(log.Lmicroseconds)

	streamName := flag.String("stream", "", "Kinesis Video Streams stream name")
	path := flag.String("f", "", "path to a muxed Matroska file")
	flag.Parse()

	if *streamName == "" || *path == "" {
		log.Fatal("both -stream and -f are required")
	}

	body, err := os.ReadFile(*path)
	if err != nil {
		log.Fatal(err)
	}

	ctx := context.Background()
	cfg, err := config.LoadDefaultConfig(ctx)
	if err != nil {
		log.Fatal(err)
	}

	c := kvsupload.New(cfg)
	resp, err := c.Upload(ctx, kvsupload.StreamID{Name: *streamName}, body)
	if err != nil {
		log.Fatal(err)
	}
	defer resp.Close()

	log.Printf("uploaded %d bytes to stream %q", len(body), *streamName)
}
