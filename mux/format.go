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

// Format is an output file registration: two are defined, differing in name,
// MIME type, default extension, default video codec, and whether video
// tracks (and so the BMP codec-tag table) apply.
type Format struct {
	Name         string
	MIMEType     string
	Extension    string
	AllowVideo   bool
	DefaultAudio string
	DefaultVideo string // empty if the format carries no video default
}

// FormatMatroska is the general-purpose ".mkv" registration, permitting both
// audio and video tracks.
var FormatMatroska = Format{
	Name:         "matroska",
	MIMEType:     "video/x-matroska",
	Extension:    ".mkv",
	AllowVideo:   true,
	DefaultAudio: "mp2",
	DefaultVideo: "mpeg4",
}

// FormatMatroskaAudio is the audio-only ".mka" registration: the BMP
// codec-tag table is irrelevant since no video track can be emitted.
var FormatMatroskaAudio = Format{
	Name:         "matroska-audio",
	MIMEType:     "audio/x-matroska",
	Extension:    ".mka",
	AllowVideo:   false,
	DefaultAudio: "mp2",
}
