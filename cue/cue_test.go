package cue

import (
	"testing"

	"github.com/go-mkv/mkvmux/ebml"
)

// vintHeaderLen returns the byte width of a VINT (id or size) given its
// first byte, per the position of the leading 1 bit.
func vintHeaderLen(b byte) int {
	for i := 0; i < 8; i++ {
		if b&(byte(0x80)>>uint(i)) != 0 {
			return i + 1
		}
	}
	return 8
}

// readID decodes an EBML id (verbatim, marker bits included) starting at
// data[pos] and returns it with the offset just past it.
func readID(data []byte, pos int) (uint32, int) {
	n := vintHeaderLen(data[pos])
	var id uint32
	for i := 0; i < n; i++ {
		id = id<<8 | uint32(data[pos+i])
	}
	return id, pos + n
}

// readSize decodes an EBML size VINT (marker bit masked off) starting at
// data[pos] and returns it with the offset just past it.
func readSize(data []byte, pos int) (uint64, int) {
	n := vintHeaderLen(data[pos])
	mask := uint64(0xFF) >> uint(n)
	size := uint64(data[pos]) & mask
	for i := 1; i < n; i++ {
		size = size<<8 | uint64(data[pos+i])
	}
	return size, pos + n
}

// readUint decodes a fixed-width big-endian unsigned integer payload.
func readUint(data []byte) uint64 {
	var v uint64
	for _, b := range data {
		v = v<<8 | uint64(b)
	}
	return v
}

// decodedCuePoint/decodedCueTrackPosition mirror the structure this package
// writes, recovered by a minimal hand-rolled EBML walk rather than a
// decoding library -- this package's grounding is stdlib-only (see
// DESIGN.md), and pulling in a decoder just for this test would contradict
// that.
type decodedCuePoint struct {
	CueTime uint64
	Tracks  []decodedCueTrackPosition
}

type decodedCueTrackPosition struct {
	CueTrack           uint64
	CueClusterPosition uint64
}

func decodeCues(t *testing.T, data []byte) []decodedCuePoint {
	t.Helper()
	id, pos := readID(data, 0)
	if id != ebml.IDCues {
		t.Fatalf("top-level id = 0x%X, want Cues (0x%X)", id, ebml.IDCues)
	}
	size, pos := readSize(data, pos)
	end := pos + int(size)
	if end != len(data) {
		t.Fatalf("Cues size field says payload ends at %d, buffer is %d bytes", end, len(data))
	}

	var points []decodedCuePoint
	for pos < end {
		cpID, next := readID(data, pos)
		if cpID != ebml.IDCuePoint {
			t.Fatalf("expected CuePoint, got id 0x%X", cpID)
		}
		cpSize, next2 := readSize(data, next)
		cpEnd := next2 + int(cpSize)
		points = append(points, decodeCuePoint(t, data, next2, cpEnd))
		pos = cpEnd
	}
	return points
}

func decodeCuePoint(t *testing.T, data []byte, pos, end int) decodedCuePoint {
	t.Helper()
	var cp decodedCuePoint
	for pos < end {
		id, next := readID(data, pos)
		size, next2 := readSize(data, next)
		payloadEnd := next2 + int(size)
		switch id {
		case ebml.IDCueTime:
			cp.CueTime = readUint(data[next2:payloadEnd])
		case ebml.IDCueTrackPositions:
			cp.Tracks = append(cp.Tracks, decodeCueTrackPositions(t, data, next2, payloadEnd))
		default:
			t.Fatalf("unexpected id 0x%X inside CuePoint", id)
		}
		pos = payloadEnd
	}
	return cp
}

func decodeCueTrackPositions(t *testing.T, data []byte, pos, end int) decodedCueTrackPosition {
	t.Helper()
	var tp decodedCueTrackPosition
	for pos < end {
		id, next := readID(data, pos)
		size, next2 := readSize(data, next)
		payloadEnd := next2 + int(size)
		switch id {
		case ebml.IDCueTrack:
			tp.CueTrack = readUint(data[next2:payloadEnd])
		case ebml.IDCueClusterPosition:
			tp.CueClusterPosition = readUint(data[next2:payloadEnd])
		default:
			t.Fatalf("unexpected id 0x%X inside CueTrackPositions", id)
		}
		pos = payloadEnd
	}
	return tp
}

// TestBuilderGroupsSharedPTS is the regression test for the §9 cue-grouping
// open question: the outer index must advance by the full group size (not
// group size - 1), or the last entry of every equal-PTS group gets
// reprocessed into a spurious duplicate CuePoint. Two points share PTS=0
// here; a j-1 advance would emit three CuePoints (a duplicate at PTS=0
// carrying only TrackNumber 2 again) instead of the correct two.
func TestBuilderGroupsSharedPTS(t *testing.T) {
	sink := ebml.NewBufferSink()
	w := ebml.NewWriter(sink)
	b := New(w)
	b.Add(Point{PTS: 0, TrackNumber: 1, ClusterPos: 0})
	b.Add(Point{PTS: 0, TrackNumber: 2, ClusterPos: 0})
	b.Add(Point{PTS: 1000, TrackNumber: 1, ClusterPos: 512})
	if b.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", b.Len())
	}
	if err := b.Write(); err != nil {
		t.Fatal(err)
	}

	got := decodeCues(t, sink.Bytes())
	want := []decodedCuePoint{
		{
			CueTime: 0,
			Tracks: []decodedCueTrackPosition{
				{CueTrack: 1, CueClusterPosition: 0},
				{CueTrack: 2, CueClusterPosition: 0},
			},
		},
		{
			CueTime: 1000,
			Tracks: []decodedCueTrackPosition{
				{CueTrack: 1, CueClusterPosition: 512},
			},
		},
	}
	if len(got) != len(want) {
		t.Fatalf("CuePoint count = %d, want %d: %+v", len(got), len(want), got)
	}
	for i := range want {
		if got[i].CueTime != want[i].CueTime {
			t.Errorf("CuePoint[%d].CueTime = %d, want %d", i, got[i].CueTime, want[i].CueTime)
		}
		if len(got[i].Tracks) != len(want[i].Tracks) {
			t.Fatalf("CuePoint[%d] has %d CueTrackPositions, want %d: %+v", i, len(got[i].Tracks), len(want[i].Tracks), got[i].Tracks)
		}
		for j := range want[i].Tracks {
			if got[i].Tracks[j] != want[i].Tracks[j] {
				t.Errorf("CuePoint[%d].Tracks[%d] = %+v, want %+v", i, j, got[i].Tracks[j], want[i].Tracks[j])
			}
		}
	}
}

func TestBuilderEmpty(t *testing.T) {
	sink := ebml.NewBufferSink()
	w := ebml.NewWriter(sink)
	b := New(w)
	if err := b.Write(); err != nil {
		t.Fatal(err)
	}
	// id(4) + size(8) = 12 bytes for an empty Cues master.
	if got, want := len(sink.Bytes()), 12; got != want {
		t.Errorf("empty Cues length = %d, want %d", got, want)
	}
	if got := decodeCues(t, sink.Bytes()); len(got) != 0 {
		t.Errorf("decoded %d CuePoints from an empty Cues, want 0", len(got))
	}
}
