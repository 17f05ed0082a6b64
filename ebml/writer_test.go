package ebml

import (
	"bytes"
	"testing"
)

func TestEncodeID(t *testing.T) {
	testCases := map[string]struct {
		id   uint32
		want []byte
	}{
		"Void":    {IDVoid, []byte{0xEC}},
		"Segment": {IDSegment, []byte{0x18, 0x53, 0x80, 0x67}},
		"SeekID":  {IDSeekID, []byte{0x53, 0xAB}},
	}
	for name, tt := range testCases {
		tt := tt
		t.Run(name, func(t *testing.T) {
			got := EncodeID(tt.id)
			if !bytes.Equal(got, tt.want) {
				t.Errorf("EncodeID(0x%X) = % X, want % X", tt.id, got, tt.want)
			}
		})
	}
}

func TestWriterPutSize(t *testing.T) {
	testCases := map[string]struct {
		size     uint64
		minBytes int
		want     []byte
	}{
		"zero":        {0, 0, []byte{0x80}},
		"127":         {127, 0, []byte{0xFF}},
		"128needs2":   {128, 0, []byte{0x40, 0x80}},
		"forcedWidth": {0, 8, []byte{0x01, 0, 0, 0, 0, 0, 0, 0}},
	}
	for name, tt := range testCases {
		tt := tt
		t.Run(name, func(t *testing.T) {
			sink := NewBufferSink()
			w := NewWriter(sink)
			if err := w.PutSize(tt.size, tt.minBytes); err != nil {
				t.Fatal(err)
			}
			if !bytes.Equal(sink.Bytes(), tt.want) {
				t.Errorf("PutSize(%d, %d) = % X, want % X", tt.size, tt.minBytes, sink.Bytes(), tt.want)
			}
		})
	}
}

func TestWriterPutUint(t *testing.T) {
	sink := NewBufferSink()
	w := NewWriter(sink)
	if err := w.PutUint(IDTrackNumber, 1); err != nil {
		t.Fatal(err)
	}
	want := []byte{0xD7, 0x81, 0x01}
	if !bytes.Equal(sink.Bytes(), want) {
		t.Errorf("got % X, want % X", sink.Bytes(), want)
	}
}

func TestWriterPutVoidSmall(t *testing.T) {
	sink := NewBufferSink()
	w := NewWriter(sink)
	if err := w.PutVoid(5); err != nil {
		t.Fatal(err)
	}
	// id(1) + size(1, value=totalLen-1=4); the remaining 3 bytes are skipped
	// by moving the cursor, not written, so only the header reaches the sink.
	want := []byte{0xEC, 0x84}
	if !bytes.Equal(sink.Bytes(), want) {
		t.Errorf("got % X, want % X", sink.Bytes(), want)
	}
	if pos, _ := sink.Tell(); pos != 5 {
		t.Errorf("cursor at %d, want 5", pos)
	}
}

func TestWriterPutVoidLarge(t *testing.T) {
	sink := NewBufferSink()
	w := NewWriter(sink)
	if err := w.PutVoid(20); err != nil {
		t.Fatal(err)
	}
	pos, _ := sink.Tell()
	if pos != 20 {
		t.Errorf("cursor at %d, want 20", pos)
	}
	if sink.Bytes()[0] != byte(IDVoid) {
		t.Errorf("id byte = 0x%X, want 0x%X", sink.Bytes()[0], IDVoid)
	}
}

func TestWriterOpenCloseMaster(t *testing.T) {
	sink := NewBufferSink()
	w := NewWriter(sink)
	tok, err := w.OpenMaster(IDTrackEntry)
	if err != nil {
		t.Fatal(err)
	}
	if err := w.PutUint(IDTrackNumber, 1); err != nil {
		t.Fatal(err)
	}
	if err := w.CloseMaster(tok); err != nil {
		t.Fatal(err)
	}
	end, _ := sink.Tell()
	// id(1) + size(8) + payload(3) = 12
	if end != 12 {
		t.Errorf("final cursor = %d, want 12", end)
	}
	b := sink.Bytes()
	if b[0] != byte(IDTrackEntry) {
		t.Errorf("id byte = 0x%X", b[0])
	}
	// payload size field must decode to 3
	sizeField := b[1:9]
	x := uint64(0)
	for _, v := range sizeField {
		x = x<<8 | uint64(v)
	}
	size := x &^ (uint64(1) << 56)
	if size != 3 {
		t.Errorf("back-patched size = %d, want 3", size)
	}
}

func TestXiphLace(t *testing.T) {
	testCases := map[string]struct {
		n    int
		want []byte
	}{
		"zero":    {0, []byte{0x00}},
		"254":     {254, []byte{0xFE}},
		"255":     {255, []byte{0xFF, 0x00}},
		"510":     {510, []byte{0xFF, 0xFF, 0x00}},
		"sum-600": {600, []byte{0xFF, 0xFF, 0x5A}},
	}
	for name, tt := range testCases {
		tt := tt
		t.Run(name, func(t *testing.T) {
			got := XiphLace(tt.n)
			if !bytes.Equal(got, tt.want) {
				t.Errorf("XiphLace(%d) = % X, want % X", tt.n, got, tt.want)
			}
		})
	}
}
