package codec

import (
	"bytes"
	"errors"
	"testing"
)

type fakeXiph struct {
	h0, h1, h2 []byte
}

func (f fakeXiph) Split(extradata []byte, firstLen int) ([]byte, []byte, []byte, error) {
	return f.h0, f.h1, f.h2, nil
}

type fakeHeaders struct {
	bmp []byte
	wav []byte
}

func (f fakeHeaders) BuildBitmapInfoHeader(d Descriptor, fourCC [4]byte) ([]byte, error) {
	out := append([]byte{}, fourCC[:]...)
	return append(out, f.bmp...), nil
}

func (f fakeHeaders) BuildWaveFormatEx(d Descriptor, tag uint16) ([]byte, error) {
	return f.wav, nil
}

func TestShapeVorbis(t *testing.T) {
	xiph := fakeXiph{h0: []byte{1, 2, 3}, h1: []byte{4, 5}, h2: []byte{6}}
	s := New(xiph, nil)
	shaped, err := s.Shape(Descriptor{Kind: KindAudio, Name: "vorbis", Extradata: make([]byte, 6)})
	if err != nil {
		t.Fatal(err)
	}
	if shaped.CodecID != "A_VORBIS" {
		t.Errorf("CodecID = %q", shaped.CodecID)
	}
	want := []byte{0x02, 3, 2}
	want = append(want, xiph.h0...)
	want = append(want, xiph.h1...)
	want = append(want, xiph.h2...)
	if !bytes.Equal(shaped.CodecPrivate, want) {
		t.Errorf("CodecPrivate = % X, want % X", shaped.CodecPrivate, want)
	}
}

func TestShapeFLACTooShort(t *testing.T) {
	s := New(nil, nil)
	_, err := s.Shape(Descriptor{Kind: KindAudio, Name: "flac", Extradata: make([]byte, 10)})
	if err == nil {
		t.Fatal("expected error for short FLAC extradata")
	}
}

func TestShapeFLACPassthrough(t *testing.T) {
	s := New(nil, nil)
	extradata := make([]byte, 34)
	extradata[0] = 0xAB
	shaped, err := s.Shape(Descriptor{Kind: KindAudio, Name: "flac", Extradata: extradata})
	if err != nil {
		t.Fatal(err)
	}
	if shaped.CodecID != "A_FLAC" {
		t.Errorf("CodecID = %q", shaped.CodecID)
	}
	if !bytes.Equal(shaped.CodecPrivate, extradata) {
		t.Error("CodecPrivate should be a verbatim copy of extradata")
	}
}

func TestShapeAACSampleRate(t *testing.T) {
	// sri bits: ((ex[0]<<1)&0xE)|(ex[1]>>7). Using ex = {0x02,0x80,...}
	// gives ((0x02<<1)&0xE)=0x4, |(0x80>>7)=1 => sri=5 => 32000.
	// sriExt = (ex[4]>>3)&0xF with ex[4]=0x20 => (0x20>>3)&0xF = 4 => 44100.
	extradata := []byte{0x02, 0x80, 0x00, 0x00, 0x20}
	s := New(nil, nil)
	shaped, err := s.Shape(Descriptor{Kind: KindAudio, Name: "aac", Extradata: extradata})
	if err != nil {
		t.Fatal(err)
	}
	if shaped.SamplingFrequency != 32000 {
		t.Errorf("SamplingFrequency = %v, want 32000", shaped.SamplingFrequency)
	}
	if shaped.OutputSamplingFrequency != 44100 {
		t.Errorf("OutputSamplingFrequency = %v, want 44100", shaped.OutputSamplingFrequency)
	}
}

func TestShapeNonNativeVideoFallsBackToTagTable(t *testing.T) {
	headers := fakeHeaders{bmp: []byte{0xAA, 0xBB}}
	s := New(nil, headers)
	shaped, err := s.Shape(Descriptor{Kind: KindVideo, Name: "mjpeg"})
	if err != nil {
		t.Fatal(err)
	}
	if shaped.CodecID != "V_MS/VFW/FOURCC" {
		t.Errorf("CodecID = %q", shaped.CodecID)
	}
	if !bytes.HasPrefix(shaped.CodecPrivate, []byte("MJPG")) {
		t.Errorf("CodecPrivate missing FourCC prefix: % X", shaped.CodecPrivate)
	}
}

func TestShapeNonNativeAudioUnsupported(t *testing.T) {
	s := New(nil, fakeHeaders{})
	_, err := s.Shape(Descriptor{Kind: KindAudio, Name: "does-not-exist"})
	if !errors.Is(err, ErrUnsupportedCodec) {
		t.Fatalf("err = %v, want ErrUnsupportedCodec", err)
	}
}
