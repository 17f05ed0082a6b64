package codec

// bmpFourCCByName maps a codec name to the four-character-code a
// BITMAPINFOHEADER.biCompression field would carry, for non-native video
// streams that arrive without an explicit FourCC.
var bmpFourCCByName = map[string]string{
	"mjpeg":    "MJPG",
	"mpeg2":    "mpg2",
	"wmv2":     "WMV2",
	"wmv3":     "WMV3",
	"rawvideo": "DIB ",
}

// wavTagByName maps a codec name to the WAVEFORMATEX.wFormatTag value used
// when no native Matroska audio CodecID exists for it.
var wavTagByName = map[string]uint16{
	"pcm_s16be": 1,      // WAVE_FORMAT_PCM
	"adpcm_ms":  2,      // WAVE_FORMAT_ADPCM
	"wmav1":     0x160,  // WAVE_FORMAT_WMAUDIO1
	"wmav2":     0x161,  // WAVE_FORMAT_WMAUDIO2
	"amr_nb":    0x7361, // WAVE_FORMAT_AMR_NB (non-standard, ffmpeg convention)
}
