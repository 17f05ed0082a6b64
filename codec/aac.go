package codec

// aacSampleRates is indexed by the 4-bit sampling-frequency-index field of
// an AudioSpecificConfig. The reference decoder's table stops at index 11
// (8000 Hz); this table adds index 12 (7350 Hz), the 13th MPEG-4 Audio
// sampling frequency, to decode that index rather than silently skip it.
var aacSampleRates = [13]float64{
	96000, 88200, 64000, 48000, 44100, 32000, 24000,
	22050, 16000, 12000, 11025, 8000, 7350,
}

// sniffAACSampleRate decodes SamplingFrequency (and, when 5 bytes of
// AudioSpecificConfig signal SBR, OutputSamplingFrequency) from extradata
// into shaped, per §4.D's AAC sample-rate sniff.
func sniffAACSampleRate(extradata []byte, shaped *Shaped) {
	if len(extradata) < 2 {
		return
	}
	sri := ((uint(extradata[0]) << 1) & 0xE) | (uint(extradata[1]) >> 7)
	if sri > 12 {
		return
	}
	shaped.SamplingFrequency = aacSampleRates[sri]
	if len(extradata) == 5 {
		sriExt := (uint(extradata[4]) >> 3) & 0xF
		if sriExt <= 12 {
			shaped.OutputSamplingFrequency = aacSampleRates[sriExt]
		}
	}
}
