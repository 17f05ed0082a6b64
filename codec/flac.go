package codec

import "fmt"

// flacStreamInfoSize is the fixed length of a FLAC STREAMINFO metadata
// block, the minimum extradata a native FLAC track must carry.
const flacStreamInfoSize = 34

func shapeFLAC(extradata []byte) ([]byte, error) {
	if len(extradata) < flacStreamInfoSize {
		return nil, fmt.Errorf("codec: flac extradata is %d bytes, need at least %d (STREAMINFO)", len(extradata), flacStreamInfoSize)
	}
	priv := make([]byte, len(extradata))
	copy(priv, extradata)
	return priv, nil
}
