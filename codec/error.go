package codec

import "errors"

// ErrUnsupportedCodec is wrapped into the error returned when a stream has
// neither a native Matroska CodecID nor a usable fallback tag.
var ErrUnsupportedCodec = errors.New("unsupported codec")
