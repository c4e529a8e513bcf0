package codec

import (
	"github.com/klauspost/compress/flate"
)

func NewDeflate() Codec {
	return newBaseCodec("deflate", func() Compressor {
		// the error is possible on invalid levels only
		w, _ := flate.NewWriter(nil, flate.DefaultCompression)
		return w
	})
}
