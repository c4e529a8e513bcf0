package codec

import (
	"github.com/klauspost/compress/gzip"
)

func NewGZIP() Codec {
	return newBaseCodec("gzip", func() Compressor {
		return gzip.NewWriter(nil)
	})
}
