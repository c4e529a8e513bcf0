package codec

import (
	"github.com/klauspost/compress/zstd"
)

func NewZSTD() Codec {
	return newBaseCodec("zstd", func() Compressor {
		// the default options never produce an error
		w, _ := zstd.NewWriter(nil)
		return w
	})
}
