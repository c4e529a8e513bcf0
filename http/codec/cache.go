package codec

import (
	"github.com/indigo-web/utils/strcomp"
)

// Cache lazily instantiates compressors per connection, so a codec's state
// is allocated only once a client actually negotiates it.
type Cache struct {
	accept    string
	codecs    []Codec
	instances []Compressor
}

func NewCache(codecs []Codec) Cache {
	return Cache{
		accept:    AcceptEncoding(codecs),
		codecs:    codecs,
		instances: make([]Compressor, len(codecs)),
	}
}

// Match picks the first coding out of the client's acceptable ones that the
// cache can provide. Empty token means no overlap.
func (c Cache) Match(accepted []string) (token string, comp Compressor) {
	for _, tok := range accepted {
		if inst := c.Get(tok); inst != nil {
			return tok, inst
		}
	}

	return "", nil
}

// Get returns a compressor instance by its token, nil for unknown tokens.
func (c Cache) Get(token string) Compressor {
	for i, entry := range c.codecs {
		if strcomp.EqualFold(entry.Token(), token) {
			inst := c.instances[i]
			if inst == nil {
				inst = entry.New()
				c.instances[i] = inst
			}

			return inst
		}
	}

	return nil
}

// AcceptEncoding returns the precomputed Accept-Encoding advertisement.
func (c Cache) AcceptEncoding() string {
	return c.accept
}
