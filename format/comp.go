package format

import (
	"fmt"
	"io"
)

// Codec identifies the compression applied to a .boa file's body. It is
// stored as a single byte right after the magic number, so new codecs can
// be added without breaking files written by older builds (an unknown
// codec byte just fails to decode instead of silently misreading).
type Codec uint8

const (
	CodecNone  Codec = 0
	CodecZSTD  Codec = 1
	CodecXZ    Codec = 2
	CodecBZip2 Codec = 3
)

func (c Codec) String() string {
	switch c {
	case CodecNone:
		return "none"
	case CodecZSTD:
		return "zstd"
	case CodecXZ:
		return "xz"
	case CodecBZip2:
		return "bzip2"
	}
	return fmt.Sprintf("Codec(%d)", uint8(c))
}

// CompHandler implements one compression codec's body transform.
type CompHandler struct {
	Compress   func([]byte) ([]byte, error)
	Decompress func(io.Reader) (io.ReadCloser, error)
}

var compHandlers = map[Codec]*CompHandler{
	CodecNone: {
		Compress:   func(b []byte) ([]byte, error) { return b, nil },
		Decompress: func(r io.Reader) (io.ReadCloser, error) { return io.NopCloser(r), nil },
	},
}

// RegisterCompHandler installs the handler for codec, overwriting any
// previous registration. Build-tag-gated files (comp_zstd.go, comp_xz.go,
// comp_bzip2.go) call this from an init func so that pulling in the
// corresponding third-party package is opt-in per build.
func RegisterCompHandler(codec Codec, h *CompHandler) {
	compHandlers[codec] = h
}

func compHandlerFor(codec Codec) (*CompHandler, error) {
	h, ok := compHandlers[codec]
	if !ok {
		return nil, fmt.Errorf("format: no compressor registered for codec %s (missing build tag?)", codec)
	}
	return h, nil
}

func compressBody(codec Codec, body []byte) ([]byte, error) {
	h, err := compHandlerFor(codec)
	if err != nil {
		return nil, err
	}
	return h.Compress(body)
}

func decompressBody(codec Codec, r io.Reader) ([]byte, error) {
	h, err := compHandlerFor(codec)
	if err != nil {
		return nil, err
	}
	rc, err := h.Decompress(r)
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}
