//go:build zstd

package format

import (
	"io"

	"github.com/klauspost/compress/zstd"
)

func init() {
	RegisterCompHandler(CodecZSTD, &CompHandler{
		Compress: func(buf []byte) ([]byte, error) {
			enc, err := zstd.NewWriter(nil)
			if err != nil {
				return nil, err
			}
			defer enc.Close()
			return enc.EncodeAll(buf, nil), nil
		},
		Decompress: func(r io.Reader) (io.ReadCloser, error) {
			dec, err := zstd.NewReader(r)
			if err != nil {
				return nil, err
			}
			return dec.IOReadCloser(), nil
		},
	})
}
