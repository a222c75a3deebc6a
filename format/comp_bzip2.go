//go:build bzip2

package format

import (
	"bytes"
	"io"

	"github.com/dsnet/compress/bzip2"
)

func init() {
	RegisterCompHandler(CodecBZip2, &CompHandler{
		Compress: func(buf []byte) ([]byte, error) {
			var out bytes.Buffer
			w := bzip2.NewWriter(&out)
			if _, err := w.Write(buf); err != nil {
				w.Close()
				return nil, err
			}
			if err := w.Close(); err != nil {
				return nil, err
			}
			return out.Bytes(), nil
		},
		Decompress: func(r io.Reader) (io.ReadCloser, error) {
			dec, err := bzip2.NewReader(r, nil)
			if err != nil {
				return nil, err
			}
			return dec, nil
		},
	})
}
