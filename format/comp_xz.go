//go:build xz

package format

import (
	"bytes"
	"io"

	"github.com/ulikunitz/xz"
)

func init() {
	RegisterCompHandler(CodecXZ, &CompHandler{
		Compress: func(buf []byte) ([]byte, error) {
			var out bytes.Buffer
			w, err := xz.NewWriter(&out)
			if err != nil {
				return nil, err
			}
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
			rc, err := xz.NewReader(r)
			if err != nil {
				return nil, err
			}
			return io.NopCloser(rc), nil
		},
	})
}
