package sqlfill

import (
	"fmt"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/nao1215/sqlfill/domain/model"
)

// decodeText turns raw bytes into UTF-8 text. A UTF-8 BOM is dropped and a
// UTF-16 BOM switches decoding to UTF-16; invalid UTF-8 sequences become
// U+FFFD.
func decodeText(data []byte) (string, error) {
	decoder := unicode.BOMOverride(unicode.UTF8.NewDecoder())
	out, _, err := transform.Bytes(decoder, data)
	if err != nil {
		return "", fmt.Errorf("%w: failed to decode text: %v", model.ErrFormat, err)
	}
	return string(out), nil
}
