package facttable

import (
	"fmt"
	"strings"

	"github.com/saintfish/chardet"
	"golang.org/x/net/html/charset"
	"golang.org/x/text/encoding"
)

// detectionPrefix is how many bytes of a file are sampled for statistical
// charset detection. EDINET CSV renderings mix UTF-16 and Shift_JIS, so
// the sample must include enough multibyte text to be conclusive.
const detectionPrefix = 10 * 1024

var detector = chardet.NewTextDetector()

// detectEncoding picks a byte encoding for the sampled prefix of a file.
// The detected charset label is resolved through the WHATWG encoding
// index; labels outside that index (and inconclusive samples) are
// reported as errors so the caller can skip the file.
func detectEncoding(sample []byte) (encoding.Encoding, string, error) {
	if len(sample) == 0 {
		return nil, "", fmt.Errorf("empty file")
	}
	result, err := detector.DetectBest(sample)
	if err != nil {
		return nil, "", fmt.Errorf("charset detection failed: %w", err)
	}
	enc, name := charset.Lookup(strings.ToLower(result.Charset))
	if enc == nil {
		return nil, "", fmt.Errorf("unsupported charset %q", result.Charset)
	}
	return enc, name, nil
}
