package dto

import (
	"bytes"
	"encoding/base64"
	"fmt"

	errs "github.com/amirhossein-jamali/staff-registry/internal/domain/error"
)

const (
	dataURLScheme = "data:"
	base64Marker  = ";base64"
)

// DecodeDataURL extracts the bytes of a chunk body. The body is either a
// base64 data URL (data:<mime>;base64,<payload>) or bare base64.
func DecodeDataURL(body []byte) ([]byte, error) {
	body = bytes.TrimSpace(body)

	payload := body
	if bytes.HasPrefix(body, []byte(dataURLScheme)) {
		header, rest, found := bytes.Cut(body, []byte(","))
		if !found {
			return nil, fmt.Errorf("%w: data URL has no payload", errs.ErrInvalidChunk)
		}
		if !bytes.HasSuffix(header, []byte(base64Marker)) {
			return nil, fmt.Errorf("%w: data URL is not base64 encoded", errs.ErrInvalidChunk)
		}
		payload = rest
	}

	decoded, err := base64.StdEncoding.DecodeString(string(payload))
	if err != nil {
		// some encoders drop the padding
		decoded, err = base64.RawStdEncoding.DecodeString(string(bytes.TrimRight(payload, "=")))
		if err != nil {
			return nil, fmt.Errorf("%w: invalid base64 payload", errs.ErrInvalidChunk)
		}
	}
	return decoded, nil
}

// EncodeDataURL renders data as a base64 data URL
func EncodeDataURL(mimeType string, data []byte) string {
	return dataURLScheme + mimeType + base64Marker + "," + base64.StdEncoding.EncodeToString(data)
}
