package audio

import (
	"encoding/base64"
	"fmt"
)

// MIMEType is the fixed content type captured payloads are decoded back to.
const MIMEType = "audio/webm"

// Encode turns a captured payload into its transport-safe text form.
// Standard base64; the round trip is lossless byte for byte.
func Encode(payload []byte) string {
	return base64.StdEncoding.EncodeToString(payload)
}

// Decode reverses Encode.
func Decode(encoded string) ([]byte, error) {
	data, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("decoding audio payload: %w", err)
	}
	return data, nil
}
