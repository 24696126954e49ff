package prompt

import (
	"crypto/sha256"
	"encoding/hex"
)

// Digest hex encodes the sha256 of data. Logged next to the template path so
// a reply can be traced back to the prompt revision that produced it.
func Digest(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
