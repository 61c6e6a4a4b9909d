package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// hashKey generates a cache key by hashing the components.
// The key format is: prefix:hash(parts...)
func hashKey(prefix string, parts ...any) string {
	data, _ := json.Marshal(parts)
	return prefix + ":" + Hash(data)
}

// Hash computes a SHA-256 hash of the input data.
// Returns the full 64-character hex string.
func Hash(data []byte) string {
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}

// ArtifactKey returns the key of the artifact rendered from dot in format.
// Scale only matters for raster formats and is ignored when zero.
func ArtifactKey(dot, format string, scale float64) string {
	if scale == 0 {
		return hashKey("artifact", format, Hash([]byte(dot)))
	}
	return hashKey("artifact", format, Hash([]byte(dot)), fmt.Sprintf("%.2f", scale))
}
