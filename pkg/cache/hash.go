package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
)

// Key derives a stable key from a namespace and any JSON-encodable parts,
// e.g. Key("bgremove", endpoint, imageHash).
func Key(prefix string, parts ...any) string {
	data, _ := json.Marshal(parts)
	return prefix + ":" + Hash(data)
}

// Hash returns the hex SHA-256 of data.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
