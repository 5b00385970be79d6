package util

import (
	"crypto/md5"
	"encoding/hex"
	"encoding/json"

	"github.com/google/uuid"
)

// PixelDigest is the hex md5 of raw pixel bytes, used to compare outputs
func PixelDigest(pix []byte) string {
	sum := md5.Sum(pix)
	return hex.EncodeToString(sum[:])
}

// HashUUID derives a stable UUID from the json form of value, so identical
// sort settings share a run id. Returns "" if value cannot be marshaled.
func HashUUID(value any) string {
	raw, err := json.Marshal(value)
	if err != nil {
		return ""
	}
	hash := md5.Sum(raw)
	id, err := uuid.FromBytes(hash[:])
	if err != nil {
		return ""
	}
	return id.String()
}
