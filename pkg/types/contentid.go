package types

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// ContentID is the SHA-256 of a document snapshot. Used to skip documents
// whose text has not changed since the last check.
type ContentID [32]byte

// ComputeContentID hashes document text.
func ComputeContentID(text string) ContentID {
	return ContentID(sha256.Sum256([]byte(text)))
}

// Hex returns the 64-character hex form.
func (id ContentID) Hex() string {
	return hex.EncodeToString(id[:])
}

func (id ContentID) String() string {
	return id.Hex()
}

// ParseContentID parses a 64-character hex string.
func ParseContentID(hexStr string) (ContentID, error) {
	if len(hexStr) != 64 {
		return ContentID{}, fmt.Errorf("invalid content ID length: expected 64, got %d", len(hexStr))
	}

	decoded, err := hex.DecodeString(hexStr)
	if err != nil {
		return ContentID{}, fmt.Errorf("invalid hex string: %w", err)
	}

	var id ContentID
	copy(id[:], decoded)
	return id, nil
}

// MarshalJSON implements json.Marshaler.
func (id ContentID) MarshalJSON() ([]byte, error) {
	return json.Marshal(id.Hex())
}

// UnmarshalJSON implements json.Unmarshaler.
func (id *ContentID) UnmarshalJSON(data []byte) error {
	var hexStr string
	if err := json.Unmarshal(data, &hexStr); err != nil {
		return err
	}
	parsed, err := ParseContentID(hexStr)
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}
