package types

import (
	"crypto/sha1"
	"database/sql/driver"
	"encoding/hex"
	"fmt"
)

// DocumentID identifies scanned content by its SHA-1 hash.
type DocumentID [sha1.Size]byte

// ComputeDocumentID hashes content.
func ComputeDocumentID(content string) DocumentID {
	return DocumentID(sha1.Sum([]byte(content)))
}

// Hex returns the 40-character hex form.
func (id DocumentID) Hex() string {
	return hex.EncodeToString(id[:])
}

func (id DocumentID) String() string {
	return id.Hex()
}

// IsZero reports whether id is unset.
func (id DocumentID) IsZero() bool {
	return id == DocumentID{}
}

// ParseDocumentID parses the hex form of a DocumentID.
func ParseDocumentID(s string) (DocumentID, error) {
	var id DocumentID
	if len(s) != 2*len(id) {
		return id, fmt.Errorf("invalid document ID length: expected %d, got %d", 2*len(id), len(s))
	}
	if _, err := hex.Decode(id[:], []byte(s)); err != nil {
		return DocumentID{}, fmt.Errorf("invalid document ID: %w", err)
	}
	return id, nil
}

// MarshalText implements encoding.TextMarshaler; JSON uses the hex form.
func (id DocumentID) MarshalText() ([]byte, error) {
	return []byte(id.Hex()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (id *DocumentID) UnmarshalText(text []byte) error {
	parsed, err := ParseDocumentID(string(text))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

// Value implements driver.Valuer.
func (id DocumentID) Value() (driver.Value, error) {
	return id.Hex(), nil
}

// Scan implements sql.Scanner.
func (id *DocumentID) Scan(value any) error {
	switch v := value.(type) {
	case string:
		return id.UnmarshalText([]byte(v))
	case []byte:
		return id.UnmarshalText(v)
	case nil:
		return fmt.Errorf("cannot scan NULL into DocumentID")
	default:
		return fmt.Errorf("cannot scan %T into DocumentID", value)
	}
}
