package types

import (
	"crypto/sha1"
	"encoding/hex"
	"strconv"
	"strings"
)

// Match is one recognized entity span in a document.
type Match struct {
	DocumentID   DocumentID `json:"document_id"`
	StructuralID string     `json:"structural_id"` // SHA-1(document_id + '\0' + ids + '\0' + start + '\0' + end)
	EntityIDs    []string   `json:"entity_ids"`
	Key          string     `json:"key"` // normalized name that matched
	Location     Location   `json:"location"`
	Snippet      Snippet    `json:"snippet"`
}

// Text returns the matched text.
func (m *Match) Text() string {
	return m.Snippet.Matching
}

// JoinedIDs returns the entity ids separated by tabs.
func (m *Match) JoinedIDs() string {
	return strings.Join(m.EntityIDs, "\t")
}

// ComputeStructuralID derives a stable id from the document, the entity ids
// and the byte span.
func (m *Match) ComputeStructuralID() string {
	h := sha1.New()
	h.Write(m.DocumentID[:])
	h.Write([]byte{0})
	h.Write([]byte(m.JoinedIDs()))
	h.Write([]byte{0})
	h.Write([]byte(strconv.Itoa(m.Location.Offset.Start)))
	h.Write([]byte{0})
	h.Write([]byte(strconv.Itoa(m.Location.Offset.End)))
	return hex.EncodeToString(h.Sum(nil))
}
