package api

import (
	"encoding/hex"
	"time"

	"github.com/zeebo/blake3"
)

// Hash returns a deterministic BLAKE3 hash of the note content.
// It covers ID, Text and both timestamps; Version is left out so a
// no-op update does not change it.
func (n Note) Hash() string {
	h := blake3.New()

	h.Write([]byte(n.ID))
	h.Write([]byte{0})

	h.Write([]byte(n.Text))
	h.Write([]byte{0})

	// Timestamps in RFC3339Nano (UTC)
	if !n.CreatedAt.IsZero() {
		h.Write([]byte(n.CreatedAt.UTC().Format(time.RFC3339Nano)))
	}
	h.Write([]byte{0})

	if !n.UpdatedAt.IsZero() {
		h.Write([]byte(n.UpdatedAt.UTC().Format(time.RFC3339Nano)))
	}

	return hex.EncodeToString(h.Sum(nil))
}

// TextHash hashes only the text, for detecting unchanged edits.
func TextHash(text string) string {
	sum := blake3.Sum256([]byte(text))
	return hex.EncodeToString(sum[:])
}
