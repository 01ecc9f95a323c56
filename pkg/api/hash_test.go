package api

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNote_Hash(t *testing.T) {
	now := time.Now().UTC()

	base := Note{
		ID:        "test-id",
		Text:      "# My Note\n\nHello world",
		CreatedAt: now,
		UpdatedAt: now,
		Version:   1,
	}

	t.Run("identical notes produce identical hashes", func(t *testing.T) {
		n1 := base
		n2 := base
		assert.Equal(t, n1.Hash(), n2.Hash())
	})

	t.Run("different content produces different hashes", func(t *testing.T) {
		n2 := base
		n2.Text = "Different"

		n3 := base
		n3.UpdatedAt = now.Add(time.Second)

		assert.NotEqual(t, base.Hash(), n2.Hash())
		assert.NotEqual(t, base.Hash(), n3.Hash())
	})

	t.Run("version is not part of the hash", func(t *testing.T) {
		n2 := base
		n2.Version = 7
		assert.Equal(t, base.Hash(), n2.Hash())
	})

	t.Run("timezone independence", func(t *testing.T) {
		loc := time.FixedZone("UTC+9", 9*60*60)

		n1 := base
		n1.CreatedAt = now.In(loc)

		assert.Equal(t, base.Hash(), n1.Hash(), "Hash should be independent of timezone for the same instant")
	})

	t.Run("field boundaries matter", func(t *testing.T) {
		n1 := Note{ID: "ab", Text: "c"}
		n2 := Note{ID: "a", Text: "bc"}
		assert.NotEqual(t, n1.Hash(), n2.Hash())
	})
}

func TestTextHash(t *testing.T) {
	assert.Equal(t, TextHash("x"), TextHash("x"))
	assert.NotEqual(t, TextHash("x"), TextHash("x "))
	assert.Len(t, TextHash(""), 64)
}

func TestNote_Title(t *testing.T) {
	assert.Equal(t, "# Groceries", Note{Text: "# Groceries\n- milk"}.Title())
	assert.Equal(t, "one line", Note{Text: "  one line  "}.Title())
	assert.Equal(t, "crlf", Note{Text: "crlf\r\nrest"}.Title())
	assert.Equal(t, "", Note{}.Title())
}

func TestNewID(t *testing.T) {
	a, b := NewID(), NewID()
	assert.NotEqual(t, a, b)
	assert.Len(t, a, 36)
}
