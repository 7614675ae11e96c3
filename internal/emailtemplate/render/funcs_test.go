package render

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTruncateWords(t *testing.T) {
	assert.Equal(t, "one two", truncateWords(5, "one two"))
	assert.Equal(t, "one two ...", truncateWords(2, "one two three"))
}

func TestTruncateChars(t *testing.T) {
	assert.Equal(t, "short", truncateChars(10, "short"))
	assert.Equal(t, "abcd...", truncateChars(7, "abcdefghij"))
}

func TestPluralize(t *testing.T) {
	assert.Equal(t, "", pluralize(1))
	assert.Equal(t, "s", pluralize(0))
	assert.Equal(t, "s", pluralize(3))
}

func TestDefaultString(t *testing.T) {
	assert.Equal(t, "Subscriber", defaultString("Subscriber", ""))
	assert.Equal(t, "Amina", defaultString("Subscriber", "Amina"))
}
