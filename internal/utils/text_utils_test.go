package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestTruncateText(t *testing.T) {
	tp := NewTextProcessor(zap.NewNop())

	assert.Equal(t, "short", tp.TruncateText("short", 100))
	assert.Equal(t, "abcde", tp.TruncateText("abcdefgh", 5))
	assert.Equal(t, "unbounded", tp.TruncateText("unbounded", 0))

	// A multi-byte rune at the cut point is dropped, not split
	truncated := tp.TruncateText("héllo", 2)
	assert.Equal(t, "h", truncated)
}

func TestNormalizeWhitespace(t *testing.T) {
	tp := NewTextProcessor(zap.NewNop())

	out := tp.NormalizeWhitespace("  Hello   world \r\n\r\nSecond\tparagraph  ")
	assert.Equal(t, "Hello world\n\nSecond paragraph", out)
}

func TestProcessText(t *testing.T) {
	tp := NewTextProcessor(zap.NewNop())

	long := strings.Repeat("word ", 100)
	out := tp.ProcessText("  "+long, 20)
	assert.LessOrEqual(t, len(out), 20)
	assert.False(t, strings.HasPrefix(out, " "))
}
