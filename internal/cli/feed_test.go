package cli

import (
	"bytes"
	"strings"
	"testing"

	"syntax_feed_backend/internal/catalog"
	"syntax_feed_backend/internal/feed"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrintLayout(t *testing.T) {
	color.NoColor = true

	cat, err := catalog.Default()
	require.NoError(t, err)

	items := feed.Build(cat.Lessons()[:16], cat.Quizzes(), cat.Ads(), feed.DefaultLayout())

	var buf bytes.Buffer
	printLayout(&buf, items)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 1+len(items)+2)
	assert.Equal(t, "=== Feed Layout ===", lines[0])
	assert.Contains(t, lines[1+5], "quiz")
	assert.Contains(t, lines[1+5], "What does this comprehension produce? [x**2 for x in range(5) if x % 2 == 0]")
	assert.Contains(t, lines[1+6], "lesson")
	assert.Contains(t, lines[len(lines)-1], "20 items: 16 lessons, 3 quizzes, 1 ads")
}
