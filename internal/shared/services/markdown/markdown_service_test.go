package markdown

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToSafeHTML(t *testing.T) {
	svc := NewMarkdownService()

	t.Run("renders emphasis", func(t *testing.T) {
		out, err := svc.ToSafeHTML("Please check the **plural** form")
		require.NoError(t, err)
		assert.Contains(t, out, "<strong>plural</strong>")
	})

	t.Run("strips scripts", func(t *testing.T) {
		out, err := svc.ToSafeHTML("hello <script>alert(1)</script>")
		require.NoError(t, err)
		assert.NotContains(t, out, "<script>")
		assert.Contains(t, out, "hello")
	})

	t.Run("links get nofollow", func(t *testing.T) {
		out, err := svc.ToSafeHTML("see https://example.org/glossary")
		require.NoError(t, err)
		assert.Contains(t, out, `href="https://example.org/glossary"`)
		assert.Contains(t, out, `rel="nofollow`)
	})
}
