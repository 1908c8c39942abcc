package markdown

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderer_ToHTML(t *testing.T) {
	r := NewRenderer()

	out, err := r.ToHTML("# Title\n\n- **ID:** RPT-1")
	require.NoError(t, err)
	assert.Contains(t, out, "<h1>Title</h1>")
	assert.Contains(t, out, "<strong>ID:</strong>")
}

func TestRenderer_StripsScripts(t *testing.T) {
	r := NewRenderer()

	out, err := r.ToHTML("hello <script>alert(1)</script> <a href=\"javascript:alert(1)\">x</a>")
	require.NoError(t, err)
	assert.NotContains(t, out, "<script>")
	assert.NotContains(t, out, "javascript:")
}

func TestEscape(t *testing.T) {
	assert.Equal(t, `\*bold\* \_x\_ \<b\>`, Escape("*bold* _x_ <b>"))
	assert.Equal(t, "line one line two", Escape("line one\nline two"))

	r := NewRenderer()
	out, err := r.ToHTML(Escape("**not bold**"))
	require.NoError(t, err)
	assert.NotContains(t, out, "<strong>")
}
