package prompt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRender(t *testing.T) {
	out, err := Render(Decompose, map[string]any{"goal": "Learn Python's basics", "min": 3, "max": 5})
	require.NoError(t, err)
	assert.Contains(t, out, `"Learn Python's basics"`)
	assert.Contains(t, out, "3 to 5")
}

func TestRender_FastPathAndErrors(t *testing.T) {
	out, err := Render("plain text", nil)
	require.NoError(t, err)
	assert.Equal(t, "plain text", out)

	_, err = Render("{{ .missing }}", map[string]any{})
	assert.Error(t, err)

	_, err = Render("{{ .broken", map[string]any{})
	assert.Error(t, err)
}

func TestRender_Funcs(t *testing.T) {
	out, err := Render(`{{ upper .a }} {{ default "x" .b }} {{ truncate 3 .c }}`, map[string]any{"a": "go", "b": "", "c": "abcdef"})
	require.NoError(t, err)
	assert.Equal(t, "GO x abc", out)
}
