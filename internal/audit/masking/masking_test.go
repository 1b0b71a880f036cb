package masking

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMaskSecret(t *testing.T) {
	assert.Equal(t, "", MaskSecret("  "))
	assert.Equal(t, "****", MaskSecret("short"))
	assert.Equal(t, "****7890", MaskSecret("abcdef1234567890"))
}

func TestMaskSensitive(t *testing.T) {
	out := MaskSensitive(map[string]any{
		"username": "kim",
		"password": "hunter2hunter2",
		"":         "dropped",
		"nested":   map[string]any{"apiToken": 12345, "name": "x"},
	})

	assert.Equal(t, "kim", out["username"])
	assert.Equal(t, "****ter2", out["password"])
	assert.NotContains(t, out, "")
	nested := out["nested"].(map[string]any)
	assert.Equal(t, "****", nested["apiToken"])
	assert.Equal(t, "x", nested["name"])
}
