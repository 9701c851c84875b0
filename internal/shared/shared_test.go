package shared

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeTrackKey(t *testing.T) {
	tc := []struct {
		name   string
		title  string
		artist string
		want   string
	}{
		{name: "lowercases", title: "Shape Of You", artist: "Ed Sheeran", want: "shape of you|ed sheeran"},
		{name: "collapses whitespace", title: "  Shape   of  You ", artist: " Ed  Sheeran ", want: "shape of you|ed sheeran"},
		{name: "empty artist", title: "Shape of You", artist: "", want: "shape of you|"},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeTrackKey(tt.title, tt.artist))
		})
	}
}

func TestGenerateID(t *testing.T) {
	a := GenerateID()
	b := GenerateID()

	assert.Len(t, a, 36)
	assert.NotEqual(t, a, b)
}

func TestMarshalJSON(t *testing.T) {
	data := map[string]int{"answer": 42}

	compact, err := MarshalJSON(data, false)
	require.NoError(t, err)
	assert.Equal(t, `{"answer":42}`, string(compact))

	pretty, err := MarshalJSON(data, true)
	require.NoError(t, err)
	assert.Contains(t, string(pretty), "\n  ")
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf)
	require.NotNil(t, logger)

	logger.Error("boom", "key", "value")
	output := buf.String()
	assert.Contains(t, output, "boom")
	assert.Contains(t, output, "key")
}
