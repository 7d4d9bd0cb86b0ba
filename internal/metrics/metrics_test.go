package metrics

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteTextfile(t *testing.T) {
	before := testutil.ToFloat64(EmojiRemoved)
	EmojiRemoved.Add(3)
	assert.InDelta(t, before+3, testutil.ToFloat64(EmojiRemoved), 1e-9)

	path := filepath.Join(t.TempDir(), "scrub.prom")
	require.NoError(t, WriteTextfile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "emojiscrub_emoji_removed_total")
}

func TestWriteTextfileDisabled(t *testing.T) {
	assert.NoError(t, WriteTextfile(""))
}
