package sinks

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tarungka/rxwire/sources"
)

func TestFileSink_WritesOneValuePerLine(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "out.txt")

	sink, err := NewFileSink(path)
	require.NoError(t, err)
	assert.Equal(t, path, sink.Path())

	sources.NewRange(-1, 4).Subscribe(sink)
	require.NoError(t, sink.Err())
	require.NoError(t, sink.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "-1\n0\n1\n2\n", string(data))
}

func TestFileSink_Appends(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.txt")

	for _, start := range []int{0, 10} {
		sink, err := NewFileSink(path)
		require.NoError(t, err)
		sources.NewRange(start, 2).Subscribe(sink)
		require.NoError(t, sink.Close())
	}

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "0\n1\n10\n11\n", string(data))
}

func TestFileSink_MissingPath(t *testing.T) {
	_, err := NewFileSink("")
	assert.ErrorIs(t, err, ErrMissingConfig)
}
