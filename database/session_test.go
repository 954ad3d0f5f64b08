package database

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionValuesAreTabScoped(t *testing.T) {
	store := newTestStore(t)
	a, b := store.Tab("a"), store.Tab("b")

	require.NoError(t, SetSessionValue(a, PreviewFontKey("x.txt"), "20"))
	v, ok := GetSessionValue(a, PreviewFontKey("x.txt"))
	assert.True(t, ok)
	assert.Equal(t, "20", v)

	_, ok = GetSessionValue(b, PreviewFontKey("x.txt"))
	assert.False(t, ok)

	require.NoError(t, a.Close())
	_, ok = GetSessionValue(a, PreviewFontKey("x.txt"))
	assert.False(t, ok)
}

func TestSessionValuesDoNotSurviveReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "s.db")
	store, err := Init(path)
	require.NoError(t, err)
	require.NoError(t, SetSessionValue(store.Tab("a"), PreviewVideoKey("v.mp4"), "42"))
	require.NoError(t, SetFallbackProgress(store, 30))
	require.NoError(t, store.Close())

	store, err = Init(path)
	require.NoError(t, err)
	defer store.Close()

	_, ok := GetSessionValue(store.Tab("a"), PreviewVideoKey("v.mp4"))
	assert.False(t, ok)
	assert.Equal(t, 30, GetFallbackProgress(store))
}

func TestGenerateSession(t *testing.T) {
	a, b := GenerateSession(), GenerateSession()
	assert.Len(t, a, 64)
	assert.NotEqual(t, a, b)
	assert.Len(t, newTestStore(t).Tab("").Origin(), 64)
}
