package scrapestate

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileIsEmpty(t *testing.T) {
	state, err := Load(t.TempDir(), "sfbos")
	require.NoError(t, err)
	require.Equal(t, 0, state.Len())
	require.False(t, state.Contains("deadbeef00000000"))
}

func TestSaveRoundTrip(t *testing.T) {
	dir := t.TempDir()

	state, err := Load(dir, "sfbos")
	require.NoError(t, err)
	state.MarkSeen("aaaa000000000001")
	state.MarkSeen("aaaa000000000002")
	require.NoError(t, state.Save())

	loaded, err := Load(dir, "sfbos")
	require.NoError(t, err)
	require.Equal(t, 2, loaded.Len())
	require.True(t, loaded.Contains("aaaa000000000001"))
	require.True(t, loaded.Contains("aaaa000000000002"))
	require.False(t, loaded.LastUpdated.IsZero())
}

func TestMarkSeenDoesNotPersistWithoutSave(t *testing.T) {
	dir := t.TempDir()

	state, err := Load(dir, "sfbos")
	require.NoError(t, err)
	state.MarkSeen("aaaa000000000001")

	loaded, err := Load(dir, "sfbos")
	require.NoError(t, err)
	require.Equal(t, 0, loaded.Len())
}

func TestLoadCorruptFile(t *testing.T) {
	dir := t.TempDir()
	err := os.WriteFile(filepath.Join(dir, "sfbos_state.json"), []byte("{not json"), 0o644)
	require.NoError(t, err)

	_, err = Load(dir, "sfbos")
	require.ErrorIs(t, err, ErrCorrupt)
}

func TestSaveDoesNotLeaveTempFile(t *testing.T) {
	dir := t.TempDir()

	state, err := Load(dir, "sfbos")
	require.NoError(t, err)
	state.MarkSeen("aaaa000000000001")
	require.NoError(t, state.Save())

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.Equal(t, "sfbos_state.json", entries[0].Name())
}

func TestReset(t *testing.T) {
	dir := t.TempDir()

	state, err := Load(dir, "sfbos")
	require.NoError(t, err)
	state.MarkSeen("aaaa000000000001")
	require.NoError(t, state.Save())

	state.Reset()
	require.NoError(t, state.Save())

	loaded, err := Load(dir, "sfbos")
	require.NoError(t, err)
	require.Equal(t, 0, loaded.Len())
}

func TestStatesPerSourceAreIndependent(t *testing.T) {
	dir := t.TempDir()

	sfbos, err := Load(dir, "sfbos")
	require.NoError(t, err)
	sfbos.MarkSeen("aaaa000000000001")
	require.NoError(t, sfbos.Save())

	legistar, err := Load(dir, "legistar")
	require.NoError(t, err)
	require.False(t, legistar.Contains("aaaa000000000001"))
}
