package storage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func backends(t *testing.T) map[string]KV {
	t.Helper()

	sqliteKV, err := NewSQLite(DefaultConfig(filepath.Join(t.TempDir(), "nested", "gatewise.db")))
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqliteKV.Close() })

	fileKV, err := NewFileKV(filepath.Join(t.TempDir(), "documents"))
	require.NoError(t, err)

	return map[string]KV{
		"memory": NewMemory(),
		"sqlite": sqliteKV,
		"file":   fileKV,
	}
}

func TestKV_PutGetDelete(t *testing.T) {
	for name, kv := range backends(t) {
		t.Run(name, func(t *testing.T) {
			_, ok, err := kv.Get("gate-progress-storage")
			require.NoError(t, err)
			assert.False(t, ok, "missing key should read as absent")

			require.NoError(t, kv.Put("gate-progress-storage", []byte(`{"currentBranch":"CS"}`)))
			got, ok, err := kv.Get("gate-progress-storage")
			require.NoError(t, err)
			require.True(t, ok)
			assert.JSONEq(t, `{"currentBranch":"CS"}`, string(got))

			// Put replaces.
			require.NoError(t, kv.Put("gate-progress-storage", []byte(`{"currentBranch":"EE"}`)))
			got, _, err = kv.Get("gate-progress-storage")
			require.NoError(t, err)
			assert.JSONEq(t, `{"currentBranch":"EE"}`, string(got))

			require.NoError(t, kv.Delete("gate-progress-storage"))
			_, ok, err = kv.Get("gate-progress-storage")
			require.NoError(t, err)
			assert.False(t, ok)

			// Deleting twice is fine.
			require.NoError(t, kv.Delete("gate-progress-storage"))
		})
	}
}

func TestKV_ClosedBackendErrors(t *testing.T) {
	for name, kv := range backends(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, kv.Close())
			assert.ErrorIs(t, kv.Put("k", []byte(`1`)), ErrClosed)
			_, _, err := kv.Get("k")
			assert.ErrorIs(t, err, ErrClosed)
		})
	}
}

func TestSQLite_PersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gatewise.db")

	first, err := NewSQLite(DefaultConfig(path))
	require.NoError(t, err)
	require.NoError(t, first.Put("gate-settings-storage", []byte(`{"theme":"dark"}`)))
	require.NoError(t, first.Close())

	second, err := NewSQLite(DefaultConfig(path))
	require.NoError(t, err)
	defer func() { _ = second.Close() }()

	got, ok, err := second.Get("gate-settings-storage")
	require.NoError(t, err)
	require.True(t, ok)
	assert.JSONEq(t, `{"theme":"dark"}`, string(got))
	assert.FileExists(t, path)
}

func TestFileKV_CorruptedFileReadsAsAbsent(t *testing.T) {
	dir := t.TempDir()
	kv, err := NewFileKV(dir)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "gate-pyq-storage.json"), []byte("not json {{{"), 0644))

	_, ok, err := kv.Get("gate-pyq-storage")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestFileKV_SanitizesKeys(t *testing.T) {
	dir := t.TempDir()
	kv, err := NewFileKV(dir)
	require.NoError(t, err)

	require.NoError(t, kv.Put("../escape/attempt", []byte(`true`)))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, ".._escape_attempt.json", entries[0].Name())
}

func TestMemory_KeysSorted(t *testing.T) {
	m := NewMemory()
	require.NoError(t, m.Put("b", []byte(`1`)))
	require.NoError(t, m.Put("a", []byte(`2`)))
	assert.Equal(t, []string{"a", "b"}, m.Keys())
}
