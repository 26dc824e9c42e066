package state

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func newTestStore(t *testing.T) (*SeenOrderStore, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "seen_order_ids.json")
	return NewSeenOrderStore(path, zap.NewNop()), path
}

func TestSeenOrderStore_MissingFile(t *testing.T) {
	store, _ := newTestStore(t)
	assert.Equal(t, 0, store.Size())
	assert.False(t, store.Contains("anything"))
}

func TestSeenOrderStore_MarkAndContains(t *testing.T) {
	store, _ := newTestStore(t)

	require.NoError(t, store.Mark("A-1"))
	assert.True(t, store.Contains("A-1"))
	assert.False(t, store.Contains("B-2"))
	assert.Equal(t, 1, store.Size())
}

func TestSeenOrderStore_MarkIsIdempotent(t *testing.T) {
	store, path := newTestStore(t)

	require.NoError(t, store.Mark("A-1"))
	require.NoError(t, store.Mark("A-1"))

	assert.Equal(t, 1, store.Size())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var file stateFile
	require.NoError(t, json.Unmarshal(data, &file))
	assert.Equal(t, []string{"A-1"}, file.SeenOrderIDs)
}

func TestSeenOrderStore_PersistenceRoundTrip(t *testing.T) {
	store, path := newTestStore(t)

	ids := []string{"A-1", "B-2", "C-3"}
	for _, id := range ids {
		require.NoError(t, store.Mark(id))
	}

	reloaded := NewSeenOrderStore(path, zap.NewNop())
	assert.Equal(t, len(ids), reloaded.Size())
	for _, id := range ids {
		assert.True(t, reloaded.Contains(id), "expected %s to survive reload", id)
	}
}

func TestSeenOrderStore_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seen_order_ids.json")
	require.NoError(t, os.WriteFile(path, []byte("{not valid json"), 0644))

	core, logs := observer.New(zapcore.WarnLevel)
	store := NewSeenOrderStore(path, zap.New(core))

	assert.Equal(t, 0, store.Size())
	assert.Equal(t, 1, logs.FilterLevelExact(zapcore.WarnLevel).Len(),
		"malformed state file should log exactly one warning")
}

func TestSeenOrderStore_CorruptFileRecoversOnMark(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seen_order_ids.json")
	require.NoError(t, os.WriteFile(path, []byte("garbage"), 0644))

	store := NewSeenOrderStore(path, zap.NewNop())
	require.NoError(t, store.Mark("A-1"))

	reloaded := NewSeenOrderStore(path, zap.NewNop())
	assert.True(t, reloaded.Contains("A-1"))
	assert.Equal(t, 1, reloaded.Size())
}

func TestSeenOrderStore_EmptyIDsIgnoredOnLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seen_order_ids.json")
	require.NoError(t, os.WriteFile(path,
		[]byte(`{"seen_order_ids": ["A-1", "", "B-2"]}`), 0644))

	store := NewSeenOrderStore(path, zap.NewNop())
	assert.Equal(t, 2, store.Size())
	assert.False(t, store.Contains(""))
}

func TestSeenOrderStore_PersistFailureKeepsInMemoryMark(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("directory permissions are not enforced for root")
	}

	dir := t.TempDir()
	path := filepath.Join(dir, "seen_order_ids.json")
	store := NewSeenOrderStore(path, zap.NewNop())

	// Make the directory unwritable so the rewrite fails.
	require.NoError(t, os.Chmod(dir, 0555))
	t.Cleanup(func() { _ = os.Chmod(dir, 0755) })

	err := store.Mark("A-1")
	assert.Error(t, err)
	// The identifier stays seen in memory even though the durable copy is stale.
	assert.True(t, store.Contains("A-1"))
}
