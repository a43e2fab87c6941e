package file

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) (*ConfigStore, string) {
	t.Helper()
	tmpDir := t.TempDir()
	store, err := NewConfigStore(tmpDir)
	require.NoError(t, err)
	return store, tmpDir
}

func TestNewConfigStore(t *testing.T) {
	store, tmpDir := newTestStore(t)
	assert.Equal(t, filepath.Join(tmpDir, "config.toml"), store.Path())
}

func TestNewConfigStore_DefaultDir(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("Cannot determine home directory")
	}

	store, err := NewConfigStore("")

	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, ".docqa", "config.toml"), store.Path())
}

func TestNewConfigStore_CreatesNestedDirectory(t *testing.T) {
	nested := filepath.Join(t.TempDir(), "state", "docqa")

	store, err := NewConfigStore(nested)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(nested, "config.toml"), store.Path())

	info, err := os.Stat(nested)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
	assert.Equal(t, os.FileMode(0700), info.Mode().Perm())
}

func TestNewConfigStore_MkdirAllError(t *testing.T) {
	store, err := NewConfigStore("/dev/null/cannot/create/dirs")

	assert.Error(t, err)
	assert.Nil(t, store)
}

func TestConfigStore_TypedGetters(t *testing.T) {
	store, _ := newTestStore(t)

	require.NoError(t, store.Set("embedding.provider", "ollama"))
	require.NoError(t, store.Set("chunking.size", 600))
	require.NoError(t, store.Set("verbose", true))

	assert.Equal(t, "ollama", store.GetString("embedding.provider"))
	assert.Equal(t, 600, store.GetInt("chunking.size"))
	assert.True(t, store.GetBool("verbose"))

	// Missing keys read as zero values
	assert.Equal(t, "", store.GetString("llm.provider"))
	assert.Equal(t, 0, store.GetInt("retrieval.top_k"))
	assert.False(t, store.GetBool("missing"))

	// Type mismatches read as zero values
	assert.Equal(t, "", store.GetString("chunking.size"))
	assert.Equal(t, 0, store.GetInt("embedding.provider"))
	assert.False(t, store.GetBool("embedding.provider"))
}

func TestConfigStore_Get_NotFound(t *testing.T) {
	store, _ := newTestStore(t)

	val, ok := store.Get("embedding.api_key")
	assert.False(t, ok)
	assert.Nil(t, val)
}

func TestConfigStore_SetPersistsAcrossInstances(t *testing.T) {
	tmpDir := t.TempDir()

	store1, err := NewConfigStore(tmpDir)
	require.NoError(t, err)
	require.NoError(t, store1.Set("embedding.provider", "openai"))
	require.NoError(t, store1.Set("embedding.model", "text-embedding-3-small"))
	require.NoError(t, store1.Set("chunking.overlap", 90))
	require.NoError(t, store1.Set("llm.provider", ""))

	store2, err := NewConfigStore(tmpDir)
	require.NoError(t, err)

	assert.Equal(t, "openai", store2.GetString("embedding.provider"))
	assert.Equal(t, "text-embedding-3-small", store2.GetString("embedding.model"))
	assert.Equal(t, 90, store2.GetInt("chunking.overlap"))
	assert.Equal(t, "", store2.GetString("llm.provider"))
}

func TestConfigStore_SetOverwrites(t *testing.T) {
	store, _ := newTestStore(t)

	require.NoError(t, store.Set("llm.model", "llama3"))
	require.NoError(t, store.Set("llm.model", "llama3.1"))

	assert.Equal(t, "llama3.1", store.GetString("llm.model"))
}

func TestConfigStore_LoadHandwrittenConfig(t *testing.T) {
	// Hand-written configs use TOML tables; they flatten to dotted keys
	tmpDir := t.TempDir()
	content := []byte(`# docqa configuration
[chunking]
size = 800

[retrieval]
top_k = 3

[embedding]
provider = "ollama"
base_url = "http://localhost:11434"
`)
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "config.toml"), content, 0600))

	store, err := NewConfigStore(tmpDir)
	require.NoError(t, err)

	assert.Equal(t, 800, store.GetInt("chunking.size"))
	assert.Equal(t, 3, store.GetInt("retrieval.top_k"))
	assert.Equal(t, "ollama", store.GetString("embedding.provider"))
	assert.Equal(t, "http://localhost:11434", store.GetString("embedding.base_url"))
}

func TestConfigStore_MissingFileStartsEmpty(t *testing.T) {
	store, _ := newTestStore(t)

	_, ok := store.Get("chunking.size")
	assert.False(t, ok)
}

func TestConfigStore_EmptyFileStartsEmpty(t *testing.T) {
	tmpDir := t.TempDir()
	require.NoError(t, os.WriteFile(
		filepath.Join(tmpDir, "config.toml"), []byte("# comments only\n"), 0600))

	store, err := NewConfigStore(tmpDir)
	require.NoError(t, err)

	_, ok := store.Get("chunking.size")
	assert.False(t, ok)
}

func TestNewConfigStore_CorruptedFile(t *testing.T) {
	tmpDir := t.TempDir()
	require.NoError(t, os.WriteFile(
		filepath.Join(tmpDir, "config.toml"), []byte("not toml {{{[["), 0600))

	store, err := NewConfigStore(tmpDir)

	assert.Error(t, err)
	assert.Nil(t, store)
}

func TestConfigStore_Load_ReadFileError(t *testing.T) {
	store, _ := newTestStore(t)
	require.NoError(t, store.Set("embedding.provider", "ollama"))

	require.NoError(t, os.Chmod(store.Path(), 0000))
	t.Cleanup(func() { _ = os.Chmod(store.Path(), 0600) })

	err := store.Load()
	assert.Error(t, err)
	assert.False(t, os.IsNotExist(err))
}

func TestConfigStore_Set_WriteError(t *testing.T) {
	store, _ := newTestStore(t)
	require.NoError(t, store.Set("embedding.provider", "ollama"))

	// Replace the config file with a directory so the write fails
	require.NoError(t, os.Remove(store.Path()))
	require.NoError(t, os.Mkdir(store.Path(), 0700))

	assert.Error(t, store.Set("llm.provider", "ollama"))
}

func TestConfigStore_Set_UnmarshallableValue(t *testing.T) {
	store, _ := newTestStore(t)

	assert.Error(t, store.Set("bad", make(chan int)))
}

func TestConfigStore_FilePermissions(t *testing.T) {
	store, _ := newTestStore(t)
	require.NoError(t, store.Set("embedding.api_key", "sk-secret"))

	info, err := os.Stat(store.Path())
	require.NoError(t, err)
	// The file carries API keys, so it must not be group or world readable
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
}

func TestConfigStore_TOMLIntegerRoundTrip(t *testing.T) {
	tmpDir := t.TempDir()

	store1, err := NewConfigStore(tmpDir)
	require.NoError(t, err)
	require.NoError(t, store1.Set("watch.interval_seconds", 300))

	// TOML unmarshals integers as int64; GetInt must still read them
	store2, err := NewConfigStore(tmpDir)
	require.NoError(t, err)
	assert.Equal(t, 300, store2.GetInt("watch.interval_seconds"))
}

func TestConfigStore_Concurrency(t *testing.T) {
	store, _ := newTestStore(t)
	keys := []string{"chunking.size", "chunking.overlap", "retrieval.top_k"}

	done := make(chan bool)
	for i := 0; i < 12; i++ {
		go func(i int) {
			key := keys[i%len(keys)]
			_ = store.Set(key, i)
			_ = store.GetInt(key)
			_, _ = store.Get(key)
			done <- true
		}(i)
	}
	for i := 0; i < 12; i++ {
		<-done
	}

	for _, key := range keys {
		_, ok := store.Get(key)
		assert.True(t, ok, key)
	}
}
