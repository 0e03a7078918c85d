package persistence

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"valeod/internal/structures"
	"valeod/internal/testutil"
)

func TestNewStorage_FileBackend(t *testing.T) {
	conf := &structures.Config{
		Storage: structures.StorageConfig{
			Backend:  "file",
			FilePath: filepath.Join(t.TempDir(), "mappings.bin"),
		},
	}
	comp, err := NewZstdCompressor()
	require.NoError(t, err)

	storage, err := NewStorage(conf, comp, &testutil.MockLogger{})
	require.NoError(t, err)
	assert.Equal(t, "file", storage.Backend())
}
