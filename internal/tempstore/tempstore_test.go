package tempstore

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStorage_ScopeLifecycle(t *testing.T) {
	s, err := New(filepath.Join(t.TempDir(), "jobs"))
	require.NoError(t, err)

	scope, err := s.NewScope("job-1")
	require.NoError(t, err)

	path := scope.Path("input.docx")
	require.NoError(t, os.WriteFile(path, []byte("data"), 0644))
	require.NoError(t, os.WriteFile(scope.Path("result.pdf"), []byte("pdf"), 0644))

	scope.Cleanup()

	_, err = os.Stat(scope.Dir())
	assert.True(t, os.IsNotExist(err), "cleanup removes every artifact of the job")

	entries, err := os.ReadDir(s.Root())
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestStorage_ScopeKeyCollision(t *testing.T) {
	s, err := New(filepath.Join(t.TempDir(), "jobs"))
	require.NoError(t, err)

	_, err = s.NewScope("job-1")
	require.NoError(t, err)

	// Повторный ключ даёт ошибку, а не переиспользование каталога.
	_, err = s.NewScope("job-1")
	assert.Error(t, err)

	_, err = s.NewScope("")
	assert.Error(t, err)
}

func TestScope_CleanupIdempotent(t *testing.T) {
	s, err := New(filepath.Join(t.TempDir(), "jobs"))
	require.NoError(t, err)

	scope, err := s.NewScope("job-1")
	require.NoError(t, err)

	scope.Cleanup()
	scope.Cleanup() // второй вызов не паникует и ничего не ломает

	_, err = os.Stat(scope.Dir())
	assert.True(t, os.IsNotExist(err))
}
