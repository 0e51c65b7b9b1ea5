package storage_test

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tesh254/pbdocs/internal/storage"
)

func TestFileStore_Write(t *testing.T) {
	t.Parallel()

	fs := afero.NewMemMapFs()
	st, err := storage.NewFileStore(fs, "jsdocs")
	require.NoError(t, err)

	require.NoError(t, st.Write("js-records.md", "# Records\n"))

	got, err := afero.ReadFile(fs, "jsdocs/js-records.md")
	require.NoError(t, err)
	assert.Equal(t, "# Records\n", string(got))

	require.NoError(t, st.Write("js-records.md", "updated"))
	got, err = afero.ReadFile(fs, "jsdocs/js-records.md")
	require.NoError(t, err)
	assert.Equal(t, "updated", string(got))
}

func TestFileStore_WriteRejectsEscapingNames(t *testing.T) {
	t.Parallel()

	st, err := storage.NewFileStore(afero.NewMemMapFs(), "jsdocs")
	require.NoError(t, err)

	for _, name := range []string{"", "..", "../x.md", "sub/x.md"} {
		assert.ErrorIs(t, st.Write(name, "x"), storage.ErrInvalidName, name)
	}
}

func TestFileStore_WriteFailure(t *testing.T) {
	t.Parallel()

	base := afero.NewMemMapFs()
	require.NoError(t, base.MkdirAll("jsdocs", 0o755))
	st, err := storage.NewFileStore(afero.NewReadOnlyFs(base), "jsdocs")
	require.NoError(t, err)

	assert.Error(t, st.Write("js-records.md", "x"))
}

func TestFileStore_ListAndClean(t *testing.T) {
	t.Parallel()

	fs := afero.NewMemMapFs()
	st, err := storage.NewFileStore(fs, "out")
	require.NoError(t, err)

	require.NoError(t, st.Write("b.md", "bb"))
	require.NoError(t, st.Write("a.md", "a"))
	require.NoError(t, afero.WriteFile(fs, "out/notes.txt", []byte("keep"), 0o644))

	files, err := st.List()
	require.NoError(t, err)
	assert.Equal(t, []storage.File{{Name: "a.md", Size: 1}, {Name: "b.md", Size: 2}}, files)

	n, err := st.Clean()
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	files, err = st.List()
	require.NoError(t, err)
	assert.Empty(t, files)

	exists, err := afero.Exists(fs, "out/notes.txt")
	require.NoError(t, err)
	assert.True(t, exists)
}
