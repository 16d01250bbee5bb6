package artifact

import (
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDirName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"/videos/lecture-01.mp4", "lecture-01"},
		{"My Talk (final).mp4", "My_Talk__final_"},
		{"data/a.b_c.mp4", "a.b_c"},
		{"héllo wörld.mp4", "h_llo_w_rld"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, DirName(tt.in), "DirName(%q)", tt.in)
	}
	assert.Equal(t, filepath.Join("out", "My_Talk"), OutputDir("out", "in/My Talk.mp4"))
}

func TestIsComplete(t *testing.T) {
	all := []string{TranscriptFile, SRTFile, VTTFile, FullTextFile, SummaryFile}

	// every subset of the five artifacts; complete iff transcript and summary are both there
	for mask := 0; mask < 1<<len(all); mask++ {
		fs := afero.NewMemMapFs()
		dir := "/out/talk"
		require.NoError(t, EnsureDir(fs, dir))

		present := map[string]bool{}
		for i, name := range all {
			if mask&(1<<i) != 0 {
				present[name] = true
				require.NoError(t, afero.WriteFile(fs, filepath.Join(dir, name), []byte("x"), 0644))
			}
		}

		want := present[TranscriptFile] && present[SummaryFile]
		assert.Equal(t, want, IsComplete(fs, dir), "present=%v", present)
	}
}

func TestIsComplete_MissingDir(t *testing.T) {
	assert.False(t, IsComplete(afero.NewMemMapFs(), "/nope"))
}

func TestEnsureDir_Idempotent(t *testing.T) {
	fs := afero.NewMemMapFs()
	dir := "/out/talk"

	require.NoError(t, EnsureDir(fs, dir))
	require.NoError(t, afero.WriteFile(fs, filepath.Join(dir, TranscriptFile), []byte("keep"), 0644))
	require.NoError(t, EnsureDir(fs, dir))

	ok, err := afero.DirExists(fs, dir)
	require.NoError(t, err)
	assert.True(t, ok)

	data, err := afero.ReadFile(fs, filepath.Join(dir, TranscriptFile))
	require.NoError(t, err)
	assert.Equal(t, "keep", string(data))
}

func TestWriteFileAtomic_LeavesNoTempFiles(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, EnsureDir(fs, "/d"))

	require.NoError(t, writeFileAtomic(fs, "/d/full.txt", []byte("one")))
	require.NoError(t, writeFileAtomic(fs, "/d/full.txt", []byte("two")))

	entries, err := afero.ReadDir(fs, "/d")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "full.txt", entries[0].Name())

	data, err := afero.ReadFile(fs, "/d/full.txt")
	require.NoError(t, err)
	assert.Equal(t, "two", string(data))
}
