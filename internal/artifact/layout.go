package artifact

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/spf13/afero"
)

const (
	TranscriptFile = "transcript.txt"
	SRTFile        = "captions.srt"
	VTTFile        = "captions.vtt"
	FullTextFile   = "full.txt"
	SummaryFile    = "summary.md"
)

var unsafeChars = regexp.MustCompile(`[^A-Za-z0-9._-]`)

// DirName turns an input file path into its output directory name: the file
// stem with every character outside [A-Za-z0-9._-] replaced by "_".
func DirName(inputPath string) string {
	base := filepath.Base(inputPath)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	return unsafeChars.ReplaceAllString(stem, "_")
}

// OutputDir is the per-file artifact directory under root.
func OutputDir(root, inputPath string) string {
	return filepath.Join(root, DirName(inputPath))
}

// IsComplete reports whether dir holds both the transcript and the summary.
// It checks presence only, not content.
func IsComplete(fs afero.Fs, dir string) bool {
	for _, name := range []string{TranscriptFile, SummaryFile} {
		ok, err := afero.Exists(fs, filepath.Join(dir, name))
		if err != nil || !ok {
			return false
		}
	}
	return true
}

// EnsureDir creates dir and its parents. Calling it on an existing directory
// is a no-op.
func EnsureDir(fs afero.Fs, dir string) error {
	if err := fs.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create directory %s: %w", dir, err)
	}
	return nil
}

// writeFileAtomic writes data to a temp file next to path and renames it into
// place, so a reader never sees a half-written file.
func writeFileAtomic(fs afero.Fs, path string, data []byte) error {
	tmp, err := afero.TempFile(fs, filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp for %s: %w", path, err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		fs.Remove(tmpName)
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		fs.Remove(tmpName)
		return fmt.Errorf("close %s: %w", path, err)
	}
	if err := fs.Chmod(tmpName, 0644); err != nil {
		fs.Remove(tmpName)
		return fmt.Errorf("chmod %s: %w", path, err)
	}
	if err := fs.Rename(tmpName, path); err != nil {
		fs.Remove(tmpName)
		return fmt.Errorf("rename %s: %w", path, err)
	}
	return nil
}
