package watch

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"io/fs"
	"sync"

	"github.com/spf13/afero"
)

// ContentTracker remembers the content hash of every file it has seen, so a
// save that leaves a document byte-identical does not trigger a rerun.
type ContentTracker struct {
	fs     afero.Fs
	mu     sync.Mutex
	hashes map[string]string
}

func NewContentTracker(fsys afero.Fs) *ContentTracker {
	return &ContentTracker{fs: fsys, hashes: make(map[string]string)}
}

// HashContent computes a SHA-256 hash of the given content
func HashContent(content []byte) string {
	sum := sha256.Sum256(content)
	return hex.EncodeToString(sum[:])
}

// Changed returns the files whose content differs from the last call that
// saw them. A file that no longer exists is changed if it existed before.
func (t *ContentTracker) Changed(files []string) ([]string, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	var changed []string
	for _, file := range files {
		data, err := afero.ReadFile(t.fs, file)
		if errors.Is(err, fs.ErrNotExist) {
			if _, seen := t.hashes[file]; seen {
				delete(t.hashes, file)
				changed = append(changed, file)
			}
			continue
		}
		if err != nil {
			return nil, err
		}

		sum := HashContent(data)
		if t.hashes[file] != sum {
			t.hashes[file] = sum
			changed = append(changed, file)
		}
	}
	return changed, nil
}

// Seed records the current content of files without reporting them.
func (t *ContentTracker) Seed(files []string) error {
	_, err := t.Changed(files)
	return err
}
