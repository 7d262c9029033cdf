package watch

import (
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func TestFileWatcher_ReportsMetadataChanges(t *testing.T) {
	dir := t.TempDir()
	doc := filepath.Join(dir, "hero.metadata.json")
	require.NoError(t, os.WriteFile(doc, []byte(`{"version": 3, "metadata": {}}`), 0o644))

	var mu sync.Mutex
	var batches [][]string
	fw, err := NewFileWatcher(Options{
		Suffix:   ".metadata.json",
		Debounce: 50 * time.Millisecond,
		Logger:   zaptest.NewLogger(t),
	}, func(files []string) error {
		mu.Lock()
		defer mu.Unlock()
		batches = append(batches, files)
		return nil
	})
	require.NoError(t, err)
	defer fw.Stop()

	require.NoError(t, fw.Start([]string{dir}))

	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignored"), 0o644))
	require.NoError(t, os.WriteFile(doc, []byte(`{"version": 3, "metadata": {"A": 1}}`), 0o644))

	assert.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(batches) > 0
	}, 2*time.Second, 20*time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []string{doc}, batches[0])
}

func TestFileWatcher_StopTwice(t *testing.T) {
	fw, err := NewFileWatcher(Options{}, func([]string) error { return nil })
	require.NoError(t, err)
	require.NoError(t, fw.Start(nil))

	assert.NoError(t, fw.Stop())
	assert.NoError(t, fw.Stop())
}

func TestDebouncer_CoalescesBursts(t *testing.T) {
	var mu sync.Mutex
	var calls [][]string

	d := NewDebouncer(30 * time.Millisecond)
	d.SetCallback(func(files []string) {
		mu.Lock()
		defer mu.Unlock()
		calls = append(calls, files)
	})

	d.Add("b.metadata.json")
	d.Add("a.metadata.json")
	d.Add("b.metadata.json")

	assert.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(calls) == 1
	}, time.Second, 10*time.Millisecond)

	mu.Lock()
	assert.Equal(t, []string{"a.metadata.json", "b.metadata.json"}, calls[0])
	mu.Unlock()
}

func TestDebouncer_StopDropsPending(t *testing.T) {
	called := make(chan struct{}, 1)
	d := NewDebouncer(20 * time.Millisecond)
	d.SetCallback(func([]string) { called <- struct{}{} })

	d.Add("a")
	d.Stop()
	d.Add("b")

	select {
	case <-called:
		t.Fatal("callback ran after Stop")
	case <-time.After(80 * time.Millisecond):
	}
}

func TestDirectories(t *testing.T) {
	fs := afero.NewMemMapFs()
	for _, dir := range []string{"/proj/app/feature", "/proj/.git/objects", "/proj/generated", "/proj/node_modules/angular2"} {
		require.NoError(t, fs.MkdirAll(dir, 0o755))
	}

	dirs, err := Directories(fs, "/proj", []string{"generated"})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{
		"/proj",
		"/proj/app",
		"/proj/app/feature",
		"/proj/node_modules",
		"/proj/node_modules/angular2",
	}, dirs)

	_, err = Directories(fs, "/missing", nil)
	assert.Error(t, err)
}

func TestFiles(t *testing.T) {
	fs := afero.NewMemMapFs()
	for _, f := range []string{
		"/proj/app/hero.metadata.json",
		"/proj/app/hero.js",
		"/proj/generated/hero.ngfactory.metadata.json",
		"/proj/.cache/x.metadata.json",
	} {
		require.NoError(t, afero.WriteFile(fs, f, []byte("{}"), 0o644))
	}

	files, err := Files(fs, "/proj", ".metadata.json", []string{"generated"})
	require.NoError(t, err)
	assert.Equal(t, []string{"/proj/app/hero.metadata.json"}, files)
}

func TestContentTracker(t *testing.T) {
	fs := afero.NewMemMapFs()
	a := "/app/a.metadata.json"
	b := "/app/b.metadata.json"
	require.NoError(t, afero.WriteFile(fs, a, []byte("one"), 0o644))
	require.NoError(t, afero.WriteFile(fs, b, []byte("two"), 0o644))

	tracker := NewContentTracker(fs)
	require.NoError(t, tracker.Seed([]string{a, b}))

	changed, err := tracker.Changed([]string{a, b})
	require.NoError(t, err)
	assert.Empty(t, changed, "unchanged content is not reported")

	require.NoError(t, afero.WriteFile(fs, a, []byte("one, edited"), 0o644))
	changed, err = tracker.Changed([]string{a, b})
	require.NoError(t, err)
	assert.Equal(t, []string{a}, changed)

	require.NoError(t, fs.Remove(b))
	changed, err = tracker.Changed([]string{b, "/app/never.metadata.json"})
	require.NoError(t, err)
	assert.Equal(t, []string{b}, changed)
}

func TestHashContent(t *testing.T) {
	assert.Equal(t, HashContent([]byte("x")), HashContent([]byte("x")))
	assert.NotEqual(t, HashContent([]byte("x")), HashContent([]byte("y")))
	assert.Len(t, HashContent(nil), 64)
}
