package hotfolder

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/labelkit/internal/core/domain"
)

type upload struct {
	path     string
	format   domain.UploadFormat
	splitter string
}

type mockUploader struct {
	mu      sync.Mutex
	uploads []upload
	err     error
}

func (m *mockUploader) Upload(_ context.Context, path string, format domain.UploadFormat, splitter string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.uploads = append(m.uploads, upload{path: path, format: format, splitter: splitter})
	return m.err
}

func (m *mockUploader) calls() []upload {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]upload(nil), m.uploads...)
}

func TestNew_Validation(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "a.txt")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0o644))

	_, err := New(Config{Dir: dir, Format: "audio"}, &mockUploader{})
	assert.ErrorIs(t, err, domain.ErrUnsupportedFormat)

	_, err = New(Config{Dir: filepath.Join(dir, "missing"), Format: domain.UploadPlain}, &mockUploader{})
	assert.Error(t, err)

	_, err = New(Config{Dir: file, Format: domain.UploadPlain}, &mockUploader{})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	w, err := New(Config{Dir: dir, Format: domain.UploadPlain}, &mockUploader{})
	require.NoError(t, err)
	assert.Equal(t, DefaultSettle, w.cfg.Settle)
}

func TestWatcher_HandleEvent(t *testing.T) {
	dir := t.TempDir()
	write := func(name string) string {
		p := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(p, []byte("content"), 0o644))
		return p
	}
	txt := write("docs.txt")
	upper := write("UPPER.TXT")
	csv := write("table.csv")
	hidden := write(".hidden.txt")
	sub := filepath.Join(dir, "nested.txt")
	require.NoError(t, os.Mkdir(sub, 0o755))

	w, err := New(Config{Dir: dir, Format: domain.UploadPlain}, &mockUploader{})
	require.NoError(t, err)

	tests := []struct {
		name string
		ev   fsnotify.Event
		want bool
	}{
		{"create accepted file", fsnotify.Event{Name: txt, Op: fsnotify.Create}, true},
		{"write accepted file", fsnotify.Event{Name: txt, Op: fsnotify.Write}, true},
		{"extension is case-insensitive", fsnotify.Event{Name: upper, Op: fsnotify.Create}, true},
		{"other extension", fsnotify.Event{Name: csv, Op: fsnotify.Create}, false},
		{"hidden file", fsnotify.Event{Name: hidden, Op: fsnotify.Create}, false},
		{"directory", fsnotify.Event{Name: sub, Op: fsnotify.Create}, false},
		{"remove", fsnotify.Event{Name: txt, Op: fsnotify.Remove}, false},
		{"chmod", fsnotify.Event{Name: txt, Op: fsnotify.Chmod}, false},
		{"vanished file", fsnotify.Event{Name: filepath.Join(dir, "gone.txt"), Op: fsnotify.Create}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path, ok := w.handleEvent(tt.ev)
			assert.Equal(t, tt.want, ok)
			if tt.want {
				assert.Equal(t, tt.ev.Name, path)
			}
		})
	}
}

func TestWatcher_ScheduleCoalescesWrites(t *testing.T) {
	dir := t.TempDir()
	store := &mockUploader{}
	var done sync.WaitGroup
	done.Add(1)
	w, err := New(Config{
		Dir:      dir,
		Format:   domain.UploadCSV,
		Splitter: ";",
		Settle:   50 * time.Millisecond,
		OnUpload: func(string, error) { done.Done() },
	}, store)
	require.NoError(t, err)

	path := filepath.Join(dir, "batch.csv")
	for range 5 {
		w.schedule(context.Background(), path)
	}
	done.Wait()
	w.stop()

	calls := store.calls()
	require.Len(t, calls, 1)
	assert.Equal(t, upload{path: path, format: domain.UploadCSV, splitter: ";"}, calls[0])
}

func TestWatcher_StopCancelsPending(t *testing.T) {
	store := &mockUploader{}
	w, err := New(Config{Dir: t.TempDir(), Format: domain.UploadPlain, Settle: time.Hour}, store)
	require.NoError(t, err)

	w.schedule(context.Background(), "/tmp/a.txt")
	w.stop()

	assert.Empty(t, store.calls())
}

func TestWatcher_UploadFailureIsReported(t *testing.T) {
	store := &mockUploader{err: errors.New("server down")}
	var got error
	w, err := New(Config{
		Dir:      t.TempDir(),
		Format:   domain.UploadPlain,
		OnUpload: func(_ string, err error) { got = err },
	}, store)
	require.NoError(t, err)

	w.upload(context.Background(), "a.txt")

	assert.EqualError(t, got, "server down")
}

func TestWatcher_RunUploadsNewFile(t *testing.T) {
	dir := t.TempDir()
	store := &mockUploader{}
	w, err := New(Config{Dir: dir, Format: domain.UploadJSON, Settle: 20 * time.Millisecond}, store)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- w.Run(ctx) }()

	path := filepath.Join(dir, "new.json")
	// The watch is registered asynchronously; keep touching the file
	// until an upload is seen.
	assert.Eventually(t, func() bool {
		_ = os.WriteFile(path, []byte(`[{"text":"a"}]`), 0o644)
		return len(store.calls()) > 0
	}, 5*time.Second, 50*time.Millisecond)

	cancel()
	require.NoError(t, <-errCh)
	assert.Equal(t, path, store.calls()[0].path)
	assert.Equal(t, domain.UploadJSON, store.calls()[0].format)
}
