package watch

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileWatcher_shouldWatch(t *testing.T) {
	tests := []struct {
		name     string
		patterns []string
		exclude  []string
		path     string
		want     bool
	}{
		{
			name:     "match yaml manifest",
			patterns: []string{"*.yaml"},
			path:     "/project/schemas.yaml",
			want:     true,
		},
		{
			name:     "match nested manifest with ** pattern",
			patterns: []string{"**/*.yaml"},
			path:     "/project/models/billing/schemas.yaml",
			want:     true,
		},
		{
			name:     "match directory pattern",
			patterns: []string{"models/*.yaml"},
			path:     "/project/models/schemas.yaml",
			want:     true,
		},
		{
			name:     "directory pattern needs the directory",
			patterns: []string{"models/*.yaml"},
			path:     "/project/other/schemas.yaml",
			want:     false,
		},
		{
			name:     "no match",
			patterns: []string{"*.yaml", "*.json"},
			path:     "/project/readme.md",
			want:     false,
		},
		{
			name:     "exclude overrides pattern",
			patterns: []string{"*.yaml"},
			exclude:  []string{"docker-compose.yaml"},
			path:     "/project/docker-compose.yaml",
			want:     false,
		},
		{
			name:     "exclude with trailing slash",
			patterns: []string{"*.json", "**/*.json"},
			exclude:  []string{"node_modules/"},
			path:     "/project/node_modules",
			want:     false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fw := &FileWatcher{
				patterns: tt.patterns,
				exclude:  tt.exclude,
			}

			got := fw.shouldWatch(tt.path)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFileWatcher_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	tmpDir := t.TempDir()
	modelsDir := filepath.Join(tmpDir, "models")
	require.NoError(t, os.MkdirAll(modelsDir, 0755))
	generatedDir := filepath.Join(tmpDir, "generated")
	require.NoError(t, os.MkdirAll(generatedDir, 0755))

	// Track events
	var mu sync.Mutex
	seen := make(map[string]bool)
	onChange := func(path string, op fsnotify.Op) {
		mu.Lock()
		defer mu.Unlock()
		seen[filepath.Base(path)] = true
	}

	fw, err := NewFileWatcher([]string{"*.yaml", "**/*.yaml"}, []string{"generated/"}, onChange)
	require.NoError(t, err)
	defer fw.Close()
	require.NoError(t, fw.AddDirectory(tmpDir))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		_ = fw.Start(ctx)
	}()

	// Give watcher time to start
	time.Sleep(100 * time.Millisecond)

	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "schemas.yaml"), []byte("schemas: []"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(modelsDir, "billing.yaml"), []byte("schemas: []"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "notes.txt"), []byte("x"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(generatedDir, "out.yaml"), []byte("x"), 0644))

	assert.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return seen["schemas.yaml"] && seen["billing.yaml"]
	}, 2*time.Second, 20*time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	assert.False(t, seen["notes.txt"], "Should not have event for notes.txt")
	assert.False(t, seen["out.yaml"], "Should not have event for generated output")
}

func TestFileWatcher_Close(t *testing.T) {
	fw, err := NewFileWatcher([]string{"*.yaml"}, nil, func(string, fsnotify.Op) {})
	require.NoError(t, err)

	// Close should not error
	assert.NoError(t, fw.Close())

	// Double close should also be safe
	assert.NoError(t, fw.Close())
}

func TestFileWatcher_StartStopsOnCancel(t *testing.T) {
	fw, err := NewFileWatcher([]string{"*.yaml"}, nil, func(string, fsnotify.Op) {})
	require.NoError(t, err)
	defer fw.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, fw.Start(ctx), context.Canceled)
}

func TestDebouncer(t *testing.T) {
	// Test: A burst of triggers runs the function once
	var calls atomic.Int32
	d := NewDebouncer(50*time.Millisecond, func() { calls.Add(1) })

	for i := 0; i < 5; i++ {
		d.Trigger()
	}
	assert.Eventually(t, func() bool { return calls.Load() == 1 }, time.Second, 10*time.Millisecond)

	// Test: Stop cancels a pending run
	d.Trigger()
	d.Stop()
	time.Sleep(100 * time.Millisecond)
	assert.Equal(t, int32(1), calls.Load())
}
