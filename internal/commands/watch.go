package commands

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog/log"

	"github.com/conanfanli/py2ts/internal/watch"
)

const defaultDebounce = 100 * time.Millisecond

// WatchCommand regenerates output whenever a watched file changes
type WatchCommand struct {
	translate *TranslateCommand
	debounce  time.Duration

	// regenerated is signalled after every rebuild, used by tests
	regenerated chan error
}

// NewWatchCommand creates a watch command around a translate command
func NewWatchCommand(translate *TranslateCommand) *WatchCommand {
	return &WatchCommand{translate: translate, debounce: defaultDebounce}
}

// Execute generates once, then regenerates on changes until ctx is done.
// Configuration is reloaded on every rebuild; failed rebuilds are reported
// and watching continues.
func (wc *WatchCommand) Execute(ctx context.Context) error {
	project, err := wc.translate.LoadProject()
	if err != nil {
		return err
	}

	root := project.Dir
	if root == "" {
		root = filepath.Dir(project.ManifestPath())
	}

	// The first run must succeed so a broken setup fails fast
	outcome, err := wc.translate.Generate(ctx, project)
	if err != nil {
		return err
	}

	var mu sync.Mutex
	lastOutput := outcome.Output

	rebuild := func() {
		mu.Lock()
		defer mu.Unlock()

		err := wc.rebuild(ctx, &lastOutput)
		if err != nil {
			log.Error().Err(err).Msg("regeneration failed")
			fmt.Fprintf(wc.translate.out, "❌ %v\n", err)
		}
		if wc.regenerated != nil {
			wc.regenerated <- err
		}
	}
	debouncer := watch.NewDebouncer(wc.debounce, rebuild)
	defer debouncer.Stop()

	cfg := project.Config
	fw, err := watch.NewFileWatcher(cfg.Watch.Patterns, cfg.Watch.Exclude, func(path string, op fsnotify.Op) {
		mu.Lock()
		own := sameFile(path, lastOutput)
		mu.Unlock()
		if own || op == fsnotify.Chmod {
			return
		}

		log.Debug().Str("path", path).Str("op", op.String()).Msg("change detected")
		debouncer.Trigger()
	})
	if err != nil {
		return err
	}
	defer fw.Close()
	fw.WithLogger(log.Logger)

	if err := fw.AddDirectory(root); err != nil {
		return err
	}
	// The manifest may live outside the project directory
	if err := fw.AddFile(project.ManifestPath()); err != nil {
		return err
	}

	log.Info().Str("root", root).Strs("patterns", cfg.Watch.Patterns).Msg("watching for changes")
	fmt.Fprintf(wc.translate.out, "👀 Watching %s for changes...\n", root)

	if err := fw.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return errors.Wrap(err, "watcher stopped")
	}
	return nil
}

func (wc *WatchCommand) rebuild(ctx context.Context, lastOutput *string) error {
	project, err := wc.translate.LoadProject()
	if err != nil {
		return err
	}
	outcome, err := wc.translate.Generate(ctx, project)
	if err != nil {
		return err
	}
	*lastOutput = outcome.Output
	return nil
}

func sameFile(a, b string) bool {
	if a == "" || b == "" {
		return false
	}
	absA, errA := filepath.Abs(a)
	absB, errB := filepath.Abs(b)
	return errA == nil && errB == nil && absA == absB
}
