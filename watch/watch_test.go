package watch

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/minios-linux/themekit/extract"
)

func startLoop(t *testing.T, debounce time.Duration, run RunFunc) (chan<- string, context.CancelFunc) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	changes := make(chan string)
	done := make(chan error, 1)
	go func() { done <- loop(ctx, changes, debounce, run, zerolog.Nop()) }()
	t.Cleanup(func() {
		cancel()
		select {
		case err := <-done:
			assert.NoError(t, err)
		case <-time.After(2 * time.Second):
			t.Error("loop did not stop after cancel")
		}
	})
	return changes, cancel
}

func TestLoopCoalescesBursts(t *testing.T) {
	var runs atomic.Int32
	ran := make(chan struct{}, 10)
	changes, _ := startLoop(t, 50*time.Millisecond, func(context.Context) error {
		runs.Add(1)
		ran <- struct{}{}
		return nil
	})

	for i := 0; i < 5; i++ {
		changes <- "src/a.js"
	}

	select {
	case <-ran:
	case <-time.After(2 * time.Second):
		t.Fatal("no run after burst")
	}
	time.Sleep(200 * time.Millisecond)
	assert.Equal(t, int32(1), runs.Load())
}

func TestLoopSchedulesOneFollowUpAfterBusyRun(t *testing.T) {
	var runs, active atomic.Int32
	release := make(chan struct{})
	started := make(chan struct{}, 10)
	changes, _ := startLoop(t, 10*time.Millisecond, func(context.Context) error {
		if active.Add(1) > 1 {
			t.Error("runs overlapped")
		}
		defer active.Add(-1)
		n := runs.Add(1)
		started <- struct{}{}
		if n == 1 {
			<-release
		}
		return nil
	})

	changes <- "src/a.js"
	<-started

	go func() {
		for i := 0; i < 3; i++ {
			changes <- "src/b.js"
		}
	}()
	time.Sleep(50 * time.Millisecond)
	close(release)

	select {
	case <-started:
	case <-time.After(2 * time.Second):
		t.Fatal("no follow-up run")
	}
	time.Sleep(150 * time.Millisecond)
	assert.Equal(t, int32(2), runs.Load())
}

func TestLoopKeepsGoingAfterFailure(t *testing.T) {
	ran := make(chan struct{}, 10)
	changes, _ := startLoop(t, 5*time.Millisecond, func(context.Context) error {
		ran <- struct{}{}
		return errors.New("boom")
	})

	for i := 0; i < 2; i++ {
		changes <- "src/a.js"
		select {
		case <-ran:
		case <-time.After(2 * time.Second):
			t.Fatalf("run %d did not happen", i+1)
		}
	}
}

// startWatcher runs a Watcher over root with the default sources and
// reports each run on the returned channel.
func startWatcher(t *testing.T, root string) <-chan struct{} {
	t.Helper()
	w := &Watcher{
		Root:     root,
		Sources:  extract.DefaultSources,
		Debounce: 20 * time.Millisecond,
		Logger:   zerolog.Nop(),
	}

	ctx, cancel := context.WithCancel(context.Background())
	ran := make(chan struct{}, 100)
	done := make(chan error, 1)
	go func() {
		done <- w.Watch(ctx, func(context.Context) error {
			ran <- struct{}{}
			return nil
		})
	}()

	t.Cleanup(func() {
		cancel()
		select {
		case err := <-done:
			assert.NoError(t, err)
		case <-time.After(2 * time.Second):
			t.Error("watcher did not stop")
		}
	})
	return ran
}

// waitReady rewrites a source file until the watcher reports a run, then
// drains any trailing runs.
func waitReady(t *testing.T, root string, ran <-chan struct{}) {
	t.Helper()
	target := filepath.Join(root, "src", "js", "index.js")
	ignored := filepath.Join(root, "src", "js", "notes.txt")
	deadline := time.After(5 * time.Second)
	tick := time.NewTicker(100 * time.Millisecond)
	defer tick.Stop()

	for triggered := false; !triggered; {
		select {
		case <-ran:
			triggered = true
		case <-tick.C:
			require.NoError(t, os.WriteFile(ignored, []byte("x"), 0644))
			require.NoError(t, os.WriteFile(target, []byte("__('x')"), 0644))
		case <-deadline:
			t.Fatal("watcher never triggered")
		}
	}

	drain(ran)
}

// drain discards runs until none arrive for a while.
func drain(ran <-chan struct{}) {
	for {
		select {
		case <-ran:
		case <-time.After(300 * time.Millisecond):
			return
		}
	}
}

func expectRun(t *testing.T, ran <-chan struct{}, what string) {
	t.Helper()
	select {
	case <-ran:
	case <-time.After(3 * time.Second):
		t.Fatalf("%s did not trigger a run", what)
	}
}

func TestWatcherTriggersOnSourceChange(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "src", "js"), 0755))

	ran := startWatcher(t, root)
	waitReady(t, root, ran)
}

func TestWatcherTriggersOnDirectoryMoves(t *testing.T) {
	root := t.TempDir()
	staging := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "src", "js"), 0755))
	require.NoError(t, os.MkdirAll(filepath.Join(staging, "components", "forms"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(staging, "components", "forms", "a.js"), []byte("__('a')"), 0644))

	ran := startWatcher(t, root)
	waitReady(t, root, ran)

	moved := filepath.Join(root, "src", "js", "components")
	require.NoError(t, os.Rename(filepath.Join(staging, "components"), moved))
	expectRun(t, ran, "moving a directory of sources in")

	drain(ran)

	require.NoError(t, os.Rename(moved, filepath.Join(staging, "gone")))
	expectRun(t, ran, "moving a directory of sources out")
}

func TestWatcherIgnoresDirectoryWithoutSources(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "src", "js"), 0755))

	ran := startWatcher(t, root)
	waitReady(t, root, ran)

	require.NoError(t, os.MkdirAll(filepath.Join(root, "src", "img", "icons"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "src", "img", "icons", "a.svg"), []byte("<svg/>"), 0644))

	select {
	case <-ran:
		t.Fatal("directory without sources triggered a run")
	case <-time.After(400 * time.Millisecond):
	}
}
