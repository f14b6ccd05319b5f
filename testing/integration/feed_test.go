package integration

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/zoobzio/reflux"
	refluxtest "github.com/zoobzio/reflux/testing"
)

func writeBatch(t *testing.T, path, data string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(data), 0o600); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}
}

func TestFileFeed_AppliesEveryWrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "actions.yaml")
	writeBatch(t, path, "- type: INC\n- type: INC\n")

	store := refluxtest.NewTestStore(t)
	feed := reflux.NewFeed(store, reflux.NewFileWatcher(path)).
		Codec(reflux.YAMLCodec{})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := feed.Start(ctx); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	refluxtest.RequireState(t, store, 2)

	writeBatch(t, path, "- type: SET\n  payload: 10\n")

	if !refluxtest.WaitForState(t, store, 10, 2*time.Second) {
		t.Fatalf("expected 10 after write, got %d", store.GetState())
	}
	if feed.State() != reflux.FeedHealthy {
		t.Errorf("expected healthy, got %s", feed.State())
	}
}

func TestFileFeed_InvalidWriteDegrades(t *testing.T) {
	path := filepath.Join(t.TempDir(), "actions.json")
	writeBatch(t, path, `[{"type": "INC"}]`)

	store := refluxtest.NewTestStore(t)
	feed := reflux.NewFeed(store, reflux.NewFileWatcher(path))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := feed.Start(ctx); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	writeBatch(t, path, `[{"type": "INC"}, {"payload": 2}]`)

	if !waitFor(t, 2*time.Second, func() bool { return feed.State() == reflux.FeedDegraded }) {
		t.Fatalf("expected degraded, got %s", feed.State())
	}
	refluxtest.RequireState(t, store, 1)

	writeBatch(t, path, `[{"type": "DEC"}]`)

	if !waitFor(t, 2*time.Second, func() bool { return feed.State() == reflux.FeedHealthy }) {
		t.Fatalf("expected healthy after recovery, got %s", feed.State())
	}
	refluxtest.RequireState(t, store, 0)
}

func TestFileFeed_SubscribersSeeFedActions(t *testing.T) {
	path := filepath.Join(t.TempDir(), "actions.json")
	writeBatch(t, path, `[{"type": "INC"}, {"type": "INC"}, {"type": "INC"}]`)

	store := refluxtest.NewTestStore(t)
	recorder := refluxtest.Record(store)
	defer recorder.Stop()

	var stopped atomic.Bool
	feed := reflux.NewFeed(store, reflux.NewFileWatcher(path)).
		OnStop(func(reflux.FeedState) { stopped.Store(true) })

	ctx, cancel := context.WithCancel(context.Background())

	if err := feed.Start(ctx); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	states := recorder.States()
	if len(states) != 3 || states[0] != 1 || states[2] != 3 {
		t.Errorf("expected [1 2 3], got %v", states)
	}

	cancel()
	if !waitFor(t, 2*time.Second, stopped.Load) {
		t.Error("expected feed to stop after cancel")
	}
}

func TestFileFeed_AsyncThunkAlongsideFeed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "actions.json")
	writeBatch(t, path, `[{"type": "INC"}]`)

	store := refluxtest.NewTestStore(t, reflux.WithThunk[int]())
	feed := reflux.NewFeed(store, reflux.NewFileWatcher(path))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := feed.Start(ctx); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	thunk := reflux.Async[int](func(context.Context) (int, error) {
		return 100, nil
	}, reflux.Continuations[int]{
		OnSuccess: func(v int) reflux.Action { return refluxtest.Set(v) },
	})
	refluxtest.MustDispatch(t, store, thunk)

	if !refluxtest.WaitForState(t, store, 100, 2*time.Second) {
		t.Fatalf("expected 100 from thunk, got %d", store.GetState())
	}

	writeBatch(t, path, `[{"type": "INC"}, {"type": "INC"}]`)
	if !refluxtest.WaitForState(t, store, 102, 2*time.Second) {
		t.Fatalf("expected feed to apply after thunk, got %d", store.GetState())
	}
}
