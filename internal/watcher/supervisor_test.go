package watcher

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/MKhiriev/go-sync-client/internal/config"
	"github.com/MKhiriev/go-sync-client/internal/logger"
	"github.com/MKhiriev/go-sync-client/models"
	"github.com/fsnotify/fsnotify"
	"github.com/jonboulle/clockwork"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testRoot     = "/data/sync"
	testLocation = "0192f0a4-3c1e-7d2a-9b4e-5f6a7b8c9d0e"
)

var testWorkers = config.ClientWorkers{
	WatchRestartDelay:  5 * time.Second,
	WatchFallbackFirst: 5 * time.Second,
	WatchFallbackMin:   30 * time.Second,
	WatchFallbackMax:   60 * time.Second,
}

// fakeNative stands in for an fsnotify watcher.
type fakeNative struct {
	mu     sync.Mutex
	added  []string
	closed bool

	events chan fsnotify.Event
	errors chan error
	once   sync.Once
}

func newFakeNative() *fakeNative {
	return &fakeNative{
		events: make(chan fsnotify.Event, 16),
		errors: make(chan error, 1),
	}
}

func (f *fakeNative) Add(name string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.added = append(f.added, name)
	return nil
}

func (f *fakeNative) Close() error {
	f.once.Do(func() {
		f.mu.Lock()
		f.closed = true
		f.mu.Unlock()
		close(f.events)
	})
	return nil
}

func (f *fakeNative) Events() <-chan fsnotify.Event { return f.events }
func (f *fakeNative) Errors() <-chan error          { return f.errors }

func (f *fakeNative) Added() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.added...)
}

func (f *fakeNative) IsClosed() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.closed
}

// nativeFactory records every watcher it opens.
type nativeFactory struct {
	mu       sync.Mutex
	watchers []*fakeNative
	err      error
}

func (n *nativeFactory) open() (NativeWatcher, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.err != nil {
		return nil, n.err
	}
	w := newFakeNative()
	n.watchers = append(n.watchers, w)
	return w, nil
}

func (n *nativeFactory) count() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.watchers)
}

func (n *nativeFactory) last() *fakeNative {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.watchers[len(n.watchers)-1]
}

// recordingSink collects delivered events.
type recordingSink struct {
	mu     sync.Mutex
	events []models.WatchEvent
}

func (r *recordingSink) HandleWatchEvent(ev models.WatchEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
}

func (r *recordingSink) Events() []models.WatchEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]models.WatchEvent(nil), r.events...)
}

func (r *recordingSink) Dummies() int {
	n := 0
	for _, ev := range r.Events() {
		if ev.Event == models.DummyWatchEvent {
			n++
		}
	}
	return n
}

type testEnv struct {
	sup     *supervisor
	fs      afero.Fs
	clock   *clockwork.FakeClock
	natives *nativeFactory
	sink    *recordingSink
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	fs := afero.NewMemMapFs()
	require.NoError(t, fs.MkdirAll(testRoot+"/docs/2024", 0o755))
	require.NoError(t, fs.MkdirAll(testRoot+"/photos", 0o755))
	require.NoError(t, afero.WriteFile(fs, testRoot+"/docs/a.txt", []byte("a"), 0o644))

	env := &testEnv{
		fs:      fs,
		clock:   clockwork.NewFakeClock(),
		natives: &nativeFactory{},
		sink:    &recordingSink{},
	}
	env.sup = NewSupervisor(env.sink, testWorkers, logger.Nop(),
		WithClock(env.clock),
		WithFs(fs),
		WithNativeFactory(env.natives.open),
	).(*supervisor)
	t.Cleanup(env.sup.Stop)

	return env
}

func (e *testEnv) waitTimers(t *testing.T, n int) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, e.clock.BlockUntilContext(ctx, n))
}

// ── Watch ────────────────────────────────────────────────────────────────────

func TestSupervisor_Watch_RelativePath(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.sup.Watch("relative/dir", testLocation)
	assert.ErrorIs(t, err, ErrRelativePath)
	assert.Zero(t, env.natives.count())
}

func TestSupervisor_Watch_RegistersDirectoriesRecursively(t *testing.T) {
	env := newTestEnv(t)

	sub, err := env.sup.Watch(testRoot, testLocation)
	require.NoError(t, err)

	assert.Equal(t, testRoot, sub.Path)
	assert.Equal(t, testLocation, sub.LocationUUID)
	assert.Equal(t, models.WatchActive, sub.State)
	assert.ElementsMatch(t,
		[]string{testRoot, testRoot + "/docs", testRoot + "/docs/2024", testRoot + "/photos"},
		env.natives.last().Added(),
	)
}

func TestSupervisor_Watch_DuplicateReturnsExisting(t *testing.T) {
	env := newTestEnv(t)

	first, err := env.sup.Watch(testRoot, testLocation)
	require.NoError(t, err)
	second, err := env.sup.Watch(testRoot+"/", "another-uuid")
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, env.natives.count())
	assert.Len(t, env.sup.Subscriptions(), 1)
}

func TestSupervisor_Watch_GeneratesLocationUUID(t *testing.T) {
	env := newTestEnv(t)

	sub, err := env.sup.Watch(testRoot, "")
	require.NoError(t, err)
	assert.Len(t, sub.LocationUUID, 36)
}

func TestSupervisor_Watch_MissingDirectory(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.sup.Watch("/does/not/exist", testLocation)
	require.Error(t, err)

	_, ok := env.sup.State("/does/not/exist")
	assert.False(t, ok)
	assert.True(t, env.natives.last().IsClosed())
}

func TestSupervisor_Watch_NativeOpenError(t *testing.T) {
	env := newTestEnv(t)
	env.natives.err = errors.New("too many open files")

	_, err := env.sup.Watch(testRoot, testLocation)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "too many open files")
}

// ── Events ───────────────────────────────────────────────────────────────────

func TestSupervisor_Events_ForwardedInOrder(t *testing.T) {
	env := newTestEnv(t)
	_, err := env.sup.Watch(testRoot, testLocation)
	require.NoError(t, err)

	native := env.natives.last()
	native.events <- fsnotify.Event{Name: testRoot + "/docs/a.txt", Op: fsnotify.Write}
	native.events <- fsnotify.Event{Name: testRoot + "/docs/b.txt", Op: fsnotify.Create}
	native.events <- fsnotify.Event{Name: testRoot + "/docs/a.txt", Op: fsnotify.Remove}

	require.Eventually(t, func() bool { return len(env.sink.Events()) == 3 }, time.Second, time.Millisecond)

	got := env.sink.Events()
	assert.Equal(t, models.WatchEvent{Event: "write", Name: testRoot + "/docs/a.txt", WatchPath: testRoot, LocationUUID: testLocation}, got[0])
	assert.Equal(t, "create", got[1].Event)
	assert.Equal(t, "remove", got[2].Event)

	last, ok := env.sup.LastEvent(testRoot)
	require.True(t, ok)
	assert.Equal(t, env.clock.Now(), last)
}

func TestSupervisor_Events_NewDirectoryIsWatched(t *testing.T) {
	env := newTestEnv(t)
	_, err := env.sup.Watch(testRoot, testLocation)
	require.NoError(t, err)

	require.NoError(t, env.fs.MkdirAll(testRoot+"/music/live", 0o755))
	native := env.natives.last()
	native.events <- fsnotify.Event{Name: testRoot + "/music", Op: fsnotify.Create}

	require.Eventually(t, func() bool { return len(env.sink.Events()) == 1 }, time.Second, time.Millisecond)
	assert.Contains(t, native.Added(), testRoot+"/music")
	assert.Contains(t, native.Added(), testRoot+"/music/live")
}

func TestSupervisor_Events_SinkCallsAreSerialPerPath(t *testing.T) {
	var inFlight, maxInFlight atomic.Int32
	var delivered atomic.Int32
	sink := SinkFunc(func(models.WatchEvent) {
		n := inFlight.Add(1)
		for {
			m := maxInFlight.Load()
			if n <= m || maxInFlight.CompareAndSwap(m, n) {
				break
			}
		}
		time.Sleep(time.Millisecond)
		inFlight.Add(-1)
		delivered.Add(1)
	})

	natives := &nativeFactory{}
	fs := afero.NewMemMapFs()
	require.NoError(t, fs.MkdirAll(testRoot, 0o755))
	sup := NewSupervisor(sink, testWorkers, logger.Nop(),
		WithClock(clockwork.NewFakeClock()), WithFs(fs), WithNativeFactory(natives.open))
	defer sup.Stop()

	_, err := sup.Watch(testRoot, testLocation)
	require.NoError(t, err)

	native := natives.last()
	for i := 0; i < 10; i++ {
		native.events <- fsnotify.Event{Name: testRoot + "/f", Op: fsnotify.Write}
	}

	require.Eventually(t, func() bool { return delivered.Load() == 10 }, 2*time.Second, time.Millisecond)
	assert.Equal(t, int32(1), maxInFlight.Load())
}

// ── Fallback ─────────────────────────────────────────────────────────────────

func TestSupervisor_Error_FallsBackToPolling(t *testing.T) {
	env := newTestEnv(t)
	_, err := env.sup.Watch(testRoot, testLocation)
	require.NoError(t, err)

	native := env.natives.last()
	native.errors <- errors.New("queue overflow")

	require.Eventually(t, func() bool {
		state, _ := env.sup.State(testRoot)
		return state == models.WatchPollingFallback
	}, time.Second, time.Millisecond)
	assert.True(t, native.IsClosed())

	env.waitTimers(t, 1)
	env.clock.Advance(testWorkers.WatchFallbackFirst)
	require.Eventually(t, func() bool { return env.sink.Dummies() == 1 }, time.Second, time.Millisecond)

	got := env.sink.Events()[0]
	assert.Equal(t, models.WatchEvent{Event: models.DummyWatchEvent, Name: testRoot, WatchPath: testRoot, LocationUUID: testLocation}, got)

	env.waitTimers(t, 1)
	env.clock.Advance(testWorkers.WatchFallbackMax)
	require.Eventually(t, func() bool { return env.sink.Dummies() == 2 }, time.Second, time.Millisecond)
}

func TestSupervisor_Unwatch_CancelsFallbackTimer(t *testing.T) {
	env := newTestEnv(t)
	_, err := env.sup.Watch(testRoot, testLocation)
	require.NoError(t, err)

	env.natives.last().errors <- errors.New("queue overflow")
	env.waitTimers(t, 1)

	env.sup.Unwatch(testRoot)
	env.clock.Advance(10 * time.Minute)

	time.Sleep(20 * time.Millisecond)
	assert.Zero(t, env.sink.Dummies())
	assert.Empty(t, env.sup.Subscriptions())
}

// ── Close recovery ───────────────────────────────────────────────────────────

func TestSupervisor_UnexpectedClose_RestartsAfterDelay(t *testing.T) {
	env := newTestEnv(t)
	_, err := env.sup.Watch(testRoot, testLocation)
	require.NoError(t, err)

	require.NoError(t, env.natives.last().Close())
	env.waitTimers(t, 1)

	env.clock.Advance(testWorkers.WatchRestartDelay - time.Millisecond)
	assert.Equal(t, 1, env.natives.count())

	env.clock.Advance(time.Millisecond)
	require.Eventually(t, func() bool { return env.natives.count() == 2 }, time.Second, time.Millisecond)
	require.Eventually(t, func() bool { return env.sink.Dummies() == 1 }, time.Second, time.Millisecond)

	state, _ := env.sup.State(testRoot)
	assert.Equal(t, models.WatchActive, state)
}

func TestSupervisor_UnexpectedClose_SkippedWhenResumed(t *testing.T) {
	env := newTestEnv(t)
	_, err := env.sup.Watch(testRoot, testLocation)
	require.NoError(t, err)

	require.NoError(t, env.natives.last().Close())
	env.waitTimers(t, 1)

	env.sup.Resume()
	assert.Equal(t, 2, env.natives.count())

	env.clock.Advance(testWorkers.WatchRestartDelay)
	time.Sleep(20 * time.Millisecond)

	assert.Equal(t, 2, env.natives.count(), "recovery must not restart a path Resume already restarted")
	assert.Zero(t, env.sink.Dummies())
}

// ── Resume ───────────────────────────────────────────────────────────────────

func TestSupervisor_Resume_RestartsActiveOnly(t *testing.T) {
	env := newTestEnv(t)
	require.NoError(t, env.fs.MkdirAll("/data/other", 0o755))

	_, err := env.sup.Watch(testRoot, testLocation)
	require.NoError(t, err)
	_, err = env.sup.Watch("/data/other", "other-location")
	require.NoError(t, err)
	require.Equal(t, 2, env.natives.count())

	env.natives.watchers[1].errors <- errors.New("queue overflow")
	require.Eventually(t, func() bool {
		state, _ := env.sup.State("/data/other")
		return state == models.WatchPollingFallback
	}, time.Second, time.Millisecond)

	first := env.natives.watchers[0]
	env.sup.Resume()

	assert.True(t, first.IsClosed())
	assert.Equal(t, 3, env.natives.count(), "only the active path is restarted")

	state, _ := env.sup.State(testRoot)
	assert.Equal(t, models.WatchActive, state)
	state, _ = env.sup.State("/data/other")
	assert.Equal(t, models.WatchPollingFallback, state)
}

func TestSupervisor_Resume_OldWatcherEventsIgnored(t *testing.T) {
	env := newTestEnv(t)
	_, err := env.sup.Watch(testRoot, testLocation)
	require.NoError(t, err)

	env.sup.Resume()

	env.natives.last().events <- fsnotify.Event{Name: testRoot + "/x", Op: fsnotify.Write}
	require.Eventually(t, func() bool { return len(env.sink.Events()) == 1 }, time.Second, time.Millisecond)

	time.Sleep(20 * time.Millisecond)
	state, _ := env.sup.State(testRoot)
	assert.Equal(t, models.WatchActive, state)
	assert.Equal(t, 2, env.natives.count(), "closing the replaced watcher must not trigger recovery")
}

// ── Stop ─────────────────────────────────────────────────────────────────────

func TestSupervisor_Stop(t *testing.T) {
	env := newTestEnv(t)
	_, err := env.sup.Watch(testRoot, testLocation)
	require.NoError(t, err)

	env.sup.Stop()

	assert.True(t, env.natives.last().IsClosed())
	assert.Empty(t, env.sup.Subscriptions())

	_, err = env.sup.Watch(testRoot, testLocation)
	assert.ErrorIs(t, err, ErrSupervisorStopped)
}

func TestOpName(t *testing.T) {
	assert.Equal(t, "create", opName(fsnotify.Create))
	assert.Equal(t, "write", opName(fsnotify.Write))
	assert.Equal(t, "remove", opName(fsnotify.Remove))
	assert.Equal(t, "rename", opName(fsnotify.Rename))
	assert.Equal(t, "chmod", opName(fsnotify.Chmod))
	assert.Equal(t, "create", opName(fsnotify.Create|fsnotify.Write))
}
