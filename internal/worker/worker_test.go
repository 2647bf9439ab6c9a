package worker

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/atomicstack/streampane/internal/command"
	"github.com/atomicstack/streampane/internal/logging"
	"github.com/atomicstack/streampane/internal/remote"
	"github.com/atomicstack/streampane/internal/route"
	"github.com/atomicstack/streampane/internal/state"
)

func TestMain(m *testing.M) {
	dir, err := os.MkdirTemp("", "streampane-worker-test")
	if err != nil {
		os.Exit(1)
	}
	logging.Configure(filepath.Join(dir, "test.log"))
	code := m.Run()
	os.RemoveAll(dir)
	os.Exit(code)
}

func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", what)
}

func TestExecuteFetchSavedTracksAppliesPage(t *testing.T) {
	st := state.New()
	fake := remote.NewFake()
	fake.SetPageSize(5)
	w := New(st, fake)

	w.Execute(context.Background(), command.FetchSavedTracks{Offset: 0})

	page, ok := st.SavedTracksPage()
	if !ok {
		t.Fatalf("expected a saved-tracks page after fetch")
	}
	if len(page.Items) != 5 {
		t.Fatalf("expected 5 items, got %d", len(page.Items))
	}
	if !st.TrackSaved(page.Items[0].ID) {
		t.Fatalf("expected fetched saved tracks to be marked liked")
	}
	if st.IsLoading() {
		t.Fatalf("expected loading flag cleared after execution")
	}
}

func TestRunLoopExecutesInFIFOOrder(t *testing.T) {
	st := state.New()
	fake := remote.NewFake()
	w := New(st, fake)
	w.Start()

	st.Dispatch(command.FetchSavedTracks{Offset: 0})
	st.Dispatch(command.FetchSavedAlbums{Offset: 0})

	waitFor(t, "both fetches to land", func() bool {
		_, tracksOK := st.SavedTracksPage()
		_, albumsOK := st.SavedAlbumsPage()
		return tracksOK && albumsOK
	})
	w.Stop()
	w.Wait()

	if len(fake.Calls) != 2 || fake.Calls[0] != "SavedTracks" || fake.Calls[1] != "SavedAlbums" {
		t.Fatalf("expected calls in dispatch order, got %v", fake.Calls)
	}
}

func TestFailedCommandSurfacesErrorAndContinues(t *testing.T) {
	st := state.New()
	fake := remote.NewFake()
	w := New(st, fake)

	fake.Err = errors.New("service unavailable")
	w.Execute(context.Background(), command.FetchPlaylists{})

	if got := st.CurrentRoute().ID; got != route.Error {
		t.Fatalf("expected error route after failure, got %q", got)
	}
	if msg := st.ErrorMessage(); !strings.Contains(msg, "fetch-playlists") {
		t.Fatalf("expected error message to name the command, got %q", msg)
	}
	if st.IsLoading() {
		t.Fatalf("expected loading flag cleared after failure")
	}

	// A failure must not poison the loop for the next command.
	fake.Err = nil
	w.Execute(context.Background(), command.FetchPlaylists{})
	if len(st.Playlists()) == 0 {
		t.Fatalf("expected playlists after the retry")
	}
}

func TestToggleSaveTrackChecksMembershipFirst(t *testing.T) {
	st := state.New()
	fake := remote.NewFake()
	w := New(st, fake)
	ctx := context.Background()

	// track-01 is saved in the demo library, so the first toggle removes it.
	w.Execute(ctx, command.ToggleSaveTrack{TrackID: "track-01"})
	if len(fake.Calls) != 2 || fake.Calls[0] != "TracksAreSaved" || fake.Calls[1] != "RemoveSavedTracks" {
		t.Fatalf("expected membership check then removal, got %v", fake.Calls)
	}
	if st.TrackSaved("track-01") {
		t.Fatalf("expected track-01 removed from membership")
	}

	w.Execute(ctx, command.ToggleSaveTrack{TrackID: "track-01"})
	if last := fake.Calls[len(fake.Calls)-1]; last != "SaveTracks" {
		t.Fatalf("expected save on second toggle, got %q", last)
	}
	if !st.TrackSaved("track-01") {
		t.Fatalf("expected track-01 saved again")
	}
}

func TestSeekClearsPendingAndQueuesRefresh(t *testing.T) {
	st := state.New()
	fake := remote.NewFake()
	w := New(st, fake)
	ctx := context.Background()

	w.Execute(ctx, command.RefreshPlayback{})
	st.SeekForward()
	if !st.SeekPending() {
		t.Fatalf("expected pending seek")
	}

	w.Execute(ctx, command.Seek{PositionMs: 9_000})
	if st.SeekPending() {
		t.Fatalf("expected pending seek cleared after the remote call")
	}

	w.DrainQueued(ctx)
	seekAt, refreshAt := -1, -1
	for i, call := range fake.Calls {
		switch call {
		case "Seek":
			seekAt = i
		case "CurrentPlayback":
			refreshAt = i
		}
	}
	if seekAt < 0 || refreshAt < seekAt {
		t.Fatalf("expected a refresh after the seek, got %v", fake.Calls)
	}
	if got := st.Playback().ProgressMs; got != 9_000 {
		t.Fatalf("expected refreshed progress 9000, got %d", got)
	}
}

func TestFailedSeekDoesNotStallPolling(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	st := state.NewWithClock(func() time.Time { return now })
	fake := remote.NewFake()
	w := New(st, fake)
	ctx := context.Background()

	// The very first tick always refreshes, arming the poll clock.
	st.UpdateOnTick()
	w.DrainQueued(ctx)
	if st.Playback() == nil {
		t.Fatalf("expected a playback snapshot from the first tick")
	}

	st.SeekForward()
	now = now.Add(6 * time.Second)
	fake.Err = errors.New("service unavailable")
	st.UpdateOnTick()
	w.DrainQueued(ctx)
	if got := st.CurrentRoute().ID; got != route.Error {
		t.Fatalf("expected error route after the failed seek, got %q", got)
	}

	// The failure must not leave a phantom request in flight: the next
	// eligible tick retries the still-pending seek.
	fake.Err = nil
	before := len(fake.Calls)
	now = now.Add(6 * time.Second)
	st.UpdateOnTick()
	w.DrainQueued(ctx)
	if len(fake.Calls) == before {
		t.Fatalf("expected the next eligible tick to dispatch, calls stuck at %v", fake.Calls)
	}
	if st.SeekPending() {
		t.Fatalf("expected the retried seek to clear the pending position")
	}
}

func TestTogglePlaybackPausesWhenPlaying(t *testing.T) {
	st := state.New()
	fake := remote.NewFake()
	w := New(st, fake)
	ctx := context.Background()

	w.Execute(ctx, command.RefreshPlayback{})
	if p := st.Playback(); p == nil || !p.IsPlaying {
		t.Fatalf("expected playing snapshot from the demo library")
	}

	w.Execute(ctx, command.TogglePlayback{})
	if p := st.Playback(); p == nil || p.IsPlaying {
		t.Fatalf("expected optimistic pause before the refresh lands")
	}

	w.DrainQueued(ctx)
	if p := st.Playback(); p == nil || p.IsPlaying {
		t.Fatalf("expected refresh to confirm the paused snapshot")
	}

	w.Execute(ctx, command.TogglePlayback{})
	w.DrainQueued(ctx)
	if p := st.Playback(); p == nil || !p.IsPlaying {
		t.Fatalf("expected resume on the second toggle")
	}
}

func TestSetVolumeClampsPercent(t *testing.T) {
	st := state.New()
	fake := remote.NewFake()
	w := New(st, fake)
	ctx := context.Background()

	w.Execute(ctx, command.SetVolume{Percent: 150})
	w.DrainQueued(ctx)
	if got := st.Playback().Volume; got != 100 {
		t.Fatalf("expected volume clamped to 100, got %d", got)
	}

	w.Execute(ctx, command.SetVolume{Percent: -20})
	w.DrainQueued(ctx)
	if got := st.Playback().Volume; got != 0 {
		t.Fatalf("expected volume clamped to 0, got %d", got)
	}
}

func TestCycleRepeatAdvancesMode(t *testing.T) {
	st := state.New()
	fake := remote.NewFake()
	w := New(st, fake)
	ctx := context.Background()

	w.Execute(ctx, command.CycleRepeat{Current: remote.RepeatOff})
	w.DrainQueued(ctx)
	if got := st.Playback().Repeat; got != remote.RepeatTrack {
		t.Fatalf("expected repeat-track after cycling from off, got %q", got)
	}
}

func TestEnqueueAfterStopFails(t *testing.T) {
	st := state.New()
	fake := remote.NewFake()
	w := New(st, fake)
	w.Start()
	w.Stop()
	w.Wait()

	if err := w.Enqueue(command.RefreshPlayback{}); !errors.Is(err, ErrStopped) {
		t.Fatalf("expected ErrStopped, got %v", err)
	}

	// A dispatch after shutdown surfaces as an error instead of hanging.
	st.Dispatch(command.RefreshPlayback{})
	if got := st.CurrentRoute().ID; got != route.Error {
		t.Fatalf("expected error route for dispatch after stop, got %q", got)
	}
}
