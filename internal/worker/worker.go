// Package worker runs the command execution loop: the sole consumer of the
// command queue, executing one remote operation at a time and applying each
// result to shared state before dequeuing the next. Bounding remote
// concurrency to one in-flight call keeps state mutations serial and makes
// the loading flag an accurate "a request is outstanding" signal.
package worker

import (
	"context"
	"fmt"
	"sync"

	"github.com/atomicstack/streampane/internal/command"
	"github.com/atomicstack/streampane/internal/logging/events"
	"github.com/atomicstack/streampane/internal/remote"
	"github.com/atomicstack/streampane/internal/state"
)

// Worker consumes commands in FIFO order. Any goroutine may Enqueue,
// including the worker itself for follow-up commands.
type Worker struct {
	state  *state.State
	client remote.Client

	queue  *queue
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// New wires a worker to the shared state and remote client. The returned
// worker is also the state's command sink.
func New(st *state.State, client remote.Client) *Worker {
	ctx, cancel := context.WithCancel(context.Background())
	w := &Worker{
		state:  st,
		client: client,
		queue:  newQueue(),
		ctx:    ctx,
		cancel: cancel,
	}
	st.SetSink(w)
	return w
}

// Enqueue implements state.CommandSink. It never blocks.
func (w *Worker) Enqueue(cmd command.Command) error {
	return w.queue.push(cmd)
}

// Start launches the consumer goroutine.
func (w *Worker) Start() {
	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		for {
			cmd, ok := w.queue.pop(w.ctx)
			if !ok {
				return
			}
			w.run(w.ctx, cmd)
		}
	}()
}

// Stop cancels the loop. The command in flight finishes first; use Wait for
// a clean drain.
func (w *Worker) Stop() {
	w.queue.close()
	w.cancel()
}

// Wait blocks until the consumer goroutine has exited.
func (w *Worker) Wait() {
	w.wg.Wait()
}

// Execute runs a single command synchronously against the same execution
// logic as the loop. Batch mode uses this to await each command in turn
// without the two-actor setup.
func (w *Worker) Execute(ctx context.Context, cmd command.Command) {
	w.run(ctx, cmd)
}

// DrainQueued synchronously executes whatever commands are already queued,
// in FIFO order. Batch mode uses this to resolve follow-ups that Execute
// enqueued, since no consumer goroutine is running there.
func (w *Worker) DrainQueued(ctx context.Context) {
	for {
		cmd, ok := w.queue.tryPop()
		if !ok {
			return
		}
		w.run(ctx, cmd)
	}
}

// run resolves one command: remote call, state mutation, error funneling.
// A failure never aborts subsequent commands.
func (w *Worker) run(ctx context.Context, cmd command.Command) {
	events.Network.Start(cmd.Name())
	if err := w.execute(ctx, cmd); err != nil {
		events.Network.Error(cmd.Name(), err)
		w.state.HandleError(fmt.Errorf("%s: %w", cmd.Name(), err))
	} else {
		events.Network.Done(cmd.Name())
	}
	w.state.FinishRequest()
}

func (w *Worker) execute(ctx context.Context, cmd command.Command) error {
	switch c := cmd.(type) {
	case command.FetchSavedTracks:
		page, err := w.client.SavedTracks(ctx, c.Offset)
		if err != nil {
			return err
		}
		w.state.AddSavedTracksPage(page)
		// Everything in the saved-tracks collection is liked by definition.
		for _, tr := range page.Items {
			w.state.SetTrackSaved(tr.ID, true)
		}
		return nil

	case command.FetchSavedAlbums:
		page, err := w.client.SavedAlbums(ctx, c.Offset)
		if err != nil {
			return err
		}
		w.state.AddSavedAlbumsPage(page)
		return nil

	case command.FetchFollowedArtists:
		page, err := w.client.FollowedArtists(ctx, c.After)
		if err != nil {
			return err
		}
		w.state.AddFollowedArtistsPage(page)
		return nil

	case command.FetchShowEpisodes:
		page, err := w.client.ShowEpisodes(ctx, c.ShowID, c.Offset)
		if err != nil {
			return err
		}
		w.state.AddShowEpisodesPage(page)
		return nil

	case command.FetchPlaylists:
		page, err := w.client.Playlists(ctx)
		if err != nil {
			return err
		}
		w.state.SetPlaylists(page.Items)
		return nil

	case command.FetchRecentlyPlayed:
		tracks, err := w.client.RecentlyPlayed(ctx)
		if err != nil {
			return err
		}
		w.state.SetRecentlyPlayed(tracks)
		return nil

	case command.Search:
		res, err := w.client.Search(ctx, c.Query)
		if err != nil {
			return err
		}
		w.state.SetSearchResults(c.Query, res)
		w.markSavedTracks(ctx, res.Tracks.Items)
		return nil

	case command.RefreshPlayback:
		playback, err := w.client.CurrentPlayback(ctx)
		if err != nil {
			w.state.PlaybackFetchFailed()
			return err
		}
		w.state.SetPlayback(playback)
		if playback != nil && playback.Item != nil {
			w.markSavedTracks(ctx, []remote.Track{*playback.Item})
		}
		return nil

	case command.TogglePlayback:
		playback := w.state.Playback()
		var err error
		if playback != nil && playback.IsPlaying {
			err = w.client.Pause(ctx)
		} else {
			err = w.client.Resume(ctx)
		}
		if err != nil {
			return err
		}
		w.state.ToggleLocalPlaying()
		w.state.Dispatch(command.RefreshPlayback{})
		return nil

	case command.NextTrack:
		if err := w.client.NextTrack(ctx); err != nil {
			w.state.PlaybackFetchFailed()
			return err
		}
		w.state.ClearSeek()
		w.state.Dispatch(command.RefreshPlayback{})
		return nil

	case command.PreviousTrack:
		if err := w.client.PreviousTrack(ctx); err != nil {
			return err
		}
		w.state.Dispatch(command.RefreshPlayback{})
		return nil

	case command.Seek:
		if err := w.client.Seek(ctx, c.PositionMs); err != nil {
			w.state.PlaybackFetchFailed()
			return err
		}
		w.state.ClearSeek()
		w.state.Dispatch(command.RefreshPlayback{})
		return nil

	case command.SetVolume:
		pct := c.Percent
		if pct < 0 {
			pct = 0
		}
		if pct > 100 {
			pct = 100
		}
		if err := w.client.SetVolume(ctx, pct); err != nil {
			return err
		}
		w.state.Dispatch(command.RefreshPlayback{})
		return nil

	case command.ToggleShuffle:
		if err := w.client.SetShuffle(ctx, !c.Current); err != nil {
			return err
		}
		w.state.Dispatch(command.RefreshPlayback{})
		return nil

	case command.CycleRepeat:
		if err := w.client.SetRepeat(ctx, remote.CycleRepeat(c.Current)); err != nil {
			return err
		}
		w.state.Dispatch(command.RefreshPlayback{})
		return nil

	case command.ToggleSaveTrack:
		// Membership flips only after the service confirms the current
		// status, so a stale local set cannot double-save or double-remove.
		saved, err := w.client.TracksAreSaved(ctx, []string{c.TrackID})
		if err != nil {
			return err
		}
		if len(saved) > 0 && saved[0] {
			if err := w.client.RemoveSavedTracks(ctx, []string{c.TrackID}); err != nil {
				return err
			}
			w.state.SetTrackSaved(c.TrackID, false)
			return nil
		}
		if err := w.client.SaveTracks(ctx, []string{c.TrackID}); err != nil {
			return err
		}
		w.state.SetTrackSaved(c.TrackID, true)
		return nil

	case command.FetchDevices:
		devices, err := w.client.Devices(ctx)
		if err != nil {
			return err
		}
		w.state.SetDevices(devices)
		return nil

	case command.TransferPlayback:
		if err := w.client.TransferPlayback(ctx, c.DeviceID); err != nil {
			return err
		}
		w.state.Dispatch(command.RefreshPlayback{})
		return nil

	default:
		return fmt.Errorf("unknown command %T", cmd)
	}
}

// markSavedTracks refreshes the liked-track membership set for the given
// tracks. Lookup failures are swallowed: membership is cosmetic and the next
// refresh will correct it.
func (w *Worker) markSavedTracks(ctx context.Context, tracks []remote.Track) {
	if len(tracks) == 0 {
		return
	}
	ids := make([]string, 0, len(tracks))
	for _, tr := range tracks {
		ids = append(ids, tr.ID)
	}
	saved, err := w.client.TracksAreSaved(ctx, ids)
	if err != nil || len(saved) != len(ids) {
		return
	}
	for i, id := range ids {
		w.state.SetTrackSaved(id, saved[i])
	}
}
