package state

import (
	"time"

	"github.com/atomicstack/streampane/internal/command"
	"github.com/atomicstack/streampane/internal/logging/events"
	"github.com/atomicstack/streampane/internal/remote"
)

// playbackPollInterval is the minimum spacing between remote playback
// refreshes. Ticks arrive far more often than this; between refreshes the
// displayed progress is advanced by wall clock.
const playbackPollInterval = 5 * time.Second

// SeekStepMs is the distance one seek keypress moves the play position.
const SeekStepMs = 5_000

// VolumeStep is the distance one volume keypress moves the volume.
const VolumeStep = 10

// SetPlayback installs a fresh playback snapshot and resets the poll clock.
// Called by the worker after each successful refresh.
func (s *State) SetPlayback(p *remote.Playback) {
	s.mu.Lock()
	s.playback = p
	s.fetchingPlayback = false
	s.lastPlaybackPoll = s.now()
	if p != nil {
		s.progressMs = p.ProgressMs
		events.Player.Refresh(p.IsPlaying, p.ProgressMs)
	} else {
		s.progressMs = 0
	}
	s.mu.Unlock()
}

// ToggleLocalPlaying flips the playing bit of the local snapshot as soon as
// the pause/resume call succeeds, without waiting for the follow-up refresh
// to confirm the full snapshot.
func (s *State) ToggleLocalPlaying() {
	s.mu.Lock()
	if s.playback != nil {
		s.playback.IsPlaying = !s.playback.IsPlaying
		s.playback.ProgressMs = s.progressMs
		s.lastPlaybackPoll = s.now()
	}
	s.mu.Unlock()
}

// PlaybackFetchFailed re-arms the poll clock after a failed refresh, seek, or
// skip so the next eligible tick retries. Every failure outcome of a
// tick-issued command must land here, or the in-flight flag blocks polling
// for the rest of the session.
func (s *State) PlaybackFetchFailed() {
	s.mu.Lock()
	s.fetchingPlayback = false
	s.mu.Unlock()
}

// Playback returns a copy of the current snapshot, or nil when nothing is
// known to be playing.
func (s *State) Playback() *remote.Playback {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.playback == nil {
		return nil
	}
	dup := *s.playback
	if s.playback.Item != nil {
		item := *s.playback.Item
		dup.Item = &item
	}
	return &dup
}

// ProgressMs returns the locally advanced play position.
func (s *State) ProgressMs() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.progressMs
}

// SeekPending reports whether a local seek is waiting to be applied.
func (s *State) SeekPending() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.seekMs != nil
}

// ClearSeek drops the pending seek. The worker calls this once the seek has
// been applied remotely.
func (s *State) ClearSeek() {
	s.mu.Lock()
	s.seekMs = nil
	s.mu.Unlock()
}

// SeekForward moves the pending seek position one step forward, clamped to
// the item duration. Repeated presses accumulate before the next poll applies
// the final position.
func (s *State) SeekForward() {
	s.seekBy(SeekStepMs)
}

// SeekBackward moves the pending seek position one step back, floored at 0.
func (s *State) SeekBackward() {
	s.seekBy(-SeekStepMs)
}

func (s *State) seekBy(deltaMs int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.playback == nil || s.playback.Item == nil {
		return
	}
	base := s.progressMs
	if s.seekMs != nil {
		base = *s.seekMs
	}
	pos := base + deltaMs
	if pos < 0 {
		pos = 0
	}
	if max := s.playback.Item.DurationMs; pos > max {
		pos = max
	}
	s.seekMs = &pos
	events.Player.Seek(pos)
}

// UpdateOnTick runs once per UI tick: it advances the displayed progress by
// elapsed wall clock and, when the poll interval has elapsed and no refresh
// is already in flight, dispatches either the pending seek or a plain
// playback refresh.
func (s *State) UpdateOnTick() {
	if cmd := s.tickCommand(); cmd != nil {
		s.Dispatch(cmd)
	}
	s.advanceProgress()
}

// tickCommand decides, under the lock, which command this tick should issue.
// A pending seek takes priority over a plain refresh. Returns nil when the
// interval has not elapsed or a refresh is already outstanding.
func (s *State) tickCommand() command.Command {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fetchingPlayback {
		return nil
	}
	if s.now().Sub(s.lastPlaybackPoll) < playbackPollInterval {
		return nil
	}
	s.fetchingPlayback = true
	if s.seekMs != nil && s.playback != nil && s.playback.Item != nil {
		// Seeking at or past the end of the item skips to the next track,
		// mirroring what the service itself would do.
		if *s.seekMs < s.playback.Item.DurationMs {
			return command.Seek{PositionMs: *s.seekMs}
		}
		return command.NextTrack{}
	}
	return command.RefreshPlayback{}
}

func (s *State) advanceProgress() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.playback == nil || s.playback.Item == nil {
		return
	}
	elapsed := 0
	if s.playback.IsPlaying {
		elapsed = int(s.now().Sub(s.lastPlaybackPoll) / time.Millisecond)
	}
	progress := s.playback.ProgressMs + elapsed
	if max := s.playback.Item.DurationMs; progress > max {
		progress = max
	}
	s.progressMs = progress
}
