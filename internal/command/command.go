// Package command defines the closed set of requests the worker can execute.
// Each command is a plain value carrying only the data needed for one remote
// operation, so commands can be queued freely and executed later.
package command

import "github.com/atomicstack/streampane/internal/remote"

// Command is implemented only by the types in this package.
type Command interface {
	// Name identifies the command kind for trace logging.
	Name() string
	isCommand()
}

type FetchSavedTracks struct{ Offset int }

type FetchSavedAlbums struct{ Offset int }

type FetchFollowedArtists struct{ After string }

type FetchShowEpisodes struct {
	ShowID string
	Offset int
}

type FetchPlaylists struct{}

type FetchRecentlyPlayed struct{}

type Search struct{ Query string }

type RefreshPlayback struct{}

type TogglePlayback struct{}

type NextTrack struct{}

type PreviousTrack struct{}

type Seek struct{ PositionMs int }

type SetVolume struct{ Percent int }

type ToggleShuffle struct{ Current bool }

type CycleRepeat struct{ Current remote.RepeatState }

type ToggleSaveTrack struct{ TrackID string }

type FetchDevices struct{}

type TransferPlayback struct{ DeviceID string }

func (FetchSavedTracks) Name() string     { return "fetch-saved-tracks" }
func (FetchSavedAlbums) Name() string     { return "fetch-saved-albums" }
func (FetchFollowedArtists) Name() string { return "fetch-followed-artists" }
func (FetchShowEpisodes) Name() string    { return "fetch-show-episodes" }
func (FetchPlaylists) Name() string       { return "fetch-playlists" }
func (FetchRecentlyPlayed) Name() string  { return "fetch-recently-played" }
func (Search) Name() string               { return "search" }
func (RefreshPlayback) Name() string      { return "refresh-playback" }
func (TogglePlayback) Name() string       { return "toggle-playback" }
func (NextTrack) Name() string            { return "next-track" }
func (PreviousTrack) Name() string        { return "previous-track" }
func (Seek) Name() string                 { return "seek" }
func (SetVolume) Name() string            { return "set-volume" }
func (ToggleShuffle) Name() string        { return "toggle-shuffle" }
func (CycleRepeat) Name() string          { return "cycle-repeat" }
func (ToggleSaveTrack) Name() string      { return "toggle-save-track" }
func (FetchDevices) Name() string         { return "fetch-devices" }
func (TransferPlayback) Name() string     { return "transfer-playback" }

func (FetchSavedTracks) isCommand()     {}
func (FetchSavedAlbums) isCommand()     {}
func (FetchFollowedArtists) isCommand() {}
func (FetchShowEpisodes) isCommand()    {}
func (FetchPlaylists) isCommand()       {}
func (FetchRecentlyPlayed) isCommand()  {}
func (Search) isCommand()               {}
func (RefreshPlayback) isCommand()      {}
func (TogglePlayback) isCommand()       {}
func (NextTrack) isCommand()            {}
func (PreviousTrack) isCommand()        {}
func (Seek) isCommand()                 {}
func (SetVolume) isCommand()            {}
func (ToggleShuffle) isCommand()        {}
func (CycleRepeat) isCommand()          {}
func (ToggleSaveTrack) isCommand()      {}
func (FetchDevices) isCommand()         {}
func (TransferPlayback) isCommand()     {}
