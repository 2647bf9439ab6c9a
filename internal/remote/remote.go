// Package remote defines the boundary to the streaming service: the data
// shapes the rest of the application consumes and the client capability the
// worker drives. Concrete transports (HTTP, auth refresh, rate limiting) live
// behind the Client interface and are out of scope here; the bundled Fake
// backs tests and offline mode.
package remote

import "context"

// DefaultPageSize is the number of items requested per page.
const DefaultPageSize = 20

// Page is one server-delivered slice of a paginated collection.
type Page[T any] struct {
	Items  []T
	Offset int
	Limit  int
	Total  int
}

// NextOffset returns the offset for the page after this one, or false when
// this is the last page.
func (p Page[T]) NextOffset() (int, bool) {
	next := p.Offset + len(p.Items)
	if next >= p.Total || len(p.Items) == 0 {
		return 0, false
	}
	return next, true
}

type Artist struct {
	ID   string
	Name string
}

type Album struct {
	ID     string
	Name   string
	Artist string
	Tracks int
}

type Track struct {
	ID         string
	Name       string
	Artist     string
	Album      string
	DurationMs int
	URL        string
}

type Episode struct {
	ID         string
	Name       string
	Show       string
	DurationMs int
}

type Show struct {
	ID   string
	Name string
}

type Playlist struct {
	ID     string
	Name   string
	Tracks int
}

type Device struct {
	ID     string
	Name   string
	Active bool
}

// RepeatState enumerates the repeat modes of the player.
type RepeatState string

const (
	RepeatOff     RepeatState = "off"
	RepeatTrack   RepeatState = "track"
	RepeatContext RepeatState = "context"
)

// CycleRepeat returns the mode following the given one.
func CycleRepeat(current RepeatState) RepeatState {
	switch current {
	case RepeatOff:
		return RepeatTrack
	case RepeatTrack:
		return RepeatContext
	default:
		return RepeatOff
	}
}

// Playback is a snapshot of the player as last reported by the service.
type Playback struct {
	Item       *Track
	Device     Device
	IsPlaying  bool
	ProgressMs int
	Shuffle    bool
	Repeat     RepeatState
	Volume     int
}

// SearchResults bundles the per-kind result pages of one search request.
type SearchResults struct {
	Tracks    Page[Track]
	Albums    Page[Album]
	Artists   Page[Artist]
	Playlists Page[Playlist]
	Shows     Page[Show]
}

// Client is the capability the worker uses to reach the service. One method
// per command kind; every call takes a context and returns an explicit error.
type Client interface {
	SavedTracks(ctx context.Context, offset int) (Page[Track], error)
	SavedAlbums(ctx context.Context, offset int) (Page[Album], error)
	FollowedArtists(ctx context.Context, after string) (Page[Artist], error)
	ShowEpisodes(ctx context.Context, showID string, offset int) (Page[Episode], error)
	Playlists(ctx context.Context) (Page[Playlist], error)
	RecentlyPlayed(ctx context.Context) ([]Track, error)
	Search(ctx context.Context, query string) (SearchResults, error)

	CurrentPlayback(ctx context.Context) (*Playback, error)
	Pause(ctx context.Context) error
	Resume(ctx context.Context) error
	NextTrack(ctx context.Context) error
	PreviousTrack(ctx context.Context) error
	Seek(ctx context.Context, positionMs int) error
	SetVolume(ctx context.Context, percent int) error
	SetShuffle(ctx context.Context, on bool) error
	SetRepeat(ctx context.Context, state RepeatState) error

	SaveTracks(ctx context.Context, ids []string) error
	RemoveSavedTracks(ctx context.Context, ids []string) error
	TracksAreSaved(ctx context.Context, ids []string) ([]bool, error)

	Devices(ctx context.Context) ([]Device, error)
	TransferPlayback(ctx context.Context, deviceID string) error
}
