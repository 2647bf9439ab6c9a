package remote

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
)

// Fake is an in-memory Client used by tests and by offline mode. All methods
// honour context cancellation and respect the configured page size.
type Fake struct {
	mu sync.Mutex

	tracks    []Track
	albums    []Album
	artists   []Artist
	episodes  map[string][]Episode
	playlists []Playlist
	recent    []Track
	devices   []Device
	saved     map[string]struct{}
	playback  *Playback
	pageSize  int

	// Err, when set, is returned by every call. Tests use it to exercise
	// failure paths.
	Err error

	// Calls records method names in invocation order.
	Calls []string
}

// NewFake returns a Fake preloaded with a small demo library.
func NewFake() *Fake {
	f := &Fake{
		episodes: map[string][]Episode{},
		saved:    map[string]struct{}{},
		pageSize: DefaultPageSize,
	}
	f.seed()
	return f
}

// SetPageSize overrides the page size used for paginated responses.
func (f *Fake) SetPageSize(n int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if n > 0 {
		f.pageSize = n
	}
}

// SetPlayback replaces the playback snapshot returned by CurrentPlayback.
func (f *Fake) SetPlayback(p *Playback) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.playback = p
}

// SetTracks replaces the saved-tracks collection.
func (f *Fake) SetTracks(tracks []Track) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tracks = append([]Track(nil), tracks...)
}

func (f *Fake) seed() {
	for i := 1; i <= 45; i++ {
		f.tracks = append(f.tracks, Track{
			ID:         fmt.Sprintf("track-%02d", i),
			Name:       fmt.Sprintf("Track %02d", i),
			Artist:     fmt.Sprintf("Artist %d", (i%9)+1),
			Album:      fmt.Sprintf("Album %d", (i%7)+1),
			DurationMs: 180_000 + i*1000,
			URL:        fmt.Sprintf("https://play.example.com/track/track-%02d", i),
		})
	}
	for i := 1; i <= 12; i++ {
		f.albums = append(f.albums, Album{
			ID:     fmt.Sprintf("album-%02d", i),
			Name:   fmt.Sprintf("Album %d", i),
			Artist: fmt.Sprintf("Artist %d", (i%5)+1),
			Tracks: 8 + i%5,
		})
	}
	for i := 1; i <= 9; i++ {
		f.artists = append(f.artists, Artist{
			ID:   fmt.Sprintf("artist-%d", i),
			Name: fmt.Sprintf("Artist %d", i),
		})
	}
	for i := 1; i <= 8; i++ {
		f.episodes["show-1"] = append(f.episodes["show-1"], Episode{
			ID:         fmt.Sprintf("episode-%02d", i),
			Name:       fmt.Sprintf("Episode %02d", i),
			Show:       "Show 1",
			DurationMs: 1_800_000 + i*60_000,
		})
	}
	f.playlists = []Playlist{
		{ID: "pl-1", Name: "Daily Drive", Tracks: 50},
		{ID: "pl-2", Name: "Deep Focus", Tracks: 120},
		{ID: "pl-3", Name: "Release Radar", Tracks: 30},
	}
	f.recent = append([]Track(nil), f.tracks[:10]...)
	f.devices = []Device{
		{ID: "dev-1", Name: "streampane", Active: true},
		{ID: "dev-2", Name: "Kitchen Speaker"},
	}
	first := f.tracks[0]
	f.playback = &Playback{
		Item:      &first,
		Device:    f.devices[0],
		IsPlaying: true,
		Repeat:    RepeatOff,
		Volume:    80,
	}
	f.saved[f.tracks[0].ID] = struct{}{}
	f.saved[f.tracks[2].ID] = struct{}{}
}

func (f *Fake) begin(ctx context.Context, call string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	f.Calls = append(f.Calls, call)
	return f.Err
}

func pageOf[T any](items []T, offset, limit int) (Page[T], error) {
	if offset < 0 || (offset > 0 && offset >= len(items)) {
		return Page[T]{}, fmt.Errorf("offset %d out of range (total %d)", offset, len(items))
	}
	end := offset + limit
	if end > len(items) {
		end = len(items)
	}
	return Page[T]{
		Items:  append([]T(nil), items[offset:end]...),
		Offset: offset,
		Limit:  limit,
		Total:  len(items),
	}, nil
}

func (f *Fake) SavedTracks(ctx context.Context, offset int) (Page[Track], error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.begin(ctx, "SavedTracks"); err != nil {
		return Page[Track]{}, err
	}
	return pageOf(f.tracks, offset, f.pageSize)
}

func (f *Fake) SavedAlbums(ctx context.Context, offset int) (Page[Album], error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.begin(ctx, "SavedAlbums"); err != nil {
		return Page[Album]{}, err
	}
	return pageOf(f.albums, offset, f.pageSize)
}

func (f *Fake) FollowedArtists(ctx context.Context, after string) (Page[Artist], error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.begin(ctx, "FollowedArtists"); err != nil {
		return Page[Artist]{}, err
	}
	start := 0
	if after != "" {
		for i, a := range f.artists {
			if a.ID == after {
				start = i + 1
				break
			}
		}
	}
	return pageOf(f.artists, start, f.pageSize)
}

func (f *Fake) ShowEpisodes(ctx context.Context, showID string, offset int) (Page[Episode], error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.begin(ctx, "ShowEpisodes"); err != nil {
		return Page[Episode]{}, err
	}
	return pageOf(f.episodes[showID], offset, f.pageSize)
}

func (f *Fake) Playlists(ctx context.Context) (Page[Playlist], error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.begin(ctx, "Playlists"); err != nil {
		return Page[Playlist]{}, err
	}
	return pageOf(f.playlists, 0, f.pageSize)
}

func (f *Fake) RecentlyPlayed(ctx context.Context) ([]Track, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.begin(ctx, "RecentlyPlayed"); err != nil {
		return nil, err
	}
	return append([]Track(nil), f.recent...), nil
}

func (f *Fake) Search(ctx context.Context, query string) (SearchResults, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.begin(ctx, "Search"); err != nil {
		return SearchResults{}, err
	}
	q := strings.ToLower(strings.TrimSpace(query))
	var res SearchResults
	var tracks []Track
	for _, tr := range f.tracks {
		if strings.Contains(strings.ToLower(tr.Name), q) || strings.Contains(strings.ToLower(tr.Artist), q) {
			tracks = append(tracks, tr)
		}
	}
	var albums []Album
	for _, al := range f.albums {
		if strings.Contains(strings.ToLower(al.Name), q) {
			albums = append(albums, al)
		}
	}
	var artists []Artist
	for _, ar := range f.artists {
		if strings.Contains(strings.ToLower(ar.Name), q) {
			artists = append(artists, ar)
		}
	}
	var playlists []Playlist
	for _, pl := range f.playlists {
		if strings.Contains(strings.ToLower(pl.Name), q) {
			playlists = append(playlists, pl)
		}
	}
	res.Tracks, _ = pageOf(tracks, 0, f.pageSize)
	res.Albums, _ = pageOf(albums, 0, f.pageSize)
	res.Artists, _ = pageOf(artists, 0, f.pageSize)
	res.Playlists, _ = pageOf(playlists, 0, f.pageSize)
	return res, nil
}

func (f *Fake) CurrentPlayback(ctx context.Context) (*Playback, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.begin(ctx, "CurrentPlayback"); err != nil {
		return nil, err
	}
	if f.playback == nil {
		return nil, nil
	}
	dup := *f.playback
	if f.playback.Item != nil {
		item := *f.playback.Item
		dup.Item = &item
	}
	return &dup, nil
}

func (f *Fake) Pause(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.begin(ctx, "Pause"); err != nil {
		return err
	}
	if f.playback != nil {
		f.playback.IsPlaying = false
	}
	return nil
}

func (f *Fake) Resume(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.begin(ctx, "Resume"); err != nil {
		return err
	}
	if f.playback != nil {
		f.playback.IsPlaying = true
	}
	return nil
}

func (f *Fake) NextTrack(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.begin(ctx, "NextTrack"); err != nil {
		return err
	}
	f.stepTrack(1)
	return nil
}

func (f *Fake) PreviousTrack(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.begin(ctx, "PreviousTrack"); err != nil {
		return err
	}
	f.stepTrack(-1)
	return nil
}

func (f *Fake) stepTrack(delta int) {
	if f.playback == nil || f.playback.Item == nil || len(f.tracks) == 0 {
		return
	}
	idx := 0
	for i, tr := range f.tracks {
		if tr.ID == f.playback.Item.ID {
			idx = i
			break
		}
	}
	idx = (idx + delta + len(f.tracks)) % len(f.tracks)
	next := f.tracks[idx]
	f.playback.Item = &next
	f.playback.ProgressMs = 0
}

func (f *Fake) Seek(ctx context.Context, positionMs int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.begin(ctx, "Seek"); err != nil {
		return err
	}
	if f.playback != nil {
		f.playback.ProgressMs = positionMs
	}
	return nil
}

func (f *Fake) SetVolume(ctx context.Context, percent int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.begin(ctx, "SetVolume"); err != nil {
		return err
	}
	if f.playback != nil {
		f.playback.Volume = percent
	}
	return nil
}

func (f *Fake) SetShuffle(ctx context.Context, on bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.begin(ctx, "SetShuffle"); err != nil {
		return err
	}
	if f.playback != nil {
		f.playback.Shuffle = on
	}
	return nil
}

func (f *Fake) SetRepeat(ctx context.Context, state RepeatState) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.begin(ctx, "SetRepeat"); err != nil {
		return err
	}
	if f.playback != nil {
		f.playback.Repeat = state
	}
	return nil
}

func (f *Fake) SaveTracks(ctx context.Context, ids []string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.begin(ctx, "SaveTracks"); err != nil {
		return err
	}
	for _, id := range ids {
		f.saved[id] = struct{}{}
	}
	return nil
}

func (f *Fake) RemoveSavedTracks(ctx context.Context, ids []string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.begin(ctx, "RemoveSavedTracks"); err != nil {
		return err
	}
	for _, id := range ids {
		delete(f.saved, id)
	}
	return nil
}

func (f *Fake) TracksAreSaved(ctx context.Context, ids []string) ([]bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.begin(ctx, "TracksAreSaved"); err != nil {
		return nil, err
	}
	out := make([]bool, len(ids))
	for i, id := range ids {
		_, out[i] = f.saved[id]
	}
	return out, nil
}

func (f *Fake) Devices(ctx context.Context) ([]Device, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.begin(ctx, "Devices"); err != nil {
		return nil, err
	}
	dup := append([]Device(nil), f.devices...)
	sort.SliceStable(dup, func(i, j int) bool { return dup[i].Active && !dup[j].Active })
	return dup, nil
}

func (f *Fake) TransferPlayback(ctx context.Context, deviceID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.begin(ctx, "TransferPlayback"); err != nil {
		return err
	}
	for i := range f.devices {
		f.devices[i].Active = f.devices[i].ID == deviceID
		if f.devices[i].Active && f.playback != nil {
			f.playback.Device = f.devices[i]
		}
	}
	return nil
}

var _ Client = (*Fake)(nil)
