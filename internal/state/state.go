// Package state owns the single mutable application model shared by the
// input/render loop and the network worker. Every field is reached through
// methods that take the state lock; the lock is held only for the duration of
// a field read or a small mutation, never across a remote call.
package state

import (
	"fmt"
	"sync"
	"time"

	"github.com/atomicstack/streampane/internal/command"
	"github.com/atomicstack/streampane/internal/logging"
	"github.com/atomicstack/streampane/internal/logging/events"
	"github.com/atomicstack/streampane/internal/pages"
	"github.com/atomicstack/streampane/internal/remote"
	"github.com/atomicstack/streampane/internal/route"
)

// CommandSink accepts commands for the worker. Enqueue never blocks; it fails
// only when the worker is gone.
type CommandSink interface {
	Enqueue(command.Command) error
}

// State is the shared application model.
type State struct {
	mu   sync.RWMutex
	sink CommandSink
	now  func() time.Time

	nav *route.Stack

	savedTracks     pages.Cache[remote.Page[remote.Track]]
	savedAlbums     pages.Cache[remote.Page[remote.Album]]
	followedArtists pages.Cache[remote.Page[remote.Artist]]
	showEpisodes    pages.Cache[remote.Page[remote.Episode]]

	playlists   []remote.Playlist
	recent      []remote.Track
	devices     []remote.Device
	search      remote.SearchResults
	searchQuery string
	hasSearch   bool

	likedTracks map[string]struct{}

	playback         *remote.Playback
	progressMs       int
	lastPlaybackPoll time.Time
	fetchingPlayback bool
	seekMs           *int

	isLoading bool
	errMsg    string
}

// New returns a State holding the default home route.
func New() *State {
	return &State{
		nav:         route.NewStack(),
		likedTracks: make(map[string]struct{}),
		now:         time.Now,
	}
}

// NewWithClock returns a State that reads time from the given clock instead
// of the wall clock, so the poll interval can be driven deterministically.
func NewWithClock(now func() time.Time) *State {
	s := New()
	s.now = now
	return s
}

// SetSink wires the command sink. Must be called before the first Dispatch.
func (s *State) SetSink(sink CommandSink) {
	s.mu.Lock()
	s.sink = sink
	s.mu.Unlock()
}

// Dispatch marks a request in flight and hands the command to the worker.
// It never blocks and never waits for the result; the worker mutates state
// when the operation resolves. A failed send means the worker is gone, which
// is surfaced like any other error.
func (s *State) Dispatch(cmd command.Command) {
	s.mu.Lock()
	s.isLoading = true
	sink := s.sink
	s.mu.Unlock()

	var err error
	if sink == nil {
		err = fmt.Errorf("no command sink attached")
	} else {
		err = sink.Enqueue(cmd)
	}
	if err != nil {
		s.mu.Lock()
		s.isLoading = false
		s.mu.Unlock()
		s.HandleError(fmt.Errorf("dispatch %s: %w", cmd.Name(), err))
		return
	}
	events.Network.Queue(cmd.Name())
}

// HandleError is the single point where remote and operational failures
// become user-visible: it records the message and pushes the error route.
func (s *State) HandleError(err error) {
	if err == nil {
		return
	}
	logging.Error(err)
	s.mu.Lock()
	s.errMsg = err.Error()
	s.nav.Push(route.Error, route.FocusError)
	s.mu.Unlock()
}

// ErrorMessage returns the last recorded error text.
func (s *State) ErrorMessage() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.errMsg
}

// IsLoading reports whether a request is outstanding.
func (s *State) IsLoading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isLoading
}

// FinishRequest clears the in-flight flag. Called by the worker exactly once
// per command, after the result has been applied.
func (s *State) FinishRequest() {
	s.mu.Lock()
	s.isLoading = false
	s.mu.Unlock()
}

// Navigation

func (s *State) PushRoute(id route.ViewID, active route.Focus) {
	s.mu.Lock()
	s.nav.Push(id, active)
	s.mu.Unlock()
	events.UI.RoutePush(string(id), string(active))
}

// PopRoute pops the current route. A false return means the user is at the
// root and there is nothing left to back out of.
func (s *State) PopRoute() (route.Route, bool) {
	s.mu.Lock()
	popped, ok := s.nav.Pop()
	s.mu.Unlock()
	if ok {
		events.UI.RoutePop(string(popped.ID))
	}
	return popped, ok
}

func (s *State) CurrentRoute() route.Route {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.nav.Current()
}

func (s *State) SetRouteState(active, hovered *route.Focus) {
	s.mu.Lock()
	s.nav.SetState(active, hovered)
	s.mu.Unlock()
}

// Routes returns the navigation stack from bottom to top for rendering the
// breadcrumb.
func (s *State) Routes() []route.Route {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.nav.Routes()
}

func (s *State) RouteDepth() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.nav.Len()
}

// Saved tracks

func (s *State) AddSavedTracksPage(p remote.Page[remote.Track]) {
	s.mu.Lock()
	s.savedTracks.Add(p)
	s.mu.Unlock()
}

func (s *State) SavedTracksPage() (remote.Page[remote.Track], bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.savedTracks.Current()
}

// AdvanceSavedTracks moves to the next cached page. When it reports false the
// caller should dispatch a fetch for NextSavedTracksOffset instead.
func (s *State) AdvanceSavedTracks() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.savedTracks.Advance()
}

func (s *State) RetreatSavedTracks() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.savedTracks.Retreat()
}

// NextSavedTracksOffset returns the offset of the page after the current one,
// or false when the collection is exhausted.
func (s *State) NextSavedTracksOffset() (int, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	page, ok := s.savedTracks.Current()
	if !ok {
		return 0, true
	}
	return page.NextOffset()
}

// Saved albums

func (s *State) AddSavedAlbumsPage(p remote.Page[remote.Album]) {
	s.mu.Lock()
	s.savedAlbums.Add(p)
	s.mu.Unlock()
}

func (s *State) SavedAlbumsPage() (remote.Page[remote.Album], bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.savedAlbums.Current()
}

func (s *State) AdvanceSavedAlbums() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.savedAlbums.Advance()
}

func (s *State) RetreatSavedAlbums() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.savedAlbums.Retreat()
}

func (s *State) NextSavedAlbumsOffset() (int, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	page, ok := s.savedAlbums.Current()
	if !ok {
		return 0, true
	}
	return page.NextOffset()
}

// Followed artists

func (s *State) AddFollowedArtistsPage(p remote.Page[remote.Artist]) {
	s.mu.Lock()
	s.followedArtists.Add(p)
	s.mu.Unlock()
}

func (s *State) FollowedArtistsPage() (remote.Page[remote.Artist], bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.followedArtists.Current()
}

func (s *State) AdvanceFollowedArtists() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.followedArtists.Advance()
}

func (s *State) RetreatFollowedArtists() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.followedArtists.Retreat()
}

// LastFollowedArtistID returns the cursor for the next followed-artists page,
// or false when the collection is exhausted.
func (s *State) LastFollowedArtistID() (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	page, ok := s.followedArtists.Current()
	if !ok {
		return "", true
	}
	if _, more := page.NextOffset(); !more || len(page.Items) == 0 {
		return "", false
	}
	return page.Items[len(page.Items)-1].ID, true
}

// Show episodes

func (s *State) AddShowEpisodesPage(p remote.Page[remote.Episode]) {
	s.mu.Lock()
	s.showEpisodes.Add(p)
	s.mu.Unlock()
}

func (s *State) ShowEpisodesPage() (remote.Page[remote.Episode], bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.showEpisodes.Current()
}

// Flat collections

func (s *State) SetPlaylists(items []remote.Playlist) {
	s.mu.Lock()
	s.playlists = append([]remote.Playlist(nil), items...)
	s.mu.Unlock()
}

func (s *State) Playlists() []remote.Playlist {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]remote.Playlist(nil), s.playlists...)
}

func (s *State) SetRecentlyPlayed(items []remote.Track) {
	s.mu.Lock()
	s.recent = append([]remote.Track(nil), items...)
	s.mu.Unlock()
}

func (s *State) RecentlyPlayed() []remote.Track {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]remote.Track(nil), s.recent...)
}

func (s *State) SetDevices(items []remote.Device) {
	s.mu.Lock()
	s.devices = append([]remote.Device(nil), items...)
	s.mu.Unlock()
}

func (s *State) Devices() []remote.Device {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]remote.Device(nil), s.devices...)
}

// Search

func (s *State) SetSearchResults(query string, res remote.SearchResults) {
	s.mu.Lock()
	s.search = res
	s.searchQuery = query
	s.hasSearch = true
	s.mu.Unlock()
}

func (s *State) SearchResults() (string, remote.SearchResults, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.searchQuery, s.search, s.hasSearch
}

// Membership

func (s *State) SetTrackSaved(id string, saved bool) {
	s.mu.Lock()
	if saved {
		s.likedTracks[id] = struct{}{}
	} else {
		delete(s.likedTracks, id)
	}
	s.mu.Unlock()
}

func (s *State) TrackSaved(id string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.likedTracks[id]
	return ok
}
