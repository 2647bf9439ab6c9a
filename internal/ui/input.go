package ui

import (
	"fmt"
	"strings"

	"github.com/atomicstack/streampane/internal/command"
	"github.com/atomicstack/streampane/internal/keymap"
	"github.com/atomicstack/streampane/internal/logging/events"
	"github.com/atomicstack/streampane/internal/remote"
	"github.com/atomicstack/streampane/internal/route"
	"github.com/atomicstack/streampane/internal/state"
	tea "github.com/charmbracelet/bubbletea"
)

func (m *Model) handleKeyMsg(msg tea.Msg) tea.Cmd {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return nil
	}
	key := keyMsg.String()
	current := m.state.CurrentRoute()
	events.UI.Key(key, string(current.ID))

	action, bound := m.keys[key]
	if !bound {
		return nil
	}
	switch action {
	case keymap.Quit:
		return tea.Quit
	case keymap.Back:
		return m.back()
	case keymap.Up:
		m.moveCursor(current.ID, -1)
	case keymap.Down:
		m.moveCursor(current.ID, 1)
	case keymap.Select:
		return m.handleSelect(current.ID)
	case keymap.NextPage:
		m.nextPage(current.ID)
	case keymap.PreviousPage:
		m.previousPage(current.ID)
	case keymap.TogglePlayback:
		m.state.Dispatch(command.TogglePlayback{})
	case keymap.NextTrack:
		m.state.Dispatch(command.NextTrack{})
	case keymap.PreviousTrack:
		m.state.Dispatch(command.PreviousTrack{})
	case keymap.SeekForward:
		m.state.SeekForward()
	case keymap.SeekBackward:
		m.state.SeekBackward()
	case keymap.VolumeUp:
		m.changeVolume(1)
	case keymap.VolumeDown:
		m.changeVolume(-1)
	case keymap.ToggleShuffle:
		shuffle := false
		if playback := m.state.Playback(); playback != nil {
			shuffle = playback.Shuffle
		}
		m.state.Dispatch(command.ToggleShuffle{Current: shuffle})
	case keymap.CycleRepeat:
		repeat := remote.RepeatOff
		if playback := m.state.Playback(); playback != nil {
			repeat = playback.Repeat
		}
		m.state.Dispatch(command.CycleRepeat{Current: repeat})
	case keymap.SaveTrack:
		m.toggleSaveHovered(current.ID)
	case keymap.CopyURL:
		m.copyPlayingURL()
	case keymap.Search:
		m.openSearch()
	case keymap.Devices:
		m.state.PushRoute(route.Devices, route.FocusDevices)
		m.state.Dispatch(command.FetchDevices{})
	}
	return nil
}

// back pops one route; at the root there is nothing left to back out of and
// the application exits.
func (m *Model) back() tea.Cmd {
	if _, ok := m.state.PopRoute(); !ok {
		return tea.Quit
	}
	return nil
}

func (m *Model) moveCursor(id route.ViewID, delta int) {
	m.syncLists()
	l := m.listFor(id)
	moved := false
	if delta < 0 {
		moved = l.MoveUp()
	} else {
		moved = l.MoveDown()
	}
	if moved {
		events.UI.Cursor(string(id), l.Cursor)
		l.EnsureVisible(m.maxVisibleItems())
	}
}

func (m *Model) handleSelect(id route.ViewID) tea.Cmd {
	m.syncLists()
	item, ok := m.listFor(id).Current()
	if !ok {
		return nil
	}
	switch id {
	case route.Home:
		m.openLibraryEntry(item.ID)
	case route.Devices:
		m.state.Dispatch(command.TransferPlayback{DeviceID: item.ID})
	}
	return nil
}

// openLibraryEntry drills into a library screen and lazily triggers the first
// fetch; a screen already visited this session is served from cache.
func (m *Model) openLibraryEntry(entry string) {
	switch entry {
	case "tracks":
		m.state.PushRoute(route.Tracks, route.FocusTracks)
		if _, ok := m.state.SavedTracksPage(); !ok {
			m.state.Dispatch(command.FetchSavedTracks{Offset: 0})
		}
	case "albums":
		m.state.PushRoute(route.Albums, route.FocusAlbums)
		if _, ok := m.state.SavedAlbumsPage(); !ok {
			m.state.Dispatch(command.FetchSavedAlbums{Offset: 0})
		}
	case "artists":
		m.state.PushRoute(route.Artists, route.FocusArtists)
		if _, ok := m.state.FollowedArtistsPage(); !ok {
			m.state.Dispatch(command.FetchFollowedArtists{})
		}
	case "playlists":
		m.state.PushRoute(route.Playlists, route.FocusLibrary)
		if len(m.state.Playlists()) == 0 {
			m.state.Dispatch(command.FetchPlaylists{})
		}
	case "recent":
		m.state.PushRoute(route.RecentlyPlayed, route.FocusRecent)
		m.state.Dispatch(command.FetchRecentlyPlayed{})
	case "devices":
		m.state.PushRoute(route.Devices, route.FocusDevices)
		m.state.Dispatch(command.FetchDevices{})
	}
}

// nextPage serves the next page from cache when it is already there, and only
// otherwise issues a remote fetch.
func (m *Model) nextPage(id route.ViewID) {
	switch id {
	case route.Tracks:
		if m.state.AdvanceSavedTracks() {
			return
		}
		if offset, more := m.state.NextSavedTracksOffset(); more {
			m.state.Dispatch(command.FetchSavedTracks{Offset: offset})
		}
	case route.Albums:
		if m.state.AdvanceSavedAlbums() {
			return
		}
		if offset, more := m.state.NextSavedAlbumsOffset(); more {
			m.state.Dispatch(command.FetchSavedAlbums{Offset: offset})
		}
	case route.Artists:
		if m.state.AdvanceFollowedArtists() {
			return
		}
		if after, more := m.state.LastFollowedArtistID(); more {
			m.state.Dispatch(command.FetchFollowedArtists{After: after})
		}
	}
}

func (m *Model) previousPage(id route.ViewID) {
	switch id {
	case route.Tracks:
		m.state.RetreatSavedTracks()
	case route.Albums:
		m.state.RetreatSavedAlbums()
	case route.Artists:
		m.state.RetreatFollowedArtists()
	}
}

func (m *Model) changeVolume(direction int) {
	playback := m.state.Playback()
	if playback == nil {
		return
	}
	m.state.Dispatch(command.SetVolume{Percent: playback.Volume + direction*state.VolumeStep})
}

func (m *Model) toggleSaveHovered(id route.ViewID) {
	switch id {
	case route.Tracks, route.RecentlyPlayed, route.Search:
		m.syncLists()
		if item, ok := m.listFor(id).Current(); ok {
			m.state.Dispatch(command.ToggleSaveTrack{TrackID: item.ID})
		}
	default:
		if playback := m.state.Playback(); playback != nil && playback.Item != nil {
			m.state.Dispatch(command.ToggleSaveTrack{TrackID: playback.Item.ID})
		}
	}
}

func (m *Model) copyPlayingURL() {
	playback := m.state.Playback()
	if playback == nil || playback.Item == nil || playback.Item.URL == "" {
		return
	}
	if err := m.writeClipboard(playback.Item.URL); err != nil {
		m.state.HandleError(fmt.Errorf("copy url: %w", err))
	}
}

func (m *Model) openSearch() {
	m.state.PushRoute(route.Search, route.FocusInput)
	m.searchInput.Focus()
}

// handleSearchKey owns all keys while the search input has focus.
func (m *Model) handleSearchKey(keyMsg tea.KeyMsg) tea.Cmd {
	switch keyMsg.String() {
	case "ctrl+c":
		return tea.Quit
	case "esc":
		m.searchInput.Blur()
		return m.back()
	case "enter":
		query := strings.TrimSpace(m.searchInput.Value())
		if query == "" {
			return nil
		}
		m.searchInput.Blur()
		m.state.Dispatch(command.Search{Query: query})
		return nil
	}
	var cmd tea.Cmd
	m.searchInput, cmd = m.searchInput.Update(keyMsg)
	return cmd
}
