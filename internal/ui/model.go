package ui

import (
	"reflect"
	"time"

	"github.com/atomicstack/streampane/internal/keymap"
	"github.com/atomicstack/streampane/internal/remote"
	"github.com/atomicstack/streampane/internal/route"
	"github.com/atomicstack/streampane/internal/state"
	"github.com/atomicstack/streampane/internal/theme"
	"github.com/atomicstack/streampane/internal/ui/list"
	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// tickInterval is the input/render cadence. Playback refresh spacing is
// enforced separately inside state.UpdateOnTick.
const tickInterval = 250 * time.Millisecond

var styles = theme.Default()

type msgHandler func(tea.Msg) tea.Cmd

// tickMsg drives the periodic poll.
type tickMsg time.Time

// Model implements the Bubble Tea model. It owns no application data beyond
// per-view cursors and the search input; everything else is read from the
// shared state on each pass.
type Model struct {
	state *state.State
	keys  keymap.Map

	width  int
	height int

	lists       map[route.ViewID]*list.List
	searchInput textinput.Model

	handlers map[reflect.Type]msgHandler

	// writeClipboard is swapped out in tests.
	writeClipboard func(string) error
}

// NewModel initialises the UI over the given shared state.
func NewModel(st *state.State, keys keymap.Map) *Model {
	input := textinput.New()
	input.Placeholder = "Search…"
	input.CharLimit = 120
	if styles.SearchPrompt != nil {
		input.PromptStyle = styles.SearchPrompt.Copy()
	}
	if styles.SearchPlaceholder != nil {
		input.PlaceholderStyle = styles.SearchPlaceholder.Copy()
	}
	m := &Model{
		state:          st,
		keys:           keys,
		lists:          make(map[route.ViewID]*list.List),
		searchInput:    input,
		writeClipboard: clipboard.WriteAll,
	}
	m.registerHandlers()
	return m
}

func (m *Model) registerHandlers() {
	m.handlers = map[reflect.Type]msgHandler{
		reflect.TypeOf(tea.KeyMsg{}):        m.handleKeyMsg,
		reflect.TypeOf(tea.WindowSizeMsg{}): m.handleWindowSizeMsg,
		reflect.TypeOf(tickMsg{}):           m.handleTickMsg,
	}
}

func (m *Model) handlerFor(msg tea.Msg) msgHandler {
	return m.handlers[reflect.TypeOf(msg)]
}

// Init is part of the tea.Model interface.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(tick(), textinput.Blink)
}

func tick() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// Update responds to Bubble Tea messages.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	cmds := make([]tea.Cmd, 0, 2)
	if m.searchFocused() {
		if _, ok := msg.(tea.KeyMsg); ok {
			if cmd := m.handleSearchKey(msg.(tea.KeyMsg)); cmd != nil {
				cmds = append(cmds, cmd)
			}
			return m, tea.Batch(cmds...)
		}
		var cmd tea.Cmd
		m.searchInput, cmd = m.searchInput.Update(msg)
		if cmd != nil {
			cmds = append(cmds, cmd)
		}
	}
	if handler := m.handlerFor(msg); handler != nil {
		if cmd := handler(msg); cmd != nil {
			cmds = append(cmds, cmd)
		}
	}
	if len(cmds) == 0 {
		return m, nil
	}
	return m, tea.Batch(cmds...)
}

func (m *Model) handleWindowSizeMsg(msg tea.Msg) tea.Cmd {
	sizeMsg, ok := msg.(tea.WindowSizeMsg)
	if !ok {
		return nil
	}
	m.width = sizeMsg.Width
	m.height = sizeMsg.Height
	return nil
}

// handleTickMsg advances local playback progress and lets the shared state
// decide whether this tick warrants a remote refresh, then re-arms the timer.
func (m *Model) handleTickMsg(msg tea.Msg) tea.Cmd {
	m.state.UpdateOnTick()
	return tick()
}

func (m *Model) searchFocused() bool {
	return m.state.CurrentRoute().ID == route.Search && m.searchInput.Focused()
}

// listFor returns the cursor state for a view, creating it on first use.
func (m *Model) listFor(id route.ViewID) *list.List {
	l, ok := m.lists[id]
	if !ok {
		l = &list.List{}
		m.lists[id] = l
	}
	return l
}

var libraryOptions = []list.Item{
	{ID: "tracks", Label: "Liked Songs"},
	{ID: "albums", Label: "Albums"},
	{ID: "artists", Label: "Artists"},
	{ID: "playlists", Label: "Playlists"},
	{ID: "recent", Label: "Recently Played"},
	{ID: "devices", Label: "Devices"},
}

// syncLists rebuilds each view's items from the shared state, preserving the
// cursor where possible.
func (m *Model) syncLists() {
	m.listFor(route.Home).SetItems(libraryOptions)

	if page, ok := m.state.SavedTracksPage(); ok {
		m.listFor(route.Tracks).SetItems(trackItems(page.Items))
	}
	if page, ok := m.state.SavedAlbumsPage(); ok {
		items := make([]list.Item, 0, len(page.Items))
		for _, al := range page.Items {
			items = append(items, list.Item{ID: al.ID, Label: al.Name + " — " + al.Artist})
		}
		m.listFor(route.Albums).SetItems(items)
	}
	if page, ok := m.state.FollowedArtistsPage(); ok {
		items := make([]list.Item, 0, len(page.Items))
		for _, ar := range page.Items {
			items = append(items, list.Item{ID: ar.ID, Label: ar.Name})
		}
		m.listFor(route.Artists).SetItems(items)
	}
	if playlists := m.state.Playlists(); len(playlists) > 0 {
		items := make([]list.Item, 0, len(playlists))
		for _, pl := range playlists {
			items = append(items, list.Item{ID: pl.ID, Label: pl.Name})
		}
		m.listFor(route.Playlists).SetItems(items)
	}
	if recent := m.state.RecentlyPlayed(); len(recent) > 0 {
		m.listFor(route.RecentlyPlayed).SetItems(trackItems(recent))
	}
	if devices := m.state.Devices(); len(devices) > 0 {
		items := make([]list.Item, 0, len(devices))
		for _, dev := range devices {
			label := dev.Name
			if dev.Active {
				label = "[active] " + label
			}
			items = append(items, list.Item{ID: dev.ID, Label: label})
		}
		m.listFor(route.Devices).SetItems(items)
	}
	if _, res, ok := m.state.SearchResults(); ok {
		m.listFor(route.Search).SetItems(trackItems(res.Tracks.Items))
	}
}

func trackItems(tracks []remote.Track) []list.Item {
	items := make([]list.Item, 0, len(tracks))
	for _, tr := range tracks {
		items = append(items, list.Item{ID: tr.ID, Label: tr.Name + " — " + tr.Artist})
	}
	return items
}
