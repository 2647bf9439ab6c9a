package ui

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/atomicstack/streampane/internal/command"
	"github.com/atomicstack/streampane/internal/keymap"
	"github.com/atomicstack/streampane/internal/logging"
	"github.com/atomicstack/streampane/internal/remote"
	"github.com/atomicstack/streampane/internal/route"
	"github.com/atomicstack/streampane/internal/state"
	tea "github.com/charmbracelet/bubbletea"
)

func TestMain(m *testing.M) {
	dir, err := os.MkdirTemp("", "streampane-ui-test")
	if err != nil {
		os.Exit(1)
	}
	logging.Configure(filepath.Join(dir, "test.log"))
	code := m.Run()
	os.RemoveAll(dir)
	os.Exit(code)
}

type sinkStub struct {
	cmds []command.Command
	err  error
}

func (s *sinkStub) Enqueue(cmd command.Command) error {
	if s.err != nil {
		return s.err
	}
	s.cmds = append(s.cmds, cmd)
	return nil
}

func newTestModel() (*Model, *state.State, *sinkStub) {
	st := state.New()
	sink := &sinkStub{}
	st.SetSink(sink)
	m := NewModel(st, keymap.Default())
	m.width = 80
	m.height = 24
	return m, st, sink
}

func press(t *testing.T, m *Model, msg tea.KeyMsg) tea.Cmd {
	t.Helper()
	_, cmd := m.Update(msg)
	return cmd
}

func runeKey(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func isQuit(cmd tea.Cmd) bool {
	if cmd == nil {
		return false
	}
	_, ok := cmd().(tea.QuitMsg)
	return ok
}

func TestQuitKey(t *testing.T) {
	m, _, _ := newTestModel()
	if cmd := press(t, m, runeKey('q')); !isQuit(cmd) {
		t.Fatalf("expected quit command for q")
	}
}

func TestBackAtRootQuits(t *testing.T) {
	m, st, _ := newTestModel()
	st.PushRoute(route.Tracks, route.FocusTracks)

	if cmd := press(t, m, tea.KeyMsg{Type: tea.KeyEsc}); isQuit(cmd) {
		t.Fatalf("expected esc above root to pop, not quit")
	}
	if got := st.CurrentRoute().ID; got != route.Home {
		t.Fatalf("expected home after pop, got %q", got)
	}
	if cmd := press(t, m, tea.KeyMsg{Type: tea.KeyEsc}); !isQuit(cmd) {
		t.Fatalf("expected esc at root to quit")
	}
}

func TestCursorMovesThroughLibrary(t *testing.T) {
	m, _, _ := newTestModel()

	press(t, m, runeKey('j'))
	press(t, m, tea.KeyMsg{Type: tea.KeyDown})
	if got := m.listFor(route.Home).Cursor; got != 2 {
		t.Fatalf("expected cursor 2 after two downs, got %d", got)
	}
	press(t, m, runeKey('k'))
	if got := m.listFor(route.Home).Cursor; got != 1 {
		t.Fatalf("expected cursor 1 after up, got %d", got)
	}
}

func TestSelectTracksFetchesOnFirstVisitOnly(t *testing.T) {
	m, st, sink := newTestModel()

	press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if got := st.CurrentRoute().ID; got != route.Tracks {
		t.Fatalf("expected tracks route, got %q", got)
	}
	if len(sink.cmds) != 1 {
		t.Fatalf("expected one fetch on first visit, got %d", len(sink.cmds))
	}
	if _, ok := sink.cmds[0].(command.FetchSavedTracks); !ok {
		t.Fatalf("expected FetchSavedTracks, got %T", sink.cmds[0])
	}

	st.AddSavedTracksPage(remote.Page[remote.Track]{
		Items: []remote.Track{{ID: "t1", Name: "Starlight"}},
		Total: 1,
	})
	press(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if len(sink.cmds) != 1 {
		t.Fatalf("expected cached revisit to skip the fetch, got %d commands", len(sink.cmds))
	}
}

func TestNextPagePrefersCache(t *testing.T) {
	m, st, sink := newTestModel()
	st.AddSavedTracksPage(remote.Page[remote.Track]{
		Items: []remote.Track{{ID: "t1"}}, Offset: 0, Limit: 1, Total: 3,
	})
	st.AddSavedTracksPage(remote.Page[remote.Track]{
		Items: []remote.Track{{ID: "t2"}}, Offset: 1, Limit: 1, Total: 3,
	})
	st.RetreatSavedTracks()
	st.PushRoute(route.Tracks, route.FocusTracks)

	// Page 2 is already cached.
	press(t, m, runeKey('n'))
	if len(sink.cmds) != 0 {
		t.Fatalf("expected cached page to satisfy next-page, got %v", sink.cmds)
	}

	// Page 3 is not.
	press(t, m, runeKey('n'))
	if len(sink.cmds) != 1 {
		t.Fatalf("expected a fetch past the cache, got %d commands", len(sink.cmds))
	}
	fetch, ok := sink.cmds[0].(command.FetchSavedTracks)
	if !ok || fetch.Offset != 2 {
		t.Fatalf("expected FetchSavedTracks{Offset: 2}, got %#v", sink.cmds[0])
	}
}

func TestSpaceDispatchesToggle(t *testing.T) {
	m, _, sink := newTestModel()
	press(t, m, tea.KeyMsg{Type: tea.KeySpace})
	if len(sink.cmds) != 1 {
		t.Fatalf("expected one command, got %d", len(sink.cmds))
	}
	if _, ok := sink.cmds[0].(command.TogglePlayback); !ok {
		t.Fatalf("expected TogglePlayback, got %T", sink.cmds[0])
	}
}

func TestVolumeKeysUsePlaybackSnapshot(t *testing.T) {
	m, st, sink := newTestModel()
	st.SetPlayback(&remote.Playback{
		Item:   &remote.Track{ID: "t1", DurationMs: 200_000},
		Volume: 50,
	})

	press(t, m, runeKey('+'))
	press(t, m, runeKey('-'))
	if len(sink.cmds) != 2 {
		t.Fatalf("expected two commands, got %d", len(sink.cmds))
	}
	up, ok := sink.cmds[0].(command.SetVolume)
	if !ok || up.Percent != 50+state.VolumeStep {
		t.Fatalf("expected volume up from 50, got %#v", sink.cmds[0])
	}
	down, ok := sink.cmds[1].(command.SetVolume)
	if !ok || down.Percent != 50-state.VolumeStep {
		t.Fatalf("expected volume down from 50, got %#v", sink.cmds[1])
	}
}

func TestSeekKeysStayLocalUntilPoll(t *testing.T) {
	m, st, sink := newTestModel()
	st.SetPlayback(&remote.Playback{
		Item:       &remote.Track{ID: "t1", DurationMs: 200_000},
		IsPlaying:  true,
		ProgressMs: 10_000,
	})

	press(t, m, tea.KeyMsg{Type: tea.KeyRight})
	press(t, m, tea.KeyMsg{Type: tea.KeyLeft})
	if len(sink.cmds) != 0 {
		t.Fatalf("expected seeks to accumulate locally, got %v", sink.cmds)
	}
	if !st.SeekPending() {
		t.Fatalf("expected a pending seek")
	}
}

func TestSaveKeyTargetsHoveredTrack(t *testing.T) {
	m, st, sink := newTestModel()
	st.AddSavedTracksPage(remote.Page[remote.Track]{
		Items: []remote.Track{{ID: "t1"}, {ID: "t2"}}, Total: 2,
	})
	st.PushRoute(route.Tracks, route.FocusTracks)

	press(t, m, runeKey('j'))
	press(t, m, runeKey('s'))
	save, ok := sink.cmds[len(sink.cmds)-1].(command.ToggleSaveTrack)
	if !ok || save.TrackID != "t2" {
		t.Fatalf("expected toggle-save for hovered t2, got %#v", sink.cmds)
	}
}

func TestCopyURLUsesClipboard(t *testing.T) {
	m, st, _ := newTestModel()
	st.SetPlayback(&remote.Playback{
		Item: &remote.Track{ID: "t1", URL: "https://play.example.com/track/t1"},
	})

	var copied string
	m.writeClipboard = func(text string) error {
		copied = text
		return nil
	}
	press(t, m, runeKey('c'))
	if copied != "https://play.example.com/track/t1" {
		t.Fatalf("expected track url copied, got %q", copied)
	}

	m.writeClipboard = func(string) error { return errors.New("no clipboard") }
	press(t, m, runeKey('c'))
	if got := st.CurrentRoute().ID; got != route.Error {
		t.Fatalf("expected clipboard failure on the error route, got %q", got)
	}
}

func TestSearchFlow(t *testing.T) {
	m, st, sink := newTestModel()

	press(t, m, runeKey('/'))
	if got := st.CurrentRoute().ID; got != route.Search {
		t.Fatalf("expected search route, got %q", got)
	}
	if !m.searchInput.Focused() {
		t.Fatalf("expected focused search input")
	}

	// While the input has focus, plain letters type instead of triggering
	// their bindings.
	for _, r := range "muse" {
		press(t, m, runeKey(r))
	}
	if len(sink.cmds) != 0 {
		t.Fatalf("expected no commands while typing, got %v", sink.cmds)
	}
	if got := m.searchInput.Value(); got != "muse" {
		t.Fatalf("expected typed query muse, got %q", got)
	}

	press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if len(sink.cmds) != 1 {
		t.Fatalf("expected one search command, got %d", len(sink.cmds))
	}
	search, ok := sink.cmds[0].(command.Search)
	if !ok || search.Query != "muse" {
		t.Fatalf("expected Search{muse}, got %#v", sink.cmds[0])
	}
	if m.searchInput.Focused() {
		t.Fatalf("expected input blurred after submit")
	}
}

func TestSearchEscReturnsHome(t *testing.T) {
	m, st, _ := newTestModel()
	press(t, m, runeKey('/'))
	press(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if got := st.CurrentRoute().ID; got != route.Home {
		t.Fatalf("expected home after leaving search, got %q", got)
	}
	if m.searchInput.Focused() {
		t.Fatalf("expected input blurred after esc")
	}
}

func TestViewRendersWithoutData(t *testing.T) {
	m, _, _ := newTestModel()
	if out := m.View(); out == "" {
		t.Fatalf("expected non-empty render")
	}
}

func TestViewShowsSearchCountsPerKind(t *testing.T) {
	m, st, _ := newTestModel()
	press(t, m, runeKey('/'))
	st.SetSearchResults("artist 3", remote.SearchResults{
		Tracks:  remote.Page[remote.Track]{Items: []remote.Track{{ID: "t1", Name: "Track 31", Artist: "Artist 3"}}, Total: 5},
		Albums:  remote.Page[remote.Album]{Total: 2},
		Artists: remote.Page[remote.Artist]{Total: 1},
	})
	out := m.View()
	if !strings.Contains(out, "5 tracks") || !strings.Contains(out, "2 albums") {
		t.Fatalf("expected per-kind counts in the search footer, got %q", out)
	}
}

func TestViewShowsPlaybackBar(t *testing.T) {
	m, st, _ := newTestModel()
	st.SetPlayback(&remote.Playback{
		Item:      &remote.Track{ID: "t1", Name: "Starlight", Artist: "Muse", DurationMs: 240_000},
		IsPlaying: true,
		Volume:    80,
	})
	out := m.View()
	if out == "" {
		t.Fatalf("expected non-empty render")
	}
	if !strings.Contains(out, "Starlight") || !strings.Contains(out, "Muse") {
		t.Fatalf("expected playbar to show the playing track, got %q", out)
	}
}
