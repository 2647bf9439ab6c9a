package ui

import (
	"fmt"
	"strings"

	"github.com/atomicstack/streampane/internal/route"
	"github.com/atomicstack/streampane/internal/ui/list"
	"github.com/dustin/go-humanize"
	"github.com/muesli/reflow/truncate"
)

const (
	headerSeparator  = " → "
	progressBarWidth = 24
	reservedRows     = 5 // header, blank, playbar, status, spare
)

var viewTitles = map[route.ViewID]string{
	route.Home:           "Library",
	route.Search:         "Search",
	route.Tracks:         "Liked Songs",
	route.Albums:         "Albums",
	route.Artists:        "Artists",
	route.Episodes:       "Episodes",
	route.Playlists:      "Playlists",
	route.RecentlyPlayed: "Recently Played",
	route.Devices:        "Devices",
	route.Error:          "Error",
}

// View implements tea.Model.
func (m *Model) View() string {
	m.syncLists()
	lines := make([]string, 0, 16)
	lines = append(lines, m.header())
	lines = append(lines, "")
	lines = append(lines, m.body()...)
	lines = append(lines, "")
	lines = append(lines, m.playbar())
	if status := m.statusLine(); status != "" {
		lines = append(lines, status)
	}
	if m.width > 0 {
		for i, line := range lines {
			lines[i] = truncate.String(line, uint(m.width))
		}
	}
	return strings.Join(lines, "\n")
}

// header renders the navigation stack as a breadcrumb.
func (m *Model) header() string {
	segments := make([]string, 0, 4)
	for _, r := range m.state.Routes() {
		title := viewTitles[r.ID]
		if title == "" {
			title = string(r.ID)
		}
		segments = append(segments, title)
	}
	return styles.Header.Render(strings.Join(segments, headerSeparator))
}

func (m *Model) body() []string {
	current := m.state.CurrentRoute()
	switch current.ID {
	case route.Error:
		return m.viewError()
	case route.Search:
		return m.viewSearch()
	case route.Tracks:
		return m.viewPagedList(route.Tracks, m.trackPageSummary())
	case route.Albums:
		return m.viewPagedList(route.Albums, m.albumPageSummary())
	case route.Artists:
		return m.viewPagedList(route.Artists, "")
	default:
		return m.viewList(current.ID)
	}
}

func (m *Model) viewList(id route.ViewID) []string {
	l := m.listFor(id)
	if len(l.Items) == 0 {
		if m.state.IsLoading() {
			return []string{styles.Loading.Render("Loading…")}
		}
		return []string{styles.Info.Render("(no entries)")}
	}
	return m.renderItems(id, l)
}

func (m *Model) viewPagedList(id route.ViewID, summary string) []string {
	lines := m.viewList(id)
	if summary != "" {
		lines = append(lines, "", styles.Footer.Render(summary))
	}
	return lines
}

func (m *Model) trackPageSummary() string {
	page, ok := m.state.SavedTracksPage()
	if !ok {
		return ""
	}
	return fmt.Sprintf("%s tracks · showing %d–%d · n/p to page",
		humanize.Comma(int64(page.Total)), page.Offset+1, page.Offset+len(page.Items))
}

func (m *Model) albumPageSummary() string {
	page, ok := m.state.SavedAlbumsPage()
	if !ok {
		return ""
	}
	return fmt.Sprintf("%s albums · showing %d–%d · n/p to page",
		humanize.Comma(int64(page.Total)), page.Offset+1, page.Offset+len(page.Items))
}

func (m *Model) renderItems(id route.ViewID, l *list.List) []string {
	maxVisible := m.maxVisibleItems()
	l.EnsureVisible(maxVisible)
	items := l.Items
	start := 0
	if maxVisible > 0 && len(items) > maxVisible {
		start = l.Offset
		end := start + maxVisible
		if end > len(items) {
			end = len(items)
		}
		items = items[start:end]
	}
	lines := make([]string, 0, len(items))
	for i, item := range items {
		label := item.Label
		if m.trackView(id) && m.state.TrackSaved(item.ID) {
			label = styles.Liked.Render("♥") + " " + label
		}
		if start+i == l.Cursor {
			lines = append(lines, styles.SelectedItem.Render("> "+label))
		} else {
			lines = append(lines, styles.ItemIndicator.Render("  ")+styles.Item.Render(label))
		}
	}
	return lines
}

func (m *Model) trackView(id route.ViewID) bool {
	switch id {
	case route.Tracks, route.RecentlyPlayed, route.Search:
		return true
	}
	return false
}

func (m *Model) viewSearch() []string {
	lines := []string{m.searchInput.View(), ""}
	query, res, ok := m.state.SearchResults()
	if !ok {
		// Until the remote search resolves, show fuzzy matches from the
		// already cached saved tracks.
		if page, cached := m.state.SavedTracksPage(); cached {
			local := list.Filter(trackItems(page.Items), m.searchInput.Value())
			if len(local) > 0 {
				lines = append(lines, styles.Info.Render("Local matches:"))
				for _, item := range local {
					lines = append(lines, styles.Item.Render("  "+item.Label))
				}
			}
		}
		return lines
	}
	lines = append(lines, styles.Info.Render(fmt.Sprintf("Results for %q:", query)))
	lines = append(lines, m.renderItems(route.Search, m.listFor(route.Search))...)
	// Only tracks are browsable; the other kinds show up as counts so the
	// user can tell the query matched more than the visible list.
	counts := fmt.Sprintf("%s tracks · %d albums · %d artists · %d playlists · %d shows",
		humanize.Comma(int64(res.Tracks.Total)), res.Albums.Total, res.Artists.Total, res.Playlists.Total, res.Shows.Total)
	lines = append(lines, "", styles.Footer.Render(counts))
	return lines
}

func (m *Model) viewError() []string {
	msg := m.state.ErrorMessage()
	if msg == "" {
		msg = "unknown error"
	}
	return []string{
		styles.Error.Render("Error: " + msg),
		"",
		styles.Info.Render("Press esc to go back."),
	}
}

func (m *Model) playbar() string {
	playback := m.state.Playback()
	if playback == nil || playback.Item == nil {
		return styles.PlayBarDetail.Render("Nothing playing")
	}
	item := playback.Item
	status := "⏸"
	if playback.IsPlaying {
		status = "▶"
	}
	title := styles.PlayBarTitle.Render(fmt.Sprintf("%s %s", status, item.Name))
	detail := styles.PlayBarDetail.Render(fmt.Sprintf(" · %s · %s", item.Artist, item.Album))

	progress := m.state.ProgressMs()
	bar := progressBar(progress, item.DurationMs, progressBarWidth)
	clock := styles.PlayBarDetail.Render(fmt.Sprintf(" %s/%s", formatMs(progress), formatMs(item.DurationMs)))

	flags := make([]string, 0, 3)
	if playback.Shuffle {
		flags = append(flags, "shuffle")
	}
	if playback.Repeat != "" && playback.Repeat != "off" {
		flags = append(flags, "repeat:"+string(playback.Repeat))
	}
	flags = append(flags, fmt.Sprintf("vol %d%%", playback.Volume))

	return title + detail + "\n" + bar + clock + styles.PlayBarDetail.Render("  "+strings.Join(flags, " · "))
}

func progressBar(progressMs, durationMs, width int) string {
	if width <= 0 || durationMs <= 0 {
		return ""
	}
	done := progressMs * width / durationMs
	if done > width {
		done = width
	}
	if done < 0 {
		done = 0
	}
	return styles.ProgressDone.Render(strings.Repeat("━", done)) +
		styles.ProgressRest.Render(strings.Repeat("─", width-done))
}

func formatMs(ms int) string {
	total := ms / 1000
	return fmt.Sprintf("%d:%02d", total/60, total%60)
}

func (m *Model) statusLine() string {
	if m.state.IsLoading() {
		return styles.Loading.Render("Loading…")
	}
	return ""
}

func (m *Model) maxVisibleItems() int {
	if m.height <= 0 {
		return 0
	}
	visible := m.height - reservedRows
	if visible < 1 {
		return 1
	}
	return visible
}
