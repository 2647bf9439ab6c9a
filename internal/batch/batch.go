// Package batch runs a fixed sequence of commands synchronously against the
// same execution logic the interactive worker uses, bypassing the render
// loop. Each command is awaited, including its follow-ups, before the next
// one starts.
package batch

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/atomicstack/streampane/internal/command"
	"github.com/atomicstack/streampane/internal/format/table"
	"github.com/atomicstack/streampane/internal/logging/events"
	"github.com/atomicstack/streampane/internal/remote"
	"github.com/atomicstack/streampane/internal/route"
	"github.com/atomicstack/streampane/internal/state"
	"github.com/atomicstack/streampane/internal/worker"
)

// Parse turns a semicolon-separated command spec into commands.
func Parse(spec string) ([]command.Command, error) {
	parts := strings.Split(spec, ";")
	cmds := make([]command.Command, 0, len(parts))
	for _, part := range parts {
		fields := strings.Fields(strings.TrimSpace(part))
		if len(fields) == 0 {
			continue
		}
		cmd, err := parseOne(fields)
		if err != nil {
			return nil, err
		}
		cmds = append(cmds, cmd)
	}
	if len(cmds) == 0 {
		return nil, fmt.Errorf("empty batch spec")
	}
	return cmds, nil
}

func parseOne(fields []string) (command.Command, error) {
	verb, args := fields[0], fields[1:]
	switch verb {
	case "playback":
		return command.RefreshPlayback{}, nil
	case "toggle":
		return command.TogglePlayback{}, nil
	case "next":
		return command.NextTrack{}, nil
	case "previous":
		return command.PreviousTrack{}, nil
	case "seek":
		if len(args) != 1 {
			return nil, fmt.Errorf("seek needs a position in ms")
		}
		ms, err := strconv.Atoi(args[0])
		if err != nil {
			return nil, fmt.Errorf("seek position %q: %w", args[0], err)
		}
		return command.Seek{PositionMs: ms}, nil
	case "volume":
		if len(args) != 1 {
			return nil, fmt.Errorf("volume needs a percentage")
		}
		pct, err := strconv.Atoi(args[0])
		if err != nil {
			return nil, fmt.Errorf("volume %q: %w", args[0], err)
		}
		return command.SetVolume{Percent: pct}, nil
	case "shuffle":
		return command.ToggleShuffle{}, nil
	case "repeat":
		return command.CycleRepeat{}, nil
	case "save":
		if len(args) != 1 {
			return nil, fmt.Errorf("save needs a track id")
		}
		return command.ToggleSaveTrack{TrackID: args[0]}, nil
	case "saved-tracks":
		offset := 0
		if len(args) == 1 {
			var err error
			if offset, err = strconv.Atoi(args[0]); err != nil {
				return nil, fmt.Errorf("offset %q: %w", args[0], err)
			}
		}
		return command.FetchSavedTracks{Offset: offset}, nil
	case "saved-albums":
		offset := 0
		if len(args) == 1 {
			var err error
			if offset, err = strconv.Atoi(args[0]); err != nil {
				return nil, fmt.Errorf("offset %q: %w", args[0], err)
			}
		}
		return command.FetchSavedAlbums{Offset: offset}, nil
	case "episodes":
		if len(args) == 0 || len(args) > 2 {
			return nil, fmt.Errorf("episodes needs a show id and optional offset")
		}
		offset := 0
		if len(args) == 2 {
			var err error
			if offset, err = strconv.Atoi(args[1]); err != nil {
				return nil, fmt.Errorf("offset %q: %w", args[1], err)
			}
		}
		return command.FetchShowEpisodes{ShowID: args[0], Offset: offset}, nil
	case "artists":
		return command.FetchFollowedArtists{}, nil
	case "playlists":
		return command.FetchPlaylists{}, nil
	case "recent":
		return command.FetchRecentlyPlayed{}, nil
	case "devices":
		return command.FetchDevices{}, nil
	case "transfer":
		if len(args) != 1 {
			return nil, fmt.Errorf("transfer needs a device id")
		}
		return command.TransferPlayback{DeviceID: args[0]}, nil
	case "search":
		if len(args) == 0 {
			return nil, fmt.Errorf("search needs a query")
		}
		return command.Search{Query: strings.Join(args, " ")}, nil
	default:
		return nil, fmt.Errorf("unknown batch command %q", verb)
	}
}

// Run executes the command sequence against the worker, awaiting each command (and its
// follow-ups) before the next. A failed command stops the sequence. With
// verbose set, each command is annotated with its round-trip time.
func Run(ctx context.Context, st *state.State, w *worker.Worker, spec string, verbose bool, out io.Writer) error {
	cmds, err := Parse(spec)
	if err != nil {
		return err
	}
	names := make([]string, 0, len(cmds))
	for _, cmd := range cmds {
		names = append(names, cmd.Name())
	}
	events.App.BatchStart(names)

	for _, cmd := range cmds {
		cmd = withPlaybackState(st, cmd)
		start := time.Now()
		w.Execute(ctx, cmd)
		w.DrainQueued(ctx)
		if st.CurrentRoute().ID == route.Error {
			return fmt.Errorf("%s: %s", cmd.Name(), st.ErrorMessage())
		}
		if verbose {
			fmt.Fprintf(out, "# %s took %s\n", cmd.Name(), time.Since(start).Round(time.Millisecond))
		}
		report(out, st, cmd)
	}
	return nil
}

// withPlaybackState fills the current shuffle and repeat values into toggle
// commands, which the parser cannot know ahead of time.
func withPlaybackState(st *state.State, cmd command.Command) command.Command {
	switch c := cmd.(type) {
	case command.ToggleShuffle:
		if p := st.Playback(); p != nil {
			c.Current = p.Shuffle
		}
		return c
	case command.CycleRepeat:
		c.Current = remote.RepeatOff
		if p := st.Playback(); p != nil {
			c.Current = p.Repeat
		}
		return c
	}
	return cmd
}

func report(out io.Writer, st *state.State, cmd command.Command) {
	switch cmd.(type) {
	case command.FetchSavedTracks:
		if page, ok := st.SavedTracksPage(); ok {
			printTracks(out, page.Items)
			fmt.Fprintf(out, "%d of %d tracks (offset %d)\n", len(page.Items), page.Total, page.Offset)
		}
	case command.FetchSavedAlbums:
		if page, ok := st.SavedAlbumsPage(); ok {
			rows := make([][]string, 0, len(page.Items))
			for _, al := range page.Items {
				rows = append(rows, []string{al.ID, al.Name, al.Artist, strconv.Itoa(al.Tracks)})
			}
			printRows(out, rows, []table.Alignment{table.AlignLeft, table.AlignLeft, table.AlignLeft, table.AlignRight})
		}
	case command.FetchFollowedArtists:
		if page, ok := st.FollowedArtistsPage(); ok {
			for _, ar := range page.Items {
				fmt.Fprintf(out, "%s  %s\n", ar.ID, ar.Name)
			}
		}
	case command.FetchShowEpisodes:
		if page, ok := st.ShowEpisodesPage(); ok {
			rows := make([][]string, 0, len(page.Items))
			for _, ep := range page.Items {
				rows = append(rows, []string{ep.ID, ep.Name, formatMs(ep.DurationMs)})
			}
			printRows(out, rows, []table.Alignment{table.AlignLeft, table.AlignLeft, table.AlignRight})
		}
	case command.FetchPlaylists:
		for _, pl := range st.Playlists() {
			fmt.Fprintf(out, "%s  %s (%d tracks)\n", pl.ID, pl.Name, pl.Tracks)
		}
	case command.FetchRecentlyPlayed:
		printTracks(out, st.RecentlyPlayed())
	case command.FetchDevices:
		rows := make([][]string, 0, 4)
		for _, dev := range st.Devices() {
			active := ""
			if dev.Active {
				active = "active"
			}
			rows = append(rows, []string{dev.ID, dev.Name, active})
		}
		printRows(out, rows, nil)
	case command.Search:
		query, res, ok := st.SearchResults()
		if !ok {
			return
		}
		fmt.Fprintf(out, "results for %q:\n", query)
		printTracks(out, res.Tracks.Items)
		fmt.Fprintf(out, "%d tracks, %d albums, %d artists, %d playlists, %d shows\n",
			res.Tracks.Total, res.Albums.Total, res.Artists.Total, res.Playlists.Total, res.Shows.Total)
	default:
		printPlayback(out, st)
	}
}

func printTracks(out io.Writer, tracks []remote.Track) {
	rows := make([][]string, 0, len(tracks))
	for _, tr := range tracks {
		rows = append(rows, []string{tr.ID, tr.Name, tr.Artist, formatMs(tr.DurationMs)})
	}
	printRows(out, rows, []table.Alignment{table.AlignLeft, table.AlignLeft, table.AlignLeft, table.AlignRight})
}

func printRows(out io.Writer, rows [][]string, alignments []table.Alignment) {
	for _, line := range table.Format(rows, alignments) {
		fmt.Fprintln(out, line)
	}
}

func printPlayback(out io.Writer, st *state.State) {
	playback := st.Playback()
	if playback == nil || playback.Item == nil {
		fmt.Fprintln(out, "nothing playing")
		return
	}
	status := "paused"
	if playback.IsPlaying {
		status = "playing"
	}
	fmt.Fprintf(out, "%s: %s - %s [%s/%s] vol %d%%\n",
		status, playback.Item.Name, playback.Item.Artist,
		formatMs(playback.ProgressMs), formatMs(playback.Item.DurationMs), playback.Volume)
}

func formatMs(ms int) string {
	total := ms / 1000
	return fmt.Sprintf("%d:%02d", total/60, total%60)
}
