package app

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/atomicstack/streampane/internal/batch"
	"github.com/atomicstack/streampane/internal/command"
	"github.com/atomicstack/streampane/internal/keymap"
	"github.com/atomicstack/streampane/internal/remote"
	"github.com/atomicstack/streampane/internal/state"
	"github.com/atomicstack/streampane/internal/ui"
	"github.com/atomicstack/streampane/internal/worker"
	tea "github.com/charmbracelet/bubbletea"
)

// Config describes user-provided application options.
type Config struct {
	KeymapPath string
	Batch      string
	Verbose    bool
}

// Run wires shared state, the worker, and the client together, then either
// executes a batch command sequence or starts the interactive program.
func Run(cfg Config, client remote.Client) error {
	keys, err := keymap.Load(cfg.KeymapPath)
	if err != nil {
		return fmt.Errorf("load keymap: %w", err)
	}

	st := state.New()
	w := worker.New(st, client)

	if cfg.Batch != "" {
		return batch.Run(context.Background(), st, w, cfg.Batch, cfg.Verbose, os.Stdout)
	}

	w.Start()
	defer func() {
		w.Stop()
		w.Wait()
	}()

	// Prime the model so the first render has something to show.
	st.Dispatch(command.RefreshPlayback{})
	st.Dispatch(command.FetchPlaylists{})

	model := ui.NewModel(st, keys)
	program := tea.NewProgram(model, tea.WithAltScreen())
	_, err = program.Run()
	if errors.Is(err, tea.ErrProgramKilled) {
		return nil
	}
	return err
}
