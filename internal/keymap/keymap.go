// Package keymap maps terminal key names to user-facing actions. The default
// table can be overridden per action from a YAML file.
package keymap

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Action names an input-triggered behaviour.
type Action string

const (
	Quit         Action = "quit"
	Back         Action = "back"
	Up           Action = "up"
	Down         Action = "down"
	Select       Action = "select"
	NextPage     Action = "next-page"
	PreviousPage Action = "previous-page"

	TogglePlayback Action = "toggle-playback"
	NextTrack      Action = "next-track"
	PreviousTrack  Action = "previous-track"
	SeekForward    Action = "seek-forward"
	SeekBackward   Action = "seek-backward"
	VolumeUp       Action = "volume-up"
	VolumeDown     Action = "volume-down"
	ToggleShuffle  Action = "toggle-shuffle"
	CycleRepeat    Action = "cycle-repeat"
	SaveTrack      Action = "save-track"
	CopyURL        Action = "copy-url"

	Search  Action = "search"
	Devices Action = "devices"
)

// Map resolves a key name to its bound action.
type Map map[string]Action

// Default returns the built-in binding table.
func Default() Map {
	return Map{
		"q":      Quit,
		"ctrl+c": Quit,
		"esc":    Back,
		"up":     Up,
		"k":      Up,
		"down":   Down,
		"j":      Down,
		"enter":  Select,
		"n":      NextPage,
		"p":      PreviousPage,
		" ":      TogglePlayback,
		">":      NextTrack,
		"<":      PreviousTrack,
		"right":  SeekForward,
		"left":   SeekBackward,
		"+":      VolumeUp,
		"-":      VolumeDown,
		"ctrl+s": ToggleShuffle,
		"ctrl+r": CycleRepeat,
		"s":      SaveTrack,
		"c":      CopyURL,
		"/":      Search,
		"d":      Devices,
	}
}

type file struct {
	Bindings map[string][]string `yaml:"bindings"`
}

var known = map[Action]struct{}{
	Quit: {}, Back: {}, Up: {}, Down: {}, Select: {}, NextPage: {},
	PreviousPage: {}, TogglePlayback: {}, NextTrack: {}, PreviousTrack: {},
	SeekForward: {}, SeekBackward: {}, VolumeUp: {}, VolumeDown: {},
	ToggleShuffle: {}, CycleRepeat: {}, SaveTrack: {}, CopyURL: {},
	Search: {}, Devices: {},
}

// Load returns the default table overlaid with the YAML file at path. An
// empty path returns the defaults unchanged.
func Load(path string) (Map, error) {
	m := Default()
	if path == "" {
		return m, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read keymap: %w", err)
	}
	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse keymap: %w", err)
	}
	for name, keys := range f.Bindings {
		action := Action(name)
		if _, ok := known[action]; !ok {
			return nil, fmt.Errorf("unknown action %q in keymap", name)
		}
		// Rebinding an action drops its default keys first.
		for key, bound := range m {
			if bound == action {
				delete(m, key)
			}
		}
		for _, key := range keys {
			m[key] = action
		}
	}
	return m, nil
}
