package main

import (
	"fmt"
	"os"

	"github.com/atomicstack/streampane/internal/app"
	"github.com/atomicstack/streampane/internal/config"
	"github.com/atomicstack/streampane/internal/logging"
	"github.com/atomicstack/streampane/internal/logging/events"
	"github.com/atomicstack/streampane/internal/remote"
	"golang.org/x/term"
)

func main() {
	runtimeCfg := config.MustLoad()
	if err := config.Validate(runtimeCfg); err != nil {
		fmt.Fprintf(os.Stderr, "Configuration error: %v\n", err)
		os.Exit(2)
	}
	logging.Configure(runtimeCfg.Logging.FilePath)
	logging.SetTraceEnabled(runtimeCfg.Logging.Trace)

	traceStartup(runtimeCfg)

	if err := app.Run(runtimeCfg.App, remote.NewFake()); err != nil {
		logging.Error(err)
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func traceStartup(cfg config.Config) {
	events.App.Start(startupTracePayload(cfg))
}

// startupTracePayload bundles runtime context for trace logging.
func startupTracePayload(cfg config.Config) map[string]interface{} {
	flags := make(map[string]interface{}, len(cfg.Flags))
	for k, v := range cfg.Flags {
		flags[k] = v
	}
	flags["trace"] = cfg.Logging.Trace
	flags["logFile"] = cfg.Logging.FilePath
	payload := map[string]interface{}{
		"argv":   cfg.Args,
		"flags":  flags,
		"config": cfg,
	}
	if exe, err := os.Executable(); err == nil {
		payload["executable"] = exe
	} else {
		payload["executableError"] = err.Error()
	}
	if cwd, err := os.Getwd(); err == nil {
		payload["cwd"] = cwd
	} else {
		payload["cwdError"] = err.Error()
	}
	payload["tty"] = collectTTYDetails()
	return payload
}

type ttyDetails struct {
	Size   string     `json:"size,omitempty"`
	Probes []ttyProbe `json:"probes"`
}

type ttyProbe struct {
	Name       string `json:"name"`
	IsTerminal bool   `json:"is_terminal"`
	Size       string `json:"size,omitempty"`
	Error      string `json:"error,omitempty"`
}

// collectTTYDetails probes the standard descriptors for terminal support so a
// "why is the screen blank" report carries the answer.
func collectTTYDetails() ttyDetails {
	var details ttyDetails
	for _, probe := range []struct {
		name string
		file *os.File
	}{
		{"stdin", os.Stdin},
		{"stdout", os.Stdout},
		{"stderr", os.Stderr},
	} {
		entry := ttyProbe{Name: probe.name}
		fd := int(probe.file.Fd())
		if term.IsTerminal(fd) {
			entry.IsTerminal = true
			switch width, height, err := term.GetSize(fd); {
			case err != nil:
				entry.Error = err.Error()
			default:
				entry.Size = fmt.Sprintf("%dx%d", width, height)
				if details.Size == "" {
					details.Size = entry.Size
				}
			}
		}
		details.Probes = append(details.Probes, entry)
	}
	return details
}
