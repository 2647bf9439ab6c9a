package events

import "github.com/atomicstack/streampane/internal/logging"

type AppTracer struct{}

var App = AppTracer{}

func (AppTracer) Start(payload map[string]interface{}) {
	logging.Trace("app.start", payload)
}

func (AppTracer) BatchStart(commands []string) {
	logging.Trace("app.batch-start", map[string]interface{}{"commands": commands})
}
