package events

import "github.com/atomicstack/streampane/internal/logging"

type UITracer struct{}

type NetworkTracer struct{}

type PlayerTracer struct{}

var (
	UI      = UITracer{}
	Network = NetworkTracer{}
	Player  = PlayerTracer{}
)

func (UITracer) RoutePush(view string, focus string) {
	logging.Trace("route.push", map[string]interface{}{"view": view, "focus": focus})
}

func (UITracer) RoutePop(view string) {
	logging.Trace("route.pop", map[string]interface{}{"view": view})
}

func (UITracer) Key(key string, view string) {
	logging.Trace("ui.key", map[string]interface{}{"key": key, "view": view})
}

func (UITracer) Cursor(view string, cursor int) {
	logging.Trace("ui.cursor", map[string]interface{}{"view": view, "cursor": cursor})
}

func (NetworkTracer) Queue(name string) {
	logging.Trace("network.queue", map[string]interface{}{"command": name})
}

func (NetworkTracer) Start(name string) {
	logging.Trace("network.start", map[string]interface{}{"command": name})
}

func (NetworkTracer) Done(name string) {
	logging.Trace("network.done", map[string]interface{}{"command": name})
}

func (NetworkTracer) Error(name string, err error) {
	if err == nil {
		return
	}
	logging.Trace("network.error", map[string]interface{}{"command": name, "error": err.Error()})
}

func (PlayerTracer) Refresh(playing bool, progressMs int) {
	logging.Trace("player.refresh", map[string]interface{}{"playing": playing, "progress_ms": progressMs})
}

func (PlayerTracer) Seek(positionMs int) {
	logging.Trace("player.seek", map[string]interface{}{"position_ms": positionMs})
}
