package builtin

import (
	"fmt"
	"strings"
	"time"

	"github.com/hyunsoo-k/speculo/pkg/config"
	"github.com/hyunsoo-k/speculo/pkg/widget"
)

// ClockWidget displays the current time. Pure formatting logic: the
// server renders the initial reading and a client timer keeps it
// moving.
type ClockWidget struct {
	cfg config.WidgetConfig
	now func() time.Time
}

// NewClock is the clock widget factory.
func NewClock(cfg config.WidgetConfig, _ widget.Deps) (widget.Widget, error) {
	return &ClockWidget{cfg: cfg, now: time.Now}, nil
}

func (w *ClockWidget) Name() string { return "clock" }

func (w *ClockWidget) Render() (string, error) {
	timeFormat := w.cfg.TimeFormat
	if timeFormat == "" {
		timeFormat = "%H:%M:%S"
	}
	refresh := w.cfg.RefreshIntervalOr(100)

	var sb strings.Builder
	fmt.Fprintf(&sb, "<div id='clock-widget' class='clock' style='%s'>", styleAttr(w.cfg))
	fmt.Fprintf(&sb, "<span id='clock-time'>%s</span>", formatTokens(w.now(), timeFormat))
	sb.WriteString("</div>")
	fmt.Fprintf(&sb, "<script>speculo.tick('clock-time', '%s', %d);</script>", timeFormat, refresh)
	return sb.String(), nil
}
