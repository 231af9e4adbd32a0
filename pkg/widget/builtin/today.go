package builtin

import (
	"fmt"
	"strings"
	"time"

	"github.com/hyunsoo-k/speculo/pkg/config"
	"github.com/hyunsoo-k/speculo/pkg/widget"
)

// TodayWidget displays today's date.
type TodayWidget struct {
	cfg config.WidgetConfig
	now func() time.Time
}

// NewToday is the date widget factory.
func NewToday(cfg config.WidgetConfig, _ widget.Deps) (widget.Widget, error) {
	return &TodayWidget{cfg: cfg, now: time.Now}, nil
}

func (w *TodayWidget) Name() string { return "today" }

func (w *TodayWidget) Render() (string, error) {
	dateFormat := w.cfg.DateFormat
	if dateFormat == "" {
		dateFormat = "%Y-%m-%d"
	}
	refresh := w.cfg.RefreshIntervalOr(100)

	var sb strings.Builder
	fmt.Fprintf(&sb, "<div id='today-widget' class='today' style='%s'>", styleAttr(w.cfg))
	fmt.Fprintf(&sb, "<span id='today-text'>%s</span>", formatTokens(w.now(), dateFormat))
	sb.WriteString("</div>")
	fmt.Fprintf(&sb, "<script>speculo.tick('today-text', '%s', %d);</script>", dateFormat, refresh)
	return sb.String(), nil
}
