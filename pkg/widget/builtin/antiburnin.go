package builtin

import (
	"fmt"

	"github.com/hyunsoo-k/speculo/pkg/config"
	"github.com/hyunsoo-k/speculo/pkg/widget"
)

// AntiBurnInWidget periodically drifts the whole display by a few
// pixels so static content doesn't burn into the panel.
type AntiBurnInWidget struct {
	cfg config.WidgetConfig
}

// NewAntiBurnIn is the burn-in mitigation widget factory.
func NewAntiBurnIn(cfg config.WidgetConfig, _ widget.Deps) (widget.Widget, error) {
	return &AntiBurnInWidget{cfg: cfg}, nil
}

func (w *AntiBurnInWidget) Name() string { return "antiburnin" }

func (w *AntiBurnInWidget) Render() (string, error) {
	maxStep := w.cfg.MaxStep
	if maxStep <= 0 {
		maxStep = 30
	}
	refresh := w.cfg.RefreshIntervalOr(300000)
	return fmt.Sprintf("<script>speculo.drift(%d, %d);</script>", maxStep, refresh), nil
}
