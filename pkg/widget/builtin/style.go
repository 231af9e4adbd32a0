package builtin

import (
	"fmt"
	"sort"
	"strings"

	"github.com/hyunsoo-k/speculo/pkg/config"
)

// styleAttr flattens a widget's options map into inline CSS. Keys are
// sorted so rendered fragments are deterministic.
func styleAttr(cfg config.WidgetConfig) string {
	pairs := make([]string, 0, len(cfg.Options)+2)
	if cfg.Width != "" {
		pairs = append(pairs, fmt.Sprintf("width: %s;", cfg.Width))
	}
	if cfg.Height != "" {
		pairs = append(pairs, fmt.Sprintf("height: %s;", cfg.Height))
	}

	keys := make([]string, 0, len(cfg.Options))
	for k := range cfg.Options {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		pairs = append(pairs, fmt.Sprintf("%s: %s;", k, cfg.Options[k]))
	}
	return strings.Join(pairs, " ")
}

// dataShell renders the standard fragment for a data-backed widget: a
// styled container plus the client refresh script that polls the
// widget's API endpoint on its configured cadence.
func dataShell(name string, cfg config.WidgetConfig, defaultRefresh int) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "<div id='%s-widget' class='%s' style='%s'>", name, name, styleAttr(cfg))
	fmt.Fprintf(&sb, "<div id='%s-content'></div>", name)
	sb.WriteString("</div>")
	if cfg.APIEndpoint != "" {
		fmt.Fprintf(&sb, "<script>speculo.poll('%s', '%s', %d);</script>",
			name, cfg.APIEndpoint, cfg.RefreshIntervalOr(defaultRefresh))
	}
	return sb.String()
}
