package widget

import (
	"context"

	"github.com/hyunsoo-k/speculo/pkg/config"
	"github.com/hyunsoo-k/speculo/pkg/logging"
	"github.com/hyunsoo-k/speculo/pkg/scrape"
)

// Widget is an independently configured display unit. Render must
// always come back with some markup when it returns nil error; widgets
// backed by live data fall back to empty shapes rather than failing.
type Widget interface {
	Name() string
	Render() (string, error)
}

// APIWidget is a Widget that additionally exposes its current
// structured data for the client-side refresh script. Capability is
// expressed by this interface, never probed by reflection.
type APIWidget interface {
	Widget
	API(ctx context.Context) (any, error)
}

// Updater is an optional state-refresh hook. Widgets without internal
// state simply don't implement it.
type Updater interface {
	Update()
}

// Deps carries the shared collaborators handed to widget factories.
type Deps struct {
	Settings config.Settings
	Fetcher  *scrape.Fetcher
	Dynamic  *scrape.DynamicFetcher
	Log      *logging.Logger
}

// Factory constructs a widget from its config. Factories run once per
// process; the registry memoizes the instance.
type Factory func(cfg config.WidgetConfig, deps Deps) (Widget, error)
