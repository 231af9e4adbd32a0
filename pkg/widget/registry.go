package widget

import (
	"fmt"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/hyunsoo-k/speculo/pkg/config"
	serrors "github.com/hyunsoo-k/speculo/pkg/errors"
	"github.com/hyunsoo-k/speculo/pkg/logging"
)

var loadFailures = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "speculo_widget_load_failures_total",
	Help: "Widget failures by widget name and stage (resolve, init, render).",
}, []string{"widget", "stage"})

// RenderGroup maps a display position to its rendered fragments, in
// layout order. Rebuilt on every page render.
type RenderGroup map[string][]string

// Registry owns the name->factory table and the memoized widget
// instances. One registry per process; the loader and the API binder
// share it so expensive widget state (browser sessions) is built once.
type Registry struct {
	layout    *config.Layout
	deps      Deps
	factories map[string]Factory

	mu        sync.Mutex
	instances map[string]Widget
}

// NewRegistry creates an empty registry for the given layout.
func NewRegistry(layout *config.Layout, deps Deps) *Registry {
	return &Registry{
		layout:    layout,
		deps:      deps,
		factories: make(map[string]Factory),
		instances: make(map[string]Widget),
	}
}

// RegisterFactory installs the factory for a widget name. Later
// registrations for the same name win; the table is assembled once at
// process start.
func (r *Registry) RegisterFactory(name string, factory Factory) {
	r.factories[name] = factory
}

// Instance returns the memoized widget for name, constructing it on
// first use.
func (r *Registry) Instance(name string) (Widget, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if w, ok := r.instances[name]; ok {
		return w, nil
	}

	factory, ok := r.factories[name]
	if !ok {
		return nil, serrors.New(serrors.ErrCodeWidgetNotFound, "no implementation registered").WithContext("widget", name)
	}
	cfg, ok := r.layout.Get(name)
	if !ok {
		return nil, serrors.New(serrors.ErrCodeWidgetNotFound, "widget not configured").WithContext("widget", name)
	}

	w, err := factory(cfg, r.deps)
	if err != nil {
		return nil, serrors.Wrap(err, serrors.ErrCodeWidgetInit, "constructing widget").WithContext("widget", name)
	}
	r.instances[name] = w
	return w, nil
}

// LoadAll resolves, instantiates, and renders every configured widget,
// grouping fragments by position. Any failure is confined to its
// widget: logged with (name, cause) and skipped, so one misbehaving
// widget never takes down the display.
func (r *Registry) LoadAll() RenderGroup {
	group := make(RenderGroup)
	for _, cfg := range r.layout.Widgets {
		w, err := r.Instance(cfg.Name)
		if err != nil {
			stage := "init"
			if serrors.IsCode(err, serrors.ErrCodeWidgetNotFound) {
				stage = "resolve"
			}
			loadFailures.WithLabelValues(cfg.Name, stage).Inc()
			r.deps.Log.WidgetFailure(logging.CategoryWidget, "load_failed", cfg.Name, err)
			continue
		}

		markup, err := renderWidget(w)
		if err != nil {
			loadFailures.WithLabelValues(cfg.Name, "render").Inc()
			r.deps.Log.WidgetFailure(logging.CategoryWidget, "render_failed", cfg.Name, err)
			continue
		}
		position := cfg.PositionOr()
		group[position] = append(group[position], markup)
	}
	return group
}

// UpdateAll invokes the optional refresh hook on every instantiated
// widget.
func (r *Registry) UpdateAll() {
	r.mu.Lock()
	widgets := make([]Widget, 0, len(r.instances))
	for _, w := range r.instances {
		widgets = append(widgets, w)
	}
	r.mu.Unlock()

	for _, w := range widgets {
		if u, ok := w.(Updater); ok {
			u.Update()
		}
	}
}

// renderWidget confines panics to the widget boundary.
func renderWidget(w Widget) (markup string, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = serrors.New(serrors.ErrCodeWidgetRender, fmt.Sprintf("render panicked: %v", rec)).WithContext("widget", w.Name())
		}
	}()
	markup, err = w.Render()
	if err != nil {
		return "", serrors.Wrap(err, serrors.ErrCodeWidgetRender, "render failed").WithContext("widget", w.Name())
	}
	return markup, nil
}
