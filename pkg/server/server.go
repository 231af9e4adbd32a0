package server

import (
	"encoding/json"
	"html/template"
	"net/http"
	"sort"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/hyunsoo-k/speculo/pkg/config"
	"github.com/hyunsoo-k/speculo/pkg/logging"
	"github.com/hyunsoo-k/speculo/pkg/widget"
)

// Server composes the mirror page and exposes per-widget data
// endpoints. It owns the route table; widget instances come from the
// shared registry.
type Server struct {
	layout   *config.Layout
	registry *widget.Registry
	log      *logging.Logger
	router   chi.Router

	mu       sync.Mutex
	bindings map[string]apiBinding
}

// apiBinding pins one endpoint path to one concrete widget instance.
// Capturing the instance here (not the name) keeps every endpoint
// wired to a single fixed widget.
type apiBinding struct {
	path   string
	widget widget.APIWidget
}

// New creates the HTTP server for a layout and registry.
func New(layout *config.Layout, registry *widget.Registry, log *logging.Logger) *Server {
	s := &Server{
		layout:   layout,
		registry: registry,
		log:      log,
		bindings: make(map[string]apiBinding),
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Get("/", s.handleIndex)
	r.Get("/static/speculo.js", handleClientScript)
	r.Handle("/metrics", promhttp.Handler())
	s.router = r
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// BindAPIs walks the layout and binds a data endpoint for every widget
// config that asks for one. Widgets lacking the data-API capability
// are skipped with a diagnostic. Idempotent: rebinding an already
// bound path is a no-op, so there is exactly one handler per endpoint.
func (s *Server) BindAPIs() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, cfg := range s.layout.Widgets {
		if cfg.APIEndpoint == "" {
			continue
		}
		if _, bound := s.bindings[cfg.APIEndpoint]; bound {
			continue
		}

		w, err := s.registry.Instance(cfg.Name)
		if err != nil {
			s.log.WidgetFailure(logging.CategoryServer, "bind_failed", cfg.Name, err)
			continue
		}

		api, ok := w.(widget.APIWidget)
		if !ok {
			s.log.Warn(logging.CategoryServer, "bind_skipped", "widget has no data-API capability", map[string]any{
				"widget":   cfg.Name,
				"endpoint": cfg.APIEndpoint,
			})
			continue
		}

		binding := apiBinding{path: cfg.APIEndpoint, widget: api}
		s.bindings[cfg.APIEndpoint] = binding
		s.router.Get(cfg.APIEndpoint, binding.handler(s.log))
		s.log.Info(logging.CategoryServer, "bind_ok", "bound widget data endpoint", map[string]any{
			"widget":   cfg.Name,
			"endpoint": cfg.APIEndpoint,
		})
	}

	paths := make([]string, 0, len(s.bindings))
	for path := range s.bindings {
		paths = append(paths, path)
	}
	sort.Strings(paths)
	return paths
}

func (b apiBinding) handler(log *logging.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		data, err := b.widget.API(r.Context())
		if err != nil {
			// Acquisition contracts degrade to empty shapes, so an
			// error here means the widget itself misbehaved. The
			// client still gets a JSON body.
			log.WidgetFailure(logging.CategoryServer, "api_failed", b.widget.Name(), err)
			data = map[string]any{}
		}
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		if err := json.NewEncoder(w).Encode(data); err != nil {
			log.WidgetFailure(logging.CategoryServer, "api_encode_failed", b.widget.Name(), err)
		}
	}
}

// positionGroup is one display region's fragments, in layout order.
type positionGroup struct {
	Position  string
	Fragments []template.HTML
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	group := s.registry.LoadAll()

	positions := make([]positionGroup, 0, len(group))
	for position, fragments := range group {
		pg := positionGroup{Position: position}
		for _, fragment := range fragments {
			pg.Fragments = append(pg.Fragments, template.HTML(fragment))
		}
		positions = append(positions, pg)
	}
	sort.Slice(positions, func(i, j int) bool { return positions[i].Position < positions[j].Position })

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := indexTemplate.Execute(w, positions); err != nil {
		s.log.Error(logging.CategoryServer, "index_render_failed", err.Error(), nil)
	}
}

var indexTemplate = template.Must(template.New("index").Parse(`<!DOCTYPE html>
<html lang="ko">
<head>
<meta charset="utf-8">
<title>speculo</title>
<style>body { background: #000; color: #fff; margin: 0; }</style>
<script src="/static/speculo.js"></script>
</head>
<body>
<div id="mirror">
{{- range . }}
<div class="position" id="position-{{ .Position }}">
{{- range .Fragments }}
{{ . }}
{{- end }}
</div>
{{- end }}
</div>
</body>
</html>
`))

func handleClientScript(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/javascript; charset=utf-8")
	w.Write([]byte(clientScript))
}

// clientScript is the minimal refresh runtime the fragments call into:
// poll re-fetches a widget's data endpoint, tick re-renders a
// formatted timestamp, drift nudges the page to avoid panel burn-in.
const clientScript = `window.speculo = {
  poll: function (name, endpoint, interval) {
    var refresh = function () {
      fetch(endpoint).then(function (r) { return r.json(); }).then(function (data) {
        var el = document.getElementById(name + '-content');
        if (el) { el.textContent = JSON.stringify(data); }
      }).catch(function () {});
    };
    refresh();
    setInterval(refresh, interval);
  },
  tick: function (id, format, interval) {
    var pad = function (n) { return String(n).padStart(2, '0'); };
    var days = ['일', '월', '화', '수', '목', '금', '토'];
    var render = function () {
      var now = new Date();
      var h12 = now.getHours() % 12 || 12;
      var text = format
        .replace('%Y', now.getFullYear())
        .replace('%m', pad(now.getMonth() + 1))
        .replace('%d', pad(now.getDate()))
        .replace('%H', pad(now.getHours()))
        .replace('%I', pad(h12))
        .replace('%M', pad(now.getMinutes()))
        .replace('%S', pad(now.getSeconds()))
        .replace('%K', days[now.getDay()])
        .replace('%P', now.getHours() >= 12 ? '오후' : '오전');
      var el = document.getElementById(id);
      if (el) { el.innerText = text; }
    };
    render();
    setInterval(render, interval);
  },
  drift: function (maxStep, interval) {
    setInterval(function () {
      var x = Math.floor(Math.random() * (2 * maxStep + 1)) - maxStep;
      var y = Math.floor(Math.random() * (2 * maxStep + 1)) - maxStep;
      var el = document.getElementById('mirror');
      if (el) { el.style.transform = 'translate(' + x + 'px,' + y + 'px)'; }
    }, interval);
  }
};
`
