package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"

	serrors "github.com/hyunsoo-k/speculo/pkg/errors"
)

// DefaultPosition is the display region used when a widget config
// does not name one.
const DefaultPosition = "default"

// Settings holds process-level configuration sourced from the
// environment. Everything else lives in the layout file.
type Settings struct {
	BindAddress string `env:"SPECULO_BIND" envDefault:"127.0.0.1:8390"`
	LayoutPath  string `env:"SPECULO_LAYOUT" envDefault:"config/layout.yaml"`
	SelectorDir string `env:"SPECULO_SELECTOR_DIR" envDefault:"config/selectors"`
	LogDir      string `env:"SPECULO_LOG_DIR" envDefault:".speculo/logs"`
	Headless    bool   `env:"SPECULO_HEADLESS" envDefault:"true"`
}

// LoadSettings parses process settings from the environment.
func LoadSettings() (Settings, error) {
	var s Settings
	if err := env.Parse(&s); err != nil {
		return Settings{}, serrors.Wrap(err, serrors.ErrCodeConfigLoad, "parsing environment settings")
	}
	return s, nil
}

// WidgetConfig describes one configured widget: where it renders, how
// often the client refreshes it, and widget-specific knobs. Immutable
// once loaded.
type WidgetConfig struct {
	Name            string            `yaml:"name"`
	Position        string            `yaml:"position"`
	Width           string            `yaml:"width,omitempty"`
	Height          string            `yaml:"height,omitempty"`
	RefreshInterval int               `yaml:"refresh_interval,omitempty"` // milliseconds
	TimeFormat      string            `yaml:"time_format,omitempty"`
	DateFormat      string            `yaml:"date_format,omitempty"`
	MaxStep         int               `yaml:"max_step,omitempty"`
	APIEndpoint     string            `yaml:"api_endpoint,omitempty"`
	SelectorFile    string            `yaml:"selector_file,omitempty"`
	Options         map[string]string `yaml:"options,omitempty"`
}

// PositionOr returns the configured position, or the fallback region.
func (w WidgetConfig) PositionOr() string {
	if w.Position == "" {
		return DefaultPosition
	}
	return w.Position
}

// RefreshIntervalOr returns the refresh cadence in milliseconds,
// falling back to def when unset.
func (w WidgetConfig) RefreshIntervalOr(def int) int {
	if w.RefreshInterval <= 0 {
		return def
	}
	return w.RefreshInterval
}

// Layout is the ordered widget configuration. Order matters: fragments
// are grouped per position in layout order.
type Layout struct {
	Widgets []WidgetConfig `yaml:"widgets"`
}

// LoadLayout reads and validates a layout file.
func LoadLayout(path string) (*Layout, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, serrors.Wrap(err, serrors.ErrCodeConfigLoad, "reading layout file").WithContext("path", path)
	}

	var layout Layout
	if err := yaml.Unmarshal(data, &layout); err != nil {
		return nil, serrors.Wrap(err, serrors.ErrCodeConfigParse, "parsing layout YAML").WithContext("path", path)
	}

	if err := layout.validate(); err != nil {
		return nil, err
	}
	return &layout, nil
}

func (l *Layout) validate() error {
	seen := make(map[string]struct{}, len(l.Widgets))
	for i, w := range l.Widgets {
		if w.Name == "" {
			return serrors.New(serrors.ErrCodeConfigInvalid, fmt.Sprintf("widget %d has no name", i))
		}
		if _, dup := seen[w.Name]; dup {
			return serrors.New(serrors.ErrCodeConfigInvalid, "duplicate widget name").WithContext("widget", w.Name)
		}
		seen[w.Name] = struct{}{}
		if w.APIEndpoint != "" && !strings.HasPrefix(w.APIEndpoint, "/") {
			return serrors.New(serrors.ErrCodeConfigInvalid, "api_endpoint must be an absolute path").
				WithContext("widget", w.Name).
				WithContext("api_endpoint", w.APIEndpoint)
		}
	}
	return nil
}

// Get returns the config for a widget name.
func (l *Layout) Get(name string) (WidgetConfig, bool) {
	for _, w := range l.Widgets {
		if w.Name == name {
			return w, true
		}
	}
	return WidgetConfig{}, false
}

// DefaultLayout returns the stock mirror layout used when no layout
// file is present.
func DefaultLayout() *Layout {
	return &Layout{
		Widgets: []WidgetConfig{
			{
				Name:            "today",
				Position:        "top-left",
				Width:           "1000px",
				DateFormat:      "%Y년 %m월 %d일 %K요일",
				RefreshInterval: 100,
				Options: map[string]string{
					"font-size":   "82px",
					"font-family": "Arial, sans-serif",
					"font-weight": "bold",
				},
			},
			{
				Name:            "clock",
				Position:        "top-left",
				Width:           "1000px",
				TimeFormat:      "%P %I:%M:%S",
				RefreshInterval: 100,
				Options: map[string]string{
					"font-size":   "150px",
					"font-family": "Arial, sans-serif",
					"font-weight": "bold",
				},
			},
			{
				Name:            "weather",
				Position:        "top-left",
				Width:           "1000px",
				RefreshInterval: 3600000,
				APIEndpoint:     "/api/weather-data",
				Options: map[string]string{
					"font-size":   "20px",
					"font-family": "Arial, sans-serif",
					"text-align":  "center",
				},
			},
			{
				Name:            "meal",
				Position:        "top-right",
				Width:           "1300px",
				Height:          "400px",
				RefreshInterval: 3600000,
				APIEndpoint:     "/api/meal-data",
				Options: map[string]string{
					"font-size":   "18px",
					"font-family": "Arial, sans-serif",
					"text-align":  "center",
					"min-width":   "60px",
				},
			},
			{
				Name:            "kbo",
				Position:        "top-right",
				Width:           "1300px",
				Height:          "500px",
				RefreshInterval: 600000,
				APIEndpoint:     "/api/kbo-data",
				Options: map[string]string{
					"font-size":   "18px",
					"font-family": "Arial, sans-serif",
					"text-align":  "center",
					"min-width":   "60px",
				},
			},
			{
				Name:            "antiburnin",
				MaxStep:         30,
				RefreshInterval: 300000,
			},
		},
	}
}
