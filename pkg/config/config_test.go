package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hyunsoo-k/speculo/pkg/config"
	serrors "github.com/hyunsoo-k/speculo/pkg/errors"
)

func writeLayout(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "layout.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadLayout(t *testing.T) {
	path := writeLayout(t, `
widgets:
  - name: clock
    position: top-left
    time_format: "%H:%M:%S"
    refresh_interval: 100
    options:
      font-size: 150px
  - name: weather
    api_endpoint: /api/weather-data
`)

	layout, err := config.LoadLayout(path)
	require.NoError(t, err)
	require.Len(t, layout.Widgets, 2)

	clock, ok := layout.Get("clock")
	require.True(t, ok)
	assert.Equal(t, "top-left", clock.PositionOr())
	assert.Equal(t, "%H:%M:%S", clock.TimeFormat)
	assert.Equal(t, "150px", clock.Options["font-size"])

	weather, ok := layout.Get("weather")
	require.True(t, ok)
	assert.Equal(t, config.DefaultPosition, weather.PositionOr())
	assert.Equal(t, "/api/weather-data", weather.APIEndpoint)

	_, ok = layout.Get("missing")
	assert.False(t, ok)
}

func TestLoadLayout_Missing(t *testing.T) {
	_, err := config.LoadLayout(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.True(t, serrors.IsCode(err, serrors.ErrCodeConfigLoad))
}

func TestLoadLayout_BadYAML(t *testing.T) {
	path := writeLayout(t, "widgets: [nope")
	_, err := config.LoadLayout(path)
	require.Error(t, err)
	assert.True(t, serrors.IsCode(err, serrors.ErrCodeConfigParse))
}

func TestLoadLayout_Validation(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"unnamed widget", "widgets:\n  - position: top-left\n"},
		{"duplicate name", "widgets:\n  - name: clock\n  - name: clock\n"},
		{"relative endpoint", "widgets:\n  - name: kbo\n    api_endpoint: api/kbo\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := config.LoadLayout(writeLayout(t, tt.content))
			require.Error(t, err)
			assert.True(t, serrors.IsCode(err, serrors.ErrCodeConfigInvalid))
		})
	}
}

func TestRefreshIntervalOr(t *testing.T) {
	assert.Equal(t, 100, config.WidgetConfig{}.RefreshIntervalOr(100))
	assert.Equal(t, 250, config.WidgetConfig{RefreshInterval: 250}.RefreshIntervalOr(100))
}

func TestLoadSettings(t *testing.T) {
	t.Setenv("SPECULO_BIND", "0.0.0.0:9000")
	t.Setenv("SPECULO_HEADLESS", "false")

	settings, err := config.LoadSettings()
	require.NoError(t, err)
	assert.Equal(t, "0.0.0.0:9000", settings.BindAddress)
	assert.False(t, settings.Headless)
	assert.NotEmpty(t, settings.LayoutPath)
	assert.NotEmpty(t, settings.SelectorDir)
}

func TestDefaultLayout(t *testing.T) {
	layout := config.DefaultLayout()
	for _, name := range []string{"today", "clock", "weather", "meal", "kbo", "antiburnin"} {
		_, ok := layout.Get(name)
		assert.True(t, ok, "default layout should configure %s", name)
	}
	weather, _ := layout.Get("weather")
	assert.Equal(t, "/api/weather-data", weather.APIEndpoint)
}
