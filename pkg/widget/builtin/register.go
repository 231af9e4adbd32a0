// Package builtin holds the stock mirror widgets. Each widget is
// registered by name so layouts configure them without any dynamic
// discovery.
package builtin

import "github.com/hyunsoo-k/speculo/pkg/widget"

// RegisterAll installs every builtin widget factory into the registry.
func RegisterAll(reg *widget.Registry) {
	reg.RegisterFactory("clock", NewClock)
	reg.RegisterFactory("today", NewToday)
	reg.RegisterFactory("weather", NewWeather)
	reg.RegisterFactory("meal", NewMeal)
	reg.RegisterFactory("kbo", NewKBO)
	reg.RegisterFactory("antiburnin", NewAntiBurnIn)
}
