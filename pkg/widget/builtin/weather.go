package builtin

import (
	"context"
	"path/filepath"
	"sort"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/hyunsoo-k/speculo/pkg/config"
	"github.com/hyunsoo-k/speculo/pkg/logging"
	"github.com/hyunsoo-k/speculo/pkg/scrape"
	"github.com/hyunsoo-k/speculo/pkg/widget"
)

const (
	weatherURL       = "https://weather.naver.com"
	weatherSessionID = "weather"
)

// Fields whose raw text is reduced to a decimal reading.
var weatherDecimalFields = map[string]bool{
	"now_temperature":            true,
	"quick_apparent_temperature": true,
	"quick_humidity":             true,
}

// WeatherWidget scrapes a weather portal whose content only exists
// after client-side rendering, so acquisition goes through the
// long-lived headless browser session. Locators come from a selector
// file reloaded on every run.
type WeatherWidget struct {
	cfg          config.WidgetConfig
	dynamic      *scrape.DynamicFetcher
	log          *logging.Logger
	url          string
	selectorPath string
}

// NewWeather is the weather widget factory.
func NewWeather(cfg config.WidgetConfig, deps widget.Deps) (widget.Widget, error) {
	path := cfg.SelectorFile
	if path == "" {
		path = filepath.Join(deps.Settings.SelectorDir, "weather.yaml")
	}
	return &WeatherWidget{
		cfg:          cfg,
		dynamic:      deps.Dynamic,
		log:          deps.Log,
		url:          weatherURL,
		selectorPath: path,
	}, nil
}

func (w *WeatherWidget) Name() string { return "weather" }

func (w *WeatherWidget) Render() (string, error) {
	return dataShell(w.Name(), w.cfg, 3600000), nil
}

// API acquires a fresh snapshot of every weather section. The report
// always has the full shape; sections that fail stay empty.
func (w *WeatherWidget) API(ctx context.Context) (any, error) {
	report := emptyWeatherReport()

	selectors, err := scrape.LoadSelectorSet(w.selectorPath)
	if err != nil {
		w.log.WidgetFailure(logging.CategoryScrape, "selector_load_failed", w.Name(), err)
		return report, nil
	}

	w.dynamic.Run(ctx, weatherSessionID, func(ctx context.Context, page *scrape.Page) error {
		if err := page.Navigate(ctx, w.url); err != nil {
			return err
		}
		w.fillLocation(ctx, page, selectors, report)
		w.fillAlerts(ctx, page, selectors, report)
		w.fillCurrent(ctx, page, selectors, report)
		w.fillWeekly(ctx, page, selectors, report)
		w.fillAir(ctx, page, selectors, report)
		return nil
	})
	return report, nil
}

func emptyWeatherReport() map[string]any {
	return map[string]any{
		"location": "",
		"alarm":    []string{},
		"weather":  map[string]string{},
		"weekly":   []map[string]string{},
		"air":      map[string]string{},
	}
}

func (w *WeatherWidget) sectionDoc(ctx context.Context, page *scrape.Page, section, selector string) *goquery.Document {
	if selector == "" {
		return nil
	}
	doc, err := page.WaitAndParse(ctx, selector)
	if err != nil {
		w.log.Warn(logging.CategoryScrape, "section_failed", "weather section unavailable", map[string]any{
			"widget":  w.Name(),
			"section": section,
			"cause":   err.Error(),
		})
		return nil
	}
	return doc
}

func (w *WeatherWidget) fillLocation(ctx context.Context, page *scrape.Page, selectors scrape.SelectorSet, report map[string]any) {
	selector := selectors.Lookup("location", "location")
	doc := w.sectionDoc(ctx, page, "location", selector)
	if doc == nil {
		return
	}
	report["location"] = scrape.Text(doc, selector)
}

func (w *WeatherWidget) fillAlerts(ctx context.Context, page *scrape.Page, selectors scrape.SelectorSet, report map[string]any) {
	selector := selectors.Lookup("alarm", "alarm")
	doc := w.sectionDoc(ctx, page, "alarm", selector)
	if doc == nil {
		return
	}
	alarms := scrape.Texts(doc, selector)
	if alarms == nil {
		alarms = []string{}
	}
	report["alarm"] = alarms
}

func (w *WeatherWidget) fillCurrent(ctx context.Context, page *scrape.Page, selectors scrape.SelectorSet, report map[string]any) {
	fields := selectors.Section("weather")
	doc := w.sectionDoc(ctx, page, "weather", primarySelector(fields, "now_img"))
	if doc == nil {
		return
	}

	current := map[string]string{}
	for field, selector := range fields {
		switch {
		case field == "now_img":
			current[field] = scrape.WeatherIconURL(elementClasses(doc, selector))
		case weatherDecimalFields[field]:
			current[field] = scrape.ParseDecimal(scrape.Text(doc, selector))
		default:
			current[field] = scrape.Text(doc, selector)
		}
	}
	report["weather"] = current
}

func (w *WeatherWidget) fillWeekly(ctx context.Context, page *scrape.Page, selectors scrape.SelectorSet, report map[string]any) {
	selector := selectors.Lookup("weekly", "weekly_list")
	doc := w.sectionDoc(ctx, page, "weekly", selector)
	if doc == nil {
		return
	}

	weekly := []map[string]string{}
	doc.Find(selector).Each(func(_ int, day *goquery.Selection) {
		entry := map[string]string{
			"weekly_day":  strings.TrimSpace(day.Find("strong.day").First().Text()),
			"weekly_date": strings.TrimSpace(day.Find("span.date").First().Text()),
		}
		day.Find("i.ico").Each(func(i int, icon *goquery.Selection) {
			entry[halfDayKey(i, "img")] = scrape.WeatherIconURL(splitClasses(icon))
		})
		day.Find("span.rainfall").Each(func(i int, rainfall *goquery.Selection) {
			entry[halfDayKey(i, "rainfall")] = scrape.ParseDecimal(rainfall.Text())
		})
		entry["weekly_low_temperature"] = scrape.ParseDecimal(day.Find("span.lowest").First().Text())
		entry["weekly_high_temperature"] = scrape.ParseDecimal(day.Find("span.highest").First().Text())
		weekly = append(weekly, entry)
	})
	report["weekly"] = weekly
}

func (w *WeatherWidget) fillAir(ctx context.Context, page *scrape.Page, selectors scrape.SelectorSet, report map[string]any) {
	fields := selectors.Section("air")
	doc := w.sectionDoc(ctx, page, "air", primarySelector(fields, "uv"))
	if doc == nil {
		return
	}

	air := map[string]string{}
	for field, selector := range fields {
		text := scrape.Text(doc, selector)
		if field == "uv" {
			air["uv_index"] = scrape.ParseDecimal(text)
			air["uv_level"] = scrape.UVBandFromText(text)
			continue
		}
		air[field] = text
	}
	report["air"] = air
}

// primarySelector picks the selector the bounded wait blocks on:
// the preferred field when present, otherwise the first field in
// sorted order.
func primarySelector(fields map[string]string, preferred string) string {
	if selector, ok := fields[preferred]; ok {
		return selector
	}
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	if len(keys) == 0 {
		return ""
	}
	sort.Strings(keys)
	return fields[keys[0]]
}

func elementClasses(doc *goquery.Document, selector string) []string {
	return splitClasses(doc.Find(selector).First())
}

func splitClasses(sel *goquery.Selection) []string {
	return strings.Fields(sel.AttrOr("class", ""))
}

// halfDayKey names the morning (index 0) and afternoon entries of a
// weekly forecast row.
func halfDayKey(i int, suffix string) string {
	if i == 0 {
		return "weekly_am_" + suffix
	}
	return "weekly_ap_" + suffix
}
