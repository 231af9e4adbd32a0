package builtin

import (
	"context"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/sync/errgroup"

	"github.com/hyunsoo-k/speculo/pkg/config"
	"github.com/hyunsoo-k/speculo/pkg/logging"
	"github.com/hyunsoo-k/speculo/pkg/scrape"
	"github.com/hyunsoo-k/speculo/pkg/widget"
)

// mealSource points at one cafeteria's weekly menu page: a static page
// whose menu table row is addressed by a CSS locator.
type mealSource struct {
	key         string
	url         string
	rowSelector string
}

var defaultMealSources = []mealSource{
	{
		key: "meal_bi_info",
		url: "https://www.hanyang.ac.kr/web/www/re15",
		rowSelector: "#_foodView_WAR_foodportlet_tab_2 > div.box.tables-board-wrap > " +
			"table > tbody > tr:nth-child(1)",
	},
	{
		key: "meal_sc_info",
		url: "https://www.hanyang.ac.kr/web/www/re11",
		rowSelector: "#_foodView_WAR_foodportlet_tab_2 > div.box.tables-board-wrap > " +
			"table > tbody > tr:nth-child(3)",
	},
}

// MealWidget scrapes the university cafeterias' weekly menus. Each
// source degrades independently to an empty table on failure.
type MealWidget struct {
	cfg     config.WidgetConfig
	fetcher *scrape.Fetcher
	log     *logging.Logger
	sources []mealSource
}

// NewMeal is the cafeteria menu widget factory.
func NewMeal(cfg config.WidgetConfig, deps widget.Deps) (widget.Widget, error) {
	return &MealWidget{
		cfg:     cfg,
		fetcher: deps.Fetcher,
		log:     deps.Log,
		sources: defaultMealSources,
	}, nil
}

func (w *MealWidget) Name() string { return "meal" }

func (w *MealWidget) Render() (string, error) {
	return dataShell(w.Name(), w.cfg, 3600000), nil
}

// API fetches both cafeterias concurrently. Always returns the full
// shape; a failed source contributes an empty menu.
func (w *MealWidget) API(ctx context.Context) (any, error) {
	menus := make([][][]string, len(w.sources))

	var g errgroup.Group
	for i, src := range w.sources {
		g.Go(func() error {
			menus[i] = w.weeklyMenu(ctx, src)
			return nil
		})
	}
	g.Wait()

	out := make(map[string]any, len(w.sources))
	for i, src := range w.sources {
		out[src.key] = menus[i]
	}
	return out, nil
}

// weeklyMenu extracts one cafeteria's menu: the locator addresses a
// table row whose inner columns (first and last dropped) each hold one
// day's dish list.
func (w *MealWidget) weeklyMenu(ctx context.Context, src mealSource) [][]string {
	doc, err := w.fetcher.Document(ctx, src.url)
	if err != nil {
		return [][]string{}
	}

	row := doc.Find(src.rowSelector).First()
	if row.Length() == 0 {
		w.log.Warn(logging.CategoryScrape, "selector_miss", "meal row not found", map[string]any{
			"source":   src.key,
			"selector": src.rowSelector,
		})
		return [][]string{}
	}

	cols := row.Find("td")
	if cols.Length() <= 2 {
		return [][]string{}
	}

	menu := make([][]string, 0, cols.Length()-2)
	cols.Slice(1, cols.Length()-1).Each(func(_ int, col *goquery.Selection) {
		dishes := []string{}
		col.Find("li").Each(func(_ int, item *goquery.Selection) {
			if text := strings.TrimSpace(item.Text()); text != "" {
				dishes = append(dishes, scrape.StripBracketTag(text))
			}
		})
		menu = append(menu, dishes)
	})
	return menu
}
