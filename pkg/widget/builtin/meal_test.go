package builtin

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hyunsoo-k/speculo/pkg/config"
	"github.com/hyunsoo-k/speculo/pkg/logging"
	"github.com/hyunsoo-k/speculo/pkg/scrape"
)

const mealPage = `<html><body>
<div id="menu">
<table><tbody>
<tr>
  <td>구분</td>
  <td><ul><li>[공지] 제육볶음</li><li>쌀밥</li><li></li></ul></td>
  <td><ul><li>[분식] 라면</li></ul></td>
  <td>비고</td>
</tr>
</tbody></table>
</div>
</body></html>`

func testMealWidget(sources []mealSource) *MealWidget {
	log := logging.NewTestLogger(nil)
	return &MealWidget{
		cfg:     config.WidgetConfig{Name: "meal", APIEndpoint: "/api/meal-data"},
		fetcher: scrape.NewFetcher(log),
		log:     log,
		sources: sources,
	}
}

func TestMeal_API(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/bi" {
			w.Write([]byte(mealPage))
			return
		}
		http.NotFound(w, r)
	}))
	defer srv.Close()

	w := testMealWidget([]mealSource{
		{key: "meal_bi_info", url: srv.URL + "/bi", rowSelector: "#menu > table > tbody > tr:nth-child(1)"},
		{key: "meal_sc_info", url: srv.URL + "/sc", rowSelector: "#menu > table > tbody > tr:nth-child(3)"},
	})

	data, err := w.API(context.Background())
	require.NoError(t, err)
	result := data.(map[string]any)

	// First and last columns are dropped; bracket tags stripped; empty
	// items skipped.
	bi := result["meal_bi_info"].([][]string)
	assert.Equal(t, [][]string{{"제육볶음", "쌀밥"}, {"라면"}}, bi)

	// The second cafeteria's page 404s: its menu degrades to empty.
	sc := result["meal_sc_info"].([][]string)
	assert.Empty(t, sc)
}

func TestMeal_API_SelectorMiss(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html><body><p>redesigned page</p></body></html>"))
	}))
	defer srv.Close()

	w := testMealWidget([]mealSource{
		{key: "meal_bi_info", url: srv.URL, rowSelector: "#menu > table > tbody > tr:nth-child(1)"},
	})

	data, err := w.API(context.Background())
	require.NoError(t, err)
	result := data.(map[string]any)
	assert.Empty(t, result["meal_bi_info"])
}

func TestMeal_Render(t *testing.T) {
	w := testMealWidget(defaultMealSources)
	markup, err := w.Render()
	require.NoError(t, err)
	assert.Contains(t, markup, "id='meal-widget'")
	assert.Contains(t, markup, "/api/meal-data")
}
