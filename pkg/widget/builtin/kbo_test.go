package builtin

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hyunsoo-k/speculo/pkg/config"
	"github.com/hyunsoo-k/speculo/pkg/logging"
	"github.com/hyunsoo-k/speculo/pkg/scrape"
)

func seoul(t *testing.T) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation(kboTimeZone)
	require.NoError(t, err)
	return loc
}

func TestSelectScheduleDay(t *testing.T) {
	loc := time.UTC
	at := func(day string, hour int) time.Time {
		parsed, err := time.ParseInLocation(kboDateLayout, day, loc)
		require.NoError(t, err)
		return parsed.Add(time.Duration(hour) * time.Hour)
	}

	tests := []struct {
		name string
		now  time.Time
		keys []string
		want string
	}{
		{
			// Before noon, but the most recent key is today: the
			// "not earlier than today" branch overrides the noon check.
			name: "before noon, key equals today",
			now:  at("20240601", 11),
			keys: []string{"20240601", "20240531"},
			want: "20240601",
		},
		{
			name: "before noon, key in the future",
			now:  at("20240531", 11),
			keys: []string{"20240601", "20240531"},
			want: "20240531",
		},
		{
			name: "after noon, key in the future",
			now:  at("20240531", 13),
			keys: []string{"20240601", "20240531"},
			want: "20240601",
		},
		{
			name: "exactly noon counts as after",
			now:  at("20240531", 12),
			keys: []string{"20240601", "20240531"},
			want: "20240601",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := selectScheduleDay(tt.now, tt.keys)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSelectScheduleDay_Errors(t *testing.T) {
	now := time.Date(2024, 5, 31, 11, 0, 0, 0, time.UTC)

	_, err := selectScheduleDay(now, nil)
	assert.Error(t, err)

	// Fallback needed but only one key available.
	_, err = selectScheduleDay(now, []string{"20240601"})
	assert.Error(t, err)
}

func TestScheduleDateKeys(t *testing.T) {
	schedule := map[string]json.RawMessage{
		"20240531":   nil,
		"20240601":   nil,
		"lastUpdate": nil,
		"2024-06":    nil,
	}
	assert.Equal(t, []string{"20240601", "20240531"}, scheduleDateKeys(schedule))
	assert.Empty(t, scheduleDateKeys(nil))
}

func testKBOWidget(t *testing.T, srvURL string, now time.Time) *KBOWidget {
	t.Helper()
	log := logging.NewTestLogger(nil)
	return &KBOWidget{
		cfg:             config.WidgetConfig{Name: "kbo", APIEndpoint: "/api/kbo-data"},
		fetcher:         scrape.NewFetcher(log),
		log:             log,
		loc:             seoul(t),
		now:             func() time.Time { return now },
		scheduleBaseURL: srvURL + "/schedule?toDate=",
		rankURL:         srvURL + "/rank",
	}
}

func TestKBO_API(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/schedule":
			w.Write([]byte(`{"schedule": {
				"20240601": [{
					"gameStatus": "LIVE",
					"periodType": "5회말",
					"fieldName": "잠실",
					"startDate": "20240601",
					"startTime": "14:00",
					"awayResult": 3,
					"awayTeamName": "두산",
					"homeResult": 5,
					"homeTeamName": "LG",
					"winPitcher": "김택연"
				}],
				"20240531": [],
				"lastUpdate": "cache"
			}}`))
		case "/rank":
			w.Write([]byte(`{"list": [{
				"imageUrl": "https://img.test/kia.png",
				"shortName": "KIA",
				"rank": {"rank": 1, "game": 55, "win": 35, "draw": 1, "loss": 19, "wpct": 0.648, "gb": 0, "streak": "3승"}
			}]}`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	now := time.Date(2024, 6, 1, 11, 0, 0, 0, seoul(t))
	w := testKBOWidget(t, srv.URL, now)

	data, err := w.API(context.Background())
	require.NoError(t, err)
	result := data.(map[string]any)

	score := result["score"].([]map[string]any)
	require.Len(t, score, 1)
	assert.Equal(t, "LIVE", score[0]["game_status"])
	assert.Equal(t, "잠실", score[0]["field_name"])
	assert.Equal(t, "두산", score[0]["away_team"])
	assert.Equal(t, "김택연", score[0]["win_pitcher"])
	assert.Equal(t, "", score[0]["lose_pitcher"], "missing pitcher degrades to empty string")

	rank := result["rank"].([]map[string]any)
	require.Len(t, rank, 1)
	assert.Equal(t, "KIA", rank[0]["team_name"])
	assert.Equal(t, float64(1), rank[0]["rank"])
	assert.Equal(t, "3승", rank[0]["streak"])
}

func TestKBO_API_FeedFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusInternalServerError)
	}))
	defer srv.Close()

	now := time.Date(2024, 6, 1, 15, 0, 0, 0, seoul(t))
	w := testKBOWidget(t, srv.URL, now)

	data, err := w.API(context.Background())
	require.NoError(t, err, "feed failures never escape the acquisition boundary")
	result := data.(map[string]any)
	assert.Empty(t, result["score"])
	assert.Empty(t, result["rank"])
}

func TestKBO_Render(t *testing.T) {
	w := testKBOWidget(t, "http://unused.test", time.Now())
	markup, err := w.Render()
	require.NoError(t, err)
	assert.Contains(t, markup, "id='kbo-widget'")
	assert.Contains(t, markup, "/api/kbo-data")
}
