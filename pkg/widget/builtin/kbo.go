package builtin

import (
	"context"
	"encoding/json"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/hyunsoo-k/speculo/pkg/config"
	serrors "github.com/hyunsoo-k/speculo/pkg/errors"
	"github.com/hyunsoo-k/speculo/pkg/logging"
	"github.com/hyunsoo-k/speculo/pkg/scrape"
	"github.com/hyunsoo-k/speculo/pkg/widget"
)

const (
	kboScheduleBaseURL = "https://sports.daum.net/prx/hermes/api/game/schedule.json?leagueCode=kbo&toDate="
	kboRankURL         = "https://sports.daum.net/prx/hermes/api/team/rank.json?leagueCode=kbo"
	kboTimeZone        = "Asia/Seoul"
	kboDateLayout      = "20060102"
)

// KBOWidget shows the KBO league scoreboard and standings from the
// portal's JSON feeds.
type KBOWidget struct {
	cfg             config.WidgetConfig
	fetcher         *scrape.Fetcher
	log             *logging.Logger
	loc             *time.Location
	now             func() time.Time
	scheduleBaseURL string
	rankURL         string
}

// NewKBO is the baseball scoreboard widget factory.
func NewKBO(cfg config.WidgetConfig, deps widget.Deps) (widget.Widget, error) {
	loc, err := time.LoadLocation(kboTimeZone)
	if err != nil {
		return nil, serrors.Wrap(err, serrors.ErrCodeWidgetInit, "loading KBO time zone")
	}
	return &KBOWidget{
		cfg:             cfg,
		fetcher:         deps.Fetcher,
		log:             deps.Log,
		loc:             loc,
		now:             time.Now,
		scheduleBaseURL: kboScheduleBaseURL,
		rankURL:         kboRankURL,
	}, nil
}

func (w *KBOWidget) Name() string { return "kbo" }

func (w *KBOWidget) Render() (string, error) {
	return dataShell(w.Name(), w.cfg, 600000), nil
}

// API fetches the schedule and the rank table concurrently. Each feed
// degrades independently to an empty list.
func (w *KBOWidget) API(ctx context.Context) (any, error) {
	var score, rank []map[string]any

	var g errgroup.Group
	g.Go(func() error {
		score = w.games(ctx)
		return nil
	})
	g.Go(func() error {
		rank = w.rankTable(ctx)
		return nil
	})
	g.Wait()

	return map[string]any{
		"score": score,
		"rank":  rank,
	}, nil
}

type kboScheduleResponse struct {
	Schedule map[string]json.RawMessage `json:"schedule"`
}

// games fetches today's schedule feed and picks which day's games to
// show based on current time in the reference zone.
func (w *KBOWidget) games(ctx context.Context) []map[string]any {
	now := w.now().In(w.loc)

	var resp kboScheduleResponse
	if err := w.fetcher.JSON(ctx, w.scheduleBaseURL+now.Format(kboDateLayout), &resp); err != nil {
		return []map[string]any{}
	}

	key, err := selectScheduleDay(now, scheduleDateKeys(resp.Schedule))
	if err != nil {
		w.log.WidgetFailure(logging.CategoryScrape, "schedule_select_failed", w.Name(), err)
		return []map[string]any{}
	}

	var games []map[string]any
	if err := json.Unmarshal(resp.Schedule[key], &games); err != nil {
		w.log.WidgetFailure(logging.CategoryScrape, "schedule_decode_failed", w.Name(), err)
		return []map[string]any{}
	}

	result := make([]map[string]any, 0, len(games))
	for _, game := range games {
		result = append(result, map[string]any{
			"game_status":   game["gameStatus"],
			"game_inning":   game["periodType"],
			"field_name":    game["fieldName"],
			"start_date":    game["startDate"],
			"start_time":    game["startTime"],
			"away_point":    game["awayResult"],
			"away_sp":       game["awayStartPitcher"],
			"away_team":     game["awayTeamName"],
			"away_team_img": game["awayTeamImageUrl"],
			"away_wlt":      game["awayWlt"],
			"home_point":    game["homeResult"],
			"home_sp":       game["homeStartPitcher"],
			"home_team":     game["homeTeamName"],
			"home_team_img": game["homeTeamImageUrl"],
			"home_wlt":      game["homeWlt"],
			"win_pitcher":   orEmpty(game["winPitcher"]),
			"lose_pitcher":  orEmpty(game["losePitcher"]),
		})
	}
	return result
}

func (w *KBOWidget) rankTable(ctx context.Context) []map[string]any {
	var resp struct {
		List []map[string]any `json:"list"`
	}
	if err := w.fetcher.JSON(ctx, w.rankURL, &resp); err != nil {
		return []map[string]any{}
	}

	result := make([]map[string]any, 0, len(resp.List))
	for _, team := range resp.List {
		rank, _ := team["rank"].(map[string]any)
		result = append(result, map[string]any{
			"rank":      rank["rank"],
			"team_img":  team["imageUrl"],
			"team_name": team["shortName"],
			"game":      rank["game"],
			"win":       rank["win"],
			"draw":      rank["draw"],
			"loss":      rank["loss"],
			"wpct":      rank["wpct"],
			"gb":        rank["gb"],
			"streak":    rank["streak"],
		})
	}
	return result
}

// scheduleDateKeys filters the feed's schedule keys to purely numeric
// date keys, sorted descending (most recent first).
func scheduleDateKeys(schedule map[string]json.RawMessage) []string {
	keys := make([]string, 0, len(schedule))
	for k := range schedule {
		if isDigits(k) {
			keys = append(keys, k)
		}
	}
	sort.Sort(sort.Reverse(sort.StringSlice(keys)))
	return keys
}

// selectScheduleDay picks which date key's games to display. At or
// after noon, or when the most recent key is not earlier than today,
// the most recent key wins; otherwise the second-most-recent. The rule
// is kept exactly as the display has always behaved, including the
// lexicographic date comparison.
func selectScheduleDay(now time.Time, keys []string) (string, error) {
	if len(keys) == 0 {
		return "", serrors.New(serrors.ErrCodeScrapeParse, "schedule feed has no date keys")
	}
	noon := time.Date(now.Year(), now.Month(), now.Day(), 12, 0, 0, 0, now.Location())
	if !now.Before(noon) || now.Format(kboDateLayout) >= keys[0] {
		return keys[0], nil
	}
	if len(keys) < 2 {
		return "", serrors.New(serrors.ErrCodeScrapeParse, "schedule feed has no fallback date key")
	}
	return keys[1], nil
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func orEmpty(v any) any {
	if v == nil {
		return ""
	}
	return v
}
