package builtin

import (
	"fmt"
	"strings"
	"time"
)

var koreanWeekdays = [7]string{"일", "월", "화", "수", "목", "금", "토"}

// formatTokens renders a strftime-flavored format string. Beyond the
// usual date/time tokens it supports %K (Korean weekday) and %P
// (Korean meridiem), which the layout files use.
func formatTokens(now time.Time, format string) string {
	hour12 := now.Hour() % 12
	if hour12 == 0 {
		hour12 = 12
	}
	meridiem := "오전"
	if now.Hour() >= 12 {
		meridiem = "오후"
	}

	replacer := strings.NewReplacer(
		"%Y", fmt.Sprintf("%04d", now.Year()),
		"%m", fmt.Sprintf("%02d", int(now.Month())),
		"%d", fmt.Sprintf("%02d", now.Day()),
		"%H", fmt.Sprintf("%02d", now.Hour()),
		"%I", fmt.Sprintf("%02d", hour12),
		"%M", fmt.Sprintf("%02d", now.Minute()),
		"%S", fmt.Sprintf("%02d", now.Second()),
		"%K", koreanWeekdays[int(now.Weekday())],
		"%P", meridiem,
	)
	return replacer.Replace(format)
}
