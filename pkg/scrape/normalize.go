package scrape

import (
	"regexp"
	"strconv"
)

var (
	decimalPattern    = regexp.MustCompile(`-?\d+(\.\d+)?`)
	bracketTagPattern = regexp.MustCompile(`^\[[^]]+\]\s*`)
	weatherIconClass  = regexp.MustCompile(`^ico(?:_animation)?_wt\d+$`)
)

const weatherIconBaseURL = "https://ssl.pstatic.net/static/weather/image/icon_weather/"

// ParseDecimal extracts the first decimal number from mixed text, e.g.
// "체감 -3.5도" yields "-3.5". Returns the empty string when the text
// carries no numeric substring.
func ParseDecimal(text string) string {
	return decimalPattern.FindString(text)
}

// StripBracketTag removes a leading bracketed tag from scraped text,
// e.g. "[분식] 라면" becomes "라면". Text without a bracket prefix is
// returned unchanged.
func StripBracketTag(text string) string {
	return bracketTagPattern.ReplaceAllString(text, "")
}

// UVBand buckets a UV index into one of five severity bands. Boundary
// values belong to the upper band.
func UVBand(value float64) string {
	switch {
	case value >= 11:
		return "level5"
	case value >= 8:
		return "level4"
	case value >= 6:
		return "level3"
	case value >= 3:
		return "level2"
	default:
		return "level1"
	}
}

// UVBandFromText parses a UV reading out of raw text and bands it.
// Malformed or missing numeric text is a missing value, not an error.
func UVBandFromText(text string) string {
	raw := ParseDecimal(text)
	if raw == "" {
		return ""
	}
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return ""
	}
	return UVBand(value)
}

// WeatherIconURL maps an icon element's class list to the portal CDN
// SVG. Returns the empty string when no class matches the icon naming
// scheme.
func WeatherIconURL(classes []string) string {
	for _, class := range classes {
		if weatherIconClass.MatchString(class) {
			return weatherIconBaseURL + class + ".svg"
		}
	}
	return ""
}
