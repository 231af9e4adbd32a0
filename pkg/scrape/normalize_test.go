package scrape

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseDecimal(t *testing.T) {
	tests := []struct {
		text string
		want string
	}{
		{"체감 -3.5도", "-3.5"},
		{"영하 3.5도", "3.5"},
		{"26.1°", "26.1"},
		{"습도 65%", "65"},
		{"-12", "-12"},
		{"맑음", ""},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ParseDecimal(tt.text), "ParseDecimal(%q)", tt.text)
	}
}

func TestStripBracketTag(t *testing.T) {
	tests := []struct {
		text string
		want string
	}{
		{"[분식] 라면", "라면"},
		{"[공지] 제육볶음", "제육볶음"},
		{"김치찌개", "김치찌개"},
		{"비빔밥 [매운맛]", "비빔밥 [매운맛]"},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, StripBracketTag(tt.text), "StripBracketTag(%q)", tt.text)
	}
}

func TestUVBand(t *testing.T) {
	// Boundary values map to the upper band.
	tests := []struct {
		value float64
		want  string
	}{
		{0, "level1"},
		{2, "level1"},
		{2.9, "level1"},
		{3, "level2"},
		{5, "level2"},
		{6, "level3"},
		{7, "level3"},
		{8, "level4"},
		{10, "level4"},
		{11, "level5"},
		{14, "level5"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, UVBand(tt.value), "UVBand(%v)", tt.value)
	}
}

func TestUVBandFromText(t *testing.T) {
	assert.Equal(t, "level2", UVBandFromText("자외선 지수 4"))
	assert.Equal(t, "level5", UVBandFromText("11"))
	assert.Equal(t, "", UVBandFromText("매우 높음"))
	assert.Equal(t, "", UVBandFromText(""))
}

func TestWeatherIconURL(t *testing.T) {
	assert.Equal(t,
		"https://ssl.pstatic.net/static/weather/image/icon_weather/ico_wt1.svg",
		WeatherIconURL([]string{"ico", "ico_wt1"}))
	assert.Equal(t,
		"https://ssl.pstatic.net/static/weather/image/icon_weather/ico_animation_wt12.svg",
		WeatherIconURL([]string{"blind", "ico_animation_wt12"}))
	assert.Equal(t, "", WeatherIconURL([]string{"ico", "day"}))
	assert.Equal(t, "", WeatherIconURL(nil))
}
