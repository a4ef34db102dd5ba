package render

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseBackground(t *testing.T) {
	tests := []struct {
		name   string
		tokens []string
		want   Background
	}{
		{name: "absent", tokens: nil, want: Background{}},
		{name: "blank", tokens: []string{"  "}, want: Background{}},
		{name: "solid", tokens: []string{"fffefe"}, want: Background{Kind: BackgroundSolid, Color: "fffefe"}},
		{
			name:   "gradient string",
			tokens: []string{"45, ff0000,00ff00 ,0000ff"},
			want: Background{Kind: BackgroundGradient, Angle: "45", Stops: []GradientStop{
				{Offset: 0, Color: "ff0000"}, {Offset: 50, Color: "00ff00"}, {Offset: 100, Color: "0000ff"},
			}},
		},
		{
			name:   "gradient list",
			tokens: []string{"90", "000", "fff"},
			want: Background{Kind: BackgroundGradient, Angle: "90", Stops: []GradientStop{
				{Offset: 0, Color: "000"}, {Offset: 100, Color: "fff"},
			}},
		},
		{name: "single stop string falls back to solid", tokens: []string{"45,ff0000"}, want: Background{Kind: BackgroundSolid, Color: "ff0000"}},
		{name: "single stop list falls back to solid", tokens: []string{"45", "ff0000"}, want: Background{Kind: BackgroundSolid, Color: "ff0000"}},
		{name: "empty stops are dropped", tokens: []string{"30,,abc,"}, want: Background{Kind: BackgroundSolid, Color: "abc"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseBackground(tt.tokens)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseBackgroundDegenerate(t *testing.T) {
	for _, tokens := range [][]string{{"45,"}, {"45", ""}, {"45, ,"}} {
		_, err := ParseBackground(tokens)
		assert.ErrorIs(t, err, ErrDegenerateGradient, "tokens=%q", tokens)
	}
}

func TestGradientMarkupOffsets(t *testing.T) {
	out, err := ResolveBackground([]string{"45,ff0000,00ff00,0000ff"}, `rx="4.5"`)
	require.NoError(t, err)

	assert.Equal(t, 3, strings.Count(out, "<stop "))
	assert.Contains(t, out, `<stop offset="0%" stop-color="#ff0000"/>`)
	assert.Contains(t, out, `<stop offset="50%" stop-color="#00ff00"/>`)
	assert.Contains(t, out, `<stop offset="100%" stop-color="#0000ff"/>`)
	assert.Contains(t, out, `gradientTransform="rotate(45)"`)
	assert.Contains(t, out, `fill="url(#gradient)" rx="4.5"/>`)
	assert.NotContains(t, out, "NaN")
}

func TestGradientMarkupUnevenOffsets(t *testing.T) {
	out, err := ResolveBackground([]string{"0,a,b,c,d"}, "")
	require.NoError(t, err)
	assert.Contains(t, out, `offset="33.333333333333336%"`)
	assert.Contains(t, out, `offset="66.66666666666667%"`)
}

func TestSolidMarkup(t *testing.T) {
	out, err := ResolveBackground([]string{"45,ff0000"}, `rx="2"`)
	require.NoError(t, err)
	assert.Equal(t, `<rect x="0.5" y="0.5" height="99.4%" width="99.8%" fill="#ff0000" rx="2"/>`, out)
	assert.NotContains(t, out, "NaN")
}

func TestNoBackgroundMarkup(t *testing.T) {
	out, err := ResolveBackground(nil, `rx="2"`)
	require.NoError(t, err)
	assert.Empty(t, out)
}
