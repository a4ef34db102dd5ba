package locale

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuiltinDefaultIsComplete(t *testing.T) {
	en := Builtin().Default()
	assert.Equal(t, "{name}'s GitHub Stats", en.TitleCard)
	assert.InDelta(t, 100.0, en.Completion(), 0.001)
	assert.False(t, en.IsRTL())
}

func TestNormalizeKey(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "pt_BR", want: "pt-br"},
		{in: "PT-br", want: "pt-br"},
		{in: "zh-CN", want: "zh-cn"},
		{in: " EN ", want: "en"},
		{in: "", want: ""},
		{in: "not a tag!", want: "not a tag!"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeKey(tt.in))
		})
	}
}

func TestResolve(t *testing.T) {
	tbl := Builtin()

	t.Run("unknown key falls back to en", func(t *testing.T) {
		assert.Equal(t, tbl.Default(), Resolve(tbl, "xx-unknown"))
	})

	t.Run("partial locale keeps own fields", func(t *testing.T) {
		jv := Resolve(tbl, "jv")
		assert.Equal(t, "Statistik GitHub {name}", jv.TitleCard)
		assert.Equal(t, "Pandherek", jv.FollowersText)
		assert.Equal(t, "Following", jv.FollowingText)
		assert.False(t, jv.IsRTL())
	})

	t.Run("region falls back to base language", func(t *testing.T) {
		es := Resolve(tbl, "es-MX")
		assert.Equal(t, "Seguidores", es.FollowersText)
		assert.Equal(t, "es", Match(tbl, "es_MX"))
	})

	t.Run("casing does not matter", func(t *testing.T) {
		assert.Equal(t, "Seguindo", Resolve(tbl, "PT_br").FollowingText)
	})

	t.Run("rtl locales", func(t *testing.T) {
		for _, key := range []string{"ar", "he", "fa"} {
			assert.True(t, Resolve(tbl, key).IsRTL(), key)
		}
	})
}

func TestCompletion(t *testing.T) {
	yes := true
	assert.InDelta(t, 0.0, Locale{}.Completion(), 0.001)
	assert.InDelta(t, 12.5, Locale{TitleCard: "x", RTL: &yes}.Completion(), 0.001)
}

func TestParseRequiresCompleteDefault(t *testing.T) {
	_, err := Parse([]byte("fr:\n  titleCard: x\n"))
	require.Error(t, err)

	_, err = Parse([]byte("en:\n  titleCard: x\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "incomplete")
}

func TestProgressColor(t *testing.T) {
	assert.Equal(t, "#FF0000", ProgressColor(20))
	assert.Equal(t, "#FF7F00", ProgressColor(40))
	assert.Equal(t, "#FFFF00", ProgressColor(55))
	assert.Equal(t, "#7FFF00", ProgressColor(80))
	assert.Equal(t, "#00FF00", ProgressColor(100))
}

func TestReport(t *testing.T) {
	report := Report(Builtin())

	assert.True(t, strings.HasPrefix(report, "<!-- DO NOT EDIT THIS FILE DIRECTLY -->"))
	assert.Contains(t, report, "<code>en</code>")
	assert.Contains(t, report, "<code>pt-br</code>")
	assert.Contains(t, report, "100.00%")
	assert.Contains(t, report, "color=FF0000")
	assert.True(t, strings.HasSuffix(report, "</table>\n"))
}

func TestNativeName(t *testing.T) {
	assert.Equal(t, "Deutsch", NativeName("de"))
	assert.Equal(t, "!!", NativeName("!!"))
}
