package locale

import (
	"fmt"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

const reportHeader = `<!-- DO NOT EDIT THIS FILE DIRECTLY -->
## Available Locales
Use ` + "`?locale=LOCALE_CODE`" + ` parameter like so :-

` + "```markdown" + `
![GitHub Stats](https://profilecard.example.com/api?username=octocat&locale=id)
` + "```" + `

## Locales List

<table>
  <tr>
    <td><p align="center"><b>Code</b></p></td>
    <td><p align="left"><b>Locale</b></p></td>
    <td><p align="center"><b>Progress</b></p></td>
  </tr>
`

// ProgressColor maps a completion percentage to a red-to-green color band.
func ProgressColor(progress float64) string {
	switch {
	case progress <= 20:
		return "#FF0000"
	case progress <= 40:
		return "#FF7F00"
	case progress <= 60:
		return "#FFFF00"
	case progress <= 80:
		return "#7FFF00"
	default:
		return "#00FF00"
	}
}

// NativeName returns the language name written in that language, or the
// code itself when it is not a known tag.
func NativeName(code string) string {
	tag, err := language.Parse(code)
	if err != nil {
		return code
	}
	if name := display.Self.Name(tag); name != "" {
		return name
	}
	return code
}

// Report renders a markdown document listing every locale in t with its
// translation progress.
func Report(t Table) string {
	var b strings.Builder
	b.WriteString(reportHeader)

	for _, code := range t.Keys() {
		l, _ := t.Lookup(code)
		progress := l.Completion()
		fmt.Fprintf(&b, `  <tr>
    <td><p align="center"><code>%s</code></p></td>
    <td><p align="left">%s</p></td>
    <td><p align="center"><img src="https://shapecolor.vercel.app/?width=14&height=14&radius=7&color=%s"/> %.2f%%</p></td>
  </tr>
`, code, NativeName(code), strings.TrimPrefix(ProgressColor(progress), "#"), progress)
	}

	b.WriteString("</table>\n")
	return b.String()
}
