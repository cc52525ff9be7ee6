package builder

import (
	"strings"
)

// Theme keys understood by the renderer; other keys are ignored.
const (
	ThemeKeyBackground = "background"
	ThemeKeyFontColor  = "font_color"
)

const (
	defaultBackground = "FFFFFFFF"
	defaultFontColor  = "FF333333"
	defaultTitleColor = "FF1F2937"
	citationColor     = "FF6B7280"
)

// Theme holds ARGB colors applied to every slide.
type Theme struct {
	Background string
	FontColor  string
	TitleColor string
}

// ParseTheme reads the color keys from a free-form theme map.
// Values are hex RGB ("#1E40AF" or "1E40AF"); anything else keeps the default.
func ParseTheme(theme map[string]interface{}) Theme {
	t := Theme{
		Background: defaultBackground,
		FontColor:  defaultFontColor,
		TitleColor: defaultTitleColor,
	}
	if c, ok := colorValue(theme[ThemeKeyBackground]); ok {
		t.Background = c
	}
	if c, ok := colorValue(theme[ThemeKeyFontColor]); ok {
		t.FontColor = c
		t.TitleColor = c
	}
	return t
}

func colorValue(v interface{}) (string, bool) {
	s, ok := v.(string)
	if !ok {
		return "", false
	}
	s = strings.ToUpper(strings.TrimPrefix(strings.TrimSpace(s), "#"))
	if len(s) != 6 {
		return "", false
	}
	for _, r := range s {
		if !strings.ContainsRune("0123456789ABCDEF", r) {
			return "", false
		}
	}
	return "FF" + s, true
}
