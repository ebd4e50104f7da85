package language

import (
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

// Normalize converts a language hint (code or English name) to the ISO 639-1
// form the transcription endpoint expects. It returns an empty string when
// the input is empty or unrecognized, which callers treat as auto-detect.
func Normalize(value string) string {
	trimmed := strings.ToLower(strings.TrimSpace(value))
	if trimmed == "" {
		return ""
	}
	if tag, err := language.Parse(trimmed); err == nil {
		base, conf := tag.Base()
		if conf >= language.High {
			return base.String()
		}
	}
	// Accept full English names like "english" or "japanese".
	bases := display.Supported.BaseLanguages()
	namer := display.English.Languages()
	for _, base := range bases {
		if strings.EqualFold(namer.Name(base), trimmed) {
			return base.String()
		}
	}
	return ""
}

// DisplayName renders a human-readable English name for a language code.
// Unrecognized codes are returned unchanged so raw detector output still
// surfaces in status views.
func DisplayName(code string) string {
	trimmed := strings.TrimSpace(code)
	if trimmed == "" {
		return ""
	}
	tag, err := language.Parse(trimmed)
	if err != nil {
		return trimmed
	}
	if name := display.English.Languages().Name(tag); name != "" {
		return name
	}
	return trimmed
}
