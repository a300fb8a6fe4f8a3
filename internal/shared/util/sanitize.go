package util

import (
	"path"
	"strings"
	"unicode"
	"unicode/utf8"
)

const (
	maxStagingNameRunes = 120
	fallbackStagingName = "upload"
)

// StagingName reduces a client-supplied file name to one safe path segment:
// the last path element, without control characters or leading dots, capped
// in length with the extension kept. Unusable names become "upload".
func StagingName(name string) string {
	name = strings.TrimSpace(name)
	if i := strings.LastIndexAny(name, `/\`); i >= 0 {
		name = name[i+1:]
	}

	var b strings.Builder
	for _, r := range name {
		if r == utf8.RuneError || unicode.IsControl(r) || r == ':' {
			continue
		}
		b.WriteRune(r)
	}
	clean := strings.TrimLeft(strings.TrimSpace(b.String()), ".")
	if clean == "" {
		return fallbackStagingName
	}

	runes := []rune(clean)
	if len(runes) <= maxStagingNameRunes {
		return clean
	}
	ext := path.Ext(clean)
	if utf8.RuneCountInString(ext) > 16 {
		ext = ""
	}
	stem := []rune(strings.TrimSuffix(clean, ext))
	keep := maxStagingNameRunes - utf8.RuneCountInString(ext)
	if keep > len(stem) {
		keep = len(stem)
	}
	return string(stem[:keep]) + ext
}
