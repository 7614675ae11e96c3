package render

import (
	htmltemplate "html/template"
	"strings"
	texttemplate "text/template"
	"time"
)

// Filter set available inside templates. Enough to express the digest
// bullet lists and subject pluralization.
var funcs = map[string]any{
	"truncatewords": truncateWords,
	"truncatechars": truncateChars,
	"pluralize":     pluralize,
	"default":       defaultString,
	"date":          formatDate,
	"add":           func(a, b int) int { return a + b },
}

var (
	htmlFuncs = htmltemplate.FuncMap(funcs)
	textFuncs = texttemplate.FuncMap(funcs)
)

// truncateWords keeps the first n words and appends an ellipsis when the
// input was longer.
func truncateWords(n int, s string) string {
	words := strings.Fields(s)
	if len(words) <= n {
		return s
	}
	return strings.Join(words[:n], " ") + " ..."
}

func truncateChars(n int, s string) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	if n <= 3 {
		return string(runes[:n])
	}
	return string(runes[:n-3]) + "..."
}

// pluralize returns "s" unless n is exactly 1.
func pluralize(n int) string {
	if n == 1 {
		return ""
	}
	return "s"
}

func defaultString(fallback, s string) string {
	if strings.TrimSpace(s) == "" {
		return fallback
	}
	return s
}

func formatDate(t time.Time) string {
	return t.Format("Jan 2, 2006")
}
