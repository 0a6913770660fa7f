package recommend

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/mintwell/mintwell/internal/catalog"
	"github.com/mintwell/mintwell/internal/model"
)

var placeholderRe = regexp.MustCompile(`\{([a-z0-9_]+)\}`)

// bindTemplate fills every {field} placeholder from the SignalSet. It reports
// ok=false when any placeholder cannot be bound; a template is never emitted
// with a literal placeholder left in place.
func bindTemplate(template string, sig *model.SignalSet) (string, bool) {
	bound := template
	for _, match := range placeholderRe.FindAllStringSubmatch(template, -1) {
		formatted, ok := catalog.FormatField(match[1], sig)
		if !ok {
			return "", false
		}
		bound = strings.ReplaceAll(bound, match[0], formatted)
	}
	return bound, true
}

// bindFirst walks the entry's ordered templates and returns the first one
// that binds completely.
func bindFirst(templates []string, sig *model.SignalSet) (string, bool) {
	for _, tmpl := range templates {
		if bound, ok := bindTemplate(tmpl, sig); ok {
			return bound, true
		}
	}
	return "", false
}

// citesNumber reports whether text contains at least one numeric token, the
// minimum bar for a rationale to count as citing concrete data.
func citesNumber(text string) bool {
	for _, r := range text {
		if unicode.IsDigit(r) {
			return true
		}
	}
	return false
}

// hasPlaceholderArtifact reports whether text still contains an unbound
// placeholder.
func hasPlaceholderArtifact(text string) bool {
	return placeholderRe.MatchString(text)
}
