package guardrail

import "regexp"

// toneRule is one deny-list entry. Rules with a replacement are substituted
// with the neutral equivalent; rules without one force rejection of the
// draft. Matching is case-insensitive and never a silent pass-through.
type toneRule struct {
	pattern     *regexp.Regexp
	replacement string
}

var toneRules = []toneRule{
	{
		pattern:     regexp.MustCompile(`(?i)you('re| are) overspending`),
		replacement: "your spending is running ahead of plan",
	},
	{
		pattern:     regexp.MustCompile(`(?i)you('re| are) wasting money`),
		replacement: "some of this spending may not be delivering value",
	},
	{
		pattern:     regexp.MustCompile(`(?i)\bbad with money\b`),
		replacement: "still building money habits",
	},
	{
		pattern:     regexp.MustCompile(`(?i)\birresponsible spending\b`),
		replacement: "spending above plan",
	},
	// No neutral equivalent exists for outright shaming; these reject.
	{pattern: regexp.MustCompile(`(?i)you should be ashamed`)},
	{pattern: regexp.MustCompile(`(?i)\b(shameful|disgraceful)\b`)},
	{pattern: regexp.MustCompile(`(?i)\b(lazy|foolish|stupid|reckless)\b`)},
	{pattern: regexp.MustCompile(`(?i)only yourself to blame`)},
	{pattern: regexp.MustCompile(`(?i)\bfinancial failure\b`)},
}

// toneResult reports the outcome of scanning one piece of text.
type toneResult struct {
	text        string
	matched     string // the offending phrase, empty when clean
	substituted bool
	rejected    bool
}

// scanTone applies the deny-list to text. Substitutable matches are replaced
// with their neutral equivalent; any match without a replacement rejects.
func scanTone(text string) toneResult {
	result := toneResult{text: text}
	for _, rule := range toneRules {
		match := rule.pattern.FindString(result.text)
		if match == "" {
			continue
		}
		if rule.replacement == "" {
			result.matched = match
			result.rejected = true
			return result
		}
		result.text = rule.pattern.ReplaceAllString(result.text, rule.replacement)
		result.matched = match
		result.substituted = true
	}
	return result
}
