package textclean

import (
	"regexp"
	"strings"
	"unicode"
)

// CleanSkillText lowercases text for skill matching while keeping technical
// punctuation such as "c++", "node.js" and "asp.net". A symbol that touches
// a '+' or '.' is kept too.
func CleanSkillText(text string) string {
	if text == "" {
		return ""
	}
	runes := []rune(strings.TrimSpace(strings.ToLower(text)))
	var b strings.Builder
	for i, r := range runes {
		if keepSkillRune(r) {
			b.WriteRune(r)
			continue
		}
		prevTech := i > 0 && isTechMark(runes[i-1])
		nextTech := i+1 < len(runes) && isTechMark(runes[i+1])
		if prevTech || nextTech {
			b.WriteRune(r)
			continue
		}
		b.WriteByte(' ')
	}
	return reSpaces.ReplaceAllString(b.String(), " ")
}

func keepSkillRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' || unicode.IsSpace(r) ||
		r == '+' || r == '.' || r == '-'
}

func isTechMark(r rune) bool { return r == '+' || r == '.' }

var noisePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\b(resume|curriculum vitae|cv|page \d+)\b`),
	regexp.MustCompile(`(?i)\b(references available upon request)\b`),
	regexp.MustCompile(`(?i)\b(confidential|private|personal)\b`),
	regexp.MustCompile(`(?i)\b(january|february|march|april|may|june|july|august|september|october|november|december)\b`),
	regexp.MustCompile(`(?i)\b(mon|tue|wed|thu|fri|sat|sun)\b`),
	regexp.MustCompile(`(?i)\b(mr|mrs|ms|dr|prof)\b`),
}

// RemoveNoiseWords drops resume boilerplate: document labels, page
// markers, month and weekday names, and honorifics.
func RemoveNoiseWords(text string) string {
	for _, p := range noisePatterns {
		text = p.ReplaceAllString(text, "")
	}
	return text
}
