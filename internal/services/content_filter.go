package services

import (
	"regexp"
	"strconv"
	"strings"
)

var BannedWords = []string{
	"fuck", "fucking", "fucker", "shit", "shitty", "bullshit",
	"asshole", "bastard", "bitch", "cunt",
	"nigger", "nigga", "chink", "spic", "kike", "faggot", "fag",
	"retard", "retarded", "tranny",
	"porn", "porno", "nude", "nudes",
	"scam", "scammer", "phishing", "malware",
}

const (
	RejectLanguage = "inappropriate_language"
	RejectURL      = "url_not_allowed"
	RejectSpam     = "spam_detected"
	RejectCaps     = "excessive_caps"
)

// ContentFilter screens user text posted to listings and chat.
type ContentFilter struct {
	bannedWords  []*regexp.Regexp
	url          *regexp.Regexp
	repeatedChar *regexp.Regexp
	allCaps      *regexp.Regexp
}

func NewContentFilter() *ContentFilter {
	f := &ContentFilter{
		bannedWords:  make([]*regexp.Regexp, 0, len(BannedWords)),
		url:          regexp.MustCompile(`(?i)(https?://\S+|www\.\S+\.\S+)`),
		repeatedChar: regexp.MustCompile(repeatedRunPattern("abcdefghijklmnopqrstuvwxyz!?.", 6)),
		allCaps:      regexp.MustCompile(`\b[A-Z]{5,}\b`),
	}
	for _, word := range BannedWords {
		f.bannedWords = append(f.bannedWords, regexp.MustCompile(`(?i)\b`+regexp.QuoteMeta(word)+`\b`))
	}
	return f
}

// repeatedRunPattern matches any of chars repeated at least n times.
func repeatedRunPattern(chars string, n int) string {
	alts := make([]string, 0, len(chars))
	for _, c := range chars {
		alts = append(alts, regexp.QuoteMeta(string(c))+"{"+strconv.Itoa(n)+",}")
	}
	return `(?i)(` + strings.Join(alts, "|") + `)`
}

// Check returns ok=false and a reason code when text should be rejected.
func (f *ContentFilter) Check(text string) (bool, string) {
	if strings.TrimSpace(text) == "" {
		return true, ""
	}
	for _, re := range f.bannedWords {
		if re.MatchString(text) {
			return false, RejectLanguage
		}
	}
	if f.url.MatchString(text) {
		return false, RejectURL
	}
	if f.repeatedChar.MatchString(text) {
		return false, RejectSpam
	}
	if len(f.allCaps.FindAllString(text, -1)) > 2 {
		return false, RejectCaps
	}
	return true, ""
}

func RejectionMessage(reason string) string {
	switch reason {
	case RejectLanguage:
		return "Your text contains inappropriate language."
	case RejectURL:
		return "Links are not allowed."
	case RejectSpam:
		return "Your text appears to be spam."
	case RejectCaps:
		return "Please avoid using excessive capital letters."
	}
	return "Your text does not meet our content guidelines."
}
