package match

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// noiseWords are promotional, channel and release-descriptor tokens that
// carry no identity information. Matched as whole words, case-insensitively.
// Build-time constant, not runtime configuration.
var noiseWords = []string{
	"official", "officiel", "video", "audio", "lyric", "lyrics", "lyrical",
	"visualizer", "visualiser", "hd", "hq", "4k", "mv", "m/v",
	"remaster", "remastered", "live", "session", "sessions",
	"feat", "featuring", "ft", "prod", "premiere", "explicit", "clean",
	"vevo", "topic", "records", "recordings", "entertainment",
	"full", "version", "original", "extended",
}

var (
	bracketGroupRe = regexp.MustCompile(`\([^)]*\)|\[[^\]]*\]|\{[^}]*\}`)
	quotedGroupRe  = regexp.MustCompile("“[^”]*”|‘[^’]*’|\"[^\"]*\"")
	whitespaceRe   = regexp.MustCompile(`\s+`)
	noiseWordRe    = regexp.MustCompile(`(?i)\b(?:` + strings.Join(noiseWords, "|") + `)\b`)

	titleCaser = cases.Title(language.Und)
)

// NormalizeTrackName strips the noise a video title accumulates around a song
// title: bracketed and quoted groups, promotional tokens, punctuation. The
// result is lower-case with single spaces between words. Pure function;
// idempotent. May return an empty string when the input is all noise.
func NormalizeTrackName(s string) string {
	return normalize(s)
}

// NormalizeArtistName cleans an artist or channel name the same way as
// NormalizeTrackName and then title-cases each remaining word.
func NormalizeArtistName(s string) string {
	return titleCaser.String(normalize(s))
}

func normalize(s string) string {
	s = strings.ToLower(s)
	s = bracketGroupRe.ReplaceAllString(s, " ")
	s = quotedGroupRe.ReplaceAllString(s, " ")
	s = noiseWordRe.ReplaceAllString(s, " ")
	s = stripSymbols(s)
	s = whitespaceRe.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// stripSymbols drops every rune that is neither a letter, a digit, nor
// whitespace. Unicode-aware so non-Latin scripts survive.
func stripSymbols(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsSpace(r) {
			return r
		}
		return ' '
	}, s)
}

var creditSeparatorRe = regexp.MustCompile(`(?i)\s*(?:,|;|&|\+|\b(?:feat|ft|vs)\b\.?|\bfeaturing\b|\sx\s|\sand\s)\s*`)

// SplitArtistCredits splits a free-text artist credit line such as
// "DJ Alpha feat. MC Beta & Gamma" into individual names, preserving order.
// Returns nil when nothing usable remains.
func SplitArtistCredits(s string) []string {
	parts := creditSeparatorRe.Split(s, -1)
	var credits []string
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			credits = append(credits, p)
		}
	}
	return credits
}
