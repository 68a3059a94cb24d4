package segment

import (
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"
)

var (
	// Bullet dots, middle dots, closing smart quotes and en-dashes show up as
	// list markers and ligature debris in extracted PDF text.
	markerRE     = regexp.MustCompile(`[\x{2022}\x{00B7}\x{2019}\x{2013}]\s*`)
	whitespaceRE = regexp.MustCompile(`\s+`)
)

// Normalize canonicalizes an extracted text span: NFKC composition, removal
// of decorative glyphs and list markers, whitespace collapse, trim. Total over
// any input (empty in, empty out) and idempotent.
func Normalize(raw string) string {
	s := norm.NFKC.String(raw)
	s = markerRE.ReplaceAllString(s, "")
	s = whitespaceRE.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}
