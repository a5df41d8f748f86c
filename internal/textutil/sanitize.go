package textutil

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// illegalNameRunes are rejected by at least one of the filesystems the
// library is likely to live on.
const illegalNameRunes = `<>:"/\|?*`

// SanitizeFileName makes name safe to use as a single file or folder name.
// Illegal and control characters are removed, whitespace runs collapse to a
// single space, trailing dots and spaces are trimmed, and the result is NFC
// normalized. SanitizeFileName(SanitizeFileName(s)) == SanitizeFileName(s).
func SanitizeFileName(name string) string {
	var b strings.Builder
	b.Grow(len(name))
	for _, r := range name {
		switch {
		case strings.ContainsRune(illegalNameRunes, r):
		case unicode.IsSpace(r):
			b.WriteByte(' ')
		case unicode.IsControl(r), r == unicode.ReplacementChar:
		default:
			b.WriteRune(r)
		}
	}
	collapsed := strings.Join(strings.Fields(b.String()), " ")
	collapsed = strings.TrimRight(collapsed, ". ")
	return norm.NFC.String(collapsed)
}

// FoldKey reduces a label to a comparison key: Unicode case folded with all
// whitespace removed, so "Current File Name" and " currentfilename" match.
func FoldKey(label string) string {
	compact := strings.Join(strings.Fields(label), "")
	return cases.Fold().String(norm.NFC.String(compact))
}
