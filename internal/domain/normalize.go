package domain

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// NormalizeTerm prepares a lookup term for exact matching against stored
// text: surrounding whitespace is trimmed and the string is brought to
// Unicode NFC, the form the source corpus ships in. Decomposed input shows
// up in practice (macOS file dialogs, some IMEs) and would never match
// otherwise. Case is untouched; Japanese has none.
func NormalizeTerm(term string) string {
	return norm.NFC.String(strings.TrimSpace(term))
}
