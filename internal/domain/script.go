package domain

// CJK Unified Ideographs block.
const (
	kanjiLo rune = 0x4E00
	kanjiHi rune = 0x9FFF
)

// ContainsKanji reports whether s contains at least one CJK unified
// ideograph. It is a routing heuristic for choosing between reading and
// kanji-form lookups, not an authoritative script detector: real terms mix
// scripts freely (okurigana, katakana suffixes), so a true result only
// means a kanji-form lookup is the better first try.
func ContainsKanji(s string) bool {
	for _, r := range s {
		if r >= kanjiLo && r <= kanjiHi {
			return true
		}
	}
	return false
}
