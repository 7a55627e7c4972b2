package domain

// Entry is one dictionary headword unit: a stable sequence id plus the
// readings, kanji forms, and senses attached to it in source document order.
// Entries are built in bulk and immutable once persisted.
type Entry struct {
	SeqID      int64
	Readings   []Reading
	KanjiForms []KanjiForm
	Senses     []Sense
}

// Validate checks the invariants an entry must hold before it may be
// persisted: a positive sequence id and at least one reading. A missing
// kanji form list is fine, kana-only words exist.
func (e *Entry) Validate() error {
	var errs []FieldError
	if e.SeqID <= 0 {
		errs = append(errs, FieldError{Field: "seq_id", Message: "required"})
	}
	if len(e.Readings) == 0 {
		errs = append(errs, FieldError{Field: "readings", Message: "at least one required"})
	}
	if len(errs) > 0 {
		return NewValidationErrors(errs)
	}
	return nil
}

// Reading is a phonetic-script rendering of an entry (JMdict reb).
type Reading struct {
	SeqID    int64
	Text     string
	Position int
}

// KanjiForm is a logographic-script rendering of an entry (JMdict keb).
type KanjiForm struct {
	SeqID    int64
	Text     string
	Position int
}

// Sense is one distinct meaning grouping within an entry, bundling glosses
// and part-of-speech tags.
//
// Senses with no part-of-speech tags are stored as-is. The JMdict
// convention lets a sense inherit tags from the previous sense of the same
// entry; no layer here applies that inheritance, callers that want it must
// walk the sense list themselves.
type Sense struct {
	ID       int64
	SeqID    int64
	Position int

	Glosses       []Gloss
	PartsOfSpeech []PartOfSpeech
}

// Gloss is a target-language translation string for a sense. Lang defaults
// to the build's configured target language when the source leaves the
// gloss unmarked.
type Gloss struct {
	SenseID  int64
	Text     string
	Lang     string
	Position int
}

// PartOfSpeech is a controlled-vocabulary grammatical tag attached to a
// sense, already expanded from its DTD entity form.
type PartOfSpeech struct {
	SenseID  int64
	Tag      string
	Position int
}
