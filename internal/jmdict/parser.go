// Package jmdict streams dictionary entries out of a JMdict XML document.
//
// The corpus is large (hundreds of thousands of entry elements), so the
// parser never materializes the document tree: it walks the token stream,
// accumulates exactly one entry at a time, and hands it over before moving
// on. Only the element subset below is recognized; everything else is
// skipped without error:
//
//	entry > ent_seq
//	entry > r_ele > reb
//	entry > k_ele > keb
//	entry > sense > pos | gloss
//
// Senses that carry no pos tags are returned as-is; the JMdict convention
// of inheriting tags from the previous sense is deliberately not applied
// here (see domain.Sense).
package jmdict

import (
	"encoding/xml"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/heartmarshall/jmdict-store/internal/domain"
)

// DefaultGlossLang is recorded for glosses the source leaves unmarked.
// JMdict tags only non-English glosses with xml:lang.
const DefaultGlossLang = "eng"

// Element names recognized by the parser.
const (
	elemEntry = "entry"
	elemSeq   = "ent_seq"
	elemREle  = "r_ele"
	elemReb   = "reb"
	elemKEle  = "k_ele"
	elemKeb   = "keb"
	elemSense = "sense"
	elemPos   = "pos"
	elemGloss = "gloss"
)

// SourceFormatError reports markup the decoder cannot recover from: a
// stream broken at the token level stays broken, so a build aborts on it.
type SourceFormatError struct {
	Err error
}

func (e *SourceFormatError) Error() string {
	return fmt.Sprintf("source format: %v", e.Err)
}

func (e *SourceFormatError) Unwrap() error { return e.Err }

// Parser is a pull parser over one JMdict document. It is not safe for
// concurrent use; a build runs a single parser over a single stream.
type Parser struct {
	dec       *xml.Decoder
	glossLang string
	stats     Stats
}

// NewParser creates a parser reading from r. glossLang is recorded on
// glosses without an explicit language; empty means DefaultGlossLang.
func NewParser(r io.Reader, glossLang string) *Parser {
	if glossLang == "" {
		glossLang = DefaultGlossLang
	}
	dec := xml.NewDecoder(r)
	dec.Entity = map[string]string{}
	return &Parser{dec: dec, glossLang: glossLang}
}

// Stats returns the counters accumulated so far. The rejected list is
// complete only once Next has returned io.EOF.
func (p *Parser) Stats() Stats {
	return p.stats
}

// Next returns the next valid entry in document order. Entries that fail
// validation (missing or unparseable sequence id, zero readings) are
// recorded in Stats and skipped, never returned. io.EOF signals a clean
// end of the stream; any other error is a *SourceFormatError and the
// parser must be abandoned.
func (p *Parser) Next() (domain.Entry, error) {
	for {
		tok, err := p.dec.Token()
		if err == io.EOF {
			return domain.Entry{}, io.EOF
		}
		if err != nil {
			return domain.Entry{}, &SourceFormatError{Err: err}
		}

		switch t := tok.(type) {
		case xml.Directive:
			for name, value := range parseEntities(t) {
				p.dec.Entity[name] = value
			}
		case xml.StartElement:
			if t.Name.Local != elemEntry {
				// Root element or unknown wrapper: descend, entries may
				// be anywhere below.
				continue
			}
			p.stats.EntriesSeen++

			entry, rawSeq, err := p.parseEntry()
			if err != nil {
				return domain.Entry{}, &SourceFormatError{Err: err}
			}
			if vErr := entry.Validate(); vErr != nil {
				p.stats.Rejected = append(p.stats.Rejected, RejectedEntry{
					RawSeq: rawSeq,
					Reason: vErr,
				})
				continue
			}

			fillSeqRefs(&entry)
			p.stats.EntriesParsed++
			return entry, nil
		}
	}
}

// parseEntry consumes tokens from just after <entry> through </entry>,
// accumulating recognized children in document order. The raw sequence-id
// text is returned separately so rejections can report it even when it
// does not parse as an integer.
func (p *Parser) parseEntry() (domain.Entry, string, error) {
	var (
		entry  domain.Entry
		rawSeq string
	)
	for {
		tok, err := p.dec.Token()
		if err != nil {
			return domain.Entry{}, rawSeq, err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case elemSeq:
				rawSeq, err = p.elementText()
				if err != nil {
					return domain.Entry{}, rawSeq, err
				}
				if seq, convErr := strconv.ParseInt(rawSeq, 10, 64); convErr == nil {
					entry.SeqID = seq
				}
			case elemREle:
				if err := p.parseReading(&entry); err != nil {
					return domain.Entry{}, rawSeq, err
				}
			case elemKEle:
				if err := p.parseKanjiForm(&entry); err != nil {
					return domain.Entry{}, rawSeq, err
				}
			case elemSense:
				if err := p.parseSense(&entry); err != nil {
					return domain.Entry{}, rawSeq, err
				}
			default:
				if err := p.dec.Skip(); err != nil {
					return domain.Entry{}, rawSeq, err
				}
			}
		case xml.EndElement:
			// Child parsers consume their own end tags, so this one
			// closes the entry itself.
			return entry, rawSeq, nil
		}
	}
}

// parseReading consumes an r_ele block, appending one Reading per reb.
func (p *Parser) parseReading(entry *domain.Entry) error {
	for {
		tok, err := p.dec.Token()
		if err != nil {
			return err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			if t.Name.Local != elemReb {
				if err := p.dec.Skip(); err != nil {
					return err
				}
				continue
			}
			text, err := p.elementText()
			if err != nil {
				return err
			}
			if text != "" {
				entry.Readings = append(entry.Readings, domain.Reading{
					Text:     text,
					Position: len(entry.Readings),
				})
			}
		case xml.EndElement:
			return nil
		}
	}
}

// parseKanjiForm consumes a k_ele block, appending one KanjiForm per keb.
func (p *Parser) parseKanjiForm(entry *domain.Entry) error {
	for {
		tok, err := p.dec.Token()
		if err != nil {
			return err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			if t.Name.Local != elemKeb {
				if err := p.dec.Skip(); err != nil {
					return err
				}
				continue
			}
			text, err := p.elementText()
			if err != nil {
				return err
			}
			if text != "" {
				entry.KanjiForms = append(entry.KanjiForms, domain.KanjiForm{
					Text:     text,
					Position: len(entry.KanjiForms),
				})
			}
		case xml.EndElement:
			return nil
		}
	}
}

// parseSense consumes a sense block. Glosses without an xml:lang attribute
// get the parser's configured language.
func (p *Parser) parseSense(entry *domain.Entry) error {
	sense := domain.Sense{Position: len(entry.Senses)}
	for {
		tok, err := p.dec.Token()
		if err != nil {
			return err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case elemPos:
				text, err := p.elementText()
				if err != nil {
					return err
				}
				if text != "" {
					sense.PartsOfSpeech = append(sense.PartsOfSpeech, domain.PartOfSpeech{
						Tag:      text,
						Position: len(sense.PartsOfSpeech),
					})
				}
			case elemGloss:
				lang := p.glossLang
				for _, attr := range t.Attr {
					if attr.Name.Local == "lang" && attr.Value != "" {
						lang = attr.Value
					}
				}
				text, err := p.elementText()
				if err != nil {
					return err
				}
				if text != "" {
					sense.Glosses = append(sense.Glosses, domain.Gloss{
						Text:     text,
						Lang:     lang,
						Position: len(sense.Glosses),
					})
				}
			default:
				if err := p.dec.Skip(); err != nil {
					return err
				}
			}
		case xml.EndElement:
			entry.Senses = append(entry.Senses, sense)
			return nil
		}
	}
}

// elementText collects the character data of the element whose start tag
// was just consumed, through its end tag. Nested elements are skipped.
func (p *Parser) elementText() (string, error) {
	var sb strings.Builder
	for {
		tok, err := p.dec.Token()
		if err != nil {
			return "", err
		}
		switch t := tok.(type) {
		case xml.CharData:
			sb.Write(t)
		case xml.StartElement:
			if err := p.dec.Skip(); err != nil {
				return "", err
			}
		case xml.EndElement:
			return strings.TrimSpace(sb.String()), nil
		}
	}
}

// fillSeqRefs stamps the entry's sequence id onto every child record.
// Children are accumulated before ent_seq is guaranteed to have been seen,
// so back-references are set once the entry is complete.
func fillSeqRefs(entry *domain.Entry) {
	for i := range entry.Readings {
		entry.Readings[i].SeqID = entry.SeqID
	}
	for i := range entry.KanjiForms {
		entry.KanjiForms[i].SeqID = entry.SeqID
	}
	for i := range entry.Senses {
		entry.Senses[i].SeqID = entry.SeqID
	}
}
