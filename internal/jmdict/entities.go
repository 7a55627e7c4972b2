package jmdict

import "regexp"

// JMdict declares its controlled vocabulary as internal DTD entities
// (<!ENTITY n "noun (common) (futsuumeishi)">) and references them as the
// content of pos and similar elements. encoding/xml does not read the
// internal subset itself, so the declarations are harvested from the
// DOCTYPE directive and handed to Decoder.Entity before the first entry.
var entityPattern = regexp.MustCompile(`<!ENTITY\s+(\S+)\s+"([^"]*)"\s*>`)

// parseEntities extracts entity name/value pairs from a DOCTYPE directive.
// Directives without declarations yield an empty map.
func parseEntities(directive []byte) map[string]string {
	matches := entityPattern.FindAllSubmatch(directive, -1)
	if len(matches) == 0 {
		return nil
	}
	entities := make(map[string]string, len(matches))
	for _, m := range matches {
		entities[string(m[1])] = string(m[2])
	}
	return entities
}
