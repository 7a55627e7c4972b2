package jmdict

// Stats accumulates counters over a single parse run. EntriesSeen counts
// every entry element encountered; EntriesParsed counts those returned to
// the caller; the difference is the Rejected list.
type Stats struct {
	EntriesSeen   int
	EntriesParsed int
	Rejected      []RejectedEntry
}

// RejectedEntry identifies an entry excluded from a build and why. RawSeq
// holds the sequence-id text exactly as it appeared in the source, empty
// when the element itself was missing.
type RejectedEntry struct {
	RawSeq string
	Reason error
}
