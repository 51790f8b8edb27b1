package taxonomy

import (
	"strings"

	ahocorasick "github.com/petar-dambovaliev/aho-corasick"
)

// Classifier maps free-text category tags (and optionally review
// texts) to exactly one taxonomy label. Deterministic: the lowest
// table index with any keyword hit wins, so repeated calls with the
// same input always yield the same label.
type Classifier struct {
	entries     []Entry
	ac          ahocorasick.AhoCorasick
	entryFor    []int // pattern index -> entry index
	scanReviews bool
}

// Option configures a Classifier.
type Option func(*Classifier)

// WithReviewScan makes Classify also look for keywords inside review
// texts, not just category tags.
func WithReviewScan() Option {
	return func(c *Classifier) { c.scanReviews = true }
}

// NewClassifier compiles the keyword automaton once for the given
// table. The table is not copied; callers must not mutate it.
func NewClassifier(entries []Entry, opts ...Option) *Classifier {
	c := &Classifier{entries: entries}
	for _, opt := range opts {
		opt(c)
	}

	patterns := make([]string, 0, len(entries)*4)
	for i, e := range entries {
		for range e.Keywords {
			c.entryFor = append(c.entryFor, i)
		}
		patterns = append(patterns, e.Keywords...)
	}

	builder := ahocorasick.NewAhoCorasickBuilder(ahocorasick.Opts{
		AsciiCaseInsensitive: true,
		MatchOnlyWholeWords:  false,
		// Leftmost-longest so "barbecue" is not shadowed by "bar".
		MatchKind:            ahocorasick.LeftMostLongestMatch,
		DFA:                  true,
	})
	c.ac = builder.Build(patterns)
	return c
}

// Classify returns the first table label with a keyword hit in any
// tag, or in any review text when review scanning is enabled, and
// UnknownLabel when nothing matches.
func (c *Classifier) Classify(tags []string, reviewTexts []string) string {
	best := len(c.entries)

	for _, tag := range tags {
		best = c.scan(normalizeTag(tag), best)
	}
	if c.scanReviews {
		for _, text := range reviewTexts {
			best = c.scan(text, best)
		}
	}

	if best == len(c.entries) {
		return UnknownLabel
	}
	return c.entries[best].Label
}

// normalizeTag rewrites upstream type tags like "ice_cream_shop" into
// space-joined text so multi-word keywords can match them.
func normalizeTag(tag string) string {
	return strings.ReplaceAll(tag, "_", " ")
}

// scan folds the automaton hits for one haystack into the current
// best (lowest) entry index.
func (c *Classifier) scan(haystack string, best int) int {
	if best == 0 {
		return 0
	}
	for _, m := range c.ac.FindAll(haystack) {
		if idx := c.entryFor[m.Pattern()]; idx < best {
			best = idx
			if best == 0 {
				break
			}
		}
	}
	return best
}

// Labels returns the table's labels in declaration order.
func (c *Classifier) Labels() []string {
	labels := make([]string, len(c.entries))
	for i, e := range c.entries {
		labels[i] = e.Label
	}
	return labels
}
