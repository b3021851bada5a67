package filter

import (
	"strings"

	"github.com/amishk599/jobhydra/internal/model"
)

// Canonicalize strips everything from the first '?' onward. Two links that
// differ only in their query string name the same listing.
func Canonicalize(link string) string {
	link = strings.TrimSpace(link)
	if i := strings.IndexByte(link, '?'); i >= 0 {
		link = link[:i]
	}
	return link
}

// Stats counts what Merge dropped and why.
type Stats struct {
	Seen       int // raw candidates inspected
	Excluded   int // dropped by the title policy
	Duplicates int // dropped because the link was already known
	Invalid    int // dropped for an empty link
}

// Deduplicator filters candidates against persisted history and everything
// accepted earlier in the same run. It owns an in-memory seen set and does no I/O.
type Deduplicator struct {
	policy *TitlePolicy
	seen   map[string]struct{}
	stats  Stats
}

// NewDeduplicator seeds the seen set with the links already persisted.
func NewDeduplicator(policy *TitlePolicy, existing []string) *Deduplicator {
	d := &Deduplicator{
		policy: policy,
		seen:   make(map[string]struct{}, len(existing)),
	}
	for _, l := range existing {
		if c := Canonicalize(l); c != "" {
			d.seen[c] = struct{}{}
		}
	}
	return d
}

// Accept canonicalizes c and reports whether it is a new, allowed candidate.
// Accepted links are recorded immediately so later duplicates are caught.
func (d *Deduplicator) Accept(c *model.Candidate) bool {
	d.stats.Seen++
	link := Canonicalize(c.RawLink)
	if link == "" {
		d.stats.Invalid++
		return false
	}
	if d.policy != nil && d.policy.Excluded(*c) {
		d.stats.Excluded++
		return false
	}
	if _, ok := d.seen[link]; ok {
		d.stats.Duplicates++
		return false
	}
	c.Link = link
	d.seen[link] = struct{}{}
	return true
}

// Merge flattens batches in order and keeps the first occurrence of each link.
func (d *Deduplicator) Merge(batches [][]model.Candidate) []model.Candidate {
	var out []model.Candidate
	for _, batch := range batches {
		for _, c := range batch {
			if d.Accept(&c) {
				out = append(out, c)
			}
		}
	}
	return out
}

// Stats returns the running counters.
func (d *Deduplicator) Stats() Stats {
	return d.stats
}
