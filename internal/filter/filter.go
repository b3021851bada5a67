package filter

import (
	"strings"

	"github.com/amishk599/jobhydra/internal/model"
)

// TitlePolicy rejects candidates whose title contains any stoplisted keyword.
// Matching is a case-insensitive substring test. Some source kinds carry
// extra keywords on top of the base list.
type TitlePolicy struct {
	exclude []string
	perKind map[model.SourceKind][]string
}

// NewTitlePolicy returns a policy with a base stoplist and per-kind extras.
func NewTitlePolicy(exclude []string, perKind map[model.SourceKind][]string) *TitlePolicy {
	p := &TitlePolicy{
		exclude: lowerAll(exclude),
		perKind: make(map[model.SourceKind][]string, len(perKind)),
	}
	for kind, kws := range perKind {
		p.perKind[kind] = lowerAll(kws)
	}
	return p
}

// Excluded reports whether the candidate's title hits the stoplist.
func (p *TitlePolicy) Excluded(c model.Candidate) bool {
	title := strings.ToLower(c.Title)
	if containsAny(title, p.exclude) {
		return true
	}
	return containsAny(title, p.perKind[c.Source])
}

func containsAny(s string, keywords []string) bool {
	for _, kw := range keywords {
		if kw != "" && strings.Contains(s, kw) {
			return true
		}
	}
	return false
}

func lowerAll(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		out = append(out, strings.ToLower(strings.TrimSpace(s)))
	}
	return out
}
