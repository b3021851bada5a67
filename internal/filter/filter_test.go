package filter

import (
	"testing"

	"github.com/amishk599/jobhydra/internal/model"
)

func cand(title string, kind model.SourceKind) model.Candidate {
	return model.Candidate{Title: title, RawLink: "https://x.com/" + title, Source: kind}
}

func TestTitlePolicy_Excluded(t *testing.T) {
	policy := NewTitlePolicy(
		[]string{"senior", "Manager"},
		map[model.SourceKind][]string{model.SourceFeed: {"head", "lead"}},
	)

	tests := []struct {
		name      string
		candidate model.Candidate
		want      bool
	}{
		{"senior in title", cand("Senior Security Analyst", model.SourceSearch), true},
		{"lowercase manager", cand("security manager", model.SourceSearch), true},
		{"uppercase keyword in title", cand("SOC MANAGER - Night Shift", model.SourceScrape), true},
		{"substring match", cand("Seniority-free Analyst", model.SourceSearch), true},
		{"analyst intern passes", cand("Security Analyst Intern", model.SourceSearch), false},
		{"lead only excluded for feed", cand("Team Lead SOC", model.SourceFeed), true},
		{"lead passes for search", cand("Team Lead SOC", model.SourceSearch), false},
		{"head of for feed", cand("Head of Security", model.SourceFeed), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := policy.Excluded(tt.candidate); got != tt.want {
				t.Errorf("Excluded(%q) = %v, want %v", tt.candidate.Title, got, tt.want)
			}
		})
	}
}

func TestTitlePolicy_EmptyListPassesAll(t *testing.T) {
	policy := NewTitlePolicy(nil, nil)
	if policy.Excluded(cand("Senior Manager", model.SourceFeed)) {
		t.Error("empty policy should exclude nothing")
	}
}
