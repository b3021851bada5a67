package ai

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/amishk599/jobhydra/internal/model"
)

func chunkOf(titles ...string) []model.Candidate {
	out := make([]model.Candidate, len(titles))
	for i, t := range titles {
		out[i] = model.Candidate{Title: t, Snippet: "snippet for " + t, Link: "https://x.com/" + t}
	}
	return out
}

func TestClassify_PrimaryVerdicts(t *testing.T) {
	primary := &scriptedProvider{name: "gemini", response: `{"matches":[{"index":1,"match":91,"suitability":86}]}`}
	c := NewClassifier(NewFallback([]Provider{primary}, nil, discardLogger()), "SOC fresher", ClassifyTemplate, discardLogger())

	got := c.Classify(context.Background(), chunkOf("a", "b"))
	if len(got) != 1 || got[0].Index != 1 || got[0].MatchPercent != 91 {
		t.Fatalf("verdicts = %+v", got)
	}
}

func TestClassify_PromptEncodesProfileRulesAndJobs(t *testing.T) {
	primary := &scriptedProvider{name: "gemini", response: `{"matches":[]}`}
	c := NewClassifier(primary, "Fresher SOC Analyst, Python", ClassifyTemplate, discardLogger())

	c.Classify(context.Background(), chunkOf("Security Analyst Intern", "VAPT Trainee"))

	prompt := primary.prompts[0]
	for _, want := range []string{
		"Fresher SOC Analyst, Python",
		"REJECT senior",
		"sales",
		"ACCEPT analyst, intern",
		"fresher",
		`"match"`,
		`"suitability"`,
		"[0] Security Analyst Intern | snippet for Security Analyst Intern",
		"[1] VAPT Trainee",
	} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
}

func TestClassify_FallbackInvokedOnceThenZeroMatches(t *testing.T) {
	primary := &scriptedProvider{name: "gemini", err: errors.New("transport")}
	secondary := &scriptedProvider{name: "groq", err: errors.New("quota")}
	c := NewClassifier(NewFallback([]Provider{primary, secondary}, nil, discardLogger()), "p", ClassifyTemplate, discardLogger())

	got := c.Classify(context.Background(), chunkOf("a", "b", "c"))
	if len(got) != 0 {
		t.Fatalf("verdicts = %+v, want none", got)
	}
	if secondary.calls != 1 {
		t.Errorf("secondary calls = %d, want 1", secondary.calls)
	}
}

func TestClassify_UnparseableIsZeroMatches(t *testing.T) {
	primary := &scriptedProvider{name: "gemini", response: "I think job 0 looks good"}
	c := NewClassifier(primary, "p", ClassifyTemplate, discardLogger())

	if got := c.Classify(context.Background(), chunkOf("a")); len(got) != 0 {
		t.Fatalf("verdicts = %+v, want none", got)
	}
}

func TestClassify_EmptyChunkSkipsProvider(t *testing.T) {
	primary := &scriptedProvider{name: "gemini"}
	c := NewClassifier(primary, "p", ClassifyTemplate, discardLogger())
	c.Classify(context.Background(), nil)
	if primary.calls != 0 {
		t.Errorf("calls = %d, want 0", primary.calls)
	}
}

func TestClassify_TruncatesLongText(t *testing.T) {
	primary := &scriptedProvider{name: "gemini", response: `{"matches":[]}`}
	c := NewClassifier(primary, "p", ClassifyTemplate, discardLogger())
	long := model.Candidate{Title: "t", FullText: strings.Repeat("x", 5000)}

	c.Classify(context.Background(), []model.Candidate{long})
	if strings.Count(primary.prompts[0], "x") > maxJobText+10 {
		t.Errorf("prompt was not truncated")
	}
}

func TestClassify_UnparseablePrimaryUsesSecondary(t *testing.T) {
	primary := &scriptedProvider{name: "gemini", response: "Job 0 is a match."}
	secondary := &scriptedProvider{name: "groq", response: `Sure: {"matches":[{"index":0,"match":88,"suitability":90}]}`}
	c := NewClassifier(NewFallback([]Provider{primary, secondary}, nil, discardLogger()), "p", ClassifyTemplate, discardLogger())

	got := c.Classify(context.Background(), chunkOf("a"))
	if len(got) != 1 || got[0].Suitability != 90 {
		t.Fatalf("verdicts = %+v", got)
	}
	if primary.calls != 1 || secondary.calls != 1 {
		t.Errorf("calls = %d/%d, want 1/1", primary.calls, secondary.calls)
	}
}
