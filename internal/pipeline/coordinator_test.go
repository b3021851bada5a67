package pipeline

import (
	"context"
	"testing"
	"time"

	"github.com/amishk599/jobhydra/internal/model"
)

func newTestCoordinator(d Drafter, n model.Notifier, first int) *Coordinator {
	return NewCoordinator(d, n, NewCursor(first), DefaultDraftThreshold, fixedClock(), discardLogger())
}

func TestHandle_ThresholdGating(t *testing.T) {
	tests := []struct {
		name      string
		verdict   model.Verdict
		wantDraft bool
	}{
		{"both high", model.Verdict{MatchPercent: 90, Suitability: 90}, true},
		{"suitability low", model.Verdict{MatchPercent: 90, Suitability: 80}, false},
		{"match low", model.Verdict{MatchPercent: 84, Suitability: 99}, false},
		{"exactly threshold", model.Verdict{MatchPercent: 85, Suitability: 85}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			drafter := &recordingDrafter{letter: "Dear team"}
			notifier := &recordingNotifier{}
			c := newTestCoordinator(drafter, notifier, 2)

			rows := c.Handle(context.Background(), cands("SOC Intern"), []model.Verdict{tt.verdict})
			if len(rows) != 1 {
				t.Fatalf("rows = %d, want 1", len(rows))
			}
			if got := len(drafter.calls) == 1; got != tt.wantDraft {
				t.Errorf("drafted = %v, want %v", got, tt.wantDraft)
			}
			wantLetter := model.NoDraft
			if tt.wantDraft {
				wantLetter = "Dear team"
			}
			if got := rows[0].Values()[8]; got != wantLetter {
				t.Errorf("cover letter column = %q, want %q", got, wantLetter)
			}
			if notifier.alerts[0].HasDraft != tt.wantDraft {
				t.Errorf("alert HasDraft = %v, want %v", notifier.alerts[0].HasDraft, tt.wantDraft)
			}
		})
	}
}

func TestHandle_DraftFailureStoresPlaceholder(t *testing.T) {
	drafter := &recordingDrafter{fail: true}
	notifier := &recordingNotifier{}
	c := newTestCoordinator(drafter, notifier, 2)

	rows := c.Handle(context.Background(), cands("SOC Intern"), []model.Verdict{{MatchPercent: 95, Suitability: 95}})
	if rows[0].Values()[8] != model.NoDraft {
		t.Errorf("cover letter = %q, want %q", rows[0].Values()[8], model.NoDraft)
	}
	if notifier.alerts[0].HasDraft {
		t.Error("alert must not claim a draft")
	}
	if c.Drafts() != 0 {
		t.Errorf("Drafts() = %d, want 0", c.Drafts())
	}
}

func TestHandle_IDsFollowEmissionOrder(t *testing.T) {
	notifier := &recordingNotifier{}
	c := newTestCoordinator(nil, notifier, 5)

	chunk := cands("a", "b", "c")
	verdicts := []model.Verdict{
		{Index: 2, MatchPercent: 70, Suitability: 60},
		{Index: 0, MatchPercent: 80, Suitability: 75},
		{Index: 1, MatchPercent: 50, Suitability: 50},
	}
	rows := c.Handle(context.Background(), chunk, verdicts)

	wantTitles := []string{"c", "a", "b"}
	for i, want := range []int{5, 6, 7} {
		if rows[i].ID != want {
			t.Errorf("row %d id = %d, want %d", i, rows[i].ID, want)
		}
		if rows[i].Title != wantTitles[i] {
			t.Errorf("row %d title = %q, want %q", i, rows[i].Title, wantTitles[i])
		}
		if notifier.alerts[i].RowID != want {
			t.Errorf("alert %d id = %d, want %d", i, notifier.alerts[i].RowID, want)
		}
	}
	if notifier.alerts[0].AcceptToken() != "apply_5" || notifier.alerts[2].RejectToken() != "trash_7" {
		t.Errorf("tokens = %q %q", notifier.alerts[0].AcceptToken(), notifier.alerts[2].RejectToken())
	}
}

func TestHandle_RowLayout(t *testing.T) {
	c := newTestCoordinator(nil, &recordingNotifier{}, 2)
	rows := c.Handle(context.Background(), cands("SOC Intern"), []model.Verdict{{MatchPercent: 92, Suitability: 70.5}})

	want := []string{"New", "AI Match", "SOC Intern", "Unknown", "https://x.com/SOC Intern", "2026-03-04 05:06:07", "92%", "70.5%", "N/A"}
	got := rows[0].Values()
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("column %d = %q, want %q", i, got[i], want[i])
		}
	}
	if !rows[0].Timestamp.Equal(time.Date(2026, 3, 4, 5, 6, 7, 0, time.UTC)) {
		t.Errorf("timestamp = %v", rows[0].Timestamp)
	}
}

func TestHandle_NotifyErrorIsNotFatal(t *testing.T) {
	notifier := &recordingNotifier{err: errBoom}
	c := newTestCoordinator(nil, notifier, 1)

	rows := c.Handle(context.Background(), cands("a", "b"), []model.Verdict{{Index: 0}, {Index: 1}})
	if len(rows) != 2 {
		t.Fatalf("rows = %d, want 2", len(rows))
	}
	if len(notifier.alerts) != 2 {
		t.Errorf("alerts attempted = %d, want 2", len(notifier.alerts))
	}
}

func TestHandle_OutOfRangeIndexSkipped(t *testing.T) {
	c := newTestCoordinator(nil, &recordingNotifier{}, 3)
	rows := c.Handle(context.Background(), cands("a"), []model.Verdict{{Index: 4}, {Index: -1}, {Index: 0}})
	if len(rows) != 1 || rows[0].ID != 3 {
		t.Fatalf("rows = %+v", rows)
	}
}
