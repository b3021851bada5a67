package model

import (
	"context"
	"fmt"
	"strconv"
	"time"
)

const (
	StatusNew          = "New"
	LabelAIMatch       = "AI Match"
	CompanyPlaceholder = "Unknown"
	NoDraft            = "N/A"

	// TimestampLayout is the layout of the timestamp column.
	TimestampLayout = "2006-01-02 15:04:05"
)

// Verdict is one provider judgement for a candidate. Index is local to the
// chunk that was classified, not to the whole run.
type Verdict struct {
	Index        int
	MatchPercent float64 // relevance of the skills match, 0-100
	Suitability  float64 // likelihood of an entry-level hire, 0-100
}

// Row is one persisted match. ID is the correlation id that was embedded in
// the notification and is expected to equal the row's physical position in
// the sink once appended.
type Row struct {
	ID           int
	Status       string
	Label        string
	Title        string
	Company      string
	Link         string
	Timestamp    time.Time
	MatchPercent float64
	Suitability  float64
	CoverLetter  string
}

// Values returns the fixed, order-significant column layout of a row.
func (r Row) Values() []string {
	letter := r.CoverLetter
	if letter == "" {
		letter = NoDraft
	}
	return []string{
		r.Status,
		r.Label,
		r.Title,
		r.Company,
		r.Link,
		r.Timestamp.Format(TimestampLayout),
		Percent(r.MatchPercent),
		Percent(r.Suitability),
		letter,
	}
}

// Percent formats a 0-100 score as a percentage string, e.g. "92%".
func Percent(score float64) string {
	return strconv.FormatFloat(score, 'f', -1, 64) + "%"
}

// History is the persisted state read once at the start of a run.
type History struct {
	Links    []string // canonical links already stored
	RowCount int      // rows currently occupied in the sink (header included, if any)
}

// NextRow is the correlation id the next appended row will receive.
func (h History) NextRow() int {
	return h.RowCount + 1
}

// Sink is the durable, append-only store of matches.
type Sink interface {
	LoadHistory(ctx context.Context) (History, error)
	Append(ctx context.Context, rows []Row) error
}

// Alert is a formatted notification for one accepted match.
type Alert struct {
	RowID        int
	Title        string
	Link         string
	MatchPercent float64
	Suitability  float64
	HasDraft     bool
	Source       SourceKind
}

// AcceptToken is the opaque callback token of the "apply" affordance.
func (a Alert) AcceptToken() string { return fmt.Sprintf("apply_%d", a.RowID) }

// RejectToken is the opaque callback token of the "trash" affordance.
func (a Alert) RejectToken() string { return fmt.Sprintf("trash_%d", a.RowID) }

// Notifier delivers alerts. Delivery is fire-and-forget for the pipeline:
// a returned error is logged, never propagated.
type Notifier interface {
	Notify(ctx context.Context, alert Alert) error
}
