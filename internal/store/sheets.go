// Package store implements the durable sinks that matches are appended to.
package store

import (
	"context"
	"errors"
	"fmt"

	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"github.com/amishk599/jobhydra/internal/model"
)

// linkColumn is the column holding canonical links; rowColumn is counted to
// find the next free row.
const (
	linkColumn = "E"
	rowColumn  = "A"
)

// SheetsSink appends matches to a Google Sheets worksheet whose first row is
// a header. The correlation id of a row is its physical row number, so
// nothing else may write to the sheet between LoadHistory and Append.
type SheetsSink struct {
	svc           *sheets.Service
	spreadsheetID string
	sheet         string
}

var _ model.Sink = (*SheetsSink)(nil)

// SheetsConfig locates the worksheet and the service-account credentials.
type SheetsConfig struct {
	SpreadsheetID   string
	Sheet           string
	CredentialsJSON string // service-account key contents
	CredentialsFile string // used when CredentialsJSON is empty
}

// OpenSheets creates a sink authenticated with a service account.
func OpenSheets(ctx context.Context, cfg SheetsConfig, opts ...option.ClientOption) (*SheetsSink, error) {
	if cfg.SpreadsheetID == "" {
		return nil, errors.New("opening sheets sink: spreadsheet id is required")
	}
	switch {
	case cfg.CredentialsJSON != "":
		opts = append(opts, option.WithCredentialsJSON([]byte(cfg.CredentialsJSON)))
	case cfg.CredentialsFile != "":
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsFile))
	case len(opts) == 0:
		return nil, errors.New("opening sheets sink: service-account credentials are required")
	}
	opts = append(opts, option.WithScopes(sheets.SpreadsheetsScope))

	svc, err := sheets.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("opening sheets sink: %w", err)
	}
	return NewSheetsSink(svc, cfg.SpreadsheetID, cfg.Sheet), nil
}

// NewSheetsSink wraps an existing service. An empty sheet name targets the
// first worksheet.
func NewSheetsSink(svc *sheets.Service, spreadsheetID, sheet string) *SheetsSink {
	return &SheetsSink{svc: svc, spreadsheetID: spreadsheetID, sheet: sheet}
}

func (s *SheetsSink) rangeOf(a1 string) string {
	if s.sheet == "" {
		return a1
	}
	return fmt.Sprintf("'%s'!%s", s.sheet, a1)
}

// LoadHistory reads the link column (skipping the header) and the number of
// occupied rows (header included).
func (s *SheetsSink) LoadHistory(ctx context.Context) (model.History, error) {
	resp, err := s.svc.Spreadsheets.Values.BatchGet(s.spreadsheetID).
		Ranges(s.rangeOf(linkColumn+":"+linkColumn), s.rangeOf(rowColumn+":"+rowColumn)).
		MajorDimension("COLUMNS").
		Context(ctx).
		Do()
	if err != nil {
		return model.History{}, fmt.Errorf("reading sheet %s: %w", s.spreadsheetID, err)
	}
	if len(resp.ValueRanges) != 2 {
		return model.History{}, fmt.Errorf("reading sheet %s: got %d ranges, want 2", s.spreadsheetID, len(resp.ValueRanges))
	}

	var h model.History
	links := firstColumn(resp.ValueRanges[0])
	if len(links) > 1 {
		for _, v := range links[1:] {
			if l, ok := v.(string); ok && l != "" {
				h.Links = append(h.Links, l)
			}
		}
	}
	h.RowCount = len(firstColumn(resp.ValueRanges[1]))
	return h, nil
}

func firstColumn(vr *sheets.ValueRange) []any {
	if vr == nil || len(vr.Values) == 0 {
		return nil
	}
	return vr.Values[0]
}

// Append writes rows after the last occupied row, in order, in one request.
func (s *SheetsSink) Append(ctx context.Context, rows []model.Row) error {
	values := make([][]any, len(rows))
	for i, r := range rows {
		cols := r.Values()
		values[i] = make([]any, len(cols))
		for j, c := range cols {
			values[i][j] = c
		}
	}

	_, err := s.svc.Spreadsheets.Values.Append(s.spreadsheetID, s.rangeOf(rowColumn+"1"), &sheets.ValueRange{Values: values}).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("appending %d rows to sheet %s: %w", len(rows), s.spreadsheetID, err)
	}
	return nil
}
