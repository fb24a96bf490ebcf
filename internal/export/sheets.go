package export

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"

	"wastechart/internal/log"
)

// SheetsConfig selects the spreadsheet and the service account used to write it.
type SheetsConfig struct {
	SpreadsheetID   string
	CredentialsJSON string
	CredentialsFile string
}

// Publisher writes monthly tables into a Google Sheets tab named after the period.
type Publisher struct {
	svc           *gsheet.Service
	spreadsheetID string
	logger        *log.Logger
}

// NewPublisher builds a Sheets client from service account credentials.
// Extra options are appended last and can override the endpoint or HTTP client.
func NewPublisher(ctx context.Context, cfg SheetsConfig, logger *log.Logger, opts ...option.ClientOption) (*Publisher, error) {
	id := strings.TrimSpace(cfg.SpreadsheetID)
	if id == "" {
		return nil, errors.New("missing spreadsheet id")
	}

	var clientOpts []option.ClientOption
	if len(opts) == 0 {
		creds, err := credentials(cfg)
		if err != nil {
			return nil, err
		}
		clientOpts = append(clientOpts,
			option.WithCredentialsJSON(creds),
			option.WithScopes(gsheet.SpreadsheetsScope))
	}
	clientOpts = append(clientOpts, opts...)

	svc, err := gsheet.NewService(ctx, clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}
	return &Publisher{svc: svc, spreadsheetID: id, logger: logger.WithComponent(log.ComponentExport)}, nil
}

func credentials(cfg SheetsConfig) ([]byte, error) {
	switch {
	case strings.TrimSpace(cfg.CredentialsJSON) != "":
		return []byte(cfg.CredentialsJSON), nil
	case strings.TrimSpace(cfg.CredentialsFile) != "":
		b, err := os.ReadFile(cfg.CredentialsFile)
		if err != nil {
			return nil, fmt.Errorf("read service account file: %w", err)
		}
		return b, nil
	}
	return nil, errors.New("missing service account credentials (set GOOGLE_SERVICE_ACCOUNT_JSON or GOOGLE_SERVICE_ACCOUNT_FILE)")
}

// Publish replaces the contents of the period's tab with the department,
// category and summary tables side by side. The tab is created when missing.
func (p *Publisher) Publish(ctx context.Context, t Tables) (string, error) {
	tab := t.PeriodLabel()

	exists, err := p.hasTab(ctx, tab)
	if err != nil {
		return "", err
	}
	if !exists {
		req := &gsheet.BatchUpdateSpreadsheetRequest{Requests: []*gsheet.Request{{
			AddSheet: &gsheet.AddSheetRequest{Properties: &gsheet.SheetProperties{Title: tab}},
		}}}
		if _, err := p.svc.Spreadsheets.BatchUpdate(p.spreadsheetID, req).Context(ctx).Do(); err != nil {
			return "", fmt.Errorf("add sheet %q: %w", tab, err)
		}
		p.logger.InfoContext(ctx, "Created sheet tab", "tab", tab)
	}

	if _, err := p.svc.Spreadsheets.Values.Clear(p.spreadsheetID, a1(tab, "A:H"), &gsheet.ClearValuesRequest{}).
		Context(ctx).Do(); err != nil {
		return "", fmt.Errorf("clear %q: %w", tab, err)
	}

	blocks := []struct {
		cell   string
		values [][]any
	}{
		{"A1", t.DepartmentValues()},
		{"D1", t.CategoryValues()},
		{"G1", t.SummaryValues()},
	}
	for _, b := range blocks {
		vr := &gsheet.ValueRange{Values: b.values}
		if _, err := p.svc.Spreadsheets.Values.Update(p.spreadsheetID, a1(tab, b.cell), vr).
			ValueInputOption("RAW").Context(ctx).Do(); err != nil {
			return "", fmt.Errorf("write %s!%s: %w", tab, b.cell, err)
		}
	}

	p.logger.InfoContext(ctx, "Published tables",
		"tab", tab,
		"departments", len(t.Departments),
		"categories", len(t.Categories))
	return tab, nil
}

func (p *Publisher) hasTab(ctx context.Context, tab string) (bool, error) {
	ss, err := p.svc.Spreadsheets.Get(p.spreadsheetID).Fields("sheets.properties.title").Context(ctx).Do()
	if err != nil {
		return false, fmt.Errorf("get spreadsheet: %w", err)
	}
	for _, s := range ss.Sheets {
		if s.Properties != nil && s.Properties.Title == tab {
			return true, nil
		}
	}
	return false, nil
}

func a1(tab, rng string) string {
	return fmt.Sprintf("'%s'!%s", tab, rng)
}
