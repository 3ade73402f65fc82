package source

import (
	"context"
	"strconv"

	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	sheets "google.golang.org/api/sheets/v4"

	"github.com/exhibitor-tools/lineup-portal/internal/config"
	"github.com/exhibitor-tools/lineup-portal/internal/table"
)

// Sheets loads both tables from a Google spreadsheet via a service-account
// credential. This is the production backend; the sheet is the system of
// record maintained by the bookings team.
type Sheets struct {
	spreadsheetID   string
	bookingsRange   string
	lineupRange     string
	credentialsFile string
	credentialsJSON string
}

// NewSheets creates the Google Sheets backend from source configuration.
func NewSheets(cfg config.SourceConfig) *Sheets {
	return &Sheets{
		spreadsheetID:   cfg.SpreadsheetID,
		bookingsRange:   cfg.BookingsRange,
		lineupRange:     cfg.LineupRange,
		credentialsFile: cfg.CredentialsFile,
		credentialsJSON: cfg.CredentialsJSON,
	}
}

// Name implements Source.
func (s *Sheets) Name() string { return "sheets" }

// Load implements Source. Credential problems and API failures surface as
// ErrSourceUnavailable so the caller can distinguish them from data-shape
// issues (which never error).
func (s *Sheets) Load(ctx context.Context) (*table.Table, *table.Table, error) {
	if s.spreadsheetID == "" {
		return nil, nil, unavailable("sheets: no spreadsheet ID configured")
	}

	opts, err := s.clientOptions(ctx)
	if err != nil {
		return nil, nil, err
	}

	svc, err := sheets.NewService(ctx, opts...)
	if err != nil {
		return nil, nil, unavailable("sheets: creating client: %v", err)
	}

	bookings, err := s.fetch(ctx, svc, s.bookingsRange)
	if err != nil {
		return nil, nil, err
	}
	lineup, err := s.fetch(ctx, svc, s.lineupRange)
	if err != nil {
		return nil, nil, err
	}
	return bookings, lineup, nil
}

// clientOptions resolves the credential: a key file path takes precedence,
// then an inline JSON value. A missing credential is a startup error, not a
// crash; the caller logs it and exits.
func (s *Sheets) clientOptions(ctx context.Context) ([]option.ClientOption, error) {
	scope := sheets.SpreadsheetsReadonlyScope

	switch {
	case s.credentialsFile != "":
		return []option.ClientOption{
			option.WithCredentialsFile(s.credentialsFile),
			option.WithScopes(scope),
		}, nil
	case s.credentialsJSON != "":
		creds, err := google.CredentialsFromJSON(ctx, []byte(s.credentialsJSON), scope)
		if err != nil {
			return nil, unavailable("sheets: parsing credentials JSON: %v", err)
		}
		return []option.ClientOption{option.WithCredentials(creds)}, nil
	default:
		return nil, unavailable("sheets: no credentials configured (set SHEETS_CREDENTIALS_FILE or SHEETS_CREDENTIALS_JSON)")
	}
}

// fetch reads one worksheet range and flattens it into a Table. The first
// row is the header; ragged rows pad with empty cells.
func (s *Sheets) fetch(ctx context.Context, svc *sheets.Service, readRange string) (*table.Table, error) {
	resp, err := svc.Spreadsheets.Values.Get(s.spreadsheetID, readRange).
		ValueRenderOption("FORMATTED_VALUE").
		Context(ctx).
		Do()
	if err != nil {
		return nil, unavailable("sheets: reading %q: %v", readRange, err)
	}
	if len(resp.Values) == 0 {
		return nil, unavailable("sheets: range %q is empty", readRange)
	}

	headers := make([]string, len(resp.Values[0]))
	for i, v := range resp.Values[0] {
		headers[i] = sheetCell(v)
	}

	rows := make([][]string, 0, len(resp.Values)-1)
	for _, raw := range resp.Values[1:] {
		row := make([]string, len(raw))
		for i, v := range raw {
			row[i] = sheetCell(v)
		}
		rows = append(rows, row)
	}
	return table.New(headers, rows), nil
}

// sheetCell renders one API cell value as a string. With FORMATTED_VALUE the
// API returns strings for almost everything, but numbers can still arrive as
// float64 depending on the sheet's formatting.
func sheetCell(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case bool:
		if val {
			return "TRUE"
		}
		return "FALSE"
	default:
		return ""
	}
}
