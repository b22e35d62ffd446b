package sheet

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

var _ TableStore = (*GoogleSheet)(nil)

type GoogleSheetsConfig struct {
	SpreadsheetID   string        `envconfig:"SPREADSHEET_ID"`
	SheetName       string        `split_words:"true"`
	SheetID         int64         `envconfig:"SHEET_ID" default:"0"`
	CredentialsFile string        `split_words:"true"`
	CredentialsJSON string        `envconfig:"CREDENTIALS_JSON"`
	Timeout         time.Duration `split_words:"true" default:"15s"`
}

// GoogleSheet is a TableStore over one tab of a Google spreadsheet.
type GoogleSheet struct {
	svc           *sheets.Service
	spreadsheetID string
	sheetName     string
	sheetID       int64
	timeout       time.Duration
}

// NewGoogleSheet authenticates with a service account. Extra options are
// appended last, which lets tests point the client at a local server.
func NewGoogleSheet(ctx context.Context, cfg GoogleSheetsConfig, opts ...option.ClientOption) (*GoogleSheet, error) {
	id := strings.TrimSpace(cfg.SpreadsheetID)
	if id == "" {
		return nil, errors.New("spreadsheet id is required")
	}

	clientOpts := []option.ClientOption{option.WithScopes(sheets.SpreadsheetsScope)}
	switch {
	case strings.TrimSpace(cfg.CredentialsJSON) != "":
		clientOpts = append(clientOpts, option.WithCredentialsJSON([]byte(cfg.CredentialsJSON)))
	case strings.TrimSpace(cfg.CredentialsFile) != "":
		clientOpts = append(clientOpts, option.WithCredentialsFile(cfg.CredentialsFile))
	}
	clientOpts = append(clientOpts, opts...)

	svc, err := sheets.NewService(ctx, clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}

	return &GoogleSheet{
		svc:           svc,
		spreadsheetID: id,
		sheetName:     strings.TrimSpace(cfg.SheetName),
		sheetID:       cfg.SheetID,
		timeout:       cfg.Timeout,
	}, nil
}

func (g *GoogleSheet) a1(rng Range) string {
	if g.sheetName == "" {
		return rng.A1()
	}
	return "'" + strings.ReplaceAll(g.sheetName, "'", "''") + "'!" + rng.A1()
}

func (g *GoogleSheet) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if g.timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, g.timeout)
}

func (g *GoogleSheet) GetRange(ctx context.Context, rng Range) ([][]string, error) {
	ctx, cancel := g.withTimeout(ctx)
	defer cancel()

	resp, err := g.svc.Spreadsheets.Values.Get(g.spreadsheetID, g.a1(rng)).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("sheets get %s: %w", rng.A1(), err)
	}

	out := make([][]string, 0, len(resp.Values))
	for _, row := range resp.Values {
		cells := make([]string, len(row))
		for i, v := range row {
			cells[i] = fmt.Sprint(v)
		}
		out = append(out, cells)
	}
	return out, nil
}

func (g *GoogleSheet) AppendRow(ctx context.Context, values []string) error {
	ctx, cancel := g.withTimeout(ctx)
	defer cancel()

	body := &sheets.ValueRange{Values: [][]interface{}{toInterfaces(values)}}
	_, err := g.svc.Spreadsheets.Values.Append(g.spreadsheetID, g.a1(AllColumns), body).
		ValueInputOption("RAW").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("sheets append: %w", err)
	}
	return nil
}

func (g *GoogleSheet) UpdateRow(ctx context.Context, rowIndex int, values []string) error {
	ctx, cancel := g.withTimeout(ctx)
	defer cancel()

	rng := AllColumns.Row(rowIndex)
	body := &sheets.ValueRange{Values: [][]interface{}{toInterfaces(values)}}
	_, err := g.svc.Spreadsheets.Values.Update(g.spreadsheetID, g.a1(rng), body).
		ValueInputOption("RAW").
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("sheets update %s: %w", rng.A1(), err)
	}
	return nil
}

func (g *GoogleSheet) DeleteRow(ctx context.Context, rowIndex int) error {
	ctx, cancel := g.withTimeout(ctx)
	defer cancel()

	req := &sheets.BatchUpdateSpreadsheetRequest{
		Requests: []*sheets.Request{{
			DeleteDimension: &sheets.DeleteDimensionRequest{
				Range: &sheets.DimensionRange{
					SheetId:         g.sheetID,
					Dimension:       "ROWS",
					StartIndex:      int64(rowIndex),
					EndIndex:        int64(rowIndex + 1),
					ForceSendFields: []string{"SheetId", "StartIndex"},
				},
			},
		}},
	}
	if _, err := g.svc.Spreadsheets.BatchUpdate(g.spreadsheetID, req).Context(ctx).Do(); err != nil {
		return fmt.Errorf("sheets delete row %d: %w", rowIndex, err)
	}
	return nil
}

func toInterfaces(values []string) []interface{} {
	out := make([]interface{}, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}
