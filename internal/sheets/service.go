package sheets

import (
	"context"
	"fmt"
	"os"

	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

// Service wraps the Sheets API for the two operations the pipeline
// needs: reading a source tab and replacing a derived tab wholesale.
type Service struct {
	srv           *sheets.Service
	spreadsheetID string
}

func NewService(ctx context.Context, credentialsFile, spreadsheetID string) (*Service, error) {
	if spreadsheetID == "" {
		return nil, fmt.Errorf("spreadsheet id must be provided")
	}

	credentialsJSON, err := os.ReadFile(credentialsFile)
	if err != nil {
		return nil, fmt.Errorf("unable to read credentials file: %w", err)
	}

	config, err := google.JWTConfigFromJSON(credentialsJSON, sheets.SpreadsheetsScope)
	if err != nil {
		return nil, fmt.Errorf("unable to parse client secret file to config: %w", err)
	}

	// Create the JWT client
	client := config.Client(ctx)

	srv, err := sheets.NewService(ctx, option.WithHTTPClient(client))
	if err != nil {
		return nil, fmt.Errorf("unable to retrieve Sheets client: %w", err)
	}

	return &Service{srv: srv, spreadsheetID: spreadsheetID}, nil
}

// ReadTab returns every row of the named tab as strings. An empty tab
// returns an empty slice, not an error.
func (s *Service) ReadTab(ctx context.Context, tab string) ([][]string, error) {
	resp, err := s.srv.Spreadsheets.Values.Get(s.spreadsheetID, tab).
		ValueRenderOption("UNFORMATTED_VALUE").
		DateTimeRenderOption("FORMATTED_STRING").
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("unable to read tab %s: %w", tab, err)
	}

	rows := make([][]string, 0, len(resp.Values))
	for _, raw := range resp.Values {
		row := make([]string, len(raw))
		for i, cell := range raw {
			row[i] = fmt.Sprint(cell)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// ReplaceTab clears the named tab and writes the given rows from A1.
// Derived tabs are always replaced as a whole, never patched in place.
func (s *Service) ReplaceTab(ctx context.Context, tab string, rows [][]interface{}) error {
	if _, err := s.srv.Spreadsheets.Values.Clear(s.spreadsheetID, tab, &sheets.ClearValuesRequest{}).
		Context(ctx).
		Do(); err != nil {
		return fmt.Errorf("unable to clear tab %s: %w", tab, err)
	}

	body := &sheets.ValueRange{Values: rows}
	if _, err := s.srv.Spreadsheets.Values.Update(s.spreadsheetID, tab+"!A1", body).
		ValueInputOption("RAW").
		Context(ctx).
		Do(); err != nil {
		return fmt.Errorf("unable to write tab %s: %w", tab, err)
	}
	return nil
}
