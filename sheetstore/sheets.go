package sheetstore

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/api/sheets/v4"
)

// SheetStore implements Store on top of one Google Sheets spreadsheet, one
// worksheet per table, first row as header.
type SheetStore struct {
	svc           *sheets.Service
	spreadsheetId string
}

func NewSheetStore(svc *sheets.Service, spreadsheetId string) *SheetStore {
	return &SheetStore{svc: svc, spreadsheetId: spreadsheetId}
}

func (s *SheetStore) GetOrCreate(ctx context.Context, spec TableSpec) error {
	meta, err := s.svc.Spreadsheets.Get(s.spreadsheetId).Fields("sheets.properties.title").Context(ctx).Do()
	if err != nil {
		return err
	}
	for _, sh := range meta.Sheets {
		if sh.Properties != nil && sh.Properties.Title == spec.Name {
			return nil
		}
	}

	_, err = s.svc.Spreadsheets.BatchUpdate(s.spreadsheetId, &sheets.BatchUpdateSpreadsheetRequest{
		Requests: []*sheets.Request{{
			AddSheet: &sheets.AddSheetRequest{
				Properties: &sheets.SheetProperties{
					Title: spec.Name,
					GridProperties: &sheets.GridProperties{
						ColumnCount: int64(len(spec.Columns)),
					},
				},
			},
		}},
	}).Context(ctx).Do()
	if err != nil {
		return err
	}

	header := make([]interface{}, len(spec.Columns))
	for i, c := range spec.Columns {
		header[i] = c
	}
	return s.AppendRow(ctx, spec.Name, header)
}

func (s *SheetStore) ReadAll(ctx context.Context, table string) ([]Record, ReadStatus, error) {
	resp, err := s.svc.Spreadsheets.Values.Get(s.spreadsheetId, quoteRange(table)).Context(ctx).Do()
	if err != nil {
		switch Classify(err) {
		case KindNotFound, KindMalformed:
			return nil, ReadDegraded, nil
		default:
			return nil, ReadDegraded, err
		}
	}

	if len(resp.Values) == 0 {
		return nil, ReadEmpty, nil
	}

	header := make([]string, 0, len(resp.Values[0]))
	usable := false
	for _, cell := range resp.Values[0] {
		name := strings.TrimSpace(fmt.Sprint(cell))
		header = append(header, name)
		if name != "" {
			usable = true
		}
	}
	if !usable {
		return nil, ReadDegraded, nil
	}

	if len(resp.Values) == 1 {
		return nil, ReadEmpty, nil
	}

	records := make([]Record, 0, len(resp.Values)-1)
	for _, row := range resp.Values[1:] {
		rec := make(Record, len(header))
		for i, cell := range row {
			if i >= len(header) || header[i] == "" {
				continue
			}
			rec[header[i]] = fmt.Sprint(cell)
		}
		records = append(records, rec)
	}
	return records, ReadOK, nil
}

func (s *SheetStore) AppendRow(ctx context.Context, table string, values []interface{}) error {
	_, err := s.svc.Spreadsheets.Values.Append(s.spreadsheetId, quoteRange(table), &sheets.ValueRange{
		Values: [][]interface{}{values},
	}).ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).Do()
	return err
}

// quoteRange wraps the worksheet title so names with spaces resolve.
func quoteRange(table string) string {
	return "'" + strings.ReplaceAll(table, "'", "''") + "'"
}
